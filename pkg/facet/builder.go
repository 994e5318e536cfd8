package facet

import (
	"slices"

	"github.com/matst80/slask-facets/pkg/search"
)

// ActiveExpression is the query a dynamic facet currently runs: the
// selected value for its field when there is one, otherwise the configured
// default. fromSelection tells which of the two it is.
func (f QueryFacet) ActiveExpression(sel Selection) (expr string, fromSelection bool) {
	if v, ok := sel.Value(f.Filter()); ok {
		return v, true
	}
	if len(f.Queries) == 0 {
		return "", false
	}
	return f.Queries[0].Expression, false
}

// BuildQuery adds every facet, query facet and stats request of the registry
// to base. The base query is not modified.
func BuildQuery(r *Registry, base search.Query, sel Selection) search.Query {
	q := base.Clone()
	for _, f := range r.fields {
		q = q.WithFieldFacet(f.Field, f.MinCount, f.Limit)
		if f.CollectStats {
			q = q.WithStats(f.Field)
		}
	}
	for _, f := range r.queries {
		switch f.Type {
		case Dynamic:
			expr, _ := f.ActiveExpression(sel)
			q = q.WithQueryFacet(f.Field, expr)
		default:
			for _, nq := range f.Queries {
				q = q.WithQueryFacet(f.Field, nq.Expression)
			}
		}
		if f.CollectStats {
			q = q.WithStats(f.Field)
		}
	}
	return q
}

// NarrowQuery restricts base to the current selection. Tokens for fields the
// registry does not know are stale or tampered links and are skipped.
func NarrowQuery(r *Registry, base search.Query, sel Selection) search.Query {
	known := r.IndexedFields()
	q := base.Clone()
	for _, p := range sel.order {
		if p.Filter == FilterFor(p.Field()) && slices.Contains(known, p.Field()) {
			q = q.WithFilter(p.Field(), p.Value)
		}
	}
	return q
}
