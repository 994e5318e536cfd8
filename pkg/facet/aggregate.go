package facet

import "github.com/matst80/slask-facets/pkg/search"

// Entry is one renderable line of a facet. At most one of SelectURL and
// DeselectURL is set, chosen by Selected.
type Entry struct {
	Name         string        `json:"name"`
	Count        int           `json:"count"`
	Selected     bool          `json:"selected"`
	SelectURL    string        `json:"select_url,omitempty"`
	DeselectURL  string        `json:"deselect_url,omitempty"`
	SelectAllURL string        `json:"select_all_url,omitempty"`
	Stats        *search.Stats `json:"stats,omitempty"`
}

type Data struct {
	Name    string        `json:"name"`
	Results []Entry       `json:"results"`
	Stats   *search.Stats `json:"stats,omitempty"`
}

// Dataset maps facet key to its render ready data. Iterate the registry
// keys for a stable order.
type Dataset map[string]Data

// HasFacets reports whether any facet produced at least one entry.
func (d Dataset) HasFacets() bool {
	for _, data := range d {
		if len(data.Results) > 0 {
			return true
		}
	}
	return false
}

// RequestContext is what the aggregator needs from the web layer: the URL of
// the page being rendered and the path of the listing that select all links
// point at.
type RequestContext struct {
	Current  URL
	AllRoute string
}

func NewRequestContext(requestURI, allRoute string) RequestContext {
	return RequestContext{Current: ParseURL(requestURI), AllRoute: allRoute}
}

// Aggregate turns raw engine results into the facet dataset. Without results
// it returns an empty dataset.
func Aggregate(rc RequestContext, sel Selection, r *Registry, raw *search.RawResults) Dataset {
	ds := Dataset{}
	if r == nil || raw.Empty() {
		return ds
	}
	for _, f := range r.fields {
		ds[f.Key] = fieldData(rc, sel, f, raw)
	}
	for _, f := range r.queries {
		ds[f.Key] = queryData(rc, sel, f, raw)
	}
	return ds
}

func fieldData(rc RequestContext, sel Selection, f FieldFacet, raw *search.RawResults) Data {
	data := Data{Name: f.Name, Results: []Entry{}}
	if f.CollectStats {
		data.Stats = raw.StatsFor(f.Field)
	}
	filter := f.Filter()
	for _, vc := range raw.Counts(f.Field) {
		// zero counts are kept only when a min count was configured
		if vc.Count == 0 && f.MinCount == nil {
			continue
		}
		e := Entry{
			Name:         vc.Value,
			Count:        vc.Count,
			SelectAllURL: GlobalURL(rc.AllRoute, filter, vc.Value),
		}
		if sel.Contains(Pair{Filter: filter, Value: vc.Value}) {
			e.Selected = true
			e.DeselectURL = rc.Current.WithRemoved(filter, vc.Value).String()
		} else if vc.Count > 0 {
			e.SelectURL = rc.Current.WithAdded(filter, vc.Value).String()
		}
		data.Results = append(data.Results, e)
	}
	return data
}

func queryData(rc RequestContext, sel Selection, f QueryFacet, raw *search.RawResults) Data {
	data := Data{Name: f.Name, Results: []Entry{}}
	filter := f.Filter()
	queries := f.Queries
	if f.Type == Dynamic && len(queries) > 1 {
		queries = queries[:1]
	}
	for _, nq := range queries {
		expr, fromSelection := nq.Expression, false
		if f.Type == Dynamic {
			expr, fromSelection = f.ActiveExpression(sel)
		}
		count, found := raw.QueryCount(search.QueryKey(f.Field, expr))
		if !found {
			data.Results = append(data.Results, Entry{Name: nq.Label})
			continue
		}
		e := Entry{
			Name:         nq.Label,
			Count:        count,
			SelectAllURL: GlobalURL(rc.AllRoute, filter, expr),
		}
		if f.CollectStats {
			e.Stats = raw.StatsFor(f.Field)
		}
		switch {
		case f.Type == Dynamic && !fromSelection:
			// the default range is always in effect, there is nothing to remove
			e.Selected = true
			e.DeselectURL = rc.Current.String()
		case sel.Contains(Pair{Filter: filter, Value: expr}):
			e.Selected = true
			e.DeselectURL = rc.Current.WithRemoved(filter, expr).String()
		default:
			e.SelectURL = rc.Current.WithAdded(filter, expr).String()
		}
		data.Results = append(data.Results, e)
	}
	return data
}
