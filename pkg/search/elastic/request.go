package elastic

import (
	"fmt"
	"math"
	"strings"

	"github.com/matst80/slask-facets/pkg/search"
)

// maxBuckets stands in for an unlimited facet limit.
const maxBuckets = 10000

// Aggregation names may not contain brackets, so requests are named by
// position and mapped back when reading the response.
func fieldAggName(i int) string { return fmt.Sprintf("f_%d", i) }
func queryAggName(i int) string { return fmt.Sprintf("q_%d", i) }
func statsAggName(i int) string { return fmt.Sprintf("s_%d", i) }

func (e *Engine) keyword(field string) string {
	return field + e.keywordSuffix
}

func (e *Engine) expressionClause(field, expression string) map[string]any {
	expr := search.ParseExpression(expression)
	if !expr.IsRange {
		return map[string]any{
			"term": map[string]any{e.keyword(field): expr.Value},
		}
	}
	bounds := map[string]any{}
	if !math.IsInf(expr.Min, -1) {
		bounds["gte"] = expr.Min
	}
	if !math.IsInf(expr.Max, 1) {
		bounds["lte"] = expr.Max
	}
	return map[string]any{
		"range": map[string]any{field: bounds},
	}
}

// buildBody translates a search.Query into an Elasticsearch search body.
func (e *Engine) buildBody(q search.Query) map[string]any {
	boolQuery := map[string]any{}
	if text := strings.TrimSpace(q.Text); text != "" {
		boolQuery["must"] = []any{
			map[string]any{
				"match": map[string]any{
					e.textField: map[string]any{"query": text, "operator": "and"},
				},
			},
		}
	}
	if len(q.Filters) > 0 {
		filters := make([]any, 0, len(q.Filters))
		for _, f := range q.Filters {
			filters = append(filters, e.expressionClause(f.Field, f.Expression))
		}
		boolQuery["filter"] = filters
	}

	aggs := map[string]any{}
	for i, ff := range q.FieldFacets {
		size := ff.EffectiveLimit()
		if size == 0 {
			continue
		}
		if size < 0 {
			size = maxBuckets
		}
		aggs[fieldAggName(i)] = map[string]any{
			"terms": map[string]any{
				"field":         e.keyword(ff.Field),
				"size":          size,
				"min_doc_count": ff.EffectiveMinCount(),
			},
		}
	}
	for i, qf := range q.QueryFacets {
		aggs[queryAggName(i)] = map[string]any{
			"filter": e.expressionClause(qf.Field, qf.Expression),
		}
	}
	for i, field := range q.Stats {
		aggs[statsAggName(i)] = map[string]any{
			"stats": map[string]any{"field": field},
		}
	}

	size := max(q.PageSize, 0)
	body := map[string]any{
		"from":             max(q.Page, 0) * size,
		"size":             size,
		"track_total_hits": true,
		"query":            map[string]any{"bool": boolQuery},
	}
	if len(aggs) > 0 {
		body["aggs"] = aggs
	}
	return body
}
