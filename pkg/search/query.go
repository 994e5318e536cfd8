package search

import (
	"context"
	"slices"
)

// ExactSuffix is appended to a field name to form the filter token used in
// selected_facets values and in query facet result keys.
const ExactSuffix = "_exact"

const (
	DefaultMinCount = 1
	DefaultLimit    = 100
)

type Filter struct {
	Field      string `json:"field"`
	Expression string `json:"expression"`
}

type FieldFacetRequest struct {
	Field    string `json:"field"`
	MinCount *int   `json:"minCount,omitempty"`
	Limit    *int   `json:"limit,omitempty"`
}

// EffectiveMinCount returns the configured minimum count or the engine default.
func (f FieldFacetRequest) EffectiveMinCount() int {
	if f.MinCount == nil {
		return DefaultMinCount
	}
	return *f.MinCount
}

func (f FieldFacetRequest) EffectiveLimit() int {
	if f.Limit == nil {
		return DefaultLimit
	}
	return *f.Limit
}

type QueryFacetRequest struct {
	Field      string `json:"field"`
	Expression string `json:"expression"`
}

// Key is the name the engine reports the sub-query count under.
func (q QueryFacetRequest) Key() string {
	return QueryKey(q.Field, q.Expression)
}

func QueryKey(field, expression string) string {
	return field + ExactSuffix + ":" + expression
}

// Query is an immutable description of one engine call. Every With method
// returns a new value and leaves the receiver untouched.
type Query struct {
	Text        string              `json:"text,omitempty"`
	Filters     []Filter            `json:"filters,omitempty"`
	FieldFacets []FieldFacetRequest `json:"fieldFacets,omitempty"`
	QueryFacets []QueryFacetRequest `json:"queryFacets,omitempty"`
	Stats       []string            `json:"stats,omitempty"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"pageSize"`
}

func NewQuery(text string, page, pageSize int) Query {
	return Query{Text: text, Page: page, PageSize: pageSize}
}

// Clone returns a copy that shares no slices with q.
func (q Query) Clone() Query {
	q.Filters = slices.Clone(q.Filters)
	q.FieldFacets = slices.Clone(q.FieldFacets)
	q.QueryFacets = slices.Clone(q.QueryFacets)
	q.Stats = slices.Clone(q.Stats)
	return q
}

func (q Query) WithFilter(field, expression string) Query {
	r := q.Clone()
	r.Filters = append(r.Filters, Filter{Field: field, Expression: expression})
	return r
}

func (q Query) WithFieldFacet(field string, minCount, limit *int) Query {
	r := q.Clone()
	r.FieldFacets = append(r.FieldFacets, FieldFacetRequest{
		Field:    field,
		MinCount: copyInt(minCount),
		Limit:    copyInt(limit),
	})
	return r
}

func (q Query) WithQueryFacet(field, expression string) Query {
	r := q.Clone()
	r.QueryFacets = append(r.QueryFacets, QueryFacetRequest{Field: field, Expression: expression})
	return r
}

// WithStats requests numeric statistics for field. Asking twice for the same
// field is a no-op.
func (q Query) WithStats(field string) Query {
	if slices.Contains(q.Stats, field) {
		return q.Clone()
	}
	r := q.Clone()
	r.Stats = append(r.Stats, field)
	return r
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

type Stats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Hit struct {
	Id     string         `json:"id"`
	Title  string         `json:"title"`
	Fields map[string]any `json:"fields,omitempty"`
}

// RawResults is what an engine returns for one Query.
type RawResults struct {
	Total       int                     `json:"total"`
	Hits        []Hit                   `json:"hits"`
	FieldCounts map[string][]ValueCount `json:"fieldCounts"`
	QueryCounts map[string]int          `json:"queryCounts"`
	FieldStats  map[string]*Stats       `json:"fieldStats"`
}

func NewRawResults() *RawResults {
	return &RawResults{
		Hits:        []Hit{},
		FieldCounts: map[string][]ValueCount{},
		QueryCounts: map[string]int{},
		FieldStats:  map[string]*Stats{},
	}
}

// Counts returns the value counts for field in engine order.
func (r *RawResults) Counts(field string) []ValueCount {
	if r == nil {
		return nil
	}
	return r.FieldCounts[field]
}

func (r *RawResults) QueryCount(key string) (int, bool) {
	if r == nil {
		return 0, false
	}
	c, ok := r.QueryCounts[key]
	return c, ok
}

func (r *RawResults) StatsFor(field string) *Stats {
	if r == nil {
		return nil
	}
	return r.FieldStats[field]
}

// Empty reports whether there is nothing to build facets from.
func (r *RawResults) Empty() bool {
	return r == nil || (len(r.FieldCounts) == 0 && len(r.QueryCounts) == 0 && len(r.FieldStats) == 0)
}

type Engine interface {
	Execute(ctx context.Context, q Query) (*RawResults, error)
}
