package memory

import (
	"context"
	"math"
	"slices"
	"sort"

	"github.com/matst80/slask-facets/pkg/search"
)

type document struct {
	hit    search.Hit
	tokens []search.Token
}

// Engine answers facet queries over a fixed set of documents held in memory.
// It is immutable after NewEngine and safe for concurrent use.
type Engine struct {
	docs      []document
	tokenizer search.Tokenizer
	// field -> value -> document positions, in order of first appearance
	keys   map[string]map[string][]int
	values map[string][]string
}

func NewEngine(hits []search.Hit) *Engine {
	e := &Engine{
		docs:      make([]document, 0, len(hits)),
		tokenizer: search.Tokenizer{MaxTokens: 128},
		keys:      map[string]map[string][]int{},
		values:    map[string][]string{},
	}
	for _, h := range hits {
		pos := len(e.docs)
		e.docs = append(e.docs, document{hit: h, tokens: e.tokenizer.Tokenize(h.Title)})
		for field, v := range h.Fields {
			for _, s := range stringValues(v) {
				e.addKey(field, s, pos)
			}
		}
	}
	return e
}

func (e *Engine) addKey(field, value string, pos int) {
	vals, ok := e.keys[field]
	if !ok {
		vals = map[string][]int{}
		e.keys[field] = vals
	}
	if _, seen := vals[value]; !seen {
		e.values[field] = append(e.values[field], value)
	}
	if ids := vals[value]; len(ids) == 0 || ids[len(ids)-1] != pos {
		vals[value] = append(ids, pos)
	}
}

func stringValues(v any) []string {
	switch val := v.(type) {
	case []any:
		ret := make([]string, 0, len(val))
		for _, item := range val {
			if s := search.FormatValue(item); s != "" {
				ret = append(ret, s)
			}
		}
		return ret
	case []string:
		return val
	}
	if s := search.FormatValue(v); s != "" {
		return []string{s}
	}
	return nil
}

// HasField reports whether any document carries field.
func (e *Engine) HasField(field string) bool {
	_, ok := e.keys[field]
	return ok
}

func (e *Engine) Len() int {
	return len(e.docs)
}

func (e *Engine) Execute(ctx context.Context, q search.Query) (*search.RawResults, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched := e.match(q)
	res := search.NewRawResults()
	res.Total = len(matched)
	res.Hits = e.page(matched, q.Page, q.PageSize)

	inResult := make([]bool, len(e.docs))
	for _, pos := range matched {
		inResult[pos] = true
	}
	for _, ff := range q.FieldFacets {
		res.FieldCounts[ff.Field] = e.fieldCounts(ff, inResult)
	}
	for _, qf := range q.QueryFacets {
		expr := search.ParseExpression(qf.Expression)
		count := 0
		for _, pos := range matched {
			if expr.Matches(e.docs[pos].hit.Fields[qf.Field]) {
				count++
			}
		}
		res.QueryCounts[qf.Key()] = count
	}
	for _, field := range q.Stats {
		if s := e.stats(field, matched); s != nil {
			res.FieldStats[field] = s
		}
	}
	return res, nil
}

func (e *Engine) match(q search.Query) []int {
	tokens := e.tokenizer.Tokenize(q.Text)
	filters := make([]search.Expression, len(q.Filters))
	for i, f := range q.Filters {
		filters[i] = search.ParseExpression(f.Expression)
	}
	ret := make([]int, 0, len(e.docs))
outer:
	for pos, d := range e.docs {
		for _, t := range tokens {
			if !slices.Contains(d.tokens, t) {
				continue outer
			}
		}
		for i, f := range q.Filters {
			if !filters[i].Matches(d.hit.Fields[f.Field]) {
				continue outer
			}
		}
		ret = append(ret, pos)
	}
	return ret
}

func (e *Engine) page(matched []int, page, size int) []search.Hit {
	if size <= 0 {
		return []search.Hit{}
	}
	start := max(page, 0) * size
	if start >= len(matched) {
		return []search.Hit{}
	}
	end := min(start+size, len(matched))
	ret := make([]search.Hit, 0, end-start)
	for _, pos := range matched[start:end] {
		ret = append(ret, e.docs[pos].hit)
	}
	return ret
}

// fieldCounts counts every known value of the field within the result,
// highest count first, then by value.
func (e *Engine) fieldCounts(ff search.FieldFacetRequest, inResult []bool) []search.ValueCount {
	minCount := ff.EffectiveMinCount()
	limit := ff.EffectiveLimit()
	ret := make([]search.ValueCount, 0)
	for _, value := range e.values[ff.Field] {
		count := 0
		for _, pos := range e.keys[ff.Field][value] {
			if inResult[pos] {
				count++
			}
		}
		if count < minCount {
			continue
		}
		ret = append(ret, search.ValueCount{Value: value, Count: count})
	}
	sort.SliceStable(ret, func(i, j int) bool {
		if ret[i].Count != ret[j].Count {
			return ret[i].Count > ret[j].Count
		}
		return ret[i].Value < ret[j].Value
	})
	if limit >= 0 && len(ret) > limit {
		ret = ret[:limit]
	}
	return ret
}

func (e *Engine) stats(field string, matched []int) *search.Stats {
	s := search.Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, pos := range matched {
		f, ok := search.ToFloat(e.docs[pos].hit.Fields[field])
		if !ok {
			continue
		}
		s.Count++
		s.Sum += f
		s.Min = min(s.Min, f)
		s.Max = max(s.Max, f)
	}
	if s.Count == 0 {
		return nil
	}
	s.Mean = s.Sum / float64(s.Count)
	return &s
}
