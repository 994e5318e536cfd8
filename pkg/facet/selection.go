package facet

import (
	"net/url"
	"strings"

	"github.com/matst80/slask-facets/pkg/search"
)

const (
	SelectedFacetsParam = "selected_facets"
	PageParam           = "page"
	tokenSeparator      = ":"
)

// Pair is one applied facet: a field filter token such as brand_exact and
// the value it is restricted to.
type Pair struct {
	Filter string `json:"filter"`
	Value  string `json:"value"`
}

func (p Pair) Token() string {
	return p.Filter + tokenSeparator + p.Value
}

// Field returns the indexed field name behind the filter token.
func (p Pair) Field() string {
	return strings.TrimSuffix(p.Filter, search.ExactSuffix)
}

func FilterFor(field string) string {
	return field + search.ExactSuffix
}

// ParseToken splits a selected_facets value on its first separator. Tokens
// without a separator are not selections and report false.
func ParseToken(token string) (Pair, bool) {
	filter, value, ok := strings.Cut(token, tokenSeparator)
	if !ok {
		return Pair{}, false
	}
	return Pair{Filter: filter, Value: value}, true
}

// Selection is the set of facets applied by the current request. It is
// built once per request and never changed afterwards.
type Selection struct {
	pairs map[Pair]struct{}
	order []Pair
}

func NewSelection(pairs ...Pair) Selection {
	s := Selection{pairs: make(map[Pair]struct{}, len(pairs))}
	for _, p := range pairs {
		s.add(p)
	}
	return s
}

func (s *Selection) add(p Pair) {
	if _, found := s.pairs[p]; found {
		return
	}
	s.pairs[p] = struct{}{}
	s.order = append(s.order, p)
}

// ParseSelection reads the selected_facets values of a raw query string.
// Unparseable input is skipped, never reported.
func ParseSelection(rawQuery string) Selection {
	values, _ := url.ParseQuery(rawQuery)
	return SelectionFromValues(values)
}

func SelectionFromValues(values url.Values) Selection {
	s := NewSelection()
	for _, token := range values[SelectedFacetsParam] {
		if p, ok := ParseToken(token); ok {
			s.add(p)
		}
	}
	return s
}

func (s Selection) Contains(p Pair) bool {
	_, found := s.pairs[p]
	return found
}

// Value returns the selected value for a filter token. When the same filter
// is selected more than once the last occurrence in the query string wins.
func (s Selection) Value(filter string) (string, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		if s.order[i].Filter == filter {
			return s.order[i].Value, true
		}
	}
	return "", false
}

func (s Selection) Pairs() []Pair {
	ret := make([]Pair, len(s.order))
	copy(ret, s.order)
	return ret
}

func (s Selection) Len() int {
	return len(s.order)
}
