package facet

import (
	"net/url"
	"strings"
)

type param struct {
	key   string
	value string
}

// URL is an immutable path plus ordered query parameters. Every operation
// returns a new value.
type URL struct {
	path   string
	params []param
}

// ParseURL accepts a request URI or path with an optional query string.
// Fragments are dropped and undecodable parameters are kept verbatim.
func ParseURL(raw string) URL {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	path, rawQuery, _ := strings.Cut(raw, "?")
	u := URL{path: path}
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		u.params = append(u.params, param{key: unescape(k), value: unescape(v)})
	}
	return u
}

func unescape(s string) string {
	if d, err := url.QueryUnescape(s); err == nil {
		return d
	}
	return s
}

func (u URL) Path() string {
	return u.path
}

func (u URL) Has(key string) bool {
	for _, p := range u.params {
		if p.key == key {
			return true
		}
	}
	return false
}

func (u URL) Values(key string) []string {
	var ret []string
	for _, p := range u.params {
		if p.key == key {
			ret = append(ret, p.value)
		}
	}
	return ret
}

func (u URL) without(keep func(p param) bool) URL {
	r := URL{path: u.path, params: make([]param, 0, len(u.params))}
	for _, p := range u.params {
		if keep(p) {
			r.params = append(r.params, p)
		}
	}
	return r
}

func (u URL) WithoutParam(key string) URL {
	return u.without(func(p param) bool { return p.key != key })
}

func (u URL) WithParam(key, value string) URL {
	r := u.without(func(param) bool { return true })
	r.params = append(r.params, param{key: key, value: value})
	return r
}

// WithAdded appends one selected_facets entry. The page parameter is
// dropped since the current offset means nothing for the new result set.
func (u URL) WithAdded(filter, value string) URL {
	return u.WithoutParam(PageParam).WithParam(SelectedFacetsParam, Pair{Filter: filter, Value: value}.Token())
}

// WithRemoved drops every selected_facets entry equal to filter:value and
// the page parameter. Removing something not present only drops the page.
func (u URL) WithRemoved(filter, value string) URL {
	token := Pair{Filter: filter, Value: value}.Token()
	return u.without(func(p param) bool {
		if p.key == PageParam {
			return false
		}
		return !(p.key == SelectedFacetsParam && p.value == token)
	})
}

func (u URL) String() string {
	if len(u.params) == 0 {
		return u.path
	}
	var sb strings.Builder
	sb.WriteString(u.path)
	for i, p := range u.params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

// GlobalURL links to the context free listing route with only the given
// facet applied, whatever the current page was showing.
func GlobalURL(baseRoute, filter, value string) string {
	return ParseURL(baseRoute).
		WithoutParam(SelectedFacetsParam).
		WithAdded(filter, value).
		String()
}
