package facet

import (
	"errors"
	"fmt"
	"log"
	"slices"
)

var (
	ErrMissingKey        = errors.New("facet key is required")
	ErrMissingField      = errors.New("facet field is required")
	ErrDuplicateKey      = errors.New("duplicate facet key")
	ErrEmptyDynamicFacet = errors.New("dynamic query facet needs a default query")
	ErrInvalidFacetType  = errors.New("invalid query facet type")
	ErrUnknownField      = errors.New("facet field not present in index")
)

type FacetType string

const (
	Static  FacetType = "static"
	Dynamic FacetType = "dynamic"
)

type FieldFacet struct {
	Key          string `json:"key" yaml:"key"`
	Name         string `json:"name" yaml:"name"`
	Field        string `json:"field" yaml:"field"`
	MinCount     *int   `json:"minCount,omitempty" yaml:"min_count,omitempty"`
	Limit        *int   `json:"limit,omitempty" yaml:"limit,omitempty"`
	CollectStats bool   `json:"stats,omitempty" yaml:"stats,omitempty"`
	Widget       Widget `json:"widget,omitempty" yaml:"widget,omitempty"`
}

func (f FieldFacet) Filter() string {
	return FilterFor(f.Field)
}

type NamedQuery struct {
	Label      string `json:"label" yaml:"label"`
	Expression string `json:"query" yaml:"query"`
}

type QueryFacet struct {
	Key          string       `json:"key" yaml:"key"`
	Name         string       `json:"name" yaml:"name"`
	Field        string       `json:"field" yaml:"field"`
	Queries      []NamedQuery `json:"queries" yaml:"queries"`
	Type         FacetType    `json:"type,omitempty" yaml:"type,omitempty"`
	CollectStats bool         `json:"stats,omitempty" yaml:"stats,omitempty"`
	Widget       Widget       `json:"widget,omitempty" yaml:"widget,omitempty"`
}

func (f QueryFacet) Filter() string {
	return FilterFor(f.Field)
}

// Config is the on-disk shape of the registry. Order of both lists is the
// order facets are requested and rendered in.
type Config struct {
	Fields  []FieldFacet `json:"fields" yaml:"fields"`
	Queries []QueryFacet `json:"queries" yaml:"queries"`
}

// Registry is the validated facet configuration. It is built once at
// startup and only read afterwards, so it is shared between requests
// without locking.
type Registry struct {
	fields  []FieldFacet
	queries []QueryFacet
	widgets map[string]Widget
}

// NewRegistry validates cfg and reports every problem found.
func NewRegistry(cfg Config) (*Registry, error) {
	r := &Registry{
		fields:  make([]FieldFacet, 0, len(cfg.Fields)),
		queries: make([]QueryFacet, 0, len(cfg.Queries)),
		widgets: make(map[string]Widget, len(cfg.Fields)+len(cfg.Queries)),
	}
	var errs []error
	seen := func(key string) bool {
		_, found := r.widgets[key]
		return found
	}

	for i, f := range cfg.Fields {
		switch {
		case f.Key == "":
			errs = append(errs, fmt.Errorf("field facet %d: %w", i, ErrMissingKey))
			continue
		case seen(f.Key):
			errs = append(errs, fmt.Errorf("field facet %q: %w", f.Key, ErrDuplicateKey))
			continue
		case f.Field == "":
			errs = append(errs, fmt.Errorf("field facet %q: %w", f.Key, ErrMissingField))
		}
		r.widgets[f.Key] = checkWidget(f.Key, f.Widget)
		r.fields = append(r.fields, cloneField(f))
	}

	for i, q := range cfg.Queries {
		switch {
		case q.Key == "":
			errs = append(errs, fmt.Errorf("query facet %d: %w", i, ErrMissingKey))
			continue
		case seen(q.Key):
			errs = append(errs, fmt.Errorf("query facet %q: %w", q.Key, ErrDuplicateKey))
			continue
		case q.Field == "":
			errs = append(errs, fmt.Errorf("query facet %q: %w", q.Key, ErrMissingField))
		}
		if q.Type == "" {
			q.Type = Static
		}
		switch q.Type {
		case Static:
		case Dynamic:
			if len(q.Queries) == 0 {
				errs = append(errs, fmt.Errorf("query facet %q: %w", q.Key, ErrEmptyDynamicFacet))
			}
		default:
			errs = append(errs, fmt.Errorf("query facet %q type %q: %w", q.Key, q.Type, ErrInvalidFacetType))
		}
		r.widgets[q.Key] = checkWidget(q.Key, q.Widget)
		r.queries = append(r.queries, cloneQuery(q))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

func checkWidget(key string, w Widget) Widget {
	if w != "" && !w.Known() {
		log.Printf("facet %s uses unknown widget %q, rendering with %s", key, w, DefaultWidget)
	}
	return w
}

func cloneField(f FieldFacet) FieldFacet {
	f.MinCount = copyInt(f.MinCount)
	f.Limit = copyInt(f.Limit)
	return f
}

func cloneQuery(q QueryFacet) QueryFacet {
	q.Queries = slices.Clone(q.Queries)
	return q
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Fields returns copies of the field facets in registration order.
func (r *Registry) Fields() []FieldFacet {
	ret := make([]FieldFacet, len(r.fields))
	for i, f := range r.fields {
		ret[i] = cloneField(f)
	}
	return ret
}

// Queries returns copies of the query facets in registration order.
func (r *Registry) Queries() []QueryFacet {
	ret := make([]QueryFacet, len(r.queries))
	for i, q := range r.queries {
		ret[i] = cloneQuery(q)
	}
	return ret
}

// Keys lists field facet keys followed by query facet keys.
func (r *Registry) Keys() []string {
	ret := make([]string, 0, len(r.fields)+len(r.queries))
	for _, f := range r.fields {
		ret = append(ret, f.Key)
	}
	for _, q := range r.queries {
		ret = append(ret, q.Key)
	}
	return ret
}

func (r *Registry) Name(key string) (string, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Name, true
		}
	}
	for _, q := range r.queries {
		if q.Key == key {
			return q.Name, true
		}
	}
	return "", false
}

// IndexedFields lists every distinct underlying field the registry refers to.
func (r *Registry) IndexedFields() []string {
	ret := make([]string, 0, len(r.fields)+len(r.queries))
	for _, f := range r.fields {
		if !slices.Contains(ret, f.Field) {
			ret = append(ret, f.Field)
		}
	}
	for _, q := range r.queries {
		if !slices.Contains(ret, q.Field) {
			ret = append(ret, q.Field)
		}
	}
	return ret
}

// ValidateFields checks the registry against the fields a data source
// actually has. Meant for index building, never for request handling.
func (r *Registry) ValidateFields(hasField func(field string) bool) error {
	var errs []error
	for _, field := range r.IndexedFields() {
		if !hasField(field) {
			errs = append(errs, fmt.Errorf("%q: %w", field, ErrUnknownField))
		}
	}
	return errors.Join(errs...)
}
