package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/matst80/slask-facets/pkg/search"
)

type Config struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
	// KeywordSuffix is appended to field names in term filters and terms
	// aggregations, ".keyword" for dynamically mapped text fields.
	KeywordSuffix string
	TextField     string
}

type Engine struct {
	client        *elasticsearch.Client
	index         string
	keywordSuffix string
	textField     string
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Index == "" {
		return nil, errors.New("elastic: index name is required")
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: create client: %w", err)
	}
	return newEngine(client, cfg), nil
}

func newEngine(client *elasticsearch.Client, cfg Config) *Engine {
	textField := cfg.TextField
	if textField == "" {
		textField = "title"
	}
	return &Engine{
		client:        client,
		index:         cfg.Index,
		keywordSuffix: cfg.KeywordSuffix,
		textField:     textField,
	}
}

// Execute runs the whole query, facets included, as one search request.
func (e *Engine) Execute(ctx context.Context, q search.Query) (*search.RawResults, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(e.buildBody(q)); err != nil {
		return nil, err
	}
	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("elastic: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic: search failed: %s", res.String())
	}
	var resp searchResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("elastic: decode response: %w", err)
	}
	return e.parseResponse(q, &resp)
}

// Fields lists the field names the index mapping knows, used to check the
// facet registry at startup.
func (e *Engine) Fields(ctx context.Context) (map[string]bool, error) {
	req := esapi.FieldCapsRequest{
		Index:  []string{e.index},
		Fields: []string{"*"},
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("elastic: field caps: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic: field caps failed: %s", res.String())
	}
	var caps struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.NewDecoder(res.Body).Decode(&caps); err != nil {
		return nil, fmt.Errorf("elastic: decode field caps: %w", err)
	}
	ret := make(map[string]bool, len(caps.Fields))
	for name := range caps.Fields {
		ret[name] = true
	}
	log.Printf("elastic index %s has %d fields", e.index, len(ret))
	return ret, nil
}
