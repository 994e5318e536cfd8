package elastic

import (
	"encoding/json"
	"fmt"

	"github.com/matst80/slask-facets/pkg/search"
)

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Id     string         `json:"_id"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

type termsAggregation struct {
	Buckets []struct {
		Key         any    `json:"key"`
		KeyAsString string `json:"key_as_string"`
		DocCount    int    `json:"doc_count"`
	} `json:"buckets"`
}

type filterAggregation struct {
	DocCount int `json:"doc_count"`
}

type statsAggregation struct {
	Count int      `json:"count"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Avg   *float64 `json:"avg"`
	Sum   float64  `json:"sum"`
}

// parseResponse maps the positional aggregation names of a response back to
// the fields and query keys of q. Aggregations missing from the response are
// left out of the result.
func (e *Engine) parseResponse(q search.Query, resp *searchResponse) (*search.RawResults, error) {
	res := search.NewRawResults()
	res.Total = resp.Hits.Total.Value
	for _, h := range resp.Hits.Hits {
		title, _ := h.Source[e.textField].(string)
		res.Hits = append(res.Hits, search.Hit{Id: h.Id, Title: title, Fields: h.Source})
	}

	for i, ff := range q.FieldFacets {
		raw, ok := resp.Aggregations[fieldAggName(i)]
		if !ok {
			continue
		}
		var agg termsAggregation
		if err := json.Unmarshal(raw, &agg); err != nil {
			return nil, fmt.Errorf("terms aggregation for %s: %w", ff.Field, err)
		}
		counts := make([]search.ValueCount, 0, len(agg.Buckets))
		for _, b := range agg.Buckets {
			value := b.KeyAsString
			if value == "" {
				value = search.FormatValue(b.Key)
			}
			counts = append(counts, search.ValueCount{Value: value, Count: b.DocCount})
		}
		res.FieldCounts[ff.Field] = counts
	}

	for i, qf := range q.QueryFacets {
		raw, ok := resp.Aggregations[queryAggName(i)]
		if !ok {
			continue
		}
		var agg filterAggregation
		if err := json.Unmarshal(raw, &agg); err != nil {
			return nil, fmt.Errorf("filter aggregation for %s: %w", qf.Key(), err)
		}
		res.QueryCounts[qf.Key()] = agg.DocCount
	}

	for i, field := range q.Stats {
		raw, ok := resp.Aggregations[statsAggName(i)]
		if !ok {
			continue
		}
		var agg statsAggregation
		if err := json.Unmarshal(raw, &agg); err != nil {
			return nil, fmt.Errorf("stats aggregation for %s: %w", field, err)
		}
		if agg.Count == 0 || agg.Min == nil || agg.Max == nil {
			continue
		}
		s := &search.Stats{Min: *agg.Min, Max: *agg.Max, Sum: agg.Sum, Count: agg.Count}
		if agg.Avg != nil {
			s.Mean = *agg.Avg
		}
		res.FieldStats[field] = s
	}
	return res, nil
}
