package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryWithMethodsDoNotMutate(t *testing.T) {
	minCount := 0
	base := NewQuery("shoes", 1, 24).WithFilter("brand", "Acme")

	q := base.
		WithFilter("format", "CD").
		WithFieldFacet("brand", &minCount, nil).
		WithQueryFacet("price", "[0 TO 10]").
		WithStats("price")

	assert.Len(t, base.Filters, 1)
	assert.Empty(t, base.FieldFacets)
	assert.Empty(t, base.QueryFacets)
	assert.Empty(t, base.Stats)
	assert.Len(t, q.Filters, 2)

	minCount = 5
	assert.Equal(t, 0, *q.FieldFacets[0].MinCount)
}

func TestQueryAppendDoesNotAlias(t *testing.T) {
	base := NewQuery("", 0, 10).WithFilter("a", "1").WithFilter("b", "2")
	first := base.WithFilter("c", "3")
	second := base.WithFilter("d", "4")
	assert.Equal(t, "3", first.Filters[2].Expression)
	assert.Equal(t, "4", second.Filters[2].Expression)
}

func TestWithStatsOnce(t *testing.T) {
	q := NewQuery("", 0, 10).WithStats("price").WithStats("rating").WithStats("price")
	assert.Equal(t, []string{"price", "rating"}, q.Stats)
}

func TestFieldFacetDefaults(t *testing.T) {
	limit := 5
	f := FieldFacetRequest{Field: "brand"}
	assert.Equal(t, DefaultMinCount, f.EffectiveMinCount())
	assert.Equal(t, DefaultLimit, f.EffectiveLimit())
	f.Limit = &limit
	assert.Equal(t, 5, f.EffectiveLimit())
}

func TestQueryKey(t *testing.T) {
	assert.Equal(t, "price_exact:[0 TO 10]", QueryFacetRequest{Field: "price", Expression: "[0 TO 10]"}.Key())
}

func TestRawResultsNilSafe(t *testing.T) {
	var raw *RawResults
	assert.True(t, raw.Empty())
	assert.Nil(t, raw.Counts("brand"))
	assert.Nil(t, raw.StatsFor("price"))
	_, found := raw.QueryCount("x")
	assert.False(t, found)
	assert.True(t, NewRawResults().Empty())
}
