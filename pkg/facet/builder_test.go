package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matst80/slask-facets/pkg/search"
)

func TestBuildQuery(t *testing.T) {
	r := testRegistry(t)
	base := search.NewQuery("shoes", 0, 24)

	q := BuildQuery(r, base, NewSelection())

	assert.Len(t, q.FieldFacets, 2)
	assert.Equal(t, "brand", q.FieldFacets[0].Field)
	assert.Nil(t, q.FieldFacets[0].MinCount)
	assert.Equal(t, 10, *q.FieldFacets[0].Limit)
	assert.Equal(t, 0, *q.FieldFacets[1].MinCount)

	assert.Equal(t, []search.QueryFacetRequest{
		{Field: "price", Expression: "[0 TO 20]"},
		{Field: "price", Expression: "[20 TO *]"},
		{Field: "price", Expression: "[0 TO 100]"},
	}, q.QueryFacets)
	assert.Equal(t, []string{"price"}, q.Stats)
	assert.Equal(t, "shoes", q.Text)
}

func TestBuildQueryDoesNotChangeBase(t *testing.T) {
	r := testRegistry(t)
	base := search.NewQuery("", 0, 24).WithFilter("category", "Books")

	_ = BuildQuery(r, base, NewSelection())

	assert.Empty(t, base.FieldFacets)
	assert.Empty(t, base.QueryFacets)
	assert.Empty(t, base.Stats)
	assert.Len(t, base.Filters, 1)
}

func TestBuildQueryDynamicUsesSelection(t *testing.T) {
	r := testRegistry(t)
	sel := NewSelection(
		Pair{Filter: "price_exact", Value: "[10 TO 50]"},
		Pair{Filter: "price_exact", Value: "[10 TO 60]"},
	)

	q := BuildQuery(r, search.NewQuery("", 0, 24), sel)

	assert.Contains(t, q.QueryFacets, search.QueryFacetRequest{Field: "price", Expression: "[10 TO 60]"})
	assert.NotContains(t, q.QueryFacets, search.QueryFacetRequest{Field: "price", Expression: "[0 TO 100]"})
	assert.NotContains(t, q.QueryFacets, search.QueryFacetRequest{Field: "price", Expression: "[10 TO 50]"})
}

func TestBuildQueryStatsOncePerField(t *testing.T) {
	r, err := NewRegistry(Config{
		Fields: []FieldFacet{{Key: "price_values", Field: "price", CollectStats: true}},
		Queries: []QueryFacet{
			{Key: "price", Field: "price", Type: Dynamic, CollectStats: true, Queries: []NamedQuery{{Label: "Price", Expression: "[0 TO 100]"}}},
		},
	})
	assert.NoError(t, err)

	q := BuildQuery(r, search.NewQuery("", 0, 24), NewSelection())
	assert.Equal(t, []string{"price"}, q.Stats)
}

func TestActiveExpression(t *testing.T) {
	f := testRegistry(t).Queries()[1]

	expr, fromSelection := f.ActiveExpression(NewSelection())
	assert.Equal(t, "[0 TO 100]", expr)
	assert.False(t, fromSelection)

	expr, fromSelection = f.ActiveExpression(NewSelection(Pair{Filter: "price_exact", Value: "[5 TO 10]"}))
	assert.Equal(t, "[5 TO 10]", expr)
	assert.True(t, fromSelection)
}

func TestNarrowQuery(t *testing.T) {
	r := testRegistry(t)
	sel := NewSelection(
		Pair{Filter: "brand_exact", Value: "Acme"},
		Pair{Filter: "price_exact", Value: "[0 TO 20]"},
		Pair{Filter: "colour_exact", Value: "Red"},
		Pair{Filter: "brand", Value: "Zed"},
	)
	base := search.NewQuery("", 0, 24)

	q := NarrowQuery(r, base, sel)

	assert.Equal(t, []search.Filter{
		{Field: "brand", Expression: "Acme"},
		{Field: "price", Expression: "[0 TO 20]"},
	}, q.Filters)
	assert.Empty(t, base.Filters)
}
