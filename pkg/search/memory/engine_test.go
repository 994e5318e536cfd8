package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/slask-facets/pkg/search"
)

func testEngine() *Engine {
	return NewEngine([]search.Hit{
		{Id: "1", Title: "Red running shoe", Fields: map[string]any{"brand": "Acme", "price": 49.0, "color": []any{"red", "white"}}},
		{Id: "2", Title: "Blue running shoe", Fields: map[string]any{"brand": "Acme", "price": 89.0, "color": []any{"blue"}}},
		{Id: "3", Title: "Walking boot", Fields: map[string]any{"brand": "Zed", "price": 129.0}},
		{Id: "4", Title: "Rain jacket", Fields: map[string]any{"brand": "Other", "price": "19"}},
	})
}

func intPtr(v int) *int {
	return &v
}

func TestHasField(t *testing.T) {
	e := testEngine()
	assert.True(t, e.HasField("brand"))
	assert.True(t, e.HasField("color"))
	assert.False(t, e.HasField("size"))
	assert.Equal(t, 4, e.Len())
}

func TestExecuteTextAndFilters(t *testing.T) {
	e := testEngine()
	q := search.NewQuery("Running", 0, 10).WithFilter("price", "[50 TO *]")

	res, err := e.Execute(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "2", res.Hits[0].Id)
}

func TestExecuteFieldCounts(t *testing.T) {
	e := testEngine()
	q := search.NewQuery("shoe", 0, 10).
		WithFieldFacet("brand", nil, nil).
		WithFieldFacet("color", intPtr(0), intPtr(2))

	res, err := e.Execute(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []search.ValueCount{{Value: "Acme", Count: 2}}, res.Counts("brand"))
	assert.Equal(t, []search.ValueCount{
		{Value: "blue", Count: 1},
		{Value: "red", Count: 1},
	}, res.Counts("color"))
}

func TestExecuteZeroCountsWithMinCount(t *testing.T) {
	e := testEngine()
	q := search.NewQuery("boot", 0, 10).WithFieldFacet("brand", intPtr(0), nil)

	res, err := e.Execute(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []search.ValueCount{
		{Value: "Zed", Count: 1},
		{Value: "Acme", Count: 0},
		{Value: "Other", Count: 0},
	}, res.Counts("brand"))
}

func TestExecuteQueryFacetsAndStats(t *testing.T) {
	e := testEngine()
	q := search.NewQuery("", 0, 10).
		WithQueryFacet("price", "[0 TO 50]").
		WithQueryFacet("price", "[50 TO *]").
		WithStats("price").
		WithStats("brand")

	res, err := e.Execute(context.Background(), q)
	require.NoError(t, err)

	count, found := res.QueryCount(search.QueryKey("price", "[0 TO 50]"))
	assert.True(t, found)
	assert.Equal(t, 2, count)
	count, _ = res.QueryCount(search.QueryKey("price", "[50 TO *]"))
	assert.Equal(t, 2, count)

	stats := res.StatsFor("price")
	require.NotNil(t, stats)
	assert.Equal(t, 19.0, stats.Min)
	assert.Equal(t, 129.0, stats.Max)
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 71.5, stats.Mean)
	assert.Nil(t, res.StatsFor("brand"))
}

func TestExecutePaging(t *testing.T) {
	e := testEngine()

	res, err := e.Execute(context.Background(), search.NewQuery("", 1, 3))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "4", res.Hits[0].Id)

	res, err = e.Execute(context.Background(), search.NewQuery("", 5, 3))
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testEngine().Execute(ctx, search.NewQuery("", 0, 10))
	assert.ErrorIs(t, err, context.Canceled)
}
