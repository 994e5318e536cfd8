package tracking

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/slask-facets/pkg/facet"
)

func TestListingEventShape(t *testing.T) {
	trk := &RabbitTracking{country: "se"}
	data, err := sonic.Marshal(&ListingEventData{
		BaseEvent:       trk.baseEvent(1, 42),
		Query:           "shoes",
		SelectedFacets:  []facet.Pair{{Filter: "brand_exact", Value: "Acme"}},
		NumberOfResults: 3,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Equal(t, float64(42), decoded["session_id"])
	assert.Equal(t, float64(1), decoded["event"])
	assert.Equal(t, "se", decoded["country"])
	assert.Equal(t, "shoes", decoded["query"])
	assert.Equal(t, float64(3), decoded["noi"])
	assert.NotEmpty(t, decoded["request_id"])
	assert.NotContains(t, decoded, "category")
	assert.Equal(t, []any{map[string]any{"filter": "brand_exact", "value": "Acme"}}, decoded["selected_facets"])
}

func TestRequestIdsAreUnique(t *testing.T) {
	trk := &RabbitTracking{}
	assert.NotEqual(t, trk.baseEvent(0, 1).RequestId, trk.baseEvent(0, 1).RequestId)
}
