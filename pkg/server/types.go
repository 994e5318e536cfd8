package server

import (
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/search"
)

type FacetInfo struct {
	Key      string       `json:"key"`
	Name     string       `json:"name"`
	Widget   facet.Widget `json:"widget"`
	Template string       `json:"template"`
}

type ListingResponse struct {
	Summary   string        `json:"summary"`
	Category  string        `json:"category,omitempty"`
	Products  []search.Hit  `json:"products"`
	Total     int           `json:"total"`
	Page      int           `json:"page"`
	PageSize  int           `json:"size"`
	Facets    []FacetInfo   `json:"facets"`
	FacetData facet.Dataset `json:"facet_data"`
	HasFacets bool          `json:"has_facets"`
	Selected  []facet.Pair  `json:"selected_facets"`
}
