package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/search"
	"github.com/matst80/slask-facets/pkg/tracking"
	"github.com/matst80/slask-facets/pkg/types"
)

const defaultCategoryField = "category"

type WebServer struct {
	Registry      *facet.Registry
	Engine        search.Engine
	Routes        Routes
	Tracking      tracking.Tracking
	CategoryField string
}

func (ws *WebServer) categoryField() string {
	if ws.CategoryField == "" {
		return defaultCategoryField
	}
	return ws.CategoryField
}

// ProductList renders every product, narrowed by the selected facets.
func (ws *WebServer) ProductList(w http.ResponseWriter, r *http.Request, sessionId int) (any, error) {
	noListings.WithLabelValues("all").Inc()
	return ws.listing(r, sessionId, "")
}

// CategoryList renders the products of one category.
func (ws *WebServer) CategoryList(w http.ResponseWriter, r *http.Request, sessionId int) (any, error) {
	noListings.WithLabelValues("category").Inc()
	return ws.listing(r, sessionId, r.PathValue("slug"))
}

// FacetList describes the configured facets in registry order.
func (ws *WebServer) FacetList(w http.ResponseWriter, r *http.Request, sessionId int) (any, error) {
	return ws.facetInfo(), nil
}

func (ws *WebServer) facetInfo() []FacetInfo {
	keys := ws.Registry.Keys()
	ret := make([]FacetInfo, 0, len(keys))
	for _, key := range keys {
		name, _ := ws.Registry.Name(key)
		widget := ws.Registry.ResolveWidget(key)
		ret = append(ret, FacetInfo{
			Key:      key,
			Name:     name,
			Widget:   widget,
			Template: widget.Template(),
		})
	}
	return ret
}

func (ws *WebServer) listing(r *http.Request, sessionId int, category string) (*ListingResponse, error) {
	values := r.URL.Query()
	// unparsable numbers keep their defaults
	lr, _ := types.DecodeListingRequest(values)
	sel := facet.SelectionFromValues(values)
	if sel.Len() > 0 {
		noSelectedFacets.Add(float64(sel.Len()))
	}

	base := search.NewQuery(lr.Query, lr.Page, lr.PageSize)
	if category != "" {
		base = base.WithFilter(ws.categoryField(), category)
	}
	q := facet.BuildQuery(ws.Registry, facet.NarrowQuery(ws.Registry, base, sel), sel)

	raw := ws.execute(r.Context(), q)
	rc := facet.NewRequestContext(r.URL.RequestURI(), ws.Routes.Reverse(AllProductsRoute))
	data := facet.Aggregate(rc, sel, ws.Registry, raw)

	res := &ListingResponse{
		Summary:   summary(category, lr.Query, sel),
		Category:  category,
		Products:  []search.Hit{},
		Page:      lr.Page,
		PageSize:  lr.PageSize,
		Facets:    ws.facetInfo(),
		FacetData: data,
		HasFacets: data.HasFacets(),
		Selected:  sel.Pairs(),
	}
	if raw != nil {
		res.Products = raw.Hits
		res.Total = raw.Total
	}

	if ws.Tracking != nil {
		go ws.Tracking.TrackListing(sessionId, tracking.ListingEvent{
			Query:    lr.Query,
			Category: category,
			Selected: res.Selected,
			Total:    res.Total,
			Page:     lr.Page,
			Referer:  r.Header.Get("Referer"),
		})
	}
	return res, nil
}

// execute makes the one engine call of a listing. A failing engine renders
// the page without products or facets.
func (ws *WebServer) execute(ctx context.Context, q search.Query) *search.RawResults {
	timer := prometheus.NewTimer(engineDuration)
	defer timer.ObserveDuration()
	raw, err := ws.Engine.Execute(ctx, q)
	if err != nil {
		engineFailures.Inc()
		log.Printf("search engine failed: %v", err)
		return nil
	}
	return raw
}

func summary(category, query string, sel facet.Selection) string {
	switch {
	case category != "":
		return category
	case sel.Len() > 0:
		return "Products matching your selection"
	case query != "":
		return fmt.Sprintf("Products matching '%s'", query)
	}
	return "All products"
}

// exact turns a trailing slash pattern into an exact match.
func exact(pattern string) string {
	if strings.HasSuffix(pattern, "/") {
		return pattern + "{$}"
	}
	return pattern
}

func (ws *WebServer) Handle(mux *http.ServeMux) {
	if ws.Routes == nil {
		ws.Routes = DefaultRoutes()
	}
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET "+exact(ws.Routes[AllProductsRoute]), common.JsonHandler(ws.Tracking, ws.ProductList))
	mux.HandleFunc("GET "+exact(ws.Routes[CategoryRoute]), common.JsonHandler(ws.Tracking, ws.CategoryList))
	mux.HandleFunc("GET /api/facets", common.JsonHandler(ws.Tracking, ws.FacetList))
}

func HandleProfiling(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
