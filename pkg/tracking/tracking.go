package tracking

import (
	"net/http"

	"github.com/matst80/slask-facets/pkg/facet"
)

// ListingEvent describes one rendered product listing.
type ListingEvent struct {
	Query    string
	Category string
	Selected []facet.Pair
	Total    int
	Page     int
	Referer  string
}

type Tracking interface {
	TrackSession(sessionId int, r *http.Request)
	TrackListing(sessionId int, event ListingEvent)
	Close() error
}
