package types

import (
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

type ListingRequest struct {
	Query    string `json:"q" schema:"q"`
	Page     int    `json:"page" schema:"page"`
	PageSize int    `json:"pageSize" schema:"size,default:24"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (s *ListingRequest) Sanitize() {
	s.Query = strings.TrimSpace(s.Query)
	s.Page = clamp(s.Page, 0, 100)
	s.PageSize = clamp(s.PageSize, 1, 200)
}

// DecodeListingRequest reads q, page and size from the query string. Values
// that do not parse keep their defaults; the error is returned for callers
// that want to reject such requests.
func DecodeListingRequest(query url.Values) (*ListingRequest, error) {
	lr := makeBaseListingRequest()
	err := decoder.Decode(lr, query)
	lr.Sanitize()
	return lr, err
}

func makeBaseListingRequest() *ListingRequest {
	return &ListingRequest{
		Page:     0,
		PageSize: 24,
	}
}
