package types

import (
	"net/url"
	"testing"
)

func TestDecodeListingRequest(t *testing.T) {
	values := url.Values{
		"q":               {"  red shoes "},
		"page":            {"3"},
		"size":            {"12"},
		"selected_facets": {"brand_exact:Acme"},
	}
	lr, err := DecodeListingRequest(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lr.Query != "red shoes" || lr.Page != 3 || lr.PageSize != 12 {
		t.Errorf("unexpected request %+v", lr)
	}
}

func TestDecodeListingRequestDefaults(t *testing.T) {
	lr, err := DecodeListingRequest(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lr.Page != 0 || lr.PageSize != 24 {
		t.Errorf("expected defaults, got %+v", lr)
	}
}

func TestDecodeListingRequestClamps(t *testing.T) {
	lr, _ := DecodeListingRequest(url.Values{"page": {"-4"}, "size": {"5000"}})
	if lr.Page != 0 || lr.PageSize != 200 {
		t.Errorf("expected clamped values, got %+v", lr)
	}
}

func TestDecodeListingRequestBadNumbers(t *testing.T) {
	lr, err := DecodeListingRequest(url.Values{"page": {"two"}, "q": {"boots"}})
	if err == nil {
		t.Errorf("expected a conversion error")
	}
	if lr.Page != 0 || lr.PageSize != 24 || lr.Query != "boots" {
		t.Errorf("expected defaults next to the bad value, got %+v", lr)
	}
}
