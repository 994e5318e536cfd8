package facet

import (
	"net/url"
	"testing"
)

func TestParseToken(t *testing.T) {
	cases := []struct {
		token string
		want  Pair
		ok    bool
	}{
		{"brand_exact:Acme", Pair{Filter: "brand_exact", Value: "Acme"}, true},
		{"price_exact:[0 TO 100]", Pair{Filter: "price_exact", Value: "[0 TO 100]"}, true},
		{"time_exact:12:30", Pair{Filter: "time_exact", Value: "12:30"}, true},
		{"brand_exact:", Pair{Filter: "brand_exact", Value: ""}, true},
		{"brand", Pair{}, false},
		{"", Pair{}, false},
	}
	for _, c := range cases {
		got, ok := ParseToken(c.token)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseToken(%q) = %v, %v, want %v, %v", c.token, got, ok, c.want, c.ok)
		}
	}
}

func TestParseSelectionDropsMalformed(t *testing.T) {
	sel := ParseSelection("selected_facets=brand_exact%3AAcme&selected_facets=garbage&q=shoes&page=2")
	if sel.Len() != 1 {
		t.Fatalf("expected 1 pair, got %v", sel.Pairs())
	}
	if !sel.Contains(Pair{Filter: "brand_exact", Value: "Acme"}) {
		t.Errorf("expected brand_exact:Acme to be selected")
	}
}

func TestParseSelectionBrokenQuery(t *testing.T) {
	sel := ParseSelection("selected_facets=%zz&selected_facets=brand_exact:Acme")
	if !sel.Contains(Pair{Filter: "brand_exact", Value: "Acme"}) {
		t.Errorf("valid pair should survive a broken neighbour, got %v", sel.Pairs())
	}
}

func TestSelectionIsASet(t *testing.T) {
	values := url.Values{SelectedFacetsParam: {"brand_exact:Acme", "brand_exact:Acme", "brand_exact:Zed"}}
	sel := SelectionFromValues(values)
	if sel.Len() != 2 {
		t.Errorf("expected duplicates to collapse, got %v", sel.Pairs())
	}
	pairs := sel.Pairs()
	if pairs[0].Value != "Acme" || pairs[1].Value != "Zed" {
		t.Errorf("expected query string order, got %v", pairs)
	}
}

func TestSelectionValueLastWins(t *testing.T) {
	sel := NewSelection(
		Pair{Filter: "price_exact", Value: "[0 TO 10]"},
		Pair{Filter: "brand_exact", Value: "Acme"},
		Pair{Filter: "price_exact", Value: "[10 TO 20]"},
	)
	v, ok := sel.Value("price_exact")
	if !ok || v != "[10 TO 20]" {
		t.Errorf("expected last price selection, got %q %v", v, ok)
	}
	if _, ok := sel.Value("rating_exact"); ok {
		t.Errorf("expected no rating selection")
	}
}

func TestSelectionPairsIsACopy(t *testing.T) {
	sel := NewSelection(Pair{Filter: "brand_exact", Value: "Acme"})
	pairs := sel.Pairs()
	pairs[0].Value = "Changed"
	if !sel.Contains(Pair{Filter: "brand_exact", Value: "Acme"}) {
		t.Errorf("selection changed through Pairs")
	}
}

func TestPairField(t *testing.T) {
	p := Pair{Filter: "brand_exact", Value: "Acme"}
	if p.Field() != "brand" {
		t.Errorf("expected brand, got %s", p.Field())
	}
	if p.Token() != "brand_exact:Acme" {
		t.Errorf("unexpected token %s", p.Token())
	}
	if FilterFor("brand") != p.Filter {
		t.Errorf("FilterFor mismatch")
	}
}
