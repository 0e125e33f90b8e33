package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
)

func TestLocatorClientNearby(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("action"); got != "get_stores" {
			t.Errorf("action = %q", got)
		}
		if got := r.FormValue("lat"); got != "45.4" {
			t.Errorf("lat = %q", got)
		}
		if got := r.FormValue("lng"); got != "-75.1" {
			t.Errorf("lng = %q", got)
		}
		if got := r.FormValue("radius"); got != "50" {
			t.Errorf("radius = %q", got)
		}
		if got := r.FormValue("categories[0]"); got != "63" {
			t.Errorf("categories[0] = %q", got)
		}
		if r.Header.Get("Referer") == "" {
			t.Error("missing Referer header")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"ID":"101","na":"Downtown","de":"<a href=\"https://www.ubereats.com/ca/store/downtown/abc\">Order</a>"},
			{"ID":"102","na":"Uptown","de":"<div>no delivery</div>"}
		]`))
	}))
	defer server.Close()

	client := NewLocatorClient(server.URL)
	stores, err := client.Nearby(context.Background(), 45.4, -75.1, 50, 63)
	if err != nil {
		t.Fatalf("nearby failed: %v", err)
	}
	if len(stores) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(stores))
	}
	if stores[0].ID != "101" || stores[0].Name != "Downtown" {
		t.Fatalf("unexpected first store: %+v", stores[0])
	}
}

func TestLocatorClientUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewLocatorClient(server.URL)
	if _, err := client.Nearby(context.Background(), 45.4, -75.1, 50, 63); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestExtractOrderingURL(t *testing.T) {
	rec := models.StoreRecord{
		ListingHTML: `<p>Order from <a href="https://www.ubereats.com/ca/store/x/123?promo=1">Uber Eats</a></p>`,
	}
	url, ok := ExtractOrderingURL(rec)
	if !ok {
		t.Fatal("expected a match")
	}
	if url != "https://www.ubereats.com/ca/store/x/123?promo=1" {
		t.Fatalf("extracted %q", url)
	}

	if _, ok := ExtractOrderingURL(models.StoreRecord{ListingHTML: "<p>call us</p>"}); ok {
		t.Fatal("matched listing without an ordering link")
	}
}
