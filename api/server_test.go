package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jrgenl/boliganalyseverktoy/config"
	"github.com/Jrgenl/boliganalyseverktoy/models"
	"github.com/Jrgenl/boliganalyseverktoy/storage"
	"github.com/Jrgenl/boliganalyseverktoy/utils"
)

func newTestServer(t *testing.T) (*Server, *storage.JSONStore) {
	t.Helper()
	store, err := storage.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	cfg := &config.Config{ComparableCount: 5}
	return NewServer(cfg, utils.NewLogger(), store, nil), store
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"id": "111",
		"title": "Apartment with new kitchen",
		"description": "new kitchen, but moisture problems in the basement",
		"price": {"asking_price": "kr 3 200 000"},
		"property_info": {"dwelling_type": "Apartment", "bedrooms": "2", "usable_area_sqm": "64"}
	}`

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Listing       *models.Listing       `json:"listing"`
		PriceAnalysis *models.PriceAnalysis `json:"price_analysis"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Listing == nil || resp.Listing.AskingPrice != 3200000 {
		t.Errorf("listing not normalized: %+v", resp.Listing)
	}
	var moisture bool
	for _, r := range resp.Listing.Risks {
		if r.Category == "moisture" && r.Severity == models.SeverityHigh {
			moisture = true
		}
	}
	if !moisture {
		t.Errorf("expected a high moisture risk, got %+v", resp.Listing.Risks)
	}
	if resp.PriceAnalysis == nil || resp.PriceAnalysis.Err != "" {
		t.Errorf("price analysis: %+v", resp.PriceAnalysis)
	}
}

func TestAnalyzeEndpointBadPayload(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{broken")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestScrapeUnavailableWithoutScraper(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{"url":"https://www.finn.no/x"}`)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestGetListing(t *testing.T) {
	srv, store := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/404404", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing listing status: got %d, want 404", rec.Code)
	}

	if err := store.Save(&models.Listing{ID: "12345", Title: "Stored"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/12345", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var got models.Listing
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Stored" {
		t.Errorf("Title: got %q", got.Title)
	}
}

func TestComparablesEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	seed := []*models.Listing{
		{ID: "sub", DwellingType: models.DwellingApartment, PostalCode: "0350", UsableAreaSqm: 70, Bedrooms: 2, BuildYear: 1990, AskingPrice: 4000000, PricePerSqm: 57000},
		{ID: "n1", DwellingType: models.DwellingApartment, PostalCode: "0350", UsableAreaSqm: 72, Bedrooms: 2, BuildYear: 1992, AskingPrice: 4100000, PricePerSqm: 56900},
		{ID: "n2", DwellingType: models.DwellingApartment, PostalCode: "0350", UsableAreaSqm: 80, Bedrooms: 3, BuildYear: 1995, AskingPrice: 4500000, PricePerSqm: 56000},
	}
	for _, l := range seed {
		if err := store.Save(l); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/sub/comparables", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var result models.ComparisonResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Err != "" {
		t.Fatalf("unexpected error: %s", result.Err)
	}
	if len(result.Comparables) != 2 {
		t.Errorf("comparables: got %d, want 2", len(result.Comparables))
	}
	for _, c := range result.Comparables {
		if c.ID == "sub" {
			t.Error("subject's stored copy leaked into its own comparables")
		}
	}
}

func TestComparablesThinPool(t *testing.T) {
	srv, store := newTestServer(t)

	if err := store.Save(&models.Listing{ID: "lonely", DwellingType: models.DwellingApartment, PostalCode: "0350"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/lonely/comparables", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var result models.ComparisonResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Err == "" {
		t.Error("expected the error field to be set for a one-listing pool")
	}
}
