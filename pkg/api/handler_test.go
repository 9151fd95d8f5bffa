package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hazyhaar/covidgraph/pkg/region"
)

type staticSource struct {
	cat *region.Catalog
}

func (s staticSource) Catalog() *region.Catalog { return s.cat }

func setupCatalog(t *testing.T) *region.Catalog {
	t.Helper()
	c := region.NewCatalog()
	d1 := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC)
	add := func(kind region.Kind, name, country, raw string, s region.Stats) {
		if _, err := c.Add(kind, name, country, raw, s); err != nil {
			t.Fatal(err)
		}
	}
	add(region.Country, "US", "", "US", region.NewStats(d1, 12, 1, 1))
	add(region.State, "Washington", "US", "Snohomish, WA", region.NewStats(d1, 5, 1, 1))
	add(region.State, "Washington", "US", "Snohomish, WA", region.NewStats(d2, 8, 1, 2))
	add(region.State, "District of Columbia", "US", "Washington, D.C.", region.NewStats(d1, 7, 0, 0))
	// a region with no dated data is still listable
	if _, err := c.Add(region.Country, "Atlantis", "", "Atlantis", region.Stats{}); err != nil {
		t.Fatal(err)
	}
	return c
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(staticSource{cat: setupCatalog(t)}, nil)
}

func TestListRegions(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/v1/regions?kind=state", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp regionsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Regions) != 2 {
		t.Fatalf("regions = %d", len(resp.Regions))
	}
	// sorted by key: district_of_columbia_us < washington_us
	if resp.Regions[0].Name != "District of Columbia" || resp.Regions[1].Country != "US" {
		t.Errorf("regions = %+v", resp.Regions)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestListRegions_BadKind(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest("GET", "/v1/regions?kind=city", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestSearchRegions(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/v1/regions/search?q=washington", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp regionsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Regions) != 2 {
		t.Errorf("regions = %+v", resp.Regions)
	}
}

func TestSeries(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/v1/series?q=washington&choice=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp seriesResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Region.Name != "Washington" {
		t.Errorf("region = %+v", resp.Region)
	}
	want := []region.Point{{Date: "02/01/2020", Infected: 3}, {Date: "02/02/2020", Infected: 5}}
	if len(resp.Points) != 2 || resp.Points[0] != want[0] || resp.Points[1] != want[1] {
		t.Errorf("points = %+v, want %+v", resp.Points, want)
	}
	if resp.Region.First != "02/01/2020" || resp.Region.Last != "02/02/2020" {
		t.Errorf("coverage = %s..%s", resp.Region.First, resp.Region.Last)
	}
}

func TestSeries_Ambiguous(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/v1/series?q=washington", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ambiguousResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Candidates) != 2 || resp.Candidates[0].Name != "Washington" {
		t.Errorf("candidates = %+v", resp.Candidates)
	}
}

func TestSeries_Errors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		url  string
		code int
	}{
		{"/v1/series?q=narnia", http.StatusNotFound},
		{"/v1/series?q=washington&choice=9", http.StatusBadRequest},
		{"/v1/series?q=washington&choice=x", http.StatusBadRequest},
		{"/v1/series", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", tt.url, nil))
		if w.Code != tt.code {
			t.Errorf("GET %s = %d, want %d", tt.url, w.Code, tt.code)
		}
	}
}

func TestSeries_EmptyRegion(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/series?q=atlantis", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp seriesResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Points) != 0 {
		t.Errorf("points = %+v", resp.Points)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp healthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "ok" || resp.Countries != 2 || resp.States != 2 {
		t.Errorf("health = %+v", resp)
	}
}

func TestRequestID_Echoed(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest("GET", "/v1/health", nil)
	req.Header.Set("X-Request-ID", "abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc123" {
		t.Errorf("X-Request-ID = %q", got)
	}
}
