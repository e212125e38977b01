// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/estimator"
	"github.com/tomtom215/rtcast/internal/metrics"
	"github.com/tomtom215/rtcast/internal/models"
)

func day(d int) time.Time {
	return time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC)
}

func publishedStore() *assembler.Store {
	table := assembler.NewTable("run-7", day(31))
	table.Append(estimator.Result{
		Location: "NY",
		Estimates: []models.Estimate{
			{Location: "NY", Date: day(3), Rt: 2, Lower: 1.5, Upper: 2.5},
			{Location: "NY", Date: day(4), Rt: 1.8, Lower: 1.2, Upper: 2.4, Anomalous: true},
			{Location: "NY", Date: day(5), Rt: 1.6, Lower: 1.1, Upper: 2.1},
		},
		Anomalies: []models.Anomaly{{Location: "NY", Date: day(4), Observed: 90, Converged: true}},
	})
	table.Append(estimator.Result{
		Location:  "CA",
		Estimates: []models.Estimate{{Location: "CA", Date: day(3), Rt: 0.9, Lower: 0.5, Upper: 1.2}},
	})
	table.Append(estimator.Result{Location: "WY", Skipped: true})

	report := &assembler.Report{
		RunID:     "run-7",
		Estimated: 2,
		Skipped:   1,
		Estimates: 4,
		Anomalies: 1,
		Outcomes: []assembler.Outcome{
			{Location: "NY", Status: metrics.StatusEstimated, Estimates: 3, Anomalies: 1},
			{Location: "CA", Status: metrics.StatusEstimated, Estimates: 1},
			{Location: "WY", Status: metrics.StatusSkipped},
		},
	}
	s := assembler.NewStore()
	s.Publish(table, report)
	return s
}

func newTestRouter(store *assembler.Store, cfg RouterConfig) http.Handler {
	return NewRouter(NewHandler(store), cfg)
}

// envelope mirrors models.APIResponse with a raw payload.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("GET %s: invalid JSON %q: %v", target, rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	t.Parallel()

	empty := newTestRouter(assembler.NewStore(), RouterConfig{})
	rec, _ := get(t, empty, "/api/v1/health/live")
	if rec.Code != http.StatusOK {
		t.Errorf("live = %d, want 200", rec.Code)
	}
	rec, env := get(t, empty, "/api/v1/health/ready")
	if rec.Code != http.StatusServiceUnavailable || env.Status != "not_ready" {
		t.Errorf("ready before first run = %d %q, want 503 not_ready", rec.Code, env.Status)
	}

	rec, env = get(t, newTestRouter(publishedStore(), RouterConfig{}), "/api/v1/health/ready")
	if rec.Code != http.StatusOK || env.Metadata.RunID != "run-7" {
		t.Errorf("ready after run = %d run_id=%q", rec.Code, env.Metadata.RunID)
	}
}

func TestHealthReady_ReportsLastError(t *testing.T) {
	t.Parallel()

	store := publishedStore()
	store.Fail(errors.New("source unavailable"))

	rec, env := get(t, newTestRouter(store, RouterConfig{}), "/api/v1/health/ready")
	if rec.Code != http.StatusOK {
		t.Errorf("ready = %d, want 200 while a previous run is published", rec.Code)
	}
	if !strings.Contains(string(env.Data), "source unavailable") {
		t.Errorf("data %s should include last_error", env.Data)
	}
}

func TestDataEndpoints_NotReady(t *testing.T) {
	t.Parallel()

	h := newTestRouter(assembler.NewStore(), RouterConfig{})
	for _, path := range []string{"/api/v1/estimates", "/api/v1/locations", "/api/v1/anomalies", "/api/v1/runs/latest", "/api/v1/locations/NY"} {
		rec, env := get(t, h, path)
		if rec.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != "NOT_READY" {
			t.Errorf("%s = %d %+v, want 503 NOT_READY", path, rec.Code, env.Error)
		}
	}
}

func TestEstimates(t *testing.T) {
	t.Parallel()

	h := newTestRouter(publishedStore(), RouterConfig{})

	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantCount int
		wantErr   string
	}{
		{"all rows", "/api/v1/estimates", http.StatusOK, 4, ""},
		{"one location", "/api/v1/estimates?location=NY", http.StatusOK, 3, ""},
		{"date range", "/api/v1/estimates?location=NY&from=2020-03-04&to=2020-03-04", http.StatusOK, 1, ""},
		{"open upper bound", "/api/v1/estimates?from=2020-03-04", http.StatusOK, 2, ""},
		{"skipped location has no rows", "/api/v1/estimates?location=WY", http.StatusOK, 0, ""},
		{"unknown location", "/api/v1/estimates?location=ZZ", http.StatusNotFound, 0, "NOT_FOUND"},
		{"bad date", "/api/v1/estimates?from=March", http.StatusBadRequest, 0, "VALIDATION_ERROR"},
		{"inverted range", "/api/v1/estimates?from=2020-03-05&to=2020-03-01", http.StatusBadRequest, 0, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := get(t, h, tt.target)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantErr != "" {
				if env.Error == nil || env.Error.Code != tt.wantErr {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantErr)
				}
				return
			}
			var rows []models.Estimate
			if err := json.Unmarshal(env.Data, &rows); err != nil {
				t.Fatalf("decode rows: %v", err)
			}
			if len(rows) != tt.wantCount || env.Metadata.Count != tt.wantCount {
				t.Errorf("got %d rows (count %d), want %d", len(rows), env.Metadata.Count, tt.wantCount)
			}
			if env.Metadata.RunID != "run-7" || env.Metadata.GeneratedAt == nil {
				t.Errorf("metadata = %+v", env.Metadata)
			}
		})
	}
}

func TestAnomalies(t *testing.T) {
	t.Parallel()

	h := newTestRouter(publishedStore(), RouterConfig{})

	_, env := get(t, h, "/api/v1/anomalies")
	var rows []models.Anomaly
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Observed != 90 {
		t.Errorf("anomalies = %+v", rows)
	}

	_, env = get(t, h, "/api/v1/anomalies?location=CA")
	if string(env.Data) != "[]" {
		t.Errorf("CA anomalies = %s, want []", env.Data)
	}

	rec, _ := get(t, h, "/api/v1/anomalies?location=ZZ")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown location = %d, want 404", rec.Code)
	}
}

func TestLocations(t *testing.T) {
	t.Parallel()

	h := newTestRouter(publishedStore(), RouterConfig{})

	_, env := get(t, h, "/api/v1/locations")
	var list []models.LocationSummary
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d locations, want 3", len(list))
	}
	ny := list[0]
	if ny.Location != "NY" || ny.LatestRt == nil || *ny.LatestRt != 1.6 || ny.First == nil || !ny.First.Equal(day(3)) {
		t.Errorf("NY summary = %+v", ny)
	}
	if wy := list[2]; wy.Status != metrics.StatusSkipped || wy.LatestRt != nil {
		t.Errorf("WY summary = %+v", wy)
	}

	rec, env := get(t, h, "/api/v1/locations/CA")
	if rec.Code != http.StatusOK {
		t.Fatalf("CA = %d", rec.Code)
	}
	var ca models.LocationSummary
	if err := json.Unmarshal(env.Data, &ca); err != nil {
		t.Fatal(err)
	}
	if ca.Estimates != 1 || *ca.LatestRt != 0.9 {
		t.Errorf("CA summary = %+v", ca)
	}

	if rec, _ := get(t, h, "/api/v1/locations/ZZ"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown location = %d, want 404", rec.Code)
	}
}

func TestLatestRun(t *testing.T) {
	t.Parallel()

	_, env := get(t, newTestRouter(publishedStore(), RouterConfig{}), "/api/v1/runs/latest")
	var rep assembler.Report
	if err := json.Unmarshal(env.Data, &rep); err != nil {
		t.Fatal(err)
	}
	if rep.RunID != "run-7" || rep.Estimated != 2 || rep.Skipped != 1 {
		t.Errorf("report = %+v", rep)
	}
}

func TestRouter_MetricsAndNotFound(t *testing.T) {
	t.Parallel()

	h := newTestRouter(publishedStore(), RouterConfig{})
	rec, _ := get(t, h, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "rtcast_") {
		t.Errorf("/metrics = %d, missing rtcast_ series", rec.Code)
	}

	rec, env := get(t, h, "/nope")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("/nope = %d %+v", rec.Code, env.Error)
	}

	post := httptest.NewRecorder()
	h.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/api/v1/estimates", nil))
	if post.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /estimates = %d, want 405", post.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	h := newTestRouter(publishedStore(), RouterConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute})

	codes := make([]int, 3)
	for i := range codes {
		rec, _ := get(t, h, "/api/v1/runs/latest")
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	// Health endpoints are not limited.
	if rec, _ := get(t, h, "/api/v1/health/live"); rec.Code != http.StatusOK {
		t.Errorf("health under limit = %d", rec.Code)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	t.Parallel()

	rec, _ := get(t, newTestRouter(publishedStore(), RouterConfig{}), "/api/v1/health/live")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()

	h := newTestRouter(publishedStore(), RouterConfig{CORSOrigins: []string{"https://dash.example"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	req.Header.Set("Origin", "https://dash.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	req.Header.Set("Origin", "https://other.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Allow-Origin %q", got)
	}

	// Without origins configured no CORS headers are added.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	req.Header.Set("Origin", "https://dash.example")
	rec = httptest.NewRecorder()
	newTestRouter(publishedStore(), RouterConfig{}).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("CORS disabled but Allow-Origin = %q", got)
	}
}
