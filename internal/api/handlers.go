// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/models"
)

// ResultSource provides the latest published run.
type ResultSource interface {
	Latest() (assembler.Snapshot, bool)
	LastError() error
}

// Handler serves the HTTP endpoints.
type Handler struct {
	results   ResultSource
	startTime time.Time
}

// NewHandler creates a handler reading from results.
func NewHandler(results ResultSource) *Handler {
	return &Handler{results: results, startTime: time.Now()}
}

// snapshot returns the latest run or writes a 503 NOT_READY response.
func (h *Handler) snapshot(w http.ResponseWriter) (assembler.Snapshot, bool) {
	snap, ok := h.results.Latest()
	if !ok {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "No estimation run has completed yet", nil)
	}
	return snap, ok
}

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady returns 200 once a run has been published, 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.results.Latest()
	data := map[string]interface{}{
		"ready":  ok,
		"uptime": time.Since(h.startTime).Seconds(),
	}
	if err := h.results.LastError(); err != nil {
		data["last_error"] = err.Error()
	}

	status, code := "ready", http.StatusOK
	meta := models.Metadata{Timestamp: time.Now().UTC()}
	if ok {
		generated := snap.Table.GeneratedAt
		meta.RunID = snap.Table.RunID
		meta.GeneratedAt = &generated
		data["published_at"] = snap.PublishedAt
	} else {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	respondJSON(w, code, &models.APIResponse{Status: status, Data: data, Metadata: meta})
}

// Estimates returns estimate rows, optionally filtered by location and date.
func (h *Handler) Estimates(w http.ResponseWriter, r *http.Request) {
	req, dr, verr := parseRowsRequest(r)
	if verr != nil {
		respondValidationError(w, verr)
		return
	}
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	rows := snap.Table.Estimates
	if req.Location != "" {
		if rows, ok = snap.Table.Location(req.Location); !ok {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown location: "+req.Location, nil)
			return
		}
	}

	out := make([]models.Estimate, 0, len(rows))
	for i := range rows {
		if dr.contains(rows[i].Date) {
			out = append(out, rows[i])
		}
	}
	respondSnapshot(w, snap, out, len(out))
}

// Anomalies returns the anomaly log, optionally filtered.
func (h *Handler) Anomalies(w http.ResponseWriter, r *http.Request) {
	req, dr, verr := parseRowsRequest(r)
	if verr != nil {
		respondValidationError(w, verr)
		return
	}
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	if req.Location != "" {
		if _, known := snap.Table.Location(req.Location); !known {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown location: "+req.Location, nil)
			return
		}
	}

	out := make([]models.Anomaly, 0)
	for _, a := range snap.Table.Anomalies {
		if req.Location != "" && a.Location != req.Location {
			continue
		}
		if dr.contains(a.Date) {
			out = append(out, a)
		}
	}
	respondSnapshot(w, snap, out, len(out))
}

// Locations returns a summary for every location in the latest run,
// including skipped and failed ones.
func (h *Handler) Locations(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	out := make([]models.LocationSummary, 0, len(snap.Report.Outcomes))
	for _, o := range snap.Report.Outcomes {
		out = append(out, summarize(snap.Table, o))
	}
	respondSnapshot(w, snap, out, len(out))
}

// Location returns one location's summary.
func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	loc := chi.URLParam(r, "location")
	o, found := snap.Report.Outcome(loc)
	if !found {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown location: "+loc, nil)
		return
	}
	respondSnapshot(w, snap, summarize(snap.Table, o), 1)
}

// LatestRun returns the report of the latest run.
func (h *Handler) LatestRun(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	respondSnapshot(w, snap, snap.Report, len(snap.Report.Outcomes))
}

func summarize(table *assembler.Table, o assembler.Outcome) models.LocationSummary {
	s := models.LocationSummary{
		Location:  o.Location,
		Status:    o.Status,
		Estimates: o.Estimates,
		Anomalies: o.Anomalies,
		Error:     o.Error,
	}
	rows, ok := table.Location(o.Location)
	if !ok || len(rows) == 0 {
		return s
	}
	first, last := rows[0].Date, rows[len(rows)-1].Date
	rt := rows[len(rows)-1].Rt
	s.First, s.Last, s.LatestRt = &first, &last, &rt
	return s
}
