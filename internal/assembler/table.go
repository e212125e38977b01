// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package assembler runs the estimator over many locations and merges the
// per-location results into a single table.
//
// Locations are estimated in parallel on a bounded worker pool. Each
// location's result is written to the slot matching its position in the
// input, so the merged Table keeps input (encounter) order regardless of
// scheduling. A location that fails is recorded in the Report and does not
// affect the others.
package assembler

import (
	"time"

	"github.com/tomtom215/rtcast/internal/estimator"
	"github.com/tomtom215/rtcast/internal/models"
)

// Table is the merged output of one run. Estimates are grouped by location
// in encounter order, and ordered by date within a location.
type Table struct {
	RunID       string
	GeneratedAt time.Time
	Estimates   []models.Estimate
	Anomalies   []models.Anomaly

	locations []string
	spans     map[string]span
}

// span is the half-open range of a location's rows in Estimates.
type span struct{ start, end int }

// NewTable returns an empty table for the given run.
func NewTable(runID string, generatedAt time.Time) *Table {
	return &Table{
		RunID:       runID,
		GeneratedAt: generatedAt,
		spans:       make(map[string]span),
	}
}

// Append adds one location's result. Skipped locations contribute no rows
// but are still listed by Locations.
func (t *Table) Append(res estimator.Result) {
	start := len(t.Estimates)
	t.Estimates = append(t.Estimates, res.Estimates...)
	t.Anomalies = append(t.Anomalies, res.Anomalies...)
	if _, seen := t.spans[res.Location]; !seen {
		t.locations = append(t.locations, res.Location)
	}
	t.spans[res.Location] = span{start: start, end: len(t.Estimates)}
}

// Locations returns the locations in encounter order.
func (t *Table) Locations() []string {
	out := make([]string, len(t.locations))
	copy(out, t.locations)
	return out
}

// Location returns the estimates for one location. ok is false for a
// location that was never appended.
func (t *Table) Location(loc string) (rows []models.Estimate, ok bool) {
	sp, ok := t.spans[loc]
	if !ok {
		return nil, false
	}
	return t.Estimates[sp.start:sp.end], true
}

// LocationAnomalies returns the anomalies recorded for one location.
func (t *Table) LocationAnomalies(loc string) []models.Anomaly {
	var out []models.Anomaly
	for i := range t.Anomalies {
		if t.Anomalies[i].Location == loc {
			out = append(out, t.Anomalies[i])
		}
	}
	return out
}

// Len returns the number of estimate rows.
func (t *Table) Len() int {
	return len(t.Estimates)
}
