// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package assembler

import (
	"time"

	"github.com/tomtom215/rtcast/internal/metrics"
)

// Outcome is what happened to one location during a run.
type Outcome struct {
	Location     string `json:"location"`
	Status       string `json:"status"`
	Estimates    int    `json:"estimates"`
	Anomalies    int    `json:"anomalies"`
	NonConverged int    `json:"non_converged"`
	Error        string `json:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	RunID        string        `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
	Estimated    int           `json:"estimated"`
	Skipped      int           `json:"skipped"`
	Failed       int           `json:"failed"`
	Estimates    int           `json:"estimates"`
	Anomalies    int           `json:"anomalies"`
	NonConverged int           `json:"non_converged"`
	Outcomes     []Outcome     `json:"outcomes"`
}

func (r *Report) add(o Outcome) {
	switch o.Status {
	case metrics.StatusEstimated:
		r.Estimated++
	case metrics.StatusSkipped:
		r.Skipped++
	case metrics.StatusFailed:
		r.Failed++
	}
	r.Estimates += o.Estimates
	r.Anomalies += o.Anomalies
	r.NonConverged += o.NonConverged
	r.Outcomes = append(r.Outcomes, o)
}

// Outcome returns the outcome for a location.
func (r *Report) Outcome(loc string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Location == loc {
			return o, true
		}
	}
	return Outcome{}, false
}
