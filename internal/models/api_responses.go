// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package models

import (
	"time"
)

// APIResponse is the envelope returned by every serve-mode HTTP endpoint.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
// Example:
//
//	{
//	  "status": "success",
//	  "data": [{"location": "NY", "date": "2020-04-01T00:00:00Z", "rt": 1.42, ...}],
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "run_id": "5f0c1b8e-...",
//	    "count": 31
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes the response and the estimation run it was served from.
// RunID and GeneratedAt are omitted before the first run completes.
type Metadata struct {
	Timestamp   time.Time  `json:"timestamp"`
	RunID       string     `json:"run_id,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Count       int        `json:"count,omitempty"`
}

// APIError carries a machine-readable code and a human message.
//
// Codes used by the API:
//   - VALIDATION_ERROR: invalid query parameters
//   - NOT_FOUND: unknown location
//   - NOT_READY: no estimation run has completed yet
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// LocationSummary is the per-location entry returned by /api/v1/locations.
type LocationSummary struct {
	Location  string     `json:"location"`
	Status    string     `json:"status"`
	Estimates int        `json:"estimates"`
	Anomalies int        `json:"anomalies"`
	First     *time.Time `json:"first,omitempty"`
	Last      *time.Time `json:"last,omitempty"`
	LatestRt  *float64   `json:"latest_rt,omitempty"`
	Error     string     `json:"error,omitempty"`
}
