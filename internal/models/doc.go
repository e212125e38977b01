// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package models defines the data types shared across rtcast packages.
//
// Input side:
//   - Observation: one (location, date, smoothed cumulative) row from a source
//   - LocationSeries: one location's observations, ordered by date
//
// Output side:
//   - Estimate: one day's Rt point estimate and credible interval, plus the
//     day's predictive diagnostics
//   - Anomaly: an observation that fell outside its predictive interval
//
// API side:
//   - APIResponse, Metadata, APIError: the JSON envelope used by every
//     HTTP endpoint in serve mode
//
// Dates are calendar days. They are carried as time.Time truncated to UTC
// midnight and rendered with DateLayout.
package models
