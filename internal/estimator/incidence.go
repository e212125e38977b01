// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package estimator

import "math"

// Incidence converts a cumulative series into daily new cases.
// The result has one element fewer than the input. Negative differences
// (downward revisions) and NaN differences become 0.
func Incidence(cumulative []float64) []float64 {
	if len(cumulative) < 2 {
		return nil
	}
	out := make([]float64, len(cumulative)-1)
	for i := 1; i < len(cumulative); i++ {
		d := cumulative[i] - cumulative[i-1]
		if d > 0 && !math.IsInf(d, 0) {
			out[i-1] = d
		}
	}
	return out
}

// Sufficient reports whether a cumulative series has enough cases to be
// estimated: its last value must be at least minCases. Empty series and a
// NaN last value are insufficient.
func Sufficient(cumulative []float64, minCases float64) bool {
	if len(cumulative) == 0 {
		return false
	}
	last := cumulative[len(cumulative)-1]
	return !math.IsNaN(last) && last >= minCases
}
