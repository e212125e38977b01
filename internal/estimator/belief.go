// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package estimator

import (
	"math"

	"github.com/tomtom215/rtcast/internal/stats"
)

// Belief is a Gamma(Alpha, rate Beta) distribution over the daily growth
// factor of new cases.
type Belief struct {
	Alpha float64
	Beta  float64
}

// Update folds one day into the belief: newCases counts as successes for
// the shape and the previous day's cases as exposure for the rate.
func (b Belief) Update(newCases, oldCases float64) Belief {
	return Belief{Alpha: b.Alpha + newCases, Beta: b.Beta + oldCases}
}

// Rt returns the point estimate 1 + infectiousPeriod*ln(alpha/beta), clamped at 0.
func (b Belief) Rt(infectiousPeriod float64) float64 {
	return toRt(stats.GammaMean(b.Alpha, b.Beta), infectiousPeriod)
}

// Interval returns the Rt values at the (1-ci) and ci quantiles of the
// belief, each clamped at 0.
func (b Belief) Interval(ci, infectiousPeriod float64) (lower, upper float64) {
	lower = toRt(stats.GammaQuantile(b.Alpha, b.Beta, 1-ci), infectiousPeriod)
	upper = toRt(stats.GammaQuantile(b.Alpha, b.Beta, ci), infectiousPeriod)
	return lower, upper
}

// Predictive returns the Negative-Binomial parameters of tomorrow's case
// count given today's oldCases: r = alpha, p = beta/(oldCases+beta).
func (b Belief) Predictive(oldCases float64) (r, p float64) {
	return b.Alpha, b.Beta / (oldCases + b.Beta)
}

// toRt maps a growth factor to Rt. Non-positive and NaN growth factors
// (log argument out of domain) give 0.
func toRt(growth, infectiousPeriod float64) float64 {
	if !(growth > 0) {
		return 0
	}
	rt := 1 + infectiousPeriod*math.Log(growth)
	if !(rt > 0) {
		return 0
	}
	return rt
}
