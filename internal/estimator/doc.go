// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package estimator implements the sequential Bayesian Rt filter.
//
// For each location the filter keeps a Gamma belief over the daily growth
// factor of new cases. Every day the belief is updated conjugately with the
// day's new cases and the previous day's cases, giving the reproduction
// number
//
//	Rt = 1 + infectiousPeriod * ln(alpha/beta)
//
// and a credible interval from the Gamma quantiles. Before the day is
// committed the observation is checked against the Negative-Binomial
// predictive implied by the belief. Observations outside the predictive
// interval are treated as anomalies: the predictive variance is inflated
// step by step, keeping its mean fixed, until the observation becomes
// plausible. The belief is then replaced by the widened one so the filter
// recovers quickly instead of carrying the outlier forward with full weight.
//
// # Phases
//
//	WARMUP     first two incidence days, no estimate
//	STEADY     normal update
//	ANOMALOUS  annealing sub-loop, returns to STEADY
//
// Annealing is capped at Params.MaxAnnealIterations. When the cap is hit
// the last widened state is kept and the Anomaly is marked not converged.
//
// # Usage
//
//	res, err := estimator.Run(ctx, series, estimator.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	if res.Skipped {
//	    // fewer than MinCases cumulative cases
//	}
//	for _, e := range res.Estimates { ... }
package estimator
