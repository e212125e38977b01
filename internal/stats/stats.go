// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package stats provides the Gamma and Negative-Binomial functions used by
// the Rt filter. All functions are pure.
//
// The Gamma distribution is parameterised by shape alpha and rate beta
// (scale 1/beta). The Negative-Binomial counts failures before the r-th
// success with success probability p, so its mean is r(1-p)/p.
package stats

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// maxQuantileSearch bounds the bracket search in NegBinomQuantile. Counts
// beyond this are not exactly representable as float64 integers anyway.
const maxQuantileSearch = 1 << 53

// GammaMean returns the mean alpha/beta of Gamma(alpha, rate beta).
func GammaMean(alpha, beta float64) float64 {
	return alpha / beta
}

// GammaQuantile returns the q-quantile of Gamma(alpha, rate beta).
// It returns NaN for non-positive parameters or q outside [0, 1].
func GammaQuantile(alpha, beta, q float64) float64 {
	if !(alpha > 0) || !(beta > 0) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return math.NaN()
	}
	if q < 0 || q > 1 || math.IsNaN(q) {
		return math.NaN()
	}
	return distuv.Gamma{Alpha: alpha, Beta: beta}.Quantile(q)
}

// NegBinomMean returns r(1-p)/p.
func NegBinomMean(r, p float64) float64 {
	return r * (1 - p) / p
}

// NegBinomCDF returns P(X <= k) for X ~ NB(r, p). It is the regularised
// incomplete beta function I_p(r, floor(k)+1).
func NegBinomCDF(k, r, p float64) float64 {
	if k < 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return mathext.RegIncBeta(r, math.Floor(k)+1, p)
}

// NegBinomQuantile returns the smallest integer k >= 0 with
// NegBinomCDF(k, r, p) >= q.
//
// The upper end is found by doubling from 1, then the integer interval is
// bisected. NaN is returned for invalid parameters.
func NegBinomQuantile(q, r, p float64) float64 {
	if !ValidNegBinom(r, p) || math.IsNaN(q) || q < 0 || q > 1 {
		return math.NaN()
	}
	if q == 0 || NegBinomCDF(0, r, p) >= q {
		return 0
	}
	if q == 1 {
		return math.Inf(1)
	}

	// Invariant: CDF(lo) < q <= CDF(hi).
	lo, hi := 0.0, 1.0
	for NegBinomCDF(hi, r, p) < q {
		lo = hi
		hi *= 2
		if hi > maxQuantileSearch {
			return math.Inf(1)
		}
	}
	for hi-lo > 1 {
		mid := math.Floor(lo + (hi-lo)/2)
		if NegBinomCDF(mid, r, p) >= q {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

// ValidNegBinom reports whether r and p describe a proper Negative-Binomial:
// r finite and positive, p in (0, 1].
func ValidNegBinom(r, p float64) bool {
	return r > 0 && !math.IsInf(r, 0) && p > 0 && p <= 1
}
