// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package stats

import (
	"math"
	"testing"
)

const tol = 1e-9

// negBinomPMF evaluates the Negative-Binomial mass function directly through
// log-gamma so the CDF can be checked against a plain sum.
func negBinomPMF(k int, r, p float64) float64 {
	lg1, _ := math.Lgamma(float64(k) + r)
	lg2, _ := math.Lgamma(float64(k) + 1)
	lg3, _ := math.Lgamma(r)
	return math.Exp(lg1 - lg2 - lg3 + r*math.Log(p) + float64(k)*math.Log(1-p))
}

func TestGammaMean(t *testing.T) {
	t.Parallel()

	if got := GammaMean(3, 2); got != 1.5 {
		t.Errorf("GammaMean(3, 2) = %v, want 1.5", got)
	}
}

func TestGammaQuantile_Exponential(t *testing.T) {
	t.Parallel()

	// Gamma(1, rate 2) is Exponential(2): Q(q) = -ln(1-q)/2.
	for _, q := range []float64{0.05, 0.5, 0.95} {
		want := -math.Log(1-q) / 2
		if got := GammaQuantile(1, 2, q); math.Abs(got-want) > 1e-7 {
			t.Errorf("GammaQuantile(1, 2, %v) = %v, want %v", q, got, want)
		}
	}
}

func TestGammaQuantile_Ordering(t *testing.T) {
	t.Parallel()

	lo := GammaQuantile(103, 102, 0.05)
	hi := GammaQuantile(103, 102, 0.95)
	mean := GammaMean(103, 102)
	if !(lo < mean && mean < hi) {
		t.Errorf("expected %v < %v < %v", lo, mean, hi)
	}
}

func TestGammaQuantile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		alpha, beta float64
		q           float64
	}{
		{"zero shape", 0, 1, 0.5},
		{"negative rate", 1, -1, 0.5},
		{"nan shape", math.NaN(), 1, 0.5},
		{"infinite rate", 1, math.Inf(1), 0.5},
		{"q above one", 1, 1, 1.5},
		{"q nan", 1, 1, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GammaQuantile(tt.alpha, tt.beta, tt.q); !math.IsNaN(got) {
				t.Errorf("GammaQuantile = %v, want NaN", got)
			}
		})
	}
}

func TestNegBinomMean(t *testing.T) {
	t.Parallel()

	if got := NegBinomMean(3, 0.25); got != 9 {
		t.Errorf("NegBinomMean(3, 0.25) = %v, want 9", got)
	}
}

func TestNegBinomCDF_MatchesSum(t *testing.T) {
	t.Parallel()

	r, p := 3.5, 0.3
	sum := 0.0
	for k := 0; k <= 25; k++ {
		sum += negBinomPMF(k, r, p)
		if got := NegBinomCDF(float64(k), r, p); math.Abs(got-sum) > 1e-9 {
			t.Fatalf("NegBinomCDF(%d) = %v, want %v", k, got, sum)
		}
	}
}

func TestNegBinomCDF_Edges(t *testing.T) {
	t.Parallel()

	if got := NegBinomCDF(-1, 2, 0.5); got != 0 {
		t.Errorf("CDF(-1) = %v, want 0", got)
	}
	if got := NegBinomCDF(3, 2, 1); got != 1 {
		t.Errorf("CDF with p=1 = %v, want 1", got)
	}
	// Non-integer k floors.
	if a, b := NegBinomCDF(2.7, 2, 0.4), NegBinomCDF(2, 2, 0.4); math.Abs(a-b) > tol {
		t.Errorf("CDF(2.7) = %v, CDF(2) = %v; want equal", a, b)
	}
}

func TestNegBinomQuantile_Geometric(t *testing.T) {
	t.Parallel()

	// r=1, p=0.5 is geometric: CDF(k) = 1 - 0.5^(k+1).
	tests := []struct {
		q    float64
		want float64
	}{
		{0.05, 0},
		{0.5, 0},
		{0.74, 1},
		{0.93, 3},
		{0.95, 4},
		{0.99, 6},
	}
	for _, tt := range tests {
		if got := NegBinomQuantile(tt.q, 1, 0.5); got != tt.want {
			t.Errorf("NegBinomQuantile(%v, 1, 0.5) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestNegBinomQuantile_SmallestK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    float64
		r, p float64
	}{
		{"moderate", 0.95, 103, 102.0 / 202.0},
		{"lower tail", 0.05, 103, 102.0 / 202.0},
		{"large mean", 0.95, 5000, 0.01},
		{"tiny shape", 0.95, 0.02, 0.0002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			k := NegBinomQuantile(tt.q, tt.r, tt.p)
			if math.IsNaN(k) || math.IsInf(k, 0) {
				t.Fatalf("quantile = %v", k)
			}
			if k != math.Floor(k) || k < 0 {
				t.Fatalf("quantile %v is not a non-negative integer", k)
			}
			if NegBinomCDF(k, tt.r, tt.p) < tt.q {
				t.Errorf("CDF(%v) < %v", k, tt.q)
			}
			if k > 0 && NegBinomCDF(k-1, tt.r, tt.p) >= tt.q {
				t.Errorf("CDF(%v) >= %v; %v is not the smallest", k-1, tt.q, k)
			}
		})
	}
}

func TestNegBinomQuantile_Invalid(t *testing.T) {
	t.Parallel()

	for _, c := range [][3]float64{
		{0.5, 0, 0.5},
		{0.5, 1, 0},
		{0.5, 1, 1.2},
		{1.5, 1, 0.5},
		{0.5, math.Inf(1), 0.5},
	} {
		if got := NegBinomQuantile(c[0], c[1], c[2]); !math.IsNaN(got) {
			t.Errorf("NegBinomQuantile(%v, %v, %v) = %v, want NaN", c[0], c[1], c[2], got)
		}
	}
}

func TestValidNegBinom(t *testing.T) {
	t.Parallel()

	if !ValidNegBinom(2, 1) {
		t.Error("p=1 should be valid")
	}
	if ValidNegBinom(math.NaN(), 0.5) {
		t.Error("NaN r should be invalid")
	}
	if ValidNegBinom(2, math.NaN()) {
		t.Error("NaN p should be invalid")
	}
}
