// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package estimator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when filter parameters are out of range.
var ErrInvalidParams = errors.New("invalid estimator parameters")

// Params configures the filter. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	// CI is the one-sided quantile level for interval bounds. The interval
	// runs from the (1-CI) to the CI quantile, so 0.95 gives a 90% interval.
	CI float64

	// InfectiousPeriod converts the log growth factor into Rt, in days.
	InfectiousPeriod float64

	// MinCases is the minimum final cumulative count for a location to be estimated.
	MinCases float64

	PriorAlpha float64
	PriorBeta  float64

	// AnnealDecay multiplies the Negative-Binomial p on each annealing step.
	AnnealDecay float64

	// MaxAnnealIterations caps the annealing sub-loop for a single day.
	MaxAnnealIterations int
}

// DefaultParams returns the standard filter configuration.
func DefaultParams() Params {
	return Params{
		CI:                  0.95,
		InfectiousPeriod:    4.5,
		MinCases:            10,
		PriorAlpha:          3,
		PriorBeta:           2,
		AnnealDecay:         0.95,
		MaxAnnealIterations: 500,
	}
}

// Validate checks that all parameters are in range.
func (p Params) Validate() error {
	switch {
	case !(p.CI > 0.5 && p.CI < 1):
		return fmt.Errorf("%w: ci %v must be in (0.5, 1)", ErrInvalidParams, p.CI)
	case !(p.InfectiousPeriod > 0) || math.IsInf(p.InfectiousPeriod, 0):
		return fmt.Errorf("%w: infectious_period %v must be positive", ErrInvalidParams, p.InfectiousPeriod)
	case p.MinCases < 0 || math.IsNaN(p.MinCases):
		return fmt.Errorf("%w: min_cases %v must be non-negative", ErrInvalidParams, p.MinCases)
	case !(p.PriorAlpha > 0) || !(p.PriorBeta > 0):
		return fmt.Errorf("%w: priors (%v, %v) must be positive", ErrInvalidParams, p.PriorAlpha, p.PriorBeta)
	case !(p.AnnealDecay > 0 && p.AnnealDecay < 1):
		return fmt.Errorf("%w: anneal_decay %v must be in (0, 1)", ErrInvalidParams, p.AnnealDecay)
	case p.MaxAnnealIterations < 1:
		return fmt.Errorf("%w: max_anneal_iterations %d must be at least 1", ErrInvalidParams, p.MaxAnnealIterations)
	}
	return nil
}
