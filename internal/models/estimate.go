// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package models

import "time"

// Estimate is one day's reproduction number estimate for a location.
//
// Rt, Lower and Upper always satisfy 0 <= Lower <= Rt <= Upper.
// The remaining fields describe the Negative-Binomial predictive the day's
// observation was checked against. When Degenerate is true the predictive
// was not evaluated (zero cases on the day or the day before) and the
// predictive fields are zero.
type Estimate struct {
	Location string    `json:"location"`
	Date     time.Time `json:"date"`
	Rt       float64   `json:"rt"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`

	NewCases   float64 `json:"new_cases"`
	PredMean   float64 `json:"pred_mean"`
	PredLower  float64 `json:"pred_lower"`
	PredUpper  float64 `json:"pred_upper"`
	Degenerate bool    `json:"degenerate,omitempty"`
	Anomalous  bool    `json:"anomalous,omitempty"`
}

// Width returns the width of the credible interval.
func (e Estimate) Width() float64 {
	return e.Upper - e.Lower
}

// Anomaly records an observation that fell outside its predictive interval
// and the variance annealing that absorbed it.
type Anomaly struct {
	Location string    `json:"location"`
	Date     time.Time `json:"date"`
	Observed float64   `json:"observed"`
	PredMean float64   `json:"pred_mean"`

	// Bounds of the predictive before annealing.
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`

	// Bounds of the predictive after annealing stopped.
	AbsorbedLower float64 `json:"absorbed_lower"`
	AbsorbedUpper float64 `json:"absorbed_upper"`

	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`
}
