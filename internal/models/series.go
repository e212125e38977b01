// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package models

import (
	"errors"
	"fmt"
	"time"
)

// Series errors reported by Check.
var (
	ErrDuplicateDate  = errors.New("duplicate date")
	ErrUnorderedDates = errors.New("dates not increasing")
	ErrEmptyLocation  = errors.New("empty location")
	ErrLengthMismatch = errors.New("dates and values differ in length")
)

// DateLayout is the calendar date format used for input and output.
const DateLayout = "2006-01-02"

// Observation is a single source row: a location's smoothed cumulative
// case count on one day. Value may be NaN when the source cell was empty.
type Observation struct {
	Location string    `json:"location"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
}

// LocationSeries is the cumulative series of one location.
// Dates and Values have equal length and Dates are strictly increasing.
type LocationSeries struct {
	Location string      `json:"location"`
	Dates    []time.Time `json:"dates"`
	Values   []float64   `json:"values"`
}

// Len returns the number of observations in the series.
func (s LocationSeries) Len() int {
	return len(s.Values)
}

// Last returns the final cumulative value. ok is false for an empty series.
func (s LocationSeries) Last() (v float64, ok bool) {
	if len(s.Values) == 0 {
		return 0, false
	}
	return s.Values[len(s.Values)-1], true
}

// Check verifies the structural invariants of the series.
func (s LocationSeries) Check() error {
	if s.Location == "" {
		return ErrEmptyLocation
	}
	if len(s.Dates) != len(s.Values) {
		return fmt.Errorf("%w: %d dates, %d values", ErrLengthMismatch, len(s.Dates), len(s.Values))
	}
	for i := 1; i < len(s.Dates); i++ {
		switch {
		case s.Dates[i].Equal(s.Dates[i-1]):
			return fmt.Errorf("%w: %s", ErrDuplicateDate, s.Dates[i].Format(DateLayout))
		case s.Dates[i].Before(s.Dates[i-1]):
			return fmt.Errorf("%w: %s after %s", ErrUnorderedDates,
				s.Dates[i].Format(DateLayout), s.Dates[i-1].Format(DateLayout))
		}
	}
	return nil
}
