// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package source

import (
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/rtcast/internal/models"
)

// Group splits observations into one series per location. Locations keep
// the order in which they were first encountered; each series is stably
// sorted by date. Duplicate dates are kept so the estimator can reject
// that location alone.
func Group(obs []models.Observation) ([]models.LocationSeries, error) {
	index := make(map[string]int)
	var groups [][]models.Observation

	for i := range obs {
		o := obs[i]
		if o.Location == "" {
			return nil, fmt.Errorf("observation %d: %w", i, models.ErrEmptyLocation)
		}
		g, ok := index[o.Location]
		if !ok {
			g = len(groups)
			index[o.Location] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], o)
	}

	out := make([]models.LocationSeries, len(groups))
	for g, rows := range groups {
		slices.SortStableFunc(rows, func(a, b models.Observation) int {
			return a.Date.Compare(b.Date)
		})
		s := models.LocationSeries{
			Location: rows[0].Location,
			Dates:    make([]time.Time, len(rows)),
			Values:   make([]float64, len(rows)),
		}
		for i, r := range rows {
			s.Dates[i] = r.Date
			s.Values[i] = r.Value
		}
		out[g] = s
	}
	return out, nil
}
