// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package estimator

import (
	"context"
	"fmt"

	"github.com/tomtom215/rtcast/internal/logging"
	"github.com/tomtom215/rtcast/internal/metrics"
	"github.com/tomtom215/rtcast/internal/models"
)

// Result is the filter output for one location.
type Result struct {
	Location string
	// Skipped is true when the location had fewer than MinCases cases.
	Skipped   bool
	Estimates []models.Estimate
	Anomalies []models.Anomaly
}

// NonConverged counts anomalies whose annealing hit the iteration cap.
func (r Result) NonConverged() int {
	n := 0
	for i := range r.Anomalies {
		if !r.Anomalies[i].Converged {
			n++
		}
	}
	return n
}

// Run estimates Rt for one location. An insufficient series is reported
// through Result.Skipped, not as an error. Structural problems with the
// series (mismatched lengths, unordered dates) are errors.
func Run(ctx context.Context, series models.LocationSeries, params Params) (Result, error) {
	res := Result{Location: series.Location}

	if err := params.Validate(); err != nil {
		return res, err
	}
	if err := series.Check(); err != nil {
		return res, fmt.Errorf("estimate %s: %w", series.Location, err)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if !Sufficient(series.Values, params.MinCases) {
		res.Skipped = true
		logging.Ctx(ctx).Debug().
			Int("days", series.Len()).
			Float64("min_cases", params.MinCases).
			Msg("Skipping location with insufficient cases")
		return res, nil
	}

	incidence := Incidence(series.Values)
	if n := len(incidence) - warmupDays; n > 0 {
		res.Estimates = make([]models.Estimate, 0, n)
	}

	f := NewFilter(params)
	for i, newCases := range incidence {
		step, ok := f.Next(newCases)
		if !ok {
			continue
		}
		// incidence[i] is the change from dates[i] to dates[i+1].
		date := series.Dates[i+1]

		res.Estimates = append(res.Estimates, models.Estimate{
			Location:   series.Location,
			Date:       date,
			Rt:         step.Rt,
			Lower:      step.Lower,
			Upper:      step.Upper,
			NewCases:   step.NewCases,
			PredMean:   step.PredMean,
			PredLower:  step.PredLower,
			PredUpper:  step.PredUpper,
			Degenerate: step.Degenerate,
			Anomalous:  step.Phase == PhaseAnomalous,
		})

		if a := step.Anneal; a != nil {
			res.Anomalies = append(res.Anomalies, models.Anomaly{
				Location:      series.Location,
				Date:          date,
				Observed:      newCases,
				PredMean:      step.PredMean,
				Lower:         a.Lower,
				Upper:         a.Upper,
				AbsorbedLower: a.AbsorbedLower,
				AbsorbedUpper: a.AbsorbedUpper,
				Iterations:    a.Iterations,
				Converged:     a.Converged,
			})
			metrics.RecordAnneal(a.Iterations, a.Converged)
			if !a.Converged {
				logging.Ctx(ctx).Warn().
					Str("date", date.Format(models.DateLayout)).
					Float64("observed", newCases).
					Float64("pred_mean", step.PredMean).
					Float64("absorbed_upper", a.AbsorbedUpper).
					Int("iterations", a.Iterations).
					Msg("Annealing did not absorb anomaly, keeping widest belief")
			}
		}
	}

	return res, nil
}
