// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package assembler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/rtcast/internal/estimator"
	"github.com/tomtom215/rtcast/internal/logging"
	"github.com/tomtom215/rtcast/internal/metrics"
	"github.com/tomtom215/rtcast/internal/models"
)

// Runner estimates a set of locations in parallel.
type Runner struct {
	params  estimator.Params
	workers int
}

// NewRunner creates a runner. workers <= 0 means runtime.NumCPU().
func NewRunner(params estimator.Params, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{params: params, workers: workers}
}

// Workers returns the size of the worker pool.
func (r *Runner) Workers() int {
	return r.workers
}

// slot holds one location's result until the merge.
type slot struct {
	res estimator.Result
	err error
	ran bool
}

// Run estimates every series and returns the merged table and a report.
//
// Per-location errors are recorded in the report. The returned error is
// non-nil only for invalid parameters or when ctx is cancelled; in the
// latter case no table is returned.
func (r *Runner) Run(ctx context.Context, series []models.LocationSeries) (*Table, *Report, error) {
	if err := r.params.Validate(); err != nil {
		return nil, nil, err
	}

	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = logging.GenerateRunID()
		ctx = logging.ContextWithRunID(ctx, runID)
	}
	ctx = logging.ContextWithLogger(ctx, logging.WithComponent("estimator"))
	started := time.Now()
	logging.Ctx(ctx).Info().
		Int("locations", len(series)).
		Int("workers", r.workers).
		Msg("Estimation run started")

	slots := make([]slot, len(series))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range series {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			s := series[i]
			lctx := logging.ContextWithLocation(gctx, s.Location)
			res, err := estimator.Run(lctx, s, r.params)
			slots[i] = slot{res: res, err: err, ran: true}
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}

	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		metrics.RecordRun(time.Since(started), err)
		return nil, nil, fmt.Errorf("estimation run %s cancelled: %w", runID, err)
	}
	if waitErr != nil {
		metrics.RecordRun(time.Since(started), waitErr)
		return nil, nil, fmt.Errorf("estimation run %s: %w", runID, waitErr)
	}

	table := NewTable(runID, started.UTC())
	report := &Report{RunID: runID, StartedAt: started.UTC()}
	for i := range slots {
		o := r.merge(ctx, table, series[i].Location, slots[i])
		report.add(o)
		metrics.RecordLocation(o.Status, o.Estimates)
	}
	report.Duration = time.Since(started)
	metrics.RecordRun(report.Duration, nil)

	logging.Ctx(ctx).Info().
		Int("estimated", report.Estimated).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int("rows", report.Estimates).
		Int("anomalies", report.Anomalies).
		Dur("duration", report.Duration).
		Msg("Estimation run finished")

	return table, report, nil
}

// merge appends a slot to the table and returns its outcome.
func (r *Runner) merge(ctx context.Context, table *Table, location string, s slot) Outcome {
	o := Outcome{Location: location}
	switch {
	case !s.ran:
		o.Status = metrics.StatusFailed
		o.Error = "not scheduled"
	case s.err != nil:
		o.Status = metrics.StatusFailed
		o.Error = s.err.Error()
		logging.Ctx(logging.ContextWithLocation(ctx, location)).Warn().
			Err(s.err).
			Msg("Location failed")
	case s.res.Skipped:
		o.Status = metrics.StatusSkipped
		table.Append(s.res)
	default:
		o.Status = metrics.StatusEstimated
		o.Estimates = len(s.res.Estimates)
		o.Anomalies = len(s.res.Anomalies)
		o.NonConverged = s.res.NonConverged()
		table.Append(s.res)
		logging.Ctx(logging.ContextWithLocation(ctx, location)).Debug().
			Int("rows", o.Estimates).
			Int("anomalies", o.Anomalies).
			Msg("Location estimated")
	}
	return o
}
