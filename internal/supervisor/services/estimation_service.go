// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/logging"
)

// EstimateFunc performs one complete estimation run.
type EstimateFunc func(ctx context.Context) (*assembler.Table, *assembler.Report, error)

// ErrBreakerOpen is recorded when a scheduled run is skipped because the
// previous runs kept failing.
var ErrBreakerOpen = errors.New("estimation circuit breaker open")

// run is the value passed through the circuit breaker.
type run struct {
	table  *assembler.Table
	report *assembler.Report
}

// EstimationService re-runs the estimation on a fixed interval and
// publishes each successful run to a store.
//
// A failed run is recorded in the store and logged; the previous run stays
// published and the service keeps its schedule rather than returning to
// the supervisor. An interval of zero runs once and then idles until
// shutdown.
type EstimationService struct {
	estimate EstimateFunc
	store    *assembler.Store
	interval time.Duration
	breaker  *gobreaker.CircuitBreaker[run] // nil = every run executes
}

// NewEstimationService creates the service.
func NewEstimationService(estimate EstimateFunc, store *assembler.Store, interval time.Duration) *EstimationService {
	return &EstimationService{estimate: estimate, store: store, interval: interval}
}

// WithCircuitBreaker skips scheduled runs for cooldown once failures
// consecutive runs have failed. After the cooldown one trial run is let
// through; success closes the breaker again. failures == 0 leaves the
// service without a breaker.
func (s *EstimationService) WithCircuitBreaker(failures uint32, cooldown time.Duration) *EstimationService {
	if failures == 0 {
		s.breaker = nil
		return s
	}
	s.breaker = gobreaker.NewCircuitBreaker[run](gobreaker.Settings{
		Name:        "estimation",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Estimation circuit breaker changed state")
		},
	})
	return s
}

// Serve implements suture.Service.
func (s *EstimationService) Serve(ctx context.Context) error {
	s.runOnce(ctx)

	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *EstimationService) execute(ctx context.Context) (run, error) {
	call := func() (run, error) {
		table, report, err := s.estimate(ctx)
		return run{table: table, report: report}, err
	}
	if s.breaker == nil {
		return call()
	}
	r, err := s.breaker.Execute(call)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return r, fmt.Errorf("%w: %w", ErrBreakerOpen, err)
	}
	return r, err
}

func (s *EstimationService) runOnce(ctx context.Context) {
	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())
	ctx = logging.ContextWithLogger(ctx, logging.WithComponent("estimation-service"))
	r, err := s.execute(ctx)
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || ctx.Err() != nil):
		return
	case errors.Is(err, ErrBreakerOpen):
		s.store.Fail(err)
		logging.Ctx(ctx).Warn().Err(err).Msg("Skipping scheduled estimation")
	case err != nil:
		s.store.Fail(err)
		logging.Ctx(ctx).Error().Err(err).Msg("Scheduled estimation failed")
	default:
		s.store.Publish(r.table, r.report)
		logging.Ctx(ctx).Info().
			Int("locations", len(r.table.Locations())).
			Int("rows", len(r.table.Estimates)).
			Msg("Published estimation run")
	}
}

// String implements fmt.Stringer for suture's event log.
func (s *EstimationService) String() string {
	return "estimation"
}
