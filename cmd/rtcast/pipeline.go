// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/config"
	"github.com/tomtom215/rtcast/internal/logging"
	"github.com/tomtom215/rtcast/internal/sink"
	"github.com/tomtom215/rtcast/internal/source"
)

// pipeline reads the series, estimates every location and writes the
// results.
type pipeline struct {
	src    source.Source
	sink   sink.Sink // nil skips writing
	runner *assembler.Runner
}

func newPipeline(cfg *config.Config, withSink bool) (*pipeline, error) {
	src, err := source.New(cfg.Input, cfg.Database)
	if err != nil {
		return nil, err
	}
	p := &pipeline{
		src:    src,
		runner: assembler.NewRunner(cfg.Estimator.Params(), cfg.Runner.Workers),
	}
	if withSink {
		if p.sink, err = sink.New(cfg.Output, cfg.Input.LocationColumn, cfg.Database); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// run performs one complete estimation.
func (p *pipeline) run(ctx context.Context) (*assembler.Table, *assembler.Report, error) {
	obs, err := p.src.Read(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read series: %w", err)
	}
	series, err := source.Group(obs)
	if err != nil {
		return nil, nil, fmt.Errorf("group series: %w", err)
	}
	logging.Ctx(ctx).Debug().
		Int("observations", len(obs)).
		Int("locations", len(series)).
		Msg("Read case series")

	table, report, err := p.runner.Run(ctx, series)
	if err != nil {
		return nil, nil, err
	}

	if p.sink != nil {
		if err := p.sink.Write(ctx, table); err != nil {
			return table, report, fmt.Errorf("write results: %w", err)
		}
	}
	return table, report, nil
}
