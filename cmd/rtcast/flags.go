// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tomtom215/rtcast/internal/config"
	"github.com/tomtom215/rtcast/internal/logging"
)

// inputFlags are shared by estimate and serve.
func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file or DuckDB database (- for stdin)"},
		&cli.StringFlag{Name: "input-format", Usage: "input format: csv, json, duckdb"},
		&cli.StringFlag{Name: "input-table", Usage: "DuckDB table holding the series"},
		&cli.StringFlag{Name: "location-column", Usage: "location column name"},
		&cli.StringFlag{Name: "date-column", Usage: "date column name"},
		&cli.StringFlag{Name: "value-column", Usage: "smoothed cumulative value column name"},
		&cli.Float64Flag{Name: "ci", Usage: "credible interval upper quantile, in (0.5, 1)"},
		&cli.Float64Flag{Name: "infectious-period", Usage: "infectious period in days"},
		&cli.Float64Flag{Name: "min-cases", Usage: "skip locations with fewer cumulative cases"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "locations estimated in parallel (0 = all CPUs)"},
	}
}

// outputFlags select where results are written.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file or DuckDB database (- for stdout)"},
		&cli.StringFlag{Name: "output-format", Usage: "output format: csv, json, duckdb"},
		&cli.StringFlag{Name: "anomalies", Usage: "also write the anomaly log as CSV to this path"},
	}
}

// loadConfig loads layered configuration, applies the flags that were set
// and validates the result. It also initializes logging.
func loadConfig(cctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadWithKoanf(cctx.String("config"), false)
	if err != nil {
		return nil, err
	}
	applyFlags(cctx, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lc := logging.DefaultConfig()
	lc.Level = cfg.Logging.Level
	lc.Format = cfg.Logging.Format
	lc.Caller = cfg.Logging.Caller
	logging.Init(lc)

	return cfg, nil
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cctx *cli.Context, cfg *config.Config) {
	setString := func(name string, dst *string) {
		if cctx.IsSet(name) {
			*dst = cctx.String(name)
		}
	}
	setFloat := func(name string, dst *float64) {
		if cctx.IsSet(name) {
			*dst = cctx.Float64(name)
		}
	}
	setInt := func(name string, dst *int) {
		if cctx.IsSet(name) {
			*dst = cctx.Int(name)
		}
	}

	setString("log-level", &cfg.Logging.Level)
	setString("log-format", &cfg.Logging.Format)

	setString("input", &cfg.Input.Path)
	setString("input-format", &cfg.Input.Format)
	setString("input-table", &cfg.Input.Table)
	setString("location-column", &cfg.Input.LocationColumn)
	setString("date-column", &cfg.Input.DateColumn)
	setString("value-column", &cfg.Input.ValueColumn)
	setFloat("ci", &cfg.Estimator.CI)
	setFloat("infectious-period", &cfg.Estimator.InfectiousPeriod)
	setFloat("min-cases", &cfg.Estimator.MinCases)
	setInt("workers", &cfg.Runner.Workers)

	setString("output", &cfg.Output.Path)
	setString("output-format", &cfg.Output.Format)
	setString("anomalies", &cfg.Output.AnomaliesPath)

	setString("host", &cfg.Server.Host)
	setInt("port", &cfg.Server.Port)
	if cctx.IsSet("refresh") {
		cfg.Server.RefreshInterval = cctx.Duration("refresh")
	}
}
