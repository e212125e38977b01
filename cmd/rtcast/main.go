// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Command rtcast estimates the time-varying reproduction number Rt of an
// epidemic from smoothed cumulative case counts.
//
// Each location is filtered independently with a conjugate Gamma-Poisson
// model. Days whose observed incidence falls outside the Negative-Binomial
// predictive interval are flagged as anomalies and absorbed by widening the
// predictive variance, so a reporting spike widens the credible interval
// instead of moving the point estimate.
//
// # Commands
//
//	rtcast estimate   one-shot run: read series, estimate, write results
//	rtcast serve      re-estimate on a schedule and serve results over HTTP
//
// # Configuration
//
// Settings are layered (highest priority wins): command line flags,
// environment variables (a .env file in the working directory is loaded
// first), a YAML config file, built-in defaults. See internal/config.
//
// # Example Usage
//
//	rtcast estimate --input states.csv --output rt.csv --summary
//	rtcast estimate --input cases.duckdb --input-format duckdb --input-table cases \
//	    --output results.duckdb --output-format duckdb
//	INPUT_PATH=states.csv HTTP_PORT=8088 rtcast serve --refresh 6h
//
// # Output
//
// The default CSV output has one row per location and day past the two
// warm-up days:
//
//	state,date,RR_pred,RR_CI_lower,RR_CI_upper
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/tomtom215/rtcast/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logging.Debug().Msgf(format, args...)
	})); err != nil {
		logging.Warn().Err(err).Msg("Failed to set GOMAXPROCS")
	}

	if err := newApp().Run(os.Args); err != nil {
		logging.Error().Err(err).Msg("rtcast failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "rtcast",
		Usage:   "sequential Bayesian estimation of the reproduction number Rt",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"RTCAST_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: trace, debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format: json or console",
			},
		},
		Commands: []*cli.Command{
			estimateCmd,
			serveCmd,
		},
	}
}
