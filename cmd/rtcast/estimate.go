// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tomtom215/rtcast/internal/logging"
	"github.com/tomtom215/rtcast/internal/report"
)

var estimateCmd = &cli.Command{
	Name:  "estimate",
	Usage: "estimate Rt once and write the results",
	Flags: append(append(inputFlags(), outputFlags()...),
		&cli.BoolFlag{Name: "summary", Aliases: []string{"s"}, Usage: "print a per-location summary to stderr"},
		&cli.BoolFlag{Name: "no-color", Usage: "disable colors in the summary"},
	),
	Action: runEstimate,
}

func runEstimate(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())

	p, err := newPipeline(cfg, true)
	if err != nil {
		return err
	}
	table, rep, err := p.run(ctx)
	if err != nil {
		return err
	}

	if cctx.Bool("summary") {
		if err := report.NewPrinter(cctx.Bool("no-color")).Summary(os.Stderr, rep, table); err != nil {
			logging.Warn().Err(err).Msg("Failed to print summary")
		}
	}
	return nil
}
