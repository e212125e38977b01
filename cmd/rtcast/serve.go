// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tomtom215/rtcast/internal/api"
	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/config"
	"github.com/tomtom215/rtcast/internal/logging"
	"github.com/tomtom215/rtcast/internal/supervisor"
	"github.com/tomtom215/rtcast/internal/supervisor/services"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "re-estimate on a schedule and serve the latest results over HTTP",
	Flags: append(append(inputFlags(), outputFlags()...),
		&cli.StringFlag{Name: "host", Usage: "HTTP listen host"},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP listen port"},
		&cli.DurationFlag{Name: "refresh", Usage: "re-estimation interval (0 = once at startup)"},
	),
	Action: runServe,
}

func runServe(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Results are only written to files in serve mode; streaming them to
	// stdout on every refresh is not useful.
	p, err := newPipeline(cfg, cfg.Output.Path != config.StdoutPath)
	if err != nil {
		return err
	}

	store := assembler.NewStore()
	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddEstimationService(
		services.NewEstimationService(p.run, store, cfg.Server.RefreshInterval).
			WithCircuitBreaker(cfg.Server.BreakerFailures, cfg.Server.BreakerCooldown),
	)

	handler := api.NewRouter(api.NewHandler(store), api.RouterConfig{
		RateLimitRequests: cfg.Server.RateLimitReqs,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
		RateLimitDisabled: cfg.Server.RateLimitDisabled,
		CORSOrigins:       cfg.Server.CORSOrigins,
	})
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	tree.AddAPIService(services.NewHTTPServerService(srv, addr, cfg.Server.ShutdownTimeout))

	logging.Info().
		Str("addr", addr).
		Dur("refresh", cfg.Server.RefreshInterval).
		Str("input", cfg.Input.Path).
		Msg("Starting rtcast serve mode")

	err = tree.Serve(ctx)
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("rtcast stopped")
	return nil
}
