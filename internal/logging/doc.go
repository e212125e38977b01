// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package logging provides centralized zerolog-based structured logging for rtcast.
//
// A single global zerolog logger is configured once at startup from the
// logging section of the configuration. JSON output is the default; the
// console format is meant for interactive use of the CLI.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("locations", n).Msg("Estimation run started")
//	logging.Err(err).Str("location", loc).Msg("Location failed")
//
// # Context Fields
//
// Estimation runs carry a run ID, and per-location work carries the
// location name. Ctx picks both up automatically along with the HTTP
// request and correlation IDs set by the API middleware:
//
//	ctx = logging.ContextWithRunID(ctx, runID)
//	ctx = logging.ContextWithLocation(ctx, "NY")
//	logging.Ctx(ctx).Warn().Msg("Annealing did not converge")
//
// # slog Bridge
//
// The supervisor tree (suture v4) reports through log/slog. NewSlogLogger
// returns a *slog.Logger whose records are forwarded to the global zerolog
// logger so every component writes the same format.
package logging
