// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

/*
Package supervisor runs serve mode under a suture v4 supervisor tree.

The tree has two layers. The estimation layer holds a
services.EstimationService that re-estimates on a schedule and publishes
each run to an assembler.Store. The API layer holds a
services.HTTPServerService serving that store. Failures restart with
suture's backoff and stay within their layer.

Usage:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddEstimationService(services.NewEstimationService(run, store, time.Hour))
	tree.AddAPIService(services.NewHTTPServerService(srv, ":8088", 10*time.Second))
	err := tree.Serve(ctx)

Supervisor events are bridged to zerolog via sutureslog and the slog
adapter in internal/logging.
*/
package supervisor
