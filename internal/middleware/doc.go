// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

/*
Package middleware provides HTTP middleware for the serve mode API.

All middleware has the func(http.Handler) http.Handler shape used by chi:

  - RequestID: propagates or generates X-Request-ID and seeds the logging
    context with request and correlation ids
  - PrometheusMetrics: records request counts, latency and in-flight
    requests, labelled by chi route pattern rather than raw path
  - AccessLog: one structured zerolog line per request

Typical ordering:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
