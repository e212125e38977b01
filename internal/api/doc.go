// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

/*
Package api serves the latest estimation run over HTTP using the Chi router.

Routes:

	GET /api/v1/health/live                liveness, always 200
	GET /api/v1/health/ready               200 once a run is published, else 503
	GET /api/v1/estimates                  estimate rows
	GET /api/v1/locations                  per-location summaries
	GET /api/v1/locations/{location}       one location's summary
	GET /api/v1/anomalies                  anomaly log
	GET /api/v1/runs/latest                run report
	GET /metrics                           Prometheus exposition

Query parameters for /estimates and /anomalies:

	location  restrict to one location (404 if unknown)
	from, to  inclusive YYYY-MM-DD date bounds

Every JSON response uses the models.APIResponse envelope. Data endpoints are
rate limited per client IP with go-chi/httprate and instrumented by
middleware.PrometheusMetrics.
*/
package api
