// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

/*
Package metrics provides Prometheus metrics for rtcast.

Metrics are registered on the default registry through promauto and are
exposed by serve mode at /metrics:

	curl http://localhost:8088/metrics

# Available Metrics

Estimation:
  - rtcast_locations_processed_total: locations handled (counter)
    Labels: status (estimated, skipped, failed)
  - rtcast_estimates_emitted_total: estimate rows produced (counter)
  - rtcast_anomalies_total: anomalous observations detected (counter)
  - rtcast_anneal_iterations: annealing steps per anomaly (histogram)
  - rtcast_anneal_nonconverged_total: anomalies that hit the iteration cap (counter)
  - rtcast_run_duration_seconds: wall time of a full run (histogram)
  - rtcast_runs_total: completed runs (counter)
    Labels: result (success, error)
  - rtcast_last_run_success_timestamp_seconds: unix time of the last good run (gauge)

Output:
  - rtcast_sink_write_duration_seconds: time to write a result table (histogram)
    Labels: sink (csv, json, duckdb, anomalies_csv)

HTTP API:
  - rtcast_api_requests_total: requests served (counter)
    Labels: method, endpoint, status
  - rtcast_api_request_duration_seconds: request latency (histogram)
    Labels: method, endpoint
  - rtcast_api_active_requests: in-flight requests (gauge)

# Usage

Callers use the Record helpers rather than the collectors directly:

	metrics.RecordLocation(metrics.StatusEstimated, len(res.Estimates))
	metrics.RecordRun(time.Since(start), err)
*/
package metrics
