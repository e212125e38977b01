// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

/*
Package config loads rtcast configuration.

Configuration is layered with koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: the path passed to LoadWithKoanf, else
    $RTCAST_CONFIG, else the first of DefaultConfigPaths that exists
 3. Environment variables, through an explicit name mapping

Command line flags are applied by cmd/rtcast on top of the loaded Config,
followed by another call to Validate.

# YAML Layout

	estimator:
	  ci: 0.95
	  infectious_period: 4.5
	  min_cases: 10
	  prior_alpha: 3
	  prior_beta: 2
	  anneal_decay: 0.95
	  max_anneal_iterations: 500
	runner:
	  workers: 0            # 0 = runtime.NumCPU()
	input:
	  format: csv           # csv, json, duckdb
	  path: data/states.csv
	  location_column: state
	  date_column: date
	  value_column: positive_smooth
	output:
	  format: csv           # csv, json, duckdb
	  path: "-"             # "-" = stdout
	  anomalies_path: ""
	server:
	  port: 8088
	  refresh_interval: 1h
	  breaker_failures: 3   # 0 = no circuit breaker
	  breaker_cooldown: 6h
	logging:
	  level: info
	  format: json

# Environment Variables

Estimator:
  - RT_CI, RT_INFECTIOUS_PERIOD, RT_MIN_CASES
  - RT_PRIOR_ALPHA, RT_PRIOR_BETA
  - RT_ANNEAL_DECAY, RT_MAX_ANNEAL_ITERATIONS
  - RT_WORKERS

Input and output:
  - INPUT_FORMAT, INPUT_PATH, INPUT_TABLE
  - INPUT_LOCATION_COLUMN, INPUT_DATE_COLUMN, INPUT_VALUE_COLUMN
  - OUTPUT_FORMAT, OUTPUT_PATH, OUTPUT_ANOMALIES_PATH
  - OUTPUT_TABLE, OUTPUT_ANOMALIES_TABLE
  - DUCKDB_THREADS, DUCKDB_MAX_MEMORY

Serve mode:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - REFRESH_INTERVAL, SHUTDOWN_TIMEOUT
  - BREAKER_FAILURES, BREAKER_COOLDOWN
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS (comma-separated)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Unmapped environment variables are ignored.
*/
package config
