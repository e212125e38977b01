// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Input.Path = "states.csv"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with input", func(*Config) {}, ""},
		{"missing input path", func(c *Config) { c.Input.Path = "" }, "input.path"},
		{"ci too low", func(c *Config) { c.Estimator.CI = 0.5 }, "estimator.ci"},
		{"ci too high", func(c *Config) { c.Estimator.CI = 1 }, "estimator.ci"},
		{"zero infectious period", func(c *Config) { c.Estimator.InfectiousPeriod = 0 }, "estimator.infectious_period"},
		{"negative min cases", func(c *Config) { c.Estimator.MinCases = -1 }, "estimator.min_cases"},
		{"decay of one", func(c *Config) { c.Estimator.AnnealDecay = 1 }, "estimator.anneal_decay"},
		{"zero anneal cap", func(c *Config) { c.Estimator.MaxAnnealIterations = 0 }, "estimator.max_anneal_iterations"},
		{"negative workers", func(c *Config) { c.Runner.Workers = -1 }, "runner.workers"},
		{"unknown input format", func(c *Config) { c.Input.Format = "parquet" }, "input.format"},
		{"duckdb input without table", func(c *Config) { c.Input.Format = FormatDuckDB }, "input.table"},
		{"duckdb input with table", func(c *Config) {
			c.Input.Format = FormatDuckDB
			c.Input.Table = "cases"
		}, ""},
		{"duckdb output to stdout", func(c *Config) { c.Output.Format = FormatDuckDB }, "output.path"},
		{"duckdb output same tables", func(c *Config) {
			c.Output.Format = FormatDuckDB
			c.Output.Path = "out.duckdb"
			c.Output.AnomaliesTable = c.Output.Table
		}, "anomalies_table"},
		{"anomalies path equals output", func(c *Config) {
			c.Output.Path = "rt.csv"
			c.Output.AnomaliesPath = "rt.csv"
		}, "anomalies_path"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative refresh", func(c *Config) { c.Server.RefreshInterval = -1 }, "refresh_interval"},
		{"rate limit without window", func(c *Config) { c.Server.RateLimitWindow = 0 }, "rate_limit_window"},
		{"rate limit disabled without window", func(c *Config) {
			c.Server.RateLimitWindow = 0
			c.Server.RateLimitDisabled = true
		}, ""},
		{"breaker without cooldown", func(c *Config) { c.Server.BreakerCooldown = 0 }, "breaker_cooldown"},
		{"breaker disabled without cooldown", func(c *Config) {
			c.Server.BreakerFailures = 0
			c.Server.BreakerCooldown = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestEstimatorConfigParams(t *testing.T) {
	t.Parallel()

	p := Default().Estimator.Params()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	if p.CI != 0.95 || p.InfectiousPeriod != 4.5 || p.AnnealDecay != 0.95 {
		t.Errorf("Params() = %+v", p)
	}
}
