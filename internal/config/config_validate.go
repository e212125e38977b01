// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package config

import (
	"fmt"

	"github.com/tomtom215/rtcast/internal/logging"
	"github.com/tomtom215/rtcast/internal/validation"
)

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInput() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	if c.Input.Format == FormatDuckDB && c.Input.Table == "" {
		return fmt.Errorf("input.table is required when input.format is %s", FormatDuckDB)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.Format == FormatDuckDB {
		if c.Output.Path == StdoutPath {
			return fmt.Errorf("output.path must name a database file when output.format is %s", FormatDuckDB)
		}
		if c.Output.Table == c.Output.AnomaliesTable {
			return fmt.Errorf("output.table and output.anomalies_table must differ")
		}
	}
	if c.Output.AnomaliesPath != "" && c.Output.AnomaliesPath == c.Output.Path {
		return fmt.Errorf("output.anomalies_path must differ from output.path")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.RefreshInterval < 0 {
		return fmt.Errorf("server.refresh_interval must not be negative")
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is enabled")
	}
	if c.Server.BreakerFailures > 0 && c.Server.BreakerCooldown <= 0 {
		return fmt.Errorf("server.breaker_cooldown must be positive when the circuit breaker is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	return nil
}
