// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package config

import (
	"time"

	"github.com/tomtom215/rtcast/internal/estimator"
)

// Supported input and output formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatDuckDB = "duckdb"
)

// StdoutPath selects standard output for file sinks.
const StdoutPath = "-"

// Config is the complete rtcast configuration.
type Config struct {
	Estimator EstimatorConfig `koanf:"estimator"`
	Runner    RunnerConfig    `koanf:"runner"`
	Input     InputConfig     `koanf:"input"`
	Output    OutputConfig    `koanf:"output"`
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// EstimatorConfig holds the Rt filter parameters.
type EstimatorConfig struct {
	// CI is the upper quantile of the credible interval, in (0.5, 1).
	CI float64 `koanf:"ci" validate:"gt=0.5,lt=1"`

	// InfectiousPeriod in days.
	InfectiousPeriod float64 `koanf:"infectious_period" validate:"gt=0"`

	// MinCases skips locations whose final cumulative count is lower.
	MinCases float64 `koanf:"min_cases" validate:"gte=0"`

	PriorAlpha float64 `koanf:"prior_alpha" validate:"gt=0"`
	PriorBeta  float64 `koanf:"prior_beta" validate:"gt=0"`

	AnnealDecay         float64 `koanf:"anneal_decay" validate:"gt=0,lt=1"`
	MaxAnnealIterations int     `koanf:"max_anneal_iterations" validate:"gte=1,lte=100000"`
}

// Params converts the configuration into filter parameters.
func (c EstimatorConfig) Params() estimator.Params {
	return estimator.Params{
		CI:                  c.CI,
		InfectiousPeriod:    c.InfectiousPeriod,
		MinCases:            c.MinCases,
		PriorAlpha:          c.PriorAlpha,
		PriorBeta:           c.PriorBeta,
		AnnealDecay:         c.AnnealDecay,
		MaxAnnealIterations: c.MaxAnnealIterations,
	}
}

// RunnerConfig controls parallelism.
type RunnerConfig struct {
	// Workers is the number of locations estimated concurrently. 0 = NumCPU.
	Workers int `koanf:"workers" validate:"gte=0,lte=1024"`
}

// InputConfig describes where case series are read from.
type InputConfig struct {
	Format string `koanf:"format" validate:"oneof=csv json duckdb"`
	// Path is a CSV/JSON file or a DuckDB database file.
	Path string `koanf:"path"`
	// Table is the DuckDB table holding the series.
	Table string `koanf:"table"`

	LocationColumn string `koanf:"location_column" validate:"required"`
	DateColumn     string `koanf:"date_column" validate:"required"`
	ValueColumn    string `koanf:"value_column" validate:"required"`
}

// OutputConfig describes where results are written.
type OutputConfig struct {
	Format string `koanf:"format" validate:"oneof=csv json duckdb"`
	// Path is the result file ("-" for stdout) or DuckDB database file.
	Path string `koanf:"path" validate:"required"`
	// AnomaliesPath optionally writes the anomaly log as CSV.
	AnomaliesPath string `koanf:"anomalies_path"`

	// DuckDB result tables.
	Table          string `koanf:"table" validate:"required"`
	AnomaliesTable string `koanf:"anomalies_table" validate:"required"`
}

// DatabaseConfig tunes DuckDB connections used by sources and sinks.
type DatabaseConfig struct {
	Threads   int    `koanf:"threads" validate:"gte=0"`
	MaxMemory string `koanf:"max_memory"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`

	// RefreshInterval is how often serve mode re-runs the estimation.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// BreakerFailures consecutive failed runs open the estimation circuit
	// breaker; scheduled runs are then skipped for BreakerCooldown. 0 disables it.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// CORSOrigins enables CORS on the API for the listed origins. Empty
	// disables CORS handling.
	CORSOrigins []string `koanf:"cors_origins" validate:"dive,required"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}
