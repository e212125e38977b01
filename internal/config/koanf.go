// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/rtcast/internal/database"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"rtcast.yaml",
	"rtcast.yml",
	"/etc/rtcast/config.yaml",
	"/etc/rtcast/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "RTCAST_CONFIG"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Estimator: EstimatorConfig{
			CI:                  0.95,
			InfectiousPeriod:    4.5,
			MinCases:            10,
			PriorAlpha:          3,
			PriorBeta:           2,
			AnnealDecay:         0.95,
			MaxAnnealIterations: 500,
		},
		Runner: RunnerConfig{
			Workers: 0, // 0 = runtime.NumCPU()
		},
		Input: InputConfig{
			Format:         FormatCSV,
			LocationColumn: "state",
			DateColumn:     "date",
			ValueColumn:    "positive_smooth",
		},
		Output: OutputConfig{
			Format:         FormatCSV,
			Path:           StdoutPath,
			Table:          database.DefaultEstimatesTable,
			AnomaliesTable: database.DefaultAnomaliesTable,
		},
		Database: DatabaseConfig{
			Threads: 0,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8088,
			Timeout:         30 * time.Second,
			RefreshInterval: time.Hour,
			ShutdownTimeout: 10 * time.Second,
			BreakerFailures: 3,
			BreakerCooldown: 6 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default returns the built-in configuration without reading files or the
// environment. It does not validate.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file
// and the environment, in increasing priority, and validates the result.
//
// path selects the config file; when empty, $RTCAST_CONFIG and then
// DefaultConfigPaths are tried. An explicit path that does not exist is an
// error. Validation is left to the caller when validate is false, for
// callers that still apply command line overrides.
func LoadWithKoanf(path string, validate bool) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	return findConfigFile(), nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are keys whose environment values are comma-separated lists.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated string values of slice keys.
// Values that are already lists (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config keys.
var envMappings = map[string]string{
	"rt_ci":                    "estimator.ci",
	"rt_infectious_period":     "estimator.infectious_period",
	"rt_min_cases":             "estimator.min_cases",
	"rt_prior_alpha":           "estimator.prior_alpha",
	"rt_prior_beta":            "estimator.prior_beta",
	"rt_anneal_decay":          "estimator.anneal_decay",
	"rt_max_anneal_iterations": "estimator.max_anneal_iterations",
	"rt_workers":               "runner.workers",

	"input_format":          "input.format",
	"input_path":            "input.path",
	"input_table":           "input.table",
	"input_location_column": "input.location_column",
	"input_date_column":     "input.date_column",
	"input_value_column":    "input.value_column",

	"output_format":          "output.format",
	"output_path":            "output.path",
	"output_anomalies_path":  "output.anomalies_path",
	"output_table":           "output.table",
	"output_anomalies_table": "output.anomalies_table",

	"duckdb_threads":    "database.threads",
	"duckdb_max_memory": "database.max_memory",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"refresh_interval":    "server.refresh_interval",
	"shutdown_timeout":    "server.shutdown_timeout",
	"breaker_failures":    "server.breaker_failures",
	"breaker_cooldown":    "server.breaker_cooldown",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"cors_origins":        "server.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config key.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
