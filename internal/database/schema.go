// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package database

import (
	"context"
	"fmt"
)

// Default result table names.
const (
	DefaultEstimatesTable = "rt_estimates"
	DefaultAnomaliesTable = "rt_anomalies"
	RunsTable             = "rt_runs"
)

// Tables names the result tables a run is written to.
type Tables struct {
	Estimates string
	Anomalies string
}

// DefaultTables returns the default result table names.
func DefaultTables() Tables {
	return Tables{Estimates: DefaultEstimatesTable, Anomalies: DefaultAnomaliesTable}
}

// EnsureSchema creates the result tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context, t Tables) error {
	for _, q := range schemaQueries(t) {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func schemaQueries(t Tables) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + QuoteIdent(RunsTable) + ` (
			run_id TEXT PRIMARY KEY,
			generated_at TIMESTAMP NOT NULL,
			locations INTEGER NOT NULL,
			estimates INTEGER NOT NULL,
			anomalies INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + QuoteIdent(t.Estimates) + ` (
			run_id TEXT NOT NULL,
			location TEXT NOT NULL,
			date DATE NOT NULL,
			rt DOUBLE NOT NULL,
			rt_lower DOUBLE NOT NULL,
			rt_upper DOUBLE NOT NULL,
			new_cases DOUBLE NOT NULL,
			pred_mean DOUBLE NOT NULL,
			pred_lower DOUBLE NOT NULL,
			pred_upper DOUBLE NOT NULL,
			degenerate BOOLEAN NOT NULL,
			anomalous BOOLEAN NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + QuoteIdent(t.Anomalies) + ` (
			run_id TEXT NOT NULL,
			location TEXT NOT NULL,
			date DATE NOT NULL,
			observed DOUBLE NOT NULL,
			pred_mean DOUBLE NOT NULL,
			pred_lower DOUBLE NOT NULL,
			pred_upper DOUBLE NOT NULL,
			absorbed_lower DOUBLE NOT NULL,
			absorbed_upper DOUBLE NOT NULL,
			iterations INTEGER NOT NULL,
			converged BOOLEAN NOT NULL
		)`,
	}
}
