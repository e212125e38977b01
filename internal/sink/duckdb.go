// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/database"
	"github.com/tomtom215/rtcast/internal/logging"
)

// DuckDBSink appends a run to DuckDB tables. Each run's rows are tagged
// with its run id and written in one transaction.
type DuckDBSink struct {
	Path    string
	Tables  database.Tables
	Options database.Options
}

// Write implements Sink.
func (s *DuckDBSink) Write(ctx context.Context, t *assembler.Table) (err error) {
	defer observe("duckdb", time.Now())

	db, err := database.Open(s.Path, s.Options)
	if err != nil {
		return fmt.Errorf("duckdb sink: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Warn().Err(cerr).Str("path", s.Path).Msg("Failed to close duckdb output")
		}
	}()

	return s.WriteDB(ctx, db, t)
}

// WriteDB writes the run to an already open database.
func (s *DuckDBSink) WriteDB(ctx context.Context, db *database.DB, t *assembler.Table) error {
	tables := s.Tables
	if tables.Estimates == "" || tables.Anomalies == "" {
		tables = database.DefaultTables()
	}
	if err := db.EnsureSchema(ctx, tables); err != nil {
		return fmt.Errorf("duckdb sink: %w", err)
	}
	run := database.Run{
		ID:          t.RunID,
		GeneratedAt: t.GeneratedAt,
		Locations:   len(t.Locations()),
		Estimates:   t.Estimates,
		Anomalies:   t.Anomalies,
	}
	if err := db.InsertRun(ctx, tables, run); err != nil {
		return fmt.Errorf("duckdb sink: %w", err)
	}
	logging.Debug().
		Str("run_id", t.RunID).
		Int("estimates", len(t.Estimates)).
		Int("anomalies", len(t.Anomalies)).
		Msg("Stored run in DuckDB")
	return nil
}
