// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package source

import (
	"context"
	"fmt"

	"github.com/tomtom215/rtcast/internal/database"
	"github.com/tomtom215/rtcast/internal/logging"
	"github.com/tomtom215/rtcast/internal/models"
)

// DuckDBSource reads a table from a DuckDB database file. Locations are
// encountered in the order their first row appears in the table, like the
// file sources.
type DuckDBSource struct {
	Path    string
	Table   string
	Columns Columns
	Options database.Options
}

// Read implements Source. The database is opened for the duration of the
// read only, so a DuckDB sink may write to the same file afterwards.
func (s *DuckDBSource) Read(ctx context.Context) ([]models.Observation, error) {
	if s.Table == "" {
		return nil, fmt.Errorf("duckdb input: table is required")
	}
	db, err := database.Open(s.Path, s.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb input: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Warn().Err(cerr).Str("path", s.Path).Msg("Failed to close duckdb input")
		}
	}()

	return db.ReadObservations(ctx, database.SeriesColumns{
		Table:    s.Table,
		Location: s.Columns.Location,
		Date:     s.Columns.Date,
		Value:    s.Columns.Value,
	})
}
