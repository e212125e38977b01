// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomtom215/rtcast/internal/models"
)

// SeriesColumns names the columns holding the case series.
type SeriesColumns struct {
	Table    string
	Location string
	Date     string
	Value    string
}

// ReadObservations reads every (location, date, value) row from the
// configured table. Locations come back in the order their first row
// appears in the table, each location's rows ordered by date and then by
// row order. NULL values become NaN. Table must be a base table, since
// ordering uses its rowid.
func (db *DB) ReadObservations(ctx context.Context, cols SeriesColumns) ([]models.Observation, error) {
	loc := QuoteIdent(cols.Location)
	query := fmt.Sprintf(`SELECT loc, dt, val FROM (
	SELECT CAST(%[1]s AS TEXT) AS loc, %[2]s AS dt, CAST(%[3]s AS DOUBLE) AS val,
		rowid AS rid, MIN(rowid) OVER (PARTITION BY %[1]s) AS first_seen
	FROM %[4]s
) ORDER BY first_seen, dt, rid`,
		loc, QuoteIdent(cols.Date), QuoteIdent(cols.Value), QuoteIdent(cols.Table))

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query series table %s: %w", cols.Table, err)
	}
	defer closeWithLog(rows, "series rows")

	var out []models.Observation
	for n := 1; rows.Next(); n++ {
		var (
			loc   sql.NullString
			date  any
			value sql.NullFloat64
		)
		if err := rows.Scan(&loc, &date, &value); err != nil {
			return nil, fmt.Errorf("failed to scan series row %d: %w", n, err)
		}
		if !loc.Valid || loc.String == "" {
			return nil, fmt.Errorf("series row %d: empty location", n)
		}
		d, err := scanDate(date)
		if err != nil {
			return nil, fmt.Errorf("series row %d (%s): %w", n, loc.String, err)
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		out = append(out, models.Observation{Location: loc.String, Date: d, Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read series rows: %w", err)
	}
	return out, nil
}

// scanDate accepts DATE/TIMESTAMP columns and ISO date strings.
func scanDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		y, m, day := d.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), nil
	case string:
		t, err := time.Parse(models.DateLayout, strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", d, err)
		}
		return t, nil
	case []byte:
		return scanDate(string(d))
	case nil:
		return time.Time{}, fmt.Errorf("date is NULL")
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}
