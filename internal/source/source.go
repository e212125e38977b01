// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package source reads smoothed cumulative case series.
//
// A Source returns flat (location, date, value) observations; Group turns
// them into one LocationSeries per location. Three formats are supported:
//
//   - csv: a header row naming the location, date and value columns
//   - json: an array of objects keyed by the same column names
//   - duckdb: a table in a DuckDB database file
//
// Empty or null values are read as NaN and left for the estimator to treat
// as zero increments. Unparseable dates or values and empty locations fail
// the whole read with an error naming the offending row.
package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/rtcast/internal/config"
	"github.com/tomtom215/rtcast/internal/database"
	"github.com/tomtom215/rtcast/internal/models"
)

// Source errors.
var (
	ErrUnknownFormat = errors.New("unknown input format")
	ErrMissingColumn = errors.New("missing column")
)

// Source reads observations.
type Source interface {
	Read(ctx context.Context) ([]models.Observation, error)
}

// Columns names the location, date and value fields of the input.
type Columns struct {
	Location string
	Date     string
	Value    string
}

// New builds the Source selected by cfg.Format.
func New(cfg config.InputConfig, db config.DatabaseConfig) (Source, error) {
	cols := Columns{Location: cfg.LocationColumn, Date: cfg.DateColumn, Value: cfg.ValueColumn}
	switch strings.ToLower(cfg.Format) {
	case config.FormatCSV, "":
		return &CSVSource{Path: cfg.Path, Columns: cols}, nil
	case config.FormatJSON:
		return &JSONSource{Path: cfg.Path, Columns: cols}, nil
	case config.FormatDuckDB:
		return &DuckDBSource{
			Path:    cfg.Path,
			Table:   cfg.Table,
			Columns: cols,
			Options: database.Options{Threads: db.Threads, MaxMemory: db.MaxMemory, ReadOnly: true},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
}

// dateLayouts are tried in order when parsing text dates.
var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate parses a calendar date, dropping any time of day.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parseValue parses a cumulative count. Empty text is NaN.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return v, nil
}

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 4096
