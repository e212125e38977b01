// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package sink writes the merged estimate table.
//
// The primary output is a flat CSV with one row per (location, day):
//
//	state,date,RR_pred,RR_CI_lower,RR_CI_upper
//	NY,2020-03-04,1.8731,1.2207,2.6164
//
// JSON and DuckDB sinks carry the same rows plus the predictive
// diagnostics. The anomaly log can be written alongside any of them with
// AnomalyCSVSink.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/config"
	"github.com/tomtom215/rtcast/internal/database"
	"github.com/tomtom215/rtcast/internal/metrics"
)

// ErrUnknownFormat is returned by New for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Sink writes a result table.
type Sink interface {
	Write(ctx context.Context, t *assembler.Table) error
}

// New builds the sinks selected by cfg. locationColumn names the location
// column in CSV headers.
func New(cfg config.OutputConfig, locationColumn string, db config.DatabaseConfig) (Sink, error) {
	var primary Sink
	switch strings.ToLower(cfg.Format) {
	case config.FormatCSV, "":
		primary = &CSVSink{Path: cfg.Path, LocationColumn: locationColumn}
	case config.FormatJSON:
		primary = &JSONSink{Path: cfg.Path}
	case config.FormatDuckDB:
		primary = &DuckDBSink{
			Path:    cfg.Path,
			Tables:  database.Tables{Estimates: cfg.Table, Anomalies: cfg.AnomaliesTable},
			Options: database.Options{Threads: db.Threads, MaxMemory: db.MaxMemory},
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}

	if cfg.AnomaliesPath == "" {
		return primary, nil
	}
	return Multi{primary, &AnomalyCSVSink{Path: cfg.AnomaliesPath, LocationColumn: locationColumn}}, nil
}

// Multi writes to every sink in order and joins their errors.
type Multi []Sink

// Write implements Sink.
func (m Multi) Write(ctx context.Context, t *assembler.Table) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// createOutput opens path for writing, creating its directory. "-" is stdout.
func createOutput(path string) (io.WriteCloser, error) {
	if path == config.StdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeFile streams to path through write and closes it, keeping the
// first error.
func writeFile(path string, write func(io.Writer) error) (err error) {
	w, err := createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return write(w)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func observe(sink string, start time.Time) {
	metrics.RecordSinkWrite(sink, time.Since(start))
}
