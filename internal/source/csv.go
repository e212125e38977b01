// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomtom215/rtcast/internal/models"
)

// CSVSource reads a CSV file with a header row. Path "-" reads stdin.
// Columns other than the three configured ones are ignored.
type CSVSource struct {
	Path    string
	Columns Columns
}

// Read implements Source.
func (s *CSVSource) Read(ctx context.Context) ([]models.Observation, error) {
	if s.Path == "-" {
		return s.ReadFrom(ctx, os.Stdin)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv input: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return s.ReadFrom(ctx, f)
}

// ReadFrom parses CSV from r.
func (s *CSVSource) ReadFrom(ctx context.Context, r io.Reader) ([]models.Observation, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	locIdx, dateIdx, valIdx, err := s.indexes(header)
	if err != nil {
		return nil, err
	}
	need := max(locIdx, dateIdx, valIdx)

	var out []models.Observation
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) <= need {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, need+1, len(rec))
		}

		loc := strings.TrimSpace(rec[locIdx])
		if loc == "" {
			return nil, fmt.Errorf("line %d: %w", line, models.ErrEmptyLocation)
		}
		date, err := parseDate(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		value, err := parseValue(rec[valIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, models.Observation{Location: loc, Date: date, Value: value})
	}
	return out, nil
}

func (s *CSVSource) indexes(header []string) (loc, date, val int, err error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	lookup := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("%w %q in csv header", ErrMissingColumn, name)
		}
		return i, nil
	}
	if loc, err = lookup(s.Columns.Location); err != nil {
		return
	}
	if date, err = lookup(s.Columns.Date); err != nil {
		return
	}
	val, err = lookup(s.Columns.Value)
	return
}
