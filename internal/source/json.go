// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package source

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rtcast/internal/models"
)

// JSONSource reads a JSON array of objects, one per observation:
//
//	[{"state": "NY", "date": "2020-03-01", "positive_smooth": 12.5}, ...]
//
// Values may be numbers, numeric strings or null. Path "-" reads stdin.
type JSONSource struct {
	Path    string
	Columns Columns
}

// Read implements Source.
func (s *JSONSource) Read(ctx context.Context) ([]models.Observation, error) {
	if s.Path == "-" {
		return s.ReadFrom(ctx, os.Stdin)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open json input: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return s.ReadFrom(ctx, f)
}

// ReadFrom decodes JSON from r.
func (s *JSONSource) ReadFrom(ctx context.Context, r io.Reader) ([]models.Observation, error) {
	var rows []map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.DecodeContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode json input: %w", err)
	}

	out := make([]models.Observation, 0, len(rows))
	for i, row := range rows {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		obs, err := s.observation(row)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, obs)
	}
	return out, nil
}

func (s *JSONSource) observation(row map[string]any) (models.Observation, error) {
	var obs models.Observation

	loc, ok := row[s.Columns.Location].(string)
	if !ok {
		if _, present := row[s.Columns.Location]; !present {
			return obs, fmt.Errorf("%w %q", ErrMissingColumn, s.Columns.Location)
		}
		return obs, fmt.Errorf("location %q is not a string", s.Columns.Location)
	}
	if obs.Location = strings.TrimSpace(loc); obs.Location == "" {
		return obs, models.ErrEmptyLocation
	}

	date, ok := row[s.Columns.Date].(string)
	if !ok {
		return obs, fmt.Errorf("%w %q (want a date string)", ErrMissingColumn, s.Columns.Date)
	}
	d, err := parseDate(date)
	if err != nil {
		return obs, err
	}
	obs.Date = d

	raw, present := row[s.Columns.Value]
	if !present {
		return obs, fmt.Errorf("%w %q", ErrMissingColumn, s.Columns.Value)
	}
	switch v := raw.(type) {
	case nil:
		obs.Value = math.NaN()
	case json.Number:
		if obs.Value, err = v.Float64(); err != nil {
			return obs, fmt.Errorf("invalid value %q", v.String())
		}
	case float64:
		obs.Value = v
	case string:
		if obs.Value, err = parseValue(v); err != nil {
			return obs, err
		}
	default:
		return obs, fmt.Errorf("value has unsupported type %T", raw)
	}
	return obs, nil
}
