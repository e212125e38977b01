// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/models"
)

// CSVSink writes the estimate table as CSV.
type CSVSink struct {
	Path string
	// LocationColumn is the header of the first column. Defaults to "state".
	LocationColumn string
}

// Write implements Sink.
func (s *CSVSink) Write(ctx context.Context, t *assembler.Table) error {
	defer observe("csv", time.Now())
	if err := writeFile(s.Path, func(w io.Writer) error { return s.WriteTo(ctx, w, t) }); err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	return nil
}

// WriteTo writes the CSV rows to w.
func (s *CSVSink) WriteTo(ctx context.Context, w io.Writer, t *assembler.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{locationHeader(s.LocationColumn), "date", "RR_pred", "RR_CI_lower", "RR_CI_upper"}); err != nil {
		return err
	}

	row := make([]string, 5)
	for i := range t.Estimates {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		e := &t.Estimates[i]
		row[0] = e.Location
		row[1] = e.Date.Format(models.DateLayout)
		row[2] = formatFloat(e.Rt)
		row[3] = formatFloat(e.Lower)
		row[4] = formatFloat(e.Upper)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AnomalyCSVSink writes the anomaly log as CSV.
type AnomalyCSVSink struct {
	Path           string
	LocationColumn string
}

// Write implements Sink.
func (s *AnomalyCSVSink) Write(ctx context.Context, t *assembler.Table) error {
	defer observe("anomaly_csv", time.Now())
	if err := writeFile(s.Path, func(w io.Writer) error { return s.WriteTo(ctx, w, t) }); err != nil {
		return fmt.Errorf("anomaly csv sink: %w", err)
	}
	return nil
}

// WriteTo writes the anomaly rows to w.
func (s *AnomalyCSVSink) WriteTo(ctx context.Context, w io.Writer, t *assembler.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	header := []string{
		locationHeader(s.LocationColumn), "date", "observed", "pred_mean",
		"lower", "upper", "absorbed_lower", "absorbed_upper", "iterations", "converged",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range t.Anomalies {
		a := &t.Anomalies[i]
		if err := cw.Write([]string{
			a.Location,
			a.Date.Format(models.DateLayout),
			formatFloat(a.Observed),
			formatFloat(a.PredMean),
			formatFloat(a.Lower),
			formatFloat(a.Upper),
			formatFloat(a.AbsorbedLower),
			formatFloat(a.AbsorbedUpper),
			strconv.Itoa(a.Iterations),
			strconv.FormatBool(a.Converged),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func locationHeader(name string) string {
	if name == "" {
		return "state"
	}
	return name
}
