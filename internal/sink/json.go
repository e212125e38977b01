// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package sink

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/models"
)

// Document is the JSON sink's output.
type Document struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Locations   []string          `json:"locations"`
	Estimates   []models.Estimate `json:"estimates"`
	Anomalies   []models.Anomaly  `json:"anomalies"`
}

// NewDocument builds the JSON document for a table. Nil slices are
// replaced with empty ones so they encode as [].
func NewDocument(t *assembler.Table) Document {
	doc := Document{
		RunID:       t.RunID,
		GeneratedAt: t.GeneratedAt,
		Locations:   t.Locations(),
		Estimates:   t.Estimates,
		Anomalies:   t.Anomalies,
	}
	if doc.Estimates == nil {
		doc.Estimates = []models.Estimate{}
	}
	if doc.Anomalies == nil {
		doc.Anomalies = []models.Anomaly{}
	}
	return doc
}

// JSONSink writes the table as an indented JSON document.
type JSONSink struct {
	Path string
}

// Write implements Sink.
func (s *JSONSink) Write(ctx context.Context, t *assembler.Table) error {
	defer observe("json", time.Now())
	err := writeFile(s.Path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.EncodeContext(ctx, NewDocument(t))
	})
	if err != nil {
		return fmt.Errorf("json sink: %w", err)
	}
	return nil
}
