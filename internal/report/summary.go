// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package report prints a human-readable run summary to a terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/tomtom215/rtcast/internal/assembler"
	"github.com/tomtom215/rtcast/internal/metrics"
	"github.com/tomtom215/rtcast/internal/models"
)

// Printer writes run summaries.
type Printer struct {
	// NoColor disables ANSI colors regardless of the terminal.
	NoColor bool

	header  *color.Color
	growing *color.Color
	falling *color.Color
	muted   *color.Color
	failed  *color.Color
	warn    *color.Color
}

// NewPrinter returns a Printer. Colors also follow color.NoColor, which
// fatih/color sets when stdout is not a terminal or NO_COLOR is set.
func NewPrinter(noColor bool) *Printer {
	p := &Printer{
		NoColor: noColor,
		header:  color.New(color.Bold),
		growing: color.New(color.FgRed),
		falling: color.New(color.FgGreen),
		muted:   color.New(color.FgHiBlack),
		failed:  color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{p.header, p.growing, p.falling, p.muted, p.failed, p.warn} {
			c.DisableColor()
		}
	}
	return p
}

// Summary writes a per-location table followed by run totals.
func (p *Printer) Summary(w io.Writer, rep *assembler.Report, table *assembler.Table) error {
	b := &strings.Builder{}

	p.header.Fprintf(b, "Rt estimates  run %s\n", rep.RunID)
	b.WriteString(strings.Repeat("─", 72) + "\n")
	p.header.Fprintf(b, "%-14s %-10s %6s %24s %9s\n", "LOCATION", "STATUS", "ROWS", "LATEST Rt [CI]", "ANOMALIES")

	for _, o := range rep.Outcomes {
		p.location(b, o, table)
	}

	b.WriteString(strings.Repeat("─", 72) + "\n")
	fmt.Fprintf(b, "%d estimated, %d skipped, %d failed  ", rep.Estimated, rep.Skipped, rep.Failed)
	fmt.Fprintf(b, "%d rows, %d anomalies", rep.Estimates, rep.Anomalies)
	if rep.NonConverged > 0 {
		p.warn.Fprintf(b, " (%d not absorbed)", rep.NonConverged)
	}
	fmt.Fprintf(b, "  in %s\n", rep.Duration.Round(time.Millisecond))

	_, err := io.WriteString(w, b.String())
	return err
}

func (p *Printer) location(b *strings.Builder, o assembler.Outcome, table *assembler.Table) {
	name := truncate(o.Location, 14)
	switch o.Status {
	case metrics.StatusSkipped:
		p.muted.Fprintf(b, "%-14s %-10s %6s %24s %9s\n", name, o.Status, "-", "insufficient data", "-")
		return
	case metrics.StatusFailed:
		p.failed.Fprintf(b, "%-14s %-10s", name, o.Status)
		fmt.Fprintf(b, " %s\n", o.Error)
		return
	}

	fmt.Fprintf(b, "%-14s %-10s %6d ", name, o.Status, o.Estimates)
	latest, ok := latestEstimate(table, o.Location)
	cell := fmt.Sprintf("%.2f [%.2f, %.2f]", latest.Rt, latest.Lower, latest.Upper)
	switch {
	case !ok:
		fmt.Fprintf(b, "%24s", "-")
	case latest.Lower > 1:
		p.growing.Fprintf(b, "%24s", cell)
	case latest.Upper < 1:
		p.falling.Fprintf(b, "%24s", cell)
	default:
		fmt.Fprintf(b, "%24s", cell)
	}
	if o.NonConverged > 0 {
		p.warn.Fprintf(b, " %9d\n", o.Anomalies)
		return
	}
	fmt.Fprintf(b, " %9d\n", o.Anomalies)
}

func latestEstimate(table *assembler.Table, loc string) (models.Estimate, bool) {
	if table == nil {
		return models.Estimate{}, false
	}
	rows, ok := table.Location(loc)
	if !ok || len(rows) == 0 {
		return models.Estimate{}, false
	}
	return rows[len(rows)-1], true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
