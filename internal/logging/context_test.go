// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if id := GenerateCorrelationID(); len(id) != 8 {
		t.Errorf("correlation ID length = %d, want 8", len(id))
	}
	if id := GenerateRequestID(); len(id) != 36 {
		t.Errorf("request ID length = %d, want 36", len(id))
	}
	a, b := GenerateRunID(), GenerateRunID()
	if a == b {
		t.Error("expected unique run IDs")
	}
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RunIDFromContext(ctx) != "" || LocationFromContext(ctx) != "" {
		t.Fatal("expected empty values on a bare context")
	}

	ctx = ContextWithRunID(ctx, "run-1")
	ctx = ContextWithLocation(ctx, "NY")
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr0001")

	if got := RunIDFromContext(ctx); got != "run-1" {
		t.Errorf("RunIDFromContext = %q, want run-1", got)
	}
	if got := LocationFromContext(ctx); got != "NY" {
		t.Errorf("LocationFromContext = %q, want NY", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr0001" {
		t.Errorf("CorrelationIDFromContext = %q, want corr0001", got)
	}
}

func TestCtxAddsFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRunID(ctx, "run-42")
	ctx = ContextWithLocation(ctx, "CA")

	Ctx(ctx).Info().Msg("estimated")

	out := buf.String()
	for _, want := range []string{`"run_id":"run-42"`, `"location":"CA"`, `"message":"estimated"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
	if strings.Contains(out, "request_id") {
		t.Errorf("unset request_id should be omitted: %s", out)
	}
}

func TestLoggerFromContext_Fallback(t *testing.T) {
	t.Parallel()

	l := LoggerFromContext(context.Background())
	if l.GetLevel() != Logger().GetLevel() {
		t.Error("expected global logger fallback")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { SetLogger(prev) })

	l := WithComponent("sink")
	l.Info().Msg("flushed")

	if !strings.Contains(buf.String(), `"component":"sink"`) {
		t.Errorf("output missing component: %s", buf.String())
	}
}
