// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// sampleCount extracts the number of observations from a histogram.
func sampleCount(h prometheus.Histogram) uint64 {
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

// Collectors are process-global, so these tests compare deltas and do not
// run in parallel.

func TestRecordLocation(t *testing.T) {
	estimated := testutil.ToFloat64(LocationsProcessed.WithLabelValues(StatusEstimated))
	skipped := testutil.ToFloat64(LocationsProcessed.WithLabelValues(StatusSkipped))
	rows := testutil.ToFloat64(EstimatesEmitted)

	RecordLocation(StatusEstimated, 30)
	RecordLocation(StatusSkipped, 0)

	if got := testutil.ToFloat64(LocationsProcessed.WithLabelValues(StatusEstimated)) - estimated; got != 1 {
		t.Errorf("estimated delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(LocationsProcessed.WithLabelValues(StatusSkipped)) - skipped; got != 1 {
		t.Errorf("skipped delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EstimatesEmitted) - rows; got != 30 {
		t.Errorf("estimates delta = %v, want 30", got)
	}
}

func TestRecordAnneal(t *testing.T) {
	anomalies := testutil.ToFloat64(AnomaliesDetected)
	observed := sampleCount(AnnealIterations)
	nonConverged := testutil.ToFloat64(AnnealNonConverged)

	RecordAnneal(12, true)
	RecordAnneal(500, false)

	if got := testutil.ToFloat64(AnomaliesDetected) - anomalies; got != 2 {
		t.Errorf("anomalies delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(AnnealNonConverged) - nonConverged; got != 1 {
		t.Errorf("non-converged delta = %v, want 1", got)
	}
	if got := sampleCount(AnnealIterations) - observed; got != 2 {
		t.Errorf("AnnealIterations observed %d samples, want 2", got)
	}
}

func TestRecordRun(t *testing.T) {
	ok := testutil.ToFloat64(RunsTotal.WithLabelValues("success"))
	failed := testutil.ToFloat64(RunsTotal.WithLabelValues("error"))

	durations := sampleCount(RunDuration)
	before := time.Now().Unix()
	RecordRun(250*time.Millisecond, nil)
	RecordRun(time.Second, errors.New("sink unavailable"))

	if got := testutil.ToFloat64(RunsTotal.WithLabelValues("success")) - ok; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RunsTotal.WithLabelValues("error")) - failed; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
	if got := sampleCount(RunDuration) - durations; got != 2 {
		t.Errorf("RunDuration observed %d samples, want 2", got)
	}
	if ts := testutil.ToFloat64(LastRunSuccess); ts < float64(before) {
		t.Errorf("LastRunSuccess = %v, want >= %d", ts, before)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/estimates", "200"))

	RecordAPIRequest("GET", "/api/v1/estimates", "200", 3*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/estimates", "200"))
	if after-before != 1 {
		t.Errorf("request delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - start; got != 2 {
		t.Errorf("active delta = %v, want 2", got)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active = %v, want %v", got, start)
	}
}

func TestRecordSinkWrite(t *testing.T) {
	RecordSinkWrite("csv", 5*time.Millisecond)
	if n := testutil.CollectAndCount(SinkWriteDuration, "rtcast_sink_write_duration_seconds"); n < 1 {
		t.Errorf("expected at least one sink series, got %d", n)
	}
}
