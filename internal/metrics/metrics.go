// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Location outcome labels.
const (
	StatusEstimated = "estimated"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

var (
	// Estimation Metrics
	LocationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtcast_locations_processed_total",
			Help: "Total number of locations processed, by outcome",
		},
		[]string{"status"},
	)

	EstimatesEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rtcast_estimates_emitted_total",
			Help: "Total number of daily Rt estimates produced",
		},
	)

	AnomaliesDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rtcast_anomalies_total",
			Help: "Total number of observations outside their predictive interval",
		},
	)

	AnnealIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rtcast_anneal_iterations",
			Help:    "Variance annealing steps needed to absorb an anomaly",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500},
		},
	)

	AnnealNonConverged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rtcast_anneal_nonconverged_total",
			Help: "Total number of anomalies where annealing hit the iteration cap",
		},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rtcast_run_duration_seconds",
			Help:    "Duration of a full estimation run in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtcast_runs_total",
			Help: "Total number of estimation runs, by result",
		},
		[]string{"result"},
	)

	LastRunSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtcast_last_run_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful estimation run",
		},
	)

	// Output Metrics
	SinkWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rtcast_sink_write_duration_seconds",
			Help:    "Time to write a result table in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtcast_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rtcast_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtcast_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)
)

// RecordLocation records the outcome of one location and the rows it produced.
func RecordLocation(status string, estimates int) {
	LocationsProcessed.WithLabelValues(status).Inc()
	if estimates > 0 {
		EstimatesEmitted.Add(float64(estimates))
	}
}

// RecordAnneal records one anomaly and the annealing it took.
func RecordAnneal(iterations int, converged bool) {
	AnomaliesDetected.Inc()
	AnnealIterations.Observe(float64(iterations))
	if !converged {
		AnnealNonConverged.Inc()
	}
}

// RecordRun records a completed estimation run.
func RecordRun(duration time.Duration, err error) {
	RunDuration.Observe(duration.Seconds())
	if err != nil {
		RunsTotal.WithLabelValues("error").Inc()
		return
	}
	RunsTotal.WithLabelValues("success").Inc()
	LastRunSuccess.Set(float64(time.Now().Unix()))
}

// RecordSinkWrite records the time taken to write results to a sink.
func RecordSinkWrite(sink string, duration time.Duration) {
	SinkWriteDuration.WithLabelValues(sink).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
