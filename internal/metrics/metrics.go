// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics collects Prometheus metrics for the HTTP API and the
// email verification flow and exposes them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OTP verification outcomes.
const (
	OTPIssued   = "issued"
	OTPVerified = "verified"
	OTPExpired  = "expired"
	OTPInvalid  = "invalid"
)

// Recorder is the metrics surface used by the service and transport layers.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordOTPOutcome(outcome string)
	RecordNotificationFailure()
}

// Collector is the Prometheus-backed [Recorder].
type Collector struct {
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
	otpOutcomes          *prometheus.CounterVec
	notificationFailures prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_http_requests_total",
			Help: "Number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finance_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		otpOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_otp_outcomes_total",
			Help: "Verification codes issued and verification attempts by outcome.",
		}, []string{"outcome"}),
		notificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finance_notification_failures_total",
			Help: "Verification emails that could not be dispatched.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.otpOutcomes,
		c.notificationFailures,
	)

	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOTPOutcome counts an issued code or a verification attempt result.
func (c *Collector) RecordOTPOutcome(outcome string) {
	c.otpOutcomes.WithLabelValues(outcome).Inc()
}

// RecordNotificationFailure counts a failed verification email.
func (c *Collector) RecordNotificationFailure() {
	c.notificationFailures.Inc()
}

// Handler returns the HTTP handler serving the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is a [Recorder] that drops everything.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordOTPOutcome(string)                              {}
func (Nop) RecordNotificationFailure()                           {}
