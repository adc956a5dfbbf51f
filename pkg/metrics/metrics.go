// Package metrics owns the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors behind a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	UserDeletionsTotal         *prometheus.CounterVec
	ProviderRequestSeconds     prometheus.Histogram
}

// New builds and registers all collectors, labelled with serviceName.
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests.",
				ConstLabels: constLabels,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Duration of HTTP requests.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "path"},
		),
		UserDeletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "user_deletions_total",
				Help:        "User deletion attempts forwarded to the identity provider, by outcome.",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		ProviderRequestSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "identity_provider_request_duration_seconds",
				Help:        "Latency of admin calls to the identity provider.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.UserDeletionsTotal,
		m.ProviderRequestSeconds,
	)

	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDeletion counts one deletion attempt.
func (m *Metrics) ObserveDeletion(outcome string) {
	if m == nil {
		return
	}
	m.UserDeletionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveProviderLatency records the duration of one provider call.
func (m *Metrics) ObserveProviderLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequestSeconds.Observe(d.Seconds())
}
