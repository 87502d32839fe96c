// Package metrics exposes Prometheus counters for the generation paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and turns every observation into a no-op, which keeps tests free of
// registry bookkeeping.
type Metrics struct {
	registry *prometheus.Registry

	chatMessages     *prometheus.CounterVec
	imageGenerations *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		chatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Chat messages processed, by role.",
		}, []string{"role"}),
		imageGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "imagegen",
			Name:      "requests_total",
			Help:      "Image generation requests, by outcome.",
		}, []string{"outcome"}),
		upstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "upstream",
			Name:      "failures_total",
			Help:      "Upstream generation service failures, by service.",
		}, []string{"service"}),
	}

	registry.MustRegister(m.chatMessages, m.imageGenerations, m.upstreamFailures)

	return m
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}

	return m.registry
}

// ObserveChatMessage counts a processed chat message.
func (m *Metrics) ObserveChatMessage(role string) {
	if m == nil {
		return
	}
	m.chatMessages.WithLabelValues(role).Inc()
}

// ObserveImageGeneration counts an image generation attempt.
func (m *Metrics) ObserveImageGeneration(outcome string) {
	if m == nil {
		return
	}
	m.imageGenerations.WithLabelValues(outcome).Inc()
}

// ObserveUpstreamFailure counts a failed call to an external service.
func (m *Metrics) ObserveUpstreamFailure(service string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(service).Inc()
}
