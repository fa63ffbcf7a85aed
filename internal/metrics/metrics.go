// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics defines the Prometheus collectors for engagement
// activity and HTTP traffic. A nil *Metrics is valid and records nothing,
// which keeps unit tests free of registry plumbing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "proviewz"

// Metrics groups all collectors registered by the application.
type Metrics struct {
	registry *prometheus.Registry

	Engagements   *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Engagements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engagements_total",
			Help:      "Engagement operations applied to posts, by action and outcome.",
		}, []string{"action", "outcome"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification dispatch attempts, by type and result.",
		}, []string{"type", "result"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_cache_lookups_total",
			Help:      "Post cache lookups, by result.",
		}, []string{"result"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	reg.MustRegister(
		m.Engagements,
		m.Notifications,
		m.CacheLookups,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Engagement counts one like/comment/rate/create/update/delete attempt.
func (m *Metrics) Engagement(action string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Engagements.WithLabelValues(action, outcome).Inc()
}

// Notification counts one dispatch attempt.
func (m *Metrics) Notification(typ, result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(typ, result).Inc()
}

// CacheLookup counts a post cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records the latency of a finished request.
func (m *Metrics) ObserveHTTP(method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, status).Observe(d.Seconds())
}
