// Package metrics counts what the dictionary workflow does during a run.
package metrics

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ocladmin"

// Outcome labels a finished Submit call.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeRejected  Outcome = "rejected"
	OutcomeIgnored   Outcome = "ignored"
)

// Metrics is safe to use through a nil pointer; every call is then a no-op.
type Metrics struct {
	registry       *prometheus.Registry
	submissions    *prometheus.CounterVec
	copyFetches    *prometheus.CounterVec
	staleResponses *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_submissions_total",
			Help:      "Dictionary submissions by outcome.",
		}, []string{"outcome"}),
		copyFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_copy_fetches_total",
			Help:      "Copy-from dictionary lookups by result.",
		}, []string{"result"}),
		staleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Responses dropped because the visit that requested them had ended.",
		}, []string{"operation"}),
	}
	m.registry.MustRegister(m.submissions, m.copyFetches, m.staleResponses)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Submission(outcome Outcome) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) CopyFetch(err error) {
	if m == nil {
		return
	}
	result := "succeeded"
	if err != nil {
		result = "failed"
	}
	m.copyFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) StaleResponse(operation string) {
	if m == nil {
		return
	}
	m.staleResponses.WithLabelValues(operation).Inc()
}

// WriteTextfile dumps all counters in the Prometheus text format, e.g. for the node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

// LogSummary logs every non-zero counter at debug level.
func (m *Metrics) LogSummary() {
	if m == nil {
		return
	}
	families, err := m.registry.Gather()
	if err != nil {
		slog.Warn("Failed to gather metrics", slog.Any("error", err))
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			value := metric.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			attrs := []any{slog.String("name", mf.GetName()), slog.Float64("value", value)}
			for _, l := range metric.GetLabel() {
				attrs = append(attrs, slog.String(l.GetName(), l.GetValue()))
			}
			slog.Debug("Metric", attrs...)
		}
	}
}
