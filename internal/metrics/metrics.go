// Package metrics holds the Prometheus counters of the rdfconv converter.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status labels for FilesConverted.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Metrics holds Prometheus metrics for conversions.
type Metrics struct {
	registry *prometheus.Registry

	triplesParsed  prometheus.Counter
	triplesWritten prometheus.Counter
	linesSkipped   prometheus.Counter
	filesConverted *prometheus.CounterVec // status: ok, failed

	convertDuration prometheus.Histogram
}

// New creates the converter metrics on a private registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		triplesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdfconv",
			Name:      "triples_parsed_total",
			Help:      "Total number of triples read from N-Triples input",
		}),
		triplesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdfconv",
			Name:      "triples_written_total",
			Help:      "Total number of triples written as RDF/XML",
		}),
		linesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdfconv",
			Name:      "lines_skipped_total",
			Help:      "Total number of malformed input lines skipped",
		}),
		filesConverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rdfconv",
			Name:      "files_converted_total",
			Help:      "Total number of inputs converted, by outcome",
		}, []string{"status"}),

		convertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rdfconv",
			Name:      "convert_duration_seconds",
			Help:      "Wall time of a single input conversion",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4m
		}),
	}

	for _, c := range []prometheus.Collector{
		m.triplesParsed, m.triplesWritten, m.linesSkipped, m.filesConverted, m.convertDuration,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return m, nil
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// TriplesParsed adds n parsed triples.
func (m *Metrics) TriplesParsed(n int) {
	if m == nil {
		return
	}
	m.triplesParsed.Add(float64(n))
}

// TriplesWritten adds n serialized triples.
func (m *Metrics) TriplesWritten(n int) {
	if m == nil {
		return
	}
	m.triplesWritten.Add(float64(n))
}

// LineSkipped records one skipped input line.
func (m *Metrics) LineSkipped() {
	if m == nil {
		return
	}
	m.linesSkipped.Inc()
}

// FileConverted records the outcome and duration of one conversion.
func (m *Metrics) FileConverted(err error, d time.Duration) {
	if m == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	m.filesConverted.WithLabelValues(status).Inc()
	m.convertDuration.Observe(d.Seconds())
}

// WriteTextfile writes the current values in the text exposition format,
// for collection by the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
