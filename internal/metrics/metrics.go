package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	v1 "github.com/tripline/eventgate/internal/api/v1"
)

var (
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventgate_events_ingested_total",
		Help: "Events received on the ingest edge, labelled by outcome (accepted, rejected, duplicate).",
	}, []string{"outcome"})

	EventsValidated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventgate_events_validated_total",
		Help: "Events processed by the strict pass, labelled by destination partition class.",
	}, []string{"destination"})

	ReportEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventgate_report_entries_total",
		Help: "Report entries emitted, labelled by mode, severity and reason.",
	}, []string{"mode", "severity", "reason"})

	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventgate_events_published_total",
		Help: "Curated events written to the downstream topic.",
	})

	ValidationRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventgate_validation_run_duration_ms",
		Help:    "Duration of one strict validation run in milliseconds.",
		Buckets: []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	IngestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventgate_ingest_duration_ms",
		Help:    "Ingest request handling latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	ValidationCursor = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventgate_validation_cursor",
		Help: "Last raw sequence number flushed by the strict pass.",
	})
)

// ObserveReport counts every entry of a report.
func ObserveReport(mode v1.Mode, report *v1.Report) {
	if report == nil {
		return
	}
	for _, e := range report.Errors {
		ReportEntries.WithLabelValues(string(mode), string(v1.SeverityError), string(e.Reason)).Inc()
	}
	for _, e := range report.Warnings {
		ReportEntries.WithLabelValues(string(mode), string(v1.SeverityWarning), string(e.Reason)).Inc()
	}
}
