// Package metrics exposes pipeline outcomes as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reporter counts files, records and skipped lines per outcome.
type Reporter struct {
	registry      *prometheus.Registry
	filesTotal    *prometheus.CounterVec
	recordsTotal  prometheus.Counter
	skippedLines  prometheus.Counter
	bytesTotal    prometheus.Counter
	runDuration   prometheus.Histogram
	lastRunFailed prometheus.Gauge
}

// NewReporter registers the pipeline metrics on a fresh registry.
func NewReporter() *Reporter {
	r := &Reporter{
		registry: prometheus.NewRegistry(),
		filesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sftp_ingest_files_total",
			Help: "Total number of files processed, by outcome",
		}, []string{"outcome"}),
		recordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sftp_ingest_records_total",
			Help: "Total number of records committed",
		}),
		skippedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sftp_ingest_skipped_lines_total",
			Help: "Total number of malformed lines dropped",
		}),
		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sftp_ingest_downloaded_bytes_total",
			Help: "Total number of bytes downloaded",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sftp_ingest_run_duration_seconds",
			Help:    "Time taken by a complete pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4m
		}),
		lastRunFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sftp_ingest_last_run_failed_files",
			Help: "Number of files that failed in the most recent run",
		}),
	}
	r.registry.MustRegister(
		r.filesTotal,
		r.recordsTotal,
		r.skippedLines,
		r.bytesTotal,
		r.runDuration,
		r.lastRunFailed,
		collectors.NewGoCollector(),
	)
	return r
}

func (r *Reporter) ReportFile(_ context.Context, outcome domain.FileOutcome) {
	r.filesTotal.WithLabelValues(string(outcome.Status)).Inc()
	r.skippedLines.Add(float64(outcome.SkippedLines))
	r.bytesTotal.Add(float64(outcome.Bytes))
	if outcome.Status == domain.OutcomeSucceeded {
		r.recordsTotal.Add(float64(outcome.Records))
	}
}

func (r *Reporter) ReportRun(_ context.Context, summary domain.RunSummary) {
	r.runDuration.Observe(summary.FinishedAt.Sub(summary.StartedAt).Seconds())
	r.lastRunFailed.Set(float64(summary.Failed()))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Reporter) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
