// Package metrics exposes run statistics as Prometheus metrics and writes
// them in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"pcrelint/internal/diag"
	"pcrelint/internal/driver"
)

const namespace = "pcrelint"

// Collector counts files and findings of a run. It implements
// driver.ProgressSink and is safe for concurrent use.
type Collector struct {
	reg       *prometheus.Registry
	files     *prometheus.CounterVec
	findings  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	runSecs   prometheus.Gauge
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files by final analysis status.",
		}, []string{"status"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Reported diagnostics by code and severity.",
		}, []string{"code", "severity"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Per-file processing time by stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		runSecs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
	c.reg.MustRegister(c.files, c.findings, c.durations, c.runSecs)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// OnEvent records final per-file events.
func (c *Collector) OnEvent(evt driver.Event) {
	if evt.File == "" || !evt.Status.Final() {
		return
	}
	if evt.Stage == driver.StageAnalyze || evt.Status == driver.StatusError {
		c.files.WithLabelValues(string(evt.Status)).Inc()
	}
	if evt.Elapsed > 0 {
		c.durations.WithLabelValues(string(evt.Stage)).Observe(evt.Elapsed.Seconds())
	}
}

// ObserveResult records the findings and total time of a finished run.
func (c *Collector) ObserveResult(res *driver.Result) {
	if res == nil {
		return
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		c.findings.WithLabelValues(d.Code.ID(), diag.SeverityLabel(d.Severity)).Inc()
	}
	c.runSecs.Set(res.Timing.TotalMS / 1000)
}

// WriteTextfile atomically writes every metric to path.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
