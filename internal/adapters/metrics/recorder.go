// Package metrics records build metrics with Prometheus collectors and
// exports them in the node_exporter textfile format.
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetricsRecorder = (*Recorder)(nil)

const namespace = "mindc"

// Recorder implements ports.MetricsRecorder on a private Prometheus registry.
// Counters accumulate across the builds of one process, such as watch mode;
// the last_build gauges describe the most recent run only.
type Recorder struct {
	registry *prometheus.Registry

	commands        *prometheus.CounterVec
	commandDuration prometheus.Histogram
	builds          *prometheus.CounterVec
	lastOutcomes    *prometheus.GaugeVec
	lastDuration    prometheus.Gauge
	lastTimestamp   prometheus.Gauge

	mu sync.Mutex
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Number of executed compilation commands by terminal status.",
		}, []string{"status"}),
		commandDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Wall time of executed compilation commands.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 7),
		}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Number of builds by result.",
		}, []string{"result"}),
		lastOutcomes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_commands",
			Help:      "Commands of the last build by outcome.",
		}, []string{"outcome"}),
		lastDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_duration_seconds",
			Help:      "Wall time of the last build.",
		}),
		lastTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time at which the last build finished.",
		}),
	}

	r.registry.MustRegister(
		r.commands,
		r.commandDuration,
		r.builds,
		r.lastOutcomes,
		r.lastDuration,
		r.lastTimestamp,
	)
	return r
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// CommandFinished records the terminal status of one executed command.
func (r *Recorder) CommandFinished(status domain.CommandStatus, d time.Duration) {
	r.commands.WithLabelValues(string(status)).Inc()
	r.commandDuration.Observe(d.Seconds())
}

// BuildFinished records the outcome of a whole run.
func (r *Recorder) BuildFinished(report *domain.BuildReport) {
	if report == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := "ok"
	if !report.OK() {
		result = "failed"
	}
	r.builds.WithLabelValues(result).Inc()

	r.lastOutcomes.WithLabelValues("executed").Set(float64(len(report.Executed)))
	r.lastOutcomes.WithLabelValues("failed").Set(float64(len(report.Failed)))
	r.lastOutcomes.WithLabelValues("cascaded").Set(float64(len(report.Cascaded)))
	r.lastOutcomes.WithLabelValues("expunged").Set(float64(len(report.Expunged)))
	r.lastOutcomes.WithLabelValues("abandoned").Set(float64(len(report.Abandoned)))
	r.lastDuration.Set(report.Duration.Seconds())
	r.lastTimestamp.SetToCurrentTime()
}

// WriteTextfile writes every collected metric in Prometheus text format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(errors.Join(domain.ErrMetricsWriteFailed, err), "path", path)
	}
	return nil
}
