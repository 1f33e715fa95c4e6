// Package metrics provides Prometheus metrics for the vpinfe shell.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the shell's Prometheus metrics. All methods are safe on a nil
// receiver so components can run without a registry.
type Metrics struct {
	WindowsCreated *prometheus.CounterVec
	WindowsSkipped *prometheus.CounterVec
	ProbeDuration  *prometheus.HistogramVec
	DialogRequests *prometheus.CounterVec
	SettingsSaves  *prometheus.CounterVec
	IPCCommands    *prometheus.CounterVec
	OverlayOpens   prometheus.Counter
	WindowsOpen    prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance with every metric registered.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.WindowsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpinfe_windows_created_total",
			Help: "Frontend windows created, by logical name",
		},
		[]string{"window"},
	)
	m.WindowsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpinfe_windows_skipped_total",
			Help: "Configured windows that were not created",
		},
		[]string{"window", "reason"},
	)
	m.ProbeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vpinfe_probe_duration_seconds",
			Help:    "Time spent waiting for the theme asset server",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"outcome"},
	)
	m.DialogRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpinfe_dialog_requests_total",
			Help: "Native dialog requests, by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
	m.SettingsSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpinfe_settings_saves_total",
			Help: "Settings file saves from the manager UI",
		},
		[]string{"result"},
	)
	m.IPCCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpinfe_ipc_commands_total",
			Help: "Control socket commands handled",
		},
		[]string{"command"},
	)
	m.OverlayOpens = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vpinfe_manager_overlay_opens_total",
		Help: "Manager overlay open requests",
	})
	m.WindowsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vpinfe_windows_open",
		Help: "Frontend windows currently tracked",
	})

	m.registry.MustRegister(
		m.WindowsCreated,
		m.WindowsSkipped,
		m.ProbeDuration,
		m.DialogRequests,
		m.SettingsSaves,
		m.IPCCommands,
		m.OverlayOpens,
		m.WindowsOpen,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) WindowCreated(name string) {
	if m == nil {
		return
	}
	m.WindowsCreated.WithLabelValues(name).Inc()
	m.WindowsOpen.Inc()
}

func (m *Metrics) WindowSkipped(name, reason string) {
	if m == nil {
		return
	}
	m.WindowsSkipped.WithLabelValues(name, reason).Inc()
}

// WindowsClosed resets the open-window gauge.
func (m *Metrics) WindowsClosed() {
	if m == nil {
		return
	}
	m.WindowsOpen.Set(0)
}

func (m *Metrics) ProbeFinished(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	outcome := "timeout"
	if ok {
		outcome = "ready"
	}
	m.ProbeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) DialogRequested(mode, outcome string) {
	if m == nil {
		return
	}
	m.DialogRequests.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) SettingsSaved(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SettingsSaves.WithLabelValues(result).Inc()
}

func (m *Metrics) IPCCommand(command string) {
	if m == nil {
		return
	}
	m.IPCCommands.WithLabelValues(command).Inc()
}

func (m *Metrics) OverlayOpened() {
	if m == nil {
		return
	}
	m.OverlayOpens.Inc()
}
