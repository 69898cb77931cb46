package metrics

import (
	"net/http"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the server.
// It carries its own registry so the /metrics handler only exposes
// espalier series and independent instances never collide.
type Metrics struct {
	registry *prometheus.Registry

	ToolCalls     *prometheus.CounterVec
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	CommandsTotal *prometheus.CounterVec
}

// New creates a metrics collector with all series registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ToolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_tool_calls_total",
				Help: "Total number of MCP tool invocations",
			},
			[]string{"tool"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_runs_total",
				Help: "Total number of expect script runs by final status",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "espalier_run_duration_seconds",
				Help: "Duration of expect script runs",
			},
		),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_commands_total",
				Help: "Total number of shell commands by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(m.ToolCalls, m.RunsTotal, m.RunDuration, m.CommandsTotal)

	return m
}

// Handler returns the HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordToolCall records an MCP tool invocation.
func (m *Metrics) RecordToolCall(tool string) {
	m.ToolCalls.WithLabelValues(tool).Inc()
}

// RecordRun records a finished script run.
func (m *Metrics) RecordRun(status domain.Status, duration time.Duration) {
	m.RunsTotal.WithLabelValues(string(status)).Inc()
	m.RunDuration.Observe(duration.Seconds())
}

// RecordCommand records a shell command outcome ("ok", "blocked",
// "rejected" or "failed").
func (m *Metrics) RecordCommand(outcome string) {
	m.CommandsTotal.WithLabelValues(outcome).Inc()
}
