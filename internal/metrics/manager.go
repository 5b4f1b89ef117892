package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/claude/fitflow/internal/mesocycle"
	"github.com/claude/fitflow/internal/recovery"
	"github.com/claude/fitflow/internal/volume"
)

type Manager struct {
	// counters
	CounterRequests          *prometheus.CounterVec
	CounterVolumeWarnings    *prometheus.CounterVec
	CounterPhaseAdvances     *prometheus.CounterVec
	CounterRecoveryDirective *prometheus.CounterVec

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitflow", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitflow", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "The total number of incoming requests",
	}, []string{"method", "route", "status"})
	counterVolumeWarnings := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "volume_warnings_total",
		Help:      "Volume warnings returned by program edits",
	}, []string{"issue"})
	counterPhaseAdvances := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "phase_advances_total",
		Help:      "Mesocycle phase advances by target phase",
	}, []string{"phase"})
	counterRecoveryDirective := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "recovery_directives_total",
		Help:      "Recovery assessments by resulting directive",
	}, []string{"directive"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
		},
		[]string{"route"},
	)

	return &Manager{
		CounterRequests:          counterRequests,
		CounterVolumeWarnings:    counterVolumeWarnings,
		CounterPhaseAdvances:     counterPhaseAdvances,
		CounterRecoveryDirective: counterRecoveryDirective,
		GaugeRequests:            gaugeRequests,
		HistRequestDuration:      histReqDuration,
	}
}

// VolumeWarning counts one advisor warning.
func (m *Manager) VolumeWarning(issue volume.Issue) {
	m.CounterVolumeWarnings.WithLabelValues(string(issue)).Inc()
}

// PhaseAdvanced counts one phase advance.
func (m *Manager) PhaseAdvanced(to mesocycle.Phase) {
	m.CounterPhaseAdvances.WithLabelValues(string(to)).Inc()
}

// RecoveryDirective counts one scored assessment.
func (m *Manager) RecoveryDirective(d recovery.Directive) {
	m.CounterRecoveryDirective.WithLabelValues(string(d)).Inc()
}
