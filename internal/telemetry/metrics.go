// Package telemetry exposes calculator activity as Prometheus metrics on an
// optional local HTTP endpoint.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandeepkv93/primecalc/internal/calc"
)

type Metrics struct {
	registry    *prometheus.Registry
	inputs      *prometheus.CounterVec
	computed    prometheus.Counter
	evalErrors  prometheus.Counter
	logClears   prometheus.Counter
	suspended   prometheus.Gauge
	alarmsFired prometheus.Counter
	insights    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primecalc_inputs_total",
			Help: "Accepted session transitions by kind.",
		}, []string{"kind"}),
		computed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "primecalc_calculations_total",
			Help: "Successful evaluations appended to the calculation log.",
		}),
		evalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "primecalc_evaluation_errors_total",
			Help: "Evaluations that ended in the error marker.",
		}),
		logClears: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "primecalc_log_clears_total",
			Help: "Explicit calculation log clears.",
		}),
		suspended: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "primecalc_session_suspended",
			Help: "1 while the session is shut down.",
		}),
		alarmsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "primecalc_alarms_fired_total",
			Help: "Alarms that started ringing.",
		}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primecalc_insights_total",
			Help: "Insight replies by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.inputs,
		m.computed,
		m.evalErrors,
		m.logClears,
		m.suspended,
		m.alarmsFired,
		m.insights,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Attach subscribes m to every transition of s. The returned func detaches.
func (m *Metrics) Attach(s *calc.Session) func() {
	return s.Subscribe(m.Observe)
}

func (m *Metrics) Observe(ev calc.Event) {
	switch ev.Kind {
	case calc.EventComputed:
		m.computed.Inc()
	case calc.EventComputeFailed:
		m.evalErrors.Inc()
	case calc.EventLogCleared:
		m.logClears.Inc()
	case calc.EventSuspended:
		m.suspended.Set(1)
	case calc.EventResumed, calc.EventReset:
		m.suspended.Set(0)
	}
	m.inputs.WithLabelValues(string(ev.Kind)).Inc()
}

func (m *Metrics) AlarmFired() {
	m.alarmsFired.Inc()
}

// InsightOutcome values: "reply", "fallback", "empty".
func (m *Metrics) InsightOutcome(outcome string) {
	m.insights.WithLabelValues(outcome).Inc()
}
