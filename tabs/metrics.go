package tabs

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts and times tab evaluations.
type Metrics struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the evaluation metrics and registers them on reg
// unless reg is nil. Registering twice on the same registry reuses the
// collectors already there.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "indmath",
			Name:      "evaluations_total",
			Help:      "Tab evaluations by tab and outcome.",
		}, []string{"tab", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "indmath",
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating a tab.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"tab"}),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.evaluations, err = register(reg, m.evaluations); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(tab, outcome string, elapsed time.Duration) {
	m.evaluations.WithLabelValues(tab, outcome).Inc()
	m.duration.WithLabelValues(tab).Observe(elapsed.Seconds())
}

// Evaluations returns the counter for tests and exporters.
func (m *Metrics) Evaluations() *prometheus.CounterVec { return m.evaluations }

// Metrics returns the workbench's metrics.
func (w *Workbench) Metrics() *Metrics { return w.metrics }
