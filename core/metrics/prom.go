package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records solve outcomes in Prometheus metrics.
type PromSink struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     prometheus.Gauge
	cols     prometheus.Gauge
}

// NewPromSink registers solve metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are
// already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_runs_total",
		Help: "Total number of solver invocations",
	}, []string{"backend", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solver_run_duration_seconds",
		Help:    "Wall-clock duration of solver invocations",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	}, []string{"backend", "status"})
	rows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "problem_rows",
		Help: "Constraint rows in the last solved problem",
	})
	cols := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "problem_cols",
		Help: "Decision variables in the last solved problem",
	})

	s := &PromSink{solves: solves, duration: duration, rows: rows, cols: cols}
	for _, c := range []prometheus.Collector{solves, duration, rows, cols} {
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch existing := are.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					s.solves = existing
				case *prometheus.HistogramVec:
					s.duration = existing
				case prometheus.Gauge:
					// rows and cols share a type; keep the fresh collector,
					// registration of the duplicate is simply skipped.
					_ = existing
				}
				continue
			}
			return nil, err
		}
	}
	return s, nil
}

// RecordSolve updates the counters for one solver invocation.
func (s *PromSink) RecordSolve(rec SolveRecord) error {
	s.solves.WithLabelValues(rec.Backend, rec.Status).Inc()
	s.duration.WithLabelValues(rec.Backend, rec.Status).Observe(rec.Duration.Seconds())
	s.rows.Set(float64(rec.Rows))
	s.cols.Set(float64(rec.Cols))
	return nil
}
