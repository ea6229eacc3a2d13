// Package metrics records solve outcomes for observability. Sinks are
// fan-out: Prometheus for scraping, InfluxDB for history, Nop when metrics
// are disabled.
package metrics

import (
	"fmt"
	"time"

	"github.com/kilianp07/minigrid/core/logger"
)

// Config defines settings for metrics sinks.
type Config struct {
	// Sinks lists the enabled sinks: "prometheus", "influxdb".
	Sinks []string `json:"sinks"`

	InfluxURL    string `json:"influx_url"`
	InfluxToken  string `json:"influx_token"`
	InfluxOrg    string `json:"influx_org"`
	InfluxBucket string `json:"influx_bucket"`
}

// SolveRecord captures one solver invocation.
type SolveRecord struct {
	RunID     string
	Backend   string
	Status    string
	Objective float64
	Duration  time.Duration
	Rows      int
	Cols      int
	// ParetoPoint is the sweep index, -1 for single-objective solves and the
	// two anchor solves.
	ParetoPoint int
	Time        time.Time
}

// Sink records solve outcomes.
type Sink interface {
	RecordSolve(rec SolveRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveRecord) error { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSolve(rec SolveRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(rec); err != nil {
			return err
		}
	}
	return nil
}

// NewFromConfig assembles the sink stack named by the configuration. An
// empty sink list yields a NopSink.
func NewFromConfig(cfg Config, log logger.Logger) (Sink, error) {
	var sinks []Sink
	for _, name := range cfg.Sinks {
		switch name {
		case "prometheus":
			s, err := NewPromSink(nil)
			if err != nil {
				return nil, fmt.Errorf("prometheus sink: %w", err)
			}
			sinks = append(sinks, s)
		case "influxdb":
			sinks = append(sinks, NewInfluxSinkWithFallback(cfg, log))
		default:
			return nil, fmt.Errorf("unknown metrics sink %q", name)
		}
	}
	switch len(sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
