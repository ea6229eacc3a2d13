// Package solver defines the pluggable optimization backend contract. The
// core hands a backend a compacted lp.Snapshot and receives primal values and
// an objective, or a structured failure. Backends register themselves by
// name; asking for a backend that is not compiled in is a reportable,
// non-fatal condition distinct from a failed solve.
package solver

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kilianp07/minigrid/core/lp"
)

// Status reports the outcome of a solve attempt.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// Result is a completed primal solution.
type Result struct {
	Status    Status
	Objective float64
	// Values holds one primal value per problem column.
	Values []float64
}

// Options carries solver tuning. Extra holds backend-specific numeric knobs
// keyed by the backend's native option names.
type Options struct {
	TimeLimit      time.Duration
	IterationLimit int
	Tolerance      float64
	MIPGap         float64
	Verbose        bool
	Extra          map[string]float64
}

// Backend solves one problem per call, blocking until done.
type Backend interface {
	Name() string
	Solve(ctx context.Context, p *lp.Problem, opts Options) (*Result, error)
}

// UnavailableError reports that the requested backend is not usable: not
// compiled in, not licensed, or unable to handle the problem class. No
// fallback backend is substituted silently.
type UnavailableError struct {
	Backend string
	Reason  string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("solver %q unavailable: %s", e.Backend, e.Reason)
}

// InfeasibleError reports that a solve completed without a usable solution.
// It carries whatever diagnostic the backend provides; the core attempts no
// automatic relaxation.
type InfeasibleError struct {
	Backend string
	Status  Status
	Detail  string
}

func (e *InfeasibleError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("solver %q: %s (%s)", e.Backend, e.Status, e.Detail)
	}
	return fmt.Sprintf("solver %q: %s", e.Backend, e.Status)
}

// Factory builds a backend instance.
type Factory func() (Backend, error)

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register makes a backend selectable by name. Last registration wins, which
// lets builds with native bindings replace the defaults.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = f
}

// New resolves a backend by name.
func New(name string) (Backend, error) {
	mu.RLock()
	f, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, &UnavailableError{Backend: name, Reason: "backend not compiled in"}
	}
	return f()
}

// Available lists the registered backend names, sorted.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
