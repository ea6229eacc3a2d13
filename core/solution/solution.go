// Package solution holds the labeled result arrays harvested after a solve.
// Consumers look quantities up by name and must tolerate absence: optional
// subsystems simply contribute no keys.
package solution

import (
	"sort"
	"strings"

	"github.com/kilianp07/minigrid/core/tensor"
)

// Solution maps result-quantity names ("Net Present Cost", "TES State of
// Charge", ...) to labeled arrays. It is produced fresh per solve and never
// mutated by the engine afterwards.
type Solution struct {
	values map[string]*tensor.Array
}

// New returns an empty solution.
func New() *Solution {
	return &Solution{values: make(map[string]*tensor.Array)}
}

// Set stores an array under its quantity name.
func (s *Solution) Set(name string, a *tensor.Array) {
	s.values[name] = a
}

// Get looks a quantity up by name, falling back to a case-insensitive match
// so export templates are not whitespace- and casing-fragile.
func (s *Solution) Get(name string) (*tensor.Array, bool) {
	if a, ok := s.values[name]; ok {
		return a, true
	}
	want := normalize(name)
	for k, a := range s.values {
		if normalize(k) == want {
			return a, true
		}
	}
	return nil, false
}

// Value returns the scalar stored under name. It reports false when the
// quantity is absent or not scalar.
func (s *Solution) Value(name string) (float64, bool) {
	a, ok := s.Get(name)
	if !ok || a.Len() != 1 {
		return 0, false
	}
	return a.Data()[0], true
}

// Names returns the stored quantity names, sorted.
func (s *Solution) Names() []string {
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
