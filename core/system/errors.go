package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
)

// AggregationError reports that a cost or emissions aggregate referenced a
// variable group that was never created because its owning subsystem is
// disabled. It signals a wiring bug between the capability table and the
// variable registry, not bad user input.
type AggregationError struct {
	Aggregate string
	Missing   string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation %q: variable group %q was never created", e.Aggregate, e.Missing)
}

// require returns an AggregationError when g is nil.
func require(aggregate, name string, g *lp.Group) error {
	if g == nil {
		return &AggregationError{Aggregate: aggregate, Missing: name}
	}
	return nil
}
