package engine

import "fmt"

// ErrInvalidConfig is returned by New when the grid or catalog is
// malformed (spec.md §7: "Configuration errors ... → engine construction
// fails with a typed error; no partial state is left behind").
type ErrInvalidConfig struct {
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("engine: invalid config: %s", e.Reason)
}
