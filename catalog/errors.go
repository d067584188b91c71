package catalog

import "fmt"

// ErrInvalidTile is returned by Prepare when a tile definition is
// malformed (spec.md §7: "Configuration errors... engine construction
// fails with a typed error").
type ErrInvalidTile struct {
	ID     string
	Reason string
}

func (e *ErrInvalidTile) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("catalog: invalid tile: %s", e.Reason)
	}
	return fmt.Sprintf("catalog: invalid tile %q: %s", e.ID, e.Reason)
}

// ErrEmptyCatalog is returned when Prepare yields zero variants.
type ErrEmptyCatalog struct{}

func (*ErrEmptyCatalog) Error() string {
	return "catalog: empty catalog (no variants after preparation)"
}
