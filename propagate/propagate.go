// Package propagate implements the Propagator (spec.md §4.4): given a
// queue of cells whose domains just shrank, it drains the queue,
// AC-3-style, until either the queue empties or a contradiction is found.
package propagate

import (
	"fmt"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/compat"
	"github.com/wfcgen/wfcgen/domain"
	"github.com/wfcgen/wfcgen/internal/bits"
)

// ContradictionError is returned by Drain when a neighbor's domain
// becomes empty (spec.md §4.4 step 5, §7).
type ContradictionError struct {
	Cell int
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("propagate: contradiction at cell %d", e.Cell)
}

// Stats summarizes one Drain call — the raw material for the Stepper's
// optional progress events (spec.md §4.7).
type Stats struct {
	Propagations      int
	CellsTouched      int
	OptionsEliminated int
	MaxEntropyDrop    int
}

// Propagator holds the preallocated scratch buffers Drain needs so the
// hot path never allocates (spec.md §9).
type Propagator struct {
	scratchData []uint32
	scratch     [catalog.NumDirections]bits.Set
	touched     []bool
	touchedList []int
}

// New allocates a Propagator for a catalog of numVariants variants over a
// grid of numCells cells.
func New(numVariants, numCells int) *Propagator {
	words := bits.Words(numVariants)
	p := &Propagator{
		scratchData: make([]uint32, catalog.NumDirections*words),
		touched:     make([]bool, numCells),
	}
	for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
		p.scratch[d] = bits.NewSet(p.scratchData[int(d)*words:(int(d)+1)*words], numVariants)
	}
	return p
}

// Drain pops cells from q until it is empty, intersecting each of the
// four neighbors' domains with the union of compatibility rows over the
// popped cell's surviving variants (spec.md §4.4). It returns on the
// first contradiction; the caller (the Restart Controller) is
// responsible for resetting state and deciding whether to retry.
func (p *Propagator) Drain(dom *domain.Domain, q *domain.Queue, table *compat.Table) (Stats, error) {
	var stats Stats
	defer func() {
		for _, c := range p.touchedList {
			p.touched[c] = false
		}
		p.touchedList = p.touchedList[:0]
	}()

	for {
		c, ok := q.Pop()
		if !ok {
			return stats, nil
		}
		if !dom.NeedsPropagation(c) {
			continue
		}
		dom.MarkPropagated(c)
		stats.Propagations++

		for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
			p.scratch[d].Clear()
		}
		dom.Cell(c).EachSet(func(t int) {
			for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
				p.scratch[d].OrInPlace(table.Row(d, t))
			}
		})

		for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
			nb, onGrid := dom.Neighbor(c, d)
			if !onGrid {
				continue
			}
			before := dom.PopCount(nb)
			changed := dom.AndInPlace(nb, p.scratch[d])
			if !changed {
				continue
			}
			after := dom.PopCount(nb)
			if drop := before - after; drop > stats.MaxEntropyDrop {
				stats.MaxEntropyDrop = drop
			}
			stats.OptionsEliminated += before - after
			if !p.touched[nb] {
				p.touched[nb] = true
				p.touchedList = append(p.touchedList, nb)
				stats.CellsTouched++
			}
			if dom.IsEmpty(nb) {
				return stats, &ContradictionError{Cell: nb}
			}
			q.Push(nb)
		}
	}
}
