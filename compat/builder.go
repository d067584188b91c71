// Package compat implements the Compatibility Builder (spec.md §4.2):
// for every ordered pair of variants and every direction, decide whether
// the second may sit on that side of the first, producing a 4-way table
// of bitsets indexed by variant.
package compat

import (
	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/internal/bits"
)

// Table holds compat[d][a], a bitset over variant indices for every
// direction d and variant a (spec.md §3).
type Table struct {
	variants []catalog.Variant
	words    int
	data     [catalog.NumDirections][]uint32
	rows     [catalog.NumDirections][]bits.Set
}

// Build computes the full table. It is O(|V|^2 * 4) as spec.md §4.2
// describes, which is acceptable because |V| is small relative to grid
// cell counts.
func Build(variants []catalog.Variant) *Table {
	n := len(variants)
	words := bits.Words(n)
	t := &Table{variants: variants, words: words}

	for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
		t.data[d] = make([]uint32, n*words)
		t.rows[d] = make([]bits.Set, n)
		for a := 0; a < n; a++ {
			t.rows[d][a] = bits.NewSet(t.data[d][a*words:(a+1)*words], n)
		}
	}

	for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
		opp := d.Opposite()
		for a := range variants {
			row := t.rows[d][a]
			for b := range variants {
				if catalog.Compatible(variants[a].KeyMaps[d], variants[b].KeyMaps[opp]) {
					row.SetBit(b)
				}
			}
		}
	}
	return t
}

// NumVariants returns the number of variants the table was built over.
func (t *Table) NumVariants() int { return len(t.variants) }

// Words returns the word width of one compatibility row.
func (t *Table) Words() int { return t.words }

// Row returns the bitset of variants allowed on side d of variant a. The
// returned Set aliases the table's backing storage — callers must not
// mutate it; it is read-only by construction (spec.md §3: Compatibility
// and Catalog are immutable after construction).
func (t *Table) Row(d catalog.Direction, a int) bits.Set {
	return t.rows[d][a]
}

// Symmetric verifies spec.md §8 property 4 — b in compat[d][a] iff a in
// compat[opp(d)][b] — for every pair. It is O(|V|^2*4) and intended for
// tests/diagnostics, not the hot path.
func (t *Table) Symmetric() bool {
	n := len(t.variants)
	for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
		opp := d.Opposite()
		for a := 0; a < n; a++ {
			for b := 0; b < n; b++ {
				if t.Row(d, a).Get(b) != t.Row(opp, b).Get(a) {
					return false
				}
			}
		}
	}
	return true
}
