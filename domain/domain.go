// Package domain implements the per-cell bitset Domain State (spec.md
// §3, §4.3): a word-packed array of cells x words for W x H grid cells,
// plus the domVer/propVer bookkeeping the Propagator uses to skip cells
// that haven't changed since it last drained them.
package domain

import (
	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/internal/bits"
)

// Domain holds every cell's still-possible-variant bitset for a W x H
// grid over a catalog of numVariants variants.
type Domain struct {
	W, H        int
	NumVariants int

	words  int
	arena  []uint32
	domVer []uint32
	propVer []uint32
}

// New allocates a Domain for a w x h grid with the given variant count,
// with every cell's domain filled to all-ones (spec.md §3: "Domain/
// queue/version arrays are (re)initialized on construction and on every
// restart").
func New(w, h, numVariants int) *Domain {
	words := bits.Words(numVariants)
	n := w * h
	d := &Domain{
		W:           w,
		H:           h,
		NumVariants: numVariants,
		words:       words,
		arena:       make([]uint32, n*words),
		domVer:      make([]uint32, n),
		propVer:     make([]uint32, n),
	}
	d.fillAll()
	return d
}

// NumCells returns W*H.
func (d *Domain) NumCells() int { return d.W * d.H }

// Index converts grid coordinates to a cell index (spec.md §6: cell =
// y*gridW + x).
func (d *Domain) Index(x, y int) int { return y*d.W + x }

// Coords converts a cell index back to grid coordinates.
func (d *Domain) Coords(c int) (x, y int) { return c % d.W, c / d.W }

// Neighbor returns the cell index adjacent to c in direction dir, and
// false if that neighbor would fall off the grid.
func (d *Domain) Neighbor(c int, dir catalog.Direction) (int, bool) {
	x, y := d.Coords(c)
	switch dir {
	case catalog.N:
		y--
	case catalog.S:
		y++
	case catalog.E:
		x++
	case catalog.W:
		x--
	}
	if x < 0 || x >= d.W || y < 0 || y >= d.H {
		return 0, false
	}
	return d.Index(x, y), true
}

// Cell returns a view onto cell c's domain bitset.
func (d *Domain) Cell(c int) bits.Set {
	return bits.NewSet(d.arena[c*d.words:(c+1)*d.words], d.NumVariants)
}

// PopCount returns cell c's entropy proxy (spec.md GLOSSARY).
func (d *Domain) PopCount(c int) int { return d.Cell(c).PopCount() }

// IsEmpty reports whether cell c has no surviving variants — a
// contradiction (spec.md §3).
func (d *Domain) IsEmpty(c int) bool { return d.Cell(c).IsEmpty() }

// Collapsed reports whether cell c has exactly one surviving variant.
func (d *Domain) Collapsed(c int) bool { return d.PopCount(c) == 1 }

// RestrictToOne collapses cell c to exactly variant, bumping domVer.
func (d *Domain) RestrictToOne(c, variant int) {
	d.Cell(c).RestrictToOne(variant)
	d.bumpVer(c)
}

// AndInPlace intersects cell c's domain with mask, bumping domVer if it
// changed. Returns whether anything changed.
func (d *Domain) AndInPlace(c int, mask bits.Set) bool {
	changed := d.Cell(c).AndInPlace(mask)
	if changed {
		d.bumpVer(c)
	}
	return changed
}

// IntersectIfNonEmpty applies the macro seeder's non-emptying intersect
// to cell c (spec.md §4.3, §4.6), bumping domVer if it changed.
func (d *Domain) IntersectIfNonEmpty(c int, mask bits.Set) (applied, changed bool) {
	applied, changed = d.Cell(c).IntersectIfNonEmpty(mask)
	if changed {
		d.bumpVer(c)
	}
	return applied, changed
}

func (d *Domain) bumpVer(c int) { d.domVer[c]++ }

// DomVer returns cell c's domain-change version counter.
func (d *Domain) DomVer(c int) uint32 { return d.domVer[c] }

// PropVer returns cell c's last-drained version counter.
func (d *Domain) PropVer(c int) uint32 { return d.propVer[c] }

// MarkPropagated sets cell c's propVer to its current domVer — "no new
// information since we last processed c" (spec.md §4.4 step 3).
func (d *Domain) MarkPropagated(c int) { d.propVer[c] = d.domVer[c] }

// NeedsPropagation reports whether cell c has changed since it was last
// drained (spec.md §4.4 step 2).
func (d *Domain) NeedsPropagation(c int) bool { return d.propVer[c] != d.domVer[c] }

// Reset refills every cell to all-ones and zeroes every version counter —
// the Restart Controller's domain reset (spec.md §4.8). Macro seeds must
// be reapplied by the caller afterward.
func (d *Domain) Reset() {
	d.fillAll()
	for c := range d.domVer {
		d.domVer[c] = 0
		d.propVer[c] = 0
	}
}

func (d *Domain) fillAll() {
	for c := 0; c < d.NumCells(); c++ {
		d.Cell(c).Fill()
	}
}
