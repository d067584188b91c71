// Package collapse implements the Collapser (spec.md §4.5): minimum-
// entropy cell selection and weighted, neighbor-biased tile sampling.
package collapse

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/domain"
	"github.com/wfcgen/wfcgen/rng"
)

// Collapser holds the preallocated scratch buffers its hot path needs so
// neither SelectCell nor SelectAndCollapse allocates (spec.md §9).
type Collapser struct {
	variants []catalog.Variant

	survivors []int
	scores    []float64
	cumsum    []float64
}

// New builds a Collapser over variants, sized for a catalog of that many
// entries.
func New(variants []catalog.Variant) *Collapser {
	n := len(variants)
	return &Collapser{
		variants:  variants,
		survivors: make([]int, 0, n),
		scores:    make([]float64, 0, n),
		cumsum:    make([]float64, n),
	}
}

// SelectCell scans all cells starting from a random offset and returns the
// index of the uncollapsed cell with the smallest popcount, early-exiting
// once a popcount of 2 is found (spec.md §4.5). ok is false if every cell
// is already collapsed.
func (c *Collapser) SelectCell(dom *domain.Domain, r *rng.Source) (cell int, ok bool) {
	n := dom.NumCells()
	start := r.Intn(n)
	best := -1
	bestPop := 0
	for i := 0; i < n; i++ {
		idx := start + i
		if idx >= n {
			idx -= n
		}
		pop := dom.PopCount(idx)
		if pop <= 1 {
			continue
		}
		if best == -1 || pop < bestPop {
			best, bestPop = idx, pop
			if bestPop == 2 {
				break
			}
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// SelectAndCollapse picks a tile for cell by weighted sampling with
// neighbor bias (spec.md §4.5), restricts the cell to it, and returns the
// chosen variant index. The cell's domain must have popcount > 1.
func (c *Collapser) SelectAndCollapse(dom *domain.Domain, cell int, r *rng.Source) int {
	survivors := c.survivors[:0]
	scores := c.scores[:0]

	dom.Cell(cell).EachSet(func(t int) {
		score := c.variants[t].Weight
		if score < 0 {
			score = 0
		}
		for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
			nb, onGrid := dom.Neighbor(cell, d)
			if !onGrid || !dom.Collapsed(nb) {
				continue
			}
			nbVariant := dom.Cell(nb).FirstSet()
			factor := 1.0
			for _, rule := range c.variants[t].Edges[d] {
				factor += rule.Weight * c.variants[nbVariant].KeyMaps[d.Opposite()][rule.Key]
			}
			score *= factor
		}
		survivors = append(survivors, t)
		scores = append(scores, score)
	})

	chosen := survivors[selectIndex(c.cumsum[:len(scores)], scores, r)]
	dom.RestrictToOne(cell, chosen)
	return chosen
}

// selectIndex performs inverse-CDF sampling over scores with a single PRNG
// draw, falling back to a uniform draw when every score is non-positive
// (spec.md §4.5). cum is reused scratch sized len(scores).
func selectIndex(cum, scores []float64, r *rng.Source) int {
	floats.CumSum(cum, scores)
	total := cum[len(cum)-1]
	if total <= 0 {
		return r.Intn(len(scores))
	}
	draw := r.Float64() * total
	idx := sort.Search(len(cum), func(i int) bool { return cum[i] > draw })
	if idx == len(cum) {
		idx = len(cum) - 1
	}
	return idx
}
