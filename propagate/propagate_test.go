package propagate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/compat"
	"github.com/wfcgen/wfcgen/domain"
)

func tileAllSides(id, key string) catalog.TileDef {
	return catalog.TileDef{
		ID:     id,
		File:   id + ".png",
		Weight: 1,
		Edges: [catalog.NumDirections][]catalog.EdgeRule{
			catalog.N: {{Key: key, Weight: 1}},
			catalog.E: {{Key: key, Weight: 1}},
			catalog.S: {{Key: key, Weight: 1}},
			catalog.W: {{Key: key, Weight: 1}},
		},
	}
}

func TestDrainPropagatesAcrossSharedEdge(t *testing.T) {
	a := catalog.TileDef{
		ID:   "a",
		File: "a.png",
		Edges: [catalog.NumDirections][]catalog.EdgeRule{
			catalog.E: {{Key: "path", Weight: 1}},
		},
	}
	b := catalog.TileDef{
		ID:   "b",
		File: "b.png",
		Edges: [catalog.NumDirections][]catalog.EdgeRule{
			catalog.W: {{Key: "path", Weight: 1}},
		},
	}
	variants, err := catalog.Prepare([]catalog.TileDef{a, b}, false)
	require.NoError(t, err)
	table := compat.Build(variants)

	d := domain.New(2, 1, len(variants))
	d.RestrictToOne(0, 0)
	q := domain.NewQueue(d.NumCells())
	q.Push(0)

	p := New(len(variants), d.NumCells())
	stats, err := p.Drain(d, q, table)
	require.NoError(t, err)

	require.True(t, d.Collapsed(1))
	require.True(t, d.Cell(1).Get(1))
	require.Equal(t, 2, stats.Propagations)
	require.Equal(t, 1, stats.CellsTouched)
	require.Equal(t, 1, stats.OptionsEliminated)
	require.Equal(t, 1, stats.MaxEntropyDrop)
	require.Equal(t, 0, q.Len())
}

func TestDrainDetectsContradiction(t *testing.T) {
	a := tileAllSides("a", "x")
	b := tileAllSides("b", "y")
	variants, err := catalog.Prepare([]catalog.TileDef{a, b}, false)
	require.NoError(t, err)
	table := compat.Build(variants)

	d := domain.New(2, 1, len(variants))
	d.RestrictToOne(0, 0)
	d.RestrictToOne(1, 1)
	q := domain.NewQueue(d.NumCells())
	q.Push(0)

	p := New(len(variants), d.NumCells())
	_, err = p.Drain(d, q, table)
	require.Error(t, err)

	var ce *ContradictionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 1, ce.Cell)
}

func TestDrainSkipsUnchangedCells(t *testing.T) {
	a := tileAllSides("a", "x")
	variants, err := catalog.Prepare([]catalog.TileDef{a}, false)
	require.NoError(t, err)
	table := compat.Build(variants)

	d := domain.New(1, 1, len(variants))
	q := domain.NewQueue(d.NumCells())

	// Nothing changed since construction: NeedsPropagation is false, so a
	// pushed-but-stale cell is popped and skipped without touching anything.
	q.Push(0)
	p := New(len(variants), d.NumCells())
	stats, err := p.Drain(d, q, table)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Propagations)
	require.Equal(t, 0, stats.CellsTouched)
}
