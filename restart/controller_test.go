package restart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/domain"
	"github.com/wfcgen/wfcgen/macro"
	"github.com/wfcgen/wfcgen/rng"
)

func tile(id string) catalog.TileDef {
	return catalog.TileDef{
		ID:     id,
		File:   id + ".png",
		Weight: 1,
		Edges: [catalog.NumDirections][]catalog.EdgeRule{
			catalog.N: {{Key: "x", Weight: 1}},
			catalog.E: {{Key: "x", Weight: 1}},
			catalog.S: {{Key: "x", Weight: 1}},
			catalog.W: {{Key: "x", Weight: 1}},
		},
	}
}

func TestHandleContradictionResetsDomainAndQueue(t *testing.T) {
	variants, err := catalog.Prepare([]catalog.TileDef{tile("a"), tile("b")}, false)
	require.NoError(t, err)

	d := domain.New(3, 3, len(variants))
	d.RestrictToOne(0, 0)
	q := domain.NewQueue(d.NumCells())
	q.Push(4)

	c := New(Config{MaxRestarts: 3, Seed: 1}, nil)
	r := rng.NewSource(1)
	ok := c.HandleContradiction(d, q, r)
	require.True(t, ok)
	require.Equal(t, 1, c.Attempt())
	require.False(t, c.Exhausted())
	require.Equal(t, 0, q.Len())
	for cell := 0; cell < d.NumCells(); cell++ {
		require.Equal(t, len(variants), d.PopCount(cell))
	}
}

func TestHandleContradictionExhaustsCap(t *testing.T) {
	variants, err := catalog.Prepare([]catalog.TileDef{tile("a")}, false)
	require.NoError(t, err)
	d := domain.New(2, 2, len(variants))
	q := domain.NewQueue(d.NumCells())

	c := New(Config{MaxRestarts: 1, Seed: 1}, nil)
	r := rng.NewSource(1)

	require.True(t, c.HandleContradiction(d, q, r))
	require.False(t, c.Exhausted())

	require.False(t, c.HandleContradiction(d, q, r))
	require.True(t, c.Exhausted())
}

func TestHandleContradictionReapliesMacroSeeds(t *testing.T) {
	variants, err := catalog.Prepare([]catalog.TileDef{tile("grass"), tile("rock")}, false)
	require.NoError(t, err)
	seeder := macro.New(variants, macro.Config{
		Continents: 1, RMinFrac: 0.9, RMaxFrac: 0.9, GrassChar: 'g', CoreMinCount: 1, RimMinCount: 1,
	})

	d := domain.New(4, 4, len(variants))
	q := domain.NewQueue(d.NumCells())

	c := New(Config{MaxRestarts: 2, Seed: 42}, seeder)
	r := rng.NewSource(42)
	require.True(t, c.HandleContradiction(d, q, r))

	anyRestricted := false
	for cell := 0; cell < d.NumCells(); cell++ {
		if d.PopCount(cell) < len(variants) {
			anyRestricted = true
			break
		}
	}
	require.True(t, anyRestricted)
}

func TestReseedOnRestartChangesPRNGState(t *testing.T) {
	variants, err := catalog.Prepare([]catalog.TileDef{tile("a")}, false)
	require.NoError(t, err)
	d := domain.New(2, 2, len(variants))
	q := domain.NewQueue(d.NumCells())

	c := New(Config{MaxRestarts: 1, Seed: 7, ReseedOnRestart: true}, nil)
	r := rng.NewSource(7)
	beforeState := r.State()
	c.HandleContradiction(d, q, r)
	require.NotEqual(t, beforeState, r.State())
	require.Equal(t, rng.Mix(7, 1), r.State())
}
