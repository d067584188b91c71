package macro

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/domain"
	"github.com/wfcgen/wfcgen/rng"
)

func grassyTile(id string) catalog.TileDef {
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

func TestSeedNeverEmptiesADomain(t *testing.T) {
	variants, err := catalog.Prepare([]catalog.TileDef{grassyTile("grass"), grassyTile("sand")}, false)
	require.NoError(t, err)

	cfg := Config{Continents: 20, RMinFrac: 0.2, RMaxFrac: 0.6, GrassChar: 'g', CoreMinCount: 1, RimMinCount: 0}
	seeder := New(variants, cfg)

	d := domain.New(8, 8, len(variants))
	q := domain.NewQueue(d.NumCells())
	r := rng.NewSource(12345)

	seeder.Seed(d, q, r)

	for c := 0; c < d.NumCells(); c++ {
		require.False(t, d.IsEmpty(c))
	}
}

func TestSeedWithZeroCoreThresholdIsNoop(t *testing.T) {
	// CoreMinCount=0 makes every variant's count >= threshold, so
	// coreMask covers every bit: intersecting with "all variants" never
	// changes anything (spec.md §8 scenario 4).
	variants, err := catalog.Prepare([]catalog.TileDef{grassyTile("a"), grassyTile("b")}, false)
	require.NoError(t, err)

	cfg := Config{Continents: 10, RMinFrac: 0.3, RMaxFrac: 0.9, GrassChar: 'g', CoreMinCount: 0, RimMinCount: 0}
	seeder := New(variants, cfg)

	d := domain.New(6, 6, len(variants))
	q := domain.NewQueue(d.NumCells())
	r := rng.NewSource(999)

	seeder.Seed(d, q, r)

	for c := 0; c < d.NumCells(); c++ {
		require.Equal(t, len(variants), d.PopCount(c))
	}
	require.Equal(t, 0, q.Len())
}

func TestSeedEnqueuesOnlyChangedCells(t *testing.T) {
	variants, err := catalog.Prepare([]catalog.TileDef{grassyTile("grass"), grassyTile("rock")}, false)
	require.NoError(t, err)

	cfg := Config{Continents: 1, RMinFrac: 0.9, RMaxFrac: 0.9, GrassChar: 'g', CoreMinCount: 1, RimMinCount: 1}
	seeder := New(variants, cfg)

	d := domain.New(4, 4, len(variants))
	q := domain.NewQueue(d.NumCells())
	r := rng.NewSource(42)

	seeder.Seed(d, q, r)

	for q.Len() > 0 {
		c, _ := q.Pop()
		require.Less(t, d.PopCount(c), len(variants))
	}
}
