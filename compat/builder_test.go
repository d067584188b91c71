package compat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wfcgen/wfcgen/catalog"
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

func TestBuildSelfCompatible(t *testing.T) {
	variants, err := catalog.Prepare([]catalog.TileDef{tileAllSides("a", "x")}, false)
	require.NoError(t, err)
	table := Build(variants)
	require.True(t, table.Row(catalog.N, 0).Get(0))
	require.True(t, table.Symmetric())
}

func TestBuildIncompatiblePair(t *testing.T) {
	a := tileAllSides("a", "x")
	b := tileAllSides("b", "y")
	variants, err := catalog.Prepare([]catalog.TileDef{a, b}, false)
	require.NoError(t, err)
	table := Build(variants)
	for d := catalog.Direction(0); d < catalog.NumDirections; d++ {
		require.False(t, table.Row(d, 0).Get(1))
		require.False(t, table.Row(d, 1).Get(0))
	}
	require.True(t, table.Symmetric())
}

func TestBuildSharedKeyAcrossTiles(t *testing.T) {
	// A and B share the "path" key on A's E side / B's W side, so B may
	// sit to A's east, and (by symmetry) A may sit to B's west.
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
	table := Build(variants)
	require.True(t, table.Row(catalog.E, 0).Get(1))
	require.True(t, table.Row(catalog.W, 1).Get(0))
	require.False(t, table.Row(catalog.N, 0).Get(1))
	require.True(t, table.Symmetric())
}
