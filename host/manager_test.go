package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInitMessage() InitMessage {
	edges := map[string][]EdgeRuleJSON{
		"n": {{Key: "x", Weight: 1}},
		"e": {{Key: "x", Weight: 1}},
		"s": {{Key: "x", Weight: 1}},
		"w": {{Key: "x", Weight: 1}},
	}
	return InitMessage{
		GridW: 4,
		GridH: 4,
		Tiles: []TileDefJSON{
			{ID: "a", File: "a.png", Weight: 1, Edges: edges},
			{ID: "b", File: "b.png", Weight: 1, Edges: edges},
		},
	}
}

func TestManagerCreateBuildsAndRegistersASession(t *testing.T) {
	mgr, err := NewManager(8, nil, nil)
	require.NoError(t, err)

	id, sess, err := mgr.Create(validInitMessage())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NotNil(t, sess)

	got, ok := mgr.Get(id)
	assert.True(t, ok)
	assert.Same(t, sess, got)
}

// TestManagerCreateSurfacesPersistentBuildFailures checks that an init
// message with a zero-sized grid (buildEngine fails deterministically) still
// surfaces an error once Respawn exhausts its retries, rather than hanging
// or panicking.
func TestManagerCreateSurfacesPersistentBuildFailures(t *testing.T) {
	mgr, err := NewManager(8, nil, nil)
	require.NoError(t, err)

	init := validInitMessage()
	init.GridW = 0
	init.GridH = 0

	_, _, err = mgr.Create(init)
	assert.Error(t, err)
}

func TestManagerReinitializeSwapsTheEngineInPlace(t *testing.T) {
	mgr, err := NewManager(8, nil, nil)
	require.NoError(t, err)

	id, sess, err := mgr.Create(validInitMessage())
	require.NoError(t, err)

	err = mgr.Reinitialize(id, validInitMessage())
	require.NoError(t, err)

	got, ok := mgr.Get(id)
	require.True(t, ok)
	assert.Same(t, sess, got)
}
