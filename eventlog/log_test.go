package eventlog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wfcgen/wfcgen/engine"
)

func TestAppendSegmentsByAttempt(t *testing.T) {
	l := New()
	e1 := l.Append(engine.Event{Kind: engine.KindCollapse, Cell: 0, Tile: 0})
	e2 := l.Append(engine.Event{Kind: engine.KindCollapse, Cell: 1, Tile: 0})
	require.Equal(t, 0, e1.Attempt)
	require.Equal(t, 0, e1.Seq)
	require.Equal(t, 1, e2.Seq)

	e3 := l.Append(engine.Event{Kind: engine.KindRestart, Attempt: 1})
	require.Equal(t, 1, e3.Attempt)
	require.Equal(t, 0, e3.Seq)

	e4 := l.Append(engine.Event{Kind: engine.KindCollapse, Cell: 0, Tile: 1})
	require.Equal(t, 1, e4.Attempt)
	require.Equal(t, 1, e4.Seq)

	require.Len(t, l.Entries(), 4)
}

func TestResetClearsEntries(t *testing.T) {
	l := New()
	l.Append(engine.Event{Kind: engine.KindCollapse})
	l.Reset()
	require.Empty(t, l.Entries())
}

func TestOrderedKeyIsMonotonic(t *testing.T) {
	l := New()
	e1 := l.Append(engine.Event{Kind: engine.KindCollapse})
	e2 := l.Append(engine.Event{Kind: engine.KindCollapse})
	k1, err := OrderedKey(e1)
	require.NoError(t, err)
	k2, err := OrderedKey(e2)
	require.NoError(t, err)
	require.True(t, string(k1) < string(k2))
}
