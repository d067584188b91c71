// Package eventlog records every engine.Event emitted during a generation
// session, segmented by restart attempt, so a host can replay or dump the
// full history of a run. It is grounded on the teacher's
// internal/consensus/types.HeightVoteSet: a mutex-guarded, round-indexed
// store with a Reset method, here indexed by attempt instead of round.
package eventlog

import (
	"github.com/google/orderedcode"

	"github.com/wfcgen/wfcgen/engine"
	"github.com/wfcgen/wfcgen/libs/cmtsync"
)

// Entry pairs one engine.Event with its position in the replay order:
// (Attempt, Seq) is strictly increasing within an attempt and resets to
// (attempt, 0) whenever a restart event starts a new attempt.
type Entry struct {
	Attempt int
	Seq     int
	Event   engine.Event
}

// Log accumulates Entries for one generation session. Safe for concurrent
// use: the host's transport goroutine may append while a diagnostics route
// reads a snapshot.
type Log struct {
	mtx     cmtsync.Mutex
	entries []Entry
	attempt int
	seq     int
}

// New returns an empty Log.
func New() *Log {
	return &Log{}
}

// Append records ev under the log's current attempt/seq, advancing seq.
// A KindRestart event starts a fresh attempt segment at seq 0 using its
// own Attempt field, matching the Restart Controller's counting.
func (l *Log) Append(ev engine.Event) Entry {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if ev.Kind == engine.KindRestart {
		l.attempt = ev.Attempt
		l.seq = 0
	}
	entry := Entry{Attempt: l.attempt, Seq: l.seq, Event: ev}
	l.entries = append(l.entries, entry)
	l.seq++
	return entry
}

// AppendAll appends every event in evs in order, via Append.
func (l *Log) AppendAll(evs []engine.Event) {
	for _, ev := range evs {
		l.Append(ev)
	}
}

// Entries returns a snapshot copy of every recorded entry, in append order.
func (l *Log) Entries() []Entry {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset discards all recorded entries and restarts attempt/seq at zero —
// called when the host reinitializes the engine from scratch (spec.md §6's
// `init` message), as opposed to an in-session restart, which Append
// already segments.
func (l *Log) Reset() {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.entries = l.entries[:0]
	l.attempt = 0
	l.seq = 0
}

// OrderedKey encodes (e.Attempt, e.Seq) as a byte-comparable ordered key
// via google/orderedcode, so entries can be stored in or merged from any
// byte-sorted medium (a KV store, a sorted log file) and still replay in
// the original sequence.
func OrderedKey(e Entry) ([]byte, error) {
	return orderedcode.Append(nil, uint64(e.Attempt), uint64(e.Seq))
}
