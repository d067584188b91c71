// Package engine wires the Catalog, Compatibility, Domain, Propagator,
// Collapser, Macro Seeder, and Restart Controller into the Stepper of
// spec.md §4.7: a single-threaded, budgeted step(maxCollapses) function
// that a host drives in short bursts and that never blocks internally.
package engine

import (
	"errors"
	"fmt"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/collapse"
	"github.com/wfcgen/wfcgen/compat"
	"github.com/wfcgen/wfcgen/domain"
	"github.com/wfcgen/wfcgen/libs/log"
	"github.com/wfcgen/wfcgen/macro"
	"github.com/wfcgen/wfcgen/metrics"
	"github.com/wfcgen/wfcgen/propagate"
	"github.com/wfcgen/wfcgen/restart"
	"github.com/wfcgen/wfcgen/rng"
)

// Config configures one generation session (spec.md §3, §6: the `init`
// message's opts).
type Config struct {
	GridW, GridH    int
	Seed            uint32
	MaxRestarts     int
	Macro           *macro.Config // nil disables macro seeding
	ReseedOnRestart bool
	Logger          log.Logger
	Metrics         metrics.Recorder
}

// Engine holds every piece of mutable generation state for one session.
// It is not safe for concurrent use: spec.md §5 places all concurrency at
// the host boundary, never inside the engine.
type Engine struct {
	variants []catalog.Variant
	table    *compat.Table

	dom   *domain.Domain
	queue *domain.Queue

	prop      *propagate.Propagator
	collapser *collapse.Collapser
	seeder    *macro.Seeder
	restartC  *restart.Controller
	rngSrc    *rng.Source

	log     log.Logger
	metrics metrics.Recorder

	maxRestarts int
	terminal    bool
	events      []Event // reused across Step calls (spec.md §9)
}

// New constructs an Engine over variants for the grid and options in cfg.
// Catalog and Compatibility are built once here and are immutable for the
// lifetime of the Engine (spec.md §3).
func New(variants []catalog.Variant, cfg Config) (*Engine, error) {
	if cfg.GridW <= 0 || cfg.GridH <= 0 {
		return nil, &ErrInvalidConfig{Reason: fmt.Sprintf("grid dimensions must be positive, got %dx%d", cfg.GridW, cfg.GridH)}
	}
	if len(variants) == 0 {
		return nil, &ErrInvalidConfig{Reason: "catalog has no variants"}
	}
	if cfg.MaxRestarts < 0 {
		return nil, &ErrInvalidConfig{Reason: "maxRestarts must be >= 0"}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NopLogger()
	}
	rec := cfg.Metrics
	if rec == nil {
		rec = metrics.NopRecorder()
	}

	table := compat.Build(variants)
	dom := domain.New(cfg.GridW, cfg.GridH, len(variants))
	queue := domain.NewQueue(dom.NumCells())
	rngSrc := rng.NewSource(cfg.Seed)

	var seeder *macro.Seeder
	if cfg.Macro != nil {
		seeder = macro.New(variants, *cfg.Macro)
	}

	e := &Engine{
		variants:    variants,
		table:       table,
		dom:         dom,
		queue:       queue,
		prop:        propagate.New(len(variants), dom.NumCells()),
		collapser:   collapse.New(variants),
		seeder:      seeder,
		restartC:    restart.New(restart.Config{MaxRestarts: cfg.MaxRestarts, Seed: cfg.Seed, ReseedOnRestart: cfg.ReseedOnRestart}, seeder),
		rngSrc:      rngSrc,
		log:         logger,
		metrics:     rec,
		maxRestarts: cfg.MaxRestarts,
		events:      make([]Event, 0, 64),
	}

	if seeder != nil {
		seeder.Seed(dom, queue, rngSrc)
	}
	return e, nil
}

// NumCells returns the grid's cell count.
func (e *Engine) NumCells() int { return e.dom.NumCells() }

// NumVariants returns the catalog size the engine was built over.
func (e *Engine) NumVariants() int { return len(e.variants) }

// Terminal reports whether the session has reached `done` or `error` and
// will no longer make progress (spec.md §7).
func (e *Engine) Terminal() bool { return e.terminal }

// QueueSize returns the propagation queue's current length, for host-side
// batch/progress stats (spec.md §6).
func (e *Engine) QueueSize() int { return e.queue.Len() }

// Remaining returns the number of cells not yet collapsed to a single
// variant, for host-side batch/progress stats (spec.md §6).
func (e *Engine) Remaining() int { return e.remainingCount() }

// CollapsedCount returns the number of cells currently collapsed.
func (e *Engine) CollapsedCount() int { return e.NumCells() - e.remainingCount() }

// TileOf returns cell c's surviving variant index, or -1 if c has not
// (yet) collapsed to exactly one.
func (e *Engine) TileOf(c int) int {
	if !e.dom.Collapsed(c) {
		return -1
	}
	return e.dom.Cell(c).FirstSet()
}

// Step performs, in order: a full propagation drain, then up to
// maxCollapses collapse-then-drain cycles, returning the event sequence
// produced (spec.md §4.7). Once the session is terminal, Step is a no-op
// returning an empty slice (spec.md §7, §8 scenario 6).
func (e *Engine) Step(maxCollapses int) []Event {
	e.events = e.events[:0]
	if e.terminal {
		return e.events
	}

	if !e.drainOrRestart() {
		return e.events
	}

	for i := 0; i < maxCollapses; i++ {
		cell, ok := e.collapser.SelectCell(e.dom, e.rngSrc)
		if !ok {
			e.terminal = true
			e.events = append(e.events, Event{Kind: KindDone})
			return e.events
		}

		tile := e.collapser.SelectAndCollapse(e.dom, cell, e.rngSrc)
		e.metrics.CollapseTotal()
		e.queue.Push(cell)
		e.events = append(e.events, Event{Kind: KindCollapse, Cell: cell, Tile: tile})

		if !e.drainOrRestart() {
			return e.events
		}
	}
	return e.events
}

// drainOrRestart drains the propagation queue, handling contradictions via
// the Restart Controller until either the queue empties cleanly or the
// restart cap is exceeded. It returns false once the session has gone
// terminal, in which case the terminal event has already been appended.
func (e *Engine) drainOrRestart() bool {
	for {
		e.metrics.QueueDepth(e.queue.Len())
		stats, err := e.prop.Drain(e.dom, e.queue, e.table)
		if stats.Propagations > 0 {
			e.metrics.PropagationsObserved(stats.Propagations)
			e.events = append(e.events, Event{
				Kind:              KindProgress,
				Propagations:      stats.Propagations,
				CellsTouched:      stats.CellsTouched,
				OptionsEliminated: stats.OptionsEliminated,
				MaxEntropyDrop:    stats.MaxEntropyDrop,
				QueueSize:         e.queue.Len(),
				Remaining:         e.remainingCount(),
			})
		}
		if err == nil {
			return true
		}

		var ce *propagate.ContradictionError
		if !errors.As(err, &ce) {
			e.terminal = true
			e.events = append(e.events, Event{Kind: KindError, Message: err.Error()})
			return false
		}

		if !e.restartC.HandleContradiction(e.dom, e.queue, e.rngSrc) {
			e.terminal = true
			e.discardEventsSinceLastBoundary()
			e.events = append(e.events, Event{
				Kind:    KindError,
				Message: fmt.Sprintf("contradiction persisted after %d restarts", e.maxRestarts),
			})
			e.log.Error("generation failed", "maxRestarts", e.maxRestarts)
			return false
		}

		e.metrics.RestartTotal()
		e.discardEventsSinceLastBoundary()
		e.events = append(e.events, Event{Kind: KindRestart, Attempt: e.restartC.Attempt()})
		e.log.Info("restart", "attempt", e.restartC.Attempt(), "cell", ce.Cell)
	}
}

// discardEventsSinceLastBoundary drops every event emitted since the last
// restart/done/error in the current Step call: a restart invalidates any
// collapse (and progress) events that preceded it (spec.md §4.7).
func (e *Engine) discardEventsSinceLastBoundary() {
	for i := len(e.events) - 1; i >= 0; i-- {
		switch e.events[i].Kind {
		case KindRestart, KindDone, KindError:
			e.events = e.events[:i+1]
			return
		}
	}
	e.events = e.events[:0]
}

func (e *Engine) remainingCount() int {
	n := 0
	for c := 0; c < e.dom.NumCells(); c++ {
		if !e.dom.Collapsed(c) {
			n++
		}
	}
	return n
}
