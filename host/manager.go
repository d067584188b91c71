package host

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/engine"
	"github.com/wfcgen/wfcgen/libs/log"
	"github.com/wfcgen/wfcgen/macro"
	"github.com/wfcgen/wfcgen/metrics"
)

var sideKeys = map[string]catalog.Direction{
	"n": catalog.N,
	"e": catalog.E,
	"s": catalog.S,
	"w": catalog.W,
}

// maxBuildRetries bounds how many times Create/Reinitialize retry a failed
// buildEngine before giving up, the same bounded-retry shape as the
// teacher's RetrySignerClient.
const maxBuildRetries = 3

// Manager owns every live Session, keyed by a generated session ID. Entries
// evict on an LRU basis once the cache is full, bounding how many
// abandoned (never-closed) sessions a long-lived process can accumulate.
type Manager struct {
	sessions *lru.Cache[string, *Session]
	logger   log.Logger
	metrics  metrics.Recorder
}

// NewManager returns a Manager holding at most capacity concurrent
// sessions.
func NewManager(capacity int, logger log.Logger, rec metrics.Recorder) (*Manager, error) {
	if logger == nil {
		logger = log.NopLogger()
	}
	if rec == nil {
		rec = metrics.NopRecorder()
	}
	cache, err := lru.NewWithEvict[string, *Session](capacity, func(id string, _ *Session) {
		logger.Info("session evicted", "id", id)
	})
	if err != nil {
		return nil, fmt.Errorf("host: building session cache: %w", err)
	}
	return &Manager{sessions: cache, logger: logger, metrics: rec}, nil
}

// Create builds a new Engine from an InitMessage and registers it under a
// fresh session ID (spec.md §6's `init` message). Engine construction is
// retried under Respawn so a transient catalog-prepare failure doesn't
// sink the whole session on the first attempt.
func (m *Manager) Create(init InitMessage) (string, *Session, error) {
	var eng *engine.Engine
	err := Respawn(func() error {
		e, buildErr := m.buildEngine(init)
		if buildErr != nil {
			return buildErr
		}
		eng = e
		return nil
	}, maxBuildRetries, m.logger)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	sess := NewSession(eng, m.logger.With("session", id))
	m.sessions.Add(id, sess)
	return id, sess, nil
}

// Reinitialize rebuilds id's engine in place from a new InitMessage,
// preserving the Session (and its websocket connection) across the swap.
func (m *Manager) Reinitialize(id string, init InitMessage) error {
	sess, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("host: unknown session %q", id)
	}
	var eng *engine.Engine
	err := Respawn(func() error {
		e, buildErr := m.buildEngine(init)
		if buildErr != nil {
			return buildErr
		}
		eng = e
		return nil
	}, maxBuildRetries, m.logger)
	if err != nil {
		return err
	}
	sess.Reinitialize(eng)
	return nil
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	return m.sessions.Get(id)
}

// Close drops a session, freeing its engine for garbage collection.
func (m *Manager) Close(id string) {
	m.sessions.Remove(id)
}

func (m *Manager) buildEngine(init InitMessage) (*engine.Engine, error) {
	defs := make([]catalog.TileDef, 0, len(init.Tiles))
	for _, t := range init.Tiles {
		var def catalog.TileDef
		def.ID = t.ID
		def.File = t.File
		def.Weight = t.Weight
		for side, dir := range sideKeys {
			for _, r := range t.Edges[side] {
				def.Edges[dir] = append(def.Edges[dir], catalog.EdgeRule{Key: r.Key, Weight: r.Weight})
			}
		}
		defs = append(defs, catalog.NormalizeTileDef(def))
	}

	allowRotate := false // spec.md §6's init message carries no rotate flag; rotation is a catalog-prep-time choice
	variants, err := catalog.Prepare(defs, allowRotate)
	if err != nil {
		return nil, fmt.Errorf("host: preparing catalog: %w", err)
	}

	var macroCfg *macro.Config
	if init.Opts.MacroGrass != nil && *init.Opts.MacroGrass {
		cfg := macro.DefaultConfig()
		macroCfg = &cfg
	}

	return engine.New(variants, engine.Config{
		GridW:       init.GridW,
		GridH:       init.GridH,
		Seed:        init.Opts.Seed,
		MaxRestarts: init.Opts.MaxRestarts,
		Macro:       macroCfg,
		Logger:      m.logger,
		Metrics:     m.metrics,
	})
}
