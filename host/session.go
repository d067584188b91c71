package host

import (
	"runtime"

	"github.com/wfcgen/wfcgen/engine"
	"github.com/wfcgen/wfcgen/eventlog"
	"github.com/wfcgen/wfcgen/libs/cmtsync"
	"github.com/wfcgen/wfcgen/libs/log"
)

// Session binds one engine.Engine to one client connection's command
// stream, translating its Step output into the wire messages of
// protocol.go and running the `run` command's chunked loop in the
// background (spec.md §9: "a small state machine with explicit modes").
//
// A Session is reinitializable in place: a second `init` message bumps
// generation and swaps in a fresh Engine without the caller needing a new
// Session or a new websocket connection.
type Session struct {
	mtx cmtsync.Mutex

	eng        *engine.Engine
	elog       *eventlog.Log
	mode       Mode
	generation uint64

	out    chan any
	logger log.Logger
}

// NewSession wraps eng in a paused Session. Send commands with Run, Pause,
// or Step; read outgoing protocol messages from Out.
func NewSession(eng *engine.Engine, logger log.Logger) *Session {
	if logger == nil {
		logger = log.NopLogger()
	}
	return &Session{
		eng:    eng,
		elog:   eventlog.New(),
		mode:   ModePaused,
		out:    make(chan any, 64),
		logger: logger,
	}
}

// Out is the stream of outgoing protocol messages (StateMessage,
// BatchMessage, ProgressMessage, ErrorMessage): the transport (server.go)
// forwards these to the client verbatim. There is no separate restart or
// done message: a restart arrives as a StateMessage with Mode running and
// Message "restart", and completion as a StateMessage with Mode done.
func (s *Session) Out() <-chan any { return s.out }

// Reinitialize swaps in a fresh engine, discarding the previous one's
// event log and invalidating any in-flight run loop (spec.md §6's `init`
// message may arrive again mid-session).
func (s *Session) Reinitialize(eng *engine.Engine) {
	s.mtx.Lock()
	s.generation++
	s.eng = eng
	s.elog.Reset()
	s.mode = ModePaused
	s.mtx.Unlock()

	s.emit(StateMessage{Mode: ModePaused})
}

// Run starts (or resumes) the chunked step(1) loop until the engine goes
// terminal or a Pause/Reinitialize supersedes it.
func (s *Session) Run() {
	s.mtx.Lock()
	if s.mode == ModeDone || s.mode == ModeError || s.mode == ModeRunning {
		s.mtx.Unlock()
		return
	}
	s.mode = ModeRunning
	gen := s.generation
	s.mtx.Unlock()

	s.emit(StateMessage{Mode: ModeRunning})
	go s.runLoop(gen)
}

func (s *Session) runLoop(gen uint64) {
	for {
		s.mtx.Lock()
		if s.generation != gen || s.mode != ModeRunning {
			s.mtx.Unlock()
			return
		}
		eng := s.eng
		s.mtx.Unlock()

		events := eng.Step(1)
		s.recordAndEmit(gen, eng, events)

		if eng.Terminal() {
			return
		}
		runtime.Gosched()
	}
}

// Pause stops the run loop after its current chunk; a Step or Run may
// follow.
func (s *Session) Pause() {
	s.mtx.Lock()
	if s.mode == ModeRunning {
		s.mode = ModePaused
	}
	s.mtx.Unlock()
	s.emit(StateMessage{Mode: ModePaused})
}

// Step performs exactly one synchronous engine.Step(collapses) call,
// emitting its events, then returns to paused. While the session is
// running, done, or in error, Step does nothing; it does not stop a
// running loop.
func (s *Session) Step(collapses int) {
	s.mtx.Lock()
	if s.mode == ModeDone || s.mode == ModeError || s.mode == ModeRunning {
		s.mtx.Unlock()
		return
	}
	s.mode = ModeStepping
	eng := s.eng
	gen := s.generation
	s.mtx.Unlock()

	s.emit(StateMessage{Mode: ModeStepping, TargetCollapses: collapses})

	events := eng.Step(collapses)
	s.recordAndEmit(gen, eng, events)

	s.mtx.Lock()
	terminal := s.mode == ModeDone || s.mode == ModeError
	if !terminal && s.generation == gen && s.mode == ModeStepping {
		s.mode = ModePaused
	}
	s.mtx.Unlock()

	if !terminal {
		s.emit(StateMessage{Mode: ModePaused})
	}
}

// recordAndEmit appends events to the session's eventlog and translates
// them into outgoing wire messages, batching consecutive `collapse`
// events into a single BatchMessage the way a websocket client expects
// (spec.md §6: "collapse events are delivered in batch, not one message
// per cell").
func (s *Session) recordAndEmit(gen uint64, eng *engine.Engine, events []engine.Event) {
	s.mtx.Lock()
	if s.generation != gen {
		s.mtx.Unlock()
		return
	}
	s.mtx.Unlock()

	var batch []CollapsedTile
	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.emit(BatchMessage{Collapsed: batch, Stats: s.statsFor(eng)})
		batch = nil
	}

	for _, ev := range events {
		s.elog.Append(ev)

		switch ev.Kind {
		case engine.KindCollapse:
			batch = append(batch, CollapsedTile{Cell: ev.Cell, Tile: ev.Tile})

		case engine.KindProgress:
			flush()
			stats := s.statsFor(eng)
			s.emit(ProgressMessage{Diag: ev, Stats: &stats})

		case engine.KindRestart:
			flush()
			s.emit(StateMessage{Mode: ModeRunning, Message: "restart"})
			s.logger.Info("session restart", "attempt", ev.Attempt)

		case engine.KindDone:
			flush()
			s.mtx.Lock()
			s.mode = ModeDone
			s.mtx.Unlock()
			s.emit(StateMessage{Mode: ModeDone})

		case engine.KindError:
			flush()
			s.mtx.Lock()
			s.mode = ModeError
			s.mtx.Unlock()
			s.emit(ErrorMessage{Message: ev.Message})
			s.logger.Error("session error", "message", ev.Message)
		}
	}
	flush()
}

func (s *Session) statsFor(eng *engine.Engine) BatchStats {
	return BatchStats{
		Collapsed: eng.CollapsedCount(),
		Cells:     eng.NumCells(),
		Variants:  eng.NumVariants(),
		QueueSize: eng.QueueSize(),
		Remaining: eng.Remaining(),
	}
}

// Mode reports the session's current lifecycle state.
func (s *Session) Mode() Mode {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.mode
}

// Entries returns a snapshot of every event recorded this session, for
// the replay/introspection routes.
func (s *Session) Entries() []eventlog.Entry {
	return s.elog.Entries()
}

func (s *Session) emit(msg any) {
	select {
	case s.out <- msg:
	default:
		s.logger.Error("session output channel full, dropping message")
	}
}
