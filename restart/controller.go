// Package restart implements the Restart Controller (spec.md §4.8):
// counting contradictions, resetting engine state on each one, and
// declaring the session terminally failed once the cap is exceeded.
package restart

import (
	"github.com/wfcgen/wfcgen/domain"
	"github.com/wfcgen/wfcgen/macro"
	"github.com/wfcgen/wfcgen/rng"
)

// Config controls restart behavior. ReseedOnRestart opts into deriving a
// fresh per-attempt PRNG state from (Seed, attempt) via rng.Mix instead of
// the spec's default of leaving the PRNG untouched (spec.md §9).
type Config struct {
	MaxRestarts     int
	Seed            uint32
	ReseedOnRestart bool
}

// Controller tracks the attempt counter across a generation session.
type Controller struct {
	cfg     Config
	seeder  *macro.Seeder
	attempt int
}

// New builds a Controller for the given config and macro seeder. seeder
// may be nil if no macro bias is configured.
func New(cfg Config, seeder *macro.Seeder) *Controller {
	return &Controller{cfg: cfg, seeder: seeder}
}

// Attempt returns the number of contradictions handled so far this session.
func (c *Controller) Attempt() int { return c.attempt }

// Exhausted reports whether the restart cap has already been exceeded —
// callers must treat the session as terminally failed and stop calling
// HandleContradiction (spec.md §7: "Subsequent run/step in the same
// session are no-ops").
func (c *Controller) Exhausted() bool { return c.attempt > c.cfg.MaxRestarts }

// HandleContradiction increments the attempt counter and, if the cap is
// not exceeded, fully resets dom and q and reapplies macro seeds (spec.md
// §4.8). It returns ok=false when the cap has been exceeded, in which case
// no reset is performed and the caller must emit a terminal error.
func (c *Controller) HandleContradiction(dom *domain.Domain, q *domain.Queue, r *rng.Source) (ok bool) {
	c.attempt++
	if c.attempt > c.cfg.MaxRestarts {
		return false
	}

	dom.Reset()
	q.Reset()

	if c.cfg.ReseedOnRestart {
		r.Reseed(rng.Mix(c.cfg.Seed, c.attempt))
	}

	if c.seeder != nil {
		c.seeder.Seed(dom, q, r)
	}
	return true
}
