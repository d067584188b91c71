// Package host implements the external, non-engine shell spec.md §1 calls
// out as a thin collaborator: a websocket transport carrying the
// Host<->Engine message protocol of spec.md §6, a session manager, and a
// read-only introspection surface. None of it is "the hard part" — the
// engine package is — but it is how a real process drives one.
package host

import "github.com/wfcgen/wfcgen/engine"

// Mode mirrors the engine's lifecycle states (spec.md §9: "a small state
// machine with explicit modes ... to mirror the engine's states").
type Mode string

const (
	ModePaused   Mode = "paused"
	ModeRunning  Mode = "running"
	ModeStepping Mode = "stepping"
	ModeDone     Mode = "done"
	ModeError    Mode = "error"
)

// InitOpts is the `opts` object of the `init` host->engine message
// (spec.md §6).
type InitOpts struct {
	Seed        uint32 `json:"seed"`
	MaxRestarts int    `json:"maxRestarts"`
	MacroGrass  *bool  `json:"macroGrass,omitempty"`
}

// InitMessage is host->engine `init{tiles, gridW, gridH, opts}`.
type InitMessage struct {
	Tiles []TileDefJSON `json:"tiles"`
	GridW int           `json:"gridW"`
	GridH int           `json:"gridH"`
	Opts  InitOpts      `json:"opts"`
}

// TileDefJSON mirrors catalog.TileDef's wire shape (spec.md §6).
type TileDefJSON struct {
	ID     string                    `json:"id"`
	File   string                    `json:"file"`
	Weight float64                   `json:"weight"`
	Edges  map[string][]EdgeRuleJSON `json:"edges"`
}

// EdgeRuleJSON mirrors catalog.EdgeRule's wire shape.
type EdgeRuleJSON struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
}

// StepMessage is host->engine `step{collapses?=1}`.
type StepMessage struct {
	Collapses int `json:"collapses"`
}

// StateMessage is engine->host `state{...}`.
type StateMessage struct {
	Mode            Mode   `json:"mode"`
	TargetCollapses int    `json:"targetCollapses,omitempty"`
	Message         string `json:"message,omitempty"`
}

// CollapsedTile is one entry of a BatchMessage's collapsed list.
type CollapsedTile struct {
	Cell int `json:"cell"`
	Tile int `json:"tile"`
}

// BatchStats is the `stats` object inside a BatchMessage.
type BatchStats struct {
	Collapsed int `json:"collapsed"`
	Cells     int `json:"cells"`
	Variants  int `json:"variants"`
	QueueSize int `json:"queueSize"`
	Remaining int `json:"remaining"`
}

// BatchMessage is engine->host `batch{collapsed, stats}`.
type BatchMessage struct {
	Collapsed []CollapsedTile `json:"collapsed"`
	Stats     BatchStats      `json:"stats"`
}

// ProgressMessage is engine->host `progress{diag, stats?}`.
type ProgressMessage struct {
	Diag  engine.Event `json:"diag"`
	Stats *BatchStats  `json:"stats,omitempty"`
}

// ErrorMessage is engine->host `error{message}`.
type ErrorMessage struct {
	Message string `json:"message"`
}
