// Package loader reads the persisted JSON tileset catalog format (spec.md
// §6) from disk and normalizes it into catalog.TileDef values. It is the
// thin external-collaborator shell spec.md §1 carves out of the engine's
// scope: malformed or wrong-version files are archived, never surfaced as
// a hard failure to the caller (spec.md §7).
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/creachadair/atomicfile"
	"github.com/pkg/errors"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/libs/log"
)

const expectedVersion = 2

type wireCatalog struct {
	Meta struct {
		Version  int `json:"version"`
		TileSize int `json:"tileSize"`
	} `json:"meta"`
	Tiles []wireTile `json:"tiles"`
}

type wireTile struct {
	ID     string                    `json:"id"`
	File   string                    `json:"file"`
	Weight float64                   `json:"weight"`
	Edges  map[string][]wireEdgeRule `json:"edges"`
}

type wireEdgeRule struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
}

var sideKeys = map[string]catalog.Direction{
	"n": catalog.N,
	"e": catalog.E,
	"s": catalog.S,
	"w": catalog.W,
}

// ErrArchived is returned (alongside a nil, empty catalog) when the file
// failed to parse as a version-2 catalog and was archived instead. It is
// informational, not fatal: callers should proceed with an empty catalog
// rather than treat it as an operational failure (spec.md §7).
type ErrArchived struct {
	Path        string
	ArchivePath string
	Reason      string
}

func (e *ErrArchived) Error() string {
	return fmt.Sprintf("loader: %s is not a valid catalog (%s); archived to %s", e.Path, e.Reason, e.ArchivePath)
}

// Load reads and normalizes the catalog at path. On success it returns the
// raw TileDefs (not yet run through catalog.Prepare — callers choose
// allowRotate). On a format problem it archives the original file and
// returns (nil, *ErrArchived). Any other returned error is a genuine
// operational failure (the file could not be read at all).
func Load(path string, logger log.Logger) ([]catalog.TileDef, error) {
	if logger == nil {
		logger = log.NopLogger()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: reading %s", path)
	}

	var wc wireCatalog
	if err := json.Unmarshal(raw, &wc); err != nil {
		return nil, archive(path, raw, "malformed json", logger)
	}
	if wc.Meta.Version != expectedVersion {
		return nil, archive(path, raw, fmt.Sprintf("unsupported meta.version %d", wc.Meta.Version), logger)
	}

	tiles := make([]catalog.TileDef, 0, len(wc.Tiles))
	for _, wt := range wc.Tiles {
		if wt.ID == "" {
			continue
		}
		var def catalog.TileDef
		def.ID = wt.ID
		def.File = wt.File
		def.Weight = wt.Weight
		for side, dir := range sideKeys {
			for _, r := range wt.Edges[side] {
				def.Edges[dir] = append(def.Edges[dir], catalog.EdgeRule{Key: r.Key, Weight: r.Weight})
			}
		}
		tiles = append(tiles, catalog.NormalizeTileDef(def))
	}
	return tiles, nil
}

// archive renames the bad file aside with a timestamped suffix via an
// atomic write-then-remove, so a concurrent reader never observes a
// half-written archive (spec.md §7).
func archive(path string, raw []byte, reason string, logger log.Logger) error {
	archivePath := fmt.Sprintf("%s.bad-%s", path, time.Now().UTC().Format("20060102T150405Z"))
	if err := atomicfile.WriteFile(archivePath, raw, 0o644); err != nil {
		return errors.Wrapf(err, "loader: archiving %s", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Error("loader: failed to remove bad catalog after archiving", "path", path, "err", err)
	}
	logger.Info("loader: archived invalid catalog", "path", path, "archivePath", archivePath, "reason", reason)
	return &ErrArchived{Path: path, ArchivePath: archivePath, Reason: reason}
}
