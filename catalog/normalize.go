package catalog

import (
	"strconv"
	"strings"

	"github.com/minio/highwayhash"
)

// dedupeHashKey is a fixed, process-independent HighwayHash key so the
// dedupe fingerprint below is reproducible across runs and machines —
// required for spec.md §8's byte-identical-determinism property. It is
// not a secret; it only needs to be stable.
var dedupeHashKey = []byte("wfcgen-catalog-dedupe-key-000001")

// NormalizeTileDef trims/lowercases edge keys, drops empty-key rules, and
// coerces non-positive weights to 1, exactly as spec.md §6 describes for
// catalog ingest. It is idempotent: NormalizeTileDef(NormalizeTileDef(x))
// == NormalizeTileDef(x) (spec.md §8).
func NormalizeTileDef(t TileDef) TileDef {
	out := TileDef{
		ID:     t.ID,
		File:   filepath(t.File),
		Weight: coerceWeight(t.Weight),
	}
	for d := Direction(0); d < NumDirections; d++ {
		out.Edges[d] = normalizeEdgeList(t.Edges[d])
	}
	return out
}

func coerceWeight(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

// filepath forward-slash-normalizes a relative file reference (spec.md §6:
// "file: forward-slash-normalized relative path").
func filepath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func normalizeEdgeList(rules []EdgeRule) []EdgeRule {
	out := make([]EdgeRule, 0, len(rules))
	for _, r := range rules {
		key := normalizeKey(r.Key)
		if key == "" {
			continue
		}
		out = append(out, EdgeRule{Key: key, Weight: coerceWeight(r.Weight)})
	}
	return out
}

// dedupeFingerprint hashes the tuple (file, n-edges, e-edges, s-edges,
// w-edges), stringified in that order, to a 64-bit key via HighwayHash
// (spec.md §4.1). Collisions are astronomically unlikely for any
// realistic catalog size, and a collision here only ever causes two
// variants to be treated as duplicates of each other — never a silent
// correctness issue in the compatibility/domain math, which consumes the
// resulting Variant slice, not the hash. Prepare also stores the
// fingerprint on each Variant (dedupeHash); nothing else reads it.
func dedupeFingerprint(file string, edges [NumDirections][]EdgeRule) uint64 {
	var b strings.Builder
	b.WriteString(file)
	for d := Direction(0); d < NumDirections; d++ {
		b.WriteByte('|')
		for i, r := range edges[d] {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(r.Key)
			b.WriteByte(':')
			b.WriteString(strconv.FormatFloat(r.Weight, 'g', -1, 64))
		}
	}
	return highwayhash.Sum64([]byte(b.String()), dedupeHashKey)
}

// rotateEdgesCW returns the edge lists after one 90deg clockwise rotation:
// the new N side is the old W side, new E is old N, new S is old E, new W
// is old S (spec.md §3's edge rotation rule).
func rotateEdgesCW(edges [NumDirections][]EdgeRule) [NumDirections][]EdgeRule {
	var out [NumDirections][]EdgeRule
	out[N] = edges[W]
	out[E] = edges[N]
	out[S] = edges[E]
	out[W] = edges[S]
	return out
}

// Prepare expands base tile definitions into the ordered Variant list that
// defines every bit position downstream (spec.md §4.1). When allowRotate
// is false, each TileDef yields exactly its rotation-0 Variant. When true,
// all four 90deg-clockwise rotations are generated, but variants whose
// (file, edges-tuple) fingerprint has already been seen are suppressed —
// earliest occurrence wins, and variants otherwise keep first-generated
// order (spec.md §4.1: "Ordering is stable").
func Prepare(tiles []TileDef, allowRotate bool) ([]Variant, error) {
	seen := make(map[uint64]struct{}, len(tiles)*4)
	ids := make(map[string]struct{}, len(tiles))
	variants := make([]Variant, 0, len(tiles)*4)

	rotations := 1
	if allowRotate {
		rotations = NumDirections
	}

	for _, raw := range tiles {
		t := NormalizeTileDef(raw)
		if t.ID == "" {
			return nil, &ErrInvalidTile{Reason: "empty id"}
		}
		if _, dup := ids[t.ID]; dup {
			return nil, &ErrInvalidTile{ID: t.ID, Reason: "duplicate id"}
		}
		ids[t.ID] = struct{}{}

		edges := t.Edges
		for rot := 0; rot < rotations; rot++ {
			fp := dedupeFingerprint(t.File, edges)
			if _, dup := seen[fp]; dup {
				edges = rotateEdgesCW(edges)
				continue
			}
			seen[fp] = struct{}{}

			v := Variant{
				TileID:     t.ID,
				File:       t.File,
				Weight:     t.Weight,
				Rotation:   rot,
				Edges:      edges,
				dedupeHash: fp,
			}
			v.buildKeyMaps()
			variants = append(variants, v)

			edges = rotateEdgesCW(edges)
		}
	}

	if len(variants) == 0 {
		return nil, &ErrEmptyCatalog{}
	}
	return variants, nil
}
