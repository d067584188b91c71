package catalog

// Variant is a concrete placeable unit: a TileDef together with a fixed
// rotation (spec.md §3, GLOSSARY). Its index in the slice returned by
// Prepare is the bit position used by every compatibility/domain bitset in
// the rest of the engine, so that ordering is part of the engine's
// observable identity (spec.md §4.1).
type Variant struct {
	TileID     string
	File       string
	Weight     float64
	Rotation   int // 0..3, 90deg clockwise steps
	Edges      [NumDirections][]EdgeRule
	KeyMaps    [NumDirections]EdgeKeyMap
	dedupeHash uint64
}

// buildKeyMaps derives the per-side EdgeKeyMap from v.Edges: for each side,
// the map holds the maximum rule weight seen for each distinct key
// (spec.md §3; also spec.md §9's open question on same-key/different-weight
// rules, resolved here as "record the maximum").
func (v *Variant) buildKeyMaps() {
	for d := Direction(0); d < NumDirections; d++ {
		m := make(EdgeKeyMap, len(v.Edges[d]))
		for _, rule := range v.Edges[d] {
			if cur, ok := m[rule.Key]; !ok || rule.Weight > cur {
				m[rule.Key] = rule.Weight
			}
		}
		v.KeyMaps[d] = m
	}
}

// Compatible reports whether a variant whose side d is 'from' may have a
// neighbor whose opposite side is 'to' sitting on its d-side: their key
// sets must intersect (spec.md §4.2). An empty key set on either side is
// always incompatible.
func Compatible(from, to EdgeKeyMap) bool {
	if len(from) == 0 || len(to) == 0 {
		return false
	}
	// Iterate the smaller map for a cheap intersection test.
	small, big := from, to
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if _, ok := big[k]; ok {
			return true
		}
	}
	return false
}
