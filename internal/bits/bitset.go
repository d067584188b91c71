// Package bits implements the packed, allocation-free bitsets the engine
// uses for per-cell tile domains and compatibility rows. It is adapted
// from the teacher's internal/bits.BitArray: that type is a general,
// dynamically-sized, mutex-guarded bit array built around a []uint64
// word slice it owns. Ours drops the mutex (domains are engine-private,
// never shared across goroutines — spec.md §5) and is a thin view over a
// caller-owned []uint32 slice, so the engine can lay out every cell's
// domain inside one contiguous arena instead of one allocation per cell,
// and so every operation below is allocation-free on the hot path
// (spec.md §9's "Design Notes").
package bits

import "math/bits"

// WordBits is the width of one packed word.
const WordBits = 32

// Words returns the number of 32-bit words needed to hold n bits.
func Words(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + WordBits - 1) / WordBits
}

// Set is a view over a slice of n bits packed into caller-owned words.
// The zero value is not usable; construct with NewSet.
type Set struct {
	Words []uint32
	N     int
}

// NewSet wraps words as a Set of n bits. len(words) must equal Words(n).
func NewSet(words []uint32, n int) Set {
	return Set{Words: words, N: n}
}

func (s Set) lastWordMask() uint32 {
	rem := s.N % WordBits
	if rem == 0 {
		return ^uint32(0)
	}
	return (uint32(1) << uint(rem)) - 1
}

// Mask zeroes any bits at index >= N living in the final word. Every
// mutating method below maintains this invariant already; Mask exists for
// callers that write directly into s.Words (e.g. copying a compatibility
// row) and then need to restore it. Spec.md §8: "Unused high bits of the
// last word never become 1 after any operation."
func (s Set) Mask() {
	if len(s.Words) == 0 {
		return
	}
	s.Words[len(s.Words)-1] &= s.lastWordMask()
}

// PopCount returns the number of set bits — the engine's entropy proxy.
func (s Set) PopCount() int {
	c := 0
	for _, w := range s.Words {
		c += bits.OnesCount32(w)
	}
	return c
}

// IsEmpty reports whether every word is zero.
func (s Set) IsEmpty() bool {
	for _, w := range s.Words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Get reports whether bit i is set. Undefined if i >= N.
func (s Set) Get(i int) bool {
	return s.Words[i/WordBits]&(uint32(1)<<uint(i%WordBits)) != 0
}

// SetBit sets bit i. Undefined if i >= N.
func (s Set) SetBit(i int) {
	s.Words[i/WordBits] |= uint32(1) << uint(i%WordBits)
}

// ClearBit clears bit i. Undefined if i >= N.
func (s Set) ClearBit(i int) {
	s.Words[i/WordBits] &^= uint32(1) << uint(i%WordBits)
}

// Fill sets every bit in [0, N) to 1.
func (s Set) Fill() {
	for i := range s.Words {
		s.Words[i] = ^uint32(0)
	}
	s.Mask()
}

// Clear sets every bit to 0.
func (s Set) Clear() {
	for i := range s.Words {
		s.Words[i] = 0
	}
}

// RestrictToOne zeroes every bit except bit i — the Collapser's core op.
func (s Set) RestrictToOne(i int) {
	s.Clear()
	s.SetBit(i)
}

// AndInPlace ANDs mask into s word-wise, returning whether any word
// changed. mask must have the same word count as s.
func (s Set) AndInPlace(mask Set) (changed bool) {
	for i := range s.Words {
		old := s.Words[i]
		nw := old & mask.Words[i]
		if nw != old {
			changed = true
		}
		s.Words[i] = nw
	}
	return changed
}

// OrInPlace ORs src into s word-wise. Used to accumulate the Propagator's
// per-direction "allowed" scratch buffers (spec.md §4.4 step 4).
func (s Set) OrInPlace(src Set) {
	for i := range s.Words {
		s.Words[i] |= src.Words[i]
	}
}

// CopyFrom overwrites s's words with src's.
func (s Set) CopyFrom(src Set) {
	copy(s.Words, src.Words)
}

// IntersectIfNonEmpty ANDs mask into s only if doing so would leave s
// non-empty; otherwise s is left untouched. This is the macro seeder's
// "non-emptying variant" intersect (spec.md §4.3, §4.6): seeding must
// never itself create a contradiction.
func (s Set) IntersectIfNonEmpty(mask Set) (applied, changed bool) {
	wouldBeEmpty := true
	for i := range s.Words {
		if s.Words[i]&mask.Words[i] != 0 {
			wouldBeEmpty = false
			break
		}
	}
	if wouldBeEmpty {
		return false, false
	}
	for i := range s.Words {
		old := s.Words[i]
		nw := old & mask.Words[i]
		if nw != old {
			changed = true
		}
		s.Words[i] = nw
	}
	return true, changed
}

// EachSet calls fn once per set bit, in ascending index order.
func (s Set) EachSet(fn func(i int)) {
	for wi, w := range s.Words {
		for w != 0 {
			tz := bits.TrailingZeros32(w)
			fn(wi*WordBits + tz)
			w &= w - 1
		}
	}
}

// FirstSet returns the lowest set bit index, or -1 if s is empty.
func (s Set) FirstSet() int {
	for wi, w := range s.Words {
		if w != 0 {
			return wi*WordBits + bits.TrailingZeros32(w)
		}
	}
	return -1
}
