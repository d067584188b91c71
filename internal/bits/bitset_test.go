package bits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSet(n int) Set {
	return NewSet(make([]uint32, Words(n)), n)
}

func TestWords(t *testing.T) {
	require.Equal(t, 0, Words(0))
	require.Equal(t, 1, Words(1))
	require.Equal(t, 1, Words(32))
	require.Equal(t, 2, Words(33))
	require.Equal(t, 4, Words(100))
}

func TestFillMasksHighBits(t *testing.T) {
	s := newTestSet(5)
	s.Fill()
	require.Equal(t, 5, s.PopCount())
	require.Equal(t, uint32(0b11111), s.Words[0])
}

func TestSetClearGet(t *testing.T) {
	s := newTestSet(40)
	s.SetBit(0)
	s.SetBit(33)
	require.True(t, s.Get(0))
	require.True(t, s.Get(33))
	require.False(t, s.Get(1))
	s.ClearBit(33)
	require.False(t, s.Get(33))
}

func TestRestrictToOne(t *testing.T) {
	s := newTestSet(10)
	s.Fill()
	s.RestrictToOne(4)
	require.Equal(t, 1, s.PopCount())
	require.True(t, s.Get(4))
}

func TestAndInPlace(t *testing.T) {
	a := newTestSet(8)
	a.Fill()
	b := newTestSet(8)
	b.SetBit(1)
	b.SetBit(3)
	changed := a.AndInPlace(b)
	require.True(t, changed)
	require.Equal(t, 2, a.PopCount())

	changed = a.AndInPlace(b)
	require.False(t, changed)
}

func TestOrInPlace(t *testing.T) {
	a := newTestSet(8)
	a.SetBit(1)
	b := newTestSet(8)
	b.SetBit(2)
	a.OrInPlace(b)
	require.True(t, a.Get(1))
	require.True(t, a.Get(2))
}

func TestIntersectIfNonEmpty(t *testing.T) {
	s := newTestSet(8)
	s.SetBit(1)
	s.SetBit(2)

	maskEmpty := newTestSet(8)
	maskEmpty.SetBit(5)
	applied, changed := s.IntersectIfNonEmpty(maskEmpty)
	require.False(t, applied)
	require.False(t, changed)
	require.Equal(t, 2, s.PopCount())

	maskSome := newTestSet(8)
	maskSome.SetBit(1)
	applied, changed = s.IntersectIfNonEmpty(maskSome)
	require.True(t, applied)
	require.True(t, changed)
	require.Equal(t, 1, s.PopCount())
}

func TestEachSetAndFirstSet(t *testing.T) {
	s := newTestSet(40)
	s.SetBit(3)
	s.SetBit(35)
	var got []int
	s.EachSet(func(i int) { got = append(got, i) })
	require.Equal(t, []int{3, 35}, got)
	require.Equal(t, 3, s.FirstSet())

	empty := newTestSet(8)
	require.Equal(t, -1, empty.FirstSet())
	require.True(t, empty.IsEmpty())
}

func TestCopyFrom(t *testing.T) {
	src := newTestSet(8)
	src.SetBit(2)
	dst := newTestSet(8)
	dst.CopyFrom(src)
	require.Equal(t, src.Words, dst.Words)
}
