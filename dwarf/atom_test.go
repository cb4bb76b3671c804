package dwarf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPadToIdeal(t *testing.T) {
	require.Equal(t, 0, padToIdeal(0))
	require.Equal(t, 13, padToIdeal(10))  // 10 + 10/3
	require.Equal(t, 400, padToIdeal(300))
}

func TestAtomLaneFirstAtomReservesHeader(t *testing.T) {
	lane := newAtomLane(0xAA, 16)
	idx := lane.create()
	res := lane.allocate(idx, 5)

	require.True(t, res.moved)
	require.Equal(t, padToIdeal(16), res.off)
	require.Equal(t, 16, res.prevGapFrom)
	require.Equal(t, res.off, res.prevGapTo)
}

func TestAtomLaneAppendAtTail(t *testing.T) {
	lane := newAtomLane(0xAA, 0)
	a := lane.create()
	lane.allocate(a, 10)

	b := lane.create()
	res := lane.allocate(b, 4)

	aRec := lane.get(a)
	require.Equal(t, aRec.off+padToIdeal(aRec.len), res.off)
	require.True(t, res.moved)
}

func TestAtomLaneGrowInPlace(t *testing.T) {
	lane := newAtomLane(0xAA, 0)
	a := lane.create()
	res1 := lane.allocate(a, 10)
	b := lane.create()
	lane.allocate(b, 10)

	// Growing a within its padded slot should not move it.
	res2 := lane.allocate(a, res1.len+2)
	require.False(t, res2.moved)
	require.Equal(t, res1.off, res2.off)
}

func TestAtomLaneOutgrowRelocates(t *testing.T) {
	lane := newAtomLane(0xAA, 0)
	a := lane.create()
	res1 := lane.allocate(a, 4)
	b := lane.create()
	resB := lane.allocate(b, 4)

	// Grow a far beyond its slot: it must relocate past b, leaving its old
	// slot entirely NOP-filled.
	res2 := lane.allocate(a, 100)
	require.True(t, res2.moved)
	require.Equal(t, res1.off, res2.staleFrom)
	require.Equal(t, resB.off, res2.staleTo)
	require.Greater(t, res2.off, resB.off)
}

func TestAtomLaneFreeOfHeadMakesSuccessorFirst(t *testing.T) {
	lane := newAtomLane(0xAA, 0)
	a := lane.create()
	lane.allocate(a, 4)
	b := lane.create()
	lane.allocate(b, 4)

	require.Empty(t, lane.freeList)
	lane.free(a)
	// a had no predecessor, so freeing it doesn't add anything to the list;
	// it does make b the new head.
	require.Equal(t, b, lane.first)
}

func TestAtomLaneWalkVisitsInOffsetOrder(t *testing.T) {
	lane := newAtomLane(0xAA, 0)
	var idxs []int
	for i := 0; i < 3; i++ {
		idx := lane.create()
		lane.allocate(idx, 4)
		idxs = append(idxs, idx)
	}

	var seen []int
	var lastOff = -1
	lane.walk(func(idx int, a atomRec) {
		seen = append(seen, idx)
		require.GreaterOrEqual(t, a.off, lastOff)
		lastOff = a.off
	})
	require.Equal(t, idxs, seen)
}
