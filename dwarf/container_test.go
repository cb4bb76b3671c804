package dwarf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeGrower is a minimal in-memory SectionGrower for testing Container
// directly, without pulling in internal/objfile.
type fakeGrower struct {
	buf   map[SectionID][]byte
	dirty map[SectionID]bool
}

func newFakeGrower() *fakeGrower {
	return &fakeGrower{buf: make(map[SectionID][]byte), dirty: make(map[SectionID]bool)}
}

func (g *fakeGrower) GrowSection(id SectionID, neededSize, alignment int, allowShrink bool) error {
	cur := g.buf[id]
	if neededSize > len(cur) {
		grown := make([]byte, neededSize)
		copy(grown, cur)
		g.buf[id] = grown
	} else if allowShrink {
		g.buf[id] = cur[:neededSize]
	}
	return nil
}

func (g *fakeGrower) WriteWithPadding(id SectionID, offset int, prevPad, payload, nextPad []byte) error {
	buf := g.buf[id]
	pos := offset
	for _, chunk := range [][]byte{prevPad, payload, nextPad} {
		copy(buf[pos:], chunk)
		pos += len(chunk)
	}
	return nil
}

func (g *fakeGrower) MarkDirty(id SectionID) { g.dirty[id] = true }

func TestPadByteForMatchesSectionConvention(t *testing.T) {
	require.Equal(t, byte(AbbrevPad1), padByteFor(SectionDebugInfo))
	require.Equal(t, byte(lnsNegateStmt), padByteFor(SectionDebugLine))
	require.Equal(t, byte(0), padByteFor(SectionDebugStr))
}

func TestFillPaddingLength(t *testing.T) {
	require.Nil(t, fillPadding(SectionDebugInfo, 0))
	require.Nil(t, fillPadding(SectionDebugInfo, -1))
	buf := fillPadding(SectionDebugLine, 3)
	require.Equal(t, []byte{lnsNegateStmt, lnsNegateStmt, lnsNegateStmt}, buf)
}

func TestGrowAndWriteWritesContiguousGapPayloadGap(t *testing.T) {
	g := newFakeGrower()
	c := NewContainer(ContainerELF, g)

	err := c.growAndWrite(SectionDebugInfo, 2, []byte{0x11}, []byte{0x22, 0x22}, []byte{0x33})
	require.NoError(t, err)

	want := []byte{0, 0, 0x11, 0x22, 0x22, 0x33}
	require.Equal(t, want, g.buf[SectionDebugInfo])
}

func TestAlignmentForArangesIsEightBytes(t *testing.T) {
	c := NewContainer(ContainerELF, newFakeGrower())
	require.Equal(t, 8, c.alignmentFor(SectionDebugAranges))
	require.Equal(t, 1, c.alignmentFor(SectionDebugInfo))
}

func TestMarkDirtyDelegatesToGrower(t *testing.T) {
	g := newFakeGrower()
	c := NewContainer(ContainerWasm, g)
	c.markDirty(SectionDebugLine)
	require.True(t, g.dirty[SectionDebugLine])
}
