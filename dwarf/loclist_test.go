package dwarf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDeclState() *declState {
	cfg := &EmitterConfig{PointerWidth: 8, Endian: LittleEndian}
	return &declState{cfg: cfg, resolver: make(map[string]int), g: newGlobalState()}
}

func TestWriteLocationRegisterFastPath(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocRegister, Reg: 3})
	// ULEB length (1) + opReg0+3
	require.Equal(t, []byte{1, opReg0 + 3}, s.dbgInfo)
}

func TestWriteLocationRegisterFallbackPastFastPath(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocRegister, Reg: 40})
	require.Equal(t, byte(2), s.dbgInfo[0]) // length
	require.Equal(t, byte(opRegx), s.dbgInfo[1])
	require.Equal(t, byte(40), s.dbgInfo[2])
}

func TestWriteLocationFrameRelative(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocFrameRelative, Reg: 6, Offset: -16})
	require.Equal(t, byte(opBreg0+6), s.dbgInfo[1])
}

func TestWriteLocationWasmLocal(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocWasmLocal, Index: 2})
	body := s.dbgInfo[1:]
	require.Equal(t, byte(opWasmLocation), body[0])
	require.Equal(t, byte(wasmLocationLocal), body[1])
	require.Equal(t, byte(2), body[2])
}

func TestWriteLocationMemoryRecordsRelocAtCorrectOffset(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocMemory, Symbol: 99})
	require.Len(t, s.exprRelocs, 1)
	r := s.exprRelocs[0]
	require.Equal(t, ExprRelocDirectLoad, r.kind)
	require.Equal(t, uint32(99), r.symbol)
	// offset must point past the ULEB length byte and the opAddr opcode.
	require.Equal(t, 2, r.offset)
	require.Equal(t, byte(opAddr), s.dbgInfo[1])
}

func TestWriteLocationLinkerLoadAppendsDerefAfterPlaceholder(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocLinkerLoad, Symbol: 5})
	require.Len(t, s.exprRelocs, 1)
	require.Equal(t, ExprRelocGotLoad, s.exprRelocs[0].kind)
	require.Equal(t, byte(opDeref), s.dbgInfo[len(s.dbgInfo)-1])
}

func TestWriteLocationImmediateSigned(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocImmediateSigned, SignedValue: -2})
	body := s.dbgInfo[1:]
	require.Equal(t, byte(opConsts), body[0])
	require.Equal(t, byte(opStackValue), body[len(body)-1])
}

func TestWriteLocationImmediateUnsigned(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocImmediateUnsigned, UnsignedValue: 7})
	body := s.dbgInfo[1:]
	require.Equal(t, byte(opConstu), body[0])
	require.Equal(t, byte(opStackValue), body[len(body)-1])
}

func TestWriteLocationUndefEmitsImplicitValue(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocUndef, Size: 4})
	body := s.dbgInfo[1:]
	require.Equal(t, byte(opImplicitValue), body[0])
	require.Equal(t, byte(4), body[1]) // ULEB(size)
	require.Equal(t, []byte{0xaa, 0xaa, 0xaa, 0xaa}, body[2:])
}

func TestWriteLocationNopEmitsSingleNop(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocNop})
	require.Equal(t, []byte{1, opNop}, s.dbgInfo)
}

func TestWriteLocationNoneEmitsLit0StackValue(t *testing.T) {
	s := newTestDeclState()
	s.writeLocation(Location{Kind: LocNone})
	require.Equal(t, []byte{2, opLit0, opStackValue}, s.dbgInfo)
}

func TestWriteLocationRelocOffsetRebasesWhenNotFirstInBuffer(t *testing.T) {
	s := newTestDeclState()
	s.dbgInfo = append(s.dbgInfo, 0xAA, 0xBB, 0xCC) // unrelated prior bytes
	base := len(s.dbgInfo)
	s.writeLocation(Location{Kind: LocMemory, Symbol: 1})
	// relative to the whole dbgInfo buffer, not just the location body.
	require.Equal(t, base+2, s.exprRelocs[0].offset)
}
