package dwarf

// === Location expression emitter (C5) ===
//
// spec.md §4.5 lists nine location shapes a declaration's parameters and
// variables can carry. Each compiles to one DW_FORM_exprloc attribute: a
// ULEB length prefix followed by that many bytes of DWARF expression
// opcodes. The encoder here mirrors the byte-by-byte op builders
// tinyrange-rtg's std/compiler/wasm32.go uses for its own local.get/local.set
// instruction encoding (LEB-encoded operand immediately following a fixed
// opcode byte).

// LocationKind selects which shape a Location value encodes: the nine
// shapes above, with the immediate shape split into a signed and an
// unsigned kind, for ten kinds in all.
type LocationKind int

const (
	// LocRegister: the value lives entirely in register Reg.
	LocRegister LocationKind = iota
	// LocFrameRelative: the value lives at [Reg + Offset], typically the
	// frame or stack pointer plus a fixed displacement.
	LocFrameRelative
	// LocWasmLocal: the value is WebAssembly local index Index.
	LocWasmLocal
	// LocMemory: the value lives at a fixed, directly-addressable symbol.
	LocMemory
	// LocLinkerLoad: the value's address must be loaded indirectly through
	// a GOT-style slot before it can be dereferenced (position-independent
	// targets).
	LocLinkerLoad
	// LocImmediateSigned: the value is the constant SignedValue itself,
	// with no memory location at all.
	LocImmediateSigned
	// LocImmediateUnsigned: the value is the constant UnsignedValue itself.
	LocImmediateUnsigned
	// LocUndef: the value exists but was optimized away entirely; encoded
	// as DW_OP_implicit_value of Size bytes, all 0xaa, so a reader can still
	// see the value's width without a real location.
	LocUndef
	// LocNop: a placeholder slot that deliberately carries no meaning.
	// Encoded as a single DW_OP_nop.
	LocNop
	// LocNone: no location information is available at all. Encoded as
	// DW_OP_lit0, DW_OP_stack_value: a present-but-valueless location, as
	// opposed to LocUndef's explicit unknown-value marker.
	LocNone
)

// Location is the frontend's description of where one parameter or
// variable's value can be found, per spec.md §4.5.
type Location struct {
	Kind LocationKind

	Reg    uint32 // LocRegister, LocFrameRelative
	Offset int64  // LocFrameRelative
	Index  uint32 // LocWasmLocal

	Symbol uint32 // LocMemory, LocLinkerLoad

	SignedValue   int64  // LocImmediateSigned
	UnsignedValue uint64 // LocImmediateUnsigned

	Size uint64 // LocUndef: payload width in bytes for DW_OP_implicit_value
}

// writeOpReg appends DW_OP_regN, or DW_OP_regx(reg) when reg doesn't fit the
// 32-register fast-path encoding.
func writeOpReg(buf []byte, reg uint32) []byte {
	if reg < 32 {
		return append(buf, opReg0+byte(reg))
	}
	buf = append(buf, opRegx)
	return PutUleb128(buf, uint64(reg))
}

// writeOpBreg appends DW_OP_bregN(offset), or DW_OP_bregx(reg, offset) past
// the 32-register fast path.
func writeOpBreg(buf []byte, reg uint32, offset int64) []byte {
	if reg < 32 {
		buf = append(buf, opBreg0+byte(reg))
		return PutSleb128(buf, offset)
	}
	buf = append(buf, opBregx)
	buf = PutUleb128(buf, uint64(reg))
	return PutSleb128(buf, offset)
}

// encodeLocationBody appends the DWARF expression opcodes (without the
// length prefix) for loc to buf. A Memory or LinkerLoad location also
// appends a pointer-width placeholder and records its relocation in
// s.exprRelocs, at an offset relative to the start of buf.
func (s *declState) encodeLocationBody(buf []byte, loc Location) []byte {
	switch loc.Kind {
	case LocRegister:
		return writeOpReg(buf, loc.Reg)

	case LocFrameRelative:
		return writeOpBreg(buf, loc.Reg, loc.Offset)

	case LocWasmLocal:
		buf = append(buf, opWasmLocation, wasmLocationLocal)
		return PutUleb128(buf, uint64(loc.Index))

	case LocMemory:
		buf = append(buf, opAddr)
		return s.appendExprRelocPlaceholder(buf, ExprRelocDirectLoad, loc.Symbol)

	case LocLinkerLoad:
		buf = append(buf, opAddr)
		buf = s.appendExprRelocPlaceholder(buf, ExprRelocGotLoad, loc.Symbol)
		return append(buf, opDeref)

	case LocImmediateSigned:
		buf = append(buf, opConsts)
		buf = PutSleb128(buf, loc.SignedValue)
		return append(buf, opStackValue)

	case LocImmediateUnsigned:
		buf = append(buf, opConstu)
		buf = PutUleb128(buf, loc.UnsignedValue)
		return append(buf, opStackValue)

	case LocUndef:
		buf = append(buf, opImplicitValue)
		buf = PutUleb128(buf, loc.Size)
		for i := uint64(0); i < loc.Size; i++ {
			buf = append(buf, 0xaa)
		}
		return buf

	case LocNop:
		return append(buf, opNop)

	case LocNone:
		return append(buf, opLit0, opStackValue)

	default:
		log.WithField("kind", int(loc.Kind)).Warn("dwarf: unknown location kind, emitting an empty expression")
		return buf
	}
}

// appendExprRelocPlaceholder appends a pointer-width zero placeholder at the
// tail of buf and records its relocation at len(buf), an offset relative to
// buf; writeLocation passes a scratch body buffer and rebases the offset
// onto s.dbgInfo afterwards.
func (s *declState) appendExprRelocPlaceholder(buf []byte, kind ExprRelocKind, symbol uint32) []byte {
	off := len(buf)
	buf = append(buf, make([]byte, s.cfg.PointerWidth)...)
	s.exprRelocs = append(s.exprRelocs, declExprReloc{offset: off, kind: kind, symbol: symbol})
	return buf
}

// writeLocation appends loc as a complete DW_FORM_exprloc attribute (ULEB
// length, then body) to s.dbgInfo. encodeLocationBody records any exprloc
// relocation offsets relative to the start of body (offset 0); since body is
// built in a scratch buffer before dbgInfo's final length is known, those
// offsets are rebased by base once the body is appended.
func (s *declState) writeLocation(loc Location) {
	relocsBefore := len(s.exprRelocs)
	body := s.encodeLocationBody(nil, loc)
	s.dbgInfo = PutUleb128(s.dbgInfo, uint64(len(body)))
	base := len(s.dbgInfo)
	s.dbgInfo = append(s.dbgInfo, body...)
	for i := relocsBefore; i < len(s.exprRelocs); i++ {
		s.exprRelocs[i].offset += base
	}
}
