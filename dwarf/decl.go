package dwarf

// === Per-declaration state (C6) ===
//
// spec.md §3/§4.3: every declaration (function, global, or purely-type-only
// reference) gets one declState across its init/commit cycle: a scratch
// .debug_info buffer, an optional .debug_line buffer for functions, a
// per-declaration type-interning table, and two reloc queues: abbrev relocs,
// patched into their owning atoms once final offsets are known, and exprloc
// relocs, handed to the driver through Dwarf.TakeExprRelocs.

// DeclKind distinguishes the three shapes of declaration spec.md §3 names.
type DeclKind int

const (
	DeclFunction DeclKind = iota
	DeclGlobalVariable
	DeclTypeOnly
)

// DeclID is the frontend's stable handle for one declaration, used as the
// key into the Dwarf instance's di_atom_decls/src_fn_decls maps.
type DeclID uint32

// ParamInfo is one parameter of a function declaration.
type ParamInfo struct {
	Name     string
	Type     Type
	Location Location
}

// FuncInfo carries the function-specific fields of a Decl: its parameter
// list and the brace lines the line-number table seeds from. LbraceLine is
// added to Decl.SrcLine to produce the line program's initial advance_line
// operand (spec.md §4.3); RbraceLine is available to codegen for a final
// SetEpilogueBegin/AdvanceLine pair marking the closing brace's row.
type FuncInfo struct {
	Params      []ParamInfo
	ReturnType  Type // nil (or void/noreturn tag) selects AbbrevSubprogramRetvoid
	LbraceLine  uint32
	RbraceLine  uint32
}

// Decl is the frontend-facing description of one declaration passed to
// InitDeclState.
type Decl struct {
	ID      DeclID
	Kind    DeclKind
	Name    string
	SrcLine uint32
	Func    *FuncInfo // non-nil iff Kind == DeclFunction
	VarType Type      // the declared type, for DeclGlobalVariable/DeclTypeOnly
	VarLoc  Location  // for DeclGlobalVariable
}

type declAbbrevEntry struct {
	key      string
	errorSet bool
	offset   int // -1 until assigned during commit (or flush, for error-set entries)
	emit     func()
}

// declAbbrevReloc records a pending 4-byte ref4 slot in dbgInfo. target
// indexes into declState.abbrev. If that entry is an error-set entry
// (abbrev[target].errorSet), commitDeclState hands the reloc off to the
// module-wide queue instead of resolving it immediately, since its target
// DIE is only emitted once, later, by flushModule.
type declAbbrevReloc struct {
	offset int
	target int
}

// ExprRelocKind distinguishes the two exprloc relocation shapes spec.md §4.5
// defines for memory and linker-load locations.
type ExprRelocKind int

const (
	ExprRelocDirectLoad ExprRelocKind = iota
	ExprRelocGotLoad
)

// declExprReloc records a pending pointer-width slot inside an exprloc
// payload in dbgInfo, to be resolved by the driver's symbol-resolution pass
// (out of scope for this package; see ExprReloc/Dwarf.TakeExprRelocs).
type declExprReloc struct {
	offset int
	kind   ExprRelocKind
	symbol uint32
}

// declState accumulates one declaration's .debug_info (and, for functions,
// .debug_line) bytes plus its interning table across the calls codegen
// makes between InitDeclState and CommitDeclState.
type declState struct {
	decl   *Decl
	q      TypeQuerier
	ip     InternPool
	g      *globalState
	cfg    *EmitterConfig

	diAtom int // index into the debug_info atom lane
	lnAtom int // index into the debug_line atom lane, or noAtom for non-functions

	dbgInfo []byte

	// dbgLine accumulates the incremental line-number program rows codegen
	// builds for a function via AdvancePC/AdvanceLine/SetPrologueEnd/
	// SetEpilogueBegin between InitDeclState and CommitDeclState (spec.md
	// §4.3). commitLineAtom splices it in after the function's header row
	// and before end_sequence. Unused for non-function decls.
	dbgLine []byte

	// lowPCOffset/highPCOffset locate the subprogram DIE's address-range
	// placeholders within dbgInfo; CommitDeclState patches them in place
	// once symAddr/symSize are known, since they're unknowable at
	// InitDeclState time.
	lowPCOffset, highPCOffset int

	abbrev   []*declAbbrevEntry
	resolver map[string]int

	abbrevRelocs []declAbbrevReloc
	exprRelocs   []declExprReloc
}

func newDeclState(decl *Decl, q TypeQuerier, ip InternPool, g *globalState, cfg *EmitterConfig) *declState {
	return &declState{
		decl:     decl,
		q:        q,
		ip:       ip,
		g:        g,
		cfg:      cfg,
		lnAtom:   noAtom,
		resolver: make(map[string]int),
	}
}

// openSubprogram writes the subprogram DIE header — low_pc/high_pc
// placeholders, an optional return-type ref, the decl's name, then one
// formal_parameter child per entry in Func.Params — terminating its
// children list immediately, since the full parameter list is known
// upfront from the frontend-supplied Decl.
func (s *declState) openSubprogram() {
	fn := s.decl.Func
	retKind := KindVoid
	if fn.ReturnType != nil {
		retKind = s.q.Tag(fn.ReturnType)
	}
	hasReturn := fn.ReturnType != nil && retKind != KindVoid && retKind != KindNoReturn

	if hasReturn {
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevSubprogram))
	} else {
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevSubprogramRetvoid))
	}

	s.lowPCOffset = len(s.dbgInfo)
	s.dbgInfo = append(s.dbgInfo, make([]byte, s.cfg.PointerWidth)...)
	s.highPCOffset = len(s.dbgInfo)
	s.dbgInfo = append(s.dbgInfo, 0, 0, 0, 0)

	if hasReturn {
		s.refType(fn.ReturnType)
	}
	s.writeString(s.decl.Name)

	for _, p := range fn.Params {
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevParameter))
		s.writeLocation(p.Location)
		s.refType(p.Type)
		s.writeString(p.Name)
	}
	s.dbgInfo = append(s.dbgInfo, 0) // terminate subprogram's children
}

// AdvancePC records that the machine-code position has moved delta bytes
// past the function's entry (or the previous AdvancePC), per spec.md §4.3.
// It appends DW_LNS_advance_pc followed by DW_LNS_copy, committing a row at
// the new address with whatever line the most recent AdvanceLine set.
func (s *declState) AdvancePC(delta uint64) {
	s.dbgLine = append(s.dbgLine, lnsAdvancePC)
	s.dbgLine = PutUleb128(s.dbgLine, delta)
	s.dbgLine = append(s.dbgLine, lnsCopy)
}

// AdvanceLine records that the current source line has moved by delta
// (signed, since codegen may step back into an earlier line for an inlined
// or reordered block) ahead of the next AdvancePC.
func (s *declState) AdvanceLine(delta int64) {
	s.dbgLine = append(s.dbgLine, lnsAdvanceLine)
	s.dbgLine = PutSleb128(s.dbgLine, delta)
}

// SetPrologueEnd marks the next row as the first instruction past the
// function's prologue, the conventional breakpoint location for a debugger.
func (s *declState) SetPrologueEnd() {
	s.dbgLine = append(s.dbgLine, lnsSetPrologueEnd)
}

// SetEpilogueBegin marks the next row as the first instruction of the
// function's epilogue.
func (s *declState) SetEpilogueBegin() {
	s.dbgLine = append(s.dbgLine, lnsSetEpilogueBeg)
}

// openVariable writes the (childless) variable DIE for a global.
func (s *declState) openVariable() {
	s.dbgInfo = append(s.dbgInfo, byte(AbbrevVariable))
	s.writeLocation(s.decl.VarLoc)
	s.refType(s.decl.VarType)
	s.writeString(s.decl.Name)
}
