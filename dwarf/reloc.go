package dwarf

// === Module-wide deferred relocation (C9 support) ===
//
// spec.md §4.6/§9: the per-declaration abbrev reloc queue (declAbbrevReloc)
// resolves entirely inside commitDeclState. The one exception is any
// reference to an error-set type: every error-set-shaped type in the whole
// module collapses onto a single DIE, emitted once by flushModule, so a
// reloc that targets one must wait in this module-wide queue until flush.

// globalState is the accumulator threaded through every declState via
// Dwarf, living for the lifetime of one compilation.
type globalState struct {
	errorSetSeeded bool
	errorSetAbiSize uint64
	errorNames     map[string]uint64
	errorOrder     []string

	errorSetAtom int // noAtom until flushModule places the DIE

	pendingErrorRelocs []pendingErrorReloc
}

func newGlobalState() *globalState {
	return &globalState{errorNames: make(map[string]uint64), errorSetAtom: noAtom}
}

// pendingErrorReloc records a 4-byte ref4 slot, already written into a
// committed decl's atom, that must be patched once flushModule knows the
// error-set DIE's final offset.
type pendingErrorReloc struct {
	atom   int
	offset int
}

// ExprRelocKind is declared in decl.go alongside declExprReloc; ExprReloc
// below is its resolved, section-relative counterpart exposed to the
// driver's out-of-scope symbol-resolution pass (spec.md §6).
type ExprReloc struct {
	SectionOffset int
	Kind          ExprRelocKind
	Symbol        uint32
}
