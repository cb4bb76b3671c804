package dwarf

import "fmt"

// === Top-level emitter (C9) ===
//
// Dwarf is the facade a codegen backend drives: one instance per
// compilation, wrapping the two atom lanes, the container adapter, the
// string table and the module-wide error-set state. The init/commit/flush
// lifecycle follows spec.md §3: InitDeclState opens a scratch buffer,
// CommitDeclState places it into its section and resolves what relocations
// it can, FlushModule resolves what's left.

// EmitterConfig is the ambient configuration spec.md's distilled scope
// left implicit — pointer width, byte order, and the module-level strings
// every compile_unit DIE carries.
type EmitterConfig struct {
	PointerWidth int // 4 or 8
	Endian       ByteOrder

	// MinNopSize and IdealFactor mirror the atom pool's compile-time
	// policy (minNopSize, idealFactor in atom.go) so callers can assert
	// their expectations; the pool itself always uses the package
	// constants; a mismatch here is logged, not applied.
	MinNopSize  int
	IdealFactor int

	CompDir  string
	Producer string
	Language uint16 // DW_LANG_*; defaults to LangC99 if zero

	ContainerKind ContainerKind
}

func (cfg *EmitterConfig) setDefaults() {
	if cfg.PointerWidth == 0 {
		cfg.PointerWidth = 8
	}
	if cfg.Language == 0 {
		cfg.Language = LangC99
	}
	if cfg.MinNopSize != 0 && cfg.MinNopSize != minNopSize {
		log.WithFields(map[string]interface{}{"configured": cfg.MinNopSize, "actual": minNopSize}).
			Warn("dwarf: EmitterConfig.MinNopSize ignored, atom pool uses its fixed policy")
	}
	if cfg.IdealFactor != 0 && cfg.IdealFactor != idealFactor {
		log.WithFields(map[string]interface{}{"configured": cfg.IdealFactor, "actual": idealFactor}).
			Warn("dwarf: EmitterConfig.IdealFactor ignored, atom pool uses its fixed policy")
	}
}

// declLineSlot remembers where in a function's .debug_line atom the
// patchable file-index and line-number operands live, for
// UpdateDeclLineNumber/UpdateDeclFile.
type declLineSlot struct {
	atom       int
	fileOffset int
	lineOffset int
}

// Dwarf is one compilation's worth of incremental DWARF-4 debug
// information, writing into a Container over the lifetime of a build.
type Dwarf struct {
	cfg       EmitterConfig
	q         TypeQuerier
	ip        InternPool
	container *Container
	strtab    *stringTable

	diLane *atomLane
	lnLane *atomLane

	g *globalState

	diDecls   map[DeclID]int
	lnDecls   map[DeclID]int
	lineSlots map[DeclID]declLineSlot
	funcAddrs map[DeclID]arangesEntry

	cuName   string
	cuLowPC  uint64
	cuHighPC uint64

	dirs       []string
	files      []string
	fileDirIdx []int
	lineDirty  bool

	// debugInfoEnd is the logical end (in bytes) of everything ever written
	// to .debug_info, used to compute the compile_unit DIE's unit_length —
	// the physical section buffer a SectionGrower holds may be larger, due
	// to pad_to_ideal over-allocation.
	debugInfoEnd int
}

// NewDwarf constructs an emitter for one compilation. name is the primary
// source file name recorded in the compile_unit DIE.
func NewDwarf(cfg EmitterConfig, q TypeQuerier, ip InternPool, container *Container, name string) *Dwarf {
	cfg.setDefaults()
	d := &Dwarf{
		cfg:       cfg,
		q:         q,
		ip:        ip,
		container: container,
		strtab:    newStringTable(),
		diLane:    newAtomLane(byte(AbbrevPad1), cuHeaderReserved),
		lnLane:    newAtomLane(lnsNegateStmt, 0),
		g:         newGlobalState(),
		diDecls:   make(map[DeclID]int),
		lnDecls:   make(map[DeclID]int),
		lineSlots: make(map[DeclID]declLineSlot),
		funcAddrs: make(map[DeclID]arangesEntry),
		cuName:       name,
		dirs:         []string{"."},
		lineDirty:    true,
		debugInfoEnd: debugInfoPrefixSize + cuHeaderReserved,
	}
	return d
}

// Init writes the static .debug_abbrev table and reserves the compile_unit
// header region of .debug_info. Must be called once before any decl is
// committed.
func (d *Dwarf) Init() error {
	if err := d.container.growAndWrite(SectionDebugAbbrev, 0, nil, buildAbbrevSection(), nil); err != nil {
		return err
	}
	return d.rewriteCompileUnit()
}

func (d *Dwarf) rewriteCompileUnit() error {
	die := d.buildCompileUnitDIE(d.cuName, d.cfg.CompDir, d.cfg.Producer)
	unitLength := uint32(d.debugInfoEnd - 4) // excludes the initial_length field itself
	prefix := d.buildDebugInfoPrefix(unitLength)
	payload := append(prefix, die...)
	if err := d.container.growAndWrite(SectionDebugInfo, 0, nil, payload, nil); err != nil {
		return fmt.Errorf("dwarf: write compile_unit: %w", err)
	}
	d.container.markDirty(SectionDebugInfo)
	return nil
}

// getOrCreateAtom implements spec.md §4.1's get_or_create_for_decl: a decl
// that already has an atom in this lane (from a prior commit) reuses it, so
// a re-initialized declaration grows or relocates its existing atom instead
// of allocating a brand-new one and leaking the old one into the lane.
func getOrCreateAtom(lane *atomLane, decls map[DeclID]int, id DeclID) int {
	if idx, ok := decls[id]; ok {
		return idx
	}
	idx := lane.create()
	decls[id] = idx
	return idx
}

// InitDeclState opens a scratch buffer for decl, reserving (but not yet
// placing) its .debug_info atom and, for functions, its .debug_line atom.
// Re-initializing a decl that was already committed once reuses its atoms.
func (d *Dwarf) InitDeclState(decl *Decl) *declState {
	s := newDeclState(decl, d.q, d.ip, d.g, &d.cfg)
	s.diAtom = getOrCreateAtom(d.diLane, d.diDecls, decl.ID)
	switch decl.Kind {
	case DeclFunction:
		s.lnAtom = getOrCreateAtom(d.lnLane, d.lnDecls, decl.ID)
		s.openSubprogram()
	case DeclGlobalVariable:
		s.openVariable()
	case DeclTypeOnly:
		s.internType(decl.VarType)
	}
	return s
}

// FreeDecl releases decl's atoms back to their lanes (spec.md §4.1's
// free(decl)) and forgets its committed state. Call this when the frontend
// removes a previously-committed declaration; its former atom's predecessor
// joins the lane's free list and the vacated region is reclaimed on the
// next neighboring commit.
func (d *Dwarf) FreeDecl(id DeclID) {
	if idx, ok := d.diDecls[id]; ok {
		d.diLane.free(idx)
		delete(d.diDecls, id)
	}
	if idx, ok := d.lnDecls[id]; ok {
		d.lnLane.free(idx)
		delete(d.lnDecls, id)
	}
	delete(d.lineSlots, id)
	delete(d.funcAddrs, id)
}

// commitAtom (re)places an atom's payload and performs the writes spec.md
// §4.1 requires: the stale region (if the atom moved) NOP-filled
// separately, then the gap-payload-gap write in one call.
func (d *Dwarf) commitAtom(id SectionID, lane *atomLane, idx int, payload []byte) (allocResult, error) {
	res := lane.allocate(idx, len(payload))

	if res.moved && res.staleTo > res.staleFrom {
		if err := d.container.growAndWrite(id, res.staleFrom, nil, fillPadding(id, res.staleTo-res.staleFrom), nil); err != nil {
			return res, err
		}
	}

	offset := res.off
	var prevPad []byte
	if res.prevGapTo > res.prevGapFrom {
		offset = res.prevGapFrom
		prevPad = fillPadding(id, res.prevGapTo-res.prevGapFrom)
	}
	nextPad := fillPadding(id, res.nextGapTo-res.nextGapFrom)
	if err := d.container.growAndWrite(id, offset, prevPad, payload, nextPad); err != nil {
		return res, err
	}
	if id == SectionDebugInfo {
		if end := res.off + len(payload); end > d.debugInfoEnd {
			d.debugInfoEnd = end
		}
	}
	return res, nil
}

// CommitDeclState finalizes decl's accumulated DIE (and, for functions,
// line program) bytes, places them into their atoms, and resolves every
// relocation it can resolve immediately. symAddr/symSize are the
// function's final linked address and size (spec.md §4.3); they are used
// only for DeclFunction and ignored for the other kinds.
func (d *Dwarf) CommitDeclState(s *declState, symAddr, symSize uint64) error {
	if s.decl.Kind == DeclFunction {
		writeUintPtrAt(s.dbgInfo, s.lowPCOffset, symAddr, d.cfg.PointerWidth, d.cfg.Endian)
		writeUint32At(s.dbgInfo, s.highPCOffset, uint32(symSize), d.cfg.Endian)
	}
	for i := 0; i < len(s.abbrev); i++ {
		e := s.abbrev[i]
		if e.errorSet {
			continue
		}
		e.offset = len(s.dbgInfo)
		e.emit()
	}

	res, err := d.commitAtom(SectionDebugInfo, d.diLane, s.diAtom, s.dbgInfo)
	if err != nil {
		return fmt.Errorf("dwarf: commit decl %d: %w", s.decl.ID, err)
	}

	for _, r := range s.abbrevRelocs {
		target := s.abbrev[r.target]
		if target.errorSet {
			d.g.pendingErrorRelocs = append(d.g.pendingErrorRelocs, pendingErrorReloc{atom: s.diAtom, offset: r.offset})
			continue
		}
		val := uint32(res.off + target.offset)
		if err := d.patchDebugInfoU32(res.off+r.offset, val); err != nil {
			return err
		}
	}

	if s.decl.Kind == DeclFunction {
		if err := d.commitLineAtom(s, symAddr, symSize); err != nil {
			return err
		}
		d.cuLowPC = minU64OrFirst(d.cuLowPC, symAddr, len(d.funcAddrs) == 0)
		hi := symAddr + symSize
		if hi > d.cuHighPC {
			d.cuHighPC = hi
		}
		d.funcAddrs[s.decl.ID] = arangesEntry{addr: symAddr, size: symSize}
	}

	return nil
}

func minU64OrFirst(cur, v uint64, first bool) uint64 {
	if first || v < cur {
		return v
	}
	return cur
}

// commitLineAtom builds and places one function's line sequence: a header
// row (set_address, advance_line, set_file, copy) establishing the function
// entry's source position, followed by whatever rows codegen accumulated on
// s.dbgLine via AdvancePC/AdvanceLine between InitDeclState and
// CommitDeclState (spec.md §4.3), then end_sequence. The header row's
// advance_line operand is decl.SrcLine + func.LbraceLine, the line the
// opening brace sits on; the fixed 4-byte file/line slots are recorded for
// later in-place patching.
func (d *Dwarf) commitLineAtom(s *declState, symAddr, symSize uint64) error {
	fileIdx := d.ensureFile(s.decl)
	startLine := s.decl.SrcLine + s.decl.Func.LbraceLine

	var buf []byte
	buf = append(buf, 0)
	buf = PutUleb128(buf, uint64(1+d.cfg.PointerWidth))
	buf = append(buf, lneSetAddress)
	buf = putUintPtr(buf, symAddr, d.cfg.PointerWidth, d.cfg.Endian)

	buf = append(buf, lnsAdvanceLine)
	lineOffset := len(buf)
	buf = PutUlebFixed4(buf, startLine)

	buf = append(buf, lnsSetFile)
	fileOffset := len(buf)
	buf = PutUlebFixed4(buf, uint32(fileIdx))

	buf = append(buf, lnsCopy)

	buf = append(buf, s.dbgLine...)

	buf = append(buf, 0)
	buf = PutUleb128(buf, 1)
	buf = append(buf, lneEndSequence)

	_, err := d.commitAtom(SectionDebugLine, d.lnLane, s.lnAtom, buf)
	if err != nil {
		return fmt.Errorf("dwarf: commit line atom for decl %d: %w", s.decl.ID, err)
	}
	d.lineSlots[s.decl.ID] = declLineSlot{atom: s.lnAtom, fileOffset: fileOffset, lineOffset: lineOffset}
	return nil
}

func (d *Dwarf) ensureFile(decl *Decl) int {
	for i, f := range d.files {
		if f == decl.Name {
			return i
		}
	}
	d.files = append(d.files, decl.Name)
	d.fileDirIdx = append(d.fileDirIdx, 1)
	d.lineDirty = true
	return len(d.files) - 1
}

// patchDebugInfoU32 overwrites 4 bytes of the already-committed
// .debug_info section in place — used for both intra-decl abbrev relocs
// and, at flush, cross-decl error-set relocs.
func (d *Dwarf) patchDebugInfoU32(sectionOffset int, val uint32) error {
	tmp := putUint32(nil, val, d.cfg.Endian)
	return d.container.growAndWrite(SectionDebugInfo, sectionOffset, nil, tmp, nil)
}

// UpdateDeclLineNumber rewrites the fixed advance_line slot of an
// already-committed function's line atom, without touching anything else —
// the one case spec.md §4.3 calls out where a commit is not needed to
// reflect new information.
func (d *Dwarf) UpdateDeclLineNumber(id DeclID, line uint32) error {
	slot, ok := d.lineSlots[id]
	if !ok {
		return fmt.Errorf("dwarf: %w: decl %d has no line atom", ErrUnknownDecl, id)
	}
	atom := d.lnLane.get(slot.atom)
	tmp := PutUlebFixed4(nil, line)
	return d.container.growAndWrite(SectionDebugLine, atom.off+slot.lineOffset, nil, tmp, nil)
}

// UpdateDeclFile rewrites the fixed set_file slot of an already-committed
// function's line atom.
func (d *Dwarf) UpdateDeclFile(id DeclID, fileIndex uint32) error {
	slot, ok := d.lineSlots[id]
	if !ok {
		return fmt.Errorf("dwarf: %w: decl %d has no line atom", ErrUnknownDecl, id)
	}
	atom := d.lnLane.get(slot.atom)
	tmp := PutUlebFixed4(nil, fileIndex)
	return d.container.growAndWrite(SectionDebugLine, atom.off+slot.fileOffset, nil, tmp, nil)
}

// FlushModule emits the single module-wide error-set enum DIE (if any decl
// ever referenced one), patches every deferred cross-declaration reloc
// against it, rewrites the compile_unit DIE with the module's final
// address range, rebuilds .debug_aranges, and rewrites the .debug_line
// prologue if the file table changed since the last flush.
func (d *Dwarf) FlushModule() error {
	if len(d.g.pendingErrorRelocs) > 0 || d.g.errorSetSeeded {
		if err := d.flushErrorSet(); err != nil {
			return err
		}
	}
	if d.lineDirty {
		prologue := d.buildLinePrologue(d.dirs, d.files, d.fileDirIdx)
		d.lnLane.setHeaderBytes(len(prologue))
		if err := d.container.growAndWrite(SectionDebugLine, 0, nil, prologue, nil); err != nil {
			return fmt.Errorf("dwarf: rewrite line prologue: %w", err)
		}
		d.container.markDirty(SectionDebugLine)
		d.lineDirty = false
	}
	if err := d.rewriteCompileUnit(); err != nil {
		return err
	}
	entries := make([]arangesEntry, 0, len(d.funcAddrs))
	for _, e := range d.funcAddrs {
		entries = append(entries, e)
	}
	if err := d.container.growAndWrite(SectionDebugAranges, 0, nil, d.buildAranges(entries), nil); err != nil {
		return fmt.Errorf("dwarf: rewrite aranges: %w", err)
	}
	return nil
}

func (d *Dwarf) flushErrorSet() error {
	if d.g.errorSetAtom == noAtom {
		d.g.errorSetAtom = d.diLane.create()
	}
	zero := uint64(0)
	variants := make([]EnumVariant, 0, len(d.g.errorOrder)+1)
	variants = append(variants, EnumVariant{Name: "(no error)", Value: &zero})
	for _, name := range d.g.errorOrder {
		v := d.g.errorNames[name]
		variants = append(variants, EnumVariant{Name: name, Value: &v})
	}
	scratch := &declState{cfg: &d.cfg}
	scratch.emitEnumLike("anyerror", d.g.errorSetAbiSize, variants)

	res, err := d.commitAtom(SectionDebugInfo, d.diLane, d.g.errorSetAtom, scratch.dbgInfo)
	if err != nil {
		return fmt.Errorf("dwarf: commit module error-set DIE: %w", err)
	}
	for _, r := range d.g.pendingErrorRelocs {
		atom := d.diLane.get(r.atom)
		if err := d.patchDebugInfoU32(atom.off+r.offset, uint32(res.off)); err != nil {
			return err
		}
	}
	d.g.pendingErrorRelocs = nil
	return nil
}

// TakeExprRelocs drains decl's pending pointer-width relocations into
// section-relative form for the driver's out-of-scope symbol-resolution
// pass, clearing them from s.
func (d *Dwarf) TakeExprRelocs(s *declState) []ExprReloc {
	atom := d.diLane.get(s.diAtom)
	out := make([]ExprReloc, len(s.exprRelocs))
	for i, r := range s.exprRelocs {
		out[i] = ExprReloc{SectionOffset: atom.off + r.offset, Kind: r.kind, Symbol: r.symbol}
	}
	s.exprRelocs = nil
	return out
}
