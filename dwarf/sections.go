package dwarf

// === Section header emitters (C7) ===
//
// Builds the fixed, rewritable header regions of .debug_info (the compile
// unit DIE) and .debug_line (the line-number program prologue), plus the
// .debug_aranges table built fresh from the current set of committed
// function atoms. Byte-by-byte construction in the style of
// tinyrange-rtg's std/compiler/elf_x64.go ELF/program-header builders.

// cuHeaderReserved is the fixed size of .debug_info's reserved leading
// region: the compile_unit DIE (bounded size thanks to fixed-width low_pc/
// high_pc/stmt_list/language and three 4-byte strp offsets) plus its
// immediate DW_TAG children terminator, padded out with AbbrevPad1 filler.
// Declaration DIEs are appended as atoms starting right after this region —
// they are not nested under compile_unit in the byte stream (the
// conventional incremental-DWARF compromise real toolchains in this space
// make: consumers locate them via .debug_aranges and each DIE's own
// attributes, not via physical nesting).
const cuHeaderReserved = 120

// buildCompileUnitDIE renders the compile_unit DIE into a cuHeaderReserved
// byte buffer: the 4-byte initial_length + version=4 prefix belong to the
// section itself (rewritten together with this DIE by Init and by every
// FlushModule), so this buffer starts at the DIE's abbrev code.
func (d *Dwarf) buildCompileUnitDIE(name, compDir, producer string) []byte {
	buf := make([]byte, 0, cuHeaderReserved)
	buf = append(buf, byte(AbbrevCompileUnit))
	buf = putUint32(buf, 0, d.cfg.Endian) // stmt_list: .debug_line always starts at offset 0
	buf = putUintPtr(buf, d.cuLowPC, d.cfg.PointerWidth, d.cfg.Endian)
	buf = putUintPtr(buf, d.cuHighPC, d.cfg.PointerWidth, d.cfg.Endian)
	buf = putUint32(buf, d.strtab.intern(name), d.cfg.Endian)
	buf = putUint32(buf, d.strtab.intern(compDir), d.cfg.Endian)
	buf = putUint32(buf, d.strtab.intern(producer), d.cfg.Endian)
	buf = putUint16(buf, d.cfg.Language, d.cfg.Endian)
	buf = append(buf, 0) // empty child list: see cuHeaderReserved doc above
	if len(buf) > cuHeaderReserved {
		log.WithField("size", len(buf)).Error("dwarf: compile_unit DIE overflowed its reserved header")
		return buf
	}
	pad := fillPadding(SectionDebugInfo, cuHeaderReserved-len(buf))
	return append(buf, pad...)
}

// debugInfoPrefixSize is the 4-byte initial_length + 2-byte version fields
// that precede the compile_unit DIE in .debug_info.
const debugInfoPrefixSize = 6

func (d *Dwarf) buildDebugInfoPrefix(unitLength uint32) []byte {
	buf := make([]byte, 0, debugInfoPrefixSize)
	buf = putUint32(buf, unitLength, d.cfg.Endian)
	buf = putUint16(buf, 4, d.cfg.Endian) // DWARF version 4
	return buf
}

// standardOpcodeLengths is the fixed operand-count table for the 12
// standard line-number opcodes this emitter's line programs ever use.
var standardOpcodeLengths = [...]byte{0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 1}

// buildLinePrologue renders the .debug_line prologue: the fixed program
// header plus the directory and file-name tables spec.md §4.3 describes
// (1-indexed directories; each file name followed by the 4 bytes
// {NUL, dir_index, mtime 0, length 0}).
func (d *Dwarf) buildLinePrologue(dirs, files []string, fileDirIdx []int) []byte {
	var body []byte // everything after prologue_length
	body = append(body, 1)  // minimum_instruction_length
	body = append(body, 1)  // default_is_stmt
	body = append(body, 1)  // line_base (signed, but value 1 fits either way)
	body = append(body, 1)  // line_range
	body = append(body, 13) // opcode_base
	body = append(body, standardOpcodeLengths[:]...)
	for _, dir := range dirs {
		body = append(body, dir...)
		body = append(body, 0)
	}
	body = append(body, 0) // end of directory table
	for i, f := range files {
		body = append(body, f...)
		body = append(body, 0)
		body = PutUleb128(body, uint64(fileDirIdx[i]))
		body = append(body, 0, 0) // mtime, length (unknown/unused)
	}
	body = append(body, 0) // end of file-name table

	var buf []byte
	buf = putUint32(buf, 0, d.cfg.Endian) // placeholder; patched below
	buf = putUint16(buf, 4, d.cfg.Endian) // DWARF version 4
	buf = putUint32(buf, uint32(len(body)), d.cfg.Endian)
	buf = append(buf, body...)
	writeUint32At(buf, 0, uint32(len(buf)-4), d.cfg.Endian) // total_length excludes itself
	return buf
}

// arangesEntry is one committed function's address range, used to build
// .debug_aranges.
type arangesEntry struct {
	addr uint64
	size uint64
}

// buildAranges renders the .debug_aranges table: a fixed header, one
// (address,size) tuple per committed function padded to 2*ptr_width
// alignment, and a terminating zero tuple.
func (d *Dwarf) buildAranges(entries []arangesEntry) []byte {
	tupleAlign := 2 * d.cfg.PointerWidth
	var header []byte
	header = putUint32(header, 0, d.cfg.Endian) // unit_length placeholder
	header = putUint16(header, 2, d.cfg.Endian) // DWARF aranges version 2
	header = putUint32(header, 0, d.cfg.Endian) // debug_info_offset: single CU at 0
	header = append(header, byte(d.cfg.PointerWidth))
	header = append(header, 0) // segment_selector_size

	for len(header)%tupleAlign != 0 {
		header = append(header, 0)
	}
	buf := header
	for _, e := range entries {
		buf = putUintPtr(buf, e.addr, d.cfg.PointerWidth, d.cfg.Endian)
		buf = putUintPtr(buf, e.size, d.cfg.PointerWidth, d.cfg.Endian)
	}
	buf = putUintPtr(buf, 0, d.cfg.PointerWidth, d.cfg.Endian)
	buf = putUintPtr(buf, 0, d.cfg.PointerWidth, d.cfg.Endian)
	writeUint32At(buf, 0, uint32(len(buf)-4), d.cfg.Endian)
	return buf
}
