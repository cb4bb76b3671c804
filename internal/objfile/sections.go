// Package objfile provides a minimal in-memory implementation of
// dwarf.SectionGrower good enough to exercise and test the dwarf package's
// three container variants. It is not a general object-file writer: the
// concrete ELF/Mach-O/Wasm file-level section growers are external
// collaborators per spec.md §1/§6, out of scope for this repository.
//
// The bookkeeping style (name→offset maps, growable []byte buffers written
// through small put* helpers) is adapted from tinyrange-rtg's
// std/compiler/elf_x64.go and wasm_module.go section builders, which grow
// and lay out .text/.rodata/.symtab/.strtab in exactly this shape.
package objfile

import "fmt"

// SectionID mirrors dwarf.SectionID without importing the dwarf package,
// keeping this package usable by any SectionGrower client.
type SectionID int

const (
	SectionDebugInfo SectionID = iota
	SectionDebugAbbrev
	SectionDebugLine
	SectionDebugAranges
	SectionDebugStr
)

func (s SectionID) String() string {
	names := [...]string{".debug_info", ".debug_abbrev", ".debug_line", ".debug_aranges", ".debug_str"}
	if int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// section is one growable, byte-addressed region.
type section struct {
	data  []byte
	dirty bool
}

// MemorySections is an in-memory SectionGrower: each SectionID maps to one
// growable buffer, just as tinyrange-rtg's CodeGen keeps one []byte per ELF
// section (code, rodata, data) and grows them with append/copy.
type MemorySections struct {
	sections map[SectionID]*section
}

// NewMemorySections returns an empty set of sections.
func NewMemorySections() *MemorySections {
	return &MemorySections{sections: make(map[SectionID]*section)}
}

func (m *MemorySections) get(id SectionID) *section {
	s, ok := m.sections[id]
	if !ok {
		s = &section{}
		m.sections[id] = s
	}
	return s
}

// GrowSection ensures the section holds at least neededSize bytes. Growth
// always over-allocates to the next multiple of alignment; allowShrink lets
// the caller reclaim trailing space instead of only ever growing.
func (m *MemorySections) GrowSection(id SectionID, neededSize int, alignment int, allowShrink bool) error {
	if neededSize < 0 {
		return fmt.Errorf("objfile: negative size %d for %s", neededSize, id)
	}
	if alignment < 1 {
		alignment = 1
	}
	aligned := (neededSize + alignment - 1) / alignment * alignment
	s := m.get(id)
	switch {
	case aligned > len(s.data):
		grown := make([]byte, aligned)
		copy(grown, s.data)
		s.data = grown
	case aligned < len(s.data) && allowShrink:
		s.data = s.data[:aligned]
	}
	return nil
}

// WriteWithPadding writes prevPad, payload and nextPad contiguously
// starting at offset, growing the section first if necessary.
func (m *MemorySections) WriteWithPadding(id SectionID, offset int, prevPad, payload, nextPad []byte) error {
	total := offset + len(prevPad) + len(payload) + len(nextPad)
	if err := m.GrowSection(id, total, 1, false); err != nil {
		return err
	}
	s := m.get(id)
	n := offset
	n += copy(s.data[n:], prevPad)
	n += copy(s.data[n:], payload)
	copy(s.data[n:], nextPad)
	return nil
}

// MarkDirty flags a section as needing a full rewrite by its owner (the
// dwarf package's section-header emitter decides what "rewrite" means).
func (m *MemorySections) MarkDirty(id SectionID) {
	m.get(id).dirty = true
}

// Dirty reports and clears a section's dirty flag.
func (m *MemorySections) Dirty(id SectionID) bool {
	s := m.get(id)
	d := s.dirty
	s.dirty = false
	return d
}

// Bytes returns the current contents of a section, for tests and for a
// driver that needs to copy the finished sections into a real object file.
func (m *MemorySections) Bytes(id SectionID) []byte {
	return m.get(id).data
}
