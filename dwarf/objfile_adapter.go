package dwarf

import "j5.nz/dwemit/internal/objfile"

// objfileGrower adapts internal/objfile.MemorySections to the SectionGrower
// interface. internal/objfile intentionally doesn't import dwarf (it is
// meant to be usable by any SectionGrower client), so the two SectionID
// types are distinct named ints with the same underlying values — the
// translation is a 1:1 cast below, not a real mapping table.
type objfileGrower struct {
	mem *objfile.MemorySections
}

// NewMemoryContainer builds a Container backed by an in-memory
// internal/objfile.MemorySections, the only SectionGrower this repository
// ships (see SPEC_FULL.md §6.1 for why a file-backed ELF/Mach-O/Wasm grower
// is out of scope).
func NewMemoryContainer(kind ContainerKind, mem *objfile.MemorySections) *Container {
	return NewContainer(kind, objfileGrower{mem: mem})
}

func toObjfileID(id SectionID) objfile.SectionID { return objfile.SectionID(id) }

func (g objfileGrower) GrowSection(id SectionID, neededSize, alignment int, allowShrink bool) error {
	return g.mem.GrowSection(toObjfileID(id), neededSize, alignment, allowShrink)
}

func (g objfileGrower) WriteWithPadding(id SectionID, offset int, prevPad, payload, nextPad []byte) error {
	return g.mem.WriteWithPadding(toObjfileID(id), offset, prevPad, payload, nextPad)
}

func (g objfileGrower) MarkDirty(id SectionID) {
	g.mem.MarkDirty(toObjfileID(id))
}
