package dwarf

import "fmt"

// === Container adapter (C8) ===
//
// spec.md §9 asks for the container variant to be "a tagged sum type
// (ELF/Mach-O/Wasm) exposing a uniform interface; avoid dynamic dispatch —
// only three variants exist, all known at build time." tinyrange-rtg's
// std/compiler/backend.go does exactly this for its own three-ish target
// families: GenerateELF switches on targetGOARCH/targetGOOS rather than
// handing out a Backend interface with one implementation per platform.
// Here ContainerKind is recorded on the Container and reported by Kind();
// the write path is the same for all three kinds and goes through the
// SectionGrower interface the driver supplies, with no per-kind branching.

// SectionID names one of the five debug sections this package knows about.
type SectionID int

const (
	SectionDebugInfo SectionID = iota
	SectionDebugAbbrev
	SectionDebugLine
	SectionDebugAranges
	SectionDebugStr
)

func (s SectionID) String() string {
	switch s {
	case SectionDebugInfo:
		return ".debug_info"
	case SectionDebugAbbrev:
		return ".debug_abbrev"
	case SectionDebugLine:
		return ".debug_line"
	case SectionDebugAranges:
		return ".debug_aranges"
	case SectionDebugStr:
		return ".debug_str"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// ContainerKind selects which of the three container families this emitter
// is targeting. The concrete file-level writers behind each kind (ELF
// section growth, Mach-O companion dSYM growth, Wasm custom-section growth)
// are external collaborators per spec.md §1/§6; SectionGrower is the only
// interface this package calls against.
type ContainerKind int

const (
	ContainerELF ContainerKind = iota
	ContainerMachO
	ContainerWasm
)

// SectionGrower is the out-of-scope "concrete container-file writer"
// collaborator of spec.md §4.7/§6: section growth, file-position lookup and
// dirty-marking. internal/objfile provides the one in-memory implementation
// this repository ships; a real linker backs ContainerELF/ContainerMachO
// with an os.File-backed grower and ContainerWasm with its own growable
// custom-section buffer.
type SectionGrower interface {
	// GrowSection ensures the section can hold at least neededSize bytes,
	// respecting alignment. allowShrink permits (but does not require) the
	// grower to reclaim trailing space no longer in use.
	GrowSection(id SectionID, neededSize int, alignment int, allowShrink bool) error

	// WriteWithPadding writes prevPad, then payload, then nextPad,
	// contiguously starting at offset, in one call — per spec.md §4.1 this
	// is "the only way to preserve the invariant that the section is valid
	// DWARF after any single atomic write."
	WriteWithPadding(id SectionID, offset int, prevPad, payload, nextPad []byte) error

	// MarkDirty flags a section as needing to be rewritten in full (used
	// after file-table changes force a .debug_line prologue rewrite).
	MarkDirty(id SectionID)
}

// Container is the facade of spec.md §4.7/C8: a uniform surface over the
// three SectionGrower-backed variants, with the lane padding-byte policy
// baked in per section.
type Container struct {
	kind   ContainerKind
	grower SectionGrower
}

// NewContainer builds the facade for one of the three supported container
// kinds, wrapping whatever SectionGrower the driver supplies.
func NewContainer(kind ContainerKind, grower SectionGrower) *Container {
	return &Container{kind: kind, grower: grower}
}

func (c *Container) Kind() ContainerKind { return c.kind }

// padByteFor returns the fill byte spec.md §3/§4.7 requires for a section's
// padding gaps: DW_LNS_negate_stmt for .debug_line, AbbrevKind pad1's tag
// byte for .debug_info. Only these two sections ever hold atoms.
func padByteFor(id SectionID) byte {
	switch id {
	case SectionDebugLine:
		return lnsNegateStmt
	case SectionDebugInfo:
		return byte(AbbrevPad1)
	default:
		return 0
	}
}

// fillPadding returns n bytes of the section's padding fill byte. For
// .debug_line an odd padding count can't be a single negate_stmt repeated
// (each byte IS independently a valid negate_stmt opcode, so this is in
// fact always safe) — spec.md §3 additionally allows a 3-byte
// advance_pc(0) run; this emitter always uses the simpler single-byte
// negate_stmt fill, which is valid for any length including odd ones.
func fillPadding(id SectionID, n int) []byte {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	b := padByteFor(id)
	for i := range buf {
		buf[i] = b
	}
	return buf
}

// growAndWrite grows the section to cover [offset, offset+len(prevPad)+len(payload)+len(nextPad))
// and performs the single atomic write spec.md §4.1 requires.
func (c *Container) growAndWrite(id SectionID, offset int, prevPad, payload, nextPad []byte) error {
	total := offset + len(prevPad) + len(payload) + len(nextPad)
	if err := c.grower.GrowSection(id, total, c.alignmentFor(id), false); err != nil {
		return fmt.Errorf("dwarf: grow %s to %d bytes: %w", id, total, err)
	}
	if err := c.grower.WriteWithPadding(id, offset, prevPad, payload, nextPad); err != nil {
		return fmt.Errorf("dwarf: write %s at %d: %w", id, offset, err)
	}
	return nil
}

// alignmentFor returns the size granularity used when growing a section:
// 8 bytes for .debug_aranges, 1 byte for the others. The Container does not
// know the pointer width; the 2*ptr_width alignment of the aranges tuples
// themselves is applied by buildAranges.
func (c *Container) alignmentFor(id SectionID) int {
	switch id {
	case SectionDebugAranges:
		return 8
	default:
		return 1
	}
}

func (c *Container) markDirty(id SectionID) { c.grower.MarkDirty(id) }
