package dwarf

import "errors"

// Sentinel error kinds per spec.md §7. A call site that returns one wraps it
// with fmt.Errorf("...: %w", ErrX) so a driver can branch with errors.Is
// while still getting a useful message — tinyrange-rtg's backend.go never
// needed this because it only ever had one caller (main.go) and just
// returned bare fmt.Errorf values. Errors from the SectionGrower are passed
// through wrapped as they come.
var (
	// ErrOutOfMemory names the allocator-failure kind. No code in this
	// package returns it.
	ErrOutOfMemory = errors.New("dwarf: out of memory")

	// ErrShortWrite names the short-write kind for a container adapter that
	// could not write the full requested payload. No code in this package
	// returns it; the in-memory grower it ships never writes short.
	ErrShortWrite = errors.New("dwarf: short write")

	// ErrUnsupportedType is returned only in contexts where degrading to a
	// pad1 DIE is not possible (there are none in this emitter's normal
	// operation; emitTypeDie always degrades instead of returning this, per
	// spec.md §7). Kept for completeness of the error-kind vocabulary and
	// for future callers that want strict mode.
	ErrUnsupportedType = errors.New("dwarf: unsupported type")

	// ErrUnknownDecl is returned when UpdateDeclLineNumber or UpdateDeclFile
	// is called for a declaration that was never committed with a line atom.
	ErrUnknownDecl = errors.New("dwarf: unknown declaration")
)
