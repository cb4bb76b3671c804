package dwarf

import "fmt"

// === Frontend type contract (§6) + Type DIE emitter (C4) ===
//
// Type, TypeKind, TypeQuerier and InternPool are the "frontend contract"
// spec.md §6 enumerates (abiSize, abiAlignment, zigTypeTag, childType,
// intInfo, isSlice, isPtrLikeOptional, optionalChild, errorUnionSet,
// errorUnionPayload, errorSetNames, structFieldOffset,
// arrayLenIncludingSentinel, typeToUnion/getUnionLayout — the last two
// merged into one Union query here, since both describe the same union
// shape and this emitter never needs them separately). The frontend's
// actual type/declaration/interning tables are out of scope per spec.md
// §1; this file only names the shape it must expose.

// TypeKey identifies a frontend type for per-declaration interning
// (spec.md §4.2). Two Type values denoting the same frontend type must
// return equal keys.
type TypeKey string

// Type is an opaque frontend type handle.
type Type interface {
	Key() TypeKey
}

// TypeKind is the coarse category spec.md §4.2's DIE-shape table dispatches
// on, corresponding to the frontend's zigTypeTag.
type TypeKind int

const (
	KindNoReturn TypeKind = iota
	KindVoid
	KindBool
	KindInt
	KindOptional
	KindSlice
	KindPointer
	KindArray
	KindStruct
	KindTuple
	KindEnum
	KindUnionTagged
	KindUnionUntagged
	KindErrorSet
	KindErrorUnion
	KindStructPacked
)

// IntInfo describes a fixed-width integer type's sign and width.
type IntInfo struct {
	Signed bool
	Bits   uint16
}

// StructField describes one field of a struct, tuple, or union variant.
type StructField struct {
	Name           string
	Type           Type
	HasRuntimeBits bool
}

// EnumVariant describes one tag of an enum or error set. Value is nil when
// the frontend assigned no explicit value, in which case the emitter
// numbers variants sequentially starting from 0 (spec.md §4.2).
type EnumVariant struct {
	Name  string
	Value *uint64
}

// UnionInfo is the merged shape of the frontend's typeToUnion/getUnionLayout
// queries: the variant list plus the payload/tag layout spec.md §4.2's
// tagged/untagged union rows need.
type UnionInfo struct {
	Tag          Type // nil for an untagged union
	Fields       []StructField
	PayloadSize  uint64
	PayloadAlign uint64
	TagSize      uint64
	TagAlign     uint64
}

// TypeQuerier is the frontend's type-query surface (spec.md §6).
type TypeQuerier interface {
	AbiSize(t Type) uint64
	AbiAlignment(t Type) uint64
	Tag(t Type) TypeKind // zigTypeTag
	ChildType(t Type) Type
	IntInfo(t Type) IntInfo
	IsSlice(t Type) bool
	IsPtrLikeOptional(t Type) bool
	OptionalChild(t Type) Type
	ErrorUnionSet(t Type) Type
	ErrorUnionPayload(t Type) Type
	ErrorSetNames(t Type) []string
	StructFields(t Type) []StructField
	StructFieldOffset(t Type, fieldIndex int) uint64
	ArrayLenIncludingSentinel(t Type) uint64
	Union(t Type) UnionInfo // typeToUnion + getUnionLayout
	EnumVariants(t Type) []EnumVariant
	Name(t Type) string
	QualifiedName(t Type) string
}

// InternPool is the frontend's string-materialization and error-value
// collaborator (spec.md §6).
type InternPool interface {
	ErrorValue(name string) uint64
}

// internType returns the per-declaration abbrev-table index for t,
// registering a new entry (and, for error-set types, recording their
// member names into the module-wide tally) on first reference. Subsequent
// references to the same type within this declaration return the existing
// index without re-emitting its DIE — the interning property spec.md §8
// tests for.
func (s *declState) internType(t Type) int {
	kind := s.q.Tag(t)
	key := string(t.Key())
	if kind == KindErrorSet {
		// All error-set-shaped types collapse onto the single module-wide
		// "anyerror" enum spec.md §4.6/§9 describes; flushModule
		// synthesizes exactly one DIE no matter how many distinct frontend
		// error-set types referenced it.
		key = "errorset"
	}
	if idx, ok := s.resolver[key]; ok {
		return idx
	}
	idx := len(s.abbrev)
	entry := &declAbbrevEntry{key: key, offset: -1, errorSet: kind == KindErrorSet}
	s.abbrev = append(s.abbrev, entry)
	s.resolver[key] = idx
	if kind == KindErrorSet {
		s.recordErrorSetNames(t)
		// entry.emit stays nil: its DIE is deferred to flushModule.
	} else {
		entry.emit = func() { s.emitTypeDie(t, kind) }
	}
	return idx
}

// internSynthetic interns a DWARF-only type that has no frontend Type
// handle of its own (usize, bool, a pointer-to-X wrapper, or a tagged
// union's anonymous payload union), keyed by a locally built string.
func (s *declState) internSynthetic(key string, emit func()) int {
	if idx, ok := s.resolver[key]; ok {
		return idx
	}
	idx := len(s.abbrev)
	s.abbrev = append(s.abbrev, &declAbbrevEntry{key: key, offset: -1})
	s.resolver[key] = idx
	s.abbrev[idx].emit = emit
	return idx
}

// refType interns t and appends a 4-byte ref4 placeholder to dbgInfo,
// queuing the abbrev reloc that will resolve it at commit (or flush, for
// error-set types) time.
func (s *declState) refType(t Type) {
	s.queueRef(s.internType(t))
}

func (s *declState) queueRef(target int) {
	off := len(s.dbgInfo)
	s.dbgInfo = append(s.dbgInfo, 0, 0, 0, 0)
	s.abbrevRelocs = append(s.abbrevRelocs, declAbbrevReloc{offset: off, target: target})
}

func (s *declState) recordErrorSetNames(t Type) {
	if !s.g.errorSetSeeded {
		s.g.errorSetSeeded = true
		s.g.errorSetAbiSize = s.q.AbiSize(t)
	}
	for _, name := range s.q.ErrorSetNames(t) {
		if _, ok := s.g.errorNames[name]; ok {
			continue
		}
		s.g.errorNames[name] = s.ip.ErrorValue(name)
		s.g.errorOrder = append(s.g.errorOrder, name)
	}
}

func (s *declState) internUsize() int {
	return s.internSynthetic("usize", func() {
		s.writeBaseType("usize", ateUnsigned, byte(s.cfg.PointerWidth))
	})
}

func (s *declState) internBool() int {
	return s.internSynthetic("bool", func() {
		s.writeBaseType("bool", ateBoolean, 1)
	})
}

func (s *declState) internPtrTo(child Type) int {
	key := "ptr:" + string(child.Key())
	return s.internSynthetic(key, func() {
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevPtrType))
		s.refType(child)
	})
}

// writeString appends an inline NUL-terminated DW_FORM_string — every DIE
// in this emitter's abbrev table except compile_unit's name/comp_dir/
// producer (DW_FORM_strp, written only by the section header emitter)
// names itself this way.
func (s *declState) writeString(str string) {
	s.dbgInfo = append(s.dbgInfo, str...)
	s.dbgInfo = append(s.dbgInfo, 0)
}

func (s *declState) writeUleb(v uint64) {
	s.dbgInfo = PutUleb128(s.dbgInfo, v)
}

func (s *declState) writeU32(v uint32) {
	s.dbgInfo = putUint32(s.dbgInfo, v, s.cfg.Endian)
}

func (s *declState) writeU64(v uint64) {
	s.dbgInfo = putUint64(s.dbgInfo, v, s.cfg.Endian)
}

func (s *declState) writeBaseType(name string, enc byte, size byte) {
	s.dbgInfo = append(s.dbgInfo, byte(AbbrevBaseType))
	s.dbgInfo = append(s.dbgInfo, enc)
	s.writeUleb(uint64(size))
	s.writeString(name)
}

// emitTypeDie appends one complete DIE for t (kind already resolved) to
// dbgInfo, per the table in spec.md §4.2. It is only ever invoked from an
// abbrev-table entry's emit closure, during commitDeclState.
func (s *declState) emitTypeDie(t Type, kind TypeKind) {
	q := s.q
	switch kind {
	case KindVoid:
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevPad1))

	case KindBool:
		s.writeBaseType(q.Name(t), ateBoolean, 1)

	case KindInt:
		ii := q.IntInfo(t)
		enc := byte(ateUnsigned)
		if ii.Signed {
			enc = ateSigned
		}
		size := (ii.Bits + 7) / 8
		if size == 0 {
			size = 1
		}
		s.writeBaseType(q.Name(t), enc, byte(size))

	case KindOptional:
		if q.IsPtrLikeOptional(t) {
			s.writeBaseType(q.Name(t), ateAddress, byte(q.AbiSize(t)))
			return
		}
		payload := q.OptionalChild(t)
		size := q.AbiSize(t)
		payloadSize := q.AbiSize(payload)
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructType))
		s.writeUleb(size)
		s.writeString(q.Name(t))
		// maybe: bool @0
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
		s.writeString("maybe")
		s.queueRef(s.internBool())
		s.writeUleb(0)
		// val: payload @(size-payload.size)
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
		s.writeString("val")
		s.refType(payload)
		valOff := uint64(0)
		if size > payloadSize {
			valOff = size - payloadSize
		}
		s.writeUleb(valOff)
		s.dbgInfo = append(s.dbgInfo, 0)

	case KindSlice:
		child := q.ChildType(t)
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructType))
		s.writeUleb(q.AbiSize(t))
		s.writeString(q.Name(t))
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
		s.writeString("ptr")
		s.queueRef(s.internPtrTo(child))
		s.writeUleb(0)
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
		s.writeString("len")
		s.queueRef(s.internUsize())
		s.writeUleb(uint64(s.cfg.PointerWidth))
		s.dbgInfo = append(s.dbgInfo, 0)

	case KindPointer:
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevPtrType))
		s.refType(q.ChildType(t))

	case KindArray:
		elem := q.ChildType(t)
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevArrayType))
		s.writeString(q.Name(t))
		s.refType(elem)
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevArrayDim))
		s.queueRef(s.internUsize())
		s.writeUleb(q.ArrayLenIncludingSentinel(t))
		s.dbgInfo = append(s.dbgInfo, 0)

	case KindStruct, KindStructPacked:
		s.emitStructLike(t, q.QualifiedName(t), q.StructFields(t), kind == KindStructPacked)

	case KindTuple:
		fields := q.StructFields(t)
		named := make([]StructField, len(fields))
		for i, f := range fields {
			named[i] = StructField{Name: fmt.Sprintf("%d", i), Type: f.Type, HasRuntimeBits: f.HasRuntimeBits}
		}
		s.emitStructLike(t, q.Name(t), named, false)

	case KindEnum:
		s.emitEnumLike(q.Name(t), q.AbiSize(t), q.EnumVariants(t))

	case KindUnionTagged:
		s.emitTaggedUnion(t)

	case KindUnionUntagged:
		u := q.Union(t)
		s.emitUnionBody(q.Name(t), u.PayloadSize, u.Fields)

	case KindErrorUnion:
		s.emitErrorUnion(t)

	default:
		log.WithField("kind", int(kind)).Warn("dwarf: type has no DIE shape, degrading to pad1")
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevPad1))
	}
}

func (s *declState) emitStructLike(t Type, name string, fields []StructField, packed bool) {
	q := s.q
	s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructType))
	s.writeUleb(q.AbiSize(t))
	s.writeString(name)
	if packed {
		// spec.md §9: packed-struct DIEs are emitted empty (documented
		// limitation pending a DWARF-5 DW_AT_bit_offset scheme).
		s.dbgInfo = append(s.dbgInfo, 0)
		return
	}
	for i, f := range fields {
		if !f.HasRuntimeBits {
			continue
		}
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
		s.writeString(f.Name)
		s.refType(f.Type)
		s.writeUleb(q.StructFieldOffset(t, i))
	}
	s.dbgInfo = append(s.dbgInfo, 0)
}

func (s *declState) emitEnumLike(name string, size uint64, variants []EnumVariant) {
	s.dbgInfo = append(s.dbgInfo, byte(AbbrevEnumType))
	s.writeUleb(size)
	s.writeString(name)
	next := uint64(0)
	for _, v := range variants {
		val := next
		if v.Value != nil {
			val = *v.Value
		}
		next = val + 1
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevEnumVariant))
		s.writeString(v.Name)
		s.writeU64(val)
	}
	s.dbgInfo = append(s.dbgInfo, 0)
}

func (s *declState) emitUnionBody(name string, size uint64, fields []StructField) {
	s.dbgInfo = append(s.dbgInfo, byte(AbbrevUnionType))
	s.writeUleb(size)
	s.writeString(name)
	for _, f := range fields {
		if !f.HasRuntimeBits {
			continue
		}
		s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
		s.writeString(f.Name)
		s.refType(f.Type)
		s.writeUleb(0)
	}
	s.dbgInfo = append(s.dbgInfo, 0)
}

func (s *declState) emitTaggedUnion(t Type) {
	q := s.q
	u := q.Union(t)
	payloadOff, tagOff := uint64(0), uint64(0)
	if u.TagAlign >= u.PayloadAlign {
		payloadOff = u.TagSize
	} else {
		tagOff = u.PayloadSize
	}
	s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructType))
	s.writeUleb(q.AbiSize(t))
	s.writeString(q.Name(t))

	s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
	s.writeString("payload")
	anonKey := "anonunion:" + string(t.Key())
	s.queueRef(s.internSynthetic(anonKey, func() {
		s.emitUnionBody("AnonUnion", u.PayloadSize, u.Fields)
	}))
	s.writeUleb(payloadOff)

	s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
	s.writeString("tag")
	s.refType(u.Tag)
	s.writeUleb(tagOff)

	s.dbgInfo = append(s.dbgInfo, 0)
}

func (s *declState) emitErrorUnion(t Type) {
	q := s.q
	payload := q.ErrorUnionPayload(t)
	errSet := q.ErrorUnionSet(t)
	payloadSize := q.AbiSize(payload)
	payloadAlign := q.AbiAlignment(payload)
	errSize := q.AbiSize(errSet)
	errAlign := q.AbiAlignment(errSet)

	payloadOff, errOff := uint64(0), uint64(0)
	if payloadAlign >= errAlign {
		errOff = payloadSize
	} else {
		payloadOff = errSize
	}

	s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructType))
	s.writeUleb(q.AbiSize(t))
	s.writeString(q.Name(t))

	s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
	s.writeString("value")
	s.refType(payload)
	s.writeUleb(payloadOff)

	s.dbgInfo = append(s.dbgInfo, byte(AbbrevStructMember))
	s.writeString("err")
	s.refType(errSet)
	s.writeUleb(errOff)

	s.dbgInfo = append(s.dbgInfo, 0)
}

