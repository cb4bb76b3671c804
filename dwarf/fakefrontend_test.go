package dwarf

// A minimal fake frontend implementing TypeQuerier/InternPool, just rich
// enough to drive the emitter end to end in emitter_test.go. Real frontends
// (a self-hosted compiler's type/decl tables) are out of scope per spec.md
// §1/§6.

type fakeType struct {
	key  string
	kind TypeKind

	name     string
	qualName string
	size     uint64
	align    uint64

	intInfo IntInfo
	child   *fakeType
	fields  []StructField
	errors  []string
}

func (f *fakeType) Key() TypeKey { return TypeKey(f.key) }

type fakeQuerier struct{}

func ft(t Type) *fakeType { return t.(*fakeType) }

func (fakeQuerier) AbiSize(t Type) uint64      { return ft(t).size }
func (fakeQuerier) AbiAlignment(t Type) uint64 { return ft(t).align }
func (fakeQuerier) Tag(t Type) TypeKind        { return ft(t).kind }
func (fakeQuerier) ChildType(t Type) Type      { return ft(t).child }
func (fakeQuerier) IntInfo(t Type) IntInfo     { return ft(t).intInfo }
func (fakeQuerier) IsSlice(t Type) bool        { return ft(t).kind == KindSlice }
func (fakeQuerier) IsPtrLikeOptional(Type) bool {
	return false
}
func (fakeQuerier) OptionalChild(t Type) Type     { return ft(t).child }
func (fakeQuerier) ErrorUnionSet(t Type) Type     { return ft(t).child }
func (fakeQuerier) ErrorUnionPayload(t Type) Type { return ft(t).child }
func (fakeQuerier) ErrorSetNames(t Type) []string { return ft(t).errors }
func (fakeQuerier) StructFields(t Type) []StructField {
	return ft(t).fields
}
func (fakeQuerier) StructFieldOffset(t Type, fieldIndex int) uint64 {
	off := uint64(0)
	for i := 0; i < fieldIndex; i++ {
		off += 8
	}
	return off
}
func (fakeQuerier) ArrayLenIncludingSentinel(t Type) uint64 { return 4 }
func (fakeQuerier) Union(t Type) UnionInfo {
	f := ft(t)
	return UnionInfo{Fields: f.fields, PayloadSize: f.size, PayloadAlign: f.align, TagSize: 1, TagAlign: 1}
}
func (fakeQuerier) EnumVariants(Type) []EnumVariant { return nil }
func (fakeQuerier) Name(t Type) string              { return ft(t).name }
func (fakeQuerier) QualifiedName(t Type) string     { return ft(t).qualName }

type fakeInternPool struct{ values map[string]uint64 }

func (p fakeInternPool) ErrorValue(name string) uint64 { return p.values[name] }

var fakeI32 = &fakeType{key: "i32", kind: KindInt, name: "i32", size: 4, align: 4, intInfo: IntInfo{Signed: true, Bits: 32}}
var fakeVoid = &fakeType{key: "void", kind: KindVoid, name: "void"}
