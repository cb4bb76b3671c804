package dwarf

// === Abbreviation table (C4 support) ===
//
// spec.md §4.4 fixes a single, immutable .debug_abbrev table shared by every
// compile unit this emitter ever produces — unlike .debug_info, it is never
// grown incrementally, so it carries no atom-pool bookkeeping at all. The
// byte-level table is built once, at init time, the same way tinyrange-rtg's
// elf_x64.go assembles its fixed ELF section header template with a run of
// put8/put32 calls rather than a struct literal.

// AbbrevKind names one of the fifteen fixed abbreviation codes. The numeric
// value IS the abbreviation code written as each .debug_info DIE's leading
// byte.
type AbbrevKind byte

const (
	AbbrevCompileUnit AbbrevKind = iota + 1
	AbbrevSubprogram
	AbbrevSubprogramRetvoid
	AbbrevBaseType
	AbbrevPtrType
	AbbrevStructType
	AbbrevStructMember
	AbbrevEnumType
	AbbrevEnumVariant
	AbbrevUnionType
	AbbrevPad1
	AbbrevParameter
	AbbrevVariable
	AbbrevArrayType
	AbbrevArrayDim
)

const (
	childrenNo  = 0
	childrenYes = 1
)

type abbrevAttr struct {
	attr byte
	form byte
}

type abbrevDecl struct {
	code     AbbrevKind
	tag      byte
	children byte
	attrs    []abbrevAttr
}

// abbrevTable is the full, fixed list of declarations, in code order,
// matching spec.md §4.4 exactly.
var abbrevTable = []abbrevDecl{
	{AbbrevCompileUnit, tagCompileUnit, childrenYes, []abbrevAttr{
		{atStmtList, formSecOffset},
		{atLowPC, formAddr},
		{atHighPC, formAddr},
		{atName, formStrp},
		{atCompDir, formStrp},
		{atProducer, formStrp},
		{atLanguage, formData2},
	}},
	{AbbrevSubprogram, tagSubprogram, childrenYes, []abbrevAttr{
		{atLowPC, formAddr},
		{atHighPC, formData4},
		{atType, formRef4},
		{atName, formString},
	}},
	{AbbrevSubprogramRetvoid, tagSubprogram, childrenYes, []abbrevAttr{
		{atLowPC, formAddr},
		{atHighPC, formData4},
		{atName, formString},
	}},
	{AbbrevBaseType, tagBaseType, childrenNo, []abbrevAttr{
		{atEncoding, formData1},
		{atByteSize, formUdata},
		{atName, formString},
	}},
	{AbbrevPtrType, tagPointerType, childrenNo, []abbrevAttr{
		{atType, formRef4},
	}},
	{AbbrevStructType, tagStructureType, childrenYes, []abbrevAttr{
		{atByteSize, formUdata},
		{atName, formString},
	}},
	{AbbrevStructMember, tagMember, childrenNo, []abbrevAttr{
		{atName, formString},
		{atType, formRef4},
		{atDataMemberLocation, formUdata},
	}},
	{AbbrevEnumType, tagEnumerationType, childrenYes, []abbrevAttr{
		{atByteSize, formUdata},
		{atName, formString},
	}},
	{AbbrevEnumVariant, tagEnumerator, childrenNo, []abbrevAttr{
		{atName, formString},
		{atConstValue, formData8},
	}},
	{AbbrevUnionType, tagUnionType, childrenYes, []abbrevAttr{
		{atByteSize, formUdata},
		{atName, formString},
	}},
	{AbbrevPad1, tagUnspecifiedType, childrenNo, nil},
	{AbbrevParameter, tagFormalParameter, childrenNo, []abbrevAttr{
		{atLocation, formExprloc},
		{atType, formRef4},
		{atName, formString},
	}},
	{AbbrevVariable, tagVariable, childrenNo, []abbrevAttr{
		{atLocation, formExprloc},
		{atType, formRef4},
		{atName, formString},
	}},
	{AbbrevArrayType, tagArrayType, childrenYes, []abbrevAttr{
		{atName, formString},
		{atType, formRef4},
	}},
	{AbbrevArrayDim, tagSubrangeType, childrenNo, []abbrevAttr{
		{atType, formRef4},
		{atCount, formUdata},
	}},
}

// buildAbbrevSection serializes abbrevTable into the on-disk .debug_abbrev
// byte layout (DWARF-4 §7.5.3): ULEB code, ULEB tag, children byte, then
// ULEB attr/ULEB form pairs terminated by 0,0, the whole table terminated by
// a final code-0 byte.
func buildAbbrevSection() []byte {
	var buf []byte
	for _, d := range abbrevTable {
		buf = PutUleb128(buf, uint64(d.code))
		buf = PutUleb128(buf, uint64(d.tag))
		buf = append(buf, d.children)
		for _, a := range d.attrs {
			buf = PutUleb128(buf, uint64(a.attr))
			buf = PutUleb128(buf, uint64(a.form))
		}
		buf = PutUleb128(buf, 0)
		buf = PutUleb128(buf, 0)
	}
	buf = PutUleb128(buf, 0)
	return buf
}
