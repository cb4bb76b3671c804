package dwarf

// === DWARF wire constants ===
//
// The tags, attributes, forms and opcodes this emitter writes, plus a few
// unused neighbours (DW_AT_sibling, DW_ATE_float, the rest of the standard
// line opcodes) — this is not a general-purpose DWARF constant table.

// DW_TAG_*
const (
	tagArrayType       = 0x01
	tagEnumerationType = 0x04
	tagFormalParameter = 0x05
	tagCompileUnit     = 0x11
	tagStructureType   = 0x13
	tagUnionType       = 0x17
	tagMember          = 0x0d
	tagPointerType     = 0x0f
	tagSubrangeType    = 0x21
	tagBaseType        = 0x24
	tagSubprogram      = 0x2e
	tagVariable        = 0x34
	tagUnspecifiedType = 0x3b
	tagEnumerator      = 0x28
)

// DW_FORM_*
const (
	formAddr      = 0x01
	formData1     = 0x0b
	formData2     = 0x05
	formData4     = 0x06
	formData8     = 0x07
	formString    = 0x08
	formStrp      = 0x0e
	formRef4      = 0x13
	formExprloc   = 0x18
	formSecOffset = 0x17
	formUdata     = 0x0f
)

// DW_AT_*
const (
	atSibling             = 0x01
	atLocation            = 0x02
	atName                = 0x03
	atByteSize            = 0x0b
	atStmtList            = 0x10
	atLowPC               = 0x11
	atHighPC              = 0x12
	atLanguage            = 0x13
	atCompDir             = 0x1b
	atConstValue          = 0x1c
	atProducer            = 0x25
	atCount               = 0x37
	atDataMemberLocation  = 0x38
	atEncoding            = 0x3e
	atType                = 0x49
)

// DW_ATE_*
const (
	ateAddress  = 0x01
	ateBoolean  = 0x02
	ateFloat    = 0x04
	ateSigned   = 0x05
	ateUnsigned = 0x07
)

// DW_LANG_*
const (
	LangC99 = 0x000c
)

// DW_LNS_* (standard line number opcodes)
const (
	lnsCopy           = 0x01
	lnsAdvancePC      = 0x02
	lnsAdvanceLine    = 0x03
	lnsSetFile        = 0x04
	lnsSetColumn      = 0x05
	lnsNegateStmt     = 0x06
	lnsSetBasicBlock  = 0x07
	lnsConstAddPC     = 0x08
	lnsFixedAdvancePC = 0x09
	lnsSetPrologueEnd = 0x0a
	lnsSetEpilogueBeg = 0x0b
	lnsSetISA         = 0x0c
)

// DW_LNE_* (extended line number opcodes)
const (
	lneEndSequence = 0x01
	lneSetAddress  = 0x02
)

// DW_OP_* (location expression opcodes)
const (
	opAddr           = 0x03
	opDeref          = 0x06
	opConstu         = 0x10
	opConsts         = 0x11
	opLit0           = 0x30
	opReg0           = 0x50
	opBreg0          = 0x70
	opRegx           = 0x90
	opBregx          = 0x92
	opNop            = 0x96
	opImplicitValue  = 0x9e
	opStackValue     = 0x9f
	opWasmLocation   = 0xed
)

// Sub-kinds written after opWasmLocation. Only the "local" kind is needed.
const wasmLocationLocal = 0x00
