package wasm

// Module represents a parsed WebAssembly module
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // Type indices for declared functions
	Tables   []TableType
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Start    *uint32
	Code     []FuncBody
	Data     []DataSegment

	// Elements holds the raw element section payload. Table contents are
	// not needed to render call_indirect, so segments are not decoded.
	Elements []byte

	// DataCount holds the count from the DataCount section (ID 12).
	DataCount *uint32

	CustomSections []CustomSection
}

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// ValType represents a WebAssembly value type.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	default:
		return "unknown"
	}
}

// Import represents an imported function, table, memory or global.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported item.
// Kind uses KindFunc, KindTable, KindMemory or KindGlobal.
type ImportDesc struct {
	Table   *TableType
	Memory  *MemoryType
	Global  *GlobalType
	TypeIdx uint32
	Kind    byte
}

// Limits bounds a table or memory size.
type Limits struct {
	Max    *uint64
	Min    uint64
	Shared bool
}

// TableType describes a table.
type TableType struct {
	Limits   Limits
	ElemType byte
}

// MemoryType describes a linear memory in pages.
type MemoryType struct {
	Limits Limits
}

// GlobalType describes a global's value type and mutability.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global is a module-defined global with its constant init expression
// (raw bytes including the terminating end opcode).
type Global struct {
	Init []byte
	Type GlobalType
}

// Export is a named export of a function, table, memory or global.
type Export struct {
	Name string
	Idx  uint32
	Kind byte
}

// LocalEntry is one run-length entry of a function's declared locals.
type LocalEntry struct {
	Count   uint32
	ValType ValType
}

// FuncBody holds the declared locals and raw code of a defined function.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte
}

// DataSegment is a data section entry. Passive segments have no offset.
type DataSegment struct {
	Offset []byte
	Init   []byte
	MemIdx uint32
	Flags  uint32
}

// CustomSection is an unparsed custom section.
type CustomSection struct {
	Name string
	Data []byte
}

// NumImportedFuncs returns the number of imported functions.
func (m *Module) NumImportedFuncs() int {
	return m.countImports(KindFunc)
}

// NumImportedGlobals returns the number of imported globals.
func (m *Module) NumImportedGlobals() int {
	return m.countImports(KindGlobal)
}

func (m *Module) countImports(kind byte) int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == kind {
			n++
		}
	}
	return n
}

// FuncTypeOf returns the signature of the function at funcIdx in the
// function index space (imports first).
func (m *Module) FuncTypeOf(funcIdx uint32) (*FuncType, bool) {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Desc.Kind != KindFunc {
			continue
		}
		if n == funcIdx {
			return m.typeAt(imp.Desc.TypeIdx)
		}
		n++
	}
	local := funcIdx - n
	if int(local) >= len(m.Funcs) {
		return nil, false
	}
	return m.typeAt(m.Funcs[local])
}

func (m *Module) typeAt(idx uint32) (*FuncType, bool) {
	if int(idx) >= len(m.Types) {
		return nil, false
	}
	return &m.Types[idx], true
}

// GlobalTypeOf returns the type of the global at globalIdx in the global
// index space (imports first).
func (m *Module) GlobalTypeOf(globalIdx uint32) (GlobalType, bool) {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Desc.Kind != KindGlobal || imp.Desc.Global == nil {
			continue
		}
		if n == globalIdx {
			return *imp.Desc.Global, true
		}
		n++
	}
	local := globalIdx - n
	if int(local) >= len(m.Globals) {
		return GlobalType{}, false
	}
	return m.Globals[local].Type, true
}

// Memory returns the limits of memory 0, whether imported or defined.
func (m *Module) Memory() (MemoryType, bool) {
	for _, imp := range m.Imports {
		if imp.Desc.Kind == KindMemory && imp.Desc.Memory != nil {
			return *imp.Desc.Memory, true
		}
	}
	if len(m.Memories) > 0 {
		return m.Memories[0], true
	}
	return MemoryType{}, false
}

// CustomSection returns the first custom section with the given name.
func (m *Module) CustomSection(name string) (*CustomSection, bool) {
	for i := range m.CustomSections {
		if m.CustomSections[i].Name == name {
			return &m.CustomSections[i], true
		}
	}
	return nil, false
}
