package wasm_test

import (
	"errors"
	"testing"

	"github.com/wippyai/wasm2c/wasm"
	"github.com/wippyai/wasm2c/wasm/internal/binary"
)

func ptrTo[T any](v T) *T { return &v }

func TestParseMinimalModule(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	m, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if m == nil {
		t.Fatal("expected non-nil module")
	}
}

func TestParseInvalidMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}
	_, err := wasm.ParseModule(data)
	if !errors.Is(err, wasm.ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestParseInvalidVersion(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}
	_, err := wasm.ParseModule(data)
	if !errors.Is(err, wasm.ErrInvalidVersion) {
		t.Errorf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestParseTruncatedHeader(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated header")
	}
}

func TestParseTruncatedSection(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00, wasm.SectionType, 0x10, 0x01}
	_, err := wasm.ParseModule(data)
	var pe *binary.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Position != 10 {
		t.Errorf("position = %d, want 10", pe.Position)
	}
}

func TestParseSectionOutOfOrder(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
		wasm.SectionMemory, 0x03, 0x01, 0x00, 0x01,
		wasm.SectionType, 0x01, 0x00,
	}
	if _, err := wasm.ParseModule(data); err == nil {
		t.Error("expected out-of-order error")
	}
}

func TestParseFuncCodeMismatch(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0},
	}
	if _, err := wasm.ParseModule(m.Encode()); err == nil {
		t.Error("expected error for missing code section")
	}
}

func TestParseRoundTrip(t *testing.T) {
	start := uint32(1)
	m := &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}},
			{},
		},
		Imports: []wasm.Import{
			{Module: "env", Name: "log", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 1}},
			{Module: "env", Name: "g", Desc: wasm.ImportDesc{Kind: wasm.KindGlobal, Global: &wasm.GlobalType{ValType: wasm.ValI64}}},
		},
		Funcs:    []uint32{0},
		Tables:   []wasm.TableType{{ElemType: byte(wasm.ValFuncRef), Limits: wasm.Limits{Min: 1}}},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1, Max: ptrTo(uint64(4))}}},
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValI32, Mutable: true}, Init: []byte{wasm.OpI32Const, 0x2A, wasm.OpEnd}},
		},
		Exports: []wasm.Export{{Name: "add", Kind: wasm.KindFunc, Idx: 1}},
		Start:   &start,
		Code: []wasm.FuncBody{{
			Locals: []wasm.LocalEntry{{Count: 2, ValType: wasm.ValF64}},
			Code:   []byte{wasm.OpLocalGet, 0, wasm.OpLocalGet, 1, wasm.OpI32Add, wasm.OpEnd},
		}},
		Data: []wasm.DataSegment{
			{Flags: 0, Offset: []byte{wasm.OpI32Const, 0x08, wasm.OpEnd}, Init: []byte("hi")},
		},
		CustomSections: []wasm.CustomSection{{Name: "producers", Data: []byte{0x00}}},
	}

	parsed, err := wasm.ParseModule(m.Encode())
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}

	if len(parsed.Types) != 2 || len(parsed.Types[0].Params) != 2 {
		t.Errorf("types = %+v", parsed.Types)
	}
	if parsed.NumImportedFuncs() != 1 || parsed.NumImportedGlobals() != 1 {
		t.Errorf("imports: funcs=%d globals=%d", parsed.NumImportedFuncs(), parsed.NumImportedGlobals())
	}
	mem, ok := parsed.Memory()
	if !ok || mem.Limits.Min != 1 || mem.Limits.Max == nil || *mem.Limits.Max != 4 {
		t.Errorf("memory = %+v, ok=%v", mem, ok)
	}
	if string(parsed.Globals[0].Init) != string([]byte{wasm.OpI32Const, 0x2A, wasm.OpEnd}) {
		t.Errorf("global init = %v", parsed.Globals[0].Init)
	}
	if parsed.Start == nil || *parsed.Start != 1 {
		t.Errorf("start = %v", parsed.Start)
	}
	if len(parsed.Code) != 1 || parsed.Code[0].Locals[0].Count != 2 {
		t.Errorf("code = %+v", parsed.Code)
	}
	if len(parsed.Code[0].Code) != 6 {
		t.Errorf("body length = %d, want 6", len(parsed.Code[0].Code))
	}
	if string(parsed.Data[0].Init) != "hi" || len(parsed.Data[0].Offset) != 3 {
		t.Errorf("data = %+v", parsed.Data[0])
	}
	if _, ok := parsed.CustomSection("producers"); !ok {
		t.Error("custom section lost")
	}
}

func TestModuleTypeLookups(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{
			{Results: []wasm.ValType{wasm.ValI32}},
			{Params: []wasm.ValType{wasm.ValF32}},
		},
		Imports: []wasm.Import{
			{Module: "env", Name: "f", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 1}},
			{Module: "env", Name: "g", Desc: wasm.ImportDesc{Kind: wasm.KindGlobal, Global: &wasm.GlobalType{ValType: wasm.ValF64}}},
		},
		Funcs:   []uint32{0},
		Globals: []wasm.Global{{Type: wasm.GlobalType{ValType: wasm.ValI64}}},
	}

	tests := []struct {
		idx    uint32
		params int
		ok     bool
	}{
		{0, 1, true},
		{1, 0, true},
		{2, 0, false},
	}
	for _, tt := range tests {
		ft, ok := m.FuncTypeOf(tt.idx)
		if ok != tt.ok {
			t.Errorf("FuncTypeOf(%d) ok = %v, want %v", tt.idx, ok, tt.ok)
			continue
		}
		if ok && len(ft.Params) != tt.params {
			t.Errorf("FuncTypeOf(%d) params = %d, want %d", tt.idx, len(ft.Params), tt.params)
		}
	}

	if gt, ok := m.GlobalTypeOf(0); !ok || gt.ValType != wasm.ValF64 {
		t.Errorf("GlobalTypeOf(0) = %v, %v", gt, ok)
	}
	if gt, ok := m.GlobalTypeOf(1); !ok || gt.ValType != wasm.ValI64 {
		t.Errorf("GlobalTypeOf(1) = %v, %v", gt, ok)
	}
	if _, ok := m.GlobalTypeOf(2); ok {
		t.Error("GlobalTypeOf(2) should fail")
	}
}

func TestModuleMemoryAbsent(t *testing.T) {
	m := &wasm.Module{}
	if _, ok := m.Memory(); ok {
		t.Error("expected no memory")
	}
}

func TestValTypeString(t *testing.T) {
	tests := []struct {
		v    wasm.ValType
		want string
	}{
		{wasm.ValI32, "i32"},
		{wasm.ValI64, "i64"},
		{wasm.ValF32, "f32"},
		{wasm.ValF64, "f64"},
		{wasm.ValType(0x01), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("ValType(0x%02x).String() = %q, want %q", byte(tt.v), got, tt.want)
		}
	}
}
