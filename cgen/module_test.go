package cgen

import (
	stderrors "errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/wasm2c/errors"
	"github.com/wippyai/wasm2c/ir"
)

func addFunction() *ir.Function {
	return &ir.Function{
		Name:      "add",
		Signature: ir.Signature{Params: []ir.Type{ir.TypeI32, ir.TypeI32}, Result: ir.TypeI32},
		Body:      add(local(0), local(1)),
		Index:     0,
		Exports:   []string{"add"},
	}
}

func importedFunction() *ir.Function {
	return &ir.Function{
		Name:      "fimport$0",
		Signature: ir.Signature{Result: ir.TypeNone},
		Module:    "env",
		Base:      "log",
	}
}

func TestGenerate_NilModule(t *testing.T) {
	_, err := Generate(nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseEmit || e.Kind != errors.KindInvalidInput {
		t.Errorf("unexpected error %v", err)
	}
}

func TestGenerate_AddFunction(t *testing.T) {
	res, err := Generate(&ir.Module{Functions: []*ir.Function{addFunction()}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Functions) != 1 {
		t.Fatalf("got %d functions", len(res.Functions))
	}

	f := res.Functions[0]
	want := "int32_t funcadd(int32_t v0, int32_t v1)\n" +
		"{\n" +
		"    return v0 + v1;\n" +
		"}\n\n"
	if f.Text != want {
		t.Errorf("got:\n%s\nwant:\n%s", f.Text, want)
	}
	if f.Signature != "int32_t funcadd(int32_t v0, int32_t v1)" {
		t.Errorf("signature %q", f.Signature)
	}
	if !strings.Contains(res.Source, f.Signature+";\n") {
		t.Error("missing declaration")
	}
	if !strings.HasSuffix(res.Source, want) {
		t.Error("definition should end the document")
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", res.Diagnostics)
	}
}

func TestGenerate_ImportedFunction(t *testing.T) {
	res, err := Generate(&ir.Module{Functions: []*ir.Function{importedFunction()}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	f := res.Functions[0]
	if !f.Imported {
		t.Error("expected imported")
	}
	if want := "void funcfimport$0()\n{\n// imported\n}\n\n"; f.Text != want {
		t.Errorf("got %q, want %q", f.Text, want)
	}
}

func TestGenerate_Document(t *testing.T) {
	m := &ir.Module{
		Globals: []*ir.Global{
			{Name: "global$0", Type: ir.TypeI32, Init: &ir.Const{Value: ir.LiteralI32(1024)}, Mutable: true},
			{Name: "global$1", Type: ir.TypeF64, Init: &ir.Const{Value: ir.LiteralF64(2)}},
			{Name: "gimport$2", Type: ir.TypeI64, Module: "env", Base: "g"},
		},
		Memory: ir.Memory{Initial: 1, Max: 2, Exists: true},
		Functions: []*ir.Function{
			importedFunction(),
			{
				Name:      "1",
				Signature: ir.Signature{Params: []ir.Type{ir.TypeI32}, Result: ir.TypeNone},
				Vars:      []ir.Type{ir.TypeI64, ir.TypeF32},
				Body: &ir.Block{Children: []ir.Expression{
					&ir.Store{Ptr: local(0), Offset: 8, Bytes: 4, Value: i32(7), ValueType: ir.TypeI32},
					&ir.Call{Target: "fimport$0"},
				}},
			},
		},
	}

	res, err := Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := "#include <stdint.h>\n" +
		"#include <stdlib.h>\n" +
		"\n" +
		"int32_t global$0 = 1024;\n" +
		"double global$1 = 2.0;\n" +
		"int64_t gimport$2 = unknown;\n" +
		"\n" +
		"uint8_t *u8 = (uint8_t *)malloc(2 << 16);\n" +
		"uint16_t *u16 = (uint16_t *)u8;\n" +
		"uint32_t *u32 = (uint32_t *)u8;\n" +
		"uint64_t *u64 = (uint64_t *)u8;\n" +
		"int8_t *i8 = (int8_t *)u8;\n" +
		"int16_t *i16 = (int16_t *)u8;\n" +
		"int32_t *i32 = (int32_t *)u8;\n" +
		"int64_t *i64 = (int64_t *)u8;\n" +
		"float *f32 = (float *)u8;\n" +
		"double *f64 = (double *)u8;\n" +
		"\n" +
		"void funcfimport$0();\n" +
		"void func1(int32_t v0);\n" +
		"void funcfimport$0()\n" +
		"{\n" +
		"// imported\n" +
		"}\n" +
		"\n" +
		"void func1(int32_t v0)\n" +
		"{\n" +
		"    int64_t v1;\n" +
		"    float v2;\n" +
		"    {\n" +
		"        u32[(v0 + 8) >> 2] = 7;\n" +
		"        funcfimport$0();\n" +
		"    }\n" +
		"}\n" +
		"\n"
	if res.Source != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.Source, want)
	}

	if n := res.Diagnostics.Count(DiagGlobal); n != 1 {
		t.Errorf("got %d global diagnostics, want 1", n)
	}
	if d := res.Diagnostics[0]; d.Function != "gimport$2" {
		t.Errorf("diagnostic attributed to %q", d.Function)
	}
}

func TestGenerate_BuildWarnings(t *testing.T) {
	m := &ir.Module{
		Functions: []*ir.Function{addFunction()},
		Warnings:  []ir.Warning{{Function: "add", Message: "branch depth 4 out of range"}},
	}
	res, err := Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Diagnostics.Count(DiagBuild) != 1 {
		t.Errorf("expected a build diagnostic, got %v", res.Diagnostics)
	}
}

func TestGenerate_Strict(t *testing.T) {
	fn := addFunction()
	fn.Body = &ir.Unsupported{ID: ir.KindTableGet, Opcode: "table.get", Operands: []ir.Expression{i32(0)}, ResultType: ir.TypeFuncRef}
	m := &ir.Module{Functions: []*ir.Function{fn}}

	res, err := Generate(m)
	if err != nil {
		t.Fatalf("lenient Generate: %v", err)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Function != "add" {
		t.Fatalf("unexpected diagnostics %v", res.Diagnostics)
	}
	if !strings.Contains(res.Source, "unimplemented45(0);") {
		t.Errorf("missing placeholder in\n%s", res.Source)
	}

	res, err = Generate(m, WithStrict(true))
	if err == nil {
		t.Fatal("strict Generate should fail")
	}
	var diags Diagnostics
	if !stderrors.As(err, &diags) || len(diags) != 1 {
		t.Errorf("unexpected error %v", err)
	}
	if res == nil || res.Source == "" {
		t.Error("strict Generate should still return the output")
	}
}

func TestGenerate_UnknownTypes(t *testing.T) {
	fn := &ir.Function{
		Name:      "v",
		Signature: ir.Signature{Params: []ir.Type{ir.TypeV128}, Result: ir.TypeNone},
		Vars:      []ir.Type{ir.TypeExternRef},
		Body:      &ir.Nop{},
	}
	res, err := Generate(&ir.Module{Functions: []*ir.Function{fn}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := "void funcv(#6 v0)\n{\n    #8 v1;\n}\n\n"
	if got := res.Functions[0].Text; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if n := res.Diagnostics.Count(DiagType); n != 2 {
		t.Errorf("got %d type diagnostics, want 2", n)
	}
}

func TestGenerate_WorkersDeterministic(t *testing.T) {
	m := &ir.Module{}
	for i := 0; i < 64; i++ {
		fn := addFunction()
		fn.Name = "f" + string(rune('A'+i%26)) + string(rune('a'+i/26))
		if i%3 == 0 {
			fn.Body = &ir.Block{Children: []ir.Expression{
				&ir.If{Cond: local(0), Then: &ir.Return{Value: local(1)}},
				&ir.Return{Value: i32(int32(i))},
			}}
		}
		m.Functions = append(m.Functions, fn)
	}

	seq, err := Generate(m, WithWorkers(1))
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := Generate(m, WithWorkers(8))
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if seq.Source != par.Source {
		t.Error("parallel output differs from sequential output")
	}
	for i, f := range par.Functions {
		if f.Name != m.Functions[i].Name {
			t.Fatalf("function %d out of order: %s", i, f.Name)
		}
	}
}

func TestGenerate_PanicBecomesError(t *testing.T) {
	fn := addFunction()
	fn.Body = &ir.Binary{Op: ir.AddInt32}
	_, err := Generate(&ir.Module{Functions: []*ir.Function{fn}})
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindUnknownConstruct {
		t.Errorf("unexpected error %v", err)
	}
}

func TestGenerate_LogsPlaceholders(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fn := addFunction()
	fn.Body = &ir.Load{Ptr: local(0), Bytes: 3, ResultType: ir.TypeI32}

	_, err := Generate(&ir.Module{Functions: []*ir.Function{fn}}, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	warns := logs.FilterMessage("placeholder emitted").All()
	if len(warns) != 1 {
		t.Fatalf("got %d placeholder logs, want 1", len(warns))
	}
	fields := warns[0].ContextMap()
	if fields["func"] != "add" || fields["kind"] != string(DiagWidth) {
		t.Errorf("unexpected fields %v", fields)
	}
	if logs.FilterMessage("generated module").Len() != 1 {
		t.Error("missing summary log")
	}
	if logs.FilterMessage("emitted function").Len() != 1 {
		t.Error("missing function log")
	}
}

func TestDiagnostics_Error(t *testing.T) {
	d := Diagnostics{
		{Function: "a", Kind: DiagType, ID: 6, Message: "x"},
		{Kind: DiagNode, ID: 21},
		{Function: "b", Kind: DiagWidth, ID: 3},
		{Function: "c", Kind: DiagWidth, ID: 16},
	}
	if got, want := d[:1].Error(), "1 emission diagnostic: a: type #6: x"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	want := "4 emission diagnostics: a: type #6: x; node #21; b: width #3; ..."
	if got := d.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if d.Count(DiagWidth) != 2 {
		t.Errorf("Count(width) = %d", d.Count(DiagWidth))
	}
}
