package cgen

import (
	"math"
	"strconv"
	"testing"

	"github.com/wippyai/wasm2c/ir"
)

func TestTypeName(t *testing.T) {
	tests := []struct {
		typ   ir.Type
		want  string
		known bool
	}{
		{ir.TypeI32, "int32_t", true},
		{ir.TypeI64, "int64_t", true},
		{ir.TypeF32, "float", true},
		{ir.TypeF64, "double", true},
		{ir.TypeNone, "void", true},
		{ir.TypeV128, "#6", false},
		{ir.TypeUnreachable, "#1", false},
		{ir.Type(0x17B), "#379", false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got := TypeName(tt.typ)
			if got.Text != tt.want || got.Known != tt.known {
				t.Errorf("TypeName(%v) = %+v, want %q known=%v", tt.typ, got, tt.want, tt.known)
			}
			if got.ID != uint32(tt.typ) {
				t.Errorf("ID = %d, want %d", got.ID, uint32(tt.typ))
			}
		})
	}
}

func TestUnaryName(t *testing.T) {
	seen := map[string]ir.UnaryOp{}
	for op := ir.ClzInt32; ; op++ {
		name := UnaryName(op)
		if !name.Known {
			if name.Text != "#"+strconv.FormatUint(uint64(op), 10) {
				t.Errorf("unknown op %d rendered %q", op, name.Text)
			}
			break
		}
		if name.Text[:2] != "__" {
			t.Errorf("op %d: %q lacks __ prefix", op, name.Text)
		}
		if prev, dup := seen[name.Text]; dup {
			t.Errorf("ops %d and %d share %q", prev, op, name.Text)
		}
		seen[name.Text] = op
	}
	if len(seen) != 60 {
		t.Errorf("expected 60 unary names, got %d", len(seen))
	}
	if got := UnaryName(ir.EqZInt32).Text; got != "__EqZInt32" {
		t.Errorf("got %q", got)
	}
}

func TestBinaryToken(t *testing.T) {
	tests := []struct {
		op   ir.BinaryOp
		want string
	}{
		{ir.AddInt32, "+"},
		{ir.SubInt64, "-"},
		{ir.MulFloat32, "*"},
		{ir.DivUInt32, "/"},
		{ir.RemSInt64, "%"},
		{ir.AndInt32, "&"},
		{ir.OrInt64, "|"},
		{ir.XorInt32, "^"},
		{ir.ShlInt64, "<<"},
		{ir.ShrUInt32, ">>"},
		{ir.RotLInt32, "<<<"},
		{ir.RotRInt64, ">>>"},
		{ir.EqFloat64, "=="},
		{ir.NeInt32, "!="},
		{ir.LtUInt64, "<"},
		{ir.LeFloat32, "<="},
		{ir.GtSInt32, ">"},
		{ir.GeFloat64, ">="},
		{ir.MinFloat32, "min"},
		{ir.MaxFloat64, "max"},
		{ir.CopySignFloat32, "CopySign"},
	}

	for _, tt := range tests {
		if got := BinaryToken(tt.op); got.Text != tt.want || !got.Known {
			t.Errorf("BinaryToken(%v) = %+v, want %q", tt.op, got, tt.want)
		}
	}

	for op := ir.AddInt32; op <= ir.GeFloat64; op++ {
		if !BinaryToken(op).Known {
			t.Errorf("binary op %v has no token", op)
		}
	}

	if got := BinaryToken(ir.GeFloat64 + 1); got.Known || got.Text != "#76" {
		t.Errorf("out of range op rendered %+v", got)
	}
}

func TestMemoryView(t *testing.T) {
	tests := []struct {
		bytes uint8
		view  string
		shift uint
		ok    bool
	}{
		{1, "u8", 0, true},
		{2, "u16", 1, true},
		{4, "u32", 2, true},
		{8, "u64", 3, true},
		{0, "", 0, false},
		{3, "", 0, false},
		{16, "", 0, false},
	}

	for _, tt := range tests {
		view, shift, ok := MemoryView(tt.bytes)
		if view != tt.view || shift != tt.shift || ok != tt.ok {
			t.Errorf("MemoryView(%d) = %q, %d, %v", tt.bytes, view, shift, ok)
		}
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		lit  ir.Literal
		want string
	}{
		{ir.LiteralI32(0), "0"},
		{ir.LiteralI32(-2147483648), "-2147483648"},
		{ir.LiteralI64(1 << 40), "1099511627776"},
		{ir.LiteralF32(1.5), "1.5"},
		{ir.LiteralF32(0.1), "0.1"},
		{ir.LiteralF64(2), "2.0"},
		{ir.LiteralF64(1e300), "1e+300"},
		{ir.LiteralF64(math.NaN()), "NAN"},
		{ir.LiteralF32(float32(math.Inf(-1))), "-INFINITY"},
	}

	for _, tt := range tests {
		got, ok := formatLiteral(tt.lit)
		if !ok || got != tt.want {
			t.Errorf("formatLiteral(%v) = %q, %v, want %q", tt.lit, got, ok, tt.want)
		}
	}

	if got, ok := formatLiteral(ir.Literal{Type: ir.TypeV128}); ok || got != "#6" {
		t.Errorf("v128 literal = %q, %v", got, ok)
	}
}

func TestFormatSignature(t *testing.T) {
	tests := []struct {
		name string
		fn   *ir.Function
		want string
	}{
		{
			name: "two params",
			fn: &ir.Function{Name: "add", Signature: ir.Signature{
				Params: []ir.Type{ir.TypeI32, ir.TypeI32}, Result: ir.TypeI32,
			}},
			want: "int32_t funcadd(int32_t v0, int32_t v1)",
		},
		{
			name: "void no params",
			fn:   &ir.Function{Name: "0"},
			want: "void func0()",
		},
		{
			name: "mixed",
			fn: &ir.Function{Name: "fimport$1", Signature: ir.Signature{
				Params: []ir.Type{ir.TypeF64, ir.TypeI64, ir.TypeF32}, Result: ir.TypeF64,
			}},
			want: "double funcfimport$1(double v0, int64_t v1, float v2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSignature(tt.fn); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
