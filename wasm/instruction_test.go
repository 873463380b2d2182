package wasm_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/wippyai/wasm2c/wasm"
)

func TestDecodeInstructions(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		want []wasm.Instruction
	}{
		{
			name: "local add",
			code: []byte{wasm.OpLocalGet, 0x00, wasm.OpLocalGet, 0x01, wasm.OpI32Add, wasm.OpEnd},
			want: []wasm.Instruction{
				{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 0}},
				{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 1}},
				{Opcode: wasm.OpI32Add},
				{Opcode: wasm.OpEnd},
			},
		},
		{
			name: "block with result",
			code: []byte{wasm.OpBlock, 0x7F, wasm.OpI32Const, 0x7F, wasm.OpEnd, wasm.OpEnd},
			want: []wasm.Instruction{
				{Opcode: wasm.OpBlock, Imm: wasm.BlockImm{Type: wasm.BlockTypeI32}},
				{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: -1}},
				{Opcode: wasm.OpEnd},
				{Opcode: wasm.OpEnd},
			},
		},
		{
			name: "br_table",
			code: []byte{wasm.OpBrTable, 0x02, 0x00, 0x01, 0x02, wasm.OpEnd},
			want: []wasm.Instruction{
				{Opcode: wasm.OpBrTable, Imm: wasm.BrTableImm{Labels: []uint32{0, 1}, Default: 2}},
				{Opcode: wasm.OpEnd},
			},
		},
		{
			name: "load memarg",
			code: []byte{wasm.OpI32Load, 0x02, 0x10, wasm.OpEnd},
			want: []wasm.Instruction{
				{Opcode: wasm.OpI32Load, Imm: wasm.MemoryImm{Align: 2, Offset: 16}},
				{Opcode: wasm.OpEnd},
			},
		},
		{
			name: "call_indirect",
			code: []byte{wasm.OpCallIndirect, 0x03, 0x00},
			want: []wasm.Instruction{
				{Opcode: wasm.OpCallIndirect, Imm: wasm.CallIndirectImm{TypeIdx: 3}},
			},
		},
		{
			name: "saturating truncation",
			code: []byte{wasm.OpPrefixMisc, 0x02},
			want: []wasm.Instruction{
				{Opcode: wasm.OpPrefixMisc, Imm: wasm.MiscImm{SubOpcode: wasm.MiscI32TruncSatF64S}},
			},
		},
		{
			name: "memory.fill",
			code: []byte{wasm.OpPrefixMisc, 0x0B, 0x00},
			want: []wasm.Instruction{
				{Opcode: wasm.OpPrefixMisc, Imm: wasm.MiscImm{SubOpcode: wasm.MiscMemoryFill, Operands: []uint32{0}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wasm.DecodeInstructions(tt.code)
			if err != nil {
				t.Fatalf("DecodeInstructions: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeInstructionsUnsupported(t *testing.T) {
	tests := []struct {
		name string
		code []byte
	}{
		{"simd", []byte{wasm.OpPrefixSIMD, 0x0C}},
		{"atomic", []byte{wasm.OpPrefixAtomic, 0x00}},
		{"gc", []byte{wasm.OpPrefixGC, 0x00}},
		{"misc out of range", []byte{wasm.OpPrefixMisc, 0x20}},
		{"reserved", []byte{0x06}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wasm.DecodeInstructions(tt.code)
			if !errors.Is(err, wasm.ErrUnsupportedOpcode) {
				t.Errorf("expected ErrUnsupportedOpcode, got %v", err)
			}
		})
	}
}

func TestDecodeInstructionsTruncated(t *testing.T) {
	_, err := wasm.DecodeInstructions([]byte{wasm.OpI32Const})
	if err == nil {
		t.Fatal("expected error for truncated immediate")
	}
	if errors.Is(err, wasm.ErrUnsupportedOpcode) {
		t.Errorf("truncation misreported as unsupported: %v", err)
	}
}

func TestEncodeInstructionsRoundTrip(t *testing.T) {
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpBlock, Imm: wasm.BlockImm{Type: wasm.BlockTypeVoid}},
		{Opcode: wasm.OpLoop, Imm: wasm.BlockImm{Type: wasm.BlockTypeVoid}},
		{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 200}},
		{Opcode: wasm.OpBrIf, Imm: wasm.BranchImm{LabelIdx: 1}},
		{Opcode: wasm.OpI64Const, Imm: wasm.I64Imm{Value: math.MinInt64}},
		{Opcode: wasm.OpF32Const, Imm: wasm.F32Imm{Value: 1.5}},
		{Opcode: wasm.OpF64Const, Imm: wasm.F64Imm{Value: -0.25}},
		{Opcode: wasm.OpDrop},
		{Opcode: wasm.OpDrop},
		{Opcode: wasm.OpDrop},
		{Opcode: wasm.OpI64Store32, Imm: wasm.MemoryImm{Align: 2, Offset: 1 << 20}},
		{Opcode: wasm.OpMemorySize, Imm: wasm.MemoryIdxImm{}},
		{Opcode: wasm.OpGlobalSet, Imm: wasm.GlobalImm{GlobalIdx: 4}},
		{Opcode: wasm.OpCall, Imm: wasm.CallImm{FuncIdx: 9}},
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpEnd},
	}

	code, err := wasm.EncodeInstructions(instrs)
	if err != nil {
		t.Fatalf("EncodeInstructions: %v", err)
	}
	got, err := wasm.DecodeInstructions(code)
	if err != nil {
		t.Fatalf("DecodeInstructions: %v", err)
	}
	if !reflect.DeepEqual(got, instrs) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, instrs)
	}
}

func TestEncodeInstructionsMissingImmediate(t *testing.T) {
	_, err := wasm.EncodeInstructions([]wasm.Instruction{{Opcode: wasm.OpCall}})
	if err == nil {
		t.Error("expected error for call without immediate")
	}
}
