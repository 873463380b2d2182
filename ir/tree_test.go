package ir

import (
	"testing"

	"github.com/wippyai/wasm2c/wasm"
)

func TestParseTree_SimpleSequence(t *testing.T) {
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: 1}},
		{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: 2}},
		{Opcode: wasm.OpI32Add},
		{Opcode: wasm.OpEnd},
	}

	seq := parseTree(instrs)
	if len(seq.children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(seq.children))
	}
	for i, c := range seq.children {
		if _, ok := c.(*instrNode); !ok {
			t.Errorf("child %d: expected instrNode, got %T", i, c)
		}
	}
}

func TestParseTree_Block(t *testing.T) {
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpBlock, Imm: wasm.BlockImm{Type: wasm.BlockTypeI32}},
		{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: 42}},
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpEnd},
	}

	seq := parseTree(instrs)
	if len(seq.children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(seq.children))
	}
	block, ok := seq.children[0].(*blockNode)
	if !ok {
		t.Fatalf("expected blockNode, got %T", seq.children[0])
	}
	if block.opcode != wasm.OpBlock {
		t.Errorf("expected OpBlock, got %d", block.opcode)
	}
	if block.imm.Type != wasm.BlockTypeI32 {
		t.Errorf("expected i32 block type, got %d", block.imm.Type)
	}
	if len(block.body.children) != 1 {
		t.Errorf("expected 1 body child, got %d", len(block.body.children))
	}
}

func TestParseTree_IfElse(t *testing.T) {
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 0}},
		{Opcode: wasm.OpIf, Imm: wasm.BlockImm{Type: wasm.BlockTypeVoid}},
		{Opcode: wasm.OpNop},
		{Opcode: wasm.OpElse},
		{Opcode: wasm.OpNop},
		{Opcode: wasm.OpNop},
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpEnd},
	}

	seq := parseTree(instrs)
	if len(seq.children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(seq.children))
	}
	n, ok := seq.children[1].(*ifNode)
	if !ok {
		t.Fatalf("expected ifNode, got %T", seq.children[1])
	}
	if len(n.then.children) != 1 {
		t.Errorf("then: expected 1 child, got %d", len(n.then.children))
	}
	if n.els == nil || len(n.els.children) != 2 {
		t.Errorf("else: expected 2 children, got %+v", n.els)
	}
}

func TestParseTree_IfWithoutElse(t *testing.T) {
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: 1}},
		{Opcode: wasm.OpIf, Imm: wasm.BlockImm{Type: wasm.BlockTypeVoid}},
		{Opcode: wasm.OpNop},
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpEnd},
	}

	seq := parseTree(instrs)
	n := seq.children[1].(*ifNode)
	if n.els != nil {
		t.Errorf("expected no else arm, got %+v", n.els)
	}
}

func TestParseTree_Unbalanced(t *testing.T) {
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpLoop, Imm: wasm.BlockImm{Type: wasm.BlockTypeVoid}},
		{Opcode: wasm.OpNop},
	}

	seq := parseTree(instrs)
	if len(seq.children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(seq.children))
	}
	loop := seq.children[0].(*blockNode)
	if loop.opcode != wasm.OpLoop || len(loop.body.children) != 1 {
		t.Errorf("unexpected loop %+v", loop)
	}
}

func TestParseTree_StrayElse(t *testing.T) {
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpNop},
		{Opcode: wasm.OpElse},
		{Opcode: wasm.OpNop},
		{Opcode: wasm.OpEnd},
	}

	seq := parseTree(instrs)
	if len(seq.children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(seq.children))
	}
}
