package ir

import "github.com/wippyai/wasm2c/wasm"

// treeNode is a node of the structured instruction tree: nested
// block/loop/if regions with plain instructions as leaves.
type treeNode interface {
	treeNode()
}

// seqNode is an instruction list.
type seqNode struct {
	children []treeNode
}

// blockNode is a block or loop region.
type blockNode struct {
	body   *seqNode
	imm    wasm.BlockImm
	opcode byte
}

// ifNode is an if region. els is nil without an else arm.
type ifNode struct {
	then *seqNode
	els  *seqNode
	imm  wasm.BlockImm
}

// instrNode is a single non-structural instruction.
type instrNode struct {
	instr wasm.Instruction
}

func (*seqNode) treeNode()   {}
func (*blockNode) treeNode() {}
func (*ifNode) treeNode()    {}
func (*instrNode) treeNode() {}

// parseTree converts a linear instruction stream into nested regions. An
// unbalanced stream is closed implicitly at its end.
func parseTree(instrs []wasm.Instruction) *seqNode {
	p := &treeParser{instrs: instrs}
	root := p.parseSeq()
	for p.pos < len(p.instrs) {
		// Code after the final end, or a stray else
		if p.instrs[p.pos].Opcode == wasm.OpElse {
			p.pos++
		}
		root.children = append(root.children, p.parseSeq().children...)
	}
	return root
}

type treeParser struct {
	instrs []wasm.Instruction
	pos    int
}

func (p *treeParser) parseSeq() *seqNode {
	var children []treeNode

	for p.pos < len(p.instrs) {
		instr := p.instrs[p.pos]

		switch instr.Opcode {
		case wasm.OpEnd:
			p.pos++
			return &seqNode{children: children}

		case wasm.OpElse:
			// Caller handles else
			return &seqNode{children: children}

		case wasm.OpBlock, wasm.OpLoop:
			children = append(children, p.parseBlock())

		case wasm.OpIf:
			children = append(children, p.parseIf())

		default:
			children = append(children, &instrNode{instr: instr})
			p.pos++
		}
	}

	return &seqNode{children: children}
}

func (p *treeParser) parseBlock() treeNode {
	instr := p.instrs[p.pos]
	imm, _ := instr.Imm.(wasm.BlockImm)
	p.pos++

	return &blockNode{
		opcode: instr.Opcode,
		imm:    imm,
		body:   p.parseSeq(),
	}
}

func (p *treeParser) parseIf() treeNode {
	instr := p.instrs[p.pos]
	imm, _ := instr.Imm.(wasm.BlockImm)
	p.pos++

	n := &ifNode{imm: imm, then: p.parseSeq()}
	if p.pos < len(p.instrs) && p.instrs[p.pos].Opcode == wasm.OpElse {
		p.pos++
		n.els = p.parseSeq()
	}
	return n
}
