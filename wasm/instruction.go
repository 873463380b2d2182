package wasm

import (
	"errors"
	"fmt"

	"github.com/wippyai/wasm2c/wasm/internal/binary"
)

// ErrUnsupportedOpcode is returned for opcodes outside the MVP, sign-extension
// and 0xFC (saturating truncation, bulk memory) sets.
var ErrUnsupportedOpcode = errors.New("unsupported opcode")

// Instruction represents a decoded WebAssembly instruction
type Instruction struct {
	Imm    any
	Opcode byte
}

// BlockImm holds the block type for block, loop and if.
type BlockImm struct {
	Type int64 // -64=void, -1=i32, -2=i64, -3=f32, -4=f64, >=0=type index
}

// BranchImm holds the label depth for br and br_if.
type BranchImm struct {
	LabelIdx uint32
}

// BrTableImm holds the label table for br_table.
type BrTableImm struct {
	Labels  []uint32
	Default uint32
}

// CallImm holds the function index for call.
type CallImm struct {
	FuncIdx uint32
}

// CallIndirectImm holds type and table indices for call_indirect.
type CallIndirectImm struct {
	TypeIdx  uint32
	TableIdx uint32
}

// LocalImm holds the local index for local.get, local.set, local.tee.
type LocalImm struct {
	LocalIdx uint32
}

// GlobalImm holds the global index for global.get and global.set.
type GlobalImm struct {
	GlobalIdx uint32
}

// MemoryImm holds the memarg of loads and stores. Align is the log2 exponent
// as encoded.
type MemoryImm struct {
	Offset uint64
	Align  uint32
	MemIdx uint32
}

// MemoryIdxImm holds memory index for memory.size, memory.grow
type MemoryIdxImm struct {
	MemIdx uint32
}

// I32Imm holds the constant value for i32.const.
type I32Imm struct {
	Value int32
}

// I64Imm holds the constant value for i64.const.
type I64Imm struct {
	Value int64
}

// F32Imm holds the constant value for f32.const.
type F32Imm struct {
	Value float32
}

// F64Imm holds the constant value for f64.const.
type F64Imm struct {
	Value float64
}

// MiscImm holds the sub-opcode and immediates for 0xFC prefix instructions
type MiscImm struct {
	Operands  []uint32
	SubOpcode uint32
}

// TableImm holds table index for table.get/table.set
type TableImm struct {
	TableIdx uint32
}

// RefNullImm holds the heap type for ref.null
type RefNullImm struct {
	HeapType int64
}

// RefFuncImm holds the function index for ref.func
type RefFuncImm struct {
	FuncIdx uint32
}

// SelectTypeImm holds value types for typed select
type SelectTypeImm struct {
	Types []ValType
}

// DecodeInstructions decodes a sequence of instructions from raw bytes.
// The final end of a function body is included in the result.
func DecodeInstructions(code []byte) ([]Instruction, error) {
	r := binary.NewReader(code)
	d := &decoder{r: r}
	instrs := make([]Instruction, 0, len(code)/2)

	for r.Len() > 0 {
		start := r.Position()
		instr, err := d.next()
		if err != nil {
			return nil, &binary.ParseError{Section: "code", Position: start, Err: err}
		}
		instrs = append(instrs, instr)
	}
	return instrs, nil
}

type decoder struct {
	r *binary.Reader
}

func (d *decoder) next() (Instruction, error) {
	r := d.r
	op, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}
	instr := Instruction{Opcode: op}

	switch {
	case op == OpBlock || op == OpLoop || op == OpIf:
		bt, err := r.ReadS64()
		if err != nil {
			return instr, err
		}
		instr.Imm = BlockImm{Type: bt}

	case op == OpBr || op == OpBrIf:
		idx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = BranchImm{LabelIdx: idx}

	case op == OpBrTable:
		count, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		if int(count) > r.Len() {
			return instr, fmt.Errorf("br_table: label count %d exceeds body", count)
		}
		labels := make([]uint32, count)
		for i := range labels {
			if labels[i], err = r.ReadU32(); err != nil {
				return instr, err
			}
		}
		def, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = BrTableImm{Labels: labels, Default: def}

	case op == OpCall:
		idx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = CallImm{FuncIdx: idx}

	case op == OpCallIndirect:
		typeIdx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		tableIdx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = CallIndirectImm{TypeIdx: typeIdx, TableIdx: tableIdx}

	case op == OpLocalGet || op == OpLocalSet || op == OpLocalTee:
		idx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = LocalImm{LocalIdx: idx}

	case op == OpGlobalGet || op == OpGlobalSet:
		idx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = GlobalImm{GlobalIdx: idx}

	case op == OpTableGet || op == OpTableSet:
		idx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = TableImm{TableIdx: idx}

	case op >= OpI32Load && op <= OpI64Store32:
		memImm, err := readMemArg(r)
		if err != nil {
			return instr, err
		}
		instr.Imm = memImm

	case op == OpMemorySize || op == OpMemoryGrow:
		memIdx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = MemoryIdxImm{MemIdx: memIdx}

	case op == OpI32Const:
		val, err := r.ReadS32()
		if err != nil {
			return instr, err
		}
		instr.Imm = I32Imm{Value: val}

	case op == OpI64Const:
		val, err := r.ReadS64()
		if err != nil {
			return instr, err
		}
		instr.Imm = I64Imm{Value: val}

	case op == OpF32Const:
		val, err := r.ReadF32()
		if err != nil {
			return instr, err
		}
		instr.Imm = F32Imm{Value: val}

	case op == OpF64Const:
		val, err := r.ReadF64()
		if err != nil {
			return instr, err
		}
		instr.Imm = F64Imm{Value: val}

	case op == OpRefNull:
		heapType, err := r.ReadS64()
		if err != nil {
			return instr, err
		}
		instr.Imm = RefNullImm{HeapType: heapType}

	case op == OpRefFunc:
		funcIdx, err := r.ReadU32()
		if err != nil {
			return instr, err
		}
		instr.Imm = RefFuncImm{FuncIdx: funcIdx}

	case op == OpSelectType:
		types, err := readValTypes(r)
		if err != nil {
			return instr, err
		}
		instr.Imm = SelectTypeImm{Types: types}

	case op == OpPrefixMisc:
		imm, err := readMisc(r)
		if err != nil {
			return instr, err
		}
		instr.Imm = imm

	case isPlainOpcode(op):
		// No immediate

	default:
		return instr, fmt.Errorf("%w: 0x%02x", ErrUnsupportedOpcode, op)
	}

	return instr, nil
}

// isPlainOpcode reports whether op is a known opcode without immediates.
func isPlainOpcode(op byte) bool {
	switch op {
	case OpUnreachable, OpNop, OpElse, OpEnd, OpReturn, OpDrop, OpSelect, OpRefIsNull:
		return true
	}
	return op >= OpI32Eqz && op <= OpI64Extend32S
}

func readMemArg(r *binary.Reader) (MemoryImm, error) {
	align, err := r.ReadU32()
	if err != nil {
		return MemoryImm{}, err
	}
	var memIdx uint32
	// Bit 6 of the alignment field flags an explicit memory index.
	if align&0x40 != 0 {
		align &^= 0x40
		if memIdx, err = r.ReadU32(); err != nil {
			return MemoryImm{}, err
		}
	}
	offset, err := r.ReadU64()
	if err != nil {
		return MemoryImm{}, err
	}
	return MemoryImm{Align: align, Offset: offset, MemIdx: memIdx}, nil
}

// miscOperandCount is the number of u32 immediates of each 0xFC sub-opcode.
var miscOperandCount = map[uint32]int{
	MiscI32TruncSatF32S: 0,
	MiscI32TruncSatF32U: 0,
	MiscI32TruncSatF64S: 0,
	MiscI32TruncSatF64U: 0,
	MiscI64TruncSatF32S: 0,
	MiscI64TruncSatF32U: 0,
	MiscI64TruncSatF64S: 0,
	MiscI64TruncSatF64U: 0,
	MiscMemoryInit:      2,
	MiscDataDrop:        1,
	MiscMemoryCopy:      2,
	MiscMemoryFill:      1,
	MiscTableInit:       2,
	MiscElemDrop:        1,
	MiscTableCopy:       2,
	MiscTableGrow:       1,
	MiscTableSize:       1,
	MiscTableFill:       1,
}

func readMisc(r *binary.Reader) (MiscImm, error) {
	subOp, err := r.ReadU32()
	if err != nil {
		return MiscImm{}, err
	}
	n, ok := miscOperandCount[subOp]
	if !ok {
		return MiscImm{}, fmt.Errorf("%w: 0xfc %d", ErrUnsupportedOpcode, subOp)
	}
	imm := MiscImm{SubOpcode: subOp}
	if n > 0 {
		imm.Operands = make([]uint32, n)
		for i := range imm.Operands {
			if imm.Operands[i], err = r.ReadU32(); err != nil {
				return MiscImm{}, err
			}
		}
	}
	return imm, nil
}
