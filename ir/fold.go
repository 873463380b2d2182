package ir

import (
	"fmt"

	"github.com/wippyai/wasm2c/wasm"
)

// frame is an open control construct. arity is the type of the value a
// branch to the frame carries.
type frame struct {
	label string
	arity Type
	used  bool
}

// folder turns the instruction tree of one function into expressions.
// Scratch locals it needs are appended to fn.Vars.
type folder struct {
	b      *builder
	fn     *Function
	frames []*frame
	labels int
}

func (b *builder) newFolder(fn *Function) *folder {
	return &folder{b: b, fn: fn}
}

func (f *folder) warn(format string, args ...any) {
	f.b.warn(f.fn.Name, fmt.Sprintf(format, args...))
}

// body folds a function body. The body is the outermost branch target; a
// plain br to it becomes a Return.
func (f *folder) body(root *seqNode) Expression {
	result := f.fn.Signature.Result
	fr := f.enter(result)
	items := f.seq(root, result, nil)
	f.leave()
	return f.makeBlock(fr, items, result)
}

func (f *folder) enter(arity Type) *frame {
	fr := &frame{arity: arity}
	f.frames = append(f.frames, fr)
	return fr
}

func (f *folder) leave() {
	f.frames = f.frames[:len(f.frames)-1]
}

// use marks fr as a branch target and returns its label. Labels are
// numbered in order of first use.
func (f *folder) use(fr *frame) string {
	if fr.label == "" {
		fr.label = labelName(f.labels)
		f.labels++
	}
	fr.used = true
	return fr.label
}

func (f *folder) target(depth uint32) *frame {
	i := len(f.frames) - 1 - int(depth)
	if i < 0 {
		f.warn("branch depth %d out of range", depth)
		return nil
	}
	return f.frames[i]
}

func (f *folder) scratch(t Type) uint32 {
	idx := uint32(f.fn.NumLocals())
	f.fn.Vars = append(f.fn.Vars, t)
	return idx
}

func (f *folder) localGet(idx uint32) *LocalGet {
	t, ok := f.fn.LocalType(idx)
	if !ok {
		f.warn("local %d out of range", idx)
		t = TypeI32
	}
	return &LocalGet{Index: idx, LocalType: t}
}

// seq folds a region. result is the type the region leaves behind.
func (f *folder) seq(s *seqNode, result Type, initial []Expression) []Expression {
	st := &stack{f: f, items: initial}
	for _, n := range s.children {
		f.node(st, n)
	}
	return st.finish(result)
}

// makeBlock wraps a folded region. Unlabelled regions with fewer than two
// items collapse.
func (f *folder) makeBlock(fr *frame, items []Expression, result Type) Expression {
	var label string
	if fr != nil && fr.used {
		label = fr.label
	}
	if label == "" {
		switch len(items) {
		case 0:
			return &Nop{}
		case 1:
			return items[0]
		}
	}
	return &Block{Label: label, Children: items, ResultType: result}
}

// arm wraps an if arm. Arms never collapse to Nop so the if keeps a body.
func (f *folder) arm(items []Expression, result Type) Expression {
	if len(items) == 1 {
		return items[0]
	}
	return &Block{Children: items, ResultType: result}
}

func (f *folder) blockType(imm wasm.BlockImm) ([]Type, Type) {
	switch {
	case imm.Type == wasm.BlockTypeVoid:
		return nil, TypeNone
	case imm.Type < 0 && imm.Type > wasm.BlockTypeVoid:
		return nil, TypeOf(wasm.ValType(0x80 + imm.Type))
	case imm.Type >= 0 && imm.Type < int64(len(f.b.src.Types)):
		ft := &f.b.src.Types[imm.Type]
		if len(ft.Results) > 1 {
			f.warn("block type %d: only the first of %d results is kept", imm.Type, len(ft.Results))
		}
		sig := signatureOf(ft)
		return sig.Params, sig.Result
	}
	f.warn("unknown block type %d", imm.Type)
	return nil, TypeNone
}

// spillParams moves block parameters off s into scratch locals.
func (f *folder) spillParams(s *stack, params []Type) []uint32 {
	if len(params) == 0 {
		return nil
	}
	values := s.popN(len(params))
	locals := make([]uint32, len(params))
	for i, v := range values {
		locals[i] = f.scratch(params[i])
		s.push(&LocalSet{Index: locals[i], Value: v, LocalType: params[i]})
	}
	return locals
}

// reads returns fresh reads of spilled parameters, one tree per use.
func (f *folder) reads(locals []uint32) []Expression {
	if len(locals) == 0 {
		return nil
	}
	out := make([]Expression, len(locals))
	for i, idx := range locals {
		out[i] = f.localGet(idx)
	}
	return out
}

func (f *folder) node(s *stack, n treeNode) {
	switch n := n.(type) {
	case *blockNode:
		if n.opcode == wasm.OpLoop {
			s.push(f.loop(s, n))
		} else {
			s.push(f.block(s, n))
		}
	case *ifNode:
		s.push(f.ifElse(s, n))
	case *seqNode:
		for _, c := range n.children {
			f.node(s, c)
		}
	case *instrNode:
		f.instr(s, n.instr)
	}
}

func (f *folder) block(s *stack, n *blockNode) Expression {
	params, result := f.blockType(n.imm)
	locals := f.spillParams(s, params)

	fr := f.enter(result)
	items := f.seq(n.body, result, f.reads(locals))
	f.leave()
	return f.makeBlock(fr, items, result)
}

func (f *folder) loop(s *stack, n *blockNode) Expression {
	params, result := f.blockType(n.imm)
	locals := f.spillParams(s, params)

	arity := TypeNone
	if len(params) > 0 {
		arity = params[0]
	}
	fr := f.enter(arity)
	items := f.seq(n.body, result, f.reads(locals))
	f.leave()

	lp := &Loop{Body: f.makeBlock(nil, items, result), ResultType: result}
	if fr.used {
		lp.Label = fr.label
	}
	return lp
}

func (f *folder) ifElse(s *stack, n *ifNode) Expression {
	cond := s.pop()
	params, result := f.blockType(n.imm)
	locals := f.spillParams(s, params)

	fr := f.enter(result)
	iff := &If{
		Cond:       cond,
		Then:       f.arm(f.seq(n.then, result, f.reads(locals)), result),
		ResultType: result,
	}
	if n.els != nil {
		els := f.seq(n.els, result, f.reads(locals))
		if len(els) > 0 {
			iff.Else = f.arm(els, result)
		}
	}
	f.leave()

	if fr.used {
		return &Block{Label: fr.label, Children: []Expression{iff}, ResultType: result}
	}
	return iff
}

func (f *folder) instr(s *stack, in wasm.Instruction) {
	op := in.Opcode

	if info, ok := unaryOpcodes[op]; ok {
		s.push(&Unary{Op: info.op, Value: s.pop(), ResultType: info.result})
		return
	}
	if info, ok := binaryOpcodes[op]; ok {
		right := s.pop()
		left := s.pop()
		s.push(&Binary{Op: info.op, Left: left, Right: right, ResultType: info.result})
		return
	}
	if info, ok := loadOpcodes[op]; ok {
		imm, _ := in.Imm.(wasm.MemoryImm)
		s.push(&Load{
			Ptr:        s.pop(),
			Offset:     imm.Offset,
			Align:      alignBytes(imm.Align),
			Bytes:      info.bytes,
			Signed:     info.signed,
			ResultType: info.typ,
		})
		return
	}
	if info, ok := storeOpcodes[op]; ok {
		imm, _ := in.Imm.(wasm.MemoryImm)
		value := s.pop()
		ptr := s.pop()
		s.push(&Store{
			Ptr:       ptr,
			Value:     value,
			Offset:    imm.Offset,
			Align:     alignBytes(imm.Align),
			Bytes:     info.bytes,
			ValueType: info.typ,
		})
		return
	}

	switch op {
	case wasm.OpNop:

	case wasm.OpUnreachable:
		s.push(&Unreachable{})

	case wasm.OpBr:
		imm, _ := in.Imm.(wasm.BranchImm)
		f.br(s, imm.LabelIdx)

	case wasm.OpBrIf:
		imm, _ := in.Imm.(wasm.BranchImm)
		f.brIf(s, imm.LabelIdx)

	case wasm.OpBrTable:
		imm, _ := in.Imm.(wasm.BrTableImm)
		f.brTable(s, imm)

	case wasm.OpReturn:
		ret := &Return{}
		if f.fn.Signature.Result.IsConcrete() {
			ret.Value = s.pop()
		}
		s.push(ret)

	case wasm.OpCall:
		imm, _ := in.Imm.(wasm.CallImm)
		f.call(s, imm.FuncIdx)

	case wasm.OpCallIndirect:
		imm, _ := in.Imm.(wasm.CallIndirectImm)
		f.callIndirect(s, imm.TypeIdx)

	case wasm.OpDrop:
		s.push(&Drop{Value: s.pop()})

	case wasm.OpSelect, wasm.OpSelectType:
		cond := s.pop()
		ifFalse := s.pop()
		ifTrue := s.pop()
		t := ifTrue.Type()
		if imm, ok := in.Imm.(wasm.SelectTypeImm); ok && len(imm.Types) > 0 {
			t = TypeOf(imm.Types[0])
		} else if !t.IsConcrete() {
			t = ifFalse.Type()
		}
		s.push(&Select{Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse, ResultType: t})

	case wasm.OpLocalGet:
		imm, _ := in.Imm.(wasm.LocalImm)
		s.push(f.localGet(imm.LocalIdx))

	case wasm.OpLocalSet, wasm.OpLocalTee:
		imm, _ := in.Imm.(wasm.LocalImm)
		get := f.localGet(imm.LocalIdx)
		s.push(&LocalSet{
			Index:     imm.LocalIdx,
			Value:     s.pop(),
			Tee:       op == wasm.OpLocalTee,
			LocalType: get.LocalType,
		})

	case wasm.OpGlobalGet:
		imm, _ := in.Imm.(wasm.GlobalImm)
		name, t := f.globalRef(imm.GlobalIdx)
		s.push(&GlobalGet{Name: name, GlobalType: t})

	case wasm.OpGlobalSet:
		imm, _ := in.Imm.(wasm.GlobalImm)
		name, _ := f.globalRef(imm.GlobalIdx)
		s.push(&GlobalSet{Name: name, Value: s.pop()})

	case wasm.OpMemorySize:
		s.push(&MemorySize{})

	case wasm.OpMemoryGrow:
		s.push(&Unsupported{ID: KindMemoryGrow, Opcode: "memory.grow", Operands: []Expression{s.pop()}, ResultType: TypeI32})

	case wasm.OpI32Const:
		imm, _ := in.Imm.(wasm.I32Imm)
		s.push(&Const{Value: LiteralI32(imm.Value)})
	case wasm.OpI64Const:
		imm, _ := in.Imm.(wasm.I64Imm)
		s.push(&Const{Value: LiteralI64(imm.Value)})
	case wasm.OpF32Const:
		imm, _ := in.Imm.(wasm.F32Imm)
		s.push(&Const{Value: LiteralF32(imm.Value)})
	case wasm.OpF64Const:
		imm, _ := in.Imm.(wasm.F64Imm)
		s.push(&Const{Value: LiteralF64(imm.Value)})

	case wasm.OpRefNull:
		imm, _ := in.Imm.(wasm.RefNullImm)
		t := TypeFuncRef
		if wasm.ValType(0x80+imm.HeapType) == wasm.ValExtern {
			t = TypeExternRef
		}
		s.push(&Unsupported{ID: KindRefNull, Opcode: "ref.null", ResultType: t})

	case wasm.OpRefIsNull:
		s.push(&Unsupported{ID: KindRefIsNull, Opcode: "ref.is_null", Operands: []Expression{s.pop()}, ResultType: TypeI32})

	case wasm.OpRefFunc:
		s.push(&Unsupported{ID: KindRefFunc, Opcode: "ref.func", ResultType: TypeFuncRef})

	case wasm.OpTableGet:
		s.push(&Unsupported{ID: KindTableGet, Opcode: "table.get", Operands: []Expression{s.pop()}, ResultType: TypeFuncRef})

	case wasm.OpTableSet:
		s.push(&Unsupported{ID: KindTableSet, Opcode: "table.set", Operands: s.popN(2)})

	case wasm.OpPrefixMisc:
		imm, _ := in.Imm.(wasm.MiscImm)
		f.misc(s, imm.SubOpcode)

	default:
		f.warn("opcode 0x%02x has no expression form", op)
		s.push(&Unsupported{ID: KindInvalid, Opcode: fmt.Sprintf("0x%02x", op)})
	}
}

func (f *folder) misc(s *stack, sub uint32) {
	if info, ok := truncSatOpcodes[sub]; ok {
		s.push(&Unary{Op: info.op, Value: s.pop(), ResultType: info.result})
		return
	}
	if eff, ok := miscOpcodes[sub]; ok {
		s.push(&Unsupported{ID: eff.kind, Opcode: eff.name, Operands: s.popN(eff.pops), ResultType: eff.result})
		return
	}
	f.warn("0xfc %d has no expression form", sub)
	s.push(&Unsupported{ID: KindInvalid, Opcode: fmt.Sprintf("0xfc %d", sub)})
}

func (f *folder) br(s *stack, depth uint32) {
	fr := f.target(depth)
	if fr == nil {
		s.push(&Unreachable{})
		return
	}
	var value Expression
	if fr.arity.IsConcrete() {
		value = s.pop()
	}
	if fr == f.frames[0] {
		s.push(&Return{Value: value})
		return
	}
	s.push(&Break{Label: f.use(fr), Value: value})
}

// brIf with a value keeps the value on the stack for the fall-through path,
// so it is stored in a scratch local that both paths read.
func (f *folder) brIf(s *stack, depth uint32) {
	cond := s.pop()
	fr := f.target(depth)
	if fr == nil {
		s.push(&Drop{Value: cond})
		return
	}
	label := f.use(fr)
	if !fr.arity.IsConcrete() {
		s.push(&Break{Label: label, Cond: cond})
		return
	}

	tmp := f.scratch(fr.arity)
	s.push(&LocalSet{Index: tmp, Value: s.pop(), LocalType: fr.arity})
	s.push(&Break{Label: label, Cond: cond, Value: &LocalGet{Index: tmp, LocalType: fr.arity}})
	s.push(&LocalGet{Index: tmp, LocalType: fr.arity})
}

func (f *folder) brTable(s *stack, imm wasm.BrTableImm) {
	cond := s.pop()
	def := f.target(imm.Default)
	if def == nil {
		s.push(&Unreachable{})
		return
	}

	sw := &Switch{Cond: cond, Default: f.use(def)}
	if def.arity.IsConcrete() {
		sw.Value = s.pop()
	}
	for _, depth := range imm.Labels {
		fr := f.target(depth)
		if fr == nil {
			sw.Targets = append(sw.Targets, sw.Default)
			continue
		}
		sw.Targets = append(sw.Targets, f.use(fr))
	}
	s.push(sw)
}

func (f *folder) call(s *stack, idx uint32) {
	name, ok := f.b.funcName(idx)
	ft, typed := f.b.src.FuncTypeOf(idx)
	if !ok || !typed {
		f.warn("call of unknown function %d", idx)
		s.push(&Unsupported{ID: KindCall, Opcode: "call"})
		return
	}
	if len(ft.Results) > 1 {
		f.warn("call %s: only the first of %d results is kept", name, len(ft.Results))
	}
	sig := signatureOf(ft)
	s.push(&Call{Target: name, Operands: s.popN(len(sig.Params)), ResultType: sig.Result})
}

func (f *folder) callIndirect(s *stack, typeIdx uint32) {
	target := s.pop()
	if int(typeIdx) >= len(f.b.src.Types) {
		f.warn("call_indirect type %d out of range", typeIdx)
		s.push(&Unsupported{ID: KindCallIndirect, Opcode: "call_indirect", Operands: []Expression{target}})
		return
	}
	sig := signatureOf(&f.b.src.Types[typeIdx])
	s.push(&CallIndirect{
		Target:     target,
		Operands:   s.popN(len(sig.Params)),
		TypeIndex:  typeIdx,
		ResultType: sig.Result,
	})
}

func (f *folder) globalRef(idx uint32) (string, Type) {
	name, t, ok := f.b.global(idx)
	if !ok {
		f.warn("global %d out of range", idx)
		return definedGlobalName(idx), TypeI32
	}
	return name, t
}

func alignBytes(log2 uint32) uint32 {
	if log2 >= 32 {
		return 0
	}
	return 1 << log2
}

// stack is the operand stack of one region. Items are folded expressions in
// evaluation order; effects (TypeNone) stay in place as statements.
type stack struct {
	f     *folder
	items []Expression
}

func (s *stack) push(e Expression) {
	s.items = append(s.items, e)
}

// pop takes the nearest value. Effects above it are skipped by spilling the
// value into a scratch local, which keeps evaluation order intact. Past an
// unconditional exit the stack is polymorphic and pop yields Unreachable.
func (s *stack) pop() Expression {
	for i := len(s.items) - 1; i >= 0; i-- {
		item := s.items[i]
		t := item.Type()
		if t == TypeUnreachable {
			return &Unreachable{}
		}
		if !t.IsConcrete() {
			continue
		}
		if i == len(s.items)-1 {
			s.items = s.items[:i]
			return item
		}
		tmp := s.f.scratch(t)
		s.items[i] = &LocalSet{Index: tmp, Value: item, LocalType: t}
		return &LocalGet{Index: tmp, LocalType: t}
	}
	return &Unreachable{}
}

func (s *stack) popN(n int) []Expression {
	out := make([]Expression, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = s.pop()
	}
	return out
}

// finish closes the region. A region with a result ends in its value; every
// other value is dropped.
func (s *stack) finish(result Type) []Expression {
	if result.IsConcrete() && len(s.items) > 0 {
		if t := s.items[len(s.items)-1].Type(); t == TypeNone {
			if v := s.pop(); v.Type().IsConcrete() {
				s.push(v)
			}
		}
	}

	last := len(s.items) - 1
	for i, item := range s.items {
		if !item.Type().IsConcrete() {
			continue
		}
		if i == last && result.IsConcrete() {
			continue
		}
		s.items[i] = &Drop{Value: item}
	}
	return s.items
}
