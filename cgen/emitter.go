package cgen

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wasm2c/ir"
)

// Position tells the Emitter how a node is used by its parent.
type Position int

const (
	// Statement nodes are written as indented, terminated lines.
	Statement Position = iota
	// Expression nodes are written inline with no terminator.
	Expression
)

// Emitter lowers expression trees to text. It holds the state of one
// traversal (output, nesting level, return suppression) and must not be
// shared between goroutines.
type Emitter struct {
	buf     strings.Builder
	unit    string
	level   int
	discard bool

	function string
	diags    Diagnostics
	log      *zap.Logger
}

// NewEmitter creates an Emitter at nesting level zero.
func NewEmitter(opts ...Option) *Emitter {
	cfg := newConfig(opts)
	return newEmitter(cfg, "")
}

func newEmitter(cfg *config, function string) *Emitter {
	return &Emitter{
		unit:     cfg.indent,
		function: function,
		log:      cfg.logger,
	}
}

// Emit appends x at the given position.
func (e *Emitter) Emit(x ir.Expression, pos Position) *Emitter {
	if pos == Statement {
		e.statement(x)
	} else {
		e.expression(x)
	}
	return e
}

// String returns the text emitted so far.
func (e *Emitter) String() string { return e.buf.String() }

// Len returns the number of bytes emitted so far.
func (e *Emitter) Len() int { return e.buf.Len() }

// Level returns the current nesting level.
func (e *Emitter) Level() int { return e.level }

// Diagnostics returns the placeholders written so far.
func (e *Emitter) Diagnostics() Diagnostics { return e.diags }

// Reset clears the output and diagnostics.
func (e *Emitter) Reset() {
	e.buf.Reset()
	e.diags = nil
	e.level = 0
	e.discard = false
}

// nest enters one nesting level; the returned func leaves it.
//
//	defer e.nest()()
func (e *Emitter) nest() func() {
	e.level++
	return func() { e.level-- }
}

// suppress sets whether tail values get a return; the returned func
// restores the previous setting.
func (e *Emitter) suppress(discard bool) func() {
	prev := e.discard
	e.discard = discard
	return func() { e.discard = prev }
}

func (e *Emitter) writeIndent() {
	for i := 0; i < e.level; i++ {
		e.buf.WriteString(e.unit)
	}
}

func (e *Emitter) write(s string) { e.buf.WriteString(s) }

func (e *Emitter) diag(kind DiagKind, id uint64, msg string) {
	e.diags = append(e.diags, Diagnostic{Function: e.function, Kind: kind, ID: id, Message: msg})
	e.log.Warn("placeholder emitted",
		zap.String("func", e.function),
		zap.String("kind", string(kind)),
		zap.Uint64("id", id),
		zap.String("detail", msg))
}

func (e *Emitter) typeName(t ir.Type) string {
	n := TypeName(t)
	if !n.Known {
		e.diag(DiagType, uint64(n.ID), "no C type for "+t.String())
	}
	return n.Text
}

func (e *Emitter) statement(x ir.Expression) {
	switch n := x.(type) {
	case *ir.Nop:
	case *ir.Block:
		e.block(n)
	case *ir.If:
		e.ifElse(n)
	case *ir.Loop:
		e.loop(n)
	case *ir.Break:
		e.breakTo(n)
	case *ir.Switch:
		e.switchTable(n)
	case *ir.Return:
		e.writeIndent()
		e.write("return")
		if n.Value != nil {
			e.write(" ")
			e.expression(n.Value)
		}
		e.write(";\n")
	case *ir.Drop:
		defer e.suppress(true)()
		e.statement(n.Value)
	default:
		e.writeIndent()
		if !e.discard && fallsThrough(x) {
			e.write("return ")
		}
		e.expression(x)
		e.write(";\n")
	}
}

// fallsThrough reports whether x, met in statement position, is the value
// the enclosing body returns.
func fallsThrough(x ir.Expression) bool {
	switch x.(type) {
	case *ir.Const, *ir.LocalGet, *ir.GlobalGet, *ir.Load, *ir.Binary, *ir.Unary,
		*ir.Select, *ir.MemorySize, *ir.Call, *ir.CallIndirect:
		return x.Type().IsConcrete()
	}
	return false
}

func (e *Emitter) expression(x ir.Expression) {
	switch n := x.(type) {
	case *ir.Const:
		s, ok := formatLiteral(n.Value)
		if !ok {
			e.diag(DiagType, uint64(n.Value.Type), "literal of type "+n.Value.Type.String())
		}
		e.write(s)
	case *ir.LocalGet:
		e.local(n.Index)
	case *ir.LocalSet:
		e.local(n.Index)
		e.write(" = ")
		e.expression(n.Value)
	case *ir.GlobalGet:
		e.write(n.Name)
	case *ir.GlobalSet:
		e.write(n.Name)
		e.write(" = ")
		e.expression(n.Value)
	case *ir.Load:
		e.load(n)
	case *ir.Store:
		e.store(n)
	case *ir.Unary:
		e.unary(n)
	case *ir.Binary:
		e.binary(n)
	case *ir.Select:
		e.choice(n.Cond)
		e.write(" ? ")
		e.choice(n.IfTrue)
		e.write(" : ")
		e.choice(n.IfFalse)
	case *ir.Call:
		e.write("func")
		e.write(n.Target)
		e.arguments(n.Operands)
	case *ir.CallIndirect:
		e.write("FUNCTION_TABLE[")
		e.expression(n.Target)
		e.write("]")
		e.arguments(n.Operands)
	case *ir.MemorySize:
		e.write("MEMORY_SIZE")
	case *ir.Unreachable:
		e.write("assert(false)")
	case *ir.Nop:
	case *ir.Unsupported:
		e.diag(DiagNode, uint64(n.ID), n.Opcode)
		e.write("unimplemented")
		e.write(strconv.FormatUint(uint64(n.ID), 10))
		if len(n.Operands) > 0 {
			e.arguments(n.Operands)
		}
	case *ir.Block, *ir.If, *ir.Loop, *ir.Break, *ir.Switch, *ir.Return, *ir.Drop:
		e.nested(x)
	default:
		e.diag(DiagNode, uint64(x.Kind()), x.Kind().String())
		e.write("unimplemented")
		e.write(strconv.FormatUint(uint64(x.Kind()), 10))
	}
}

// nested writes a statement-shaped node used as a value: parenthesised,
// one level deeper, with returns suppressed.
func (e *Emitter) nested(x ir.Expression) {
	e.write("(\n")
	func() {
		defer e.nest()()
		defer e.suppress(true)()
		e.statement(x)
	}()
	e.writeIndent()
	e.write(")")
}

func (e *Emitter) local(idx uint32) {
	e.write("v")
	e.write(strconv.FormatUint(uint64(idx), 10))
}

func (e *Emitter) arguments(args []ir.Expression) {
	e.write("(")
	for i, a := range args {
		if i > 0 {
			e.write(", ")
		}
		e.expression(a)
	}
	e.write(")")
}

// operand writes a Binary operand, parenthesised when it could bind
// differently than the tree says.
func (e *Emitter) operand(x ir.Expression) {
	switch x.(type) {
	case *ir.Binary, *ir.Unary, *ir.LocalSet, *ir.Select:
		e.write("(")
		e.expression(x)
		e.write(")")
	default:
		e.expression(x)
	}
}

// choice writes a Select operand.
func (e *Emitter) choice(x ir.Expression) {
	switch x.(type) {
	case *ir.LocalSet, *ir.Select:
		e.write("(")
		e.expression(x)
		e.write(")")
	default:
		e.expression(x)
	}
}

func (e *Emitter) unary(n *ir.Unary) {
	name := UnaryName(n.Op)
	if !name.Known {
		e.diag(DiagUnary, uint64(name.ID), "unknown unary operator")
	}
	e.write(name.Text)
	e.write("(")
	e.expression(n.Value)
	e.write(")")
}

func (e *Emitter) binary(n *ir.Binary) {
	tok := BinaryToken(n.Op)
	if !tok.Known {
		e.diag(DiagBinary, uint64(tok.ID), "unknown binary operator")
	}
	e.operand(n.Left)
	e.write(" ")
	e.write(tok.Text)
	e.write(" ")
	e.operand(n.Right)
}

func (e *Emitter) load(n *ir.Load) {
	view, shift, ok := MemoryView(n.Bytes)
	if !ok {
		e.diag(DiagWidth, uint64(n.Bytes), "load width")
		e.write("unimplementedload")
		e.write(strconv.Itoa(int(n.Bytes)))
		return
	}
	e.address(view, shift, n.Ptr, n.Offset)
}

func (e *Emitter) store(n *ir.Store) {
	view, shift, ok := MemoryView(n.Bytes)
	if ok {
		e.address(view, shift, n.Ptr, n.Offset)
	} else {
		e.diag(DiagWidth, uint64(n.Bytes), "store width")
		e.write("unimplementedstore")
		e.write(strconv.Itoa(int(n.Bytes)))
	}
	e.write(" = ")
	e.expression(n.Value)
}

// address writes view[(ptr + offset) >> shift], or view[ptr + offset] for
// byte access.
func (e *Emitter) address(view string, shift uint, ptr ir.Expression, offset uint64) {
	e.write(view)
	e.write("[")
	if shift > 0 {
		e.write("(")
	}
	switch ptr.(type) {
	case *ir.Binary, *ir.Select, *ir.LocalSet:
		e.write("(")
		e.expression(ptr)
		e.write(")")
	default:
		e.expression(ptr)
	}
	e.write(" + ")
	e.write(strconv.FormatUint(offset, 10))
	if shift > 0 {
		e.write(") >> ")
		e.write(strconv.FormatUint(uint64(shift), 10))
	}
	e.write("]")
}

func (e *Emitter) label(name string) {
	if name == "" {
		return
	}
	e.writeIndent()
	e.write(name)
	e.write(":\n")
}

func (e *Emitter) block(n *ir.Block) {
	e.label(n.Label)
	e.writeIndent()
	e.write("{\n")
	func() {
		defer e.nest()()
		for _, c := range n.Children {
			e.statement(c)
		}
	}()
	e.writeIndent()
	e.write("}\n")
}

// arm writes the body of an if arm or loop. A Block brings its own braces;
// anything else is indented one level.
func (e *Emitter) arm(x ir.Expression) {
	if _, ok := x.(*ir.Block); ok {
		e.statement(x)
		return
	}
	defer e.nest()()
	if _, ok := x.(*ir.Nop); ok {
		e.writeIndent()
		e.write(";\n")
		return
	}
	e.statement(x)
}

func (e *Emitter) ifElse(n *ir.If) {
	e.writeIndent()
	e.write("if (")
	e.expression(n.Cond)
	e.write(")\n")
	e.arm(n.Then)
	if n.Else != nil {
		e.writeIndent()
		e.write("else\n")
		e.arm(n.Else)
	}
}

func (e *Emitter) loop(n *ir.Loop) {
	e.label(n.Label)
	e.writeIndent()
	e.write("while (true)\n")
	e.arm(n.Body)
}

func (e *Emitter) breakTo(n *ir.Break) {
	if n.Cond != nil {
		e.writeIndent()
		e.write("if (")
		e.expression(n.Cond)
		e.write(")\n")
		defer e.nest()()
	}
	e.writeIndent()
	e.write("break ")
	e.write(n.Label)
	if n.Value != nil {
		e.write(" (")
		e.expression(n.Value)
		e.write(")")
	}
	e.write(";\n")
}

// switchTable writes one case per target. The default target and any
// carried value are not represented.
func (e *Emitter) switchTable(n *ir.Switch) {
	e.writeIndent()
	e.write("switch(")
	e.expression(n.Cond)
	e.write(")\n")
	e.writeIndent()
	e.write("{\n")
	func() {
		defer e.nest()()
		for i, target := range n.Targets {
			e.writeIndent()
			e.write("case ")
			e.write(strconv.Itoa(i))
			e.write(": break ")
			e.write(target)
			e.write(";\n")
		}
	}()
	e.writeIndent()
	e.write("}\n")
}
