package ir

// Expression is a node of a function body tree. The set of implementations is
// closed: every node type lives in this file, and consumers switch on the
// concrete type.
type Expression interface {
	Kind() Kind
	// Type is the value type the node produces. TypeNone marks effects,
	// TypeUnreachable marks nodes that never fall through.
	Type() Type
	expr()
}

// Block is a sequence of expressions. Label is empty unless a branch
// targets the block.
type Block struct {
	Label      string
	Children   []Expression
	ResultType Type
}

// If is a two-armed conditional. Else may be nil.
type If struct {
	Cond       Expression
	Then       Expression
	Else       Expression
	ResultType Type
}

// Loop repeats Body. A branch to Label restarts the loop.
type Loop struct {
	Label      string
	Body       Expression
	ResultType Type
}

// Break exits to Label. Cond and Value are optional.
type Break struct {
	Label string
	Cond  Expression
	Value Expression
}

// Switch is a branch table. Targets are indexed by Cond; Default is taken
// when Cond is out of range.
type Switch struct {
	Targets []string
	Default string
	Cond    Expression
	Value   Expression
}

// Call is a direct call of the function named Target.
type Call struct {
	Target     string
	Operands   []Expression
	ResultType Type
}

// CallIndirect calls through the function table slot Target.
type CallIndirect struct {
	Target     Expression
	Operands   []Expression
	TypeIndex  uint32
	ResultType Type
}

// LocalGet reads local Index. Parameters occupy the first indices.
type LocalGet struct {
	Index     uint32
	LocalType Type
}

// LocalSet writes local Index. A tee also yields the written value.
type LocalSet struct {
	Index     uint32
	Value     Expression
	Tee       bool
	LocalType Type
}

// GlobalGet reads the global Name.
type GlobalGet struct {
	Name       string
	GlobalType Type
}

// GlobalSet writes the global Name.
type GlobalSet struct {
	Name  string
	Value Expression
}

// Load reads Bytes bytes at Ptr+Offset.
type Load struct {
	Ptr        Expression
	Offset     uint64
	Align      uint32
	Bytes      uint8
	Signed     bool
	ResultType Type
}

// Store writes Value as Bytes bytes at Ptr+Offset.
type Store struct {
	Ptr       Expression
	Value     Expression
	Offset    uint64
	Align     uint32
	Bytes     uint8
	ValueType Type
}

// Const is a literal.
type Const struct {
	Value Literal
}

// Unary applies Op to Value.
type Unary struct {
	Op         UnaryOp
	Value      Expression
	ResultType Type
}

// Binary applies Op to Left and Right.
type Binary struct {
	Op         BinaryOp
	Left       Expression
	Right      Expression
	ResultType Type
}

// Select yields IfTrue when Cond is non-zero, IfFalse otherwise.
type Select struct {
	Cond       Expression
	IfTrue     Expression
	IfFalse    Expression
	ResultType Type
}

// Drop evaluates Value and discards it.
type Drop struct {
	Value Expression
}

// Return leaves the function. Value is nil for void functions.
type Return struct {
	Value Expression
}

// MemorySize yields the current memory size in pages.
type MemorySize struct{}

// Nop does nothing.
type Nop struct{}

// Unreachable traps.
type Unreachable struct{}

// Unsupported stands in for an operation with no dedicated node. ID is the
// kind the operation would have; Operands are kept so their side effects are
// still visible.
type Unsupported struct {
	ID         Kind
	Opcode     string
	Operands   []Expression
	ResultType Type
}

func (*Block) Kind() Kind         { return KindBlock }
func (*If) Kind() Kind            { return KindIf }
func (*Loop) Kind() Kind          { return KindLoop }
func (*Break) Kind() Kind         { return KindBreak }
func (*Switch) Kind() Kind        { return KindSwitch }
func (*Call) Kind() Kind          { return KindCall }
func (*CallIndirect) Kind() Kind  { return KindCallIndirect }
func (*LocalGet) Kind() Kind      { return KindLocalGet }
func (*LocalSet) Kind() Kind      { return KindLocalSet }
func (*GlobalGet) Kind() Kind     { return KindGlobalGet }
func (*GlobalSet) Kind() Kind     { return KindGlobalSet }
func (*Load) Kind() Kind          { return KindLoad }
func (*Store) Kind() Kind         { return KindStore }
func (*Const) Kind() Kind         { return KindConst }
func (*Unary) Kind() Kind         { return KindUnary }
func (*Binary) Kind() Kind        { return KindBinary }
func (*Select) Kind() Kind        { return KindSelect }
func (*Drop) Kind() Kind          { return KindDrop }
func (*Return) Kind() Kind        { return KindReturn }
func (*MemorySize) Kind() Kind    { return KindMemorySize }
func (*Nop) Kind() Kind           { return KindNop }
func (*Unreachable) Kind() Kind   { return KindUnreachable }
func (u *Unsupported) Kind() Kind { return u.ID }

func (b *Block) Type() Type        { return b.ResultType }
func (i *If) Type() Type           { return i.ResultType }
func (l *Loop) Type() Type         { return l.ResultType }
func (c *Call) Type() Type         { return c.ResultType }
func (c *CallIndirect) Type() Type { return c.ResultType }
func (l *LocalGet) Type() Type     { return l.LocalType }
func (g *GlobalGet) Type() Type    { return g.GlobalType }
func (*GlobalSet) Type() Type      { return TypeNone }
func (l *Load) Type() Type         { return l.ResultType }
func (*Store) Type() Type          { return TypeNone }
func (c *Const) Type() Type        { return c.Value.Type }
func (u *Unary) Type() Type        { return u.ResultType }
func (b *Binary) Type() Type       { return b.ResultType }
func (s *Select) Type() Type       { return s.ResultType }
func (*Drop) Type() Type           { return TypeNone }
func (*Return) Type() Type         { return TypeUnreachable }
func (*Switch) Type() Type         { return TypeUnreachable }
func (*MemorySize) Type() Type     { return TypeI32 }
func (*Nop) Type() Type            { return TypeNone }
func (*Unreachable) Type() Type    { return TypeUnreachable }
func (u *Unsupported) Type() Type  { return u.ResultType }

func (b *Break) Type() Type {
	if b.Cond == nil {
		return TypeUnreachable
	}
	return TypeNone
}

func (l *LocalSet) Type() Type {
	if l.Tee {
		return l.LocalType
	}
	return TypeNone
}

func (*Block) expr()        {}
func (*If) expr()           {}
func (*Loop) expr()         {}
func (*Break) expr()        {}
func (*Switch) expr()       {}
func (*Call) expr()         {}
func (*CallIndirect) expr() {}
func (*LocalGet) expr()     {}
func (*LocalSet) expr()     {}
func (*GlobalGet) expr()    {}
func (*GlobalSet) expr()    {}
func (*Load) expr()         {}
func (*Store) expr()        {}
func (*Const) expr()        {}
func (*Unary) expr()        {}
func (*Binary) expr()       {}
func (*Select) expr()       {}
func (*Drop) expr()         {}
func (*Return) expr()       {}
func (*MemorySize) expr()   {}
func (*Nop) expr()          {}
func (*Unreachable) expr()  {}
func (*Unsupported) expr()  {}
