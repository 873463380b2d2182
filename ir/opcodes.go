package ir

import "github.com/wippyai/wasm2c/wasm"

type unaryInfo struct {
	op     UnaryOp
	result Type
}

type binaryInfo struct {
	op     BinaryOp
	result Type
}

type memInfo struct {
	bytes  uint8
	signed bool
	typ    Type
}

var unaryOpcodes = map[byte]unaryInfo{
	wasm.OpI32Eqz:    {EqZInt32, TypeI32},
	wasm.OpI64Eqz:    {EqZInt64, TypeI32},
	wasm.OpI32Clz:    {ClzInt32, TypeI32},
	wasm.OpI32Ctz:    {CtzInt32, TypeI32},
	wasm.OpI32Popcnt: {PopcntInt32, TypeI32},
	wasm.OpI64Clz:    {ClzInt64, TypeI64},
	wasm.OpI64Ctz:    {CtzInt64, TypeI64},
	wasm.OpI64Popcnt: {PopcntInt64, TypeI64},

	wasm.OpF32Abs:     {AbsFloat32, TypeF32},
	wasm.OpF32Neg:     {NegFloat32, TypeF32},
	wasm.OpF32Ceil:    {CeilFloat32, TypeF32},
	wasm.OpF32Floor:   {FloorFloat32, TypeF32},
	wasm.OpF32Trunc:   {TruncFloat32, TypeF32},
	wasm.OpF32Nearest: {NearestFloat32, TypeF32},
	wasm.OpF32Sqrt:    {SqrtFloat32, TypeF32},
	wasm.OpF64Abs:     {AbsFloat64, TypeF64},
	wasm.OpF64Neg:     {NegFloat64, TypeF64},
	wasm.OpF64Ceil:    {CeilFloat64, TypeF64},
	wasm.OpF64Floor:   {FloorFloat64, TypeF64},
	wasm.OpF64Trunc:   {TruncFloat64, TypeF64},
	wasm.OpF64Nearest: {NearestFloat64, TypeF64},
	wasm.OpF64Sqrt:    {SqrtFloat64, TypeF64},

	wasm.OpI32WrapI64:        {WrapInt64, TypeI32},
	wasm.OpI32TruncF32S:      {TruncSFloat32ToInt32, TypeI32},
	wasm.OpI32TruncF32U:      {TruncUFloat32ToInt32, TypeI32},
	wasm.OpI32TruncF64S:      {TruncSFloat64ToInt32, TypeI32},
	wasm.OpI32TruncF64U:      {TruncUFloat64ToInt32, TypeI32},
	wasm.OpI64ExtendI32S:     {ExtendSInt32, TypeI64},
	wasm.OpI64ExtendI32U:     {ExtendUInt32, TypeI64},
	wasm.OpI64TruncF32S:      {TruncSFloat32ToInt64, TypeI64},
	wasm.OpI64TruncF32U:      {TruncUFloat32ToInt64, TypeI64},
	wasm.OpI64TruncF64S:      {TruncSFloat64ToInt64, TypeI64},
	wasm.OpI64TruncF64U:      {TruncUFloat64ToInt64, TypeI64},
	wasm.OpF32ConvertI32S:    {ConvertSInt32ToFloat32, TypeF32},
	wasm.OpF32ConvertI32U:    {ConvertUInt32ToFloat32, TypeF32},
	wasm.OpF32ConvertI64S:    {ConvertSInt64ToFloat32, TypeF32},
	wasm.OpF32ConvertI64U:    {ConvertUInt64ToFloat32, TypeF32},
	wasm.OpF32DemoteF64:      {DemoteFloat64, TypeF32},
	wasm.OpF64ConvertI32S:    {ConvertSInt32ToFloat64, TypeF64},
	wasm.OpF64ConvertI32U:    {ConvertUInt32ToFloat64, TypeF64},
	wasm.OpF64ConvertI64S:    {ConvertSInt64ToFloat64, TypeF64},
	wasm.OpF64ConvertI64U:    {ConvertUInt64ToFloat64, TypeF64},
	wasm.OpF64PromoteF32:     {PromoteFloat32, TypeF64},
	wasm.OpI32ReinterpretF32: {ReinterpretFloat32, TypeI32},
	wasm.OpI64ReinterpretF64: {ReinterpretFloat64, TypeI64},
	wasm.OpF32ReinterpretI32: {ReinterpretInt32, TypeF32},
	wasm.OpF64ReinterpretI64: {ReinterpretInt64, TypeF64},

	wasm.OpI32Extend8S:  {ExtendS8Int32, TypeI32},
	wasm.OpI32Extend16S: {ExtendS16Int32, TypeI32},
	wasm.OpI64Extend8S:  {ExtendS8Int64, TypeI64},
	wasm.OpI64Extend16S: {ExtendS16Int64, TypeI64},
	wasm.OpI64Extend32S: {ExtendS32Int64, TypeI64},
}

// truncSatOpcodes maps 0xFC sub-opcodes 0..7.
var truncSatOpcodes = map[uint32]unaryInfo{
	wasm.MiscI32TruncSatF32S: {TruncSatSFloat32ToInt32, TypeI32},
	wasm.MiscI32TruncSatF32U: {TruncSatUFloat32ToInt32, TypeI32},
	wasm.MiscI32TruncSatF64S: {TruncSatSFloat64ToInt32, TypeI32},
	wasm.MiscI32TruncSatF64U: {TruncSatUFloat64ToInt32, TypeI32},
	wasm.MiscI64TruncSatF32S: {TruncSatSFloat32ToInt64, TypeI64},
	wasm.MiscI64TruncSatF32U: {TruncSatUFloat32ToInt64, TypeI64},
	wasm.MiscI64TruncSatF64S: {TruncSatSFloat64ToInt64, TypeI64},
	wasm.MiscI64TruncSatF64U: {TruncSatUFloat64ToInt64, TypeI64},
}

var binaryOpcodes = map[byte]binaryInfo{
	wasm.OpI32Eq:  {EqInt32, TypeI32},
	wasm.OpI32Ne:  {NeInt32, TypeI32},
	wasm.OpI32LtS: {LtSInt32, TypeI32},
	wasm.OpI32LtU: {LtUInt32, TypeI32},
	wasm.OpI32GtS: {GtSInt32, TypeI32},
	wasm.OpI32GtU: {GtUInt32, TypeI32},
	wasm.OpI32LeS: {LeSInt32, TypeI32},
	wasm.OpI32LeU: {LeUInt32, TypeI32},
	wasm.OpI32GeS: {GeSInt32, TypeI32},
	wasm.OpI32GeU: {GeUInt32, TypeI32},
	wasm.OpI64Eq:  {EqInt64, TypeI32},
	wasm.OpI64Ne:  {NeInt64, TypeI32},
	wasm.OpI64LtS: {LtSInt64, TypeI32},
	wasm.OpI64LtU: {LtUInt64, TypeI32},
	wasm.OpI64GtS: {GtSInt64, TypeI32},
	wasm.OpI64GtU: {GtUInt64, TypeI32},
	wasm.OpI64LeS: {LeSInt64, TypeI32},
	wasm.OpI64LeU: {LeUInt64, TypeI32},
	wasm.OpI64GeS: {GeSInt64, TypeI32},
	wasm.OpI64GeU: {GeUInt64, TypeI32},
	wasm.OpF32Eq:  {EqFloat32, TypeI32},
	wasm.OpF32Ne:  {NeFloat32, TypeI32},
	wasm.OpF32Lt:  {LtFloat32, TypeI32},
	wasm.OpF32Gt:  {GtFloat32, TypeI32},
	wasm.OpF32Le:  {LeFloat32, TypeI32},
	wasm.OpF32Ge:  {GeFloat32, TypeI32},
	wasm.OpF64Eq:  {EqFloat64, TypeI32},
	wasm.OpF64Ne:  {NeFloat64, TypeI32},
	wasm.OpF64Lt:  {LtFloat64, TypeI32},
	wasm.OpF64Gt:  {GtFloat64, TypeI32},
	wasm.OpF64Le:  {LeFloat64, TypeI32},
	wasm.OpF64Ge:  {GeFloat64, TypeI32},

	wasm.OpI32Add:  {AddInt32, TypeI32},
	wasm.OpI32Sub:  {SubInt32, TypeI32},
	wasm.OpI32Mul:  {MulInt32, TypeI32},
	wasm.OpI32DivS: {DivSInt32, TypeI32},
	wasm.OpI32DivU: {DivUInt32, TypeI32},
	wasm.OpI32RemS: {RemSInt32, TypeI32},
	wasm.OpI32RemU: {RemUInt32, TypeI32},
	wasm.OpI32And:  {AndInt32, TypeI32},
	wasm.OpI32Or:   {OrInt32, TypeI32},
	wasm.OpI32Xor:  {XorInt32, TypeI32},
	wasm.OpI32Shl:  {ShlInt32, TypeI32},
	wasm.OpI32ShrS: {ShrSInt32, TypeI32},
	wasm.OpI32ShrU: {ShrUInt32, TypeI32},
	wasm.OpI32Rotl: {RotLInt32, TypeI32},
	wasm.OpI32Rotr: {RotRInt32, TypeI32},

	wasm.OpI64Add:  {AddInt64, TypeI64},
	wasm.OpI64Sub:  {SubInt64, TypeI64},
	wasm.OpI64Mul:  {MulInt64, TypeI64},
	wasm.OpI64DivS: {DivSInt64, TypeI64},
	wasm.OpI64DivU: {DivUInt64, TypeI64},
	wasm.OpI64RemS: {RemSInt64, TypeI64},
	wasm.OpI64RemU: {RemUInt64, TypeI64},
	wasm.OpI64And:  {AndInt64, TypeI64},
	wasm.OpI64Or:   {OrInt64, TypeI64},
	wasm.OpI64Xor:  {XorInt64, TypeI64},
	wasm.OpI64Shl:  {ShlInt64, TypeI64},
	wasm.OpI64ShrS: {ShrSInt64, TypeI64},
	wasm.OpI64ShrU: {ShrUInt64, TypeI64},
	wasm.OpI64Rotl: {RotLInt64, TypeI64},
	wasm.OpI64Rotr: {RotRInt64, TypeI64},

	wasm.OpF32Add:      {AddFloat32, TypeF32},
	wasm.OpF32Sub:      {SubFloat32, TypeF32},
	wasm.OpF32Mul:      {MulFloat32, TypeF32},
	wasm.OpF32Div:      {DivFloat32, TypeF32},
	wasm.OpF32Min:      {MinFloat32, TypeF32},
	wasm.OpF32Max:      {MaxFloat32, TypeF32},
	wasm.OpF32Copysign: {CopySignFloat32, TypeF32},
	wasm.OpF64Add:      {AddFloat64, TypeF64},
	wasm.OpF64Sub:      {SubFloat64, TypeF64},
	wasm.OpF64Mul:      {MulFloat64, TypeF64},
	wasm.OpF64Div:      {DivFloat64, TypeF64},
	wasm.OpF64Min:      {MinFloat64, TypeF64},
	wasm.OpF64Max:      {MaxFloat64, TypeF64},
	wasm.OpF64Copysign: {CopySignFloat64, TypeF64},
}

var loadOpcodes = map[byte]memInfo{
	wasm.OpI32Load:    {4, false, TypeI32},
	wasm.OpI64Load:    {8, false, TypeI64},
	wasm.OpF32Load:    {4, false, TypeF32},
	wasm.OpF64Load:    {8, false, TypeF64},
	wasm.OpI32Load8S:  {1, true, TypeI32},
	wasm.OpI32Load8U:  {1, false, TypeI32},
	wasm.OpI32Load16S: {2, true, TypeI32},
	wasm.OpI32Load16U: {2, false, TypeI32},
	wasm.OpI64Load8S:  {1, true, TypeI64},
	wasm.OpI64Load8U:  {1, false, TypeI64},
	wasm.OpI64Load16S: {2, true, TypeI64},
	wasm.OpI64Load16U: {2, false, TypeI64},
	wasm.OpI64Load32S: {4, true, TypeI64},
	wasm.OpI64Load32U: {4, false, TypeI64},
}

var storeOpcodes = map[byte]memInfo{
	wasm.OpI32Store:   {4, false, TypeI32},
	wasm.OpI64Store:   {8, false, TypeI64},
	wasm.OpF32Store:   {4, false, TypeF32},
	wasm.OpF64Store:   {8, false, TypeF64},
	wasm.OpI32Store8:  {1, false, TypeI32},
	wasm.OpI32Store16: {2, false, TypeI32},
	wasm.OpI64Store8:  {1, false, TypeI64},
	wasm.OpI64Store16: {2, false, TypeI64},
	wasm.OpI64Store32: {4, false, TypeI64},
}

// miscEffect describes the stack effect of a 0xFC instruction that has no
// dedicated node.
type miscEffect struct {
	name   string
	kind   Kind
	pops   int
	result Type
}

var miscOpcodes = map[uint32]miscEffect{
	wasm.MiscMemoryInit: {"memory.init", KindMemoryInit, 3, TypeNone},
	wasm.MiscDataDrop:   {"data.drop", KindDataDrop, 0, TypeNone},
	wasm.MiscMemoryCopy: {"memory.copy", KindMemoryCopy, 3, TypeNone},
	wasm.MiscMemoryFill: {"memory.fill", KindMemoryFill, 3, TypeNone},
	wasm.MiscTableInit:  {"table.init", KindTableInit, 3, TypeNone},
	wasm.MiscElemDrop:   {"elem.drop", KindElemDrop, 0, TypeNone},
	wasm.MiscTableCopy:  {"table.copy", KindTableCopy, 3, TypeNone},
	wasm.MiscTableGrow:  {"table.grow", KindTableGrow, 2, TypeI32},
	wasm.MiscTableSize:  {"table.size", KindTableSize, 0, TypeI32},
	wasm.MiscTableFill:  {"table.fill", KindTableFill, 3, TypeNone},
}
