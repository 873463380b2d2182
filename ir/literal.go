package ir

import "math"

// Literal is a typed constant. Floats are stored as their IEEE bits so NaN
// payloads survive.
type Literal struct {
	Type Type
	Bits uint64
}

func LiteralI32(v int32) Literal   { return Literal{Type: TypeI32, Bits: uint64(uint32(v))} }
func LiteralI64(v int64) Literal   { return Literal{Type: TypeI64, Bits: uint64(v)} }
func LiteralF32(v float32) Literal { return Literal{Type: TypeF32, Bits: uint64(math.Float32bits(v))} }
func LiteralF64(v float64) Literal { return Literal{Type: TypeF64, Bits: math.Float64bits(v)} }

func (l Literal) I32() int32   { return int32(uint32(l.Bits)) }
func (l Literal) I64() int64   { return int64(l.Bits) }
func (l Literal) F32() float32 { return math.Float32frombits(uint32(l.Bits)) }
func (l Literal) F64() float64 { return math.Float64frombits(l.Bits) }
