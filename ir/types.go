package ir

import (
	"strconv"

	"github.com/wippyai/wasm2c/wasm"
)

// Type is the value type of an expression. Numbering follows the basic type
// ids of the reference toolchain so diagnostics stay comparable.
type Type uint32

const (
	TypeNone Type = iota
	TypeUnreachable
	TypeI32
	TypeI64
	TypeF32
	TypeF64
	TypeV128
	TypeFuncRef
	TypeExternRef
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeUnreachable:
		return "unreachable"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeV128:
		return "v128"
	case TypeFuncRef:
		return "funcref"
	case TypeExternRef:
		return "externref"
	default:
		return "type#" + strconv.FormatUint(uint64(t), 10)
	}
}

// IsConcrete reports whether t carries a value.
func (t Type) IsConcrete() bool {
	return t != TypeNone && t != TypeUnreachable
}

// TypeOf maps a binary value type to its IR type.
func TypeOf(v wasm.ValType) Type {
	switch v {
	case wasm.ValI32:
		return TypeI32
	case wasm.ValI64:
		return TypeI64
	case wasm.ValF32:
		return TypeF32
	case wasm.ValF64:
		return TypeF64
	case wasm.ValV128:
		return TypeV128
	case wasm.ValFuncRef:
		return TypeFuncRef
	case wasm.ValExtern:
		return TypeExternRef
	default:
		// Out of range on purpose so the type mapper reports the raw byte.
		return Type(0x100 | uint32(v))
	}
}

// resultType collapses a result list to a single type. Multi-value results
// keep only the first value.
func resultType(results []wasm.ValType) Type {
	if len(results) == 0 {
		return TypeNone
	}
	return TypeOf(results[0])
}
