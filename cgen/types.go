package cgen

import (
	"strconv"

	"github.com/wippyai/wasm2c/ir"
)

// Name is the result of a table lookup. Unknown entries keep the raw id and
// render as #<id>.
type Name struct {
	Text  string
	ID    uint32
	Known bool
}

func (n Name) String() string { return n.Text }

func known(id uint32, text string) Name { return Name{Text: text, ID: id, Known: true} }
func unknown(id uint32) Name            { return Name{Text: "#" + strconv.FormatUint(uint64(id), 10), ID: id} }

// TypeName maps a value type to its C type.
func TypeName(t ir.Type) Name {
	switch t {
	case ir.TypeNone:
		return known(uint32(t), "void")
	case ir.TypeI32:
		return known(uint32(t), "int32_t")
	case ir.TypeI64:
		return known(uint32(t), "int64_t")
	case ir.TypeF32:
		return known(uint32(t), "float")
	case ir.TypeF64:
		return known(uint32(t), "double")
	default:
		return unknown(uint32(t))
	}
}
