package cgen

import (
	"strconv"
	"strings"

	"github.com/wippyai/wasm2c/ir"
)

// MemoryView returns the view and index shift used to access a value of the
// given width. Only 1, 2, 4 and 8 byte accesses have a view.
func MemoryView(bytes uint8) (view string, shift uint, ok bool) {
	switch bytes {
	case 1:
		return "u8", 0, true
	case 2:
		return "u16", 1, true
	case 4:
		return "u32", 2, true
	case 8:
		return "u64", 3, true
	}
	return "", 0, false
}

// views are declared after u8 and alias it at offset 0.
var views = []struct {
	name  string
	ctype string
}{
	{"u16", "uint16_t"},
	{"u32", "uint32_t"},
	{"u64", "uint64_t"},
	{"i8", "int8_t"},
	{"i16", "int16_t"},
	{"i32", "int32_t"},
	{"i64", "int64_t"},
	{"f32", "float"},
	{"f64", "double"},
}

// writeMemory declares the backing buffer sized from the maximum page count
// and the typed views over it.
func writeMemory(b *strings.Builder, mem ir.Memory) {
	b.WriteString("uint8_t *u8 = (uint8_t *)malloc(")
	b.WriteString(strconv.FormatUint(mem.Max, 10))
	b.WriteString(" << 16);\n")
	for _, v := range views {
		b.WriteString(v.ctype)
		b.WriteString(" *")
		b.WriteString(v.name)
		b.WriteString(" = (")
		b.WriteString(v.ctype)
		b.WriteString(" *)u8;\n")
	}
	b.WriteByte('\n')
}
