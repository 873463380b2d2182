package cgen

import (
	"strconv"
	"strings"

	"github.com/wippyai/wasm2c/ir"
)

// FormatSignature returns the prototype of fn without a terminator:
// "<result> func<name>(<type> v0, <type> v1)". Parameters are named by
// position, matching local references in bodies.
func FormatSignature(fn *ir.Function) string {
	return formatSignature(fn, func(t ir.Type) string { return TypeName(t).Text })
}

func formatSignature(fn *ir.Function, typeName func(ir.Type) string) string {
	var b strings.Builder
	b.WriteString(typeName(fn.Signature.Result))
	b.WriteString(" func")
	b.WriteString(fn.Name)
	b.WriteByte('(')
	for i, p := range fn.Signature.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(typeName(p))
		b.WriteString(" v")
		b.WriteString(strconv.Itoa(i))
	}
	b.WriteByte(')')
	return b.String()
}
