package cgen

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/wasm2c/ir"
)

// formatLiteral renders integers in decimal and floats in their shortest
// round-tripping form. Integral floats keep a ".0" so they read as floats.
func formatLiteral(l ir.Literal) (string, bool) {
	switch l.Type {
	case ir.TypeI32:
		return strconv.FormatInt(int64(l.I32()), 10), true
	case ir.TypeI64:
		return strconv.FormatInt(l.I64(), 10), true
	case ir.TypeF32:
		return formatFloat(float64(l.F32()), 32), true
	case ir.TypeF64:
		return formatFloat(l.F64(), 64), true
	}
	return unknown(uint32(l.Type)).Text, false
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INFINITY"
	case math.IsInf(f, -1):
		return "-INFINITY"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
