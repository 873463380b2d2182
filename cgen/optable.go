package cgen

import "github.com/wippyai/wasm2c/ir"

// UnaryName returns the call-style name of op, e.g. __ClzInt32.
func UnaryName(op ir.UnaryOp) Name {
	if s, ok := op.Name(); ok {
		return known(uint32(op), "__"+s)
	}
	return unknown(uint32(op))
}

// BinaryToken returns the infix token of op. Float min, max and copysign
// have no C operator and use named pseudo-operators.
func BinaryToken(op ir.BinaryOp) Name {
	if tok, ok := binaryTokens[op]; ok {
		return known(uint32(op), tok)
	}
	return unknown(uint32(op))
}

var binaryTokens = map[ir.BinaryOp]string{
	ir.AddInt32:  "+",
	ir.SubInt32:  "-",
	ir.MulInt32:  "*",
	ir.DivSInt32: "/",
	ir.DivUInt32: "/",
	ir.RemSInt32: "%",
	ir.RemUInt32: "%",
	ir.AndInt32:  "&",
	ir.OrInt32:   "|",
	ir.XorInt32:  "^",
	ir.ShlInt32:  "<<",
	ir.ShrSInt32: ">>",
	ir.ShrUInt32: ">>",
	ir.RotLInt32: "<<<",
	ir.RotRInt32: ">>>",
	ir.EqInt32:   "==",
	ir.NeInt32:   "!=",
	ir.LtSInt32:  "<",
	ir.LtUInt32:  "<",
	ir.LeSInt32:  "<=",
	ir.LeUInt32:  "<=",
	ir.GtSInt32:  ">",
	ir.GtUInt32:  ">",
	ir.GeSInt32:  ">=",
	ir.GeUInt32:  ">=",

	ir.AddInt64:  "+",
	ir.SubInt64:  "-",
	ir.MulInt64:  "*",
	ir.DivSInt64: "/",
	ir.DivUInt64: "/",
	ir.RemSInt64: "%",
	ir.RemUInt64: "%",
	ir.AndInt64:  "&",
	ir.OrInt64:   "|",
	ir.XorInt64:  "^",
	ir.ShlInt64:  "<<",
	ir.ShrSInt64: ">>",
	ir.ShrUInt64: ">>",
	ir.RotLInt64: "<<<",
	ir.RotRInt64: ">>>",
	ir.EqInt64:   "==",
	ir.NeInt64:   "!=",
	ir.LtSInt64:  "<",
	ir.LtUInt64:  "<",
	ir.LeSInt64:  "<=",
	ir.LeUInt64:  "<=",
	ir.GtSInt64:  ">",
	ir.GtUInt64:  ">",
	ir.GeSInt64:  ">=",
	ir.GeUInt64:  ">=",

	ir.AddFloat32:      "+",
	ir.SubFloat32:      "-",
	ir.MulFloat32:      "*",
	ir.DivFloat32:      "/",
	ir.CopySignFloat32: "CopySign",
	ir.MinFloat32:      "min",
	ir.MaxFloat32:      "max",
	ir.EqFloat32:       "==",
	ir.NeFloat32:       "!=",
	ir.LtFloat32:       "<",
	ir.LeFloat32:       "<=",
	ir.GtFloat32:       ">",
	ir.GeFloat32:       ">=",

	ir.AddFloat64:      "+",
	ir.SubFloat64:      "-",
	ir.MulFloat64:      "*",
	ir.DivFloat64:      "/",
	ir.CopySignFloat64: "CopySign",
	ir.MinFloat64:      "min",
	ir.MaxFloat64:      "max",
	ir.EqFloat64:       "==",
	ir.NeFloat64:       "!=",
	ir.LtFloat64:       "<",
	ir.LeFloat64:       "<=",
	ir.GtFloat64:       ">",
	ir.GeFloat64:       ">=",
}
