package wasm2c

import (
	"github.com/wippyai/wasm2c/cgen"
	"github.com/wippyai/wasm2c/errors"
	"github.com/wippyai/wasm2c/ir"
	"github.com/wippyai/wasm2c/wasm"
)

// Decompile decodes a binary module and renders it as C-like source.
func Decompile(data []byte, opts ...cgen.Option) (*cgen.Result, error) {
	if len(data) == 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, "empty module")
	}
	m, err := wasm.ParseModule(data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "decode module")
	}
	return DecompileModule(m, opts...)
}

// DecompileModule renders an already decoded module.
func DecompileModule(m *wasm.Module, opts ...cgen.Option) (*cgen.Result, error) {
	built, err := ir.Build(m)
	if err != nil {
		return nil, err
	}
	return cgen.Generate(built, opts...)
}
