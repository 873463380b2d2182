// Package wasm2c decompiles WebAssembly binary modules into C-like source.
//
// The output is meant for reading, not compiling: control flow keeps the
// shape of the WebAssembly structure, memory accesses go through typed views
// of one byte buffer, and constructs without a C rendering are written as
// placeholders such as unimplemented<id>.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	wasm2c/          Root package with the one-call Decompile facade
//	├── wasm/        Binary module decoding and instruction codec
//	├── ir/          Expression-tree model and the stack-code folder
//	├── cgen/        Type and operator tables, emitter, module assembler
//	├── engine/      Optional verification through wazero
//	├── errors/      Structured error types for debugging
//	└── cmd/wasm2c   Command line tool
//
// # Quick Start
//
//	res, err := wasm2c.Decompile(wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Source)
//
// # Soft Failures
//
// Decoding errors stop decompilation. Everything after decoding is best
// effort: unsupported opcodes, unknown types and unmodelled branches are
// recorded in Result.Diagnostics and the rest of the module is still
// emitted. Pass cgen.WithStrict(true) to turn a non-empty list into an error.
//
// # Concurrency
//
// Function bodies are emitted in parallel, bounded by cgen.WithWorkers.
// Output does not depend on the worker count.
package wasm2c
