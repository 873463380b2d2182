// Package wasm provides WebAssembly binary format parsing and encoding.
//
// The decoder covers what a decompiler needs: the WebAssembly 2.0 module
// sections, the MVP instruction set, sign-extension operators and the 0xFC
// prefix (saturating truncation and bulk memory). SIMD, atomics and GC
// instructions are rejected with ErrUnsupportedOpcode so callers can degrade
// per function.
//
// # Parsing
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Function bodies are kept raw. Decode them on demand:
//
//	instrs, err := wasm.DecodeInstructions(module.Code[0].Code)
//
// Debug names come from the "name" custom section:
//
//	names, _ := module.Names()
//	fmt.Println(names.Functions[3])
//
// # Encoding
//
// Encode a module back to binary:
//
//	encoded := module.Encode()
//
// EncodeInstructions and EncodeNames are the inverse of DecodeInstructions
// and ParseNames, used mostly to assemble test fixtures.
package wasm
