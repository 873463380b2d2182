// Package engine checks modules against a real WebAssembly runtime.
//
// Decompilation never requires a module to be valid: malformed input still
// produces best-effort output. The Verifier is an opt-in second opinion that
// compiles the input with wazero and reports what the runtime sees.
//
//	v := engine.NewVerifier(ctx, &engine.Config{MemoryLimitPages: 256})
//	defer v.Close(ctx)
//
//	report, err := v.Verify(ctx, wasmBytes)
//	if err != nil {
//	    log.Printf("module rejected: %v", err)
//	}
//
// # Experimental Features
//
// Threads/Atomics: Enable via Config.EnableThreads. Modules using shared
// memory are otherwise rejected at compile time.
//
// # Thread Safety
//
// A Verifier is safe for concurrent use.
package engine
