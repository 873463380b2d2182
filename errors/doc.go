// Package errors provides structured error types for wasm2c.
//
// Errors are categorized by Phase (which pipeline stage failed) and Kind
// (error category). The Error type carries a location path, the offending
// value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBuild, errors.KindOutOfBounds).
//		Path("func3", "call").
//		Value(42).
//		Detail("function index %d out of range", 42).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.IO(errors.PhaseRead, "in.wasm", cause)
//	err := errors.UnknownConstruct(errors.PhaseEmit, path, "type", 9)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
