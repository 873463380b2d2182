// Package ir folds decoded WebAssembly function bodies into expression trees.
//
// Build walks each body with an operand stack. Values are nested into the
// instructions that consume them; effects become statements of the
// enclosing block. Structured control flow maps onto Block, Loop and If
// nodes, and branches name their target by label.
//
// # Stack Folding
//
// A value that is still on the stack when an effect is emitted above it is
// moved into a scratch local so evaluation order is preserved. Scratch
// locals are appended to Function.Vars. Values left over at the end of a
// region are wrapped in Drop.
//
// # Names
//
// Functions and globals take their names from the "name" custom section
// when present (Rust symbols are demangled, then sanitised). Otherwise
// imported functions are fimport$N, defined functions use their index,
// and globals are gimport$N or global$N. Labels are label$N in order of
// first use within a function.
//
// # Unsupported Constructs
//
// Instructions without a dedicated node (memory.grow, reference and table
// operations, bulk memory) become Unsupported nodes that keep their
// operands and their would-be Kind. Build records a Warning for everything
// it could not model and never fails on valid input.
package ir
