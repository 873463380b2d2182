// Package cgen renders folded WebAssembly modules as C-like source.
//
// The output is a structural, best-effort rendering: it is meant to be read,
// not compiled. Linear memory becomes one malloc'd buffer with typed views,
// globals become file-scope variables, and every function body is lowered
// from its expression tree.
//
// # Statement and Expression Position
//
// The Emitter walks a body recursively. A node in statement position is
// written as an indented, terminated line; a node in expression position is
// written inline. Value-producing leaves reached in statement position are
// the function's fall-through value and are written as return statements.
// Control constructs used as operands are parenthesised and written as a
// nested statement block.
//
// # Placeholders
//
// Lookups never fail. Unknown types, operators, widths and node kinds
// render as #<id>, unimplementedload<N>, unimplementedstore<N> or
// unimplemented<kind>, and each occurrence is recorded as a Diagnostic.
// Generate returns the diagnostics with the result; WithStrict turns a
// non-empty list into an error.
//
// # Concurrency
//
// An Emitter belongs to one traversal. Generate emits function bodies in
// parallel, one Emitter each, and concatenates them in module order.
package cgen
