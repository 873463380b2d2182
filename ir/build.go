package ir

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/wasm2c/errors"
	"github.com/wippyai/wasm2c/wasm"
)

// Build folds every function body of m into an expression tree and resolves
// the names of functions and globals. Constructs that cannot be modelled are
// kept as Unsupported nodes and reported in Module.Warnings; Build only fails
// on a nil module.
func Build(m *wasm.Module) (*Module, error) {
	if m == nil {
		return nil, errors.InvalidInput(errors.PhaseBuild, "nil module")
	}

	b := &builder{
		src: m,
		out: &Module{},
		log: Logger(),
	}

	names, err := m.Names()
	if err != nil {
		b.warn("", fmt.Sprintf("name section: %v", err))
	}
	b.names = names

	b.indexFunctions()
	b.buildGlobals()
	b.buildMemory()
	b.buildFunctions()
	b.resolveExports()

	b.log.Debug("built module",
		zap.Int("functions", len(b.out.Functions)),
		zap.Int("globals", len(b.out.Globals)),
		zap.Int("warnings", len(b.out.Warnings)))

	return b.out, nil
}

type builder struct {
	src   *wasm.Module
	out   *Module
	names *wasm.Names
	log   *zap.Logger
}

func (b *builder) warn(fn, msg string) {
	b.out.Warnings = append(b.out.Warnings, Warning{Function: fn, Message: msg})
	b.log.Warn(msg, zap.String("function", fn))
}

// indexFunctions creates one Function per entry of the function index
// space, imports first, and assigns unique names.
func (b *builder) indexFunctions() {
	table := newNameTable()
	name := func(idx uint32, fallback string) string {
		if n, ok := b.names.Functions[idx]; ok {
			if id := Identifier(Demangle(n)); id != "" {
				return table.claim(id)
			}
		}
		return table.claim(fallback)
	}

	var idx uint32
	for _, imp := range b.src.Imports {
		if imp.Desc.Kind != wasm.KindFunc {
			continue
		}
		b.out.Functions = append(b.out.Functions, &Function{
			Name:      name(idx, importedFuncName(idx)),
			Signature: b.signature(idx),
			Index:     idx,
			Module:    imp.Module,
			Base:      imp.Name,
		})
		idx++
	}
	for range b.src.Funcs {
		b.out.Functions = append(b.out.Functions, &Function{
			Name:      name(idx, definedFuncName(idx)),
			Signature: b.signature(idx),
			Index:     idx,
		})
		idx++
	}
}

func (b *builder) signature(funcIdx uint32) Signature {
	ft, ok := b.src.FuncTypeOf(funcIdx)
	if !ok {
		b.warn("", fmt.Sprintf("function %d: type index out of range", funcIdx))
		return Signature{}
	}
	return signatureOf(ft)
}

func signatureOf(ft *wasm.FuncType) Signature {
	params := make([]Type, len(ft.Params))
	for i, p := range ft.Params {
		params[i] = TypeOf(p)
	}
	return Signature{Params: params, Result: resultType(ft.Results)}
}

// buildGlobals names every global and folds defined initialisers.
func (b *builder) buildGlobals() {
	table := newNameTable()
	name := func(idx uint32, fallback string) string {
		if n, ok := b.names.Globals[idx]; ok {
			if id := Identifier(n); id != "" {
				return table.claim(id)
			}
		}
		return table.claim(fallback)
	}

	var idx uint32
	for _, imp := range b.src.Imports {
		if imp.Desc.Kind != wasm.KindGlobal || imp.Desc.Global == nil {
			continue
		}
		g := &Global{
			Name:    name(idx, importedGlobalName(idx)),
			Type:    TypeOf(imp.Desc.Global.ValType),
			Mutable: imp.Desc.Global.Mutable,
			Module:  imp.Module,
			Base:    imp.Name,
		}
		b.out.Globals = append(b.out.Globals, g)
		idx++
	}

	// Names first so initialisers can refer to any global.
	start := len(b.out.Globals)
	for _, def := range b.src.Globals {
		g := &Global{
			Name:    name(idx, definedGlobalName(idx)),
			Type:    TypeOf(def.Type.ValType),
			Mutable: def.Type.Mutable,
		}
		b.out.Globals = append(b.out.Globals, g)
		idx++
	}
	for i, def := range b.src.Globals {
		g := b.out.Globals[start+i]
		g.Init = b.foldInit(g.Name, g.Type, def.Init)
	}
}

// foldInit folds a constant expression. Anything that does not reduce to a
// single node becomes Unsupported.
func (b *builder) foldInit(owner string, t Type, init []byte) Expression {
	instrs, err := wasm.DecodeInstructions(init)
	if err != nil {
		b.warn(owner, fmt.Sprintf("initialiser: %v", err))
		return &Unsupported{ID: KindInvalid, Opcode: "init", ResultType: t}
	}

	f := b.newFolder(&Function{Name: owner, Signature: Signature{Result: t}})
	items := f.seq(parseTree(instrs), t, nil)
	if len(items) != 1 {
		return &Unsupported{ID: KindInvalid, Opcode: "init", ResultType: t}
	}
	return items[0]
}

func (b *builder) buildMemory() {
	mem, ok := b.src.Memory()
	if !ok {
		return
	}
	b.out.Memory = Memory{
		Initial: mem.Limits.Min,
		Max:     wasm.MaxPages,
		Exists:  true,
	}
	if mem.Limits.Max != nil {
		b.out.Memory.Max = *mem.Limits.Max
	}
}

// buildFunctions decodes and folds every defined body. A body that fails to
// decode becomes a single Unsupported node.
func (b *builder) buildFunctions() {
	numImported := b.src.NumImportedFuncs()

	for i, code := range b.src.Code {
		fn := b.out.Functions[numImported+i]
		for _, entry := range code.Locals {
			t := TypeOf(entry.ValType)
			for j := uint32(0); j < entry.Count; j++ {
				fn.Vars = append(fn.Vars, t)
			}
		}

		instrs, err := wasm.DecodeInstructions(code.Code)
		if err != nil {
			b.warn(fn.Name, fmt.Sprintf("body not decoded: %v", err))
			fn.Body = &Unsupported{ID: KindInvalid, Opcode: "body", ResultType: fn.Signature.Result}
			continue
		}

		declared := len(fn.Vars)
		f := b.newFolder(fn)
		fn.Body = f.body(parseTree(instrs))

		b.log.Debug("folded function",
			zap.String("function", fn.Name),
			zap.Int("instructions", len(instrs)),
			zap.Int("locals", declared),
			zap.Int("scratch", len(fn.Vars)-declared))
	}
}

func (b *builder) resolveExports() {
	for _, exp := range b.src.Exports {
		if exp.Kind != wasm.KindFunc {
			continue
		}
		if int(exp.Idx) >= len(b.out.Functions) {
			b.warn("", fmt.Sprintf("export %q: function %d out of range", exp.Name, exp.Idx))
			continue
		}
		fn := b.out.Functions[exp.Idx]
		fn.Exports = append(fn.Exports, exp.Name)
	}

	if b.src.Start != nil {
		if int(*b.src.Start) < len(b.out.Functions) {
			b.out.Start = b.out.Functions[*b.src.Start].Name
		} else {
			b.warn("", fmt.Sprintf("start function %d out of range", *b.src.Start))
		}
	}
}

func (b *builder) funcName(idx uint32) (string, bool) {
	if int(idx) < len(b.out.Functions) {
		return b.out.Functions[idx].Name, true
	}
	return "", false
}

func (b *builder) global(idx uint32) (string, Type, bool) {
	if int(idx) < len(b.out.Globals) {
		g := b.out.Globals[idx]
		return g.Name, g.Type, true
	}
	return "", TypeNone, false
}
