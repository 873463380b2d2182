package cgen

import (
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/wasm2c/errors"
	"github.com/wippyai/wasm2c/ir"
)

const preamble = "#include <stdint.h>\n#include <stdlib.h>\n\n"

// Result is the rendered module.
type Result struct {
	// Source is the complete document.
	Source string
	// Functions holds each function's prototype and definition in module
	// order.
	Functions   []FunctionSource
	Diagnostics Diagnostics
}

// FunctionSource is the rendering of one function.
type FunctionSource struct {
	Name      string
	Signature string
	// Text is the full definition, signature through closing brace.
	Text        string
	Imported    bool
	Diagnostics Diagnostics
}

// Generate renders m. Soft failures never stop generation; they are
// collected in Result.Diagnostics along with the warnings of ir.Build.
// With WithStrict a non-empty list is also returned as the error.
func Generate(m *ir.Module, opts ...Option) (*Result, error) {
	if m == nil {
		return nil, errors.InvalidInput(errors.PhaseEmit, "nil module")
	}
	cfg := newConfig(opts)
	log := cfg.logger

	var diags Diagnostics
	for _, w := range m.Warnings {
		diags = append(diags, Diagnostic{Function: w.Function, Kind: DiagBuild, Message: w.Message})
	}

	var out strings.Builder
	out.WriteString(preamble)

	globals := newEmitter(cfg, "")
	writeGlobals(&out, globals, m.Globals)
	diags = append(diags, globals.Diagnostics()...)

	writeMemory(&out, m.Memory)

	functions, err := emitFunctions(cfg, m.Functions)
	if err != nil {
		return nil, err
	}
	for _, f := range functions {
		out.WriteString(f.Signature)
		out.WriteString(";\n")
	}
	for _, f := range functions {
		out.WriteString(f.Text)
		diags = append(diags, f.Diagnostics...)
	}

	res := &Result{
		Source:      out.String(),
		Functions:   functions,
		Diagnostics: diags,
	}

	log.Info("generated module",
		zap.Int("functions", len(functions)),
		zap.Int("globals", len(m.Globals)),
		zap.Int("bytes", len(res.Source)),
		zap.Int("diagnostics", len(diags)))

	if cfg.strict && len(diags) > 0 {
		return res, diags
	}
	return res, nil
}

// writeGlobals declares every global with its literal initialiser.
// Imported globals and non-literal initialisers get "unknown".
func writeGlobals(b *strings.Builder, e *Emitter, globals []*ir.Global) {
	for _, g := range globals {
		b.WriteString(e.typeName(g.Type))
		b.WriteByte(' ')
		b.WriteString(g.Name)
		b.WriteString(" = ")

		c, ok := g.Init.(*ir.Const)
		value, literal := "", false
		if ok {
			value, literal = formatLiteral(c.Value)
		}
		if !literal {
			value = "unknown"
			e.function = g.Name
			e.diag(DiagGlobal, uint64(kindOf(g.Init)), "initialiser is not a literal")
		}
		b.WriteString(value)
		b.WriteString(";\n")
	}
	b.WriteByte('\n')
}

func kindOf(x ir.Expression) ir.Kind {
	if x == nil {
		return ir.KindInvalid
	}
	return x.Kind()
}

// emitFunctions renders every function, bounded by the worker limit. Each
// body gets its own Emitter; results are returned in input order.
func emitFunctions(cfg *config, fns []*ir.Function) ([]FunctionSource, error) {
	workers := cfg.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]FunctionSource, len(fns))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.New(errors.PhaseEmit, errors.KindUnknownConstruct).
						Path(fn.Name).
						Detail("emitter panic: %v", r).
						Build()
				}
			}()
			out[i] = emitFunction(cfg, fn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func emitFunction(cfg *config, fn *ir.Function) FunctionSource {
	e := newEmitter(cfg, fn.Name)
	sig := formatSignature(fn, e.typeName)

	e.write(sig)
	e.write("\n{\n")
	if fn.Imported() {
		e.write("// imported\n")
	} else {
		func() {
			defer e.nest()()
			params := fn.NumParams()
			for j, t := range fn.Vars {
				e.writeIndent()
				e.write(e.typeName(t))
				e.write(" v")
				e.write(strconv.Itoa(params + j))
				e.write(";\n")
			}
			e.statement(fn.Body)
		}()
	}
	e.write("}\n\n")

	cfg.logger.Debug("emitted function",
		zap.String("func", fn.Name),
		zap.Int("bytes", e.Len()),
		zap.Int("diagnostics", len(e.diags)))

	return FunctionSource{
		Name:        fn.Name,
		Signature:   sig,
		Text:        e.String(),
		Imported:    fn.Imported(),
		Diagnostics: e.diags,
	}
}
