package engine

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"

	"github.com/wippyai/wasm2c/errors"
)

// Config holds configuration for verifier creation
type Config struct {
	// MemoryLimitPages sets the maximum memory a module may declare, in pages
	// (64KB each). 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// EnableThreads enables the WebAssembly threads proposal (experimental).
	EnableThreads bool
}

// Verifier compiles modules with wazero without instantiating them.
type Verifier struct {
	runtime wazero.Runtime
}

// Report describes a module the runtime accepted.
type Report struct {
	// Exports lists exported function names in sorted order.
	Exports []string
	// Imports lists imported functions as "module.name".
	Imports []string
	// Memory is true when the module exports or imports a memory.
	Memory bool
}

// NewVerifier creates a verifier. A nil cfg uses defaults.
func NewVerifier(ctx context.Context, cfg *Config) *Verifier {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.EnableThreads {
			runtimeCfg = runtimeCfg.WithCoreFeatures(api.CoreFeaturesV2 | experimental.CoreFeaturesThreads)
		}
	}

	return &Verifier{runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg)}
}

// Verify compiles data and reports its imports and exports. A module the
// runtime rejects returns a verify-phase error.
func (v *Verifier) Verify(ctx context.Context, data []byte) (*Report, error) {
	compiled, err := v.runtime.CompileModule(ctx, data)
	if err != nil {
		Logger().Warn("module rejected", zap.Int("bytes", len(data)), zap.Error(err))
		return nil, errors.Wrap(errors.PhaseVerify, errors.KindInvalidData, err, "runtime rejected module")
	}
	defer compiled.Close(ctx)

	report := &Report{
		Memory: len(compiled.ExportedMemories()) > 0 || len(compiled.ImportedMemories()) > 0,
	}
	for name := range compiled.ExportedFunctions() {
		report.Exports = append(report.Exports, name)
	}
	sort.Strings(report.Exports)
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		report.Imports = append(report.Imports, module+"."+name)
	}

	Logger().Debug("module verified",
		zap.Int("bytes", len(data)),
		zap.Int("exports", len(report.Exports)),
		zap.Int("imports", len(report.Imports)))
	return report, nil
}

// Close releases the runtime.
func (v *Verifier) Close(ctx context.Context) error {
	return v.runtime.Close(ctx)
}
