package main

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm2c"
	"github.com/wippyai/wasm2c/cgen"
	"github.com/wippyai/wasm2c/engine"
	"github.com/wippyai/wasm2c/errors"
	"github.com/wippyai/wasm2c/wasm"
)

type rootCommand struct {
	gs  *globalState
	cmd *cobra.Command
}

func newRootCommand(gs *globalState) *cobra.Command {
	c := &rootCommand{gs: gs}
	c.cmd = &cobra.Command{
		Use:           "wasm2c -i <file.wasm> [-o <file.c>]",
		Short:         "Decompile a WebAssembly module to C-like source",
		Version:       versionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}
	c.cmd.SetOut(gs.stdout)
	c.cmd.SetErr(gs.stderr)
	c.cmd.Flags().AddFlagSet(configFlagSet())
	c.cmd.AddCommand(getCmdVersion(gs))
	return c.cmd
}

func (c *rootCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := getConsolidatedConfig(c.gs, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Interactive && !(c.gs.stdinTTY && c.gs.stdoutTTY) {
		return errors.InvalidInput(errors.PhaseConfig, "--interactive requires a terminal")
	}

	log, err := newLogger(cfg, c.gs.stderr, c.gs.stderrTTY)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	installLogger(log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return c.decompile(ctx, cfg, log)
}

func (c *rootCommand) decompile(ctx context.Context, cfg Config, log *zap.Logger) error {
	data, err := afero.ReadFile(c.gs.fs, cfg.Input)
	if err != nil {
		return errors.IO(errors.PhaseRead, cfg.Input, err)
	}
	log.Info("read input", zap.String("path", cfg.Input), zap.Int("bytes", len(data)))

	m, err := wasm.ParseModule(data)
	if err != nil {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(cfg.Input).
			Cause(err).
			Detail("not a WebAssembly module").
			Build()
	}

	if cfg.Verify {
		c.verify(ctx, cfg, data, log)
	}

	res, err := wasm2c.DecompileModule(m,
		cgen.WithLogger(log),
		cgen.WithWorkers(cfg.Workers),
		cgen.WithStrict(cfg.Strict))
	if err != nil {
		return err
	}

	if cfg.Interactive {
		return c.gs.runProgram(newBrowserModel(cfg.Input, res))
	}

	if err := afero.WriteFile(c.gs.fs, cfg.Output, []byte(res.Source), 0o644); err != nil {
		return errors.IO(errors.PhaseWrite, cfg.Output, err)
	}
	log.Info("wrote output",
		zap.String("path", cfg.Output),
		zap.Int("bytes", len(res.Source)),
		zap.Int("functions", len(res.Functions)),
		zap.Int("diagnostics", len(res.Diagnostics)))
	return nil
}

// verify compiles the input with wazero. A rejection is only reported:
// decompilation is best effort either way.
func (c *rootCommand) verify(ctx context.Context, cfg Config, data []byte, log *zap.Logger) {
	v := engine.NewVerifier(ctx, &engine.Config{MemoryLimitPages: cfg.MemoryLimitPages})
	defer func() { _ = v.Close(ctx) }()

	report, err := v.Verify(ctx, data)
	if err != nil {
		log.Warn("verification failed, continuing", zap.Error(err))
		return
	}
	log.Info("verified input",
		zap.Int("exports", len(report.Exports)),
		zap.Int("imports", len(report.Imports)),
		zap.Bool("memory", report.Memory))
}
