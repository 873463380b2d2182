package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm2c/cgen"
	"github.com/wippyai/wasm2c/engine"
	"github.com/wippyai/wasm2c/ir"
)

// newLogger builds the command logger. Console output is coloured only when
// it goes to a terminal.
func newLogger(cfg Config, w io.Writer, tty bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var enc zapcore.Encoder
	if cfg.LogFormat == logFormatJSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if tty {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), nil
}

// installLogger routes the diagnostics of every library package to l.
func installLogger(l *zap.Logger) {
	ir.SetLogger(l)
	cgen.SetLogger(l)
	engine.SetLogger(l)
}
