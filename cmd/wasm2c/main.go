// Command wasm2c decompiles a WebAssembly binary module into C-like source.
//
//	wasm2c -i module.wasm -o module.c
package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/wippyai/wasm2c/errors"
)

func main() {
	gs := newGlobalState()
	if err := newRootCommand(gs).Execute(); err != nil {
		fmt.Fprintln(gs.stderr, userMessage(err))
		os.Exit(1)
	}
}

// userMessage returns the text shown for err. Configuration mistakes are
// shown as their detail alone.
func userMessage(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Phase == errors.PhaseConfig && e.Kind == errors.KindInvalidInput {
		return e.Detail
	}
	return "Error: " + err.Error()
}
