package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

const (
	exitFailure  = 1
	exitDenied   = 2
	exitCanceled = 130
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		code := exitCode(err)
		if code != exitCanceled {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), errors.Is(err, errPromptCanceled):
		return exitCanceled
	case isAccessDenied(err):
		return exitDenied
	default:
		return exitFailure
	}
}
