package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"failure", errors.New("boom"), exitFailure},
		{"denied", &accessError{message: "sign in first"}, exitDenied},
		{"prompt canceled", fmt.Errorf("login: %w", errPromptCanceled), exitCanceled},
		{"interrupted", context.Canceled, exitCanceled},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("%s: exitCode = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestWorkCommandWithoutSessionExitsDenied(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "work", "show", "w1")
	if err == nil {
		t.Fatal("expected access error")
	}
	if got := exitCode(err); got != exitDenied {
		t.Fatalf("exitCode = %d, want %d (err=%v)", got, exitDenied, err)
	}
}
