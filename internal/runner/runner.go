// Package runner executes external commands for the rest of the
// program. Keeping the exec boundary behind an interface lets tests
// substitute canned output for package-manager invocations.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Output is a finished command invocation.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs a command to completion and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func New() ExecRunner { return ExecRunner{} }

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	out := Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	if _, ok := err.(*exec.ExitError); ok {
		// Non-zero exit is reported through ExitCode, not err, so
		// callers can read stderr before deciding.
		return out, nil
	}
	return out, err
}

// Shell splits a stored install command and runs it. Commands come
// from our own adapters, not free-form user input, so whitespace
// splitting is sufficient.
func Shell(ctx context.Context, r Runner, command string) (Output, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Output{}, fmt.Errorf("empty command")
	}
	return r.Run(ctx, fields[0], fields[1:]...)
}
