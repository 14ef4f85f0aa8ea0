package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	dserrors "github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/rs/zerolog"
)

// Invocation describes one program run
type Invocation struct {
	Program string
	Args    []string
	// Dir is the working directory; empty means the current one
	Dir string
	// Stdout and Stderr receive the program's output. Nil inherits the
	// caller's streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Argv returns the full argument vector including the program
func (i Invocation) Argv() []string {
	return append([]string{i.Program}, i.Args...)
}

// String renders the invocation for logs
func (i Invocation) String() string {
	return strings.Join(i.Argv(), " ")
}

// Runner runs invocations to completion
type Runner interface {
	// Run blocks until the program exits. It returns the exit code, and an
	// error only when the program could not be run.
	Run(ctx context.Context, inv Invocation) (int, error)
}

// ExecRunner runs programs as subprocesses
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a subprocess runner
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	if inv.Program == "" {
		return -1, dserrors.New(dserrors.ErrInvalidInput, "invocation requires a program")
	}

	r.logger.Debug().
		Str("command", inv.Program).
		Strs("args", inv.Args).
		Str("workingDir", inv.Dir).
		Msg("Executing command")

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = inv.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = inv.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, dserrors.Wrapf(err, dserrors.ErrToolExecute, "failed to run %s", inv.Program)
}

// DryRunRunner logs invocations instead of running them
type DryRunRunner struct {
	logger zerolog.Logger
}

// NewDryRunRunner creates a runner that only logs
func NewDryRunRunner(logger zerolog.Logger) *DryRunRunner {
	return &DryRunRunner{logger: logger}
}

func (r *DryRunRunner) Run(_ context.Context, inv Invocation) (int, error) {
	r.logger.Info().
		Strs("argv", inv.Argv()).
		Str("workingDir", inv.Dir).
		Msg("Dry run mode - command would be executed")
	return 0, nil
}
