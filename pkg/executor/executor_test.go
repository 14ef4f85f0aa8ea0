package executor_test

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/executor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("requires sh")
	}
}

func TestExecRunner_ExitCodes(t *testing.T) {
	requireShell(t)
	r := executor.NewExecRunner(zerolog.Nop())

	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"success", "exit 0", 0},
		{"failure", "exit 3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code, err := r.Run(context.Background(), executor.Invocation{
				Program: "sh",
				Args:    []string{"-c", tt.script},
				Stdout:  &out,
				Stderr:  &out,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestExecRunner_WorkingDirAndOutput(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	r := executor.NewExecRunner(zerolog.Nop())

	var out bytes.Buffer
	code, err := r.Run(context.Background(), executor.Invocation{
		Program: "sh",
		Args:    []string{"-c", "pwd"},
		Dir:     dir,
		Stdout:  &out,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, out.String(), resolved)
}

func TestExecRunner_MissingProgram(t *testing.T) {
	r := executor.NewExecRunner(zerolog.Nop())

	code, err := r.Run(context.Background(), executor.Invocation{Program: "dotsync-no-such-tool"})
	require.Error(t, err)
	assert.Equal(t, -1, code)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolExecute))

	_, err = r.Run(context.Background(), executor.Invocation{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDryRunRunner(t *testing.T) {
	var buf bytes.Buffer
	r := executor.NewDryRunRunner(zerolog.New(&buf))

	code, err := r.Run(context.Background(), executor.Invocation{
		Program: "rsync",
		Args:    []string{"--update", "/a", "/b"},
		Dir:     "/dotfiles",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), `"argv":["rsync","--update","/a","/b"]`)
	assert.Contains(t, buf.String(), "Dry run mode")
}

func TestInvocation_String(t *testing.T) {
	inv := executor.Invocation{Program: "rsync", Args: []string{"-a", "x"}}
	assert.Equal(t, "rsync -a x", inv.String())
}
