package rsync_test

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/executor"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/handlers/rsync"
	"github.com/arthur-debert/dotsync/pkg/identity"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/platform"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and returns scripted results keyed by the
// source argument.
type fakeRunner struct {
	calls []executor.Invocation
	codes map[string]int
	errs  map[string]error
}

func (f *fakeRunner) Run(_ context.Context, inv executor.Invocation) (int, error) {
	f.calls = append(f.calls, inv)
	source := inv.Args[len(inv.Args)-2]
	if err, ok := f.errs[source]; ok {
		return -1, err
	}
	return f.codes[source], nil
}

type fakeResolver struct{}

func (fakeResolver) UID(owner string) (int, error) {
	switch owner {
	case "me":
		return 501, nil
	case "root":
		return 0, nil
	}
	return identity.Unchanged, errors.Newf(errors.ErrUserLookup, "unknown owner %q", owner)
}

func (fakeResolver) GID(group string) (int, error) {
	switch group {
	case "staff":
		return 20, nil
	case "wheel":
		return 0, nil
	}
	return identity.Unchanged, errors.Newf(errors.ErrGroupLookup, "unknown group %q", group)
}

func (fakeResolver) CurrentOwner() string { return "me" }
func (fakeResolver) CurrentGroup() string { return "staff" }

// recordingFS wraps an FS, optionally failing chmod or chown, and records
// ownership changes.
type recordingFS struct {
	filesystem.FS
	chmodErr error
	chownErr error
	chowns   []identity.Ownership
	chmods   []fs.FileMode
}

func (r *recordingFS) Chmod(name string, mode fs.FileMode) error {
	r.chmods = append(r.chmods, mode)
	if r.chmodErr != nil {
		return r.chmodErr
	}
	return r.FS.Chmod(name, mode)
}

func (r *recordingFS) Chown(name string, uid, gid int) error {
	r.chowns = append(r.chowns, identity.Ownership{UID: uid, GID: gid})
	if r.chownErr != nil {
		return r.chownErr
	}
	return r.FS.Chown(name, uid, gid)
}

type nullSink struct {
	closed bool
}

func (n *nullSink) Write(p []byte) (int, error) { return len(p), nil }
func (n *nullSink) Close() error {
	n.closed = true
	return nil
}

type env struct {
	mem    afero.Fs
	fs     filesystem.FS
	runner *fakeRunner
	logs   *bytes.Buffer
	sinks  []*nullSink
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mem := afero.NewMemMapFs()
	return &env{
		mem:    mem,
		fs:     filesystem.NewAferoFS(mem),
		runner: &fakeRunner{codes: map[string]int{}, errs: map[string]error{}},
		logs:   &bytes.Buffer{},
	}
}

func (e *env) file(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(e.mem, path, []byte(path), 0644))
}

func (e *env) handler(p platform.Platform, baseDir string) *rsync.Handler {
	return rsync.New(rsync.Config{
		BaseDir:  baseDir,
		Platform: p,
		FS:       e.fs,
		Runner:   e.runner,
		Resolver: fakeResolver{},
		Expander: paths.NewExpander(e.fs,
			paths.WithHomeDir(func() (string, error) { return "/home/me", nil }),
			paths.WithEnv(func(k string) (string, bool) {
				if k == "DEST" {
					return "/backup", true
				}
				return "", false
			}),
		),
		Logger: zerolog.New(e.logs),
		OpenNull: func() (io.WriteCloser, error) {
			s := &nullSink{}
			e.sinks = append(e.sinks, s)
			return s, nil
		},
	})
}

func ptr[T any](v T) *T {
	return &v
}
