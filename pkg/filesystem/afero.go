package filesystem

import (
	"io/fs"
	"sort"

	"github.com/spf13/afero"
)

// FS is the subset of filesystem operations a sync run needs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Mkdir(name string, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error
	Chown(name string, uid, gid int) error

	// Glob returns the names matching pattern in lexical order
	Glob(pattern string) ([]string, error)
}

// aferoFS implements FS using afero
type aferoFS struct {
	fs afero.Fs
}

// NewAferoFS creates a new afero filesystem implementation
func NewAferoFS(fs afero.Fs) FS {
	return &aferoFS{fs: fs}
}

// NewOS creates an FS backed by the OS filesystem
func NewOS() FS {
	return NewAferoFS(afero.NewOsFs())
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) Mkdir(name string, perm fs.FileMode) error {
	return a.fs.Mkdir(name, perm)
}

func (a *aferoFS) Chmod(name string, mode fs.FileMode) error {
	return a.fs.Chmod(name, mode)
}

func (a *aferoFS) Chown(name string, uid, gid int) error {
	return a.fs.Chown(name, uid, gid)
}

func (a *aferoFS) Glob(pattern string) ([]string, error) {
	matches, err := afero.Glob(a.fs, pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
