package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoFS_Glob(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/b.txt", []byte("b"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/src/a.txt", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/src/c.md", []byte("c"), 0644))

	fsys := filesystem.NewAferoFS(mem)

	matches, err := fsys.Glob("/src/*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/a.txt", "/src/b.txt"}, matches)

	none, err := fsys.Glob("/src/*.go")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = fsys.Glob("/src/[")
	assert.Error(t, err)
}

func TestAferoFS_MkdirChmod(t *testing.T) {
	mem := afero.NewMemMapFs()
	fsys := filesystem.NewAferoFS(mem)

	require.NoError(t, fsys.Mkdir("/dest", 0700))
	require.NoError(t, fsys.Chmod("/dest", 0755))

	info, err := fsys.Stat("/dest")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestNewOS(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	target := filepath.Join(dir, "child")
	require.NoError(t, fsys.Mkdir(target, 0755))

	info, err := fsys.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
