package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"wppddf/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "out")
	s := NewLocalFileStorageWithPath(dir)

	w, err := s.Create(ctx, "ddf--notes.csv")
	require.NoError(t, err)
	_, err = io.WriteString(w, "country_code,variant,notes\n")
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "ddf--notes.csv")
	require.NoError(t, err)
	assert.False(t, exists, "file is not visible before Close")

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second Close is a no-op")

	data, err := os.ReadFile(s.Path("ddf--notes.csv"))
	require.NoError(t, err)
	assert.Equal(t, "country_code,variant,notes\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestListSortedAndFiltered(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalFileStorageWithPath(dir)

	for _, name := range []string{"ddf--notes.csv", "ddf--concepts--discrete.csv", "readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ddf--dir.csv"), 0755))

	names, err := s.List(ctx, "ddf--*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"ddf--concepts--discrete.csv", "ddf--notes.csv"}, names)
}

func TestRejectsPathNames(t *testing.T) {
	s := NewLocalFileStorageWithPath(t.TempDir())
	for _, name := range []string{"", "../escape.csv", "sub/file.csv", ".hidden"} {
		_, err := s.Create(context.Background(), name)
		require.Error(t, err, name)
		assert.True(t, core.IsIOError(err), name)
	}
}

func TestOpenMissing(t *testing.T) {
	s := NewLocalFileStorageWithPath(t.TempDir())
	_, err := s.Open(context.Background(), "ddf--notes.csv")
	require.Error(t, err)
	assert.True(t, core.IsIOError(err))
}

func TestAbortDiscardsFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalFileStorageWithPath(dir)

	w, err := s.Create(ctx, "ddf--concepts--discrete.csv")
	require.NoError(t, err)
	_, err = io.WriteString(w, "concept,name")
	require.NoError(t, err)

	Abort(w)
	require.NoError(t, w.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
