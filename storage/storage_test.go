package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()

	file, err := NewFileStorage(filepath.Join(t.TempDir(), "files"))
	require.NoError(t, err)

	db, err := OpenSQLite(t.TempDir())
	require.NoError(t, err)

	all := map[string]Storage{
		BackendFile:   file,
		BackendSQLite: db,
		BackendMemory: NewMemoryStorage(),
	}
	t.Cleanup(func() {
		for _, s := range all {
			s.Close()
		}
	})
	return all
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "erd-diagram")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Save(ctx, "erd-diagram", []byte(`{"entities":[]}`)))
			got, err := s.Load(ctx, "erd-diagram")
			require.NoError(t, err)
			assert.Equal(t, `{"entities":[]}`, string(got))

			require.NoError(t, s.Save(ctx, "erd-diagram", []byte(`{"v":2}`)))
			got, err = s.Load(ctx, "erd-diagram")
			require.NoError(t, err)
			assert.Equal(t, `{"v":2}`, string(got))

			require.NoError(t, s.Remove(ctx, "erd-diagram"))
			_, err = s.Load(ctx, "erd-diagram")
			assert.ErrorIs(t, err, ErrNotFound)

			// Removing twice is fine
			assert.NoError(t, s.Remove(ctx, "erd-diagram"))
		})
	}
}

func TestStorage_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "a", []byte("1")))
			require.NoError(t, s.Save(ctx, "b", []byte("2")))
			require.NoError(t, s.Remove(ctx, "a"))

			got, err := s.Load(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, "2", string(got))
		})
	}
}

func TestFileStorage_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "erd-diagram", []byte("{}")))

	_, err = os.Stat(filepath.Join(dir, "erd-diagram.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "erd-diagram.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileStorage_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../escape", `a\b`} {
		err := s.Save(context.Background(), key, []byte("{}"))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestSQLiteStorage_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenSQLite(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "erd-diagram", []byte("saved")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "erd-diagram")
	require.NoError(t, err)
	assert.Equal(t, "saved", string(got))
}

func TestMemoryStorage_CopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	buf := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", buf))
	buf[0] = 'x'

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestOpen(t *testing.T) {
	s, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	_, err = Open("redis", t.TempDir())
	assert.Error(t, err)
}
