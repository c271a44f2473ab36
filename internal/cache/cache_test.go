package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("models/hero.glb"), Key("models/hero.glb"))
	assert.NotEqual(t, Key("models/hero.glb"), Key("models/villain.glb"))
}

func TestPutGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("hero.glb", []byte("clips: []")))
	data, err := s.Get("hero.glb")
	require.NoError(t, err)
	assert.Equal(t, "clips: []", string(data))

	// Put replaces.
	require.NoError(t, s.Put("hero.glb", []byte("v2")))
	data, err = s.Get("hero.glb")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nope.glb")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAllGetAll(t *testing.T) {
	s := newTestStore(t)

	entries := map[string][]byte{
		"a.glb": []byte("a"),
		"b.glb": []byte("b"),
		"c.glb": []byte("c"),
	}
	require.NoError(t, s.SaveAll(entries))

	got, err := s.GetAll([]string{"a.glb", "c.glb", "missing.glb"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a.glb": []byte("a"), "c.glb": []byte("c")}, got)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put("gone.glb", []byte("x")))
	require.NoError(t, s.Delete("gone.glb"))

	_, err := s.Get("gone.glb")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put("hero.glb", []byte("kept")))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Get("hero.glb")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data))
}

func TestInMemory(t *testing.T) {
	s, err := Open("", nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveAll(map[string][]byte{"m.glb": []byte("m")}))
	data, err := s.Get("m.glb")
	require.NoError(t, err)
	assert.Equal(t, "m", string(data))
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}
