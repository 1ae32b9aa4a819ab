package persist_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/keyview/internal/persist"
)

const stateDir = "/home/user/.config/keyview"

func newStore(t *testing.T, files map[string]string) (*persist.Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return persist.New(fs, stateDir), fs
}

func TestSaveAndLookup(t *testing.T) {
	store, fs := newStore(t, map[string]string{
		"/src/planck/keymap.c": "LAYOUT(KC_A)",
	})

	_, ok, err := store.SavedKeymapPath()
	require.NoError(t, err)
	assert.False(t, ok)

	saved, err := store.Save("/src/planck/keymap.c")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(stateDir, "last_keymap.c"), saved)

	data, err := afero.ReadFile(fs, saved)
	require.NoError(t, err)
	assert.Equal(t, "LAYOUT(KC_A)", string(data))

	path, ok, err := store.SavedKeymapPath()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, path)

	rec, err := store.Record()
	require.NoError(t, err)
	assert.Equal(t, "/src/planck/keymap.c", rec.LastKeymapPath)
}

func TestSaveReplacesOtherCopies(t *testing.T) {
	store, fs := newStore(t, map[string]string{
		"/src/a.json": `{"layers": [["KC_A"]]}`,
		"/src/b.h":    "LAYOUT(KC_B)",
		"/src/noext":  `{"layers": [["KC_C"]]}`,
		"/src/d.YAML": "layers: [[KC_D]]",
	})

	_, err := store.Save("/src/a.json")
	require.NoError(t, err)
	_, err = store.Save("/src/b.h")
	require.NoError(t, err)

	path, ok, err := store.SavedKeymapPath()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(stateDir, "last_keymap.h"), path)
	exists, _ := afero.Exists(fs, filepath.Join(stateDir, "last_keymap.json"))
	assert.False(t, exists)

	saved, err := store.Save("/src/noext")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(stateDir, "last_keymap.json"), saved)

	saved, err = store.Save("/src/d.YAML")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(stateDir, "last_keymap.yaml"), saved)
}

func TestClear(t *testing.T) {
	store, fs := newStore(t, map[string]string{
		"/src/keymap.json":                          `{"layers": [["KC_A"]]}`,
		filepath.Join(stateDir, "last_keymap.c"):    "stale",
		filepath.Join(stateDir, "last_keymap.toml"): "stale",
	})
	_, err := store.Save("/src/keymap.json")
	require.NoError(t, err)

	require.NoError(t, store.Clear())

	for _, name := range []string{"last_keymap.json", "last_keymap.c", "last_keymap.toml"} {
		exists, err := afero.Exists(fs, filepath.Join(stateDir, name))
		require.NoError(t, err)
		assert.False(t, exists, name)
	}
	_, ok, err := store.SavedKeymapPath()
	require.NoError(t, err)
	assert.False(t, ok)

	rec, err := store.Record()
	require.NoError(t, err)
	assert.Empty(t, rec.LastKeymapPath)

	data, err := afero.ReadFile(fs, filepath.Join(stateDir, "config.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestClearEmptyStore(t *testing.T) {
	store, _ := newStore(t, nil)
	assert.NoError(t, store.Clear())
}

func TestSaveMissingSource(t *testing.T) {
	store, _ := newStore(t, nil)
	_, err := store.Save("/nope/keymap.c")
	assert.ErrorContains(t, err, "/nope/keymap.c")
}

func TestCorruptRecord(t *testing.T) {
	store, _ := newStore(t, map[string]string{
		filepath.Join(stateDir, "config.json"): "{",
	})
	_, err := store.Record()
	assert.Error(t, err)
}
