package viewer_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/keyview/internal/persist"
	"github.com/Alia5/keyview/internal/viewer"
	"github.com/Alia5/keyview/keymap"
	"github.com/Alia5/keyview/report"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewSessionStartsOnPlanck(t *testing.T) {
	s := viewer.New(nil, nil)
	l := s.State().Layout()
	assert.Equal(t, 4, l.Rows)
	assert.Equal(t, 12, l.Cols)
	assert.Empty(t, s.Path())
	assert.ErrorIs(t, s.Reload(), viewer.ErrNoKeymap)
}

func TestLoadFailureKeepsLayout(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "keymap.c", "LAYOUT(KC_A, KC_B)\nLAYOUT(KC_1, KC_2)")
	bad := writeFile(t, dir, "broken.c", "int main(void) { return 0; }")

	s := viewer.New(nil, nil)
	require.NoError(t, s.Load(good))
	before := s.State().Layout()
	assert.Equal(t, 2, before.LayerCount())

	err := s.Load(bad)
	assert.ErrorIs(t, err, keymap.ErrNoLayouts)
	assert.Same(t, before, s.State().Layout())
	assert.Equal(t, good, s.Path())

	err = s.Load(filepath.Join(dir, "keymap.txt"))
	assert.ErrorIs(t, err, keymap.ErrUnsupportedFormat)
	assert.Same(t, before, s.State().Layout())
}

func TestReloadPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "keymap.json", `{"layers": [["KC_A"]]}`)

	s := viewer.New(nil, nil)
	require.NoError(t, s.Load(path))
	assert.False(t, s.Modified())

	writeFile(t, dir, "keymap.json", `{"layers": [["KC_A"], ["KC_B"]]}`)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	assert.True(t, s.Modified())

	require.NoError(t, s.Reload())
	assert.Equal(t, 2, s.State().Layout().LayerCount())
	assert.False(t, s.Modified())

	s.Unload()
	assert.Empty(t, s.Path())
	assert.Equal(t, []string{"Base", "Lower", "Raise", "Adjust"}, s.State().Layout().LayerNames)
}

func TestRememberAndRestore(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "keymap.yaml", "layers:\n  - [KC_Q, KC_W]\nlayer_names: [Base]\n")
	store := persist.New(afero.NewOsFs(), filepath.Join(dir, "state"))

	first := viewer.New(nil, store)
	restored, err := first.Restore()
	require.NoError(t, err)
	assert.False(t, restored)

	require.NoError(t, first.Load(path))
	require.NoError(t, first.Remember())

	second := viewer.New(nil, store)
	restored, err = second.Restore()
	require.NoError(t, err)
	require.True(t, restored)
	assert.Equal(t, []string{"Base"}, second.State().Layout().LayerNames)
	assert.Equal(t, filepath.Join(dir, "state", "last_keymap.yaml"), second.Path())

	require.NoError(t, second.Forget())
	restored, err = viewer.New(nil, store).Restore()
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestTickLastWriteWins(t *testing.T) {
	s := viewer.New(nil, nil)
	ch := make(chan report.Report, 8)

	assert.False(t, s.Tick(ch))

	ch <- report.Report{ActiveLayer: 1, PressedBits: 1}
	ch <- report.Report{ActiveLayer: 3, PressedBits: 0x30}
	assert.True(t, s.Tick(ch))
	assert.Equal(t, uint8(3), s.State().ActiveLayer())
	assert.Equal(t, uint64(0x30), s.State().PressedBits())

	ch <- report.Report{ActiveLayer: 3, PressedBits: 0x30}
	assert.False(t, s.Tick(ch))
}

func TestRememberKeepsOriginalAfterRestore(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "keymap.json", `{"layers": [["KC_A"]]}`)
	store := persist.New(afero.NewOsFs(), filepath.Join(dir, "state"))

	first := viewer.New(nil, store)
	require.NoError(t, first.Load(original))
	require.NoError(t, first.Remember())

	second := viewer.New(nil, store)
	restored, err := second.Restore()
	require.NoError(t, err)
	require.True(t, restored)
	require.NoError(t, second.Reload())
	require.NoError(t, second.Remember())

	rec, err := store.Record()
	require.NoError(t, err)
	assert.Equal(t, original, rec.LastKeymapPath)
}
