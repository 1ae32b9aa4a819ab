package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/keyview/keyboard"
	"github.com/Alia5/keyview/keycode"
	"github.com/Alia5/keyview/keymap"
	"github.com/Alia5/keyview/report"
)

func sourceState(t *testing.T, src string) *keyboard.State {
	t.Helper()
	km, err := keymap.Parse(src)
	require.NoError(t, err)
	return keyboard.NewState(keyboard.FromKeymap(km))
}

func TestStateWrapperScenario(t *testing.T) {
	s := sourceState(t, "LAYOUT(KC_A, MO(1), LT(2,KC_TAB))")
	l := s.Layout()
	require.Equal(t, 1, l.LayerCount())

	assert.False(t, s.IsFunctionKey(0, 0, 0))
	assert.True(t, s.IsFunctionKey(0, 0, 1))
	assert.True(t, s.IsFunctionKey(0, 0, 2))

	main, sub := s.DisplayParts(0, 0, 2)
	assert.Equal(t, "Tab", main)
	assert.Equal(t, "2", sub)

	main, sub = s.DisplayParts(0, 0, 1)
	assert.Equal(t, "1", main)
	assert.Equal(t, "MO", sub)
}

func TestStateModTapScenario(t *testing.T) {
	s := keyboard.NewState(keyboard.FromTokens([][]string{{"MT(MOD_LCTL, KC_SPC)"}}, nil))

	assert.True(t, s.IsMTKey(0, 0, 0))
	assert.False(t, s.IsLTKey(0, 0, 0))
	assert.False(t, s.IsOSLKey(0, 0, 0))
	assert.True(t, s.IsDualRoleKey(0, 0, 0))
	assert.Equal(t, keycode.ModTap, s.KindAt(0, 0, 0))

	main, sub := s.DisplayParts(0, 0, 0)
	assert.Equal(t, "Space", main)
	assert.Equal(t, "Ctrl", sub)
}

func TestStateKinds(t *testing.T) {
	s := keyboard.NewState(keyboard.FromTokens([][]string{{
		"KC_A", "OSL(NAV)", "TO(1)", "DF(0)", "LT(SYM, KC_EQL)", "KC_TRNS", "KC_NO", "XXXXXXX",
	}}, nil))

	assert.True(t, s.IsOSLKey(0, 0, 1))
	assert.True(t, s.IsFunctionKey(0, 0, 2))
	assert.False(t, s.IsDualRoleKey(0, 0, 2))
	assert.True(t, s.IsFunctionKey(0, 0, 3))
	assert.True(t, s.IsLTKey(0, 0, 4))
	assert.True(t, s.IsDualRoleKey(0, 0, 4))

	require.Equal(t, 3, s.Layout().Rows)
	require.Equal(t, 7, s.Layout().Cols)
	assert.False(t, s.IsTransparentKey(0, 0, 0))
	for idx := 5; idx <= 7; idx++ {
		row, col, ok := s.Position(idx)
		require.True(t, ok)
		assert.True(t, s.IsTransparentKey(0, row, col), "index %d", idx)
	}
	// the eighth token wraps onto the second row
	raw, ok := s.RawLegendAt(0, 1, 0)
	require.True(t, ok)
	assert.Equal(t, "XXXXXXX", raw)
	// padding cells
	assert.True(t, s.IsTransparentKey(0, 2, 6))
	// outside the grid
	assert.False(t, s.IsTransparentKey(0, 3, 0))
	assert.False(t, s.IsTransparentKey(1, 0, 0))
	assert.Equal(t, keycode.Plain, s.KindAt(5, 0, 0))
}

func TestIndexFor(t *testing.T) {
	s := keyboard.NewState(keyboard.Planck())
	l := s.Layout()

	seen := map[int]bool{}
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			idx, ok := s.IndexFor(row, col)
			require.True(t, ok)
			require.False(t, seen[idx], "index %d produced twice", idx)
			seen[idx] = true

			r, c, ok := s.Position(idx)
			require.True(t, ok)
			assert.Equal(t, idx/l.Cols, r)
			assert.Equal(t, idx%l.Cols, c)
			assert.Equal(t, row, r)
			assert.Equal(t, col, c)
		}
	}
	assert.Len(t, seen, l.Size())

	for _, rc := range [][2]int{{4, 0}, {0, 12}, {-1, 0}, {0, -1}, {9, 99}} {
		_, ok := s.IndexFor(rc[0], rc[1])
		assert.False(t, ok, "%v", rc)
	}
	_, _, ok := s.Position(48)
	assert.False(t, ok)
}

func TestIsPressed(t *testing.T) {
	s := keyboard.NewState(keyboard.Planck())
	s.SetPressedBits(1<<0 | 1<<13 | 1<<47)

	assert.True(t, s.IsPressed(0, 0))
	assert.True(t, s.IsPressed(1, 1))
	assert.True(t, s.IsPressed(3, 11))
	assert.False(t, s.IsPressed(0, 1))
	assert.False(t, s.IsPressed(4, 0))
}

func TestIsPressedBeyondMask(t *testing.T) {
	tokens := make([]string, 144)
	for i := range tokens {
		tokens[i] = "KC_A"
	}
	s := keyboard.NewState(keyboard.FromTokens([][]string{tokens}, nil))
	s.SetPressedBits(^uint64(0))

	row, col, ok := s.Position(63)
	require.True(t, ok)
	assert.True(t, s.IsPressed(row, col))

	row, col, ok = s.Position(64)
	require.True(t, ok)
	assert.False(t, s.IsPressed(row, col))
}

func TestLegendLookups(t *testing.T) {
	s := keyboard.NewState(keyboard.FromTokens([][]string{{"KC_A"}, {"KC_1"}}, nil))

	legend, ok := s.LegendAt(1, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "1", legend)

	raw, ok := s.RawLegendAt(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "KC_A", raw)

	_, ok = s.LegendAt(2, 0, 0)
	assert.False(t, ok)
	_, ok = s.RawLegendAt(0, 10, 0)
	assert.False(t, ok)
	_, ok = s.LegendAt(-1, 0, 0)
	assert.False(t, ok)

	main, sub := s.DisplayParts(3, 0, 0)
	assert.Empty(t, main)
	assert.Empty(t, sub)
}

func TestShiftDetection(t *testing.T) {
	s := keyboard.NewState(keyboard.FromTokens([][]string{
		{"KC_A", "KC_LSFT", "MT(MOD_LSFT, KC_B)"},
		{"KC_C", "KC_D", "KC_E"},
	}, nil))

	assert.False(t, s.IsShiftPressed())
	main, _ := s.DisplayParts(0, 0, 0)
	assert.Equal(t, "a", main)

	s.SetPressedBits(1 << 1)
	assert.True(t, s.IsShiftPressed())
	main, _ = s.DisplayParts(0, 0, 0)
	assert.Equal(t, "A", main)
	main, _ = s.DisplayParts(1, 0, 0)
	assert.Equal(t, "C", main)

	s.SetPressedBits(1 << 2)
	assert.True(t, s.IsShiftPressed())

	// Same key on a layer without shift.
	s.SetLayer(1)
	assert.False(t, s.IsShiftPressed())

	s.SetLayer(9)
	assert.False(t, s.IsShiftPressed())
}

func TestApplyAndReplaceLayout(t *testing.T) {
	s := keyboard.NewState(keyboard.Planck())
	s.Apply(report.Report{ActiveLayer: 2, PressedBits: 0xA55A})
	assert.Equal(t, uint8(2), s.ActiveLayer())
	assert.Equal(t, uint64(0xA55A), s.PressedBits())

	next := keyboard.FromTokens([][]string{{"KC_A"}}, nil)
	s.ReplaceLayout(next)
	assert.Same(t, next, s.Layout())
	assert.Equal(t, uint8(2), s.ActiveLayer())
	assert.Equal(t, uint64(0xA55A), s.PressedBits())

	_, ok := s.LegendAt(int(s.ActiveLayer()), 0, 0)
	assert.False(t, ok)
}
