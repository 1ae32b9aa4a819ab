package keyboard

import (
	"github.com/Alia5/keyview/keycode"
	"github.com/Alia5/keyview/report"
)

// maxPressedBits is the width of the pressed-key mask.
const maxPressedBits = 64

// State is the live view of a keyboard: which layer is active and which
// keys are down. It owns its Layout; a reload swaps the Layout and keeps
// the live fields.
type State struct {
	layout      *Layout
	activeLayer uint8
	pressedBits uint64
}

// NewState starts on layer 0 with no keys pressed.
func NewState(l *Layout) *State {
	return &State{layout: l}
}

func (s *State) Layout() *Layout { return s.layout }

// ActiveLayer may exceed the layer count; lookups on it then come back
// empty.
func (s *State) ActiveLayer() uint8 { return s.activeLayer }

func (s *State) PressedBits() uint64 { return s.pressedBits }

func (s *State) SetLayer(layer uint8) { s.activeLayer = layer }

func (s *State) SetPressedBits(bits uint64) { s.pressedBits = bits }

// Apply takes the layer and pressed keys from r.
func (s *State) Apply(r report.Report) {
	s.activeLayer = r.ActiveLayer
	s.pressedBits = r.PressedBits
}

// ReplaceLayout swaps in a freshly built layout.
func (s *State) ReplaceLayout(l *Layout) { s.layout = l }

// IndexFor flattens (row, col) row-major. ok is false outside the grid.
func (s *State) IndexFor(row, col int) (idx int, ok bool) {
	if row < 0 || col < 0 || row >= s.layout.Rows || col >= s.layout.Cols {
		return 0, false
	}
	return row*s.layout.Cols + col, true
}

// Position is the inverse of IndexFor.
func (s *State) Position(idx int) (row, col int, ok bool) {
	if idx < 0 || idx >= s.layout.Size() {
		return 0, 0, false
	}
	return idx / s.layout.Cols, idx % s.layout.Cols, true
}

// IsPressed tests the key's bit. Keys past the mask width are never
// pressed.
func (s *State) IsPressed(row, col int) bool {
	idx, ok := s.IndexFor(row, col)
	if !ok || idx >= maxPressedBits {
		return false
	}
	return s.pressedBits&(1<<uint(idx)) != 0
}

func (s *State) cell(layer, row, col int) (int, bool) {
	idx, ok := s.IndexFor(row, col)
	if !ok || layer < 0 || layer >= s.layout.LayerCount() {
		return 0, false
	}
	return idx, true
}

// LegendAt returns the translated legend of a key.
func (s *State) LegendAt(layer, row, col int) (string, bool) {
	idx, ok := s.cell(layer, row, col)
	if !ok {
		return "", false
	}
	return s.layout.Legends[layer][idx], true
}

// RawLegendAt returns the token a key was defined with.
func (s *State) RawLegendAt(layer, row, col int) (string, bool) {
	idx, ok := s.cell(layer, row, col)
	if !ok {
		return "", false
	}
	return s.layout.RawLegends[layer][idx], true
}

// KindAt returns the wrapper kind of a key; cells outside the layout are
// Plain.
func (s *State) KindAt(layer, row, col int) keycode.Kind {
	idx, ok := s.cell(layer, row, col)
	if !ok {
		return keycode.Plain
	}
	return s.layout.kindAt(layer, idx)
}

// IsTransparentKey reports keys that fall through to a lower layer or do
// nothing, including keys whose token has no legend.
func (s *State) IsTransparentKey(layer, row, col int) bool {
	raw, ok := s.RawLegendAt(layer, row, col)
	if !ok {
		return false
	}
	legend, _ := s.LegendAt(layer, row, col)
	return keycode.IsTransparent(raw) || legend == ""
}

// IsFunctionKey reports layer and modifier wrappers (MO, OSL, TO, DF, LT, MT).
func (s *State) IsFunctionKey(layer, row, col int) bool {
	return s.KindAt(layer, row, col).IsFunction()
}

// IsDualRoleKey reports tap/hold keys (LT, MT).
func (s *State) IsDualRoleKey(layer, row, col int) bool {
	return s.KindAt(layer, row, col).IsDualRole()
}

func (s *State) IsMTKey(layer, row, col int) bool {
	return s.KindAt(layer, row, col) == keycode.ModTap
}

func (s *State) IsLTKey(layer, row, col int) bool {
	return s.KindAt(layer, row, col) == keycode.LayerTap
}

func (s *State) IsOSLKey(layer, row, col int) bool {
	return s.KindAt(layer, row, col) == keycode.OneShot
}

// IsShiftPressed reports whether a pressed key on the active layer
// mentions a shift modifier. Shift keys held on other layers are not seen.
func (s *State) IsShiftPressed() bool {
	layer := int(s.activeLayer)
	if layer >= s.layout.LayerCount() || s.pressedBits == 0 {
		return false
	}
	raw := s.layout.RawLegends[layer]
	for idx := 0; idx < len(raw) && idx < maxPressedBits; idx++ {
		if s.pressedBits&(1<<uint(idx)) != 0 && keycode.ReferencesShift(raw[idx]) {
			return true
		}
	}
	return false
}

// DisplayParts returns the main and secondary legend of a key, upper-casing
// letters while shift is held.
func (s *State) DisplayParts(layer, row, col int) (main, sub string) {
	raw, ok := s.RawLegendAt(layer, row, col)
	if !ok {
		return "", ""
	}
	return keycode.DisplayParts(raw, s.IsShiftPressed())
}
