// Package keymap recovers per-layer keycode tokens from QMK keymaps.
//
// Two inputs are understood: firmware sources (keymap.c / keymap.h) parsed
// on a best-effort basis, and structured documents (JSON, YAML or TOML)
// that list the layers explicitly.
package keymap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoLayouts is returned when no strategy finds a single layer in a
// firmware source.
var ErrNoLayouts = errors.New("no LAYOUT(...) blocks found in keymap source")

// Keymap is the parser output: raw token layers plus whatever metadata could
// be guessed. Layers may have irregular lengths.
type Keymap struct {
	Keyboard   string     `json:"keyboard" yaml:"keyboard" toml:"keyboard"`
	Keymap     string     `json:"keymap" yaml:"keymap" toml:"keymap"`
	Layout     string     `json:"layout,omitempty" yaml:"layout,omitempty" toml:"layout,omitempty"`
	Layers     [][]string `json:"layers" yaml:"layers" toml:"layers"`
	LayerNames []string   `json:"layer_names" yaml:"layer_names" toml:"layer_names"`
}

// SourceKeymapID is the keymap id reported for firmware sources.
const SourceKeymapID = "keymap.c"

// genericKeyboard is reported when the layout macro does not name a board.
const genericKeyboard = "generic"

// Parse extracts the layers of a QMK firmware keymap source.
//
// Comments are stripped first. LAYOUT...(...) invocations are captured with
// balanced parentheses; only if none are found, "[N] = MACRO(...)" lines and
// then the PROGMEM keymaps array are tried. Layer names come from lines
// starting with "[name]".
func Parse(source string) (*Keymap, error) {
	src := StripComments(source)

	strategies := []func(string) ([][]string, string){
		extractLayoutBlocks,
		extractIndexedLayers,
		extractProgmemLayers,
	}

	var (
		layers [][]string
		macro  string
	)
	for _, extract := range strategies {
		if layers, macro = extract(src); len(layers) > 0 {
			break
		}
	}
	if len(layers) == 0 {
		return nil, ErrNoLayouts
	}

	return &Keymap{
		Keyboard:   guessKeyboard(macro),
		Keymap:     SourceKeymapID,
		Layout:     macro,
		Layers:     layers,
		LayerNames: layerNames(src, len(layers)),
	}, nil
}

// layerNames collects bracketed names ("[_NAV] = ...") in source order and
// fits them to count entries, filling gaps with "Layer N".
func layerNames(src string, count int) []string {
	names := make([]string, 0, count)
	forEachLine(src, func(_ int, line string) bool {
		if len(names) >= count {
			return false
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			return true
		}
		if end := strings.IndexByte(line, ']'); end != -1 {
			names = append(names, strings.TrimSpace(line[1:end]))
		}
		return true
	})
	return PadLayerNames(names, count)
}

// PadLayerNames truncates or extends names to exactly count entries.
// Missing entries are named "Layer N" after their index.
func PadLayerNames(names []string, count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if i < len(names) {
			out = append(out, names[i])
			continue
		}
		out = append(out, fmt.Sprintf("Layer %d", i))
	}
	return out
}

// genericShapes are layout macro segments that describe a grid shape rather
// than a keyboard.
var genericShapes = map[string]struct{}{
	"ortho":   {},
	"split":   {},
	"all":     {},
	"default": {},
	"grid":    {},
	"kc":      {},
	"wrapper": {},
}

// guessKeyboard derives a keyboard id from a layout macro name, e.g.
// LAYOUT_planck_grid -> planck. Shape-only names yield "generic".
func guessKeyboard(macro string) string {
	rest, ok := strings.CutPrefix(macro, layoutMarker+"_")
	if !ok {
		return genericKeyboard
	}
	for _, seg := range strings.Split(rest, "_") {
		seg = strings.ToLower(seg)
		if seg == "" || isShapeSegment(seg) {
			continue
		}
		if _, generic := genericShapes[seg]; generic {
			continue
		}
		return seg
	}
	return genericKeyboard
}

// isShapeSegment matches "4x12", "3x6" and plain numbers.
func isShapeSegment(seg string) bool {
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if (c < '0' || c > '9') && c != 'x' {
			return false
		}
	}
	return true
}
