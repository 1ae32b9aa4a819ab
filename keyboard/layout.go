// Package keyboard holds the rectangular layout model built from keymap
// tokens and the live state (active layer, pressed keys) rendered on top.
package keyboard

import (
	"fmt"
	"math"

	"github.com/Alia5/keyview/keycode"
	"github.com/Alia5/keyview/keymap"
)

// Layout is an immutable grid of legends, one slice per layer.
// Every layer holds exactly Rows*Cols entries and LayerNames has one entry
// per layer. Reloading a keymap builds a new Layout instead of editing one.
type Layout struct {
	Rows       int        `json:"rows" yaml:"rows" toml:"rows"`
	Cols       int        `json:"cols" yaml:"cols" toml:"cols"`
	LayerNames []string   `json:"layer_names" yaml:"layer_names" toml:"layer_names"`
	Legends    [][]string `json:"legends" yaml:"legends" toml:"legends"`
	RawLegends [][]string `json:"raw_legends" yaml:"raw_legends" toml:"raw_legends"`

	kinds [][]keycode.Kind
}

// FromTokens builds a Layout from raw token layers, inferring the grid shape
// from the longest layer. names may be nil or of any length; it is fitted to
// the layer count. An empty layer list yields a single empty layer.
func FromTokens(layers [][]string, names []string) *Layout {
	if len(layers) == 0 {
		layers = [][]string{nil}
	}

	maxKeys := 0
	for _, layer := range layers {
		maxKeys = max(maxKeys, len(layer))
	}
	rows, cols := EstimateDimensions(maxKeys)
	size := rows * cols

	l := &Layout{
		Rows:       rows,
		Cols:       cols,
		LayerNames: keymap.PadLayerNames(names, len(layers)),
		Legends:    make([][]string, len(layers)),
		RawLegends: make([][]string, len(layers)),
		kinds:      make([][]keycode.Kind, len(layers)),
	}
	for i, layer := range layers {
		raw := make([]string, size)
		legends := make([]string, size)
		kinds := make([]keycode.Kind, size)
		for j := range raw {
			if j < len(layer) {
				raw[j] = layer[j]
				legends[j] = keycode.Translate(layer[j])
				kinds[j] = keycode.KindOf(layer[j])
				continue
			}
			raw[j] = keycode.Transparent
		}
		l.RawLegends[i] = raw
		l.Legends[i] = legends
		l.kinds[i] = kinds
	}
	return l
}

// FromKeymap builds a Layout from a parsed or decoded keymap.
func FromKeymap(km *keymap.Keymap) *Layout {
	return FromTokens(km.Layers, km.LayerNames)
}

// New returns an empty layout of the given shape. Without names a single
// "Layer 0" is created.
func New(rows, cols int, names []string) *Layout {
	if len(names) == 0 {
		names = keymap.PadLayerNames(nil, 1)
	}
	size := rows * cols
	l := &Layout{
		Rows:       rows,
		Cols:       cols,
		LayerNames: append([]string(nil), names...),
		Legends:    make([][]string, len(names)),
		RawLegends: make([][]string, len(names)),
		kinds:      make([][]keycode.Kind, len(names)),
	}
	for i := range names {
		l.Legends[i] = make([]string, size)
		l.RawLegends[i] = make([]string, size)
		l.kinds[i] = make([]keycode.Kind, size)
	}
	return l
}

// EstimateDimensions picks a rows x cols grid able to hold maxKeys keys.
// Common board sizes map to fixed shapes; anything larger gets a near
// square grid at least ten columns wide. The result is a guess, not
// something the firmware states.
func EstimateDimensions(maxKeys int) (rows, cols int) {
	switch {
	case maxKeys <= 20:
		rows, cols = 3, 7
	case maxKeys <= 40:
		rows, cols = 4, 10
	case maxKeys <= 50:
		rows, cols = 4, 12
	case maxKeys <= 60:
		rows, cols = 5, 12
	case maxKeys <= 70:
		rows, cols = 5, 14
	case maxKeys <= 80:
		rows, cols = 6, 14
	case maxKeys <= 90:
		rows, cols = 6, 15
	case maxKeys <= 100:
		rows, cols = 6, 17
	case maxKeys <= 110:
		rows, cols = 6, 18
	default:
		cols = max(10, int(math.Ceil(math.Sqrt(float64(maxKeys)))))
		rows = ceilDiv(maxKeys, cols)
	}
	// 6x18 is two short of 110; grow rows instead of dropping keys.
	if rows*cols < maxKeys {
		rows = ceilDiv(maxKeys, cols)
	}
	return rows, cols
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// LayerCount returns the number of layers.
func (l *Layout) LayerCount() int {
	return len(l.Legends)
}

// Size returns the number of cells per layer.
func (l *Layout) Size() int {
	return l.Rows * l.Cols
}

// kindAt returns the cached classification of a cell. Layouts decoded from
// a document carry no cache, so the raw token is classified on demand.
func (l *Layout) kindAt(layer, idx int) keycode.Kind {
	if layer < len(l.kinds) && idx < len(l.kinds[layer]) {
		return l.kinds[layer][idx]
	}
	return keycode.KindOf(l.RawLegends[layer][idx])
}

func (l *Layout) String() string {
	return fmt.Sprintf("%dx%d, %d layers", l.Rows, l.Cols, l.LayerCount())
}
