// Package render draws a keyboard.State as a grid of legends on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/Alia5/keyview/keyboard"
	"github.com/Alia5/keyview/keycode"
)

const (
	minCellWidth = 5
	maxCellWidth = 9
	// DefaultWidth is assumed when the terminal size is unknown.
	DefaultWidth = 100
)

// ANSI sequences for redrawing in place.
const (
	clearScreen = "\x1b[H\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Renderer writes frames to Out. Width is the terminal width in columns.
type Renderer struct {
	Out     io.Writer
	Width   int
	NoColor bool
	// Redraw clears the screen before every frame.
	Redraw bool

	palette *palette
}

type palette struct {
	title       *color.Color
	pressed     *color.Color
	transparent *color.Color
	function    *color.Color
	dualRole    *color.Color
	oneShot     *color.Color
	sub         *color.Color
	border      *color.Color
	plain       *color.Color
}

func newPalette(noColor bool) *palette {
	p := &palette{
		title:       color.New(color.FgCyan, color.Bold),
		pressed:     color.New(color.FgBlack, color.BgYellow, color.Bold),
		transparent: color.New(color.Faint),
		function:    color.New(color.FgBlue),
		dualRole:    color.New(color.FgGreen),
		oneShot:     color.New(color.FgMagenta, color.Bold),
		sub:         color.New(color.Faint),
		border:      color.New(color.Faint),
		plain:       color.New(color.Reset),
	}
	// Colors follow NoColor, not the global color.NoColor, so frames
	// written to a pipe can still be colored on request.
	for _, c := range []*color.Color{p.title, p.pressed, p.transparent, p.function, p.dualRole, p.oneShot, p.sub, p.border, p.plain} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

// Begin prepares the terminal for in-place redraws.
func (r *Renderer) Begin() {
	if r.Redraw {
		_, _ = io.WriteString(r.Out, hideCursor)
	}
}

// End restores the cursor.
func (r *Renderer) End() {
	if r.Redraw {
		_, _ = io.WriteString(r.Out, showCursor)
	}
}

// Frame writes one frame for s.
func (r *Renderer) Frame(s *keyboard.State) error {
	var b strings.Builder
	if r.Redraw {
		b.WriteString(clearScreen)
	}
	r.write(&b, s)
	_, err := io.WriteString(r.Out, b.String())
	return err
}

// String renders s without colors or screen control.
func String(s *keyboard.State, width int) string {
	r := &Renderer{Width: width, NoColor: true}
	var b strings.Builder
	r.write(&b, s)
	return b.String()
}

func (r *Renderer) write(b *strings.Builder, s *keyboard.State) {
	if r.palette == nil {
		r.palette = newPalette(r.NoColor)
	}
	p := r.palette
	l := s.Layout()
	layer := int(s.ActiveLayer())

	name := fmt.Sprintf("layer %d (not in keymap)", layer)
	if layer < l.LayerCount() {
		name = l.LayerNames[layer]
	}
	fmt.Fprintf(b, "%s  %s\n", p.title.Sprint(name), p.sub.Sprintf("[%d/%d]  %dx%d", layer, l.LayerCount(), l.Rows, l.Cols))

	w := r.cellWidth(l.Cols)
	sep := p.border.Sprint("+" + strings.Repeat(strings.Repeat("-", w)+"+", l.Cols))
	bar := p.border.Sprint("|")

	// Shift is scanned once per frame, not once per cell.
	shift := s.IsShiftPressed()

	b.WriteString(sep)
	b.WriteByte('\n')
	for row := 0; row < l.Rows; row++ {
		var top, bottom strings.Builder
		top.WriteString(bar)
		bottom.WriteString(bar)
		for col := 0; col < l.Cols; col++ {
			raw, _ := s.RawLegendAt(layer, row, col)
			main, sub := keycode.DisplayParts(raw, shift)
			style := r.style(s, layer, row, col)
			top.WriteString(style.Sprint(center(main, w)))
			top.WriteString(bar)
			if s.IsPressed(row, col) {
				bottom.WriteString(style.Sprint(center(sub, w)))
			} else {
				bottom.WriteString(p.sub.Sprint(center(sub, w)))
			}
			bottom.WriteString(bar)
		}
		b.WriteString(top.String())
		b.WriteByte('\n')
		b.WriteString(bottom.String())
		b.WriteByte('\n')
		b.WriteString(sep)
		b.WriteByte('\n')
	}
}

func (r *Renderer) style(s *keyboard.State, layer, row, col int) *color.Color {
	p := r.palette
	switch {
	case s.IsPressed(row, col):
		return p.pressed
	case s.IsTransparentKey(layer, row, col):
		return p.transparent
	case s.IsOSLKey(layer, row, col):
		return p.oneShot
	case s.IsDualRoleKey(layer, row, col):
		return p.dualRole
	case s.IsFunctionKey(layer, row, col):
		return p.function
	default:
		return p.plain
	}
}

func (r *Renderer) cellWidth(cols int) int {
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	if cols <= 0 {
		return minCellWidth
	}
	return min(maxCellWidth, max(minCellWidth, (width-1)/cols-1))
}

// center pads s to width w, cutting it when it is too long.
func center(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n > w {
		runes := []rune(s)
		return string(runes[:w])
	}
	left := (w - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-n-left)
}
