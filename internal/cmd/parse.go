package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/keyview/internal/configpaths"
	"github.com/Alia5/keyview/internal/render"
	"github.com/Alia5/keyview/keyboard"
	"github.com/Alia5/keyview/keymap"
)

// Parse loads a keymap and prints what the viewer would show.
type Parse struct {
	Path   string `arg:"" help:"Keymap file (.c, .h, .json, .yaml, .toml)" type:"path"`
	Format string `help:"Output format" enum:"json,yaml,toml,grid" default:"json"`
	Tokens bool   `help:"Print the parsed token layers instead of the layout"`
	Layer  int    `help:"Layer shown by the grid format" default:"0"`
	Output string `help:"Destination file path (defaults to stdout)" type:"path"`
}

// Run is called by Kong when the parse command is executed.
func (p *Parse) Run(logger *slog.Logger) error {
	if p.Output == "" {
		return p.Write(os.Stdout)
	}
	if err := configpaths.EnsureDir(p.Output); err != nil {
		return err
	}
	f, err := os.Create(p.Output)
	if err != nil {
		return err
	}
	if err := p.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	logger.Info("Wrote parsed keymap", "path", p.Output)
	return f.Close()
}

// Write parses Path and writes the result to w.
func (p *Parse) Write(w io.Writer) error {
	km, err := keymap.Load(p.Path)
	if err != nil {
		return err
	}

	if p.Format == "grid" {
		l := keyboard.FromKeymap(km)
		if p.Layer < 0 || p.Layer >= l.LayerCount() {
			return fmt.Errorf("layer %d out of range (keymap has %d)", p.Layer, l.LayerCount())
		}
		s := keyboard.NewState(l)
		s.SetLayer(uint8(p.Layer))
		_, err := io.WriteString(w, render.String(s, render.DefaultWidth))
		return err
	}

	format := normalizeFormat(p.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", p.Format)
	}
	var data []byte
	if p.Tokens {
		data, err = encode(format, *km)
	} else {
		data, err = encode(format, *keyboard.FromKeymap(km))
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
