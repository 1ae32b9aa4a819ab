package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/keyview/internal/persist"
)

// Last shows or clears the keymap remembered by the view command.
type Last struct {
	Clear bool `help:"Forget the remembered keymap"`
}

// Run is called by Kong when the last command is executed.
func (l *Last) Run(logger *slog.Logger) error {
	store, err := persist.Default()
	if err != nil {
		return err
	}
	return l.Exec(store, os.Stdout, logger)
}

// Exec runs the command against store.
func (l *Last) Exec(store *persist.Store, w io.Writer, logger *slog.Logger) error {
	if l.Clear {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear remembered keymap: %w", err)
		}
		logger.Info("Forgot the remembered keymap", "dir", store.Dir())
		return nil
	}

	saved, ok, err := store.SavedKeymapPath()
	if err != nil {
		return err
	}
	if !ok {
		_, err := fmt.Fprintln(w, "no keymap remembered")
		return err
	}
	rec, err := store.Record()
	if err != nil {
		return err
	}
	if rec.LastKeymapPath != "" {
		_, err = fmt.Fprintf(w, "%s\n  copied from %s\n", saved, rec.LastKeymapPath)
	} else {
		_, err = fmt.Fprintln(w, saved)
	}
	return err
}
