// Package viewer ties a keymap file, the keyboard state and a report stream
// together for one viewing session. A Session is owned by the foreground
// goroutine; only reports cross goroutines.
package viewer

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Alia5/keyview/internal/log"
	"github.com/Alia5/keyview/internal/persist"
	"github.com/Alia5/keyview/keyboard"
	"github.com/Alia5/keyview/keymap"
	"github.com/Alia5/keyview/report"
)

// ErrNoKeymap is returned by Reload when nothing was loaded.
var ErrNoKeymap = errors.New("no keymap loaded")

// Session is the state behind one viewer window.
type Session struct {
	logger *slog.Logger
	store  *persist.Store

	state   *keyboard.State
	path    string
	modTime time.Time
}

// New starts a session on an empty Planck layout. store may be nil, in
// which case nothing is remembered between runs.
func New(logger *slog.Logger, store *persist.Store) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	return &Session{
		logger: logger,
		store:  store,
		state:  keyboard.NewState(keyboard.Planck()),
	}
}

func (s *Session) State() *keyboard.State { return s.state }

// Path is the file the current layout was loaded from, or "".
func (s *Session) Path() string { return s.path }

// Load parses path and swaps its layout in. On error the current layout is
// kept.
func (s *Session) Load(path string) error {
	km, err := keymap.Load(path)
	if err != nil {
		s.logger.Error("Failed to load keymap", "path", path, "error", err)
		return err
	}
	l := keyboard.FromKeymap(km)
	s.state.ReplaceLayout(l)
	s.path = path
	s.modTime = modTime(path)
	s.logger.Info("Loaded keymap", "path", path, "keyboard", km.Keyboard, "layers", l.LayerCount(), "rows", l.Rows, "cols", l.Cols)
	return nil
}

// Reload parses the current file again.
func (s *Session) Reload() error {
	if s.path == "" {
		return ErrNoKeymap
	}
	return s.Load(s.path)
}

// Modified reports whether the current file changed on disk since it was
// loaded.
func (s *Session) Modified() bool {
	if s.path == "" {
		return false
	}
	mt := modTime(s.path)
	return !mt.IsZero() && !mt.Equal(s.modTime)
}

// Unload returns to the empty Planck layout.
func (s *Session) Unload() {
	s.state.ReplaceLayout(keyboard.Planck())
	s.path = ""
	s.modTime = time.Time{}
}

// Remember stores a copy of the current file for the next run. A keymap
// restored from the store is already remembered and keeps its record.
func (s *Session) Remember() error {
	if s.store == nil || s.path == "" || s.fromStore() {
		return nil
	}
	saved, err := s.store.Save(s.path)
	if err != nil {
		return err
	}
	s.logger.Debug("Remembered keymap", "copy", saved)
	return nil
}

// Forget clears the remembered keymap.
func (s *Session) Forget() error {
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

// Restore loads the remembered keymap, if there is one. It reports whether
// a keymap was loaded.
func (s *Session) Restore() (bool, error) {
	if s.store == nil {
		return false, nil
	}
	path, ok, err := s.store.SavedKeymapPath()
	if err != nil || !ok {
		return false, err
	}
	if err := s.Load(path); err != nil {
		return false, err
	}
	return true, nil
}

// Tick applies the newest pending report, discarding older ones. It
// reports whether the state changed.
func (s *Session) Tick(reports <-chan report.Report) bool {
	r, ok := report.Latest(reports)
	if !ok {
		return false
	}
	changed := r.ActiveLayer != s.state.ActiveLayer() || r.PressedBits != s.state.PressedBits()
	s.state.Apply(r)
	return changed
}

func (s *Session) fromStore() bool {
	dir, err := filepath.Abs(s.store.Dir())
	if err != nil {
		return false
	}
	path, err := filepath.Abs(s.path)
	if err != nil {
		return false
	}
	return filepath.Dir(path) == dir
}

func modTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
