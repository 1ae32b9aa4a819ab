// Package persist remembers the last keymap the viewer showed by keeping a
// byte copy of it in the config directory, next to a small JSON record of
// where it came from.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Alia5/keyview/internal/configpaths"
)

const (
	keymapBase = "last_keymap"
	recordName = "config.json"
	defaultExt = ".json"
)

// savedExtensions are the copy names Clear removes; the first three are
// also the lookup order of SavedKeymapPath.
var savedExtensions = []string{".json", ".c", ".h", ".yaml", ".yml", ".toml"}

// Record is the sidecar stored next to the copy.
type Record struct {
	LastKeymapPath string `json:"last_keymap_path,omitempty"`
}

// Store keeps the persisted state under one directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// New returns a Store rooted at dir on fs.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Default returns a Store in the user's config directory.
func Default() (*Store, error) {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return New(afero.NewOsFs(), dir), nil
}

func (s *Store) Dir() string { return s.dir }

// Save copies the keymap at sourcePath into the store, replacing any copy
// saved under another extension, and records sourcePath. It returns the
// path of the copy.
func (s *Store) Save(sourcePath string) (string, error) {
	data, err := afero.ReadFile(s.fs, sourcePath)
	if err != nil {
		return "", fmt.Errorf("read keymap %q: %w", sourcePath, err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(sourcePath))
	if ext == "" {
		ext = defaultExt
	}
	if err := s.removeCopies(); err != nil {
		return "", err
	}
	saved := filepath.Join(s.dir, keymapBase+ext)
	if err := afero.WriteFile(s.fs, saved, data, 0o644); err != nil {
		return "", fmt.Errorf("save keymap copy: %w", err)
	}

	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		abs = sourcePath
	}
	if err := s.writeRecord(Record{LastKeymapPath: abs}); err != nil {
		return "", err
	}
	return saved, nil
}

// Record returns the sidecar record; a missing record is empty.
func (s *Store) Record() (Record, error) {
	var rec Record
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, recordName))
	if errors.Is(err, os.ErrNotExist) {
		return rec, nil
	}
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode %s: %w", recordName, err)
	}
	return rec, nil
}

// Clear removes every saved copy and resets the record.
func (s *Store) Clear() error {
	if err := s.removeCopies(); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return s.writeRecord(Record{})
}

// SavedKeymapPath returns the saved copy, checking the json, c and h
// names in that order before the other structured formats.
func (s *Store) SavedKeymapPath() (string, bool, error) {
	for _, ext := range savedExtensions {
		path := filepath.Join(s.dir, keymapBase+ext)
		ok, err := afero.Exists(s.fs, path)
		if err != nil {
			return "", false, err
		}
		if ok {
			return path, true, nil
		}
	}
	return "", false, nil
}

func (s *Store) removeCopies() error {
	for _, ext := range savedExtensions {
		err := s.fs.Remove(filepath.Join(s.dir, keymapBase+ext))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (s *Store) writeRecord(rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, filepath.Join(s.dir, recordName), data, 0o644)
}
