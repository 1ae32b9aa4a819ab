package keymap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither a structured
// keymap nor a firmware source.
var ErrUnsupportedFormat = errors.New("unsupported keymap format")

var errMissingLayers = errors.New("layers missing or empty")

// Format is a keymap file format, selected by file extension.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatSource Format = "c"
)

// DecodeError reports a structured keymap that could not be decoded.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s keymap: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FormatOf maps a path's extension to its Format.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".c", ".h":
		return FormatSource, nil
	default:
		return "", fmt.Errorf("%w: %q (use .json, .yaml, .toml, .c or .h)", ErrUnsupportedFormat, ext)
	}
}

// Load reads path and decodes it according to its extension.
func Load(path string) (*Keymap, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap %q: %w", path, err)
	}
	return Decode(format, data)
}

// LoadBytes decodes data that was read from a file called name.
func LoadBytes(name string, data []byte) (*Keymap, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	return Decode(format, data)
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) (*Keymap, error) {
	if format == FormatSource {
		return Parse(string(data))
	}

	var km Keymap
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &km)
	case FormatYAML:
		err = yaml.Unmarshal(data, &km)
	case FormatTOML:
		err = toml.Unmarshal(data, &km)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	if len(km.Layers) == 0 {
		return nil, &DecodeError{Format: format, Err: errMissingLayers}
	}
	return &km, nil
}
