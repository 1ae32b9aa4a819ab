// Package configpaths resolves where keyview looks for its configuration
// files and keeps its persisted state.
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user config directory.
const AppName = "keyview"

// configBases are the file names (without extension) probed for command
// defaults.
var configBases = []string{"config", "view", "relay"}

// DefaultConfigDir returns the platform-specific configuration directory.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, AppName), nil
		}
		return "", errors.New("AppData not set")
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support", AppName), nil
		}
		return "", errors.New("HOME not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", AppName), nil
		}
		return "", errors.New("HOME not set")
	}
}

// DefaultNamedConfigPath returns the config file path in the config
// directory for a base name (e.g. "view") and format.
func DefaultNamedConfigPath(baseName, format string) (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, baseName+"."+Extension(format)), nil
}

// Extension maps a config format name to its file extension.
func Extension(format string) string {
	switch format {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// ConfigCandidatePaths builds candidate paths for config files per format,
// highest priority first. userPath, if set, comes first and is routed to
// the loader matching its extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(dir, base string) {
		jsonPaths = append(jsonPaths, filepath.Join(dir, base+".json"))
		yamlPaths = append(yamlPaths, filepath.Join(dir, base+".yaml"), filepath.Join(dir, base+".yml"))
		tomlPaths = append(tomlPaths, filepath.Join(dir, base+".toml"))
	}

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			jsonPaths = append(jsonPaths, userPath)
		}
	}

	// Working directory
	if wd, err := os.Getwd(); err == nil {
		add(wd, AppName)
		for _, base := range configBases {
			add(wd, base)
		}
	}

	// Config home
	if dir, err := DefaultConfigDir(); err == nil {
		for _, base := range configBases {
			add(dir, base)
		}
	}

	// System-wide (unix)
	if runtime.GOOS != "windows" {
		for _, base := range configBases {
			add(filepath.Join("/etc", AppName), base)
		}
	}
	return jsonPaths, yamlPaths, tomlPaths
}
