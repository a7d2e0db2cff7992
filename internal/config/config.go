// internal/config/config.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// RepoDirName is the hidden directory that marks a repository root.
const RepoDirName = ".tack"

// Layout resolves every on-disk location the repository uses. It is passed
// explicitly into each component; nothing reads paths from globals.
type Layout struct {
	Root string // absolute path of the working tree
}

func (l Layout) RepoDir() string {
	return filepath.Join(l.Root, RepoDirName)
}

func (l Layout) ObjectsDir() string {
	return filepath.Join(l.RepoDir(), "objects")
}

func (l Layout) HeadFile() string {
	return filepath.Join(l.RepoDir(), "HEAD")
}

func (l Layout) IndexFile() string {
	return filepath.Join(l.RepoDir(), "index")
}

func (l Layout) SettingsFile() string {
	return filepath.Join(l.RepoDir(), "config.json")
}

// Settings are optional repo-local knobs. Everything has a default; a
// repository without a config.json behaves identically to one with one.
type Settings struct {
	LogLevel  string `json:"log_level"`  // debug, info, warn, error
	CacheSize int    `json:"cache_size"` // object read-cache entries
}

func DefaultSettings() Settings {
	return Settings{
		LogLevel:  "warn",
		CacheSize: 256,
	}
}

// LoadSettings reads the settings file, falling back to defaults when the
// file does not exist.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&settings); err != nil {
		return DefaultSettings(), err
	}

	if settings.CacheSize <= 0 {
		settings.CacheSize = DefaultSettings().CacheSize
	}
	if settings.LogLevel == "" {
		settings.LogLevel = DefaultSettings().LogLevel
	}

	return settings, nil
}
