package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the settings file looked up when no path is given.
const DefaultConfigFile = ".iocextract"

// ErrConfigNotFound is returned when a settings file that was asked for
// by path does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile decodes the YAML settings file at path.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from --config or the search dirs
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w", path, err)
	}
	return f, nil
}

// SearchDirs returns the directories probed for DefaultConfigFile, nearest
// first: the working directory, then the home directory.
func SearchDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return dirs
}

// FindConfigFile returns the first regular DefaultConfigFile inside dirs,
// or "" when none of them has one.
func FindConfigFile(dirs ...string) string {
	for _, dir := range dirs {
		path := filepath.Join(dir, DefaultConfigFile)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// LoadFile applies a settings file on top of c and records its path in
// ConfigFilePath.
//
// A non-empty explicit path must exist. Otherwise DefaultConfigFile is
// searched for in SearchDirs, and finding none leaves c unchanged.
func (c *Config) LoadFile(explicit string) error {
	path := explicit
	if path == "" {
		if path = FindConfigFile(SearchDirs()...); path == "" {
			return nil
		}
	}

	f, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	if err := c.ApplyFile(f); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	c.ConfigFilePath = path
	return nil
}
