// Package home manages the promptrun home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the promptrun home directory.
	DefaultDirName = ".promptrun"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// PromptsDirName is the subdirectory holding prompt definitions.
	PromptsDirName = "prompts"

	// DBFileName is the run history database file name.
	DBFileName = "runs.db"
)

// Dir represents the promptrun home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.promptrun).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// PromptsPath returns the directory holding prompt YAML definitions.
func (d *Dir) PromptsPath() string {
	return filepath.Join(d.path, PromptsDirName)
}

// DBPath returns the path of the run history database.
func (d *Dir) DBPath() string {
	return filepath.Join(d.path, DBFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.PromptsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create prompts directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
