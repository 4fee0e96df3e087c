package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const configFileName = "minipy.toml"

// fileConfig represents a minipy.toml next to a script (or named explicitly
// with -config).
type fileConfig struct {
	Run  runConfig  `toml:"run"`
	Repl replConfig `toml:"repl"`
}

type runConfig struct {
	// Output redirects program output to a file.
	Output string `toml:"output"`
	// Verbose logs compile and run phases.
	Verbose bool `toml:"verbose"`
}

type replConfig struct {
	// Prompt overrides the REPL input prompt.
	Prompt string `toml:"prompt"`
}

// loadConfig parses the given minipy.toml file.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return &cfg, nil
}

// resolveConfig loads the explicit config when given; otherwise it looks for
// a minipy.toml beside the script and falls back to defaults when none
// exists.
func resolveConfig(explicit, scriptPath string) (*fileConfig, error) {
	if explicit != "" {
		return loadConfig(explicit)
	}
	implied := filepath.Join(filepath.Dir(scriptPath), configFileName)
	if _, err := os.Stat(implied); err != nil {
		return &fileConfig{}, nil
	}
	return loadConfig(implied)
}
