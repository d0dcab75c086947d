package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the file-backed settings. CLI flags override these.
type Config struct {
	ClaudeDir string `toml:"claude_dir"`
	OutputDir string `toml:"output_dir"`
}

// Load reads ~/.config/cc-convo/config.toml over built-in defaults. A missing
// file is not an error; a malformed one is.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ClaudeDir: filepath.Join(home, ".claude", "projects"),
		OutputDir: "cc-convo-exports",
	}

	cfgPath := filepath.Join(home, ".config", "cc-convo", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.ClaudeDir = expandHome(cfg.ClaudeDir, home)
	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	return cfg, nil
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !hasHomePrefix(path) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return expandHome(path, home), nil
}

func hasHomePrefix(path string) bool {
	return len(path) > 1 && path[0] == '~' && path[1] == '/'
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if hasHomePrefix(path) {
		return filepath.Join(home, path[2:])
	}
	return path
}
