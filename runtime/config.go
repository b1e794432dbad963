package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the configuration file looked up by FindConfig.
const ConfigFileName = "lox.toml"

// Config holds user preferences for the command-line interpreter.
type Config struct {
	REPL  REPLConfig  `toml:"repl"`
	Log   LogConfig   `toml:"log"`
	Debug DebugConfig `toml:"debug"`
}

// REPLConfig controls the interactive prompt.
type REPLConfig struct {
	Prompt       string `toml:"prompt"`
	Continuation string `toml:"continuation"`
	// History is the file used to persist line history. A leading "~/" is
	// expanded to the home directory; an empty value disables history.
	History string `toml:"history"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DebugConfig toggles debugging output.
type DebugConfig struct {
	PrintAST bool `toml:"print_ast"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt:       "> ",
			Continuation: ".. ",
			History:      "~/.lox_history",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// LoadConfig reads a TOML configuration file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfig returns the path of the first configuration file found in the
// working directory or in $HOME/.config/lox, or "" if there is none.
func FindConfig() string {
	candidates := []string{ConfigFileName}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", "lox", ConfigFileName))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// HistoryPath returns the expanded history file path, or "" when history
// is disabled or the home directory is unknown.
func (c *Config) HistoryPath() string {
	path := c.REPL.History
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return ""
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
