package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[repl]
prompt = "lox> "
history = ""

[log]
level = "debug"

[debug]
print_ast = true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.REPL.Prompt != "lox> " {
		t.Fatalf("expected prompt %q, got %q", "lox> ", cfg.REPL.Prompt)
	}
	if cfg.REPL.Continuation != ".. " {
		t.Fatalf("expected default continuation to survive, got %q", cfg.REPL.Continuation)
	}
	if cfg.REPL.History != "" || cfg.HistoryPath() != "" {
		t.Fatalf("expected history disabled, got %q", cfg.REPL.History)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected level debug, got %q", cfg.Log.Level)
	}
	if !cfg.Debug.PrintAST {
		t.Fatalf("expected print_ast enabled")
	}
}

func TestLoadConfigEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	def := DefaultConfig()
	if *cfg != *def {
		t.Fatalf("expected defaults %+v, got %+v", def, cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil ||
		!strings.Contains(err.Error(), "failed to read config file") {
		t.Fatalf("expected read error, got %v", err)
	}

	path := writeConfig(t, "[repl\nprompt = ")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestHistoryPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	if got, want := cfg.HistoryPath(), filepath.Join(home, ".lox_history"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	cfg.REPL.History = "/tmp/lox-history"
	if got := cfg.HistoryPath(); got != "/tmp/lox-history" {
		t.Fatalf("expected absolute path untouched, got %s", got)
	}
}

func TestFindConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	work := t.TempDir()
	if err := os.Chdir(work); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	if got := FindConfig(); got != "" {
		t.Fatalf("expected no config, got %q", got)
	}

	userDir := filepath.Join(home, ".config", "lox")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	userConfig := filepath.Join(userDir, ConfigFileName)
	if err := os.WriteFile(userConfig, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := FindConfig(); got != userConfig {
		t.Fatalf("expected %s, got %q", userConfig, got)
	}

	if err := os.WriteFile(ConfigFileName, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := FindConfig(); got != ConfigFileName {
		t.Fatalf("expected working directory config to win, got %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		log, err := NewLogger(level)
		if err != nil {
			t.Fatalf("NewLogger(%q) failed: %v", level, err)
		}
		log.Sync()
	}
	if _, err := NewLogger("chatty"); err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Fatalf("expected invalid level error, got %v", err)
	}

	log, _ := NewLogger("")
	if log.Core().Enabled(-1) {
		t.Fatalf("default logger should not emit debug entries")
	}
}
