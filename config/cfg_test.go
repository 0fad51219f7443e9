package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Reader.BreakLookback != 20 {
		t.Errorf("BreakLookback = %d, want 20", cfg.Reader.BreakLookback)
	}
	if cfg.Reader.TraceLimit != 100 {
		t.Errorf("TraceLimit = %d, want 100", cfg.Reader.TraceLimit)
	}
	if cfg.Reader.Theme != ThemeAuto {
		t.Errorf("Theme = %s, want auto", cfg.Reader.Theme)
	}
	// status template must survive configuration processing untouched
	if !strings.Contains(cfg.Reader.StatusTemplate, "{{ .Title") {
		t.Errorf("StatusTemplate was expanded: %q", cfg.Reader.StatusTemplate)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
reader:
  indent: 4
  theme: dark
  search:
    ignore_case: false
history:
  enable: false
logging:
  console:
    level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Reader.Indent != 4 {
		t.Errorf("Indent = %d, want 4", cfg.Reader.Indent)
	}
	if cfg.Reader.Theme != ThemeDark {
		t.Errorf("Theme = %s, want dark", cfg.Reader.Theme)
	}
	if cfg.Reader.Search.IgnoreCase {
		t.Error("Expected IgnoreCase to be false")
	}
	if cfg.History.Enable {
		t.Error("Expected history to be disabled")
	}
	// defaults are kept for values absent in the file
	if cfg.Reader.BreakLookback != 20 {
		t.Errorf("BreakLookback = %d, want default 20", cfg.Reader.BreakLookback)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nreader:\n  indent: 2\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad theme", "version: 1\nreader:\n  theme: purple\n"},
		{"bad lookback", "version: 1\nreader:\n  break_lookback: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("Prepared config is not valid: %v", err)
	}

	out, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(out), "theme: auto") {
		t.Errorf("dumped configuration does not contain theme:\n%s", out)
	}
	if _, err := unmarshalConfig(out, &Config{}, true); err != nil {
		t.Errorf("dumped configuration cannot be loaded back: %v", err)
	}
}

func TestTheme_Resolve(t *testing.T) {
	if got := ThemeAuto.Resolve(true); got != ThemeDark {
		t.Errorf("auto on dark = %s", got)
	}
	if got := ThemeAuto.Resolve(false); got != ThemeLight {
		t.Errorf("auto on light = %s", got)
	}
	if got := ThemeLight.Resolve(true); got != ThemeLight {
		t.Errorf("explicit theme changed to %s", got)
	}
}
