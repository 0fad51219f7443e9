package config

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestMinLevel(t *testing.T) {
	tests := []struct {
		name string
		want zapcore.Level
		ok   bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"normal", zapcore.InfoLevel, true},
		{"none", zapcore.InvalidLevel, false},
		{"", zapcore.InvalidLevel, false},
	}
	for _, tt := range tests {
		got, ok := minLevel(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("minLevel(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLoggingConfig_Prepare_File(t *testing.T) {
	name := filepath.Join(t.TempDir(), "ebr.log")
	conf := LoggingConfig{
		FileLogger:    LoggerConfig{Level: "normal", Destination: name, Mode: "overwrite"},
		ConsoleLogger: LoggerConfig{Level: "debug"},
	}

	t.Cleanup(func() { debug.SetCrashOutput(nil, debug.CrashOptions{}) })

	log, err := conf.Prepare(nil, false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden")
	log.Info("visible")
	_ = log.Sync()

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(data), "visible") || strings.Contains(string(data), "hidden") {
		t.Errorf("log file = %q", data)
	}
}

func TestLoggingConfig_Prepare_None(t *testing.T) {
	conf := LoggingConfig{
		FileLogger:    LoggerConfig{Level: "none"},
		ConsoleLogger: LoggerConfig{Level: "normal"},
	}
	log, err := conf.Prepare(nil, false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without console and file is enabled")
	}
}
