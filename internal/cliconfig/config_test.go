package cliconfig

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != LogFormatConsole {
		t.Errorf("LogFormat = %v, want %v", cfg.LogFormat, LogFormatConsole)
	}
	if cfg.WatchDebounce != 100*time.Millisecond {
		t.Errorf("WatchDebounce = %v, want 100ms", cfg.WatchDebounce)
	}
	if cfg.ShowToken {
		t.Error("ShowToken should default to false")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantErr   bool
		wantLevel string
	}{
		{
			name:      "defaults",
			config:    DefaultConfig(),
			wantLevel: "info",
		},
		{
			name:      "level is normalized",
			config:    Config{StateDir: "/tmp/s", LogLevel: " DEBUG ", LogFormat: LogFormatJSON, WatchDebounce: time.Second},
			wantLevel: "debug",
		},
		{
			name:      "empty level and format default",
			config:    Config{StateDir: "/tmp/s", WatchDebounce: time.Second},
			wantLevel: "info",
		},
		{
			name:    "unknown level",
			config:  Config{LogLevel: "loud", WatchDebounce: time.Second},
			wantErr: true,
		},
		{
			name:    "unknown format",
			config:  Config{LogLevel: "info", LogFormat: "xml", WatchDebounce: time.Second},
			wantErr: true,
		},
		{
			name:    "non-positive debounce",
			config:  Config{LogLevel: "info"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.LogLevel != tt.wantLevel {
				t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, tt.wantLevel)
			}
			if cfg.StateDir == "" {
				t.Error("StateDir should be derived")
			}
			if cfg.LogFormat == "" {
				t.Error("LogFormat should be derived")
			}
		})
	}
}

func TestConfig_ValidateDerivesStateDir(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.StateDir != "/home/tester/.tokenlife" {
		t.Errorf("StateDir = %q, want /home/tester/.tokenlife", cfg.StateDir)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn", LogFormat: LogFormatJSON}

	l := NewLogger(&buf, cfg)
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %s", out)
	}
	if !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("warn entry missing or not JSON: %s", out)
	}
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer

	l := NewLogger(&buf, Config{LogLevel: "info", LogFormat: LogFormatConsole})
	l.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") || strings.HasPrefix(out, "{") {
		t.Errorf("expected console output, got %q", out)
	}
}
