package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/focusflow/focusflow.db")
	if cfg.Database.Path != "/tmp/focusflow/focusflow.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Durations.Focus != 25 || cfg.Durations.ShortBreak != 5 || cfg.Durations.LongBreak != 15 {
		t.Fatalf("unexpected durations %+v", cfg.Durations)
	}
	if !cfg.Notify.Bell || !cfg.Notify.Log {
		t.Fatal("expected bell and log notifications enabled by default")
	}
	if cfg.Log.Path != filepath.Join("/tmp/focusflow", "focusflow.log") {
		t.Fatalf("unexpected log path %q", cfg.Log.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/focusflow.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != defaults {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadEmptyPathAndFile(t *testing.T) {
	defaults := Default("/tmp/focusflow.db")
	if cfg, err := Load("  ", defaults); err != nil || cfg != defaults {
		t.Fatalf("blank path: %+v, %v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "empty.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if cfg, err := Load(path, defaults); err != nil || cfg != defaults {
		t.Fatalf("empty file: %+v, %v", cfg, err)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[database]
path = "/custom/focus.db"

[durations]
focus = 50
short_break = 10

[notify]
bell = false

[log]
level = "debug"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/custom/focus.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	d := cfg.FocusDurations()
	if d.Focus != 50 || d.ShortBreak != 10 || d.LongBreak != 15 {
		t.Fatalf("unexpected durations %+v", d)
	}
	if cfg.Notify.Bell {
		t.Fatal("expected bell disabled from config override")
	}
	if !cfg.Notify.Log {
		t.Fatal("expected log notifier kept from defaults")
	}
	if cfg.Log.Level != "debug" || cfg.UI.Theme != "light" {
		t.Fatalf("unexpected log/ui %+v %+v", cfg.Log, cfg.UI)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero focus", "[durations]\nfocus = 0\n", "durations.focus"},
		{"negative long", "[durations]\nlong_break = -1\n", "durations.long_break"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad theme", "[ui]\ntheme = \"neon\"\n", "ui.theme"},
		{"empty db", "[database]\npath = \"\"\n", "database path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path, Default("/tmp/focusflow.db"))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[durations\nfocus = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, Default("/tmp/focusflow.db")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default("/tmp/focusflow.db")
	cfg.Durations.Focus = 45
	data, err := cfg.Encode()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path, Default("/other.db"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded != cfg {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "config.toml" {
		t.Fatalf("unexpected path %q", path)
	}
}
