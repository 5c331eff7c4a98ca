package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/sadopc/focusflow/internal/focus"
)

type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Durations DurationsConfig `toml:"durations"`
	Notify    NotifyConfig    `toml:"notify"`
	Log       LogConfig       `toml:"log"`
	UI        UIConfig        `toml:"ui"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// DurationsConfig seeds the mode lengths in minutes until the user changes
// them in the app.
type DurationsConfig struct {
	Focus      int `toml:"focus"`
	ShortBreak int `toml:"short_break"`
	LongBreak  int `toml:"long_break"`
}

type NotifyConfig struct {
	Bell bool `toml:"bell"`
	Log  bool `toml:"log"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

type UIConfig struct {
	Theme string `toml:"theme"` // dark | light
}

func Default(dbPath string) Config {
	d := focus.DefaultDurations()
	logPath := ""
	if dbPath != "" {
		logPath = filepath.Join(filepath.Dir(dbPath), "focusflow.log")
	}
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Durations: DurationsConfig{
			Focus:      d.Focus,
			ShortBreak: d.ShortBreak,
			LongBreak:  d.LongBreak,
		},
		Notify: NotifyConfig{
			Bell: true,
			Log:  true,
		},
		Log: LogConfig{
			Level: "info",
			Path:  logPath,
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// DefaultPath returns ~/.config/focusflow/config.toml
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(cfg, "focusflow", "config.toml"), nil
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if c.Durations.Focus < 1 {
		return fmt.Errorf("durations.focus must be >= 1, got %d", c.Durations.Focus)
	}
	if c.Durations.ShortBreak < 1 {
		return fmt.Errorf("durations.short_break must be >= 1, got %d", c.Durations.ShortBreak)
	}
	if c.Durations.LongBreak < 1 {
		return fmt.Errorf("durations.long_break must be >= 1, got %d", c.Durations.LongBreak)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.UI.Theme)) {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid ui.theme: %q", c.UI.Theme)
	}
	return nil
}

// FocusDurations converts the durations section to the core type.
func (c Config) FocusDurations() focus.Durations {
	return focus.Durations{
		Focus:      c.Durations.Focus,
		ShortBreak: c.Durations.ShortBreak,
		LongBreak:  c.Durations.LongBreak,
	}
}

// Encode renders c as TOML, used to write a starter config file.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return data, nil
}
