package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "airwaves"

type Config struct {
	Library LibraryConfig `koanf:"library"`
	Player  PlayerConfig  `koanf:"player"`
	Log     LogConfig     `koanf:"log"`
}

// LibraryConfig selects where the file list comes from.
// Priority: url > dir > files.
type LibraryConfig struct {
	URL   string      `koanf:"url"`   // JSON listing endpoint
	Dir   string      `koanf:"dir"`   // local folder to scan
	Files []FileEntry `koanf:"files"` // static list
}

// FileEntry is one statically configured file.
type FileEntry struct {
	URL    string `koanf:"url"`
	Name   string `koanf:"name"`
	Artist string `koanf:"artist"`
}

// PlayerConfig holds transport settings.
type PlayerConfig struct {
	TimeFormat      string  `koanf:"time_format"`       // moment-style pattern (default: "HH:mm:ss")
	AutoAdvance     bool    `koanf:"auto_advance"`      // open the next file when a track ends
	SeekStepSeconds float64 `koanf:"seek_step_seconds"` // left/right seek step (1-300, default: 5)
	Resume          *bool   `koanf:"resume"`            // reselect the last file on startup (default: true)
	Notifications   bool    `koanf:"notifications"`     // desktop notification when a file starts
	MediaKeys       *bool   `koanf:"media_keys"`        // MPRIS control on Linux (default: true)
}

// LogConfig holds logging settings. The log always goes to a file because
// the terminal belongs to the UI.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/airwaves/airwaves.log
}

// Load reads the layered config files. When explicit is set only that file
// is read and it must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	configPaths := getConfigPaths()
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config %s: %w", explicit, err)
		}
		configPaths = []string{explicit}
	}

	// Try config files in order of priority (last wins)
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Library.URL = strings.TrimSpace(c.Library.URL)
	if c.Library.Dir != "" {
		c.Library.Dir = expandPath(c.Library.Dir)
	}
	for i, f := range c.Library.Files {
		c.Library.Files[i].URL = expandPath(strings.TrimSpace(f.URL))
	}
	if c.Log.File != "" {
		c.Log.File = expandPath(c.Log.File)
	}
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/airwaves/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasLibrary returns true if any file source is configured.
func (c *Config) HasLibrary() bool {
	return c.Library.URL != "" || c.Library.Dir != "" || len(c.Library.Files) > 0
}

// GetPlayerConfig returns the player configuration with defaults applied.
func (c *Config) GetPlayerConfig() PlayerConfig {
	cfg := c.Player

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = "HH:mm:ss"
	}
	if cfg.SeekStepSeconds < 1 || cfg.SeekStepSeconds > 300 {
		cfg.SeekStepSeconds = 5
	}
	if cfg.Resume == nil {
		resume := true
		cfg.Resume = &resume
	}
	if cfg.MediaKeys == nil {
		mediaKeys := true
		cfg.MediaKeys = &mediaKeys
	}

	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	return cfg
}
