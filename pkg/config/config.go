// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the optional cloak settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/cloak-encryption/cloak/pkg/tui"
)

const (
	configDirName  = "cloak"
	configFileName = "config.toml"

	envConfig   = "CLOAK_CONFIG"
	envLogLevel = "CLOAK_LOG_LEVEL"
	envNoColor  = "NO_COLOR"
)

// Config holds user settings. The zero value is usable.
type Config struct {
	Color    string `toml:"color,omitempty"`
	LogLevel string `toml:"log_level,omitempty"`
	Padding  string `toml:"padding,omitempty"`

	// Path is the file the settings were read from, if any.
	Path string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Color:    string(tui.ColorAuto),
		LogLevel: log.WarnLevel.String(),
	}
}

// Path returns the settings file location: $CLOAK_CONFIG, or config.toml in
// the cloak directory under os.UserConfigDir.
func Path() (string, error) {
	if p := os.Getenv(envConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// Load reads the settings file, applies environment overrides and validates
// the result. A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		// No config directory on this system; run with defaults.
		cfg := Default()
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		cfg.Path = path
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if lvl := os.Getenv(envLogLevel); lvl != "" {
		c.LogLevel = lvl
	}
	if os.Getenv(envNoColor) != "" {
		c.Color = string(tui.ColorNever)
	}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := tui.ParseColorMode(c.Color); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Padding != "" {
		if _, err := strconv.ParseFloat(c.Padding, 64); err != nil {
			return fmt.Errorf("invalid padding %q: not a number", c.Padding)
		}
	}
	return nil
}

// ColorMode returns the parsed colour setting.
func (c *Config) ColorMode() tui.ColorMode {
	mode, err := tui.ParseColorMode(c.Color)
	if err != nil {
		return tui.ColorAuto
	}
	return mode
}

// Level returns the parsed log level.
func (c *Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}
