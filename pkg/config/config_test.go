// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/cloak-encryption/cloak/pkg/tui"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Setenv(envLogLevel, "")
	t.Setenv(envNoColor, "")

	path := writeConfig(t, `
color = "always"
log_level = "debug"
padding = "12.5"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	want := &Config{Color: "always", LogLevel: "debug", Padding: "12.5", Path: path}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.ColorMode() != tui.ColorAlways {
		t.Fatalf("ColorMode = %q, want %q", cfg.ColorMode(), tui.ColorAlways)
	}
	lvl, err := cfg.Level()
	if err != nil || lvl != log.DebugLevel {
		t.Fatalf("Level = %v, %v, want %v", lvl, err, log.DebugLevel)
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Setenv(envLogLevel, "")
	t.Setenv(envNoColor, "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileEnvOverrides(t *testing.T) {
	t.Setenv(envLogLevel, "error")
	t.Setenv(envNoColor, "1")

	cfg, err := LoadFile(writeConfig(t, `color = "always"`))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Color != "never" {
		t.Fatalf("Color = %q, want never", cfg.Color)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("LogLevel = %q, want error", cfg.LogLevel)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	t.Setenv(envLogLevel, "")
	t.Setenv(envNoColor, "")

	tests := map[string]string{
		"syntax":    `color = `,
		"color":     `color = "sometimes"`,
		"log level": `log_level = "loud"`,
		"padding":   `padding = "lots"`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, body)); err == nil {
				t.Fatalf("LoadFile succeeded, want error")
			}
		})
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(envConfig, "/tmp/elsewhere.toml")
	got, err := Path()
	if err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if got != "/tmp/elsewhere.toml" {
		t.Fatalf("Path = %q, want /tmp/elsewhere.toml", got)
	}
}
