// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode selects when terminal colours are used.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses a colour mode; the empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return ColorMode(s), nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Colorizer renders status lines, with or without ANSI colours.
type Colorizer struct {
	Enabled bool
}

// NewColorizer decides colour use for output written to f.
func NewColorizer(mode ColorMode, f *os.File) Colorizer {
	switch mode {
	case ColorAlways:
		return Colorizer{Enabled: true}
	case ColorNever:
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return Colorizer{}
	}
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) paint(text string, attrs ...color.Attribute) string {
	p := color.New(attrs...)
	if c.Enabled {
		p.EnableColor()
	} else {
		p.DisableColor()
	}
	return p.Sprint(text)
}

// Usage renders a command-line error line.
func (c Colorizer) Usage(msg string) string {
	return " 💣  " + c.paint(msg, color.FgRed, color.Bold)
}

// Error renders a runtime error line.
func (c Colorizer) Error(msg string) string {
	return c.paint("Error: ", color.FgRed) + msg
}

// Notice renders a short informational line.
func (c Colorizer) Notice(msg string) string {
	return c.paint(msg, color.FgYellow)
}
