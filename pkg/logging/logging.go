// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging sets up the diagnostic logger written to stderr.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "cloak",
		ReportTimestamp: level <= log.DebugLevel,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, log.FatalLevel)
}

// EnableDebug lowers l to debug level, as --debug does.
func EnableDebug(l *log.Logger) {
	if l.GetLevel() > log.DebugLevel {
		l.SetLevel(log.DebugLevel)
	}
}
