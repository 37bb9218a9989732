// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUsage matches every malformed command line error.
	ErrUsage = errors.New("usage error")

	// ErrHelp is returned when help output was requested. The concrete
	// error is a *HelpRequest naming the subcommand, if any.
	ErrHelp = errors.New("help requested")

	// ErrVersion is returned when -v or --version appears anywhere.
	ErrVersion = errors.New("version requested")
)

// UsageError is implemented by the command-line errors of this package.
type UsageError interface {
	error
	// CommandMode is the subcommand whose help applies, or "" for the
	// global help page.
	CommandMode() Mode
}

// HelpRequest is returned by Parse when help should be shown instead of
// running a subcommand. Mode is empty for the global help page.
type HelpRequest struct {
	Mode Mode
}

func (e *HelpRequest) Error() string {
	if e.Mode == "" || e.Mode == ModeHelp {
		return "help requested"
	}
	return fmt.Sprintf("help requested for %s", e.Mode)
}

func (e *HelpRequest) Is(target error) bool {
	return target == ErrHelp
}

// InvalidCommandError is returned when the first token names no subcommand.
type InvalidCommandError struct {
	Token string
	Modes string // e.g. "enc/dec/edit/id/benchmark/help"
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("Invalid or missing command (%s).", e.Modes)
}

func (e *InvalidCommandError) Is(target error) bool { return target == ErrUsage }

func (e *InvalidCommandError) CommandMode() Mode { return "" }

// InvalidFlagError is returned for a flag token the active subcommand does
// not know. For short-flag clusters Failing lists the characters that did
// not match, each as its own "-x" flag.
type InvalidFlagError struct {
	Mode    Mode
	Flag    string
	Failing []string
}

func (e *InvalidFlagError) Error() string {
	msg := fmt.Sprintf("Unknown argument: %s %s %s", ProgramName, e.Mode, e.Flag)
	if len(e.Failing) > 0 {
		msg += fmt.Sprintf(" (failing %s)", strings.Join(e.Failing, " "))
	}
	return msg
}

func (e *InvalidFlagError) Is(target error) bool { return target == ErrUsage }

func (e *InvalidFlagError) CommandMode() Mode { return e.Mode }

// MissingValueError is returned when a value-taking flag ends the command
// line. Flag is the token as given, including any cluster it was part of.
type MissingValueError struct {
	Mode Mode
	Flag string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("Argument parameter missing: %s %s %s …", ProgramName, e.Mode, e.Flag)
}

func (e *MissingValueError) Is(target error) bool { return target == ErrUsage }

func (e *MissingValueError) CommandMode() Mode { return e.Mode }
