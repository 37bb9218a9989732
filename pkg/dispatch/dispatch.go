// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch runs a parsed cloak command line and maps its outcome to
// a process exit code.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/cloak-encryption/cloak/pkg/cli"
	"github.com/cloak-encryption/cloak/pkg/clihelp"
	"github.com/cloak-encryption/cloak/pkg/logging"
	"github.com/cloak-encryption/cloak/pkg/tui"
	"github.com/cloak-encryption/cloak/pkg/version"
)

// EntryPoint runs one subcommand with a validated argument record.
type EntryPoint func(ctx context.Context, args *cli.Args) error

// Dispatcher parses a command line, validates it and calls the entry point
// of the selected subcommand.
type Dispatcher struct {
	Parser *cli.Parser
	Help   *clihelp.Printer
	Modes  map[cli.Mode]EntryPoint

	// Version is printed for -v/--version. Defaults to the build version.
	Version string

	Stdout io.Writer
	Stderr io.Writer
	Color  tui.Colorizer
	Log    *log.Logger
}

// New returns a Dispatcher for the standard registry writing to the process
// streams.
func New(modes map[cli.Mode]EntryPoint) *Dispatcher {
	reg := cli.NewRegistry()
	return &Dispatcher{
		Parser: cli.NewParser(reg),
		Help:   clihelp.New(reg),
		Modes:  modes,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run handles one invocation. It returns nil on success, an *ExitError
// once the outcome has been reported to the user, or any other error when
// the failure is unexpected or --debug was given. The latter must not be
// swallowed by the caller.
func (d *Dispatcher) Run(ctx context.Context, argv []string) error {
	args, err := d.Parser.Parse(argv)
	if err != nil {
		return d.parseFailed(err)
	}

	l := d.logger()
	if args.Debug {
		logging.EnableDebug(l)
	}
	l.Debug("parsed command line", "mode", args.Mode, "files", len(args.Files))

	if err := validate(args); err != nil {
		return d.finish(ctx, args, err)
	}
	entry, ok := d.Modes[args.Mode]
	if !ok {
		return fmt.Errorf("no entry point registered for %q", args.Mode)
	}
	return d.finish(ctx, args, entry(ctx, args))
}

// validate checks the constraints that span several flags.
func validate(args *cli.Args) error {
	if len(args.OutFile) > 1 {
		return &Error{Msg: "Only one output file may be specified"}
	}
	// Textual comparison only. Symlinks and other spellings of the same
	// path are not detected.
	if out, ok := args.Output(); ok && slices.Contains(args.Files, cli.File(out)) {
		return &Error{Msg: "In-place operation is not supported, cannot use the same file as input and output."}
	}
	return nil
}

func (d *Dispatcher) parseFailed(err error) error {
	var help *cli.HelpRequest
	var usage cli.UsageError
	switch {
	case errors.Is(err, cli.ErrVersion):
		_, werr := fmt.Fprintln(d.Stdout, d.version())
		return d.outputFailed(werr)
	case errors.As(err, &help):
		return d.outputFailed(d.Help.Print(d.Stdout, help.Mode))
	case errors.As(err, &usage):
		d.Help.Print(d.Stderr, usage.CommandMode())
		fmt.Fprintln(d.Stderr, d.Color.Usage(usage.Error()))
		return &ExitError{Code: ExitUsage, Err: err}
	}
	return err
}

// outputFailed maps a failed write of help or version text.
func (d *Dispatcher) outputFailed(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EPIPE) {
		fmt.Fprintln(d.Stderr, "I/O error (broken pipe)")
		return &ExitError{Code: ExitBrokenPipe, Err: err}
	}
	return err
}

func (d *Dispatcher) finish(ctx context.Context, args *cli.Args, err error) error {
	if err == nil {
		return nil
	}
	l := d.logger()
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		fmt.Fprintln(d.Stderr, d.Color.Notice("Interrupted."))
		return &ExitError{Code: ExitInterrupted, Err: err}
	}
	if args.Debug {
		l.Debug("not mapping error", "mode", args.Mode, "err", err)
		return err
	}
	if errors.Is(err, syscall.EPIPE) {
		fmt.Fprintln(d.Stderr, "I/O error (broken pipe)")
		return &ExitError{Code: ExitBrokenPipe, Err: err}
	}
	var re *Error
	if errors.As(err, &re) {
		fmt.Fprintln(d.Stderr, d.Color.Error(re.Error()))
		return &ExitError{Code: ExitRuntime, Err: err}
	}
	return err
}

func (d *Dispatcher) logger() *log.Logger {
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	return d.Log
}

func (d *Dispatcher) version() string {
	if d.Version != "" {
		return d.Version
	}
	return version.String(cli.ProgramName)
}
