// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cloak encrypts and decrypts files and messages.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloak-encryption/cloak/pkg/config"
	"github.com/cloak-encryption/cloak/pkg/dispatch"
	"github.com/cloak-encryption/cloak/pkg/logging"
	"github.com/cloak-encryption/cloak/pkg/plan"
	"github.com/cloak-encryption/cloak/pkg/tui"
)

func main() {
	// Writes to a closed pipe must fail with EPIPE instead of killing us.
	signal.Ignore(syscall.SIGPIPE)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		// A second signal gets the default behaviour.
		signal.Stop(sigCh)
	}()

	code, err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	if err != nil {
		// Unexpected, or --debug was given.
		panic(err)
	}
	os.Exit(code)
}

// run executes one command line and returns the exit code. A non-nil error
// has not been reported to the user.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer) (int, error) {
	color := colorizerFor(config.Default().ColorMode(), stderr)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, color.Error(err.Error()))
		return dispatch.ExitRuntime, nil
	}
	color = colorizerFor(cfg.ColorMode(), stderr)
	level, _ := cfg.Level()
	logger := logging.New(stderr, level)
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	planner := &plan.Planner{Out: stdout, Err: stderr, Color: color, Log: logger}
	d := dispatch.New(planner.Modes())
	d.Parser.Padding = cfg.Padding
	d.Stdout = stdout
	d.Stderr = stderr
	d.Color = color
	d.Log = logger

	err = d.Run(ctx, argv)
	if code := dispatch.ExitCode(err); code >= 0 {
		logger.Debug("exiting", "code", code)
		return code, nil
	}
	return 0, err
}

func colorizerFor(mode tui.ColorMode, w io.Writer) tui.Colorizer {
	f, _ := w.(*os.File)
	return tui.NewColorizer(mode, f)
}
