// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clihelp renders the cloak help pages from the command registry.
package clihelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloak-encryption/cloak/pkg/cli"
	"github.com/shayne/yargs"
)

const description = "Encryption for files and messages, with keys, passphrases or an ID store."

var examples = []string{
	"cloak enc -r age1... notes.txt",
	"cloak dec notes.txt.cloak",
	"cloak id alice:bob -r age1...",
}

// Printer writes help pages for the commands in a registry.
type Printer struct {
	reg    *cli.Registry
	config yargs.HelpConfig
}

// New returns a Printer for reg.
func New(reg *cli.Registry) *Printer {
	return &Printer{reg: reg, config: buildHelpConfig(reg)}
}

func buildHelpConfig(reg *cli.Registry) yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo)
	for _, cmd := range reg.Commands() {
		// yargs adds the help entry itself.
		if cmd.Mode == cli.ModeHelp {
			continue
		}
		name := string(cmd.Mode)
		subcommands[name] = yargs.SubCommandInfo{
			Name:        name,
			Description: cmd.Description,
			Usage:       cmd.Usage,
			Examples:    cmd.Examples,
			Aliases:     cmd.Aliases,
		}
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        cli.ProgramName,
			Description: description,
			Examples:    examples,
		},
		SubCommands: subcommands,
	}
}

// Text returns the help page for mode, or the global page when mode is empty
// or has no page of its own.
func (p *Printer) Text(mode cli.Mode) string {
	cmd, ok := p.reg.Lookup(mode)
	if !ok || mode == cli.ModeHelp {
		return p.global()
	}

	var b strings.Builder
	b.WriteString(yargs.GenerateSubCommandHelpFromConfig(p.config, string(mode), struct{}{}))
	writeOptions(&b, "OPTIONS:", cmd.Flags.Specs())
	return b.String()
}

func (p *Printer) global() string {
	var b strings.Builder
	b.WriteString(yargs.GenerateGlobalHelp(p.config, struct{}{}))
	b.WriteString("\n")
	b.WriteString("GLOBAL OPTIONS:\n")
	writeRow(&b, "-h, --help", "Show help")
	writeRow(&b, "--version", "Show version and exit")
	return b.String()
}

// Print writes the help page for mode to w.
func (p *Printer) Print(w io.Writer, mode cli.Mode) error {
	_, err := io.WriteString(w, p.Text(mode))
	return err
}

func writeOptions(b *strings.Builder, title string, specs []cli.FlagSpec) {
	if len(specs) == 0 {
		return
	}
	b.WriteString(title)
	b.WriteString("\n")
	for _, spec := range specs {
		flags := strings.Join(spec.Spellings, ", ")
		if spec.ID.Kind().TakesValue() {
			flags += " " + metavar(spec.ID)
		}
		writeRow(b, flags, spec.Help)
	}
	writeRow(b, "-h, --help", "Show this help message")
}

func writeRow(b *strings.Builder, flags, help string) {
	fmt.Fprintf(b, "    %-34s %s\n", flags, help)
}

func metavar(id cli.ArgID) string {
	switch id {
	case cli.ArgIDName:
		return "ID"
	case cli.ArgPasswords:
		return "PASSWORD"
	case cli.ArgRecipients:
		return "KEY"
	case cli.ArgRecipFiles, cli.ArgIdentities:
		return "FILE"
	case cli.ArgOutFile:
		return "PATH"
	case cli.ArgPadding:
		return "PERCENT"
	}
	return "VALUE"
}
