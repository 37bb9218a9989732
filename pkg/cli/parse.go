// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli parses the cloak command line.
//
// The grammar is deliberately small and strict:
//   - The first token selects the subcommand ("enc", "-e", "decrypt", ...).
//     A fused first token such as "-eAr" is read as "-e -Ar".
//   - Each subcommand has its own FlagTable. Long flags ("--out") match
//     case-insensitively, short flags ("-o") case-sensitively.
//   - "-abc" is a cluster of short flags. Flags in a cluster that take a
//     value consume the following tokens in order, so "-rR k1 k2" is
//     "-r k1 -R k2".
//   - Tokens not starting with "-" are input files. A bare "-" is the
//     standard stream. Everything after "--" is an input file.
//
// Parse returns a *HelpRequest, ErrVersion or a UsageError when the command
// line does not describe a subcommand run.
package cli

import "strings"

// Parser turns command lines into argument records.
type Parser struct {
	Registry *Registry

	// Padding, when non-empty, replaces DefaultPadding as the initial value
	// of the --pad scalar.
	Padding string
}

// NewParser returns a Parser for reg.
func NewParser(reg *Registry) *Parser {
	return &Parser{Registry: reg}
}

// Parse parses argv, which must not include the program name.
//
// On a usage error during collection the partially filled record is
// returned together with the error.
func (p *Parser) Parse(argv []string) (*Args, error) {
	if len(argv) == 0 {
		return nil, &HelpRequest{}
	}
	if NeedVersion(argv) {
		return nil, ErrVersion
	}
	argv = SplitFusedMode(argv)

	cmd, ok := p.Registry.Resolve(argv[0])
	isHelpMode := ok && cmd.Mode == ModeHelp
	if isHelpMode || NeedHelp(argv) {
		if isHelpMode && len(argv) == 2 {
			if sub, ok := p.Registry.Resolve(argv[1]); ok {
				return nil, &HelpRequest{Mode: sub.Mode}
			}
		}
		if !ok {
			return nil, &HelpRequest{}
		}
		return nil, &HelpRequest{Mode: cmd.Mode}
	}
	if !ok {
		return nil, &InvalidCommandError{Token: argv[0], Modes: p.Registry.ModeList()}
	}

	args := NewArgs(cmd.Mode)
	if p.Padding != "" {
		args.Padding = p.Padding
	}
	return args, collect(cmd, args, argv[1:])
}

// collect walks toks once from left to right, filling args.
func collect(cmd *Command, args *Args, toks []string) error {
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch {
		case tok == stdioToken:
			args.Files = append(args.Files, Stdin)
			continue
		case tok == terminator:
			for _, rest := range toks[i+1:] {
				args.Files = append(args.Files, File(rest))
			}
			return nil
		case !strings.HasPrefix(tok, "-"):
			args.Files = append(args.Files, File(tok))
			continue
		}

		var ids []ArgID
		if isCluster(tok) {
			expanded, failing := expandCluster(cmd.Flags, tok)
			if len(failing) > 0 {
				return &InvalidFlagError{Mode: cmd.Mode, Flag: tok, Failing: failing}
			}
			ids = expanded
		} else {
			id, ok := cmd.Flags.Lookup(tok)
			if !ok {
				return &InvalidFlagError{Mode: cmd.Mode, Flag: tok}
			}
			ids = []ArgID{id}
		}

		for _, id := range ids {
			var value string
			if id.Kind().TakesValue() {
				if i+1 >= len(toks) {
					return &MissingValueError{Mode: cmd.Mode, Flag: tok}
				}
				i++
				value = toks[i]
			}
			args.apply(id, value)
		}
	}
	return nil
}
