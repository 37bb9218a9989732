// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import "strings"

// ProgramName is the name used in usage and error messages.
const ProgramName = "cloak"

// Mode identifies a subcommand.
type Mode string

const (
	ModeEnc       Mode = "enc"
	ModeDec       Mode = "dec"
	ModeEdit      Mode = "edit"
	ModeID        Mode = "id"
	ModeBenchmark Mode = "benchmark"
	ModeHelp      Mode = "help"
)

// Command describes one subcommand: the tokens selecting it, its flag
// vocabulary and the metadata used for help pages.
type Command struct {
	Mode        Mode
	Aliases     []string
	Description string
	Usage       string
	Examples    []string
	Flags       *FlagTable
}

// Registry holds the subcommand descriptors. It is built once and never
// modified afterwards.
type Registry struct {
	commands []*Command
	byToken  map[string]*Command
}

var (
	specID = FlagSpec{ArgIDName, []string{"-I", "--id"},
		"ID store conversation, yourname:peername"}
	specAskPass = FlagSpec{ArgAskPass, []string{"-p", "--passphrase"},
		"Ask for a passphrase (repeat for several)"}
	specPassword = FlagSpec{ArgPasswords, []string{"--password"},
		"Passphrase given on the command line (insecure)"}
	specWideOpen = FlagSpec{ArgWideOpen, []string{"--wide-open"},
		"Anyone can open the file (no keys or passphrase)"}
	specRecipient = FlagSpec{ArgRecipients, []string{"-r", "--recipient"},
		"Recipient public key (age, ssh or minisign format)"}
	specRecipFile = FlagSpec{ArgRecipFiles, []string{"-R", "--keyfile", "--recipients-file"},
		"File containing recipient keys, or github:username"}
	specIdentity = FlagSpec{ArgIdentities, []string{"-i", "--identity"},
		"Secret key file (sign when encrypting, open when decrypting)"}
	specOutput = FlagSpec{ArgOutFile, []string{"-o", "--out", "--output"},
		"Output file or folder"}
	specArmor = FlagSpec{ArgArmor, []string{"-a", "--armor"},
		"ASCII-armored output"}
	specPaste = FlagSpec{ArgPaste, []string{"-A"},
		"Use the clipboard for input or output"}
	specPadding = FlagSpec{ArgPadding, []string{"--pad", "--padding"},
		"Preferred random padding ratio in percent (default " + DefaultPadding + ")"}
	specDebug = FlagSpec{ArgDebug, []string{"--debug"},
		"Show full error details"}
	specSecret = FlagSpec{ArgSecret, []string{"-s", "--secret"},
		"Show secret keys"}
	specDeleteAll = FlagSpec{ArgDeleteEntireIDStore, []string{"--delete-entire-idstore"},
		"Securely erase the entire ID store"}
	specDelete = FlagSpec{ArgDelete, []string{"-D", "--delete"},
		"Delete the given ID or conversation"}
)

// NewRegistry returns the registry of the cloak subcommands.
func NewRegistry() *Registry {
	return newRegistry(
		&Command{
			Mode:        ModeEnc,
			Aliases:     []string{"encrypt", "-e"},
			Description: "Encrypt files or a message",
			Usage:       "[FILES...]",
			Examples: []string{
				"cloak enc -r age1... -o secret.cloak notes.txt",
				"cloak -eRao keys.pub secret.cloak notes.txt",
			},
			Flags: NewFlagTable(specID, specAskPass, specPassword, specWideOpen,
				specRecipient, specRecipFile, specIdentity, specOutput, specArmor,
				specPaste, specPadding, specDebug),
		},
		&Command{
			Mode:        ModeDec,
			Aliases:     []string{"decrypt", "-d"},
			Description: "Decrypt a file or message",
			Usage:       "[FILE]",
			Examples: []string{
				"cloak dec -i ~/.ssh/id_ed25519 secret.cloak",
				"cloak -dAi ~/.ssh/id_ed25519",
			},
			Flags: NewFlagTable(specID, specAskPass, specPassword, specIdentity,
				specOutput, specPaste, specDebug),
		},
		&Command{
			Mode:        ModeEdit,
			Description: "Edit an encrypted archive in place",
			Usage:       "FILE",
			Examples:    []string{"cloak edit notes.cloak"},
			Flags:       NewFlagTable(specDebug),
		},
		&Command{
			Mode:        ModeID,
			Description: "Manage the ID store of keys and conversations",
			Usage:       "[yourname[:peername]]",
			Examples: []string{
				"cloak id alice",
				"cloak id alice:bob -r age1...",
			},
			Flags: NewFlagTable(specAskPass, specRecipient, specRecipFile, specIdentity,
				specSecret, specDeleteAll, specDelete, specDebug),
		},
		&Command{
			Mode:        ModeBenchmark,
			Aliases:     []string{"bench"},
			Description: "Measure encryption and decryption speed",
			Flags:       NewFlagTable(specDebug),
		},
		&Command{
			Mode:        ModeHelp,
			Description: "Show help",
			Flags:       NewFlagTable(),
		},
	)
}

func newRegistry(cmds ...*Command) *Registry {
	r := &Registry{byToken: make(map[string]*Command)}
	for _, cmd := range cmds {
		r.commands = append(r.commands, cmd)
		for _, tok := range append([]string{string(cmd.Mode)}, cmd.Aliases...) {
			if _, ok := r.byToken[tok]; ok {
				panic("cli: duplicate subcommand token " + tok)
			}
			r.byToken[tok] = cmd
		}
	}
	return r
}

// Resolve maps the leading token of a command line to its subcommand.
func (r *Registry) Resolve(tok string) (*Command, bool) {
	cmd, ok := r.byToken[tok]
	return cmd, ok
}

// Lookup returns the descriptor of mode.
func (r *Registry) Lookup(mode Mode) (*Command, bool) {
	return r.Resolve(string(mode))
}

// Commands returns the descriptors in registration order.
func (r *Registry) Commands() []*Command {
	return r.commands
}

// ModeList returns the slash-separated mode names, e.g. "enc/dec/help".
func (r *Registry) ModeList() string {
	names := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		names = append(names, string(cmd.Mode))
	}
	return strings.Join(names, "/")
}
