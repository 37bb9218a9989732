// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"strings"
	"unicode/utf8"
)

const (
	terminator = "--"
	stdioToken = "-"
)

// NeedHelp reports whether -h or --help (any case) appears before a "--"
// terminator.
func NeedHelp(args []string) bool {
	for _, arg := range args {
		if arg == terminator {
			return false
		}
		switch strings.ToLower(arg) {
		case "-h", "--help":
			return true
		}
	}
	return false
}

// NeedVersion reports whether -v or --version (any case) appears anywhere,
// including after a "--" terminator.
func NeedVersion(args []string) bool {
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "-v", "--version":
			return true
		}
	}
	return false
}

// isCluster reports whether tok bundles several single-character flags
// behind one dash, e.g. "-Arrp".
func isCluster(tok string) bool {
	return strings.HasPrefix(tok, "-") && !strings.HasPrefix(tok, terminator) &&
		utf8.RuneCountInString(tok) > 2
}

// SplitFusedMode rewrites a first token such as "-eArp" into the mode
// selector "-e" followed by the flag cluster "-Arp". It returns args
// unchanged when the first token is not fused or when help was requested.
func SplitFusedMode(args []string) []string {
	if len(args) == 0 || !isCluster(args[0]) || NeedHelp(args) {
		return args
	}
	first := args[0]
	_, size := utf8.DecodeRuneInString(first[1:])
	cut := 1 + size
	out := make([]string, 0, len(args)+1)
	out = append(out, first[:cut], "-"+first[cut:])
	return append(out, args[1:]...)
}

// expandCluster splits a short-flag cluster into single flags. If any
// character is not a short flag of table, it returns nil and the failing
// characters as "-x" tokens.
func expandCluster(table *FlagTable, tok string) (ids []ArgID, failing []string) {
	for _, r := range tok[1:] {
		id, ok := table.LookupShort(r)
		if !ok {
			failing = append(failing, "-"+string(r))
			continue
		}
		ids = append(ids, id)
	}
	if len(failing) > 0 {
		return nil, failing
	}
	return ids, nil
}
