// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// FlagSpec lists the accepted spellings of one logical argument.
type FlagSpec struct {
	ID        ArgID
	Spellings []string
	Help      string
}

// FlagTable maps flag spellings to argument slots for one subcommand.
// Short spellings ("-x") match case-sensitively, long spellings ("--xyz")
// match case-insensitively. A FlagTable is immutable once built.
type FlagTable struct {
	specs []FlagSpec
	short map[rune]ArgID
	long  map[string]ArgID
}

// NewFlagTable builds a table from specs. It panics if a spelling is
// malformed or maps to more than one slot.
func NewFlagTable(specs ...FlagSpec) *FlagTable {
	t := &FlagTable{
		specs: make([]FlagSpec, 0, len(specs)),
		short: make(map[rune]ArgID),
		long:  make(map[string]ArgID),
	}
	for _, spec := range specs {
		spellings := make([]string, 0, len(spec.Spellings))
		for _, s := range spec.Spellings {
			switch {
			case strings.HasPrefix(s, "--") && len(s) > 2:
				key := strings.ToLower(s)
				if prev, ok := t.long[key]; ok {
					panic(fmt.Sprintf("cli: flag %s maps to both %v and %v", s, prev, spec.ID))
				}
				t.long[key] = spec.ID
				s = key
			case strings.HasPrefix(s, "-") && utf8.RuneCountInString(s) == 2 && s[1] != '-':
				r, _ := utf8.DecodeRuneInString(s[1:])
				if prev, ok := t.short[r]; ok {
					panic(fmt.Sprintf("cli: flag %s maps to both %v and %v", s, prev, spec.ID))
				}
				t.short[r] = spec.ID
			default:
				panic(fmt.Sprintf("cli: malformed flag spelling %q", s))
			}
			spellings = append(spellings, s)
		}
		spec.Spellings = spellings
		t.specs = append(t.specs, spec)
	}
	return t
}

// Lookup resolves a single flag token such as "-r" or "--Recipient".
func (t *FlagTable) Lookup(tok string) (ArgID, bool) {
	if t == nil {
		return 0, false
	}
	if strings.HasPrefix(tok, "--") {
		id, ok := t.long[strings.ToLower(tok)]
		return id, ok
	}
	if !strings.HasPrefix(tok, "-") || utf8.RuneCountInString(tok) != 2 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(tok[1:])
	return t.LookupShort(r)
}

// LookupShort resolves one character of a short-flag cluster.
func (t *FlagTable) LookupShort(r rune) (ArgID, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.short[r]
	return id, ok
}

// Specs returns the table entries in declaration order.
func (t *FlagTable) Specs() []FlagSpec {
	if t == nil {
		return nil
	}
	return slices.Clone(t.specs)
}

// Len returns the number of logical arguments in the table.
func (t *FlagTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.specs)
}
