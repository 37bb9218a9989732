// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import "fmt"

// DefaultPadding is the initial value of the --pad scalar, in percent.
const DefaultPadding = "5"

// ArgID names one logical argument slot of Args.
type ArgID int

const (
	ArgIDName ArgID = iota
	ArgAskPass
	ArgPasswords
	ArgWideOpen
	ArgRecipients
	ArgRecipFiles
	ArgIdentities
	ArgOutFile
	ArgArmor
	ArgPaste
	ArgPadding
	ArgDebug
	ArgSecret
	ArgDeleteEntireIDStore
	ArgDelete

	numArgs
)

// Kind selects the update rule applied when a flag occurs.
type Kind int

const (
	// KindCounter is incremented on every occurrence.
	KindCounter Kind = iota
	// KindScalar takes the next token; later occurrences win.
	KindScalar
	// KindList appends the next token on every occurrence.
	KindList
	// KindFlag is set on first occurrence and stays set.
	KindFlag
)

func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindFlag:
		return "flag"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TakesValue reports whether a flag of this kind consumes the following token.
func (k Kind) TakesValue() bool {
	return k == KindScalar || k == KindList
}

type argSpec struct {
	name string
	kind Kind
}

var argSpecs = [numArgs]argSpec{
	ArgIDName:              {"idname", KindScalar},
	ArgAskPass:             {"askpass", KindCounter},
	ArgPasswords:           {"passwords", KindList},
	ArgWideOpen:            {"wideopen", KindFlag},
	ArgRecipients:          {"recipients", KindList},
	ArgRecipFiles:          {"recipfiles", KindList},
	ArgIdentities:          {"identities", KindList},
	ArgOutFile:             {"outfile", KindList},
	ArgArmor:               {"armor", KindFlag},
	ArgPaste:               {"paste", KindFlag},
	ArgPadding:             {"padding", KindScalar},
	ArgDebug:               {"debug", KindFlag},
	ArgSecret:              {"secret", KindFlag},
	ArgDeleteEntireIDStore: {"delete_entire_idstore", KindFlag},
	ArgDelete:              {"delete", KindFlag},
}

// Kind returns the fixed update rule of the slot.
func (id ArgID) Kind() Kind {
	return argSpecs[id].kind
}

func (id ArgID) String() string {
	if id < 0 || id >= numArgs {
		return fmt.Sprintf("ArgID(%d)", int(id))
	}
	return argSpecs[id].name
}

// Input is one positional argument. Stdio marks a bare "-" given before any
// "--" terminator; Path is empty in that case.
type Input struct {
	Path  string
	Stdio bool
}

func (in Input) String() string {
	if in.Stdio {
		return "-"
	}
	return in.Path
}

// Stdin is the standard-stream marker.
var Stdin = Input{Stdio: true}

// File returns a named positional input.
func File(path string) Input {
	return Input{Path: path}
}

// Args is the argument record of one invocation.
type Args struct {
	Mode Mode

	IDName              string
	AskPass             int
	Passwords           []string
	WideOpen            bool
	Recipients          []string
	RecipFiles          []string
	Identities          []string
	OutFile             []string
	Armor               bool
	Paste               bool
	Padding             string
	Debug               bool
	Secret              bool
	DeleteEntireIDStore bool
	Delete              bool

	Files []Input
}

// NewArgs returns a record with every slot at its default.
func NewArgs(mode Mode) *Args {
	return &Args{Mode: mode, Padding: DefaultPadding}
}

// Output returns the single output destination, if any. Callers must have
// rejected records with more than one OutFile entry.
func (a *Args) Output() (string, bool) {
	if len(a.OutFile) == 0 {
		return "", false
	}
	return a.OutFile[0], true
}

func (a *Args) counter(id ArgID) *int {
	switch id {
	case ArgAskPass:
		return &a.AskPass
	}
	panic(fmt.Sprintf("cli: %v is not a counter", id))
}

func (a *Args) scalar(id ArgID) *string {
	switch id {
	case ArgIDName:
		return &a.IDName
	case ArgPadding:
		return &a.Padding
	}
	panic(fmt.Sprintf("cli: %v is not a scalar", id))
}

func (a *Args) list(id ArgID) *[]string {
	switch id {
	case ArgPasswords:
		return &a.Passwords
	case ArgRecipients:
		return &a.Recipients
	case ArgRecipFiles:
		return &a.RecipFiles
	case ArgIdentities:
		return &a.Identities
	case ArgOutFile:
		return &a.OutFile
	}
	panic(fmt.Sprintf("cli: %v is not a list", id))
}

func (a *Args) flag(id ArgID) *bool {
	switch id {
	case ArgWideOpen:
		return &a.WideOpen
	case ArgArmor:
		return &a.Armor
	case ArgPaste:
		return &a.Paste
	case ArgDebug:
		return &a.Debug
	case ArgSecret:
		return &a.Secret
	case ArgDeleteEntireIDStore:
		return &a.DeleteEntireIDStore
	case ArgDelete:
		return &a.Delete
	}
	panic(fmt.Sprintf("cli: %v is not a flag", id))
}

// apply updates the slot for id. value is ignored unless the slot's kind
// takes a value.
func (a *Args) apply(id ArgID, value string) {
	switch id.Kind() {
	case KindCounter:
		*a.counter(id)++
	case KindScalar:
		*a.scalar(id) = value
	case KindList:
		l := a.list(id)
		*l = append(*l, value)
	case KindFlag:
		*a.flag(id) = true
	}
}
