// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan implements the subcommand entry points. Each one checks the
// argument record the way the encryption engine expects and writes the
// resulting request to the output stream as YAML.
package plan

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cloak-encryption/cloak/pkg/cli"
	"github.com/cloak-encryption/cloak/pkg/dispatch"
	"github.com/cloak-encryption/cloak/pkg/logging"
	"github.com/cloak-encryption/cloak/pkg/tui"
	"gopkg.in/yaml.v3"
)

// benchmarkSize is the amount of data pushed through the cipher by the
// benchmark.
const benchmarkSize = 1_000_000_000

// Request is the validated work order for one subcommand.
type Request struct {
	Mode string `yaml:"mode"`

	Inputs []string `yaml:"inputs,omitempty"`
	Stdin  bool     `yaml:"stdin,omitempty"`
	Output string   `yaml:"output,omitempty"`

	Auth *Auth `yaml:"auth,omitempty"`

	Armor   bool     `yaml:"armor,omitempty"`
	Paste   bool     `yaml:"paste,omitempty"`
	Padding *float64 `yaml:"padding,omitempty"`

	IDStore *IDStore `yaml:"idstore,omitempty"`

	BenchmarkBytes int64 `yaml:"benchmark_bytes,omitempty"`
}

// Auth lists the key material of a request. Command-line passwords are
// counted, never echoed.
type Auth struct {
	Prompts        int      `yaml:"passphrase_prompts,omitempty"`
	Passwords      int      `yaml:"passwords,omitempty"`
	WideOpen       bool     `yaml:"wide_open,omitempty"`
	Recipients     []string `yaml:"recipients,omitempty"`
	RecipientFiles []string `yaml:"recipient_files,omitempty"`
	Identities     []string `yaml:"identities,omitempty"`
}

// IDStore describes an ID store operation.
type IDStore struct {
	Self        string `yaml:"self,omitempty"`
	Peer        string `yaml:"peer,omitempty"`
	ShowSecrets bool   `yaml:"show_secrets,omitempty"`
	Delete      bool   `yaml:"delete,omitempty"`
	DeleteAll   bool   `yaml:"delete_all,omitempty"`
}

// Planner holds the streams shared by the entry points.
type Planner struct {
	Out   io.Writer
	Err   io.Writer
	Color tui.Colorizer
	Log   *log.Logger
}

// New returns a Planner writing requests to stdout and notices to stderr.
func New(l *log.Logger) *Planner {
	return &Planner{Out: os.Stdout, Err: os.Stderr, Log: l}
}

// Modes returns the entry point of every runnable subcommand.
func (p *Planner) Modes() map[cli.Mode]dispatch.EntryPoint {
	return map[cli.Mode]dispatch.EntryPoint{
		cli.ModeEnc:       p.Enc,
		cli.ModeDec:       p.Dec,
		cli.ModeEdit:      p.Edit,
		cli.ModeID:        p.ID,
		cli.ModeBenchmark: p.Benchmark,
	}
}

// Enc plans an encryption.
func (p *Planner) Enc(ctx context.Context, args *cli.Args) error {
	pad, err := parsePadding(args.Padding)
	if err != nil {
		return err
	}
	auth := newAuth(args)
	if args.IDName == "" && auth.Prompts == 0 && auth.Passwords == 0 && !auth.WideOpen &&
		len(auth.Recipients) == 0 && len(auth.RecipientFiles) == 0 {
		auth.Prompts = 1
	}
	for _, r := range auth.Recipients {
		if strings.HasPrefix(r, "github:") {
			return dispatch.Errorf("Unrecognized recipient string. Download a key from Github by -R %s", r)
		}
	}
	if n := len(auth.Recipients); n > 0 {
		auth.Recipients = dedup(auth.Recipients)
		if len(auth.Recipients) < n {
			fmt.Fprintln(p.Err, p.Color.Notice(" ⚠️ Duplicate recipient keys dropped."))
		}
	}
	if args.IDName != "" {
		if len(auth.Recipients)+len(auth.RecipientFiles) > 1 {
			return dispatch.Errorf("Only one recipient may be specified for ID store.")
		}
		if len(auth.Identities) > 1 {
			return dispatch.Errorf("Only one secret key may be specified for ID store.")
		}
	}

	req := &Request{
		Mode:    string(args.Mode),
		Auth:    auth,
		Armor:   args.Armor,
		Paste:   args.Paste,
		Padding: &pad,
	}
	req.Inputs, req.Stdin = inputs(args.Files)
	if len(args.Files) == 0 {
		req.Stdin = true
	}
	req.Output, _ = args.Output()
	if args.IDName != "" {
		self, peer := splitID(args.IDName)
		req.IDStore = &IDStore{Self: self, Peer: peer}
	}
	return p.write(ctx, req)
}

// Dec plans a decryption.
func (p *Planner) Dec(ctx context.Context, args *cli.Args) error {
	if len(args.Files) > 1 {
		return dispatch.Errorf("Only one input file is allowed when decrypting.")
	}
	auth := newAuth(args)
	if auth.Prompts == 0 && auth.Passwords == 0 && len(auth.Identities) == 0 {
		auth.Prompts = 1
	}
	req := &Request{
		Mode:  string(args.Mode),
		Auth:  auth,
		Paste: args.Paste,
	}
	req.Inputs, req.Stdin = inputs(args.Files)
	if len(args.Files) == 0 {
		req.Stdin = true
	}
	req.Output, _ = args.Output()
	if args.IDName != "" {
		self, peer := splitID(args.IDName)
		req.IDStore = &IDStore{Self: self, Peer: peer}
	}
	return p.write(ctx, req)
}

// Edit plans an in-place edit of an archive.
func (p *Planner) Edit(ctx context.Context, args *cli.Args) error {
	if len(args.Files) != 1 {
		return dispatch.Errorf("Edit mode requires an encrypted archive filename (or '-' to use stdio).")
	}
	req := &Request{Mode: string(args.Mode)}
	req.Inputs, req.Stdin = inputs(args.Files)
	return p.write(ctx, req)
}

// ID plans an ID store operation.
func (p *Planner) ID(ctx context.Context, args *cli.Args) error {
	if len(args.Files) > 1 {
		return dispatch.Errorf("Argument error, one ID at most should be specified")
	}
	store := &IDStore{ShowSecrets: args.Secret, Delete: args.Delete}
	if args.DeleteEntireIDStore {
		if len(args.Files) > 0 {
			return dispatch.Errorf("No ID should be provided with --delete-entire-idstore")
		}
		store.DeleteAll = true
		return p.write(ctx, &Request{Mode: string(args.Mode), IDStore: store})
	}
	if len(args.Files) == 1 {
		store.Self, store.Peer = splitID(args.Files[0].String())
	}
	if args.Delete && store.Self == "" {
		return dispatch.Errorf("Need an ID of form yourname or yourname:peername to delete.")
	}

	auth := newAuth(args)
	if n := len(auth.Recipients) + len(auth.RecipientFiles); n > 0 {
		if store.Peer == "" {
			return dispatch.Errorf("Need an ID of form yourname:peername to assign a public key")
		}
		if n > 1 {
			return dispatch.Errorf("Only one public be specified for ID store")
		}
	}
	if n := len(auth.Identities); n > 0 {
		if store.Self == "" {
			return dispatch.Errorf("Need an ID to assign a secret key.")
		}
		if n > 1 {
			return dispatch.Errorf("Only one secret key may be specified for ID store")
		}
	}
	return p.write(ctx, &Request{Mode: string(args.Mode), Auth: auth, IDStore: store})
}

// Benchmark plans a throughput measurement.
func (p *Planner) Benchmark(ctx context.Context, args *cli.Args) error {
	if len(args.Files) > 0 {
		return dispatch.Errorf("Benchmark mode takes no input files.")
	}
	return p.write(ctx, &Request{Mode: string(args.Mode), BenchmarkBytes: benchmarkSize})
}

func (p *Planner) write(ctx context.Context, req *Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Log == nil {
		p.Log = logging.Discard()
	}
	p.Log.Debug("request planned", "mode", req.Mode, "inputs", len(req.Inputs), "stdin", req.Stdin)

	b, err := yaml.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	if _, err := p.Out.Write(b); err != nil {
		return fmt.Errorf("failed to write request: %w", err)
	}
	return nil
}

func newAuth(args *cli.Args) *Auth {
	return &Auth{
		Prompts:        args.AskPass,
		Passwords:      len(args.Passwords),
		WideOpen:       args.WideOpen,
		Recipients:     slices.Clone(args.Recipients),
		RecipientFiles: slices.Clone(args.RecipFiles),
		Identities:     slices.Clone(args.Identities),
	}
}

// parsePadding converts the --pad percentage, which must lie in [0, 300].
func parsePadding(s string) (float64, error) {
	pad, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(pad) || pad < 0 || pad > 300 {
		return 0, &dispatch.Error{Msg: "Invalid padding specified. The valid range is 0 to 300 %.", Err: err}
	}
	return pad, nil
}

// inputs splits positional arguments into named files and the stdio marker.
func inputs(files []cli.Input) (names []string, stdin bool) {
	for _, in := range files {
		if in.Stdio {
			stdin = true
			continue
		}
		names = append(names, in.Path)
	}
	return names, stdin
}

// splitID parses "yourname" or "yourname:peername".
func splitID(id string) (self, peer string) {
	self, peer, _ = strings.Cut(id, ":")
	return self, peer
}

// dedup returns the distinct keys in sorted order.
func dedup(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}
