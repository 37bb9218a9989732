// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/cloak-encryption/cloak/pkg/cli"
	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	calls []*cli.Args
	err   error
}

func (r *recorder) entry(ctx context.Context, args *cli.Args) error {
	r.calls = append(r.calls, args)
	return r.err
}

func newTestDispatcher(rec *recorder) (*Dispatcher, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	modes := make(map[cli.Mode]EntryPoint)
	for _, m := range []cli.Mode{cli.ModeEnc, cli.ModeDec, cli.ModeEdit, cli.ModeID, cli.ModeBenchmark} {
		modes[m] = rec.entry
	}
	d := New(modes)
	d.Version = "cloak v1.2.3"
	d.Stdout = &stdout
	d.Stderr = &stderr
	return d, &stdout, &stderr
}

func run(t *testing.T, d *Dispatcher, line string) error {
	t.Helper()
	return d.Run(context.Background(), strings.Fields(line))
}

func TestRunInvokesEntryPoint(t *testing.T) {
	rec := &recorder{}
	d, stdout, stderr := newTestDispatcher(rec)

	if err := run(t, d, "enc -I myid -r alice@example.com -o out.age in.txt"); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("entry point called %d times, want 1", len(rec.calls))
	}
	want := cli.NewArgs(cli.ModeEnc)
	want.IDName = "myid"
	want.Recipients = []string{"alice@example.com"}
	want.OutFile = []string{"out.age"}
	want.Files = []cli.Input{cli.File("in.txt")}
	if diff := cmp.Diff(want, rec.calls[0]); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if out, _ := rec.calls[0].Output(); out != "out.age" {
		t.Fatalf("Output = %q, want out.age", out)
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Fatalf("unexpected output: stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestRunHelpAndVersion(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"no args", nil, "COMMANDS"},
		{"help flag", []string{"enc", "--HELP"}, "Encrypt files or a message"},
		{"help command", []string{"help", "id"}, "--delete-entire-idstore"},
		{"version", []string{"dec", "x", "--", "-V"}, "cloak v1.2.3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			d, stdout, stderr := newTestDispatcher(rec)
			if err := d.Run(context.Background(), tt.argv); err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if len(rec.calls) != 0 {
				t.Fatalf("entry point called %d times, want 0", len(rec.calls))
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Fatalf("stdout = %q, want %q", stdout, tt.want)
			}
			if stderr.Len() != 0 {
				t.Fatalf("stderr = %q, want empty", stderr)
			}
		})
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"foo", " 💣  Invalid or missing command (enc/dec/edit/id/benchmark/help)."},
		{"enc -x", " 💣  Unknown argument: cloak enc -x"},
		{"dec -Axy", " 💣  Unknown argument: cloak dec -Axy (failing -x -y)"},
		{"enc -r", " 💣  Argument parameter missing: cloak enc -r …"},
		{"edit --armor f", " 💣  Unknown argument: cloak edit --armor"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec := &recorder{}
			d, stdout, stderr := newTestDispatcher(rec)
			err := run(t, d, tt.line)
			if got := ExitCode(err); got != ExitUsage {
				t.Fatalf("exit code = %d (%v), want %d", got, err, ExitUsage)
			}
			if !errors.Is(err, cli.ErrUsage) {
				t.Fatalf("error %v does not match cli.ErrUsage", err)
			}
			if len(rec.calls) != 0 {
				t.Fatalf("entry point called on usage error")
			}
			if stdout.Len() != 0 {
				t.Fatalf("stdout = %q, want empty", stdout)
			}
			if !strings.Contains(stderr.String(), "USAGE") {
				t.Fatalf("stderr lacks help text: %q", stderr)
			}
			if !strings.HasSuffix(stderr.String(), tt.want+"\n") {
				t.Fatalf("stderr = %q, want suffix %q", stderr, tt.want)
			}
		})
	}
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"enc -o a -o b in.txt", "Error: Only one output file may be specified\n"},
		{"enc -o in.txt in.txt", "Error: In-place operation is not supported, cannot use the same file as input and output.\n"},
		{"dec -o x -- x", "Error: In-place operation is not supported, cannot use the same file as input and output.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec := &recorder{}
			d, _, stderr := newTestDispatcher(rec)
			err := run(t, d, tt.line)
			if got := ExitCode(err); got != ExitRuntime {
				t.Fatalf("exit code = %d (%v), want %d", got, err, ExitRuntime)
			}
			if len(rec.calls) != 0 {
				t.Fatalf("entry point called after failed validation")
			}
			if stderr.String() != tt.want {
				t.Fatalf("stderr = %q, want %q", stderr, tt.want)
			}
		})
	}
}

func TestRunStdioIsNotInPlace(t *testing.T) {
	rec := &recorder{}
	d, _, _ := newTestDispatcher(rec)
	if err := run(t, d, "enc -o - -"); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("entry point called %d times, want 1", len(rec.calls))
	}
}

func TestRunValidationWithDebugPropagates(t *testing.T) {
	rec := &recorder{}
	d, _, stderr := newTestDispatcher(rec)
	err := run(t, d, "enc --debug -o a -o b")
	var re *Error
	if !errors.As(err, &re) {
		t.Fatalf("Run error = %v, want *Error", err)
	}
	if ExitCode(err) != -1 {
		t.Fatalf("debug error was mapped to exit code %d", ExitCode(err))
	}
	if stderr.Len() != 0 {
		t.Fatalf("stderr = %q, want empty", stderr)
	}
}

func TestRunEntryPointErrors(t *testing.T) {
	boom := errors.New("boom")
	pipe := fmt.Errorf("write stdout: %w", syscall.EPIPE)
	tests := []struct {
		name       string
		line       string
		err        error
		wantCode   int
		wantStderr string
		wantRaw    error
	}{
		{
			name:       "runtime",
			line:       "dec f",
			err:        Errorf("Not authenticated"),
			wantCode:   ExitRuntime,
			wantStderr: "Error: Not authenticated\n",
		},
		{
			name:       "wrapped runtime",
			line:       "id alice",
			err:        fmt.Errorf("id store: %w", &Error{Msg: "ID store not found"}),
			wantCode:   ExitRuntime,
			wantStderr: "Error: ID store not found\n",
		},
		{
			name:       "broken pipe",
			line:       "enc",
			err:        pipe,
			wantCode:   ExitBrokenPipe,
			wantStderr: "I/O error (broken pipe)\n",
		},
		{
			name:       "canceled",
			line:       "bench",
			err:        context.Canceled,
			wantCode:   ExitInterrupted,
			wantStderr: "Interrupted.\n",
		},
		{
			name:       "canceled with debug",
			line:       "bench --debug",
			err:        fmt.Errorf("bench: %w", context.Canceled),
			wantCode:   ExitInterrupted,
			wantStderr: "Interrupted.\n",
		},
		{name: "unexpected", line: "edit f", err: boom, wantCode: -1, wantRaw: boom},
		{name: "runtime with debug", line: "dec --debug f", err: Errorf("bad"), wantCode: -1},
		{name: "broken pipe with debug", line: "enc --debug", err: pipe, wantCode: -1, wantRaw: pipe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{err: tt.err}
			d, _, stderr := newTestDispatcher(rec)
			err := run(t, d, tt.line)
			if len(rec.calls) != 1 {
				t.Fatalf("entry point called %d times, want 1", len(rec.calls))
			}
			if got := ExitCode(err); got != tt.wantCode {
				t.Fatalf("exit code = %d (%v), want %d", got, err, tt.wantCode)
			}
			if tt.wantRaw != nil && err != tt.wantRaw {
				t.Fatalf("Run error = %v, want %v unchanged", err, tt.wantRaw)
			}
			if stderr.String() != tt.wantStderr {
				t.Fatalf("stderr = %q, want %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestRunInterruptedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	d, _, stderr := newTestDispatcher(rec)
	d.Modes[cli.ModeEnc] = func(ctx context.Context, args *cli.Args) error {
		cancel()
		return errors.New("read stdin: interrupted")
	}
	err := d.Run(ctx, []string{"enc", "--debug"})
	if got := ExitCode(err); got != ExitInterrupted {
		t.Fatalf("exit code = %d (%v), want %d", got, err, ExitInterrupted)
	}
	if stderr.String() != "Interrupted.\n" {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunMissingEntryPoint(t *testing.T) {
	rec := &recorder{}
	d, _, _ := newTestDispatcher(rec)
	delete(d.Modes, cli.ModeEdit)
	err := run(t, d, "edit f")
	if err == nil || ExitCode(err) != -1 {
		t.Fatalf("Run error = %v, want unmapped error", err)
	}
}

func TestErrorf(t *testing.T) {
	cause := errors.New("short read")
	err := Errorf("Invalid padding %q: %w", "x", cause)
	if err.Error() != `Invalid padding "x": short read` {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("Errorf lost the wrapped cause")
	}
}
