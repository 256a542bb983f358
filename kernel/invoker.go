// Package kernel launches the external Gforth striker kernel and maps
// process outcomes to typed errors.
//
// The kernel is a black box invoked over a textual protocol: two positional
// source files (the static protocol program and a generated data fragment)
// plus a one-line directive passed with -e. Exit status 0 means the physical
// strike completed; anything else is a hard failure.
package kernel

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tliron/commonlog"

	"github.com/chazu/striker/forth"
)

var log = commonlog.GetLogger("striker.kernel")

// DefaultBin is the interpreter launched when none is configured.
const DefaultBin = "gforth"

// DefaultTimeout bounds a run when the caller's context carries no
// deadline. A strike of a few kilobytes completes in well under a second;
// a minute means the head is jammed or the kernel is wedged.
const DefaultTimeout = 60 * time.Second

// Invoker launches the striker kernel as a child process. The zero value is
// not usable; construct with New.
type Invoker struct {
	bin     string
	dir     string
	timeout time.Duration
}

// New creates an Invoker for the given binary and kernel working directory.
// Empty bin selects DefaultBin; a non-positive timeout selects
// DefaultTimeout.
func New(bin, dir string, timeout time.Duration) *Invoker {
	if bin == "" {
		bin = DefaultBin
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Invoker{bin: bin, dir: dir, timeout: timeout}
}

// Bin returns the configured kernel binary name.
func (inv *Invoker) Bin() string { return inv.bin }

// Dir returns the kernel working directory containing the protocol program.
func (inv *Invoker) Dir() string { return inv.dir }

// ProgramPath returns the path of the static protocol program.
func (inv *Invoker) ProgramPath() string {
	return filepath.Join(inv.dir, forth.ProgramFile)
}

// Available probes the kernel with a version check. It returns true only if
// the process starts and exits successfully; any launch failure, including
// a missing binary or denied permission, reports false. It never returns
// an error.
func (inv *Invoker) Available(ctx context.Context) bool {
	err := exec.CommandContext(ctx, inv.bin, "--version").Run()
	if err != nil {
		log.Infof("kernel probe failed for %q: %v", inv.bin, err)
		return false
	}
	return true
}

// Run launches the kernel with the protocol program, the given data
// fragment, and the directive, then blocks until the child exits. A zero
// exit status is success. Non-zero exit and spawn failure map to ExecError;
// a deadline or cancellation on ctx maps to TimedOutError or CancelledError.
//
// When ctx has no deadline of its own, the configured timeout applies.
func (inv *Invoker) Run(ctx context.Context, fragmentPath, directive string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, inv.bin, inv.ProgramPath(), fragmentPath, "-e", directive)
	out, err := cmd.CombinedOutput()
	if err == nil {
		log.Infof("kernel run completed: %s", fragmentPath)
		return nil
	}

	detail := strings.TrimSpace(string(out))
	if detail == "" {
		detail = err.Error()
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.Errorf("kernel run timed out after %s", inv.timeout)
		return &TimedOutError{Detail: detail}
	case errors.Is(ctx.Err(), context.Canceled):
		return &CancelledError{Detail: detail}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Errorf("kernel exited with status %d", exitErr.ExitCode())
		return &ExecError{ExitCode: exitErr.ExitCode(), Detail: detail}
	}
	// The process never started.
	return &ExecError{ExitCode: -1, Detail: err.Error()}
}
