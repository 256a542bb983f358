// Package pipeline composes constraint checking, hex rendering, protocol
// encoding and kernel invocation into the three operations the host exposes:
// preview, execute and verify.
//
// The pipeline is stateless: every entity it produces is constructed,
// consumed within one call, and discarded. It retains no buffer across
// calls and is safe to instantiate per call.
package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/chazu/striker/constraint"
	"github.com/chazu/striker/forth"
	"github.com/chazu/striker/hexdump"
	"github.com/chazu/striker/kernel"
)

var log = commonlog.GetLogger("striker.pipeline")

// Kernel is the external interpreter the pipeline hands validated data to.
// *kernel.Invoker is the production implementation.
type Kernel interface {
	Available(ctx context.Context) bool
	Run(ctx context.Context, fragmentPath, directive string) error
	Bin() string
	Dir() string
}

// Recorder receives outcome records for completed operations. Recording
// failures are logged and never fail the operation being recorded.
type Recorder interface {
	RecordStrike(dest string, byteCount int, runErr error) error
	RecordVerify(path string, size int, contaminants []constraint.Contaminant) error
}

// PreviewResult is the dry-run view of a pending strike.
type PreviewResult struct {
	HexPreview       string
	WouldContaminate bool
	Contaminants     []constraint.Contaminant
	ByteCount        int
}

// VerifyResult reports the state of a substrate file after the fact.
// Contamination here is a result, not an error: verify exists to detect
// post-hoc corruption, not to gate an action.
type VerifyResult struct {
	Clean        bool
	Contaminants []constraint.Contaminant
	Hexdump      string
	Size         int
}

// Pipeline mediates between the host and the striker kernel.
type Pipeline struct {
	policy  *constraint.Policy
	kernel  Kernel
	fs      Gateway
	journal Recorder // optional
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPolicy replaces the default byte policy.
func WithPolicy(p *constraint.Policy) Option {
	return func(pl *Pipeline) { pl.policy = p }
}

// WithKernel sets the kernel invoker. Required for Execute.
func WithKernel(k Kernel) Option {
	return func(pl *Pipeline) { pl.kernel = k }
}

// WithGateway replaces the OS filesystem gateway.
func WithGateway(g Gateway) Option {
	return func(pl *Pipeline) { pl.fs = g }
}

// WithRecorder attaches an outcome journal.
func WithRecorder(r Recorder) Option {
	return func(pl *Pipeline) { pl.journal = r }
}

// New creates a Pipeline with the default policy, the OS gateway, and a
// gforth invoker rooted at the given kernel directory, then applies opts.
func New(kernelDir string, opts ...Option) *Pipeline {
	p := &Pipeline{
		policy: constraint.Default(),
		kernel: kernel.New("", kernelDir, 0),
		fs:     OSGateway{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// KernelAvailable reports whether the external kernel can be launched.
// It never fails.
func (p *Pipeline) KernelAvailable(ctx context.Context) bool {
	return p.kernel.Available(ctx)
}

// Preview renders the exact physical effect of striking buf without
// touching the filesystem or the kernel. It always succeeds; contaminated
// input produces findings, not errors.
func (p *Pipeline) Preview(buf []byte) PreviewResult {
	contaminants := p.policy.Scan(buf)
	return PreviewResult{
		HexPreview:       hexdump.Dump(buf),
		WouldContaminate: len(contaminants) > 0,
		Contaminants:     contaminants,
		ByteCount:        len(buf),
	}
}

// Execute validates buf and hands it to the kernel for a physical strike
// onto dest. Any step's failure short-circuits the rest; validation and
// availability failures occur before anything is written. The destination
// itself is written only by the kernel, gated by its own exit status, so a
// failed execute never leaves partial destination output.
func (p *Pipeline) Execute(ctx context.Context, buf []byte, dest string) (err error) {
	defer func() {
		if p.journal == nil {
			return
		}
		if jerr := p.journal.RecordStrike(dest, len(buf), err); jerr != nil {
			log.Errorf("journal record failed: %v", jerr)
		}
	}()

	if err = p.policy.Validate(buf); err != nil {
		return err
	}

	directive, err := forth.Directive(dest, len(buf))
	if err != nil {
		return err
	}

	if !p.kernel.Available(ctx) {
		return &kernel.UnavailableError{Bin: p.kernel.Bin()}
	}

	// The kernel directory holds the protocol program and receives the
	// fragment. Its absence is a configuration error, never repaired here.
	if _, serr := p.fs.Stat(p.kernel.Dir()); serr != nil {
		return &IOError{Op: "stat", Path: p.kernel.Dir(), Err: serr}
	}

	if parent := filepath.Dir(dest); parent != "." && parent != "" {
		if merr := p.fs.MkdirAll(parent, 0o755); merr != nil {
			return &IOError{Op: "mkdir", Path: parent, Err: merr}
		}
	}

	// One uniquely named fragment per call: concurrent executes must not
	// race on a shared file, and the kernel is told exactly which fragment
	// to load.
	fragment := filepath.Join(p.kernel.Dir(), fmt.Sprintf("data-%s.fth", requestID()))
	if werr := p.fs.WriteFile(fragment, forth.Fragment(buf), 0o644); werr != nil {
		return &IOError{Op: "write", Path: fragment, Err: werr}
	}
	defer func() {
		if rerr := p.fs.Remove(fragment); rerr != nil {
			log.Infof("fragment cleanup failed: %v", rerr)
		}
	}()

	log.Infof("striking %d bytes onto %s", len(buf), dest)
	return p.kernel.Run(ctx, fragment, directive)
}

// Verify reads the substrate at path and reports its contamination state
// with full diagnostics. Read failures are errors; contamination is not.
func (p *Pipeline) Verify(path string) (*VerifyResult, error) {
	buf, err := p.fs.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	contaminants := p.policy.Scan(buf)
	res := &VerifyResult{
		Clean:        len(contaminants) == 0,
		Contaminants: contaminants,
		Hexdump:      hexdump.Dump(buf),
		Size:         len(buf),
	}

	if p.journal != nil {
		if jerr := p.journal.RecordVerify(path, res.Size, contaminants); jerr != nil {
			log.Errorf("journal record failed: %v", jerr)
		}
	}
	return res, nil
}

// requestID returns a short random identifier for fragment filenames.
func requestID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("pipeline: cannot read random bytes: %v", err))
	}
	return hex.EncodeToString(b[:])
}
