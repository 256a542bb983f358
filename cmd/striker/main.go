// Striker CLI - validates byte sequences and drives the Gforth striker kernel
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/striker/constraint"
	"github.com/chazu/striker/journal"
	"github.com/chazu/striker/kernel"
	"github.com/chazu/striker/manifest"
	"github.com/chazu/striker/pipeline"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	check := flag.Bool("check", false, "Check kernel availability and exit")
	previewPath := flag.String("preview", "", "Preview the strike effect of a byte file (dry-run, '-' for stdin)")
	strikePath := flag.String("strike", "", "Strike the bytes in a file onto -dest ('-' for stdin)")
	dest := flag.String("dest", "", "Destination substrate path (used with -strike)")
	verifyPath := flag.String("verify", "", "Read and verify a substrate file")
	history := flag.Int("history", 0, "Show the N most recent journal entries")
	timeoutSecs := flag.Int("timeout", 0, "Kernel run timeout in seconds (overrides striker.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: striker [options]\n\n")
		fmt.Fprintf(os.Stderr, "Validates byte sequences and hands them to the Gforth striker kernel.\n")
		fmt.Fprintf(os.Stderr, "Configuration is read from the nearest striker.toml, if any.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  striker -check                          # Is the kernel installed?\n")
		fmt.Fprintf(os.Stderr, "  striker -preview label.bin              # Hexdump + contamination report\n")
		fmt.Fprintf(os.Stderr, "  striker -strike label.bin -dest out/a.sub\n")
		fmt.Fprintf(os.Stderr, "  striker -verify out/a.sub               # Post-hoc corruption check\n")
		fmt.Fprintf(os.Stderr, "  striker -history 10                     # Recent strike/verify outcomes\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p, jnl, err := buildPipeline(m, *timeoutSecs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if jnl != nil {
		defer jnl.Close()
	}

	switch {
	case *check:
		if p.KernelAvailable(context.Background()) {
			fmt.Println("kernel available")
			os.Exit(0)
		}
		fmt.Println("kernel not available")
		os.Exit(1)

	case *previewPath != "":
		if err := runPreview(p, *previewPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case *strikePath != "":
		if *dest == "" {
			fmt.Fprintf(os.Stderr, "Error: -strike requires -dest\n")
			os.Exit(1)
		}
		if err := runStrike(p, *strikePath, *dest); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("struck %s\n", *dest)

	case *verifyPath != "":
		if err := runVerify(p, *verifyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case *history > 0:
		if jnl == nil {
			fmt.Fprintf(os.Stderr, "Error: no journal configured (set journal.path in striker.toml)\n")
			os.Exit(1)
		}
		if err := runHistory(jnl, *history); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// buildPipeline assembles the pipeline from the manifest (which may be nil
// when no striker.toml exists) and CLI overrides.
func buildPipeline(m *manifest.Manifest, timeoutSecs int) (*pipeline.Pipeline, *journal.Journal, error) {
	kernelBin := ""
	kernelDir := "kernel"
	var timeout time.Duration
	policy := constraint.Default()
	journalPath := ""

	if m != nil {
		kernelBin = m.Kernel.Bin
		kernelDir = m.KernelDir()
		timeout = m.Timeout()
		journalPath = m.JournalPath()
		var err error
		policy, err = m.Policy()
		if err != nil {
			return nil, nil, err
		}
	}
	if timeoutSecs > 0 {
		timeout = time.Duration(timeoutSecs) * time.Second
	}

	opts := []pipeline.Option{
		pipeline.WithPolicy(policy),
		pipeline.WithKernel(kernel.New(kernelBin, kernelDir, timeout)),
	}

	var jnl *journal.Journal
	if journalPath != "" {
		var err error
		jnl, err = journal.Open(journalPath)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithRecorder(jnl))
	}

	return pipeline.New(kernelDir, opts...), jnl, nil
}

func runPreview(p *pipeline.Pipeline, path string) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}

	res := p.Preview(data)
	fmt.Printf("%d bytes\n", res.ByteCount)
	if res.HexPreview != "" {
		fmt.Println(res.HexPreview)
	}
	if res.WouldContaminate {
		fmt.Printf("WOULD CONTAMINATE: %d finding(s)\n", len(res.Contaminants))
		printContaminants(res.Contaminants)
	} else {
		fmt.Println("clean")
	}
	return nil
}

func runStrike(p *pipeline.Pipeline, path, dest string) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	return p.Execute(context.Background(), data, dest)
}

func runVerify(p *pipeline.Pipeline, path string) error {
	res, err := p.Verify(path)
	if err != nil {
		return err
	}

	fmt.Printf("%d bytes\n", res.Size)
	if res.Hexdump != "" {
		fmt.Println(res.Hexdump)
	}
	if res.Clean {
		fmt.Println("clean")
	} else {
		fmt.Printf("CONTAMINATED: %d finding(s)\n", len(res.Contaminants))
		printContaminants(res.Contaminants)
	}
	return nil
}

func runHistory(jnl *journal.Journal, n int) error {
	entries, err := jnl.Recent(n)
	if err != nil {
		return err
	}
	for _, e := range entries {
		status := "ok"
		if !e.OK {
			status = "FAILED"
			if e.Op == journal.OpVerify {
				status = "CONTAMINATED"
			}
		}
		fmt.Printf("%s  %-6s  %-12s  %6d bytes  %s", e.Time.Format(time.RFC3339), e.Op, status, e.ByteCount, e.Path)
		if e.Error != "" {
			fmt.Printf("  (%s)", e.Error)
		}
		fmt.Println()
	}
	return nil
}

// readInput reads the byte buffer for a preview or strike; "-" reads stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printContaminants(cs []constraint.Contaminant) {
	for _, c := range cs {
		fmt.Printf("  position %d: byte %d (0x%02X): %s\n", c.Position, c.Value, c.Value, c.Description)
	}
}
