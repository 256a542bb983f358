// Package manifest handles striker.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chazu/striker/constraint"
)

// Manifest represents a striker.toml configuration.
type Manifest struct {
	Kernel      Kernel      `toml:"kernel"`
	Constraints Constraints `toml:"constraints"`
	Journal     Journal     `toml:"journal"`

	// Dir is the directory containing the striker.toml file (set at load time).
	Dir string `toml:"-"`
}

// Kernel configures the external interpreter.
type Kernel struct {
	Bin            string `toml:"bin"`
	Dir            string `toml:"dir"`
	TimeoutSeconds int    `toml:"timeout-seconds"`
}

// Constraints overrides the default byte policy. When the section is
// absent the stock policy applies.
type Constraints struct {
	MaxByte   *int        `toml:"max-byte"`
	Forbidden []Forbidden `toml:"forbidden"`
}

// Forbidden bans one byte value with a human-readable reason.
type Forbidden struct {
	Value  int    `toml:"value"`
	Reason string `toml:"reason"`
}

// Journal configures the optional outcome journal.
type Journal struct {
	Path string `toml:"path"`
}

// Load parses a striker.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "striker.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Kernel.Bin == "" {
		m.Kernel.Bin = "gforth"
	}
	if m.Kernel.Dir == "" {
		m.Kernel.Dir = "kernel"
	}
	if m.Kernel.TimeoutSeconds <= 0 {
		m.Kernel.TimeoutSeconds = 60
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a striker.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "striker.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// KernelDir returns the absolute path of the kernel working directory.
func (m *Manifest) KernelDir() string {
	if filepath.IsAbs(m.Kernel.Dir) {
		return m.Kernel.Dir
	}
	return filepath.Join(m.Dir, m.Kernel.Dir)
}

// Timeout returns the configured kernel run timeout.
func (m *Manifest) Timeout() time.Duration {
	return time.Duration(m.Kernel.TimeoutSeconds) * time.Second
}

// JournalPath returns the absolute journal path, or "" when no journal is
// configured.
func (m *Manifest) JournalPath() string {
	if m.Journal.Path == "" {
		return ""
	}
	if filepath.IsAbs(m.Journal.Path) {
		return m.Journal.Path
	}
	return filepath.Join(m.Dir, m.Journal.Path)
}

// Policy builds the byte policy described by the constraints section. An
// empty section yields the stock policy (7-bit ASCII, NBSP and UTF-8
// continuation marker banned); any override replaces it entirely.
func (m *Manifest) Policy() (*constraint.Policy, error) {
	if m.Constraints.MaxByte == nil && len(m.Constraints.Forbidden) == 0 {
		return constraint.Default(), nil
	}

	maxByte := constraint.DefaultMaxByte
	if m.Constraints.MaxByte != nil {
		maxByte = *m.Constraints.MaxByte
		if maxByte < 0 || maxByte > 255 {
			return nil, fmt.Errorf("constraints.max-byte %d out of byte range", maxByte)
		}
	}

	forbidden := make(map[byte]string, len(m.Constraints.Forbidden))
	for _, f := range m.Constraints.Forbidden {
		if f.Value < 0 || f.Value > 255 {
			return nil, fmt.Errorf("constraints.forbidden value %d out of byte range", f.Value)
		}
		if f.Reason == "" {
			return nil, fmt.Errorf("constraints.forbidden value %d has no reason", f.Value)
		}
		forbidden[byte(f.Value)] = f.Reason
	}

	return constraint.New(byte(maxByte), forbidden), nil
}
