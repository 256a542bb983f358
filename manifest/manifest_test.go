package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "striker.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[kernel]
bin = "/opt/gforth/bin/gforth"
dir = "firmware"
timeout-seconds = 15

[constraints]
max-byte = 126

[[constraints.forbidden]]
value = 13
reason = "carriage return"

[journal]
path = "outcomes.db"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Kernel.Bin != "/opt/gforth/bin/gforth" {
		t.Errorf("kernel bin = %q, want /opt/gforth/bin/gforth", m.Kernel.Bin)
	}
	if m.Kernel.Dir != "firmware" {
		t.Errorf("kernel dir = %q, want firmware", m.Kernel.Dir)
	}
	if m.Kernel.TimeoutSeconds != 15 {
		t.Errorf("timeout = %d, want 15", m.Kernel.TimeoutSeconds)
	}
	if m.Constraints.MaxByte == nil || *m.Constraints.MaxByte != 126 {
		t.Errorf("max-byte = %v, want 126", m.Constraints.MaxByte)
	}
	if len(m.Constraints.Forbidden) != 1 {
		t.Fatalf("forbidden count = %d, want 1", len(m.Constraints.Forbidden))
	}
	if f := m.Constraints.Forbidden[0]; f.Value != 13 || f.Reason != "carriage return" {
		t.Errorf("forbidden[0] = %+v, want 13/carriage return", f)
	}
	if m.Journal.Path != "outcomes.db" {
		t.Errorf("journal path = %q, want outcomes.db", m.Journal.Path)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "")

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Kernel.Bin != "gforth" {
		t.Errorf("default kernel bin = %q, want gforth", m.Kernel.Bin)
	}
	if m.Kernel.Dir != "kernel" {
		t.Errorf("default kernel dir = %q, want kernel", m.Kernel.Dir)
	}
	if m.Kernel.TimeoutSeconds != 60 {
		t.Errorf("default timeout = %d, want 60", m.Kernel.TimeoutSeconds)
	}
	if m.JournalPath() != "" {
		t.Errorf("journal path = %q, want empty when unconfigured", m.JournalPath())
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, dir, `
[kernel]
dir = "firmware"
`)

	// Should find the manifest when starting from a deep subdirectory.
	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Kernel.Dir != "firmware" {
		t.Errorf("kernel dir = %q, want firmware", m.Kernel.Dir)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no striker.toml exists")
	}
}

func TestAbsolutePaths(t *testing.T) {
	m := &Manifest{
		Dir:     "/app",
		Kernel:  Kernel{Dir: "kernel", TimeoutSeconds: 30},
		Journal: Journal{Path: "outcomes.db"},
	}

	if got := m.KernelDir(); got != "/app/kernel" {
		t.Errorf("KernelDir = %q, want /app/kernel", got)
	}
	if got := m.JournalPath(); got != "/app/outcomes.db" {
		t.Errorf("JournalPath = %q, want /app/outcomes.db", got)
	}
	if got := m.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", got)
	}

	// Already-absolute paths pass through unchanged.
	m.Kernel.Dir = "/srv/kernel"
	if got := m.KernelDir(); got != "/srv/kernel" {
		t.Errorf("KernelDir = %q, want /srv/kernel", got)
	}
}

func TestPolicyDefault(t *testing.T) {
	m := &Manifest{}

	p, err := m.Policy()
	if err != nil {
		t.Fatalf("Policy failed: %v", err)
	}
	// Stock policy: 7-bit range, NBSP and UTF-8 marker banned.
	if err := p.Validate([]byte{127}); err != nil {
		t.Errorf("127 should pass under stock policy: %v", err)
	}
	if err := p.Validate([]byte{160}); err == nil {
		t.Error("160 should fail under stock policy")
	}
}

func TestPolicyOverrides(t *testing.T) {
	maxByte := 200
	m := &Manifest{
		Constraints: Constraints{
			MaxByte:   &maxByte,
			Forbidden: []Forbidden{{Value: 13, Reason: "carriage return"}},
		},
	}

	p, err := m.Policy()
	if err != nil {
		t.Fatalf("Policy failed: %v", err)
	}
	if err := p.Validate([]byte{160}); err != nil {
		t.Errorf("160 should pass under max 200: %v", err)
	}
	if err := p.Validate([]byte{201}); err == nil {
		t.Error("201 should fail under max 200")
	}
	if err := p.Validate([]byte{13}); err == nil {
		t.Error("13 should be forbidden")
	}
}

func TestPolicyValidation(t *testing.T) {
	badMax := 300
	m := &Manifest{Constraints: Constraints{MaxByte: &badMax}}
	if _, err := m.Policy(); err == nil {
		t.Error("expected error for max-byte 300")
	}

	m = &Manifest{Constraints: Constraints{
		Forbidden: []Forbidden{{Value: 256, Reason: "too big"}},
	}}
	if _, err := m.Policy(); err == nil {
		t.Error("expected error for forbidden value 256")
	}

	m = &Manifest{Constraints: Constraints{
		Forbidden: []Forbidden{{Value: 13}},
	}}
	if _, err := m.Policy(); err == nil {
		t.Error("expected error for forbidden value without a reason")
	}
}
