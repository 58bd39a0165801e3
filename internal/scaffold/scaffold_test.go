package scaffold

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorge-barreto/splice/internal/config"
	"github.com/jorge-barreto/splice/internal/runner"
)

func TestInit_CreatesDirectoryStructure(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, io.Discard); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, path := range []string{
		".splice",
		filepath.Join(".splice", "plans"),
		filepath.Join(".splice", "config.yaml"),
		filepath.Join(".splice", ".gitignore"),
		filepath.Join(".splice", "plans", "example.yaml"),
		filepath.Join(".splice", "prompt.md"),
	} {
		full := filepath.Join(dir, path)
		info, err := os.Stat(full)
		if err != nil {
			t.Fatalf("%s not created: %v", path, err)
		}
		if !info.IsDir() && info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestInit_GeneratedConfigIsValid(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, io.Discard); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cfg, err := config.Discover(dir)
	if err != nil {
		t.Fatalf("config.Discover failed on generated config: %v", err)
	}
	if cfg.MinSize() != config.DefaultMinSize {
		t.Errorf("min-size = %d, want %d", cfg.MinSize(), config.DefaultMinSize)
	}
	if cfg.ReductionThreshold() != config.DefaultReductionThreshold {
		t.Errorf("threshold = %v, want %v", cfg.ReductionThreshold(), config.DefaultReductionThreshold)
	}
	want := filepath.Join(cfg.Root, ".splice", "journal.db")
	if got := cfg.JournalPath(); got != want {
		t.Errorf("journal path = %q, want %q", got, want)
	}
	if cfg.MetricsPath() != "" {
		t.Errorf("metrics should be disabled, got %q", cfg.MetricsPath())
	}
}

func TestInit_ExamplePlanLoads(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, io.Discard); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	p, err := runner.LoadPlan(filepath.Join(dir, ".splice", "plans", "example.yaml"))
	if err != nil {
		t.Fatalf("example plan invalid: %v", err)
	}
	if len(p.Operations) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(p.Operations))
	}
}

func TestInit_ReportsCreatedFiles(t *testing.T) {
	var buf strings.Builder
	if err := Init(t.TempDir(), &buf); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	for _, want := range []string{"Initialized .splice/", ".splice/config.yaml", ".splice/prompt.md"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestInit_FailsIfDirExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".splice"), 0755); err != nil {
		t.Fatal(err)
	}

	err := Init(dir, io.Discard)
	if err == nil {
		t.Fatal("expected error when .splice already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected error containing 'already exists', got: %s", err)
	}
}

func TestInstructions_EmbedsReference(t *testing.T) {
	s := Instructions()
	for _, want := range []string{"<<<<<<< SEARCH", ">>>>>>> REPLACE", "@@ -"} {
		if !strings.Contains(s, want) {
			t.Errorf("instructions missing %q", want)
		}
	}
}
