package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }

func floatPtr(f float64) *float64 { return &f }

func TestValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.MinSize() != 1024 {
		t.Fatalf("min-size = %d", cfg.MinSize())
	}
	if cfg.ReductionThreshold() != 0.10 {
		t.Fatalf("threshold = %g", cfg.ReductionThreshold())
	}
	if cfg.ContextLines() != 3 {
		t.Fatalf("context = %d", cfg.ContextLines())
	}
	if !cfg.Fsync() {
		t.Fatal("fsync should default to true")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("log = %+v", cfg.Log)
	}
}

func TestValidate_NegativeMinSize(t *testing.T) {
	cfg := &Config{Guard: Guard{MinSize: int64Ptr(-1)}}
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "'min-size'") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_ThresholdRange(t *testing.T) {
	for _, v := range []float64{-0.1, 1, 2} {
		cfg := &Config{Guard: Guard{ReductionThreshold: floatPtr(v)}}
		if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "'reduction-threshold'") {
			t.Fatalf("threshold %g: got %v", v, err)
		}
	}
}

func TestValidate_ZeroGuardValuesKept(t *testing.T) {
	cfg := &Config{Guard: Guard{MinSize: int64Ptr(0), ReductionThreshold: floatPtr(0)}}
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.MinSize() != 0 || cfg.ReductionThreshold() != 0 {
		t.Fatalf("guard = %d/%g, want 0/0", cfg.MinSize(), cfg.ReductionThreshold())
	}
}

func TestLoad_ZeroGuardValuesKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "guard:\n  min-size: 0\n  reduction-threshold: 0\n"
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinSize() != 0 || cfg.ReductionThreshold() != 0 {
		t.Fatalf("guard = %d/%g, want 0/0", cfg.MinSize(), cfg.ReductionThreshold())
	}
}

func TestValidate_ZeroContextLinesKept(t *testing.T) {
	cfg := &Config{Preview: Preview{ContextLines: intPtr(0)}}
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.ContextLines() != 0 {
		t.Fatalf("context = %d", cfg.ContextLines())
	}
}

func TestValidate_NegativeContextLines(t *testing.T) {
	cfg := &Config{Preview: Preview{ContextLines: intPtr(-2)}}
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "'context-lines'") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_UnknownLogLevel(t *testing.T) {
	cfg := &Config{Log: Log{Level: "loud"}}
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "unknown level") {
		t.Fatalf("got %v", err)
	}
}

func TestValidate_UnknownLogFormat(t *testing.T) {
	cfg := &Config{Log: Log{Format: "xml"}}
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("got %v", err)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	yml := `guard:
  min-size: 2048
  reduction-threshold: 0.25
preview:
  context-lines: 5
write:
  fsync: false
log:
  level: DEBUG
journal:
  path: ""
metrics:
  textfile: .splice/metrics.prom
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinSize() != 2048 || cfg.ReductionThreshold() != 0.25 {
		t.Fatalf("guard = %d/%g", cfg.MinSize(), cfg.ReductionThreshold())
	}
	if cfg.ContextLines() != 5 || cfg.Fsync() {
		t.Fatalf("preview/write = %d/%v", cfg.ContextLines(), cfg.Fsync())
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("level = %q", cfg.Log.Level)
	}
	if cfg.JournalPath() != "" {
		t.Fatalf("journal should be disabled, got %q", cfg.JournalPath())
	}
	if cfg.Root != root {
		t.Fatalf("root = %q, want %q", cfg.Root, root)
	}
	if want := filepath.Join(root, ".splice", "metrics.prom"); cfg.MetricsPath() != want {
		t.Fatalf("metrics = %q", cfg.MetricsPath())
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("guard: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.HasPrefix(err.Error(), "config:") {
		t.Fatalf("got %v", err)
	}
}

func TestDiscover_WalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, Dir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, Dir, "config.yaml"), []byte("guard:\n  min-size: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinSize() != 10 {
		t.Fatalf("min-size = %d", cfg.MinSize())
	}
	if want := filepath.Join(root, ".splice", "journal.db"); cfg.JournalPath() != want {
		t.Fatalf("journal = %q, want %q", cfg.JournalPath(), want)
	}
}

func TestDiscover_NoProjectUsesDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinSize() != 1024 {
		t.Fatalf("min-size = %d", cfg.MinSize())
	}
	if cfg.Root != "" {
		t.Fatalf("root = %q", cfg.Root)
	}
	if cfg.JournalPath() != "" {
		t.Fatalf("journal should be off without a project, got %q", cfg.JournalPath())
	}
}
