package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	r := NewPrometheusRecorder()
	r.ObserveOperation("block_edit", "ok", 20*time.Millisecond)
	r.ObserveOperation("block_edit", "no_match", time.Millisecond)
	r.IncMatchTier("exact")
	r.IncMatchTier("trimmed")
	r.IncGuardDecision("rejected")

	path := filepath.Join(t.TempDir(), "splice.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`splice_operations_total{kind="block_edit",status="ok"} 1`,
		`splice_operations_total{kind="block_edit",status="no_match"} 1`,
		`splice_match_tier_total{tier="trimmed"} 1`,
		`splice_guard_decisions_total{decision="rejected"} 1`,
		`splice_operation_duration_seconds_count{kind="block_edit"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrometheusRecorder_SeparateRegistries(t *testing.T) {
	// Registering twice on the default registry would panic.
	a := NewPrometheusRecorder()
	b := NewPrometheusRecorder()
	if a.Registry() == b.Registry() {
		t.Fatal("recorders should not share a registry")
	}
}

func TestNop(t *testing.T) {
	r := Nop()
	r.ObserveOperation("x", "ok", time.Second)
	r.IncMatchTier("exact")
	r.IncGuardDecision("allowed")
}
