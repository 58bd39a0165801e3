package doctor

import (
	"errors"
	"strings"
	"testing"

	"github.com/jorge-barreto/splice/internal/match"
	"github.com/jorge-barreto/splice/internal/patch"
)

const source = `package main

import "fmt"

func greet(name string) {
	fmt.Printf("hello, %s\n", name)
}

func main() {
	greet("world")
}
`

func TestNearest_FindsTypoedBlock(t *testing.T) {
	want := []string{"func greet(nam string) {", `	fmt.Printf("hello %s\n", name)`}
	h, ok := Nearest(source, want)
	if !ok {
		t.Fatal("expected a hint")
	}
	if h.Start != 5 || h.End != 6 {
		t.Fatalf("got lines %d-%d", h.Start, h.End)
	}
	if h.Ratio < 0.9 {
		t.Fatalf("ratio = %.2f", h.Ratio)
	}
	if !strings.Contains(h.Excerpt, "    5 | func greet(name string) {") {
		t.Fatalf("excerpt = %q", h.Excerpt)
	}
}

func TestNearest_NothingSimilar(t *testing.T) {
	if _, ok := Nearest(source, []string{"SELECT * FROM users WHERE id = 42;"}); ok {
		t.Fatal("expected no hint")
	}
}

func TestNearest_EmptyInputs(t *testing.T) {
	if _, ok := Nearest("", []string{"x"}); ok {
		t.Fatal("empty content should give no hint")
	}
	if _, ok := Nearest(source, nil); ok {
		t.Fatal("empty want should give no hint")
	}
}

func TestDiagnose_NoMatchError(t *testing.T) {
	err := &match.NoMatchError{Block: 0, Search: "	greet(\"wrld\")\n"}
	hint := Diagnose(source, err)
	if !strings.Contains(hint, "lines 10-10") {
		t.Fatalf("hint = %q", hint)
	}
}

func TestDiagnose_HunkError(t *testing.T) {
	err := &patch.HunkError{Hunk: 0, DeclaredStart: 1, Old: []string{"func mian() {", "	greet(\"world\")"}}
	hint := Diagnose(source, err)
	if !strings.Contains(hint, "lines 9-10") {
		t.Fatalf("hint = %q", hint)
	}
}

func TestDiagnose_OtherErrors(t *testing.T) {
	if hint := Diagnose(source, errors.New("boom")); hint != "" {
		t.Fatalf("hint = %q", hint)
	}
}
