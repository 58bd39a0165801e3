package editerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_Sentinels(t *testing.T) {
	cases := map[error]Kind{
		ErrParse:      KindParse,
		ErrNoMatch:    KindNoMatch,
		ErrRange:      KindRange,
		ErrSizeGuard:  KindSizeGuard,
		ErrIO:         KindIO,
		ErrValidation: KindValidation,
	}
	for err, want := range cases {
		if got := KindOf(fmt.Errorf("wrapped: %w", err)); got != want {
			t.Fatalf("KindOf(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestKindOf_NilAndUnknown(t *testing.T) {
	if got := KindOf(nil); got != "" {
		t.Fatalf("KindOf(nil) = %q", got)
	}
	if got := KindOf(errors.New("boom")); got != KindUnknown {
		t.Fatalf("got %q", got)
	}
}

func TestValidationError(t *testing.T) {
	err := Invalid("search", "must not be empty")
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected ErrValidation")
	}
	if err.Error() != "invalid search: must not be empty" {
		t.Fatalf("got %q", err.Error())
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("a\nb\n", 3, 100); got != "a\nb\n" {
		t.Fatalf("got %q", got)
	}
	if got := Preview("a\nb\nc\nd", 3, 100); got != "a\nb\nc..." {
		t.Fatalf("got %q", got)
	}
	if got := Preview("abcdefgh", 3, 4); got != "abcd..." {
		t.Fatalf("got %q", got)
	}
	if got := Preview("héllo", 3, 2); got != "h..." {
		t.Fatalf("got %q", got)
	}
}
