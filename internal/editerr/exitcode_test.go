package editerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode_Nil(t *testing.T) {
	if code := ExitCode(nil); code != ExitOK {
		t.Fatalf("code=%d", code)
	}
}

func TestExitCode_OtherError(t *testing.T) {
	if code := ExitCode(errors.New("some error")); code != ExitUnknown {
		t.Fatalf("code=%d", code)
	}
}

func TestExitCode_Wrapped(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrParse, ExitParse},
		{ErrNoMatch, ExitNoMatch},
		{ErrRange, ExitRange},
		{ErrSizeGuard, ExitSizeGuard},
		{ErrIO, ExitIO},
		{Invalid("file", "empty"), ExitValidation},
	}
	for _, tc := range cases {
		err := fmt.Errorf("operation 2 failed: %w", tc.err)
		if got := ExitCode(err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
