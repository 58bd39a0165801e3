// Package editerr defines the failure kinds shared by every edit operation.
//
// Component packages return their own structured error types; each of those
// reports its kind through an Is method so callers can classify any failure
// with errors.Is or KindOf without knowing the concrete type.
package editerr

import (
	"errors"
	"unicode/utf8"
)

// Sentinel kinds.
var (
	ErrParse      = errors.New("parse error")
	ErrNoMatch    = errors.New("no match found")
	ErrRange      = errors.New("range error")
	ErrSizeGuard  = errors.New("size guard triggered")
	ErrIO         = errors.New("io error")
	ErrValidation = errors.New("validation error")
)

// Kind is the short, stable name of a failure class.
type Kind string

const (
	KindParse      Kind = "parse"
	KindNoMatch    Kind = "no_match"
	KindRange      Kind = "range"
	KindSizeGuard  Kind = "size_guard"
	KindIO         Kind = "io"
	KindValidation Kind = "validation"
	KindUnknown    Kind = "unknown"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrParse, KindParse},
	{ErrNoMatch, KindNoMatch},
	{ErrRange, KindRange},
	{ErrSizeGuard, KindSizeGuard},
	{ErrValidation, KindValidation},
	{ErrIO, KindIO},
}

// KindOf classifies err. A nil error has an empty kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// ValidationError reports empty or otherwise unusable input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Msg
	}
	return "invalid " + e.Field + ": " + e.Msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for a *ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// Preview shortens text for inclusion in an error message: at most maxLines
// lines and maxLen bytes, with an ellipsis when anything was dropped.
func Preview(text string, maxLines, maxLen int) string {
	truncated := false
	lines := 0
	end := len(text)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines++
			if lines == maxLines {
				end = i
				truncated = i < len(text)-1
				break
			}
		}
	}
	if end > maxLen {
		end = maxLen
		for end > 0 && !utf8.RuneStart(text[end]) {
			end--
		}
		truncated = true
	}
	out := text[:end]
	if truncated {
		out += "..."
	}
	return out
}
