// Package lines edits file content by explicit 1-indexed line ranges.
package lines

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/splice/internal/editerr"
	"github.com/jorge-barreto/splice/internal/linebuf"
)

// Mode selects what a Command does to its range.
type Mode string

const (
	Replace Mode = "replace"
	Insert  Mode = "insert"
	Delete  Mode = "delete"
)

// ParseMode accepts the mode names used on the command line and in plans.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Replace, Insert, Delete:
		return m, nil
	}
	return "", editerr.Invalid("mode", fmt.Sprintf("%q (want replace, insert or delete)", s))
}

// Command is one line edit. End is ignored for Insert, which places Text
// before line Start; Start may be one past the last line to append.
type Command struct {
	Start int
	End   int
	Text  string
	Mode  Mode
}

// RangeError reports line bounds the file cannot satisfy.
type RangeError struct {
	Mode  Mode
	Start int
	End   int
	Count int // lines in the file
	Msg   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s lines %d-%d: %s (file has %d lines)", e.Mode, e.Start, e.End, e.Msg, e.Count)
}

func (e *RangeError) Is(target error) bool { return target == editerr.ErrRange }

// Validate checks cmd against a file of count lines.
func Validate(cmd Command, count int) error {
	rangeErr := func(msg string) error {
		return &RangeError{Mode: cmd.Mode, Start: cmd.Start, End: cmd.End, Count: count, Msg: msg}
	}
	switch cmd.Mode {
	case Insert:
		if cmd.Start < 1 {
			return rangeErr("start line must be at least 1")
		}
		if cmd.Start > count+1 {
			return rangeErr(fmt.Sprintf("insert position must be at most %d", count+1))
		}
		if cmd.Text == "" {
			return editerr.Invalid("text", "insert needs at least one line")
		}
	case Replace, Delete:
		if cmd.Start < 1 {
			return rangeErr("start line must be at least 1")
		}
		if cmd.End < cmd.Start {
			return rangeErr("end line is before start line")
		}
		if cmd.End > count {
			return rangeErr("end line is past the end of the file")
		}
	default:
		return editerr.Invalid("mode", fmt.Sprintf("%q (want replace, insert or delete)", cmd.Mode))
	}
	return nil
}

// Apply performs cmd on content. Line endings and the final-newline state
// of the file are preserved.
func Apply(content string, cmd Command) (string, error) {
	doc := linebuf.Split(content)
	if err := Validate(cmd, doc.Len()); err != nil {
		return "", err
	}
	if doc.Len() == 0 {
		doc.TrailingEOL = true
	}

	var lo, hi int // 0-based half-open range being removed
	var add []string
	switch cmd.Mode {
	case Insert:
		lo, hi = cmd.Start-1, cmd.Start-1
		add = linebuf.TextLines(cmd.Text)
	case Replace:
		lo, hi = cmd.Start-1, cmd.End
		add = linebuf.TextLines(cmd.Text)
	case Delete:
		lo, hi = cmd.Start-1, cmd.End
	}

	out := make([]string, 0, doc.Len()-(hi-lo)+len(add))
	out = append(out, doc.Lines[:lo]...)
	out = append(out, add...)
	out = append(out, doc.Lines[hi:]...)
	doc.Lines = out
	return doc.Join(), nil
}

// Affected returns the 1-based range of lines cmd produces in the edited
// file. For a delete the range is empty and starts where the lines were.
func Affected(cmd Command) (first, last int) {
	n := len(linebuf.TextLines(cmd.Text))
	if cmd.Mode == Delete {
		n = 0
	}
	return cmd.Start, cmd.Start + n - 1
}

// Preview applies cmd in memory and returns a numbered excerpt of the result:
// the edited region plus context lines on each side.
func Preview(content string, cmd Command, context int) (string, error) {
	out, err := Apply(content, cmd)
	if err != nil {
		return "", err
	}
	first, last := Affected(cmd)
	return Excerpt(out, first, last, context), nil
}

// Excerpt numbers lines first..last of content and marks them with '>',
// adding context unmarked lines around them. An empty range (last < first)
// shows only the context around the gap.
func Excerpt(content string, first, last, context int) string {
	if context < 0 {
		context = 0
	}
	doc := linebuf.Split(content)
	from := max(first-context, 1)
	to := min(max(last, first-1)+context, doc.Len())
	width := len(fmt.Sprint(to))

	var b strings.Builder
	for n := from; n <= to; n++ {
		mark := "|"
		if n >= first && n <= last {
			mark = ">"
		}
		fmt.Fprintf(&b, "%*d %s %s\n", width, n, mark, doc.Lines[n-1])
	}
	return b.String()
}
