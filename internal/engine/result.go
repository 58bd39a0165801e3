package engine

import (
	"errors"
	"fmt"

	"github.com/jorge-barreto/splice/internal/blocks"
	"github.com/jorge-barreto/splice/internal/editerr"
	"github.com/jorge-barreto/splice/internal/guard"
	"github.com/jorge-barreto/splice/internal/lines"
	"github.com/jorge-barreto/splice/internal/match"
	"github.com/jorge-barreto/splice/internal/patch"
)

// Result is the outcome of a successful operation.
type Result struct {
	ID   string
	Kind Kind
	File string

	// Applied is true once the new content is durable on disk. It is false
	// for dry runs and previews.
	Applied bool
	// Unchanged is true when the new content equals the old and no write
	// was needed.
	Unchanged bool

	BlocksApplied int
	Spans         []match.Span
	Hunks         []patch.Resolution
	Content       string
	Excerpt       string
	Guard         *guard.Decision
	Diff          string

	OldSize int64
	NewSize int64
}

// IOError wraps a filesystem failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == editerr.ErrIO }

// HintedError carries a suggestion alongside a no-match failure.
type HintedError struct {
	Err  error
	Hint string
}

func (e *HintedError) Error() string { return e.Err.Error() }

func (e *HintedError) Unwrap() error { return e.Err }

// Failure is the structured detail an orchestrator needs to retry.
type Failure struct {
	Kind     editerr.Kind `json:"kind"`
	Message  string       `json:"message"`
	Index    int          `json:"index"` // failing block or hunk, -1 if none
	Line     int          `json:"line,omitempty"`
	Declared int          `json:"declared,omitempty"` // declared hunk start
	Preview  string       `json:"preview,omitempty"`
	Hint     string       `json:"hint,omitempty"`
	OldSize  int64        `json:"old_size,omitempty"`
	NewSize  int64        `json:"new_size,omitempty"`
}

// Describe flattens any error returned by Apply into a Failure.
func Describe(err error) Failure {
	f := Failure{Kind: editerr.KindOf(err), Index: -1}
	if err == nil {
		return f
	}
	f.Message = err.Error()

	var (
		hinted *HintedError
		bpe    *blocks.ParseError
		nm     *match.NoMatchError
		ppe    *patch.ParseError
		he     *patch.HunkError
		re     *lines.RangeError
		sg     *guard.SizeGuardError
	)
	if errors.As(err, &hinted) {
		f.Hint = hinted.Hint
	}
	switch {
	case errors.As(err, &bpe):
		f.Index, f.Line, f.Preview = bpe.Block, bpe.Line, bpe.Near
	case errors.As(err, &nm):
		f.Index, f.Preview = nm.Block, nm.Preview
	case errors.As(err, &ppe):
		f.Line, f.Preview = ppe.Line, ppe.Text
	case errors.As(err, &he):
		f.Index, f.Declared, f.Preview = he.Hunk, he.DeclaredStart, he.Preview
	case errors.As(err, &re):
		f.Line = re.Start
	case errors.As(err, &sg):
		f.OldSize, f.NewSize = sg.OldSize, sg.NewSize
	}
	return f
}
