package ux

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/jorge-barreto/splice/internal/engine"
)

// Printer writes user-facing output to one writer.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Stdout returns a Printer on the process's standard output. color.Output
// handles Windows consoles.
func Stdout() *Printer {
	return New(color.Output)
}

// Discard returns a Printer that drops everything.
func Discard() *Printer {
	return New(io.Discard)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// OpHeader prints a timestamped header for operation index of total.
func (p *Printer) OpHeader(index, total int, kind engine.Kind, file string) {
	rule := cyan("══════════════════════════════════════")
	fmt.Fprintf(p.w, "\n%s %s\n", dim("["+timestamp()+"]"), rule)
	fmt.Fprintf(p.w, "%s  %s\n", dim("["+timestamp()+"]"), bold(fmt.Sprintf("Operation %d/%d: %s %s", index+1, total, kind, file)))
	fmt.Fprintf(p.w, "%s %s\n", dim("["+timestamp()+"]"), rule)
}

// OpComplete prints an operation completion message.
func (p *Printer) OpComplete(index int, res *engine.Result, duration time.Duration) {
	fmt.Fprintf(p.w, "%s  %s\n", dim("["+timestamp()+"]"),
		green(fmt.Sprintf("✓ Operation %d complete: %s (%dms)", index+1, Summary(res), duration.Milliseconds())))
}

// OpFail prints an operation failure with its retry detail.
func (p *Printer) OpFail(index int, kind engine.Kind, err error) {
	fmt.Fprintf(p.w, "%s  %s\n", dim("["+timestamp()+"]"),
		red(fmt.Sprintf("✗ Operation %d (%s) failed: %v", index+1, kind, err)))
	p.FailureDetail(engine.Describe(err))
}

// FailureDetail prints the preview and hint of a failure, if any.
func (p *Printer) FailureDetail(f engine.Failure) {
	if f.Preview != "" {
		fmt.Fprintf(p.w, "  %s %s\n", dim("near:"), f.Preview)
	}
	if f.Hint != "" {
		fmt.Fprintf(p.w, "  %s %s\n", yellow("hint:"), indent(f.Hint, "  "))
	}
}

// Summary describes a result in one line.
func Summary(res *engine.Result) string {
	var what string
	switch res.Kind {
	case engine.KindBlockEdit:
		what = fmt.Sprintf("%d block(s)", res.BlocksApplied)
	case engine.KindPatchApply:
		what = fmt.Sprintf("%d hunk(s)", len(res.Hunks))
	case engine.KindLineEdit:
		what = "line edit"
	case engine.KindGuardedOverwrite:
		what = "overwrite"
	case engine.KindUndo:
		what = "undo"
	}
	state := "applied"
	switch {
	case !res.Applied:
		state = "not written"
	case res.Unchanged:
		state = "unchanged"
	}
	return fmt.Sprintf("%s %s to %s, %d → %d bytes [%s]", what, state, res.File, res.OldSize, res.NewSize, shortID(res.ID))
}

// Result prints a summary line, any relocated hunks and the excerpt.
func (p *Printer) Result(res *engine.Result) {
	fmt.Fprintf(p.w, "%s %s\n", green("✓"), Summary(res))
	for _, h := range res.Hunks {
		if h.Offset == 0 && !h.Fuzzy {
			continue
		}
		note := fmt.Sprintf("  hunk %d: declared line %d, applied at line %d", h.Hunk+1, h.DeclaredStart, h.ResolvedStart)
		if h.Fuzzy {
			note += " (whitespace-insensitive)"
		}
		fmt.Fprintln(p.w, yellow(note))
	}
	if res.Excerpt != "" {
		fmt.Fprintln(p.w)
		p.Excerpt(res.Excerpt)
	}
}

// Excerpt prints a numbered excerpt, highlighting edited lines.
func (p *Printer) Excerpt(s string) {
	for _, line := range strings.SplitAfter(s, "\n") {
		if line == "" {
			continue
		}
		if strings.Contains(line, " > ") {
			fmt.Fprint(p.w, green(line))
		} else {
			fmt.Fprint(p.w, line)
		}
	}
}

// Diff prints a unified diff with colored lines.
func (p *Printer) Diff(diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(p.w, bold(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(p.w, cyan(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(p.w, green(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(p.w, red(line))
		default:
			fmt.Fprint(p.w, line)
		}
	}
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", yellow("⚠"), fmt.Sprintf(format, args...))
}

// Success prints a final success message.
func (p *Printer) Success(total int) {
	fmt.Fprintf(p.w, "\n%s  %s\n\n", dim("["+timestamp()+"]"), bold(green(fmt.Sprintf("══ All %d operations complete ══", total))))
}

// UndoHint prints the command that reverts an edit.
func (p *Printer) UndoHint(id string) {
	if id == "" {
		return
	}
	fmt.Fprintf(p.w, "%s splice undo %s\n", yellow("Undo:"), id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+prefix)
}

// Heading formats a bold success line.
func Heading(s string) string { return bold(green(s)) }

// Path highlights a file path or command.
func Path(s string) string { return cyan(s) }

// Error prints a top-level failure with its retry detail.
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.w, "%s %v\n", red("error:"), err)
	p.FailureDetail(engine.Describe(err))
}
