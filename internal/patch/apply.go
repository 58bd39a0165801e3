package patch

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/splice/internal/editerr"
	"github.com/jorge-barreto/splice/internal/linebuf"
)

// Resolution reports where a hunk actually applied.
type Resolution struct {
	Hunk          int
	DeclaredStart int  // old start from the hunk header
	ResolvedStart int  // 1-based line in the buffer the hunk was applied to
	Offset        int  // ResolvedStart minus the hinted line
	Fuzzy         bool // located by whitespace-trimmed comparison
}

// HunkError reports a hunk whose old lines could not be located.
type HunkError struct {
	Hunk          int
	DeclaredStart int
	Old           []string
	Preview       string
}

func (e *HunkError) Error() string {
	return fmt.Sprintf("hunk %d (declared at line %d): context and removed lines not found: %q", e.Hunk, e.DeclaredStart, e.Preview)
}

func (e *HunkError) Is(target error) bool { return target == editerr.ErrNoMatch }

// Apply applies every hunk of p to content in ascending order and returns the
// resulting text. It is pure: dry runs and real applications share it, so
// both produce the same bytes for the same input. Any hunk that cannot be
// located fails the whole patch.
func Apply(content string, p *Patch) (string, []Resolution, error) {
	doc := linebuf.Split(content)
	wasEmpty := doc.Len() == 0
	buf := append([]string(nil), doc.Lines...)
	res := make([]Resolution, 0, len(p.Hunks))
	floor, delta := 0, 0

	for i := range p.Hunks {
		h := &p.Hunks[i]
		old := h.Old()

		var pos, hint int
		fuzzy := false
		switch {
		case h.Unnumbered:
			hint = min(floor, len(buf))
			if len(old) == 0 {
				pos = hint
				break
			}
			var ok bool
			if pos, fuzzy, ok = locate(buf, old, hint, floor); !ok {
				return "", nil, hunkError(i, h, old)
			}
		case len(old) == 0:
			// Pure insertion: the header names the line to insert after.
			hint = h.OldStart + delta
			pos = min(max(hint, floor), len(buf))
		default:
			hint = h.OldStart - 1 + delta
			var ok bool
			pos, fuzzy, ok = locate(buf, old, hint, floor)
			if !ok {
				return "", nil, hunkError(i, h, old)
			}
		}

		repl := replacement(buf[pos:pos+len(old)], h)
		next := make([]string, 0, len(buf)-len(old)+len(repl))
		next = append(next, buf[:pos]...)
		next = append(next, repl...)
		next = append(next, buf[pos+len(old):]...)
		buf = next

		if pos+len(repl) == len(buf) {
			switch {
			case h.NoEOLNew:
				doc.TrailingEOL = false
			case h.NoEOLOld, wasEmpty:
				doc.TrailingEOL = true
			}
		}

		res = append(res, Resolution{
			Hunk:          i,
			DeclaredStart: h.OldStart,
			ResolvedStart: pos + 1,
			Offset:        pos - hint,
			Fuzzy:         fuzzy,
		})
		floor = pos + len(repl)
		delta += len(repl) - len(old)
	}

	doc.Lines = buf
	return doc.Join(), res, nil
}

func hunkError(i int, h *Hunk, old []string) *HunkError {
	return &HunkError{
		Hunk:          i,
		DeclaredStart: h.OldStart,
		Old:           old,
		Preview:       editerr.Preview(strings.Join(old, "\n"), 3, 120),
	}
}

// replacement builds the new lines for a hunk matched against found. Context
// lines keep the file's own text so a fuzzy match does not rewrite them.
func replacement(found []string, h *Hunk) []string {
	out := make([]string, 0, len(h.Lines))
	k := 0
	for _, l := range h.Lines {
		switch l.Kind {
		case Context:
			out = append(out, found[k])
			k++
		case Removed:
			k++
		case Added:
			out = append(out, l.Text)
		}
	}
	return out
}

// locate finds old in buf: exact at the hint, first exact at or after floor,
// trimmed at the hint, first trimmed at or after floor.
func locate(buf, old []string, hint, floor int) (int, bool, bool) {
	for _, fuzzy := range []bool{false, true} {
		if hint >= floor && matchAt(buf, old, hint, fuzzy) {
			return hint, fuzzy, true
		}
		for i := floor; i+len(old) <= len(buf); i++ {
			if matchAt(buf, old, i, fuzzy) {
				return i, fuzzy, true
			}
		}
	}
	return 0, false, false
}

func matchAt(buf, old []string, at int, fuzzy bool) bool {
	if at < 0 || at+len(old) > len(buf) {
		return false
	}
	for j, want := range old {
		got := buf[at+j]
		if fuzzy {
			got, want = strings.TrimSpace(got), strings.TrimSpace(want)
		}
		if got != want {
			return false
		}
	}
	return true
}
