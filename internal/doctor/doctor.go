// Package doctor explains why an edit failed to match by pointing at the
// part of the file that looks most like what the edit expected.
package doctor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/jorge-barreto/splice/internal/linebuf"
	"github.com/jorge-barreto/splice/internal/match"
	"github.com/jorge-barreto/splice/internal/patch"
)

// maxScanLines bounds the number of window positions examined.
const maxScanLines = 5000

// minRatio is the similarity below which no suggestion is made.
const minRatio = 0.5

// Hint is the closest region of a file to some expected text.
type Hint struct {
	Start   int // 1-based, inclusive
	End     int
	Ratio   float64
	Excerpt string
}

func (h Hint) String() string {
	return fmt.Sprintf("closest match at lines %d-%d (similarity %.2f):\n%s", h.Start, h.End, h.Ratio, h.Excerpt)
}

// Diagnose returns a hint for a no-match failure from the matcher or the
// patch applier, or "" when err is some other failure or nothing in
// content is similar enough.
func Diagnose(content string, err error) string {
	var want []string
	var nm *match.NoMatchError
	var he *patch.HunkError
	switch {
	case errors.As(err, &nm):
		want = linebuf.TextLines(nm.Search)
	case errors.As(err, &he):
		want = he.Old
	default:
		return ""
	}
	h, ok := Nearest(content, want)
	if !ok {
		return ""
	}
	return h.String()
}

// Nearest slides a window the size of want over content and returns the
// window with the highest difflib similarity ratio.
func Nearest(content string, want []string) (Hint, bool) {
	doc := linebuf.Split(content)
	n := len(want)
	if n == 0 || doc.Len() == 0 {
		return Hint{}, false
	}
	if n > doc.Len() {
		n = doc.Len()
	}

	m := difflib.NewMatcher(nil, chars(strings.Join(want, "\n")))
	best, bestAt := 0.0, -1
	last := min(doc.Len()-n, maxScanLines)
	for i := 0; i <= last; i++ {
		m.SetSeq1(chars(strings.Join(doc.Lines[i:i+n], "\n")))
		// The cheap upper bounds skip most windows.
		if m.RealQuickRatio() <= best || m.QuickRatio() <= best {
			continue
		}
		if r := m.Ratio(); r > best {
			best, bestAt = r, i
		}
	}
	if bestAt < 0 || best < minRatio {
		return Hint{}, false
	}

	var b strings.Builder
	for k := bestAt; k < bestAt+n; k++ {
		fmt.Fprintf(&b, "%5d | %s\n", k+1, doc.Lines[k])
	}
	return Hint{Start: bestAt + 1, End: bestAt + n, Ratio: best, Excerpt: b.String()}, true
}

func chars(s string) []string {
	return strings.Split(s, "")
}
