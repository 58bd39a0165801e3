// Package patch parses unified diffs and applies them by content rather than
// by line number.
package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jorge-barreto/splice/internal/editerr"
)

// LineKind is the role of one line inside a hunk.
type LineKind int

const (
	Context LineKind = iota
	Removed
	Added
)

// Line is one hunk line with its prefix stripped.
type Line struct {
	Kind LineKind
	Text string

	bare bool // written as an empty line with no prefix
}

// Hunk is one change region. Lines keeps the interleaved order; the other
// slices are views derived from it.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Section            string

	Lines         []Line
	ContextBefore []string
	Removed       []string
	Added         []string
	ContextAfter  []string

	// NoEOLOld and NoEOLNew record a "\ No newline at end of file" marker
	// after the last old or new line.
	NoEOLOld bool
	NoEOLNew bool

	// Unnumbered is set for a bare "@@" header. The hunk is located purely
	// by content and its counts come from the body.
	Unnumbered bool
}

// Old returns the context and removed lines in order: the text that must be
// found in the file.
func (h *Hunk) Old() []string {
	var out []string
	for _, l := range h.Lines {
		if l.Kind != Added {
			out = append(out, l.Text)
		}
	}
	return out
}

// New returns the context and added lines in order: the text that replaces Old.
func (h *Hunk) New() []string {
	var out []string
	for _, l := range h.Lines {
		if l.Kind != Removed {
			out = append(out, l.Text)
		}
	}
	return out
}

// Patch is a parsed single-file unified diff.
type Patch struct {
	Source  string
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// ParseError reports malformed diff syntax.
type ParseError struct {
	Line int // 1-based
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("diff line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("diff line %d: %s: %q", e.Line, e.Msg, editerr.Preview(e.Text, 1, 80))
}

func (e *ParseError) Is(target error) bool { return target == editerr.ErrParse }

var (
	hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)
	bareHeader = regexp.MustCompile(`^@@(?: @@)?(?: ([^-].*))?$`)
)

// Parse reads a unified diff for one file. Declared hunk counts are kept as
// hints and never enforced.
func Parse(diff string) (*Patch, error) {
	p := &Patch{Source: diff}
	text := strings.ReplaceAll(diff, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")

	var cur *Hunk
	var oldSeen, newSeen int
	flush := func() {
		if cur != nil {
			cur.finish()
			p.Hunks = append(p.Hunks, *cur)
			cur = nil
		}
		oldSeen, newSeen = 0, 0
	}
	// headerAllowed reports whether a "---"/"+++" pair at line i starts a
	// file header rather than removing and adding lines of the open hunk.
	headerAllowed := func(i int) bool {
		switch {
		case cur == nil:
			return true
		case cur.Unnumbered:
			return i+2 < len(lines) && strings.HasPrefix(lines[i+2], "@@")
		default:
			return oldSeen >= cur.OldLines && newSeen >= cur.NewLines
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		isFileHeader := strings.HasPrefix(line, "--- ") && i+1 < len(lines) &&
			strings.HasPrefix(lines[i+1], "+++ ") && headerAllowed(i)

		switch {
		case strings.HasPrefix(line, "@@"):
			flush()
			h, err := parseHeader(line)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Text: line, Msg: err.Error()}
			}
			cur = h

		case isFileHeader:
			if cur != nil || len(p.Hunks) > 0 {
				return nil, &ParseError{Line: i + 1, Text: line, Msg: "diff touches more than one file; split it per file"}
			}
			p.OldPath = stripPrefix(strings.TrimPrefix(line, "--- "), "a/")
			p.NewPath = stripPrefix(strings.TrimPrefix(lines[i+1], "+++ "), "b/")
			i++

		case cur == nil:
			// Preamble: diff --git, index, mode lines, prose.
			if strings.HasPrefix(line, "diff --git ") && len(p.Hunks) > 0 {
				return nil, &ParseError{Line: i + 1, Text: line, Msg: "diff touches more than one file; split it per file"}
			}

		case line == "":
			cur.Lines = append(cur.Lines, Line{Kind: Context, bare: true})
			oldSeen++
			newSeen++
		case line[0] == ' ':
			cur.Lines = append(cur.Lines, Line{Kind: Context, Text: line[1:]})
			oldSeen++
			newSeen++
		case line[0] == '-':
			cur.Lines = append(cur.Lines, Line{Kind: Removed, Text: line[1:]})
			oldSeen++
		case line[0] == '+':
			cur.Lines = append(cur.Lines, Line{Kind: Added, Text: line[1:]})
			newSeen++
		case line[0] == '\\':
			if len(cur.Lines) == 0 {
				return nil, &ParseError{Line: i + 1, Text: line, Msg: "end-of-file marker before any hunk line"}
			}
			switch cur.Lines[len(cur.Lines)-1].Kind {
			case Removed:
				cur.NoEOLOld = true
			case Added:
				cur.NoEOLNew = true
			default:
				cur.NoEOLOld, cur.NoEOLNew = true, true
			}
		case strings.HasPrefix(line, "diff --git "):
			return nil, &ParseError{Line: i + 1, Text: line, Msg: "diff touches more than one file; split it per file"}
		default:
			return nil, &ParseError{Line: i + 1, Text: line, Msg: "unrecognised line inside hunk (expected ' ', '-' or '+' prefix)"}
		}
	}
	flush()

	if len(p.Hunks) == 0 {
		return nil, &ParseError{Line: 1, Msg: "no hunks found"}
	}
	return p, nil
}

// parseHeader reads "@@ -a,b +c,d @@ section". A bare "@@" (optionally
// "@@ @@" or followed by a section) yields an Unnumbered hunk.
func parseHeader(line string) (*Hunk, error) {
	line = strings.TrimRight(line, " \t")
	if m := bareHeader.FindStringSubmatch(line); m != nil {
		return &Hunk{Unnumbered: true, Section: m[1]}, nil
	}
	m := hunkHeader.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("malformed hunk header (want @@ -start,len +start,len @@)")
	}
	h := &Hunk{Section: m[5]}
	h.OldStart, _ = strconv.Atoi(m[1])
	h.OldLines = count(m[2])
	h.NewStart, _ = strconv.Atoi(m[3])
	h.NewLines = count(m[4])
	return h, nil
}

// count parses an optional hunk length, which defaults to 1.
func count(s string) int {
	if s == "" {
		return 1
	}
	n, _ := strconv.Atoi(s)
	return n
}

func stripPrefix(path, prefix string) string {
	if i := strings.IndexByte(path, '\t'); i >= 0 {
		path = path[:i]
	}
	return strings.TrimPrefix(strings.TrimSpace(path), prefix)
}

// finish drops blank lines trailing past the declared old length and fills
// the derived views.
func (h *Hunk) finish() {
	defer func() {
		if h.Unnumbered {
			h.OldLines, h.NewLines = len(h.Old()), len(h.New())
		}
	}()
	old := 0
	for _, l := range h.Lines {
		if l.Kind != Added {
			old++
		}
	}
	for len(h.Lines) > 0 && old > h.OldLines {
		last := h.Lines[len(h.Lines)-1]
		if !last.bare {
			break
		}
		h.Lines = h.Lines[:len(h.Lines)-1]
		old--
	}

	first, lastChange := -1, -1
	for i, l := range h.Lines {
		switch l.Kind {
		case Removed:
			h.Removed = append(h.Removed, l.Text)
		case Added:
			h.Added = append(h.Added, l.Text)
		}
		if l.Kind != Context {
			if first < 0 {
				first = i
			}
			lastChange = i
		}
	}
	if first < 0 {
		first, lastChange = len(h.Lines), len(h.Lines)-1
	}
	for _, l := range h.Lines[:first] {
		h.ContextBefore = append(h.ContextBefore, l.Text)
	}
	for _, l := range h.Lines[lastChange+1:] {
		h.ContextAfter = append(h.ContextAfter, l.Text)
	}
}
