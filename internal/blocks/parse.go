package blocks

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/splice/internal/editerr"
)

// EditBlock is one search/replace pair extracted from a change payload.
type EditBlock struct {
	Search  string
	Replace string
	Ordinal int // 0-based position in the payload
}

// ParseError describes a malformed or unterminated block.
type ParseError struct {
	Block int    // ordinal of the block being parsed
	Line  int    // 1-based line where the problem was detected
	Near  string // nearest unparsed text
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("block %d: line %d: %s", e.Block, e.Line, e.Msg)
	}
	return fmt.Sprintf("block %d: line %d: %s (near %q)", e.Block, e.Line, e.Msg, e.Near)
}

func (e *ParseError) Is(target error) bool { return target == editerr.ErrParse }

type marker int

const (
	noMarker marker = iota
	searchMarker
	dividerMarker
	replaceMarker
)

// classify recognises the three marker lines. Seven or more marker characters
// are accepted so slightly mangled model output still parses.
func classify(line string) marker {
	t := strings.TrimSpace(line)
	switch {
	case markerRun(t, '<') && strings.TrimSpace(strings.TrimLeft(t, "<")) == "SEARCH":
		return searchMarker
	case markerRun(t, '=') && strings.TrimLeft(t, "=") == "":
		return dividerMarker
	case markerRun(t, '>') && strings.TrimSpace(strings.TrimLeft(t, ">")) == "REPLACE":
		return replaceMarker
	}
	return noMarker
}

func markerRun(s string, c byte) bool {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n >= 7
}

// Parse extracts SEARCH/REPLACE blocks from text. It recognizes:
//
//	<<<<<<< SEARCH
//	old lines
//	=======
//	new lines
//	>>>>>>> REPLACE
//
// Text outside blocks is ignored. Each non-empty section keeps a trailing
// newline per line. Returns blocks in order of appearance.
func Parse(text string) ([]EditBlock, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	var blocks []EditBlock
	var current *EditBlock
	var buf strings.Builder
	state := noMarker
	openedAt := 0

	for i, line := range lines {
		m := classify(line)
		switch state {
		case noMarker:
			switch m {
			case searchMarker:
				current = &EditBlock{Ordinal: len(blocks)}
				state = searchMarker
				openedAt = i + 1
				buf.Reset()
			case dividerMarker, replaceMarker:
				return nil, &ParseError{Block: len(blocks), Line: i + 1, Near: near(lines, i), Msg: "marker outside of a SEARCH block"}
			}

		case searchMarker:
			switch m {
			case dividerMarker:
				current.Search = buf.String()
				buf.Reset()
				state = dividerMarker
			case searchMarker, replaceMarker:
				return nil, &ParseError{Block: current.Ordinal, Line: i + 1, Near: near(lines, i), Msg: "missing ======= divider"}
			default:
				buf.WriteString(line)
				buf.WriteByte('\n')
			}

		case dividerMarker:
			switch m {
			case replaceMarker:
				current.Replace = buf.String()
				blocks = append(blocks, *current)
				current = nil
				buf.Reset()
				state = noMarker
			case searchMarker:
				return nil, &ParseError{Block: current.Ordinal, Line: i + 1, Near: near(lines, i), Msg: "missing >>>>>>> REPLACE marker"}
			default:
				// A second divider inside the replace section is content.
				buf.WriteString(line)
				buf.WriteByte('\n')
			}
		}
	}

	if current != nil {
		msg := "block left open: missing ======= divider"
		if state == dividerMarker {
			msg = "block left open: missing >>>>>>> REPLACE marker"
		}
		return nil, &ParseError{Block: current.Ordinal, Line: openedAt, Near: near(lines, openedAt), Msg: msg}
	}
	if len(blocks) == 0 {
		return nil, &ParseError{Line: 1, Near: near(lines, 0), Msg: "no edit blocks found"}
	}
	return blocks, nil
}

// near returns the first non-blank line at or after idx, shortened.
func near(lines []string, idx int) string {
	for i := idx; i < len(lines); i++ {
		if t := strings.TrimSpace(lines[i]); t != "" {
			return editerr.Preview(t, 1, 60)
		}
	}
	return ""
}
