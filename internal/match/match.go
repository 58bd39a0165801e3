// Package match resolves search/replace blocks against file content in a
// single forward pass.
//
// Every block is located in the original content at or after the end of the
// previous block's match. The first occurrence wins and nothing before the
// cursor is ever considered, so two identical blocks resolve to two distinct
// occurrences in order. Replacement text is spliced in verbatim.
package match

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/splice/internal/blocks"
	"github.com/jorge-barreto/splice/internal/editerr"
)

// Tier records which strategy located a block.
type Tier int

const (
	Exact Tier = iota + 1
	Trimmed
)

func (t Tier) String() string {
	switch t {
	case Exact:
		return "exact"
	case Trimmed:
		return "trimmed"
	}
	return "unknown"
}

// Span is the resolved location of one block in the original content.
type Span struct {
	Block int
	Start int // byte offset, inclusive
	End   int // byte offset, exclusive
	Tier  Tier
}

// NoMatchError reports a block whose search text could not be located.
type NoMatchError struct {
	Block   int
	Cursor  int
	Search  string
	Preview string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("block %d: search text not found at or after byte %d: %q", e.Block, e.Cursor, e.Preview)
}

func (e *NoMatchError) Is(target error) bool { return target == editerr.ErrNoMatch }

// Apply resolves every block against original and returns the rewritten
// content. Any unresolved block fails the whole request and no content is
// returned.
func Apply(original string, bs []blocks.EditBlock) (string, []Span, error) {
	if len(bs) == 0 {
		return "", nil, editerr.Invalid("blocks", "no edit blocks given")
	}
	var out strings.Builder
	out.Grow(len(original))
	spans := make([]Span, 0, len(bs))
	cursor := 0

	for i, b := range bs {
		if b.Search == "" {
			return "", nil, editerr.Invalid(fmt.Sprintf("block %d search", i), "search text is empty")
		}
		span, ok := Find(original, cursor, b.Search)
		if !ok {
			return "", nil, &NoMatchError{
				Block:   i,
				Cursor:  cursor,
				Search:  b.Search,
				Preview: editerr.Preview(b.Search, 3, 120),
			}
		}
		span.Block = i
		out.WriteString(original[cursor:span.Start])
		out.WriteString(b.Replace)
		cursor = span.End
		spans = append(spans, span)
	}
	out.WriteString(original[cursor:])
	return out.String(), spans, nil
}

// Find locates search in content at or after cursor, trying an exact match
// first and a line-trimmed match second.
func Find(content string, cursor int, search string) (Span, bool) {
	if i := strings.Index(content[cursor:], search); i >= 0 {
		start := cursor + i
		return Span{Start: start, End: start + len(search), Tier: Exact}, true
	}
	start, end, ok := findTrimmed(content, cursor, search)
	if !ok {
		return Span{}, false
	}
	return Span{Start: start, End: end, Tier: Trimmed}, true
}

// lineSpan is one line of content: text is content[start:end], and next is
// the offset just past its terminator.
type lineSpan struct {
	start, end, next int
}

func splitSpans(content string, from int) []lineSpan {
	var spans []lineSpan
	pos := from
	for pos < len(content) {
		nl := strings.IndexByte(content[pos:], '\n')
		if nl < 0 {
			spans = append(spans, lineSpan{pos, len(content), len(content)})
			break
		}
		spans = append(spans, lineSpan{pos, pos + nl, pos + nl + 1})
		pos += nl + 1
	}
	return spans
}

// findTrimmed finds the first run of content lines at or after cursor whose
// whitespace-trimmed text equals the trimmed search lines. The match ends
// after the last line's terminator only when search itself ended with one.
func findTrimmed(content string, cursor int, search string) (int, int, bool) {
	body := strings.TrimSuffix(search, "\n")
	wantEOL := len(body) != len(search)
	want := strings.Split(body, "\n")
	for i := range want {
		want[i] = strings.TrimSpace(want[i])
	}

	spans := splitSpans(content, cursor)
	for i := 0; i+len(want) <= len(spans); i++ {
		ok := true
		for j, w := range want {
			s := spans[i+j]
			if strings.TrimSpace(content[s.start:s.end]) != w {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		last := spans[i+len(want)-1]
		end := last.end
		if wantEOL {
			end = last.next
		}
		return spans[i].start, end, true
	}
	return 0, 0, false
}
