// Package linebuf splits file content into lines and joins them back without
// losing the line-ending style or the final-newline state.
package linebuf

import "strings"

// Doc is file content held as lines without terminators.
type Doc struct {
	Lines       []string
	EOL         string // "\n" or "\r\n"
	TrailingEOL bool   // content ended with a line terminator
}

// Split parses content. The line ending is taken from the first terminator
// found; files without any default to "\n".
func Split(content string) Doc {
	d := Doc{EOL: "\n"}
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		d.EOL = "\r\n"
	}
	if content == "" {
		return d
	}
	if strings.HasSuffix(content, "\n") {
		d.TrailingEOL = true
		content = strings.TrimSuffix(content, "\n")
		content = strings.TrimSuffix(content, "\r")
	}
	d.Lines = strings.Split(content, "\n")
	if d.EOL == "\r\n" {
		for i, l := range d.Lines {
			d.Lines[i] = strings.TrimSuffix(l, "\r")
		}
	}
	return d
}

// Join renders the document back to text.
func (d Doc) Join() string {
	if len(d.Lines) == 0 {
		return ""
	}
	out := strings.Join(d.Lines, d.EOL)
	if d.TrailingEOL {
		out += d.EOL
	}
	return out
}

// Len returns the number of lines.
func (d Doc) Len() int { return len(d.Lines) }

// TextLines splits replacement text into lines, dropping one trailing
// newline. Empty text yields no lines.
func TextLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
