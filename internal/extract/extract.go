// Package extract finds edit proposals in a model's markdown response.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jorge-barreto/splice/internal/blocks"
	"github.com/jorge-barreto/splice/internal/patch"
)

// Kind is the payload type of a proposal.
type Kind string

const (
	KindBlocks Kind = "blocks"
	KindPatch  Kind = "patch"
)

// Proposal is one fenced code block that carries an edit.
type Proposal struct {
	Kind    Kind
	Path    string // "" when the response never names the file
	Lang    string
	Payload string
	Blocks  []blocks.EditBlock // parsed payload for KindBlocks
	Patch   *patch.Patch       // parsed payload for KindPatch
}

// CodeBlock is a fenced code block with the paragraph just before it.
type CodeBlock struct {
	Hint    string
	Info    string
	Content string
}

var pathInHint = regexp.MustCompile("`([^`\n]+)`")

// CodeBlocks walks the markdown AST and returns every fenced code block.
func CodeBlocks(source []byte) ([]CodeBlock, error) {
	var out []CodeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var cb CodeBlock
		if fenced.Info != nil {
			cb.Info = strings.TrimSpace(string(fenced.Info.Segment.Value(source)))
		}
		cb.Content = linesText(fenced.Lines(), source)
		if p, ok := fenced.PreviousSibling().(*ast.Paragraph); ok {
			cb.Hint = strings.TrimSpace(linesText(p.Lines(), source))
		}
		out = append(out, cb)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return out, nil
}

func linesText(lines *text.Segments, source []byte) string {
	var b bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// Proposals returns the edit-carrying code blocks of a response in order.
// Code blocks that are neither SEARCH/REPLACE blocks nor diffs are skipped,
// as are diffs and block sets that fail to parse.
func Proposals(response []byte) ([]Proposal, error) {
	cbs, err := CodeBlocks(response)
	if err != nil {
		return nil, err
	}
	var out []Proposal
	for _, cb := range cbs {
		lang, attrs := splitInfo(cb.Info)
		p := Proposal{Lang: lang, Payload: cb.Content, Path: attrs["file"]}
		if p.Path == "" {
			p.Path = pathFromHint(cb.Hint)
		}

		if isDiff(lang, cb.Content) {
			pt, err := patch.Parse(cb.Content)
			if err != nil {
				continue
			}
			p.Kind, p.Patch = KindPatch, pt
			if p.Path == "" {
				p.Path = diffPath(pt)
			}
		} else {
			bs, err := blocks.Parse(cb.Content)
			if err != nil {
				continue
			}
			p.Kind, p.Blocks = KindBlocks, bs
		}
		out = append(out, p)
	}
	return out, nil
}

// splitInfo separates the language from key=value attributes in a fence
// info string such as "go file=internal/x.go".
func splitInfo(info string) (string, map[string]string) {
	attrs := map[string]string{}
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", attrs
	}
	lang := fields[0]
	if k, v, ok := strings.Cut(lang, "="); ok {
		attrs[k] = v
		lang = ""
	}
	for _, f := range fields[1:] {
		if k, v, ok := strings.Cut(f, "="); ok {
			attrs[k] = strings.Trim(v, `"'`)
		}
	}
	return lang, attrs
}

// pathFromHint reads a backticked path from the paragraph before a block.
// Backticked text containing spaces is a command, not a path.
func pathFromHint(hint string) string {
	for _, m := range pathInHint.FindAllStringSubmatch(hint, -1) {
		p := strings.TrimSpace(m[1])
		if p != "" && !strings.Contains(p, " ") {
			return p
		}
	}
	return ""
}

func isDiff(lang, content string) bool {
	switch lang {
	case "diff", "patch", "udiff":
		return true
	}
	c := strings.TrimLeft(content, "\n")
	return strings.HasPrefix(c, "--- ") || strings.HasPrefix(c, "diff --git ") || strings.HasPrefix(c, "@@ ")
}

func diffPath(p *patch.Patch) string {
	if p.NewPath != "" && p.NewPath != "/dev/null" {
		return p.NewPath
	}
	if p.OldPath != "/dev/null" {
		return p.OldPath
	}
	return ""
}
