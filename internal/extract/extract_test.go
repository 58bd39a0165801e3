package extract

import (
	"testing"
)

const response = "I'll fix the greeting.\n" +
	"\n" +
	"`cmd/hello/main.go`\n" +
	"```go\n" +
	"<<<<<<< SEARCH\n" +
	"\tfmt.Println(\"helo\")\n" +
	"=======\n" +
	"\tfmt.Println(\"hello\")\n" +
	">>>>>>> REPLACE\n" +
	"```\n" +
	"\n" +
	"And the docs:\n" +
	"\n" +
	"```diff\n" +
	"--- a/README.md\n" +
	"+++ b/README.md\n" +
	"@@ -1,1 +1,1 @@\n" +
	"-# helo\n" +
	"+# hello\n" +
	"```\n" +
	"\n" +
	"Run `go test ./...` afterwards.\n" +
	"\n" +
	"```sh\n" +
	"go test ./...\n" +
	"```\n"

func TestProposals(t *testing.T) {
	ps, err := Proposals([]byte(response))
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(ps))
	}

	if ps[0].Kind != KindBlocks || ps[0].Path != "cmd/hello/main.go" || ps[0].Lang != "go" {
		t.Fatalf("proposal 0 = %+v", ps[0])
	}
	if len(ps[0].Blocks) != 1 || ps[0].Blocks[0].Replace != "\tfmt.Println(\"hello\")\n" {
		t.Fatalf("blocks = %+v", ps[0].Blocks)
	}

	if ps[1].Kind != KindPatch || ps[1].Path != "README.md" {
		t.Fatalf("proposal 1 = %+v", ps[1])
	}
	if ps[1].Patch == nil || len(ps[1].Patch.Hunks) != 1 {
		t.Fatalf("patch = %+v", ps[1].Patch)
	}
}

func TestProposals_FileAttribute(t *testing.T) {
	resp := "```python file=app/util.py\n<<<<<<< SEARCH\nx = 1\n=======\nx = 2\n>>>>>>> REPLACE\n```\n"
	ps, err := Proposals([]byte(resp))
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 1 || ps[0].Path != "app/util.py" || ps[0].Lang != "python" {
		t.Fatalf("got %+v", ps)
	}
}

func TestProposals_SkipsPlainCode(t *testing.T) {
	ps, err := Proposals([]byte("```go\nfunc main() {}\n```\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 0 {
		t.Fatalf("got %+v", ps)
	}
}

func TestCodeBlocks_Hint(t *testing.T) {
	cbs, err := CodeBlocks([]byte("Edit `a.go` now:\n\n```\nbody\n```\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cbs) != 1 || cbs[0].Hint != "Edit `a.go` now:" || cbs[0].Content != "body\n" {
		t.Fatalf("got %+v", cbs)
	}
}

func TestPathFromHint_IgnoresCommands(t *testing.T) {
	if got := pathFromHint("Run `go test ./...` in `pkg/x.go`"); got != "pkg/x.go" {
		t.Fatalf("got %q", got)
	}
}

func TestSplitInfo(t *testing.T) {
	lang, attrs := splitInfo(`go file="x/y.go" title=demo`)
	if lang != "go" || attrs["file"] != "x/y.go" || attrs["title"] != "demo" {
		t.Fatalf("got %q %v", lang, attrs)
	}
}
