package patch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge-barreto/splice/internal/editerr"
)

const tenLines = "one\ntwo\nthree\nfour\nfive\nsix\nseven\neight\nnine\nten\n"

func TestParse_Headers(t *testing.T) {
	diff := `diff --git a/main.go b/main.go
index 83db48f..bf269f4 100644
--- a/main.go
+++ b/main.go
@@ -2,3 +2,3 @@ func main() {
 two
-three
+THREE
 four
`
	p, err := Parse(diff)
	require.NoError(t, err)
	assert.Equal(t, "main.go", p.OldPath)
	assert.Equal(t, "main.go", p.NewPath)
	require.Len(t, p.Hunks, 1)
	h := p.Hunks[0]
	assert.Equal(t, 2, h.OldStart)
	assert.Equal(t, 3, h.OldLines)
	assert.Equal(t, "func main() {", h.Section)
	assert.Equal(t, []string{"two"}, h.ContextBefore)
	assert.Equal(t, []string{"three"}, h.Removed)
	assert.Equal(t, []string{"THREE"}, h.Added)
	assert.Equal(t, []string{"four"}, h.ContextAfter)
	assert.Equal(t, []string{"two", "three", "four"}, h.Old())
	assert.Equal(t, []string{"two", "THREE", "four"}, h.New())
}

func TestParse_OmittedCounts(t *testing.T) {
	p, err := Parse("@@ -1 +1 @@\n-a\n+b\n")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Hunks[0].OldLines)
	assert.Equal(t, 1, p.Hunks[0].NewLines)
}

func TestParse_BareEmptyLineIsContext(t *testing.T) {
	p, err := Parse("@@ -1,3 +1,3 @@\n a\n\n-b\n+c\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b"}, p.Hunks[0].Old())
}

func TestParse_TrailingBlankLinesDropped(t *testing.T) {
	p, err := Parse("@@ -1,2 +1,2 @@\n a\n-b\n+c\n\n\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Hunks[0].Old())
}

func TestParse_NoNewlineMarker(t *testing.T) {
	p, err := Parse("@@ -1 +1 @@\n-a\n\\ No newline at end of file\n+b\n")
	require.NoError(t, err)
	assert.True(t, p.Hunks[0].NoEOLOld)
	assert.False(t, p.Hunks[0].NoEOLNew)
}

func TestParse_DashedLinesInsideHunkAreNotFileHeaders(t *testing.T) {
	p, err := Parse("@@ -1,3 +1,3 @@\n a\n--- old comment\n+++ new thing\n c\n")
	require.NoError(t, err)
	require.Len(t, p.Hunks, 1)
	h := p.Hunks[0]
	assert.Equal(t, []string{"-- old comment"}, h.Removed)
	assert.Equal(t, []string{"++ new thing"}, h.Added)
	assert.Equal(t, []string{"a", "-- old comment", "c"}, h.Old())
	assert.Empty(t, p.OldPath)
}

func TestParse_BareHunkHeader(t *testing.T) {
	for _, header := range []string{"@@", "@@ @@", "@@ func main() {"} {
		t.Run(header, func(t *testing.T) {
			p, err := Parse(header + "\n a\n-b\n+B\n")
			require.NoError(t, err)
			h := p.Hunks[0]
			assert.True(t, h.Unnumbered)
			assert.Equal(t, 0, h.OldStart)
			assert.Equal(t, 2, h.OldLines)
			assert.Equal(t, 2, h.NewLines)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"no hunks":       "just words\n",
		"bad header":     "@@ -x +1 @@\n a\n",
		"bad hunk line":  "@@ -1 +1 @@\n a\n*b\n",
		"multiple files": "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n--- a/y\n+++ b/y\n@@ -1 +1 @@\n-c\n+d\n",
	}
	for name, diff := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(diff)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.True(t, errors.Is(err, editerr.ErrParse))
		})
	}
}

func TestApply_BareHunkLocatedByContent(t *testing.T) {
	p, err := Parse("@@\n-seven\n+SEVEN\n@@\n nine\n+nine and a half\n")
	require.NoError(t, err)
	out, res, err := Apply(tenLines, p)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\nfour\nfive\nsix\nSEVEN\neight\nnine\nnine and a half\nten\n", out)
	assert.Equal(t, 7, res[0].ResolvedStart)
	assert.Equal(t, 9, res[1].ResolvedStart)

	_, _, err = Apply("a\nb\n", p)
	assert.True(t, errors.Is(err, editerr.ErrNoMatch))
}

func TestApply_AtDeclaredPosition(t *testing.T) {
	p, err := Parse("@@ -2,3 +2,3 @@\n two\n-three\n+THREE\n four\n")
	require.NoError(t, err)
	out, res, err := Apply(tenLines, p)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nTHREE\nfour\nfive\nsix\nseven\neight\nnine\nten\n", out)
	assert.Equal(t, Resolution{Hunk: 0, DeclaredStart: 2, ResolvedStart: 2}, res[0])
}

func TestApply_ContentAddressed(t *testing.T) {
	// Declared at line 1 but the context sits at line 6.
	p, err := Parse("@@ -1,3 +1,3 @@\n six\n-seven\n+SEVEN\n eight\n")
	require.NoError(t, err)
	out, res, err := Apply(tenLines, p)
	require.NoError(t, err)
	assert.Contains(t, out, "six\nSEVEN\neight\n")
	assert.Equal(t, 6, res[0].ResolvedStart)
	assert.Equal(t, 5, res[0].Offset)
	assert.False(t, res[0].Fuzzy)
}

func TestApply_WhitespaceDrift(t *testing.T) {
	content := "func f() {\n\tx := 1\n\treturn x\n}\n"
	p, err := Parse("@@ -2,2 +2,2 @@\n   x := 1\n-  return x\n+\treturn x + 1\n")
	require.NoError(t, err)
	out, res, err := Apply(content, p)
	require.NoError(t, err)
	assert.Equal(t, "func f() {\n\tx := 1\n\treturn x + 1\n}\n", out)
	assert.True(t, res[0].Fuzzy)
}

func TestApply_MultipleHunksShiftDelta(t *testing.T) {
	diff := "@@ -1,2 +1,3 @@\n one\n+one-and-a-half\n two\n@@ -9,2 +10,1 @@\n nine\n-ten\n"
	p, err := Parse(diff)
	require.NoError(t, err)
	out, res, err := Apply(tenLines, p)
	require.NoError(t, err)
	assert.Equal(t, "one\none-and-a-half\ntwo\nthree\nfour\nfive\nsix\nseven\neight\nnine\n", out)
	assert.Equal(t, 10, res[1].ResolvedStart)
	assert.Equal(t, 0, res[1].Offset)
}

func TestApply_FailingHunkAbortsWholePatch(t *testing.T) {
	diff := "@@ -1,1 +1,1 @@\n-one\n+ONE\n@@ -5,1 +5,1 @@\n-missing\n+x\n"
	p, err := Parse(diff)
	require.NoError(t, err)
	out, res, err := Apply(tenLines, p)
	var he *HunkError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 1, he.Hunk)
	assert.Equal(t, 5, he.DeclaredStart)
	assert.Empty(t, out)
	assert.Nil(t, res)
	assert.Equal(t, editerr.KindNoMatch, editerr.KindOf(err))
}

func TestApply_HunkNeverMatchesBeforeFloor(t *testing.T) {
	content := "x\ny\nx\n"
	diff := "@@ -1,1 +1,1 @@\n-x\n+A\n@@ -1,1 +1,1 @@\n-x\n+B\n"
	p, err := Parse(diff)
	require.NoError(t, err)
	out, _, err := Apply(content, p)
	require.NoError(t, err)
	assert.Equal(t, "A\ny\nB\n", out)
}

func TestApply_PureInsertion(t *testing.T) {
	p, err := Parse("@@ -3,0 +4,2 @@\n+new1\n+new2\n")
	require.NoError(t, err)
	out, _, err := Apply("a\nb\nc\nd\n", p)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\nnew1\nnew2\nd\n", out)
}

func TestApply_NewFileFromEmpty(t *testing.T) {
	p, err := Parse("--- /dev/null\n+++ b/new.txt\n@@ -0,0 +1,2 @@\n+hello\n+world\n")
	require.NoError(t, err)
	out, _, err := Apply("", p)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", out)
}

func TestApply_NoNewlineAtEOF(t *testing.T) {
	p, err := Parse("@@ -1,2 +1,2 @@\n a\n-b\n+c\n\\ No newline at end of file\n")
	require.NoError(t, err)
	out, _, err := Apply("a\nb\n", p)
	require.NoError(t, err)
	assert.Equal(t, "a\nc", out)
}

func TestApply_PreservesCRLF(t *testing.T) {
	p, err := Parse("@@ -1,2 +1,2 @@\n a\n-b\n+B\n")
	require.NoError(t, err)
	out, _, err := Apply("a\r\nb\r\nc\r\n", p)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nB\r\nc\r\n", out)
}

func TestApply_RoundTripIsDeterministic(t *testing.T) {
	p, err := Parse("@@ -4,3 +4,4 @@\n four\n-five\n+FIVE\n+five-b\n six\n")
	require.NoError(t, err)
	dry, dryRes, err := Apply(tenLines, p)
	require.NoError(t, err)
	applied, appliedRes, err := Apply(tenLines, p)
	require.NoError(t, err)
	assert.Equal(t, dry, applied)
	assert.Equal(t, dryRes, appliedRes)
}
