package scaffold

import "github.com/jorge-barreto/splice/internal/docs"

// Instructions builds the text a model needs to emit edits splice can
// apply. It embeds the blocks and patches reference topics.
func Instructions() string {
	return instructionsPrefix + topic("blocks") + instructionsMiddle + topic("patches") + instructionsSuffix
}

func topic(name string) string {
	t, err := docs.Get(name)
	if err != nil {
		return ""
	}
	return t.Content
}

const instructionsPrefix = `# Editing files

When you change an existing file, do not reprint the whole file. Send one or
more SEARCH/REPLACE blocks, each under a line naming the file in backticks:

` + "`src/app.go`" + `
` + "```go" + `
<<<<<<< SEARCH
func handler() {
	return nil
}
=======
func handler() error {
	return nil
}
>>>>>>> REPLACE
` + "```" + `

Rules:

- The SEARCH text must appear in the file exactly, including indentation.
  Leading and trailing whitespace on a line is forgiven, nothing else is.
- Blocks for one file are applied top to bottom. A later block must match
  text below the previous one.
- Keep SEARCH sections short but unique: a few lines around the change.
- An empty REPLACE section deletes the matched text.
- To create a new file, send its full content in a fenced block under its
  path, or a unified diff from /dev/null.

## Reference: SEARCH/REPLACE blocks

`

const instructionsMiddle = `

## Reference: unified diffs

`

const instructionsSuffix = `
`
