package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/splice/internal/config"
	"github.com/jorge-barreto/splice/internal/ux"
)

var configTemplate = `# splice project configuration.

guard:
  # Files at or below this many bytes are never size-guarded.
  min-size: 1024
  # Reject overwrites that shrink a file below this fraction of its size.
  # 0 disables the check.
  reduction-threshold: 0.10

preview:
  context-lines: 3

write:
  fsync: true

log:
  level: info
  format: text

journal:
  # Set to "" to disable history and undo.
  path: .splice/journal.db

metrics:
  # Prometheus textfile written after every command. Empty disables it.
  textfile: ""
`

var gitignoreTemplate = `journal.db
journal.db-*
*.prom
`

var planTemplate = `# Run with: splice run .splice/plans/example.yaml --dry-run
vars:
  SRC: .

operations:
  - kind: edit
    file: $SRC/main.go
    description: rename the entry point
    blocks: |
      <<<<<<< SEARCH
      func oldName() {
      =======
      func newName() {
      >>>>>>> REPLACE

  - kind: lines
    file: $SRC/README.md
    mode: insert
    start: 1
    text: "<!-- generated -->"
`

// Init creates a new .splice/ directory with a config, an example plan and
// the instructions file handed to language models. Progress goes to w.
func Init(targetDir string, w io.Writer) error {
	spliceDir := filepath.Join(targetDir, config.Dir)
	if _, err := os.Stat(spliceDir); err == nil {
		return fmt.Errorf("%s directory already exists in %s", config.Dir, targetDir)
	}

	plansDir := filepath.Join(spliceDir, "plans")
	if err := os.MkdirAll(plansDir, 0755); err != nil {
		return fmt.Errorf("creating %s/plans: %w", config.Dir, err)
	}

	files := []struct {
		name, body string
	}{
		{"config.yaml", configTemplate},
		{".gitignore", gitignoreTemplate},
		{filepath.Join("plans", "example.yaml"), planTemplate},
		{"prompt.md", Instructions()},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(spliceDir, f.name), []byte(f.body), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", ux.Heading("✓ Initialized .splice/ directory"))
	fmt.Fprintf(w, "  Created:\n")
	fmt.Fprintf(w, "    %s        workspace configuration\n", ux.Path(".splice/config.yaml"))
	fmt.Fprintf(w, "    %s example batch plan\n", ux.Path(".splice/plans/example.yaml"))
	fmt.Fprintf(w, "    %s          edit format instructions for models\n\n", ux.Path(".splice/prompt.md"))
	fmt.Fprintf(w, "  Next steps:\n")
	fmt.Fprintf(w, "    1. Paste %s into your model's system prompt\n", ux.Path(".splice/prompt.md"))
	fmt.Fprintf(w, "    2. Apply a response with %s\n", ux.Path("splice respond --clipboard"))
	fmt.Fprintf(w, "    3. Revert with %s\n\n", ux.Path("splice history / splice undo <id>"))

	return nil
}
