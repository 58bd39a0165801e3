package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with splice",
		Content: topicQuickstart,
	},
	{
		Name:    "blocks",
		Title:   "SEARCH/REPLACE Blocks",
		Summary: "Block syntax, matching tiers, and ordering",
		Content: topicBlocks,
	},
	{
		Name:    "patches",
		Title:   "Unified Diffs",
		Summary: "How hunks are located when line numbers drift",
		Content: topicPatches,
	},
	{
		Name:    "lines",
		Title:   "Line Edits",
		Summary: "Replace, insert, and delete by line number",
		Content: topicLines,
	},
	{
		Name:    "guard",
		Title:   "Write Guard",
		Summary: "Protection against truncated full-file overwrites",
		Content: topicGuard,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "batch",
		Title:   "Batch Plans",
		Summary: "Applying several operations from a YAML plan",
		Content: topicBatch,
	},
	{
		Name:    "history",
		Title:   "History and Undo",
		Summary: "The edit journal and reverting edits",
		Content: topicHistory,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project (optional, enables history and undo):

    cd your-project
    splice init

   This creates .splice/config.yaml, an example plan, and .splice/prompt.md,
   the edit format instructions to give a language model.

2. Apply a model's SEARCH/REPLACE blocks to a file:

    splice edit main.go blocks.txt
    pbpaste | splice edit main.go
    splice edit main.go --clipboard

3. Apply a unified diff:

    splice patch main.go change.diff

4. Edit by line number:

    splice lines main.go --mode replace --start 12 --end 14 --text "..."

5. Overwrite a file with the size guard on:

    splice write main.go new.go

6. Apply every edit found in a whole model response:

    splice respond --clipboard

Every command accepts --dry-run (or --preview for lines) to show the diff
without writing, and --json for machine-readable results.
`

const topicBlocks = `SEARCH/REPLACE Blocks
=====================

A block names text to find and the text to put in its place:

    <<<<<<< SEARCH
    old lines
    =======
    new lines
    >>>>>>> REPLACE

Markers may use seven or more characters. Text outside blocks is ignored,
so a whole model response can be passed as-is. An empty REPLACE section
deletes the matched text.

Matching happens in two tiers, per block:

  1. exact     the SEARCH text occurs verbatim
  2. trimmed   every line matches after trimming leading and trailing
               whitespace; the file's own whitespace is replaced

Blocks apply in order against the original file. Each block must match
after the end of the previous match, so two blocks can never overlap and a
block cannot match text a previous block produced.

If any block fails to match, nothing is written. The error names the block,
shows a preview of its SEARCH text, and when possible the closest region
of the file.
`

const topicPatches = `Unified Diffs
=============

splice applies single-file unified diffs:

    --- a/main.go
    +++ b/main.go
    @@ -10,3 +10,3 @@ func main() {
     	x := 1
    -	y := 2
    +	y := 3
     	z := 4

Hunks are located by content, not by line number. The declared start is a
hint: splice searches outward from it for the hunk's context and removed
lines, first exactly and then with whitespace trimmed. Later hunks are
searched for below earlier ones.

Counts in the @@ header may be omitted. "\ No newline at end of file"
markers are honoured. A diff from /dev/null creates the file.

When a hunk's position differs from its header, the result reports the
offset so you can see how far the file had drifted. If any hunk cannot be
located nothing is written.
`

const topicLines = `Line Edits
==========

Line numbers are 1-based and ranges are inclusive.

    replace   lines start..end become the given text
    insert    the text goes before line start; start may be one past
              the last line to append
    delete    lines start..end are removed

The file's line endings and final newline are preserved. Out-of-range
lines fail with a range error naming the file's line count.

Use --preview to print the edited region with surrounding context lines
(preview.context-lines) without writing.
`

const topicGuard = `Write Guard
===========

Full-file overwrites are checked before they are written. An overwrite is
rejected when all of these hold:

  - the target exists
  - the target is larger than guard.min-size bytes (default 1024)
  - the new content is smaller than guard.reduction-threshold times the
    old size (default 0.10)

This catches a model that replied with "... rest of file unchanged"
instead of the file. Pass --force to write anyway.

All writes, guarded or not, go through a temp file in the same directory
followed by a rename, so a crash never leaves a half-written file.
`

const topicConfig = `Configuration Reference
=======================

splice looks for .splice/config.yaml in the current directory and its
parents. Without one the defaults below apply and the journal is off.

    guard:
      min-size: 1024             # bytes; smaller files are never guarded
      reduction-threshold: 0.10  # fraction of the old size; 0 disables

    preview:
      context-lines: 3           # lines around an edit in previews

    write:
      fsync: true                # sync temp file and directory

    log:
      level: info                # trace, debug, info, warn, error
      format: text               # text or json

    journal:
      path: .splice/journal.db   # "" disables history and undo

    metrics:
      textfile: ""               # Prometheus textfile, written per command

Relative paths resolve against the project root (the directory holding
.splice). --config points at a file explicitly and --log-level overrides
log.level.
`

const topicBatch = `Batch Plans
===========

A plan applies several operations in order:

    vars:
      SRC: internal/app

    operations:
      - kind: edit              # or block_edit
        file: $SRC/app.go
        blocks: |
          <<<<<<< SEARCH
          ...
          >>>>>>> REPLACE
      - kind: patch             # or patch_apply
        file: $SRC/util.go
        diff: |
          @@ -1,2 +1,2 @@
          ...
      - kind: lines             # or line_edit
        file: README.md
        mode: insert
        start: 1
        text: "..."
      - kind: write             # or guarded_overwrite
        file: VERSION
        content: "1.2.0\n"
        force: false

File paths expand $VARS from the plan, then $PLAN_DIR, then the
environment. Relative paths resolve against the plan's directory.

    splice run plan.yaml --dry-run   # list operations only
    splice run plan.yaml             # apply

Every step is validated before anything runs. Each operation is atomic;
the run stops at the first failure and earlier operations stay applied.
`

const topicHistory = `History and Undo
================

With journal.path set, every write records the file's content before the
edit and a hash of the content after it.

    splice history             # recent edits
    splice history main.go     # edits to one file
    splice undo <id>           # restore the content before edit <id>

Undo refuses when the file has changed since the edit, so it never
discards later work. Undoing an edit that created a file removes it. An
undo is itself journaled and can be undone.
`
