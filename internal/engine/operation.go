package engine

import (
	"github.com/jorge-barreto/splice/internal/blocks"
	"github.com/jorge-barreto/splice/internal/lines"
)

// Kind names an operation in results, logs, metrics and the journal.
type Kind string

const (
	KindBlockEdit        Kind = "block_edit"
	KindPatchApply       Kind = "patch_apply"
	KindLineEdit         Kind = "line_edit"
	KindGuardedOverwrite Kind = "guarded_overwrite"
	KindUndo             Kind = "undo"
)

// Operation is one of BlockEdit, PatchApply, LineEdit or GuardedOverwrite.
// The set is closed: only this package can add members.
type Operation interface {
	Kind() Kind
	Path() string
	operation()
}

// BlockEdit applies search/replace blocks to an existing file. Blocks may be
// given parsed, or as a raw Payload that is parsed first.
type BlockEdit struct {
	File    string
	Blocks  []blocks.EditBlock
	Payload string
	DryRun  bool
}

// PatchApply applies a unified diff. A diff whose old side is /dev/null
// may create the file.
type PatchApply struct {
	File   string
	Diff   string
	DryRun bool
}

// LineEdit edits by line numbers. Preview computes the excerpt without
// writing.
type LineEdit struct {
	File    string
	Command lines.Command
	Preview bool
}

// GuardedOverwrite replaces the whole file, subject to the size guard
// unless Override is set.
type GuardedOverwrite struct {
	File     string
	Content  string
	Override bool
}

func (BlockEdit) Kind() Kind        { return KindBlockEdit }
func (PatchApply) Kind() Kind       { return KindPatchApply }
func (LineEdit) Kind() Kind         { return KindLineEdit }
func (GuardedOverwrite) Kind() Kind { return KindGuardedOverwrite }

func (o BlockEdit) Path() string        { return o.File }
func (o PatchApply) Path() string       { return o.File }
func (o LineEdit) Path() string         { return o.File }
func (o GuardedOverwrite) Path() string { return o.File }

func (BlockEdit) operation()        {}
func (PatchApply) operation()       {}
func (LineEdit) operation()         {}
func (GuardedOverwrite) operation() {}
