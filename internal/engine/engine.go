// Package engine applies edit operations to files.
//
// Apply takes one Operation, computes the new content entirely in memory and
// commits it with a single atomic write. Every operation either fully
// succeeds or leaves the file untouched. The engine keeps no state between
// calls; callers must serialise operations on the same file.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"

	"github.com/jorge-barreto/splice/internal/atomic"
	"github.com/jorge-barreto/splice/internal/blocks"
	"github.com/jorge-barreto/splice/internal/config"
	"github.com/jorge-barreto/splice/internal/doctor"
	"github.com/jorge-barreto/splice/internal/editerr"
	"github.com/jorge-barreto/splice/internal/guard"
	"github.com/jorge-barreto/splice/internal/journal"
	"github.com/jorge-barreto/splice/internal/lines"
	"github.com/jorge-barreto/splice/internal/logging"
	"github.com/jorge-barreto/splice/internal/match"
	"github.com/jorge-barreto/splice/internal/metrics"
	"github.com/jorge-barreto/splice/internal/patch"
)

// Journal stores committed edits for undo. *journal.Journal implements it.
type Journal interface {
	Record(e journal.Entry) error
	Get(id string) (journal.Entry, error)
	List(file string, limit int) ([]journal.Entry, error)
}

// Engine applies operations. The zero value is not usable; call New.
type Engine struct {
	policy       guard.Policy
	contextLines int
	fsync        bool

	log          *logrus.Logger
	rec          metrics.Recorder
	journal      Journal
	beforeCommit func(tmpPath string) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

// WithJournal records every committed write in j and enables Undo.
func WithJournal(j Journal) Option {
	return func(e *Engine) { e.journal = j }
}

// WithBeforeCommit runs fn on the fully written temp file just before it
// replaces the target. An error aborts the write.
func WithBeforeCommit(fn func(tmpPath string) error) Option {
	return func(e *Engine) { e.beforeCommit = fn }
}

// New returns an Engine configured from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		policy: guard.Policy{
			MinSize:   cfg.MinSize(),
			Threshold: cfg.ReductionThreshold(),
		},
		contextLines: cfg.ContextLines(),
		fsync:        cfg.Fsync(),
		log:          logging.Discard(),
		rec:          metrics.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs op and returns its result, or a structured error from the
// editerr taxonomy. On error nothing has been written.
func (e *Engine) Apply(op Operation) (*Result, error) {
	if op == nil {
		return nil, editerr.Invalid("operation", "nil")
	}
	start := time.Now()
	id := uuid.NewString()
	log := e.log.WithFields(logrus.Fields{"id": id, "kind": op.Kind(), "file": op.Path()})
	log.Debug("applying operation")

	var res *Result
	var err error
	if op.Path() == "" {
		err = editerr.Invalid("file", "path is empty")
	} else {
		switch o := op.(type) {
		case BlockEdit:
			res, err = e.blockEdit(id, o)
		case PatchApply:
			res, err = e.patchApply(id, o)
		case LineEdit:
			res, err = e.lineEdit(id, o)
		case GuardedOverwrite:
			res, err = e.overwrite(id, o)
		default:
			err = editerr.Invalid("operation", fmt.Sprintf("unsupported type %T", op))
		}
	}

	status := "ok"
	if err != nil {
		status = string(editerr.KindOf(err))
	}
	e.rec.ObserveOperation(string(op.Kind()), status, time.Since(start))

	if err != nil {
		log.WithField("error_kind", status).WithError(err).Info("operation failed")
		return nil, err
	}
	res.ID = id
	res.Kind = op.Kind()
	res.File = op.Path()
	log.WithFields(logrus.Fields{
		"applied":  res.Applied,
		"old_size": res.OldSize,
		"new_size": res.NewSize,
		"duration": time.Since(start),
	}).Info("operation finished")
	return res, nil
}

func (e *Engine) blockEdit(id string, o BlockEdit) (*Result, error) {
	bs := o.Blocks
	if len(bs) == 0 && o.Payload != "" {
		parsed, err := blocks.Parse(o.Payload)
		if err != nil {
			return nil, err
		}
		bs = parsed
	}
	if len(bs) == 0 {
		return nil, editerr.Invalid("blocks", "no edit blocks")
	}
	for _, b := range bs {
		if b.Search == "" {
			return nil, editerr.Invalid("blocks", fmt.Sprintf("block %d has an empty SEARCH section", b.Ordinal))
		}
	}

	orig, err := readExisting(o.File)
	if err != nil {
		return nil, err
	}
	out, spans, err := match.Apply(string(orig), bs)
	if err != nil {
		return nil, e.withHint(string(orig), err)
	}
	for _, s := range spans {
		e.rec.IncMatchTier(s.Tier.String())
		e.log.WithFields(logrus.Fields{
			"file":  o.File,
			"block": s.Block,
			"tier":  s.Tier.String(),
			"start": s.Start,
			"end":   s.End,
		}).Debug("block matched")
	}

	res := e.result(o.File, orig, out)
	res.BlocksApplied = len(spans)
	res.Spans = spans
	if o.DryRun {
		return res, nil
	}
	return res, e.commit(id, KindBlockEdit, o.File, orig, true, res)
}

func (e *Engine) patchApply(id string, o PatchApply) (*Result, error) {
	p, err := patch.Parse(o.Diff)
	if err != nil {
		return nil, err
	}

	existed := true
	orig, err := readExisting(o.File)
	if errors.Is(err, fs.ErrNotExist) && p.OldPath == "/dev/null" {
		orig, existed, err = nil, false, nil
	}
	if err != nil {
		return nil, err
	}
	if existed && p.OldPath == "/dev/null" {
		return nil, editerr.Invalid("file", o.File+" already exists but the diff creates it")
	}

	out, hunks, err := patch.Apply(string(orig), p)
	if err != nil {
		return nil, e.withHint(string(orig), err)
	}
	for _, h := range hunks {
		if h.Offset != 0 || h.Fuzzy {
			e.log.WithFields(logrus.Fields{
				"file":     o.File,
				"hunk":     h.Hunk,
				"declared": h.DeclaredStart,
				"resolved": h.ResolvedStart,
				"fuzzy":    h.Fuzzy,
			}).Debug("hunk relocated")
		}
	}

	res := e.result(o.File, orig, out)
	res.Hunks = hunks
	if o.DryRun {
		return res, nil
	}
	return res, e.commit(id, KindPatchApply, o.File, orig, existed, res)
}

func (e *Engine) lineEdit(id string, o LineEdit) (*Result, error) {
	orig, err := readExisting(o.File)
	if err != nil {
		return nil, err
	}
	out, err := lines.Apply(string(orig), o.Command)
	if err != nil {
		return nil, err
	}

	res := e.result(o.File, orig, out)
	first, last := lines.Affected(o.Command)
	res.Excerpt = lines.Excerpt(out, first, last, e.contextLines)
	if o.Preview {
		return res, nil
	}
	return res, e.commit(id, KindLineEdit, o.File, orig, true, res)
}

func (e *Engine) overwrite(id string, o GuardedOverwrite) (*Result, error) {
	var orig []byte
	existed := true
	info, err := os.Stat(o.File)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		existed = false
	case err != nil:
		return nil, &IOError{Op: "stat", Path: o.File, Err: err}
	case info.IsDir():
		return nil, &IOError{Op: "write", Path: o.File, Err: errors.New("is a directory")}
	default:
		if orig, err = readExisting(o.File); err != nil {
			return nil, err
		}
	}

	d, gerr := guard.Check(int64(len(orig)), int64(len(o.Content)), existed, e.policy, o.Override)
	decision := "allowed"
	switch {
	case gerr != nil:
		decision = "rejected"
	case existed && d.Reason == "override":
		decision = "override"
	}
	e.rec.IncGuardDecision(decision)
	e.log.WithFields(logrus.Fields{
		"file":     o.File,
		"decision": decision,
		"old_size": d.OldSize,
		"new_size": d.NewSize,
		"ratio":    d.Ratio,
	}).Debug("size guard")
	if gerr != nil {
		return nil, gerr
	}

	res := e.result(o.File, orig, o.Content)
	res.Guard = &d
	return res, e.commit(id, KindGuardedOverwrite, o.File, orig, existed, res)
}

// withHint attaches a nearest-match suggestion to a no-match failure.
func (e *Engine) withHint(content string, err error) error {
	if !errors.Is(err, editerr.ErrNoMatch) {
		return err
	}
	hint := doctor.Diagnose(content, err)
	if hint == "" {
		return err
	}
	return &HintedError{Err: err, Hint: hint}
}

func (e *Engine) result(path string, orig []byte, out string) *Result {
	return &Result{
		Content:   out,
		Diff:      unifiedDiff(path, string(orig), out),
		OldSize:   int64(len(orig)),
		NewSize:   int64(len(out)),
		Unchanged: string(orig) == out,
	}
}

// commit writes res.Content to path atomically and journals it. A journal
// failure is logged; the write has already happened by then.
func (e *Engine) commit(id string, kind Kind, path string, before []byte, existed bool, res *Result) error {
	after := []byte(res.Content)
	if existed && bytes.Equal(before, after) {
		res.Applied = true
		return nil
	}

	w := atomic.Writer{Perm: 0o644, NoSync: !e.fsync, BeforeCommit: e.beforeCommit}
	if err := w.WriteFile(path, after); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	res.Applied = true

	if e.journal == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	entry := journal.Entry{
		ID:         id,
		File:       abs,
		Kind:       string(kind),
		Existed:    existed,
		BeforeHash: journal.Hash(before),
		AfterHash:  journal.Hash(after),
		Before:     before,
	}
	if err := e.journal.Record(entry); err != nil {
		e.log.WithFields(logrus.Fields{"id": id, "file": path}).WithError(err).Warn("journal write failed; edit cannot be undone")
	}
	return nil
}

// readExisting reads a file that must already exist.
func readExisting(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

func unifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + filepath.ToSlash(path),
		ToFile:   "b/" + filepath.ToSlash(path),
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return out
}
