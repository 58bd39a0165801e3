package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jorge-barreto/splice/internal/editerr"
	"github.com/jorge-barreto/splice/internal/engine"
	"github.com/jorge-barreto/splice/internal/lines"
)

// Step is one operation in a plan file.
type Step struct {
	Kind        string `yaml:"kind"`
	File        string `yaml:"file"`
	Description string `yaml:"description"`

	// block edits
	Blocks string `yaml:"blocks"`
	// patches
	Diff string `yaml:"diff"`
	// line edits
	Mode  string `yaml:"mode"`
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Text  string `yaml:"text"`
	// overwrites
	Content string `yaml:"content"`

	DryRun  bool `yaml:"dry-run"`
	Preview bool `yaml:"preview"`
	Force   bool `yaml:"force"`
}

// Plan is an ordered list of operations applied one after another.
type Plan struct {
	Vars       map[string]string `yaml:"vars"`
	Operations []Step            `yaml:"operations"`

	// Dir is the directory holding the plan file; relative paths resolve
	// against it.
	Dir string `yaml:"-"`
}

// PlanError reports a plan that cannot be loaded or converted. Its failure
// kind is parse for malformed YAML, io for an unreadable file and
// validation otherwise.
type PlanError struct {
	Op   int // 1-based operation, 0 for the plan as a whole
	Msg  string
	Err  error
	kind error
}

func (e *PlanError) Error() string {
	msg := "plan: "
	if e.Op > 0 {
		msg += fmt.Sprintf("operation %d: ", e.Op)
	}
	msg += e.Msg
	if e.Err != nil {
		if e.Msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	return msg
}

func (e *PlanError) Unwrap() error { return e.Err }

func (e *PlanError) Is(target error) bool { return target == e.kind }

func invalid(op int, format string, args ...any) error {
	return &PlanError{Op: op, Msg: fmt.Sprintf(format, args...), kind: editerr.ErrValidation}
}

func invalidErr(op int, err error) error {
	return &PlanError{Op: op, Err: err, kind: editerr.ErrValidation}
}

var kindAliases = map[string]engine.Kind{
	"block_edit":        engine.KindBlockEdit,
	"edit":              engine.KindBlockEdit,
	"blocks":            engine.KindBlockEdit,
	"patch_apply":       engine.KindPatchApply,
	"patch":             engine.KindPatchApply,
	"line_edit":         engine.KindLineEdit,
	"lines":             engine.KindLineEdit,
	"guarded_overwrite": engine.KindGuardedOverwrite,
	"write":             engine.KindGuardedOverwrite,
}

func (s Step) kind() (engine.Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s.Kind))]
	return k, ok
}

// LoadPlan reads and validates a YAML plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PlanError{Msg: "reading plan", Err: err, kind: editerr.ErrIO}
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &PlanError{Err: err, kind: editerr.ErrParse}
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, &PlanError{Msg: "resolving plan directory", Err: err, kind: editerr.ErrIO}
	}
	p.Dir = dir
	if err := ValidatePlan(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidatePlan checks every step so that a bad plan fails before anything
// is written.
func ValidatePlan(p *Plan) error {
	if len(p.Operations) == 0 {
		return invalid(0, "at least one operation is required")
	}
	for i := range p.Operations {
		s := &p.Operations[i]
		if s.File == "" {
			return invalid(i+1, "'file' is required")
		}
		kind, ok := s.kind()
		if !ok {
			return invalid(i+1, "unknown kind %q (valid: edit, patch, lines, write)", s.Kind)
		}
		switch kind {
		case engine.KindBlockEdit:
			if s.Blocks == "" {
				return invalid(i+1, "edit requires 'blocks'")
			}
		case engine.KindPatchApply:
			if s.Diff == "" {
				return invalid(i+1, "patch requires 'diff'")
			}
		case engine.KindLineEdit:
			if _, err := lines.ParseMode(s.Mode); err != nil {
				return invalidErr(i+1, err)
			}
			if s.Start < 1 {
				return invalid(i+1, "lines requires 'start' >= 1")
			}
		}
	}
	return nil
}

// EngineOps converts the plan into engine operations. File paths expand
// $PLAN_DIR, plan vars and environment variables, then resolve against the
// plan directory.
func (p *Plan) EngineOps() ([]engine.Operation, error) {
	vars := make(map[string]string, len(p.Vars)+1)
	for k, v := range p.Vars {
		vars[k] = v
	}
	vars["PLAN_DIR"] = p.Dir

	ops := make([]engine.Operation, 0, len(p.Operations))
	for i, s := range p.Operations {
		file, err := ExpandVars(s.File, vars)
		if err != nil {
			return nil, invalidErr(i+1, err)
		}
		if file == "" {
			return nil, invalid(i+1, "'file' expands to nothing")
		}
		if !filepath.IsAbs(file) && p.Dir != "" {
			file = filepath.Join(p.Dir, file)
		}

		kind, _ := s.kind()
		switch kind {
		case engine.KindBlockEdit:
			ops = append(ops, engine.BlockEdit{File: file, Payload: s.Blocks, DryRun: s.DryRun})
		case engine.KindPatchApply:
			ops = append(ops, engine.PatchApply{File: file, Diff: s.Diff, DryRun: s.DryRun})
		case engine.KindLineEdit:
			mode, err := lines.ParseMode(s.Mode)
			if err != nil {
				return nil, invalidErr(i+1, err)
			}
			end := s.End
			if end == 0 {
				end = s.Start
			}
			ops = append(ops, engine.LineEdit{
				File:    file,
				Command: lines.Command{Start: s.Start, End: end, Text: s.Text, Mode: mode},
				Preview: s.Preview,
			})
		case engine.KindGuardedOverwrite:
			ops = append(ops, engine.GuardedOverwrite{File: file, Content: s.Content, Override: s.Force})
		default:
			return nil, invalid(i+1, "unknown kind %q", s.Kind)
		}
	}
	return ops, nil
}
