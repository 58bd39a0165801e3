package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/jorge-barreto/splice/internal/engine"
	"github.com/jorge-barreto/splice/internal/ux"
)

// Applier is the interface for applying operations. Tests can substitute a mock.
type Applier interface {
	Apply(op engine.Operation) (*engine.Result, error)
}

// Runner applies a plan's operations in order.
type Runner struct {
	Plan    *Plan
	Applier Applier
	// ShowDiff prints each operation's diff after it completes.
	ShowDiff bool
	// Out receives progress output. Nil means standard output.
	Out *ux.Printer
}

func (r *Runner) out() *ux.Printer {
	if r.Out == nil {
		r.Out = ux.Stdout()
	}
	return r.Out
}

// Run applies the plan's operations. See ApplyAll.
func (r *Runner) Run(ctx context.Context) ([]*engine.Result, error) {
	ops, err := r.Plan.EngineOps()
	if err != nil {
		return nil, err
	}
	return r.ApplyAll(ctx, ops)
}

// ApplyAll applies ops in order, stopping at the first failure. Each
// operation is atomic on its own; operations that completed before a
// failure stay applied. Cancellation is checked between operations.
func (r *Runner) ApplyAll(ctx context.Context, ops []engine.Operation) ([]*engine.Result, error) {
	out := r.out()
	total := len(ops)
	results := make([]*engine.Result, 0, total)
	for i, op := range ops {
		if ctx.Err() != nil {
			return results, fmt.Errorf("stopped before operation %d: %w", i+1, ctx.Err())
		}

		out.OpHeader(i, total, op.Kind(), op.Path())
		start := time.Now()
		res, err := r.Applier.Apply(op)
		if err != nil {
			out.OpFail(i, op.Kind(), err)
			return results, fmt.Errorf("operation %d (%s %s) failed: %w", i+1, op.Kind(), op.Path(), err)
		}
		results = append(results, res)
		out.OpComplete(i, res, time.Since(start))
		if r.ShowDiff && res.Diff != "" {
			out.Diff(res.Diff)
		}
	}

	out.Success(total)
	return results, nil
}

// DryRunPrint prints the operation plan without executing.
func (r *Runner) DryRunPrint() {
	ops := r.Plan.Operations
	w := r.out().Writer()
	fmt.Fprintf(w, "\nDry run: %d operations\n\n", len(ops))
	for i, s := range ops {
		fmt.Fprintf(w, "  %d. %s %s", i+1, s.Kind, s.File)
		if s.Description != "" {
			fmt.Fprintf(w, " (%s)", s.Description)
		}
		fmt.Fprintln(w)

		kind, _ := s.kind()
		switch kind {
		case engine.KindBlockEdit:
			fmt.Fprintf(w, "     blocks: %d bytes\n", len(s.Blocks))
		case engine.KindPatchApply:
			fmt.Fprintf(w, "     diff: %d bytes\n", len(s.Diff))
		case engine.KindLineEdit:
			fmt.Fprintf(w, "     %s lines %d-%d\n", s.Mode, s.Start, max(s.End, s.Start))
		case engine.KindGuardedOverwrite:
			fmt.Fprintf(w, "     content: %d bytes", len(s.Content))
			if s.Force {
				fmt.Fprint(w, " (force)")
			}
			fmt.Fprintln(w)
		}
		if s.DryRun || s.Preview {
			fmt.Fprintln(w, "     (not written)")
		}
	}
	fmt.Fprintln(w)
}
