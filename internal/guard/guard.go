// Package guard decides whether a full-content overwrite looks like an
// accidental truncation.
package guard

import (
	"fmt"

	"github.com/jorge-barreto/splice/internal/editerr"
)

// Default policy values.
const (
	DefaultMinSize   = 1024
	DefaultThreshold = 0.10
)

// Policy holds the tunable guard constants. Zero values are honoured: a
// zero MinSize guards every non-empty file and a zero Threshold never
// rejects.
type Policy struct {
	MinSize   int64   // files at or below this size are never guarded
	Threshold float64 // reject when newSize/oldSize falls below this
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{MinSize: DefaultMinSize, Threshold: DefaultThreshold}
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed   bool
	OldSize   int64
	NewSize   int64
	Ratio     float64
	Threshold float64
	Reason    string
}

// SizeGuardError is returned when an overwrite is rejected.
type SizeGuardError struct {
	Decision
}

func (e *SizeGuardError) Error() string {
	return fmt.Sprintf("refusing overwrite: new content is %d bytes, existing file is %d bytes (ratio %.3f below threshold %.2f); re-run with --force or set Override to write anyway",
		e.NewSize, e.OldSize, e.Ratio, e.Threshold)
}

func (e *SizeGuardError) Is(target error) bool { return target == editerr.ErrSizeGuard }

// Check evaluates an overwrite of a file of oldSize bytes with newSize bytes.
// exists is false for a file that is being created.
func Check(oldSize, newSize int64, exists bool, p Policy, override bool) (Decision, error) {
	d := Decision{Allowed: true, OldSize: oldSize, NewSize: newSize, Threshold: p.Threshold}
	if oldSize > 0 {
		d.Ratio = float64(newSize) / float64(oldSize)
	}

	switch {
	case !exists:
		d.Reason = "new file"
	case oldSize <= p.MinSize:
		d.Reason = fmt.Sprintf("existing file is at most %d bytes", p.MinSize)
	case d.Ratio >= p.Threshold:
		d.Reason = "size reduction within threshold"
	case override:
		d.Reason = "override"
	default:
		d.Allowed = false
		d.Reason = fmt.Sprintf("content shrinks to %.1f%% of the existing file", d.Ratio*100)
		return d, &SizeGuardError{Decision: d}
	}
	return d, nil
}
