// Package metrics records edit-operation metrics.
package metrics

import "time"

// Recorder defines the interface for recording edit operation metrics.
type Recorder interface {
	// ObserveOperation records a finished operation. status is "ok" or a
	// failure kind.
	ObserveOperation(kind, status string, duration time.Duration)

	// IncMatchTier counts a block located by the given matcher tier.
	IncMatchTier(tier string)

	// IncGuardDecision counts a write-guard outcome ("allowed", "rejected",
	// "override").
	IncGuardDecision(decision string)
}

// NoopRecorder implements Recorder with no-op behavior for when metrics are disabled.
type NoopRecorder struct{}

// Nop returns a no-op metrics recorder that discards all metrics.
func Nop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) ObserveOperation(_, _ string, _ time.Duration) {}

func (n *NoopRecorder) IncMatchTier(_ string) {}

func (n *NoopRecorder) IncGuardDecision(_ string) {}
