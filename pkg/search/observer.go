package search

// Observer receives status transitions, progress, and incremental results
// from a run. Implementations must be safe to invoke from the run's
// background goroutine while the foreground stays responsive to Stop.
type Observer interface {
	// OnStatus reports a human-readable status transition.
	OnStatus(text string)

	// OnProgress reports overall progress in [0,100], non-decreasing
	// within a run.
	OnProgress(percent int)

	// OnResult reports a block of newly discovered matches. Called
	// incrementally per archive, not batched at run end.
	OnResult(text string)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) OnStatus(text string)   {}
func (NopObserver) OnProgress(percent int) {}
func (NopObserver) OnResult(text string)   {}
