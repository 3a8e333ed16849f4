package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLinkCreated is a no-op.
func (n *NoopRecorder) IncLinkCreated(custom bool) {}

// IncRedirect is a no-op.
func (n *NoopRecorder) IncRedirect(outcome string) {}

// ObserveRedirectDuration is a no-op.
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}

// IncClickEventPublished is a no-op.
func (n *NoopRecorder) IncClickEventPublished(status string) {}
