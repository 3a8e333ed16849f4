// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Redirect outcomes passed to IncRedirect.
const (
	RedirectSuccess  = "success"
	RedirectNotFound = "not_found"
	RedirectExpired  = "expired"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Link creation metrics
	IncLinkCreated(custom bool)

	// Redirect metrics
	IncRedirect(outcome string)
	ObserveRedirectDuration(duration time.Duration)

	// Click export metrics
	IncClickEventPublished(status string) // status: "success" or "dropped"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
