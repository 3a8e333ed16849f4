package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LinksCreatedCustom      uint64
	LinksCreatedGenerated   uint64
	RedirectsSuccess        uint64
	RedirectsNotFound       uint64
	RedirectsExpired        uint64
	RedirectDurationCount   uint64
	RedirectDurationTotalNs int64
	ClickEventsPublished    uint64
	ClickEventsDropped      uint64
}

// InMemoryRecorder stores counters in memory. It backs the /metrics
// endpoint and is used directly in tests.
type InMemoryRecorder struct {
	linksCreatedCustom      uint64
	linksCreatedGenerated   uint64
	redirectsSuccess        uint64
	redirectsNotFound       uint64
	redirectsExpired        uint64
	redirectDurationCount   uint64
	redirectDurationTotalNs int64
	clickEventsPublished    uint64
	clickEventsDropped      uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		LinksCreatedCustom:      atomic.LoadUint64(&m.linksCreatedCustom),
		LinksCreatedGenerated:   atomic.LoadUint64(&m.linksCreatedGenerated),
		RedirectsSuccess:        atomic.LoadUint64(&m.redirectsSuccess),
		RedirectsNotFound:       atomic.LoadUint64(&m.redirectsNotFound),
		RedirectsExpired:        atomic.LoadUint64(&m.redirectsExpired),
		RedirectDurationCount:   atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationTotalNs: atomic.LoadInt64(&m.redirectDurationTotalNs),
		ClickEventsPublished:    atomic.LoadUint64(&m.clickEventsPublished),
		ClickEventsDropped:      atomic.LoadUint64(&m.clickEventsDropped),
	}
}

// IncLinkCreated increments the custom or generated creation counter.
func (m *InMemoryRecorder) IncLinkCreated(custom bool) {
	if custom {
		atomic.AddUint64(&m.linksCreatedCustom, 1)
		return
	}
	atomic.AddUint64(&m.linksCreatedGenerated, 1)
}

// IncRedirect increments the counter for a redirect outcome.
// Unknown outcomes are ignored.
func (m *InMemoryRecorder) IncRedirect(outcome string) {
	switch outcome {
	case RedirectSuccess:
		atomic.AddUint64(&m.redirectsSuccess, 1)
	case RedirectNotFound:
		atomic.AddUint64(&m.redirectsNotFound, 1)
	case RedirectExpired:
		atomic.AddUint64(&m.redirectsExpired, 1)
	}
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationTotalNs, duration.Nanoseconds())
}

// IncClickEventPublished increments the published or dropped counter.
func (m *InMemoryRecorder) IncClickEventPublished(status string) {
	if status == "success" {
		atomic.AddUint64(&m.clickEventsPublished, 1)
		return
	}
	atomic.AddUint64(&m.clickEventsDropped, 1)
}
