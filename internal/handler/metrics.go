package handler

import (
	"fmt"
	"net/http"

	"github.com/snaplink/snaplink/internal/metrics"
)

// LinkCounter reports how many links are stored.
type LinkCounter interface {
	Len() int
}

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
	links       LinkCounter
}

// NewMetricsHandler creates a new MetricsHandler. links may be nil.
func NewMetricsHandler(snapshotter metrics.Snapshotter, links LinkCounter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter, links: links}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "snaplink_links_created_total{code=\"custom\"} %d\n", snap.LinksCreatedCustom)
	writeMetric(w, "snaplink_links_created_total{code=\"generated\"} %d\n", snap.LinksCreatedGenerated)
	if h.links != nil {
		writeMetric(w, "snaplink_links_stored %d\n", h.links.Len())
	}

	writeMetric(w, "snaplink_redirects_total{outcome=\"success\"} %d\n", snap.RedirectsSuccess)
	writeMetric(w, "snaplink_redirects_total{outcome=\"not_found\"} %d\n", snap.RedirectsNotFound)
	writeMetric(w, "snaplink_redirects_total{outcome=\"expired\"} %d\n", snap.RedirectsExpired)
	writeMetric(w, "snaplink_redirect_duration_seconds_count %d\n", snap.RedirectDurationCount)
	writeMetric(w, "snaplink_redirect_duration_seconds_sum %.6f\n", float64(snap.RedirectDurationTotalNs)/1e9)

	writeMetric(w, "snaplink_click_events_published_total{status=\"success\"} %d\n", snap.ClickEventsPublished)
	writeMetric(w, "snaplink_click_events_published_total{status=\"dropped\"} %d\n", snap.ClickEventsDropped)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
