package service

import (
	"context"
	"time"

	"github.com/snaplink/snaplink/internal/model"
)

// LinkStats is a read-only projection of a link.
type LinkStats struct {
	Code       string
	TargetURL  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ClickCount int64
	Status     model.LinkStatus

	// Clicks is nil in summary views and when click-detail tracking is off.
	Clicks []model.ClickEvent
}

// StatsReporter projects registry records into LinkStats.
// It never checks expiry and never mutates records.
type StatsReporter struct {
	registry      *Registry
	includeClicks bool
}

// NewStatsReporter creates a StatsReporter. includeClicks controls whether
// GetOne carries the click log.
func NewStatsReporter(registry *Registry, includeClicks bool) *StatsReporter {
	return &StatsReporter{
		registry:      registry,
		includeClicks: includeClicks,
	}
}

// GetOne returns stats for a single code, expired or not.
func (s *StatsReporter) GetOne(ctx context.Context, code string) (*LinkStats, error) {
	link, err := s.registry.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	stats := toLinkStats(link, s.registry.Now())
	if s.includeClicks {
		stats.Clicks = link.Clicks
		if stats.Clicks == nil {
			stats.Clicks = []model.ClickEvent{}
		}
	}
	return &stats, nil
}

// GetAll returns summary stats for every link in insertion order.
// There is no pagination.
func (s *StatsReporter) GetAll(ctx context.Context) ([]LinkStats, error) {
	links, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.registry.Now()
	all := make([]LinkStats, 0, len(links))
	for _, link := range links {
		all = append(all, toLinkStats(link, now))
	}
	return all, nil
}

func toLinkStats(link *model.Link, now time.Time) LinkStats {
	return LinkStats{
		Code:       link.Code,
		TargetURL:  link.TargetURL,
		CreatedAt:  link.CreatedAt,
		ExpiresAt:  link.ExpiresAt,
		ClickCount: link.ClickCount,
		Status:     link.Status(now),
	}
}
