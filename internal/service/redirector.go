package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/model"
	"github.com/snaplink/snaplink/internal/repository"
)

// RequestContext carries the request metadata recorded with a click.
type RequestContext struct {
	Referrer      string
	ClientAddress string
}

// ClickSink receives clicks after they are recorded. Implementations must
// not block the caller.
type ClickSink interface {
	PublishAsync(code string, event model.ClickEvent)
}

// Redirector resolves short codes and records clicks.
type Redirector struct {
	registry     *Registry
	trackDetails bool
	sink         ClickSink
	metrics      metrics.Recorder
}

// RedirectorConfig holds Redirector options.
type RedirectorConfig struct {
	// TrackClickDetails appends a ClickEvent to the link's click log on
	// every successful resolve.
	TrackClickDetails bool

	// Sink is optional.
	Sink ClickSink

	Metrics metrics.Recorder
}

// NewRedirector creates a Redirector backed by registry.
func NewRedirector(registry *Registry, cfg RedirectorConfig) *Redirector {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	return &Redirector{
		registry:     registry,
		trackDetails: cfg.TrackClickDetails,
		sink:         cfg.Sink,
		metrics:      cfg.Metrics,
	}
}

// Resolve returns the target URL for code and records exactly one click.
// The expiry check, the count increment and the log append run as one unit
// under the store lock. Expired links are left untouched.
func (r *Redirector) Resolve(ctx context.Context, code string, req RequestContext) (string, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	var (
		target string
		event  model.ClickEvent
	)

	err := r.registry.store.Update(ctx, code, func(link *model.Link) error {
		now := r.registry.clock.Now()
		if link.IsExpired(now) {
			return ErrShortcodeExpired
		}

		event = model.ClickEvent{
			ID:        newEventID(now),
			Timestamp: now,
			Source:    clickSource(req.Referrer),
			Location:  req.ClientAddress,
		}

		link.ClickCount++
		if r.trackDetails {
			link.Clicks = append(link.Clicks, event)
		}
		target = link.TargetURL
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		r.metrics.IncRedirect(metrics.RedirectNotFound)
		return "", ErrShortcodeNotFound
	case errors.Is(err, ErrShortcodeExpired):
		r.metrics.IncRedirect(metrics.RedirectExpired)
		return "", ErrShortcodeExpired
	default:
		return "", fmt.Errorf("record click: %w", err)
	}

	r.metrics.IncRedirect(metrics.RedirectSuccess)

	if r.sink != nil {
		r.sink.PublishAsync(code, event)
	}

	return target, nil
}

func clickSource(referrer string) string {
	if referrer == "" {
		return model.UnknownSource
	}
	return referrer
}

// newEventID returns a ULID stamped with the click time.
func newEventID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}
