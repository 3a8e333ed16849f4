// Package analytics publishes recorded clicks to a Redis stream.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/model"
)

const (
	// DefaultStreamKey is the Redis stream for click events.
	DefaultStreamKey = "stream:click_events"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond

	maxSourceLength = 500
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// ClickEventPayload is the compact event format written to the stream.
type ClickEventPayload struct {
	EventID   string `json:"id"`
	ShortCode string `json:"sc"`
	Source    string `json:"r"`             // referrer without query or fragment, or "unknown"
	Location  string `json:"loc,omitempty"` // client address
	ClickedAt int64  `json:"t"`             // Unix milliseconds
}

// NewClickEventPayload converts a recorded click into a stream payload.
func NewClickEventPayload(code string, event model.ClickEvent) ClickEventPayload {
	return ClickEventPayload{
		EventID:   event.ID,
		ShortCode: code,
		Source:    SanitizeReferrer(event.Source),
		Location:  event.Location,
		ClickedAt: event.Timestamp.UnixMilli(),
	}
}

// Publisher appends click events to a Redis stream. It is safe for
// concurrent use.
type Publisher struct {
	redis     *redis.Client
	streamKey string
	logger    *slog.Logger
	metrics   metrics.Recorder

	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
}

// NewPublisher creates a click event publisher writing to streamKey.
func NewPublisher(client *redis.Client, streamKey string, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if streamKey == "" {
		streamKey = DefaultStreamKey
	}
	return &Publisher{
		redis:     client,
		streamKey: streamKey,
		logger:    logger.With("component", "analytics.publisher"),
		metrics:   recorder,
	}
}

// Publish adds a click event to the stream synchronously.
func (p *Publisher) Publish(ctx context.Context, event ClickEventPayload) (string, error) {
	if p.isClosed() {
		return "", ErrPublisherClosed
	}
	return p.publish(ctx, event)
}

func (p *Publisher) publish(ctx context.Context, event ClickEventPayload) (string, error) {
	if err := ValidateClickEventPayload(event); err != nil {
		return "", fmt.Errorf("invalid event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned (fire-and-forget).
func (p *Publisher) PublishAsync(code string, event model.ClickEvent) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		p.metrics.IncClickEventPublished("dropped")
		return
	}
	p.inflight.Add(1)
	p.mu.RUnlock()

	payload := NewClickEventPayload(code, event)

	go func() {
		defer p.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.publish(ctx, payload)
		if err != nil {
			p.logger.Warn("failed to publish click event",
				"short_code", payload.ShortCode,
				"error", err,
			)
			p.metrics.IncClickEventPublished("dropped")
			return
		}

		p.logger.Debug("click event published",
			"short_code", payload.ShortCode,
			"stream_id", streamID,
		)
		p.metrics.IncClickEventPublished("success")
	}()
}

// Ping checks Redis connectivity.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.redis.Ping(ctx).Err()
}

// Close stops accepting events, waits for in-flight publishes until ctx is
// done and closes the Redis client.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("closing publisher with events in flight", "error", ctx.Err())
	}

	return p.redis.Close()
}

func (p *Publisher) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// SanitizeReferrer strips query parameters and fragments and truncates the
// result. Values that are not URLs, such as "unknown", pass through.
func SanitizeReferrer(ref string) string {
	if ref == "" {
		return model.UnknownSource
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return model.UnknownSource
	}

	parsed.RawQuery = ""
	parsed.ForceQuery = false
	parsed.Fragment = ""

	sanitized := parsed.String()
	if len(sanitized) > maxSourceLength {
		return sanitized[:maxSourceLength]
	}
	return sanitized
}
