package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaplink/snaplink/internal/model"
)

type recordingSink struct {
	mu     sync.Mutex
	codes  []string
	events []model.ClickEvent
}

func (s *recordingSink) PublishAsync(code string, event model.ClickEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
	s.events = append(s.events, event)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func seedLink(t *testing.T, env *testEnv, code string, validity int64) {
	t.Helper()
	_, err := env.registry.Create(context.Background(), CreateInput{
		TargetURL:       "https://example.com/" + code,
		ValidityMinutes: int64Ptr(validity),
		CustomCode:      code,
	})
	require.NoError(t, err)
}

func TestRedirector_Resolve_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	seedLink(t, env, "abc123", 10)

	sink := &recordingSink{}
	redirector := NewRedirector(env.registry, RedirectorConfig{
		TrackClickDetails: true,
		Sink:              sink,
		Metrics:           env.recorder,
	})

	env.clock.Advance(time.Minute)
	target, err := redirector.Resolve(context.Background(), "abc123", RequestContext{
		Referrer:      "https://news.example.org/",
		ClientAddress: "203.0.113.7",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/abc123", target)

	link, err := env.registry.Get(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), link.ClickCount)
	require.Len(t, link.Clicks, 1)

	click := link.Clicks[0]
	assert.Equal(t, testEpoch.Add(time.Minute), click.Timestamp)
	assert.Equal(t, "https://news.example.org/", click.Source)
	assert.Equal(t, "203.0.113.7", click.Location)
	assert.Len(t, click.ID, 26)

	require.Equal(t, 1, sink.count())
	assert.Equal(t, "abc123", sink.codes[0])
	assert.Equal(t, click, sink.events[0])

	snap := env.recorder.Snapshot()
	assert.Equal(t, uint64(1), snap.RedirectsSuccess)
	assert.Equal(t, uint64(1), snap.RedirectDurationCount)
}

func TestRedirector_Resolve_MissingReferrer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	seedLink(t, env, "noref", 10)

	redirector := NewRedirector(env.registry, RedirectorConfig{TrackClickDetails: true})

	_, err := redirector.Resolve(context.Background(), "noref", RequestContext{ClientAddress: "198.51.100.1"})
	require.NoError(t, err)

	link, err := env.registry.Get(context.Background(), "noref")
	require.NoError(t, err)
	require.Len(t, link.Clicks, 1)
	assert.Equal(t, model.UnknownSource, link.Clicks[0].Source)
}

func TestRedirector_Resolve_TrackingDisabled(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	seedLink(t, env, "plain", 10)

	sink := &recordingSink{}
	redirector := NewRedirector(env.registry, RedirectorConfig{Sink: sink})

	for i := 0; i < 3; i++ {
		_, err := redirector.Resolve(context.Background(), "plain", RequestContext{})
		require.NoError(t, err)
	}

	link, err := env.registry.Get(context.Background(), "plain")
	require.NoError(t, err)
	assert.Equal(t, int64(3), link.ClickCount)
	assert.Empty(t, link.Clicks)
	assert.Equal(t, 3, sink.count(), "sink receives clicks regardless of detail tracking")
}

func TestRedirector_Resolve_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	sink := &recordingSink{}
	redirector := NewRedirector(env.registry, RedirectorConfig{Sink: sink, Metrics: env.recorder})

	_, err := redirector.Resolve(context.Background(), "missing", RequestContext{})
	assert.ErrorIs(t, err, ErrShortcodeNotFound)
	assert.Zero(t, sink.count())
	assert.Equal(t, uint64(1), env.recorder.Snapshot().RedirectsNotFound)
}

func TestRedirector_Resolve_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	seedLink(t, env, "edge", 1)

	sink := &recordingSink{}
	redirector := NewRedirector(env.registry, RedirectorConfig{
		TrackClickDetails: true,
		Sink:              sink,
		Metrics:           env.recorder,
	})
	ctx := context.Background()

	// Still live at exactly ExpiresAt.
	env.clock.Advance(time.Minute)
	_, err := redirector.Resolve(ctx, "edge", RequestContext{})
	require.NoError(t, err)

	env.clock.Advance(time.Nanosecond)
	_, err = redirector.Resolve(ctx, "edge", RequestContext{})
	assert.ErrorIs(t, err, ErrShortcodeExpired)

	link, err := env.registry.Get(ctx, "edge")
	require.NoError(t, err)
	assert.Equal(t, int64(1), link.ClickCount, "expired resolve must not count")
	assert.Len(t, link.Clicks, 1)
	assert.Equal(t, 1, sink.count())
	assert.Equal(t, uint64(1), env.recorder.Snapshot().RedirectsExpired)
}

func TestRedirector_Resolve_ConcurrentClicks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	seedLink(t, env, "hot", 10)

	redirector := NewRedirector(env.registry, RedirectorConfig{TrackClickDetails: true})
	ctx := context.Background()

	const goroutines = 32
	const perGoroutine = 25

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				_, err := redirector.Resolve(ctx, "hot", RequestContext{ClientAddress: "192.0.2.1"})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	link, err := env.registry.Get(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(goroutines*perGoroutine), link.ClickCount)
	assert.Len(t, link.Clicks, goroutines*perGoroutine)
}

func TestRedirector_Resolve_CanceledContext(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	seedLink(t, env, "ctx", 10)

	redirector := NewRedirector(env.registry, RedirectorConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := redirector.Resolve(ctx, "ctx", RequestContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	link, err := env.registry.Get(context.Background(), "ctx")
	require.NoError(t, err)
	assert.Zero(t, link.ClickCount)
}

func TestClickSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.UnknownSource, clickSource(""))
	assert.Equal(t, "https://a.example.com", clickSource("https://a.example.com"))
}
