package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/model"
	"github.com/snaplink/snaplink/internal/testutil"
)

func TestPublisher_StreamRoundTrip(t *testing.T) {
	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	client, err := Connect(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	streamKey := fmt.Sprintf("test:click_events:%d", time.Now().UnixNano())

	recorder := metrics.NewInMemory()
	publisher := NewPublisher(client, streamKey, testLogger(), recorder)

	if err := publisher.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	clickedAt := time.Now().UTC()
	publisher.PublishAsync("abc123", testutil.NewTestClick(t, "01HMB7ZP4R0000000000000000", clickedAt))
	publisher.PublishAsync("abc123", testutil.NewTestClick(t, "01HMB7ZP4R0000000000000001", clickedAt))

	// Close also closes the publisher's client, so read back on a second one.
	verify, err := Connect(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect verify client: %v", err)
	}
	t.Cleanup(func() {
		testutil.DeleteKeys(t, verify, streamKey)
		_ = verify.Close()
	})

	closeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := publisher.Close(closeCtx); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := verify.XRange(ctx, streamKey, "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("stream length = %d, want 2", len(entries))
	}

	raw, ok := entries[0].Values["payload"].(string)
	if !ok {
		t.Fatalf("payload field missing: %v", entries[0].Values)
	}
	var payload ClickEventPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.ShortCode != "abc123" || payload.Source != model.UnknownSource {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if payload.ClickedAt != clickedAt.UnixMilli() {
		t.Errorf("ClickedAt = %d, want %d", payload.ClickedAt, clickedAt.UnixMilli())
	}

	if got := recorder.Snapshot().ClickEventsPublished; got != 2 {
		t.Errorf("ClickEventsPublished = %d, want 2", got)
	}
}
