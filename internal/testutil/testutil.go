// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snaplink/snaplink/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// DeleteKeys removes the given Redis keys, failing the test on error.
func DeleteKeys(t testing.TB, client *redis.Client, keys ...string) {
	t.Helper()
	if err := client.Del(context.Background(), keys...).Err(); err != nil {
		t.Fatalf("delete redis keys: %v", err)
	}
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestLink creates a link that expires validity after createdAt.
func NewTestLink(t testing.TB, code string, createdAt time.Time, validity time.Duration) *model.Link {
	t.Helper()
	return &model.Link{
		Code:      code,
		TargetURL: "https://example.com/" + code,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(validity),
	}
}

// NewTestClick creates a click event at the given time.
func NewTestClick(t testing.TB, id string, at time.Time) model.ClickEvent {
	t.Helper()
	return model.ClickEvent{
		ID:        id,
		Timestamp: at,
		Source:    model.UnknownSource,
		Location:  "192.0.2.1",
	}
}
