package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReal_ReturnsCurrentUTCTime(t *testing.T) {
	t.Parallel()

	before := time.Now()
	now := Real{}.Now()
	after := time.Now()

	assert.False(t, now.Before(before), "Now() should not be before time.Now()")
	assert.False(t, now.After(after), "Now() should not be after time.Now()")
	assert.Equal(t, time.UTC, now.Location())
}

func TestMock_ReturnsFixedTime(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := NewMock(fixed)

	assert.Equal(t, fixed, c.Now())
	assert.Equal(t, fixed, c.Now())
}

func TestMock_Advance(t *testing.T) {
	t.Parallel()

	c := NewMock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	c.Advance(90 * time.Minute)

	assert.Equal(t, time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC), c.Now())
}

func TestMock_Set(t *testing.T) {
	t.Parallel()

	c := NewMock(time.Now())
	target := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c.Set(target)

	assert.Equal(t, target, c.Now())
}
