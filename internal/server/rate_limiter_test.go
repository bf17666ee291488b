package server

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// TestRateLimiterBurstThenRefill verifies the bucket empties after the burst
// and refills proportionally to elapsed time.
func TestRateLimiterBurstThenRefill(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	rl := newRateLimiterWithClock(3, time.Second, clock.Now)

	for i := 0; i < 3; i++ {
		if !rl.allow() {
			t.Fatalf("Expected message %d to be allowed", i)
		}
	}
	if rl.allow() {
		t.Fatal("Expected bucket to be empty")
	}

	clock.Advance(time.Second/3 + time.Millisecond)
	if !rl.allow() {
		t.Error("Expected one token after a third of the interval")
	}
	if rl.allow() {
		t.Error("Expected only one token to have refilled")
	}

	clock.Advance(time.Hour)
	allowed := 0
	for i := 0; i < 10; i++ {
		if rl.allow() {
			allowed++
		}
	}
	if allowed != 3 {
		t.Errorf("Expected refill capped at capacity 3, got %d", allowed)
	}
}

// TestRateLimiterInvalidParameters verifies that bad parameters are clamped.
func TestRateLimiterInvalidParameters(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	rl := newRateLimiterWithClock(0, 0, clock.Now)

	if !rl.allow() {
		t.Error("Expected first message allowed with capacity clamped to 1")
	}
	if rl.allow() {
		t.Error("Expected second message rejected")
	}
}
