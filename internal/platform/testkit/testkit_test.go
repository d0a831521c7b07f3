package testkit

import (
	"testing"
	"time"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() {
		panic("boom")
	})
}

func TestWaitFor(t *testing.T) {
	t.Parallel()

	n := 0
	WaitFor(t, time.Second, func() bool { n++; return n >= 3 }, "three polls")
	if n < 3 {
		t.Fatalf("WaitFor returned early, n=%d", n)
	}
}

func TestFakeClock(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.October, 17, 23, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)
	c.Advance(2 * time.Hour)
	if got := c.Now(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("Advance: got %v", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Set: got %v", c.Now())
	}
}
