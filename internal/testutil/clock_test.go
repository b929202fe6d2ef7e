// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"
	"time"
)

func TestFakeClockNow(t *testing.T) {
	t.Parallel()

	initial := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initial)

	if !clock.Now().Equal(initial) {
		t.Errorf("expected %v, got %v", initial, clock.Now())
	}
}

func TestFakeClockDefaultReference(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !clock.Now().Equal(want) {
		t.Errorf("expected fixed reference time %v, got %v", want, clock.Now())
	}
}

func TestFakeClockAfterAdvance(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})
	ch := clock.After(3 * time.Second)

	select {
	case <-ch:
		t.Fatal("After() fired before Advance()")
	default:
	}

	clock.Advance(3 * time.Second)

	select {
	case <-ch:
	default:
		t.Fatal("After() did not fire once the target time was reached")
	}
}

func TestFakeClockAfterNonPositive(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})

	select {
	case <-clock.After(0):
	default:
		t.Fatal("After(0) should complete immediately")
	}
}

func TestFakeClockWaits(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})
	clock.Advance(time.Second)
	<-clock.After(0)
	ch := clock.After(3 * time.Second)
	clock.Advance(3 * time.Second)
	<-ch

	waits := clock.Waits()
	if len(waits) != 2 {
		t.Fatalf("expected 2 recorded waits, got %d", len(waits))
	}
	if waits[0] != 0 || waits[1] != 3*time.Second {
		t.Errorf("unexpected waits: %v", waits)
	}
}

func TestFakeClockSince(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})
	start := clock.Now()
	clock.Advance(5 * time.Second)

	if got := clock.Since(start); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}
}
