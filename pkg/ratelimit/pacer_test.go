package ratelimit

import (
	"testing"
	"time"

	"xscraper/pkg/logger"
)

func TestIntervalPacerPausesEveryInterval(t *testing.T) {
	p := NewIntervalPacer("test", 100, time.Second, 3*time.Second, logger.NewNopLogger())

	var pauses int
	p.sleep = func(time.Duration) { pauses++ }

	for i := 0; i < 250; i++ {
		p.Tick()
	}

	if pauses != 2 {
		t.Errorf("expected 2 pauses for 250 ticks at interval 100, got %d", pauses)
	}
}

func TestIntervalPacerDelayBounds(t *testing.T) {
	min := time.Second
	max := 3 * time.Second
	p := NewIntervalPacer("test", 1, min, max, logger.NewNopLogger())

	var delays []time.Duration
	p.sleep = func(d time.Duration) { delays = append(delays, d) }

	for i := 0; i < 50; i++ {
		p.Tick()
	}

	for _, d := range delays {
		if d < min || d > max {
			t.Errorf("delay %v outside [%v, %v]", d, min, max)
		}
	}
}

func TestIntervalPacerDelayIsRandomized(t *testing.T) {
	p := NewIntervalPacer("test", 1, time.Second, 3*time.Second, logger.NewNopLogger())

	seen := make(map[time.Duration]bool)
	p.sleep = func(d time.Duration) { seen[d] = true }

	for i := 0; i < 50; i++ {
		p.Tick()
	}

	if len(seen) < 2 {
		t.Error("expected varied delays across 50 pauses, saw only one value")
	}
}

func TestIntervalPacerEqualBounds(t *testing.T) {
	p := NewIntervalPacer("test", 1, 2*time.Second, 2*time.Second, logger.NewNopLogger())

	var got time.Duration
	p.sleep = func(d time.Duration) { got = d }
	p.Tick()

	if got != 2*time.Second {
		t.Errorf("expected fixed 2s delay when bounds are equal, got %v", got)
	}
}

func TestIntervalPacerReset(t *testing.T) {
	p := NewIntervalPacer("test", 10, time.Second, time.Second, logger.NewNopLogger())

	var pauses int
	p.sleep = func(time.Duration) { pauses++ }

	for i := 0; i < 9; i++ {
		p.Tick()
	}
	p.Reset()
	for i := 0; i < 9; i++ {
		p.Tick()
	}

	if pauses != 0 {
		t.Errorf("expected no pauses after reset before interval, got %d", pauses)
	}
}
