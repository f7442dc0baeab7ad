// Package ratelimit paces outbound request bursts so the remote service's
// rate limiting is never triggered. Collection pauses after every batch of
// accepted items for a randomized delay, which is harder to fingerprint than
// a fixed interval.
package ratelimit

import (
	"math/rand"
	"sync"
	"time"

	"xscraper/pkg/logger"
)

// Pacer is ticked once per processed item and decides when to pause.
type Pacer interface {
	// Tick records one processed item, sleeping if the interval is reached.
	Tick()
	// Reset clears the item counter.
	Reset()
}

// IntervalPacer pauses for a uniformly random duration in [MinDelay,
// MaxDelay] after every Interval ticks. Pauses are plain sleeps with no
// cancellation hook.
type IntervalPacer struct {
	interval int
	minDelay time.Duration
	maxDelay time.Duration
	stage    string
	log      logger.Logger

	mu    sync.Mutex
	count int
	sleep func(time.Duration)
	randn func(int64) int64
}

// NewIntervalPacer creates a pacer that pauses every `interval` ticks for a
// random delay in [minDelay, maxDelay].
func NewIntervalPacer(stage string, interval int, minDelay, maxDelay time.Duration, log logger.Logger) *IntervalPacer {
	if log == nil {
		log = logger.GetLogger()
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &IntervalPacer{
		interval: interval,
		minDelay: minDelay,
		maxDelay: maxDelay,
		stage:    stage,
		log:      log,
		sleep:    time.Sleep,
		randn:    rand.Int63n,
	}
}

// Tick records one processed item and pauses when the interval is reached.
func (p *IntervalPacer) Tick() {
	p.mu.Lock()
	p.count++
	due := p.interval > 0 && p.count%p.interval == 0
	p.mu.Unlock()

	if !due {
		return
	}

	delay := p.nextDelay()
	p.log.DebugWithFields("Pacing pause", map[string]interface{}{
		"stage":    p.stage,
		"delay_ms": delay.Milliseconds(),
	})
	p.sleep(delay)
}

// Reset clears the item counter.
func (p *IntervalPacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count = 0
}

// nextDelay picks a uniform random delay in [minDelay, maxDelay].
func (p *IntervalPacer) nextDelay() time.Duration {
	spread := int64(p.maxDelay - p.minDelay)
	if spread <= 0 {
		return p.minDelay
	}
	return p.minDelay + time.Duration(p.randn(spread+1))
}
