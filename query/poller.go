// ABOUTME: Fixed-interval poller used for eventual-freshness dashboards (pipeline stats, DLQ).
// ABOUTME: Poll errors are logged and swallowed; the next tick retries naturally.
package query

import (
	"context"
	"log"
	"time"
)

// Default polling intervals for the orchestration dashboards.
const (
	StatsPollInterval = 10 * time.Second
	DLQPollInterval   = 15 * time.Second
)

// PollFunc refreshes one query. It is handed the poller's context.
type PollFunc func(ctx context.Context) error

// Poller re-runs a refresh function on a fixed interval. It is a freshness
// aid, not a delivery guarantee: a failed poll is dropped and the next tick
// tries again.
type Poller struct {
	name     string
	interval time.Duration
	fn       PollFunc
}

// NewPoller creates a poller. The name appears in error logs only.
func NewPoller(name string, interval time.Duration, fn PollFunc) *Poller {
	return &Poller{name: name, interval: interval, fn: fn}
}

// Run polls immediately, then on every tick until ctx is cancelled.
// Intended to run as a goroutine.
func (p *Poller) Run(ctx context.Context) {
	if err := p.fn(ctx); err != nil && ctx.Err() == nil {
		log.Printf("poll %s: %v", p.name, err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.fn(ctx); err != nil && ctx.Err() == nil {
				log.Printf("poll %s: %v", p.name, err)
			}
		}
	}
}
