package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultInterval   = time.Second
	DefaultMaxBackoff = 30 * time.Second
)

// Poller keeps the latest channel occupancy fresh. A failed query stores
// domain.OccupancyError and backs off; it never stops the loop.
type Poller struct {
	source     core.OccupancySource
	interval   time.Duration
	maxBackoff time.Duration

	value atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(source core.OccupancySource, interval, maxBackoff time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxBackoff < interval {
		maxBackoff = max(interval, DefaultMaxBackoff)
	}
	p := &Poller{
		source:     source,
		interval:   interval,
		maxBackoff: maxBackoff,
	}
	p.value.Store(int64(domain.OccupancyUnknown))
	return p
}

// Current is safe to call from any goroutine.
func (p *Poller) Current() domain.Occupancy {
	return domain.Occupancy(p.value.Load())
}

// Start launches the loop. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
	log.Info().Str("module", "app.poll").Dur("interval", p.interval).Msg("poller started")
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info().Str("module", "app.poll").Msg("poller stopped")
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()
	delay := p.interval

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		occ, err := p.source.Query(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.value.Store(int64(domain.OccupancyError))
			log.Error().Err(err).Str("module", "app.poll").Dur("retry_in", delay).Msg("occupancy query failed")
			timer.Reset(delay)
			delay = min(delay*2, p.maxBackoff)
			continue
		}

		if prev := p.Current(); prev != occ {
			log.Debug().Str("module", "app.poll").Int("from", int(prev)).Int("to", int(occ)).Msg("occupancy changed")
		}
		p.value.Store(int64(occ))
		delay = p.interval
		timer.Reset(p.interval)
	}
}
