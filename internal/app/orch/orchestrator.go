package orch

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Channel/internal/app"
	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultTick = 50 * time.Millisecond

var ErrStopped = errors.New("orchestrator stopped")

type OccupancyReader interface {
	Current() domain.Occupancy
}

// Orchestrator serializes everything that touches the tracker onto a single
// goroutine: engine events, ticks, and commands from the control API.
type Orchestrator struct {
	Tracker   *app.Tracker
	Panels    core.Panels
	Occupancy OccupancyReader

	events  <-chan core.Event
	tick    time.Duration
	exec    chan func()
	stopped chan struct{}
}

func New(tracker *app.Tracker, events <-chan core.Event, panels core.Panels, occupancy OccupancyReader, tick time.Duration) *Orchestrator {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Orchestrator{
		Tracker:   tracker,
		Panels:    panels,
		Occupancy: occupancy,
		events:    events,
		tick:      tick,
		exec:      make(chan func()),
		stopped:   make(chan struct{}),
	}
}

// Run blocks until ctx is done, then leaves any active channel.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.stopped)

	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()
	last := time.Now()
	events := o.events

	log.Info().Str("module", "orch").Dur("tick", o.tick).Msg("loop started")
	for {
		select {
		case <-ctx.Done():
			o.teardown()
			log.Info().Str("module", "orch").Msg("loop stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				log.Warn().Str("module", "orch").Msg("engine event stream closed")
				events = nil
				continue
			}
			o.OnEvent(ev)
		case fn := <-o.exec:
			fn()
		case now := <-ticker.C:
			o.Tracker.Tick(now.Sub(last))
			last = now
		}
	}
}

// do runs fn on the loop goroutine and waits for it.
func (o *Orchestrator) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case o.exec <- func() { fn(); close(done) }:
	case <-o.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

func (o *Orchestrator) teardown() {
	if o.Tracker.State() == domain.StateIdle {
		return
	}
	if err := o.Tracker.RequestLeave(); err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("leave on shutdown")
	}
	o.Panels.Show(core.PanelHome)
}
