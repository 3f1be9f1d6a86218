package orch

import (
	"context"
	"errors"

	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
	"github.com/rs/zerolog/log"
)

type Status struct {
	domain.Snapshot
	Occupancy     domain.Occupancy `json:"occupancy"`
	OccupancyText string           `json:"occupancy_text"`
	MaxUsers      int              `json:"max_users"`
	CooldownSecs  float64          `json:"cooldown_seconds"`
}

func (o *Orchestrator) Join(ctx context.Context) (domain.JoinOutcome, error) {
	var (
		outcome domain.JoinOutcome
		err     error
	)
	if e := o.do(ctx, func() { outcome, err = o.join() }); e != nil {
		return outcome, e
	}
	return outcome, err
}

func (o *Orchestrator) join() (domain.JoinOutcome, error) {
	outcome, err := o.Tracker.RequestJoin(o.Occupancy.Current())
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("join")
		return outcome, err
	}
	switch outcome {
	case domain.JoinAccepted:
		o.Panels.Show(core.PanelChat)
	case domain.JoinRejectedFull:
		o.Panels.Flash(core.PanelChannelFull)
	case domain.JoinRejectedCooldown:
		o.Panels.Flash(core.PanelPleaseWait)
	}
	return outcome, nil
}

func (o *Orchestrator) Leave(ctx context.Context) error {
	var err error
	if e := o.do(ctx, func() {
		err = o.Tracker.RequestLeave()
		// A failed engine leave still ends the session; only a leave from
		// idle keeps the current screen.
		if !errors.Is(err, domain.ErrNotInChannel) {
			o.Panels.Show(core.PanelHome)
		}
	}); e != nil {
		return e
	}
	return err
}

func (o *Orchestrator) ToggleMute(ctx context.Context, slot int) (bool, error) {
	var (
		muted bool
		err   error
	)
	if e := o.do(ctx, func() { muted, err = o.Tracker.ToggleMute(slot) }); e != nil {
		return false, e
	}
	return muted, err
}

func (o *Orchestrator) Status(ctx context.Context) (Status, error) {
	var st Status
	err := o.do(ctx, func() {
		occ := o.Occupancy.Current()
		st = Status{
			Snapshot:      o.Tracker.Snapshot(),
			Occupancy:     occ,
			OccupancyText: occ.Display(o.Tracker.MaxUsers()),
			MaxUsers:      o.Tracker.MaxUsers(),
		}
		st.CooldownSecs = st.CooldownRemaining.Seconds()
	})
	return st, err
}
