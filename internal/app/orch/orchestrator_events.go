package orch

import (
	"errors"

	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
	"github.com/rs/zerolog/log"
)

// OnEvent applies one engine notification. Only call it from the loop.
func (o *Orchestrator) OnEvent(ev core.Event) {
	switch e := ev.(type) {
	case core.JoinSuccess:
		log.Info().Str("module", "orch").Str("channel", e.Channel).Str("uid", e.UID.String()).Dur("elapsed", e.Elapsed).Msg("join success")
		if err := o.Tracker.OnJoinConfirmed(); err != nil {
			log.Warn().Err(err).Str("module", "orch").Msg("stale join confirmation")
		}

	case core.UserJoined:
		err := o.Tracker.OnParticipantJoined(e.UID)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrSlotExhaustion):
			// Degraded: the participant stays in the channel but is not shown.
		default:
			log.Warn().Err(err).Str("module", "orch").Str("uid", e.UID.String()).Msg("user joined dropped")
		}

	case core.UserOffline:
		log.Info().Str("module", "orch").Str("uid", e.UID.String()).Str("reason", e.Reason.String()).Msg("user offline")
		if err := o.Tracker.OnParticipantLeft(e.UID); err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("uid", e.UID.String()).Msg("user offline dropped")
		}

	case core.LeftChannel:
		log.Info().Str("module", "orch").Dur("duration", e.Duration).Msg("left channel")
		if o.Tracker.OnLeaveConfirmed() {
			o.Panels.Show(core.PanelHome)
		}

	case core.EngineError:
		log.Error().Str("module", "orch").Int("code", e.Code).Str("message", e.Message).Msg("rtc engine error")

	default:
		log.Warn().Str("module", "orch").Msgf("unknown event %T", ev)
	}
}
