package app

import (
	"fmt"
	"time"

	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultCooldown = 5 * time.Second

	volumeMuted  = 0
	volumeNormal = 100
)

// Tracker maps remote participants of one channel onto the renderer's slots
// and gates join attempts. It performs no I/O of its own and is not safe for
// concurrent use: every call must come from the same loop.
type Tracker struct {
	channel  string
	engine   core.Engine
	renderer core.Renderer
	policy   Policy

	state    domain.SessionState
	slots    *Slots
	cooldown Cooldown
}

// NewTracker sizes the slot table from renderer.Slots(). A nil policy means
// SimplePolicy and a non-positive cooldown means DefaultCooldown.
func NewTracker(channel string, engine core.Engine, renderer core.Renderer, policy Policy, cooldown time.Duration) *Tracker {
	if policy == nil {
		policy = SimplePolicy{}
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Tracker{
		channel:  channel,
		engine:   engine,
		renderer: renderer,
		policy:   policy,
		state:    domain.StateIdle,
		slots:    NewSlots(renderer.Slots()),
		cooldown: NewCooldown(cooldown),
	}
}

func (t *Tracker) State() domain.SessionState { return t.state }

func (t *Tracker) Capacity() int { return t.slots.Capacity() }

// MaxUsers counts the local user too.
func (t *Tracker) MaxUsers() int { return t.slots.Capacity() + 1 }

func (t *Tracker) OccupancyCount() int { return t.slots.Count() }

func (t *Tracker) Tick(dt time.Duration) { t.cooldown.Tick(dt) }

// RequestJoin asks the engine to join the channel unless the policy rejects
// the attempt. Rejections are outcomes, not errors.
func (t *Tracker) RequestJoin(occupancy domain.Occupancy) (domain.JoinOutcome, error) {
	if t.state != domain.StateIdle {
		return domain.JoinAccepted, fmt.Errorf("join in state %s: %w", t.state, domain.ErrSessionActive)
	}

	outcome := t.policy.OnJoinRequest(JoinRequest{
		Occupancy: occupancy,
		MaxUsers:  t.MaxUsers(),
		Cooldown:  t.cooldown.Remaining(),
	})
	if outcome != domain.JoinAccepted {
		log.Info().
			Str("module", "app.tracker").
			Str("channel", t.channel).
			Str("outcome", outcome.String()).
			Int("occupancy", int(occupancy)).
			Dur("cooldown", t.cooldown.Remaining()).
			Msg("join rejected")
		return outcome, nil
	}

	t.clearSlots()
	t.state = domain.StateJoining
	t.engine.EnableVideo()
	t.renderer.SetLocalEnabled(true)
	if err := t.engine.JoinChannel(t.channel); err != nil {
		t.engine.DisableVideo()
		t.renderer.SetLocalEnabled(false)
		t.state = domain.StateIdle
		return domain.JoinAccepted, fmt.Errorf("join channel %q: %w", t.channel, err)
	}
	log.Info().Str("module", "app.tracker").Str("channel", t.channel).Msg("joining")
	return domain.JoinAccepted, nil
}

func (t *Tracker) OnJoinConfirmed() error {
	switch t.state {
	case domain.StateJoining:
		t.state = domain.StateJoined
		log.Info().Str("module", "app.tracker").Str("channel", t.channel).Msg("joined")
		return nil
	case domain.StateJoined:
		return nil
	default:
		return fmt.Errorf("join confirmed in state %s: %w", t.state, domain.ErrNotInChannel)
	}
}

// OnParticipantJoined binds id to the first free slot. ErrSlotExhaustion means
// the remote side admitted more users than we can show; the participant is
// left unrendered and the session carries on.
func (t *Tracker) OnParticipantJoined(id domain.ParticipantID) error {
	if t.state != domain.StateJoined {
		return fmt.Errorf("participant %s joined in state %s: %w", id, t.state, domain.ErrNotJoined)
	}

	if idx, ok := t.slots.IndexOf(id); ok {
		action := t.policy.OnDuplicateJoin(id, idx)
		log.Warn().
			Str("module", "app.tracker").
			Str("uid", id.String()).
			Int("slot", idx).
			Bool("overwrite", action == OverwriteSlot).
			Msg("participant joined twice")
		if action == OverwriteSlot {
			if err := t.slots.Overwrite(idx, id); err != nil {
				return err
			}
			t.renderer.Bind(idx, id)
		}
		return nil
	}

	idx, err := t.slots.Assign(id)
	if err != nil {
		log.Error().
			Err(err).
			Str("module", "app.tracker").
			Str("uid", id.String()).
			Int("capacity", t.slots.Capacity()).
			Msg("participant not rendered")
		return fmt.Errorf("participant %s: %w", id, err)
	}
	t.renderer.Bind(idx, id)
	log.Info().Str("module", "app.tracker").Str("uid", id.String()).Int("slot", idx).Msg("participant joined")
	return nil
}

// OnParticipantLeft frees the slot holding id. Unknown ids are ignored.
func (t *Tracker) OnParticipantLeft(id domain.ParticipantID) error {
	if t.state != domain.StateJoined {
		return fmt.Errorf("participant %s left in state %s: %w", id, t.state, domain.ErrNotJoined)
	}
	idx, old, ok := t.slots.Release(id)
	if !ok {
		log.Debug().Str("module", "app.tracker").Str("uid", id.String()).Msg("participant already absent")
		return nil
	}
	t.renderer.Unbind(idx)
	if old.Muted {
		t.restoreVolume(id)
	}
	log.Info().Str("module", "app.tracker").Str("uid", id.String()).Int("slot", idx).Msg("participant left")
	return nil
}

// RequestLeave is accepted from Joining or Joined and always ends in Idle
// with the cooldown running.
func (t *Tracker) RequestLeave() error {
	if t.state == domain.StateIdle || t.state == domain.StateLeaving {
		return fmt.Errorf("leave in state %s: %w", t.state, domain.ErrNotInChannel)
	}
	t.state = domain.StateLeaving
	err := t.engine.LeaveChannel()
	t.reset()
	t.state = domain.StateIdle
	if err != nil {
		return fmt.Errorf("leave channel %q: %w", t.channel, err)
	}
	log.Info().Str("module", "app.tracker").Str("channel", t.channel).Msg("left")
	return nil
}

// OnLeaveConfirmed handles the engine's leave notification. It reports true
// when the leave was not requested by us (kicked, connection lost).
func (t *Tracker) OnLeaveConfirmed() bool {
	if t.state == domain.StateIdle {
		return false
	}
	log.Warn().Str("module", "app.tracker").Str("channel", t.channel).Str("state", t.state.String()).Msg("engine left channel")
	t.reset()
	t.state = domain.StateIdle
	return true
}

func (t *Tracker) ToggleMute(slot int) (bool, error) {
	e, err := t.slots.At(slot)
	if err != nil {
		return false, err
	}
	muted := !e.Muted
	return muted, t.SetMuted(slot, muted)
}

// SetMuted changes the playback volume of the participant in slot.
func (t *Tracker) SetMuted(slot int, muted bool) error {
	if t.state != domain.StateJoined {
		return fmt.Errorf("mute in state %s: %w", t.state, domain.ErrNotJoined)
	}
	e, err := t.slots.At(slot)
	if err != nil {
		return err
	}
	if !e.Occupied {
		return fmt.Errorf("mute slot %d: %w", slot, domain.ErrSlotEmpty)
	}
	volume := volumeNormal
	if muted {
		volume = volumeMuted
	}
	if err := t.engine.AdjustUserPlaybackSignalVolume(e.ID, volume); err != nil {
		return fmt.Errorf("adjust volume for %s: %w", e.ID, err)
	}
	log.Info().Str("module", "app.tracker").Str("uid", e.ID.String()).Int("slot", slot).Bool("muted", muted).Msg("mute changed")
	return t.slots.SetMuted(slot, muted)
}

func (t *Tracker) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		State:             t.state,
		Channel:           t.channel,
		Capacity:          t.slots.Capacity(),
		Occupied:          t.slots.Count(),
		Slots:             t.slots.Snapshot(),
		CooldownRemaining: t.cooldown.Remaining(),
	}
}

// reset tears down everything a session owns and starts the cooldown.
func (t *Tracker) reset() {
	for _, sv := range t.slots.Snapshot() {
		if sv.Occupied && sv.Muted {
			t.restoreVolume(sv.Participant)
		}
	}
	t.clearSlots()
	t.renderer.SetLocalEnabled(false)
	t.engine.DisableVideo()
	t.cooldown.Start()
}

func (t *Tracker) clearSlots() {
	for i := 0; i < t.slots.Capacity(); i++ {
		t.renderer.Unbind(i)
	}
	t.slots.Clear()
}

func (t *Tracker) restoreVolume(id domain.ParticipantID) {
	if err := t.engine.AdjustUserPlaybackSignalVolume(id, volumeNormal); err != nil {
		log.Warn().Err(err).Str("module", "app.tracker").Str("uid", id.String()).Msg("restore volume")
	}
}
