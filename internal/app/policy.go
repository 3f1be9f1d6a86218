package app

import (
	"time"

	"github.com/dkeye/Channel/internal/domain"
)

type DuplicateAction int

const (
	OverwriteSlot DuplicateAction = iota
	IgnoreJoin
)

type JoinRequest struct {
	Occupancy domain.Occupancy
	MaxUsers  int
	Cooldown  time.Duration
}

type Policy interface {
	OnJoinRequest(req JoinRequest) domain.JoinOutcome
	OnDuplicateJoin(id domain.ParticipantID, slot int) DuplicateAction
}

// SimplePolicy checks the cooldown first, then capacity. An occupancy that is
// still loading or failed does not block a join.
type SimplePolicy struct{}

func (SimplePolicy) OnJoinRequest(req JoinRequest) domain.JoinOutcome {
	if req.Cooldown > 0 {
		return domain.JoinRejectedCooldown
	}
	if req.Occupancy.Known() && int(req.Occupancy) >= req.MaxUsers {
		return domain.JoinRejectedFull
	}
	return domain.JoinAccepted
}

func (SimplePolicy) OnDuplicateJoin(id domain.ParticipantID, slot int) DuplicateAction {
	return OverwriteSlot
}
