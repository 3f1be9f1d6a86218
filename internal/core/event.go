package core

import (
	"time"

	"github.com/dkeye/Channel/internal/domain"
)

// Event is a notification delivered by the Engine.
type Event interface {
	isEvent()
}

type JoinSuccess struct {
	Channel string
	UID     domain.ParticipantID
	Elapsed time.Duration
}

type UserJoined struct {
	UID     domain.ParticipantID
	Elapsed time.Duration
}

type UserOffline struct {
	UID    domain.ParticipantID
	Reason domain.OfflineReason
}

type LeftChannel struct {
	Duration time.Duration
}

type EngineError struct {
	Code    int
	Message string
}

func (JoinSuccess) isEvent() {}
func (UserJoined) isEvent()  {}
func (UserOffline) isEvent() {}
func (LeftChannel) isEvent() {}
func (EngineError) isEvent() {}
