// Package domain holds the channel client's entities and sentinel errors.
package domain

import (
	"errors"
	"strconv"
)

var (
	ErrSlotExhaustion = errors.New("no free slot for participant")
	ErrNotJoined      = errors.New("session is not joined")
	ErrSessionActive  = errors.New("session already active")
	ErrNotInChannel   = errors.New("not in channel")
	ErrSlotIndex      = errors.New("slot index out of range")
	ErrSlotEmpty      = errors.New("slot is empty")
)

// ParticipantID is assigned by the remote signaling system.
type ParticipantID uint32

func (id ParticipantID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseParticipantID accepts the decimal form used by stream ids and the wire protocol.
func ParseParticipantID(s string) (ParticipantID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return ParticipantID(v), nil
}

type OfflineReason int

const (
	OfflineQuit OfflineReason = iota
	OfflineDropped
	OfflineBecomeAudience
)

func (r OfflineReason) String() string {
	switch r {
	case OfflineQuit:
		return "quit"
	case OfflineDropped:
		return "dropped"
	case OfflineBecomeAudience:
		return "become_audience"
	default:
		return "unknown"
	}
}

// ParseOfflineReason maps the wire name back to a reason. Unknown names count as a drop.
func ParseOfflineReason(s string) OfflineReason {
	switch s {
	case "quit":
		return OfflineQuit
	case "become_audience":
		return OfflineBecomeAudience
	default:
		return OfflineDropped
	}
}
