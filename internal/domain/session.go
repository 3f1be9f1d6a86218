package domain

import "time"

type SessionState int

const (
	StateIdle SessionState = iota
	StateJoining
	StateJoined
	StateLeaving
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateLeaving:
		return "leaving"
	default:
		return "unknown"
	}
}

func (s SessionState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type JoinOutcome int

const (
	JoinAccepted JoinOutcome = iota
	JoinRejectedFull
	JoinRejectedCooldown
)

func (o JoinOutcome) String() string {
	switch o {
	case JoinAccepted:
		return "accepted"
	case JoinRejectedFull:
		return "rejected_full"
	case JoinRejectedCooldown:
		return "rejected_cooldown"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of the session for APIs.
type Snapshot struct {
	State             SessionState  `json:"state"`
	Channel           string        `json:"channel"`
	Capacity          int           `json:"capacity"`
	Occupied          int           `json:"occupied"`
	Slots             []SlotView    `json:"slots"`
	CooldownRemaining time.Duration `json:"-"`
}

func (o JoinOutcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
