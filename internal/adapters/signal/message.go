package signal

import (
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/Channel/internal/domain"
)

const (
	typeJoin       = "join"
	typeLeave      = "leave"
	typeOffer      = "offer"
	typeCandidate  = "candidate"
	typePing       = "ping"
	typeJoined     = "joined"
	typeUserJoined = "user_joined"
	typeUserOff    = "user_offline"
	typeLeft       = "left"
	typeAnswer     = "answer"
	typeError      = "error"
	typePong       = "pong"
)

// message is the single JSON envelope used in both directions.
type message struct {
	Type          string  `json:"type"`
	Channel       string  `json:"channel,omitempty"`
	UID           uint32  `json:"uid,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	SDP           string  `json:"sdp,omitempty"`
	Candidate     string  `json:"candidate,omitempty"`
	SDPMid        *string `json:"sdpMid,omitempty"`
	SDPMLineIndex *uint16 `json:"sdpMLineIndex,omitempty"`
	Code          int     `json:"code,omitempty"`
	Message       string  `json:"message,omitempty"`
}

// Handler receives server messages from the read pump goroutine.
type Handler interface {
	OnJoined(channel string, uid domain.ParticipantID)
	OnUserJoined(uid domain.ParticipantID)
	OnUserOffline(uid domain.ParticipantID, reason domain.OfflineReason)
	OnLeft()
	OnAnswer(sdp string)
	OnCandidate(c webrtc.ICECandidateInit)
	OnError(code int, message string)
	// OnClosed fires once. err is nil when Close was called locally.
	OnClosed(err error)
}

func candidateMessage(ci webrtc.ICECandidateInit) message {
	return message{
		Type:          typeCandidate,
		Candidate:     ci.Candidate,
		SDPMid:        ci.SDPMid,
		SDPMLineIndex: ci.SDPMLineIndex,
	}
}

func (m message) candidate() webrtc.ICECandidateInit {
	return webrtc.ICECandidateInit{
		Candidate:     m.Candidate,
		SDPMid:        m.SDPMid,
		SDPMLineIndex: m.SDPMLineIndex,
	}
}
