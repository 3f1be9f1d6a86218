package core

import "github.com/dkeye/Channel/internal/domain"

//go:generate mockgen -source=engine_iface.go -destination=mocks/engine_mock.go -package=mocks

// Engine is the real-time communication engine the tracker drives.
// Calls are requests: they must not block, outcomes come back through Events.
type Engine interface {
	JoinChannel(name string) error
	LeaveChannel() error
	EnableVideo()
	DisableVideo()
	// AdjustUserPlaybackSignalVolume sets playback volume for a remote user, 0..400; 100 is unchanged.
	AdjustUserPlaybackSignalVolume(id domain.ParticipantID, volume int) error
	Events() <-chan Event
}
