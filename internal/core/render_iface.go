package core

import "github.com/dkeye/Channel/internal/domain"

//go:generate mockgen -source=render_iface.go -destination=mocks/render_mock.go -package=mocks

// Renderer owns the video surfaces. Slot indexes are 0..Slots()-1.
type Renderer interface {
	Slots() int
	SetLocalEnabled(enabled bool)
	// Bind attaches a remote participant to a slot and enables it.
	Bind(slot int, id domain.ParticipantID)
	// Unbind disables a slot.
	Unbind(slot int)
}
