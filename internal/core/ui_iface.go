package core

//go:generate mockgen -source=ui_iface.go -destination=mocks/ui_mock.go -package=mocks

type Panel int

const (
	PanelHome Panel = iota
	PanelChat
	PanelChannelFull
	PanelPleaseWait
)

func (p Panel) String() string {
	switch p {
	case PanelHome:
		return "home"
	case PanelChat:
		return "chat"
	case PanelChannelFull:
		return "channel_full"
	case PanelPleaseWait:
		return "please_wait"
	default:
		return "unknown"
	}
}

// Panels is the UI side of the tracker. No state owned by the core lives here.
type Panels interface {
	// Show switches the active screen (home or chat).
	Show(p Panel)
	// Flash shows a transient notice.
	Flash(p Panel)
}
