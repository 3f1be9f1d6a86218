package ui

import (
	"slices"
	"sync"
	"time"

	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultNoticeDuration = 2 * time.Second

// View is what a front end should display right now.
type View struct {
	Screen  string   `json:"screen"`
	Notices []string `json:"notices"`
}

// Panels is the headless UI model: one active screen plus transient notices.
// Safe for concurrent use; the orchestrator writes, the HTTP API reads.
type Panels struct {
	mu      sync.RWMutex
	screen  core.Panel
	notices map[core.Panel]time.Time
	ttl     time.Duration
	now     func() time.Time
}

func NewPanels(noticeDuration time.Duration) *Panels {
	if noticeDuration <= 0 {
		noticeDuration = DefaultNoticeDuration
	}
	return &Panels{
		screen:  core.PanelHome,
		notices: make(map[core.Panel]time.Time),
		ttl:     noticeDuration,
		now:     time.Now,
	}
}

func (p *Panels) Show(panel core.Panel) {
	if panel != core.PanelHome && panel != core.PanelChat {
		p.Flash(panel)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.screen != panel {
		log.Info().Str("module", "adapters.ui").Str("from", p.screen.String()).Str("to", panel.String()).Msg("screen changed")
	}
	p.screen = panel
}

// Flash shows a notice for the configured duration; flashing it again restarts the timer.
func (p *Panels) Flash(panel core.Panel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices[panel] = p.now().Add(p.ttl)
	log.Debug().Str("module", "adapters.ui").Str("notice", panel.String()).Msg("notice shown")
}

func (p *Panels) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	v := View{Screen: p.screen.String(), Notices: []string{}}
	for panel, until := range p.notices {
		if !now.Before(until) {
			delete(p.notices, panel)
			continue
		}
		v.Notices = append(v.Notices, panel.String())
	}
	slices.Sort(v.Notices)
	return v
}

func StatusLine(occ domain.Occupancy, maxUsers int) string {
	return "Users in channel: " + occ.Display(maxUsers)
}
