package ui

import (
	"testing"
	"time"

	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPanels() (*Panels, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewPanels(2 * time.Second)
	p.now = clock.Now
	return p, clock
}

func TestPanels_ScreenSwitch(t *testing.T) {
	p, _ := newTestPanels()
	assert.Equal(t, "home", p.View().Screen)

	p.Show(core.PanelChat)
	assert.Equal(t, "chat", p.View().Screen)

	p.Show(core.PanelHome)
	assert.Equal(t, "home", p.View().Screen)
}

func TestPanels_NoticeExpires(t *testing.T) {
	p, clock := newTestPanels()
	p.Flash(core.PanelChannelFull)
	assert.Equal(t, []string{"channel_full"}, p.View().Notices)

	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, []string{"channel_full"}, p.View().Notices)

	clock.Advance(time.Millisecond)
	assert.Empty(t, p.View().Notices)
}

func TestPanels_ReflashRestartsTimer(t *testing.T) {
	p, clock := newTestPanels()
	p.Flash(core.PanelPleaseWait)
	clock.Advance(1500 * time.Millisecond)
	p.Flash(core.PanelPleaseWait)
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"please_wait"}, p.View().Notices)
}

func TestPanels_ShowNoticeFlashes(t *testing.T) {
	p, _ := newTestPanels()
	p.Show(core.PanelPleaseWait)
	p.Flash(core.PanelChannelFull)
	v := p.View()
	assert.Equal(t, "home", v.Screen)
	assert.Equal(t, []string{"channel_full", "please_wait"}, v.Notices)
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "Users in channel: loading...", StatusLine(domain.OccupancyUnknown, 4))
	assert.Equal(t, "Users in channel: error", StatusLine(domain.OccupancyError, 4))
	assert.Equal(t, "Users in channel: 2/4", StatusLine(2, 4))
}
