package app

import "time"

// Cooldown is a countdown advanced by Tick rather than by the wall clock,
// so it only moves when the owning loop runs.
type Cooldown struct {
	period time.Duration
	left   time.Duration
}

func NewCooldown(period time.Duration) Cooldown {
	return Cooldown{period: period}
}

func (c *Cooldown) Start() { c.left = c.period }

func (c *Cooldown) Tick(dt time.Duration) {
	if c.left <= 0 || dt <= 0 {
		return
	}
	c.left -= dt
	if c.left < 0 {
		c.left = 0
	}
}

func (c *Cooldown) Active() bool { return c.left > 0 }

func (c *Cooldown) Remaining() time.Duration { return c.left }
