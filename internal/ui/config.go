// Package ui presents a running system through an ebiten window: it
// blits the VDP framebuffer once per tick and forwards keyboard state to
// the joypad. Audio, save states, and an in-game menu are all Non-goals
// of this emulator core and have no presence here.
package ui

// Config holds window presentation settings.
type Config struct {
	Title string
	Scale int
}

// Defaults fills unset fields with reasonable values.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "smsemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
