package sms

import "github.com/RetroCodeRamen/smsemu/internal/bus"

// System bundles a bus and its scheduler for a loaded cartridge. The CPU
// itself is constructed by the caller (cmd/smsemu) over System.Bus, since
// only the caller needs to name the concrete go-chip-z80 type.
type System struct {
	Bus       *bus.Bus
	Scheduler *Scheduler
}

// NewSystem loads rom onto a fresh bus and scheduler.
func NewSystem(rom []byte) *System {
	b := bus.New(rom)
	return &System{Bus: b, Scheduler: New(b)}
}

// RunFrame advances the system by one video frame.
func (s *System) RunFrame(cpu CPU) { s.Scheduler.RunFrame(cpu) }

// Framebuffer returns the VDP's current frame.
func (s *System) Framebuffer() []uint32 { return s.Scheduler.Framebuffer() }
