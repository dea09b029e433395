package main

import (
	z80 "github.com/user-none/go-chip-z80"

	"github.com/RetroCodeRamen/smsemu/internal/bus"
	"github.com/RetroCodeRamen/smsemu/internal/sms"
)

// z80Adapter satisfies sms.CPU over github.com/user-none/go-chip-z80's CPU,
// translating the scheduler's level-triggered IRQ request into that core's
// SetInterrupt/ClearInterrupt pair.
type z80Adapter struct {
	cpu *z80.CPU
}

func newZ80Adapter(b *bus.Bus) *z80Adapter {
	return &z80Adapter{cpu: z80.New(b)}
}

func (a *z80Adapter) Step() int { return a.cpu.Step() }

func (a *z80Adapter) PC() uint16 { return a.cpu.PC }

func (a *z80Adapter) AssertIRQ(vector byte) {
	a.cpu.SetInterrupt(z80.IM1Interrupt())
}

func (a *z80Adapter) ClearIRQ() { a.cpu.ClearInterrupt() }

var _ sms.CPU = (*z80Adapter)(nil)
