package sms

import (
	"testing"

	"github.com/RetroCodeRamen/smsemu/internal/bus"
)

// fakeCPU steps a fixed number of cycles per call and records every IRQ
// assertion, standing in for the real go-chip-z80 adapter in tests.
type fakeCPU struct {
	cyclesPerStep int
	pc            uint16
	irqCount      int
}

func (c *fakeCPU) Step() int {
	c.pc += 1
	return c.cyclesPerStep
}

func (c *fakeCPU) PC() uint16 { return c.pc }

func (c *fakeCPU) AssertIRQ(vector byte) {
	if vector != 0xFF {
		panic("unexpected IRQ vector")
	}
	c.irqCount++
}

func (c *fakeCPU) ClearIRQ() {}

func newTestBus() *bus.Bus {
	rom := make([]byte, 2*0x4000)
	return bus.New(rom)
}

// S5: VBlank IRQ fires once enabled and VBlank is reached.
func TestScheduler_S5_VBlankIRQ(t *testing.T) {
	b := newTestBus()
	b.VDP().WriteControl(0x20)
	b.VDP().WriteControl(0x81) // register 1 = 0x20: enable VBlank IRQ

	s := New(b)
	cpu := &fakeCPU{cyclesPerStep: 4}
	s.RunFrame(cpu)

	if cpu.irqCount == 0 {
		t.Fatalf("expected at least one VBlank IRQ assertion over a full frame")
	}
}

func TestScheduler_NoIRQWithoutEnable(t *testing.T) {
	b := newTestBus()
	s := New(b)
	cpu := &fakeCPU{cyclesPerStep: 4}
	s.RunFrame(cpu)

	if cpu.irqCount != 0 {
		t.Fatalf("expected no IRQ assertions with both enables clear, got %d", cpu.irqCount)
	}
}

// S6: with register 10 = 2, a line interrupt recurs every 3 scanlines
// within the active display (vcounter 0-192).
func TestScheduler_S6_LineInterruptEvery3Lines(t *testing.T) {
	b := newTestBus()
	b.VDP().WriteControl(0x02)
	b.VDP().WriteControl(0x8A) // register 10 = 2
	b.VDP().WriteControl(0x10)
	b.VDP().WriteControl(0x80) // register 0 = 0x10: enable line IRQ

	s := New(b)
	cpu := &fakeCPU{cyclesPerStep: 4}

	fires := 0
	for line := 0; line < 192; line++ {
		// Acknowledge like an interrupt handler would: the flag stays
		// latched until the status port is read.
		b.VDP().ReadControl()
		before := b.VDP().LineInterruptFlag()
		s.scanlineStep(cpu)
		if !before && b.VDP().LineInterruptFlag() {
			fires++
		}
	}

	// Counter starts at 0 on line 0 (immediate reload+flag), then every
	// 3rd line thereafter: lines 0, 3, 6, ... 189 => 64 fires.
	if fires < 60 || fires > 66 {
		t.Fatalf("expected roughly every-3rd-line firing, got %d fires over 192 lines", fires)
	}
}

func TestScheduler_RunFrame_RendersOnce(t *testing.T) {
	b := newTestBus()
	// One full frame passes the VBlank line (and so renders) exactly once
	// and wraps the scanline counter back to 0.
	b.VDP().WriteControl(0x10)
	b.VDP().WriteControl(0x8A) // register 10, irrelevant here

	s := New(b)
	cpu := &fakeCPU{cyclesPerStep: 4}
	s.RunFrame(cpu)

	if s.frameCount != 1 {
		t.Fatalf("VBlank render count got %d want 1", s.frameCount)
	}
	if s.vcounter != 0 {
		t.Fatalf("vcounter after one frame got %d want 0", s.vcounter)
	}
	fb := s.Framebuffer()
	if len(fb) != 256*192 {
		t.Fatalf("framebuffer size got %d want %d", len(fb), 256*192)
	}
}
