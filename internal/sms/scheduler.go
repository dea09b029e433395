// Package sms drives the frame-timing loop: it steps a Z80-compatible CPU
// instruction by instruction, accumulates cycles into scanlines, advances
// the VDP's V-counter, raises VBlank and line interrupts, and renders the
// VDP's framebuffer once per frame at scanline 192.
package sms

import "github.com/RetroCodeRamen/smsemu/internal/bus"

const (
	cyclesPerLine  = 228
	linesPerFrame  = 262
	vblankLine     = 192
	haltCycles     = 4 // cycles credited to a Step() that reports HALT (0)
	irqVectorByte  = 0xFF
	ntscVCounterSkip = 218 // above this, the hardware V-counter byte is the line minus ntscSkipAmount
	ntscSkipAmount   = 6
)

// CPU is the minimal surface the scheduler needs from a Z80 core: run one
// instruction and report its cycle cost, read the program counter for
// tracing, and accept a maskable-IRQ assertion. A thin adapter satisfies
// this over github.com/user-none/go-chip-z80's CPU type, keeping this
// package free of a direct dependency on it.
type CPU interface {
	Step() int
	PC() uint16
	AssertIRQ(vector byte)
	ClearIRQ()
}

// Scheduler owns the per-frame state spec.md assigns exclusively to it:
// the raw scanline counter, the cycle accumulator, and the line-interrupt
// countdown register. No other component observes these fields.
type Scheduler struct {
	bus *bus.Bus

	vcounter              int
	cycleAccumulator      int
	lineInterruptCounter  byte

	frameCount int
	tracer     Tracer
}

// New returns a Scheduler driving the given bus.
func New(b *bus.Bus) *Scheduler {
	return &Scheduler{bus: b}
}

// SetTracer installs a diagnostic trace collaborator. A nil tracer (the
// default) disables tracing entirely.
func (s *Scheduler) SetTracer(t Tracer) { s.tracer = t }

// Bus exposes the underlying bus, e.g. so a host can feed joypad input.
func (s *Scheduler) Bus() *bus.Bus { return s.bus }

// Framebuffer returns the VDP's rendered frame, valid after RunFrame
// returns.
func (s *Scheduler) Framebuffer() []uint32 { return s.bus.VDP().Framebuffer() }

// RunFrame drives cpu for exactly one video frame's worth of CPU cycles
// (228 cycles/line * 262 lines), performing scanline bookkeeping,
// interrupt delivery, and the once-per-frame VDP render at scanline 192.
func (s *Scheduler) RunFrame(cpu CPU) {
	const totalFrameCycles = cyclesPerLine * linesPerFrame

	frameCycles := 0
	for frameCycles < totalFrameCycles {
		cycles := cpu.Step()
		if cycles == 0 {
			cycles = haltCycles // HALT: keep the loop moving
		}
		frameCycles += cycles
		s.cycleAccumulator += cycles

		for s.cycleAccumulator >= cyclesPerLine {
			s.cycleAccumulator -= cyclesPerLine
			s.scanlineStep(cpu)
		}
	}
}

func (s *Scheduler) scanlineStep(cpu CPU) {
	v := s.bus.VDP()

	// 1. Line-interrupt logic.
	if s.vcounter <= vblankLine {
		if s.lineInterruptCounter == 0 {
			s.lineInterruptCounter = v.Register(10)
			v.SetLineInterruptFlag()
		} else {
			s.lineInterruptCounter--
		}
	} else {
		s.lineInterruptCounter = v.Register(10)
	}

	// 2. Advance the raw scanline counter.
	s.vcounter++
	if s.vcounter >= linesPerFrame {
		s.vcounter = 0
	}

	// 3. Update the hardware V-counter byte (NTSC skip) and H-counter.
	var hw byte
	if s.vcounter <= ntscVCounterSkip {
		hw = byte(s.vcounter)
	} else {
		hw = byte(s.vcounter - ntscSkipAmount)
	}
	v.SetVCounter(hw)
	v.SetHCounter(0x80)

	// 4. VBlank: render the frame and hand it off.
	if s.vcounter == vblankLine {
		v.SetVBlankFlag()
		s.frameCount++
		if s.tracer != nil && (s.frameCount <= 10 || s.frameCount%60 == 0) {
			s.tracer.Frame(s.frameCount, cpu.PC(), v.Register(0), v.Register(1),
				v.VBlankFlag(), v.LineInterruptFlag(), v.ReadHCounter())
		}
		v.RenderFrame()
	}

	// 5. Evaluate the IRQ condition. The line is level-triggered: assert
	// it while either enabled status flag is pending, clear it otherwise.
	vblankIRQ := v.VBlankFlag() && v.Register(1)&0x20 != 0
	lineIRQ := v.LineInterruptFlag() && v.Register(0)&0x10 != 0
	if vblankIRQ || lineIRQ {
		cpu.AssertIRQ(irqVectorByte)
	} else {
		cpu.ClearIRQ()
	}
}
