// Package bus routes CPU memory and I/O operations to the cartridge
// mapper, the VDP's control/data ports, and the joypad, and owns the
// 8 KiB of system work RAM the mapper does not.
package bus

import (
	"github.com/RetroCodeRamen/smsemu/internal/cart"
	"github.com/RetroCodeRamen/smsemu/internal/joypad"
	"github.com/RetroCodeRamen/smsemu/internal/vdp"
)

const workRAMSize = 0x2000 // 8 KiB, $C000-$DFFF, mirrored at $E000-$FFFF

// Bus aggregates the mapper, VDP, and joypad by exclusive ownership and
// exposes the four CPU-facing operations (memory read/write, port
// read/write) a Z80 core needs. It is the single logical mutator for
// each of its children; nothing outside the frame scheduler's single
// goroutine ever touches it.
type Bus struct {
	mapper *cart.Mapper
	vdp    *vdp.VDP
	joypad *joypad.Joypad

	workRAM [workRAMSize]byte
}

// New wires a Bus over the given ROM image.
func New(rom []byte) *Bus {
	return &Bus{
		mapper: cart.NewMapper(rom),
		vdp:    vdp.New(),
		joypad: joypad.New(),
	}
}

// VDP exposes the VDP for the frame scheduler to drive rendering and
// interrupt/counter bookkeeping.
func (b *Bus) VDP() *vdp.VDP { return b.vdp }

// Joypad exposes the joypad so a host can report button state.
func (b *Bus) Joypad() *joypad.Joypad { return b.joypad }

// Mapper exposes the cartridge mapper, e.g. for CRC32 diagnostics.
func (b *Bus) Mapper() *cart.Mapper { return b.mapper }

// ReadMemory serves a CPU memory read.
func (b *Bus) ReadMemory(addr uint16) byte {
	if addr >= 0xC000 {
		return b.workRAM[(addr-0xC000)&(workRAMSize-1)]
	}
	return b.mapper.Read(addr)
}

// WriteMemory serves a CPU memory write. Writes to $E000-$FFFF always
// mirror into work RAM, independent of whether the address also lands on
// a mapper register (spec.md invariant 4).
func (b *Bus) WriteMemory(addr uint16, value byte) {
	if addr >= 0xC000 {
		b.workRAM[(addr-0xC000)&(workRAMSize-1)] = value
		if addr >= 0xFFFC {
			b.mapper.Write(addr, value)
		}
		return
	}
	b.mapper.Write(addr, value)
}

// ReadPort serves a CPU I/O port read. Only the low 8 bits of addr
// matter; the rest is ignored, matching real Z80 IN timing semantics.
func (b *Bus) ReadPort(addr uint16) byte {
	switch byte(addr) {
	case 0x7E:
		return b.vdp.ReadVCounter()
	case 0x7F:
		return b.vdp.ReadHCounter()
	case 0xBD, 0xBE:
		return b.vdp.ReadData()
	case 0xBF:
		return b.vdp.ReadControl()
	case 0xDC:
		return b.joypad.ReadPortDC()
	case 0xDD:
		return b.joypad.ReadPortDD()
	default:
		return 0xFF
	}
}

// WritePort serves a CPU I/O port write.
func (b *Bus) WritePort(addr uint16, value byte) {
	switch byte(addr) {
	case 0xBD, 0xBE:
		b.vdp.WriteData(value)
	case 0xBF:
		b.vdp.WriteControl(value)
	case 0x3E, 0x3F:
		// System memory control / I/O control: accepted, no effect.
	}
}
