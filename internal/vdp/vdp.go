// Package vdp implements the TMS9918-derived Master System Video Display
// Processor: the two-byte control-port state machine, VRAM/CRAM address
// register with auto-increment and delayed read buffer, and the
// background/sprite renderer that draws a full frame into a 256x192 ARGB
// framebuffer once per VBlank.
package vdp

const (
	vramSize = 0x4000
	cramSize = 0x20
	regCount = 16
	ScreenW  = 256
	ScreenH  = 192
	addrMask = 0x3FFF
)

// mode tracks what a data-port access does, set by the second control byte.
type mode int

const (
	modeVRAMRead mode = iota
	modeVRAMWrite
	modeCRAMWrite
)

// VDP holds all video state: VRAM, CRAM, the sixteen registers, the
// control-port latch/address state machine, and the rendered framebuffer.
type VDP struct {
	vram      [vramSize]byte
	cram      [cramSize]byte
	registers [regCount]byte

	framebuffer [ScreenW * ScreenH]uint32

	controlWord       uint16
	firstByteReceived bool
	addressRegister   uint16
	mode              mode
	readBuffer        byte

	vblankFlag        bool
	lineInterruptFlag bool
	vCounter          byte
	hCounter          byte
}

// New returns a VDP with all memory and registers zeroed and the
// framebuffer opaque black.
func New() *VDP {
	v := &VDP{}
	for i := range v.framebuffer {
		v.framebuffer[i] = 0xFF000000
	}
	return v
}

// Register returns the current value of VDP register n (0-15).
func (v *VDP) Register(n int) byte {
	if n < 0 || n >= regCount {
		return 0
	}
	return v.registers[n]
}

// Address returns the current VRAM/CRAM address register (always < 0x4000).
func (v *VDP) Address() uint16 { return v.addressRegister }

// VBlankFlag reports the current VBlank status flag without clearing it.
func (v *VDP) VBlankFlag() bool { return v.vblankFlag }

// LineInterruptFlag reports the current line-interrupt status flag without
// clearing it.
func (v *VDP) LineInterruptFlag() bool { return v.lineInterruptFlag }

// SetVBlankFlag is used by the frame scheduler to signal the start of
// VBlank at scanline 192.
func (v *VDP) SetVBlankFlag() { v.vblankFlag = true }

// SetLineInterruptFlag is used by the frame scheduler's line-interrupt
// counter logic.
func (v *VDP) SetLineInterruptFlag() { v.lineInterruptFlag = true }

// ClearLineInterruptFlag clears the line-interrupt flag outside of a
// status-port read. The scheduler's reload path sets the flag and never
// calls this.
func (v *VDP) ClearLineInterruptFlag() { v.lineInterruptFlag = false }

// SetVCounter and SetHCounter let the scheduler latch the hardware
// scanline/dot counters exposed on ports $7E/$7F.
func (v *VDP) SetVCounter(value byte) { v.vCounter = value }
func (v *VDP) SetHCounter(value byte) { v.hCounter = value }

// Framebuffer returns the 256x192 ARGB pixel buffer, row-major, valid
// between RenderFrame calls.
func (v *VDP) Framebuffer() []uint32 { return v.framebuffer[:] }

// ReadVCounter serves I/O port $7E.
func (v *VDP) ReadVCounter() byte { return v.vCounter }

// ReadHCounter serves I/O port $7F.
func (v *VDP) ReadHCounter() byte { return v.hCounter }

// ReadControl serves I/O port $BF reads: returns the status byte (bit 7 =
// VBlank), then clears both status flags and the control-port latch.
func (v *VDP) ReadControl() byte {
	var status byte
	if v.vblankFlag {
		status |= 0x80
	}
	v.vblankFlag = false
	v.lineInterruptFlag = false
	v.firstByteReceived = false
	return status
}

// WriteControl serves I/O port $BF writes, advancing the two-byte control
// latch state machine described in spec.md §4.3.
func (v *VDP) WriteControl(value byte) {
	if !v.firstByteReceived {
		v.controlWord = (v.controlWord & 0xFF00) | uint16(value)
		v.firstByteReceived = true
		return
	}
	v.controlWord = (v.controlWord & 0x00FF) | (uint16(value) << 8)
	v.firstByteReceived = false

	command := value >> 6
	switch command {
	case 0: // set address, VRAM read, prefetch
		v.addressRegister = v.controlWord & addrMask
		v.mode = modeVRAMRead
		v.readBuffer = v.vram[v.addressRegister]
		v.addressRegister = (v.addressRegister + 1) & addrMask
	case 1: // set address, VRAM write
		v.addressRegister = v.controlWord & addrMask
		v.mode = modeVRAMWrite
	case 2: // register write
		regIndex := value & 0x0F
		if regIndex <= 10 {
			v.registers[regIndex] = byte(v.controlWord & 0x00FF)
		}
		v.mode = modeVRAMRead
	case 3: // set address, CRAM write
		v.addressRegister = v.controlWord & addrMask
		v.mode = modeCRAMWrite
	}
}

// ReadData serves I/O port $BD/$BE reads ($BD is a mirror of $BE).
func (v *VDP) ReadData() byte {
	v.firstByteReceived = false
	data := v.readBuffer
	v.readBuffer = v.vram[v.addressRegister]
	v.addressRegister = (v.addressRegister + 1) & addrMask
	return data
}

// WriteData serves I/O port $BD/$BE writes.
func (v *VDP) WriteData(value byte) {
	v.firstByteReceived = false
	if v.mode == modeCRAMWrite {
		v.cram[v.addressRegister&0x1F] = value
	} else {
		v.vram[v.addressRegister] = value
		v.readBuffer = value
	}
	v.addressRegister = (v.addressRegister + 1) & addrMask
}

// getColor decodes a CRAM entry (--bbggrr, 6 bits) into opaque ARGB.
func (v *VDP) getColor(cramAddr int) uint32 {
	b := v.cram[cramAddr&0x1F]
	r := uint32(b&0x03) * 85
	g := uint32((b>>2)&0x03) * 85
	bl := uint32((b>>4)&0x03) * 85
	return 0xFF000000 | (r << 16) | (g << 8) | bl
}

// RenderFrame draws the full background and sprite layers into the
// framebuffer. Per spec.md, this happens once per frame at scanline 192,
// not per scanline: mid-frame register or VRAM changes are not honored.
func (v *VDP) RenderFrame() {
	v.renderBackground()
	v.renderSprites()
}

func (v *VDP) renderBackground() {
	nameTableBase := int(v.registers[2]&0x0E) << 10
	scrollX := int(v.registers[8])
	scrollY := int(v.registers[9])

	for sy := 0; sy < ScreenH; sy++ {
		bgY := (sy + scrollY) % 224
		row := bgY / 8
		tileY := bgY % 8

		for sx := 0; sx < ScreenW; sx++ {
			bgX := (ScreenW - scrollX + sx) % ScreenW
			col := bgX / 8
			tileX := bgX % 8

			ntAddr := nameTableBase + (row*32+col)*2
			lo := uint16(v.vram[ntAddr&addrMask])
			hi := uint16(v.vram[(ntAddr+1)&addrMask])
			word := lo | (hi << 8)

			tileIndex := int(word & 0x01FF)
			hFlip := word&0x0200 != 0
			vFlip := word&0x0400 != 0
			paletteBank := 0
			if word&0x0800 != 0 {
				paletteBank = 16
			}

			tileBase := tileIndex * 32
			yOffset := tileY
			if vFlip {
				yOffset = 7 - tileY
			}
			plane0 := v.vram[(tileBase+yOffset*4)&addrMask]
			plane1 := v.vram[(tileBase+yOffset*4+1)&addrMask]
			plane2 := v.vram[(tileBase+yOffset*4+2)&addrMask]
			plane3 := v.vram[(tileBase+yOffset*4+3)&addrMask]

			bitOffset := 7 - tileX
			if hFlip {
				bitOffset = tileX
			}
			mask := byte(1) << uint(bitOffset)

			colorIndex := 0
			if plane0&mask != 0 {
				colorIndex |= 1
			}
			if plane1&mask != 0 {
				colorIndex |= 2
			}
			if plane2&mask != 0 {
				colorIndex |= 4
			}
			if plane3&mask != 0 {
				colorIndex |= 8
			}

			v.framebuffer[sy*ScreenW+sx] = v.getColor(paletteBank + colorIndex)
		}
	}
}

func (v *VDP) renderSprites() {
	satBase := int(v.registers[5]&0x7E) << 7
	spriteTileBase := int(v.registers[6]&0x04) << 11
	is8x16 := v.registers[1]&0x02 != 0
	spriteHeight := 8
	if is8x16 {
		spriteHeight = 16
	}

	for i := 0; i < 64; i++ {
		y := v.vram[(satBase+i)&addrMask]
		if y == 208 {
			break
		}
		actualY := (int(y) + 1) % 256

		x := int(v.vram[(satBase+0x80+i*2)&addrMask])
		tile := v.vram[(satBase+0x80+i*2+1)&addrMask]
		if is8x16 {
			tile &= 0xFE
		}

		for row := 0; row < spriteHeight; row++ {
			drawY := actualY + row
			if drawY >= ScreenH {
				continue
			}

			currentTile := int(tile) + row/8
			lineInTile := row % 8
			tileAddr := spriteTileBase + currentTile*32
			plane0 := v.vram[(tileAddr+lineInTile*4)&addrMask]
			plane1 := v.vram[(tileAddr+lineInTile*4+1)&addrMask]
			plane2 := v.vram[(tileAddr+lineInTile*4+2)&addrMask]
			plane3 := v.vram[(tileAddr+lineInTile*4+3)&addrMask]

			for col := 0; col < 8; col++ {
				drawX := x + col
				if drawX >= ScreenW {
					continue
				}

				bitOffset := 7 - col
				mask := byte(1) << uint(bitOffset)
				colorIndex := 0
				if plane0&mask != 0 {
					colorIndex |= 1
				}
				if plane1&mask != 0 {
					colorIndex |= 2
				}
				if plane2&mask != 0 {
					colorIndex |= 4
				}
				if plane3&mask != 0 {
					colorIndex |= 8
				}
				if colorIndex == 0 {
					continue
				}
				v.framebuffer[drawY*ScreenW+drawX] = v.getColor(16 + colorIndex)
			}
		}
	}
}
