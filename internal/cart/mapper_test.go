package cart

import "testing"

func newTestROM(banks int) []byte {
	rom := make([]byte, banks*bankSize)
	for b := 0; b < banks; b++ {
		for i := 0; i < bankSize; i++ {
			rom[b*bankSize+i] = byte(b)
		}
	}
	return rom
}

func TestMapper_FirstKiBAlwaysBank0(t *testing.T) {
	rom := newTestROM(4)
	rom[0x0010] = 0xAB
	m := NewMapper(rom)
	m.Write(0xFFFD, 3) // switch slot 0 bank, should not affect fixed region
	if got := m.Read(0x0010); got != 0xAB {
		t.Fatalf("fixed region got %02x want AB", got)
	}
}

func TestMapper_PadsShortROM(t *testing.T) {
	m := NewMapper([]byte{0x01, 0x02})
	if got := m.Read(0x0000); got != 0x01 {
		t.Fatalf("byte 0 got %02x want 01", got)
	}
	if got := m.Read(0x0002); got != 0x00 {
		t.Fatalf("padded byte got %02x want 00", got)
	}
}

func TestMapper_OutOfRangeBankReadsFF(t *testing.T) {
	m := NewMapper(newTestROM(3))
	m.Write(0xFFFD, 200)
	if got := m.Read(0x0400); got != 0xFF {
		t.Fatalf("out-of-range bank read got %02x want FF", got)
	}
}

// S1: mapper register write (spec.md scenario S1).
func TestMapper_S1_RomBank1Write(t *testing.T) {
	rom := newTestROM(8)
	m := NewMapper(rom)
	m.Write(0xFFFE, 0x05)
	got := m.Read(0x4000)
	want := rom[0x05*bankSize]
	if got != want {
		t.Fatalf("slot 1 bank 5 read got %02x want %02x", got, want)
	}
}

// S2: cart RAM page switching (spec.md scenario S2).
func TestMapper_S2_CartRAMPages(t *testing.T) {
	m := NewMapper(newTestROM(4))

	m.Write(0xFFFC, 0x08) // enable RAM, page 0
	m.Write(0x8000, 0xAB)
	if got := m.Read(0x8000); got != 0xAB {
		t.Fatalf("page 0 read got %02x want AB", got)
	}

	m.Write(0xFFFC, 0x0C) // enable RAM, page 1
	if got := m.Read(0x8000); got != 0x00 {
		t.Fatalf("fresh page 1 read got %02x want 00", got)
	}
	m.Write(0x8000, 0xCD)

	m.Write(0xFFFC, 0x08) // back to page 0
	if got := m.Read(0x8000); got != 0xAB {
		t.Fatalf("page 0 after switch got %02x want AB", got)
	}

	m.Write(0xFFFC, 0x0C)
	if got := m.Read(0x8000); got != 0xCD {
		t.Fatalf("page 1 after switch got %02x want CD", got)
	}
}

func TestMapper_RAMDisabledFallsBackToROM(t *testing.T) {
	rom := newTestROM(4)
	m := NewMapper(rom)
	m.Write(0x8000, 0x11) // RAM disabled: ignored
	if got := m.Read(0x8000); got != rom[2*bankSize] {
		t.Fatalf("slot 2 default bank got %02x want %02x", got, rom[2*bankSize])
	}
}

func TestMapper_CRC32Stable(t *testing.T) {
	rom := newTestROM(4)
	m1 := NewMapper(rom)
	m2 := NewMapper(rom)
	if m1.CRC32() != m2.CRC32() {
		t.Fatalf("CRC32 differs across identical ROMs")
	}
	m1.Write(0xFFFD, 1) // register writes must not change the checksum
	if m1.CRC32() != m2.CRC32() {
		t.Fatalf("CRC32 changed after register write")
	}
}
