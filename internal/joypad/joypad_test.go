package joypad

import "testing"

func TestJoypad_AllReleased(t *testing.T) {
	j := New()
	if got := j.ReadPortDC(); got != 0xFF {
		t.Fatalf("port DC got %02x want FF", got)
	}
	if got := j.ReadPortDD(); got != 0xFF {
		t.Fatalf("port DD got %02x want FF", got)
	}
}

func TestJoypad_UpOnly(t *testing.T) {
	j := New()
	j.SetButton(Up, true)
	if got := j.ReadPortDC(); got != 0xFE {
		t.Fatalf("port DC got %02x want FE", got)
	}
}

func TestJoypad_UpAndButton2(t *testing.T) {
	j := New()
	j.SetButton(Up, true)
	j.SetButton(Button2, true)
	if got := j.ReadPortDC(); got != 0xDE {
		t.Fatalf("port DC got %02x want DE", got)
	}
}

func TestJoypad_Release(t *testing.T) {
	j := New()
	j.SetRight(true)
	if got := j.ReadPortDC(); got != 0xF7 {
		t.Fatalf("port DC got %02x want F7", got)
	}
	j.SetRight(false)
	if got := j.ReadPortDC(); got != 0xFF {
		t.Fatalf("port DC after release got %02x want FF", got)
	}
}

func TestJoypad_PortDD_NeverChanges(t *testing.T) {
	j := New()
	j.SetButton(Down, true)
	j.SetButton(Left, true)
	if got := j.ReadPortDD(); got != 0xFF {
		t.Fatalf("port DD got %02x want FF", got)
	}
}
