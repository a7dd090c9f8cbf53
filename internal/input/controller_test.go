package input

import "testing"

func TestControllerReadOrderIsMSBFirst(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)
	c.SetButton(ButtonRight, true)

	c.Write(1) // strobe high, latch continuously reloads
	c.Write(0) // strobe low, freeze the latch for serial reading

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1} // A, B, Select, Start, Up, Down, Left, Right
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d: got %d want %d", i, got, w)
		}
	}
}

func TestControllerReadPastEighthBitReturnsOne(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	// Real hardware shift registers read back as 1 once emptied.
	if got := c.Read(); got != 1 {
		t.Fatalf("read 9: got %d want 1", got)
	}
}

func TestControllerStrobeHighAlwaysReturnsButtonA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1) // strobe held high

	for i := 0; i < 5; i++ {
		if got := c.Read(); got != 1 {
			t.Fatalf("read %d while strobed: got %d want 1", i, got)
		}
	}
}

func TestControllerNoButtonsPressed(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		if got := c.Read(); got != 0 {
			t.Fatalf("bit %d: got %d want 0", i, got)
		}
	}
}

func TestInputStateSharesStrobeAcrossPorts(t *testing.T) {
	is := NewInputState()
	is.Controller1.SetButton(ButtonA, true)
	is.Controller2.SetButton(ButtonB, true)

	is.Write(0x4016, 1)
	is.Write(0x4016, 0)

	if got := is.Read(0x4016); got != 1 {
		t.Fatalf("controller 1 bit 0: got %d want 1", got)
	}
	if got := is.Read(0x4017) & 1; got != 0 {
		t.Fatalf("controller 2 bit 0 (A not pressed): got %d want 0", got)
	}
}

func TestInputStatePort2OpenBusBit6(t *testing.T) {
	is := NewInputState()
	if got := is.Read(0x4017); got&0x40 == 0 {
		t.Fatalf("expected bit 6 set on $4017 read, got %#x", got)
	}
}
