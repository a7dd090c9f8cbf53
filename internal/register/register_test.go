package register

import "testing"

func TestReg8FieldRoundTrip(t *testing.T) {
	for pos := uint8(0); pos < 8; pos++ {
		for width := uint8(1); width <= 8-pos; width++ {
			f := Field{Pos: pos, Width: width}
			for v := 0; v < 256; v++ {
				r := NewReg8(0xFF)
				before := r.Get() &^ (mask8(width) << pos)
				r.SetField(f, uint8(v))
				want := uint8(v) & mask8(width)
				if got := r.Field(f); got != want {
					t.Fatalf("pos=%d width=%d v=%d: got %d want %d", pos, width, v, got, want)
				}
				if got := r.Get() &^ (mask8(width) << pos); got != before {
					t.Fatalf("pos=%d width=%d v=%d: bits outside field changed: got %#x want %#x", pos, width, v, got, before)
				}
			}
		}
	}
}

func TestReg8SetBit(t *testing.T) {
	r := NewReg8(0)
	r.SetBit(3, 1)
	if !r.Bit(3) {
		t.Fatalf("expected bit 3 set")
	}
	if r.Get() != 0x08 {
		t.Fatalf("got %#x want 0x08", r.Get())
	}
	r.SetBit(3, 0)
	if r.Bit(3) {
		t.Fatalf("expected bit 3 clear")
	}
	if r.Get() != 0 {
		t.Fatalf("got %#x want 0", r.Get())
	}
}

func TestReg8WrappingArithmetic(t *testing.T) {
	r := NewReg8(0xFF)
	r.Inc()
	if r.Get() != 0x00 {
		t.Fatalf("expected wraparound to 0, got %#x", r.Get())
	}
	r.Dec()
	if r.Get() != 0xFF {
		t.Fatalf("expected wraparound to 0xFF, got %#x", r.Get())
	}
	r2 := NewReg8(0x80)
	r2.Shl(1)
	if r2.Get() != 0x00 {
		t.Fatalf("expected shift-out to 0, got %#x", r2.Get())
	}
}

func TestReg16FieldRoundTrip(t *testing.T) {
	cases := []Field{
		{Pos: 0, Width: 8},
		{Pos: 8, Width: 7},
		{Pos: 0, Width: 15},
		{Pos: 12, Width: 3},
	}
	for _, f := range cases {
		r := NewReg16(0xFFFF)
		v := uint16(0x2ABD)
		r.SetField(f, v)
		want := v & mask16(f.Width)
		if got := r.Field(f); got != want {
			t.Fatalf("field %+v: got %#x want %#x", f, got, want)
		}
	}
}

func TestReg16WrappingAdd(t *testing.T) {
	r := NewReg16(0xFFFF)
	r.Inc()
	if r.Get() != 0x0000 {
		t.Fatalf("expected wraparound to 0, got %#x", r.Get())
	}
	r.Add(0x10000 - 1)
	if r.Get() != 0xFFFF {
		t.Fatalf("got %#x want 0xffff", r.Get())
	}
}
