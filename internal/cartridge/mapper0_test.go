package cartridge

import "testing"

func TestMapper0SixteenKBMirroring(t *testing.T) {
	cart, err := NewROMFixture().
		PRGBanks(1).
		Code([]uint8{0xEA}).
		Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	if got := cart.ReadPRG(0x8000); got != cart.ReadPRG(0xC000) {
		t.Fatalf("expected 16KB PRG to mirror: $8000=%#x $C000=%#x", got, cart.ReadPRG(0xC000))
	}
}

func TestMapper0ThirtyTwoKBNotMirrored(t *testing.T) {
	cart, err := NewROMFixture().
		PRGBanks(2).
		PatchAt(0x0000, []uint8{0x11}).
		PatchAt(0x4000, []uint8{0x22}).
		Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	if got := cart.ReadPRG(0x8000); got != 0x11 {
		t.Fatalf("$8000 = %#x, want 0x11", got)
	}
	if got := cart.ReadPRG(0xC000); got != 0x22 {
		t.Fatalf("$C000 = %#x, want 0x22", got)
	}
}

func TestMapper0SRAMReadWrite(t *testing.T) {
	cart, err := NewROMFixture().Battery().Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	cart.WritePRG(0x6000, 0xAA)
	cart.WritePRG(0x7FFF, 0xBB)
	if got := cart.ReadPRG(0x6000); got != 0xAA {
		t.Fatalf("$6000 = %#x, want 0xAA", got)
	}
	if got := cart.ReadPRG(0x7FFF); got != 0xBB {
		t.Fatalf("$7FFF = %#x, want 0xBB", got)
	}
}

func TestMapper0PRGROMWritesIgnored(t *testing.T) {
	cart, err := NewROMFixture().Code([]uint8{0xEA}).Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	before := cart.ReadPRG(0x8000)
	cart.WritePRG(0x8000, before+1)
	if got := cart.ReadPRG(0x8000); got != before {
		t.Fatalf("expected PRG ROM write to be ignored: got %#x want %#x", got, before)
	}
}

func TestMapper0DeclinesBelowSRAMWindow(t *testing.T) {
	cart, err := NewROMFixture().Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	v, ok := cart.mapper.ReadPRG(0x4020)
	if ok {
		t.Fatalf("expected decline for expansion-ROM address, got value %#x", v)
	}
}
