package cartridge

import (
	"bytes"
	"errors"
	"testing"
)

func TestLoadFromReaderRejectsBadMagic(t *testing.T) {
	data := []byte("BAD\x1a" + string(make([]byte, 12)))
	_, err := LoadFromReader(bytes.NewReader(data))
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestLoadFromReaderRejectsZeroPRG(t *testing.T) {
	rom, err := NewROMFixture().PRGBanks(1).Build()
	if err != nil {
		t.Fatal(err)
	}
	rom[4] = 0 // corrupt the PRG-size header field after generation
	_, err = LoadFromReader(bytes.NewReader(rom))
	if !errors.Is(err, ErrZeroPRG) {
		t.Fatalf("expected ErrZeroPRG, got %v", err)
	}
}

func TestLoadFromReaderRejectsUnsupportedMapper(t *testing.T) {
	rom, err := NewROMFixture().Mapper(99).Build()
	if err != nil {
		t.Fatal(err)
	}
	_, err = LoadFromReader(bytes.NewReader(rom))
	if !errors.Is(err, ErrUnsupportedMapper) {
		t.Fatalf("expected ErrUnsupportedMapper, got %v", err)
	}
}

func TestLoadFromReaderMirroring(t *testing.T) {
	cart, err := NewROMFixture().Mirroring(MirrorVertical).Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	if cart.GetMirrorMode() != MirrorVertical {
		t.Fatalf("got mirror mode %v, want vertical", cart.GetMirrorMode())
	}
}

func TestLoadFromReaderFourScreenOverridesVertical(t *testing.T) {
	// Four-screen (flags6 bit 3) takes priority over the horizontal/vertical bit.
	rom, err := NewROMFixture().Mirroring(MirrorFourScreen).Build()
	if err != nil {
		t.Fatal(err)
	}
	rom[6] |= 0x01 // also set the vertical-mirroring bit
	cart, err := LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		t.Fatal(err)
	}
	if cart.GetMirrorMode() != MirrorFourScreen {
		t.Fatalf("got mirror mode %v, want four-screen", cart.GetMirrorMode())
	}
}

func TestCHRRAMWhenCHRSizeZero(t *testing.T) {
	cart, err := NewROMFixture().CHRRAM().Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	cart.WriteCHR(0x0010, 0x42)
	if got := cart.ReadCHR(0x0010); got != 0x42 {
		t.Fatalf("CHR RAM write/read roundtrip failed: got %#x", got)
	}
}

func TestCHRROMWritesIgnored(t *testing.T) {
	cart, err := NewROMFixture().CHRBanks(1).CHRData([]byte{0xAA}).Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	cart.WriteCHR(0x0000, 0xFF)
	if got := cart.ReadCHR(0x0000); got != 0xAA {
		t.Fatalf("expected CHR ROM write to be ignored, got %#x", got)
	}
}

func TestLoadFromReaderSkipsTrainerBlock(t *testing.T) {
	cart, err := NewROMFixture().Trainer([]byte{0xDE, 0xAD, 0xBE, 0xEF}).Code([]uint8{0xEA}).Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	// The trainer lives ahead of PRG ROM in the file; a correctly-skipped
	// trainer means $8000 still holds the NOP placed by Code, not trainer bytes.
	if got := cart.ReadPRG(0x8000); got != 0xEA {
		t.Fatalf("$8000 = %#x, want 0xEA (trainer block not skipped correctly)", got)
	}
}
