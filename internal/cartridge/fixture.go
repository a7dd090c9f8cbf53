package cartridge

import (
	"bytes"
	"fmt"
)

// romFixture holds everything needed to assemble an in-memory iNES image:
// enough header configuration to drive every branch of LoadFromReader's
// parser, plus a sparse byte patch so tests can drop hand-assembled 6502
// code and data at arbitrary PRG offsets without building a full binary.
type romFixture struct {
	prgBanks  uint8
	chrBanks  uint8
	mapperID  uint8
	mirroring MirrorMode
	battery   bool
	trainer   []uint8 // nil means no trainer block

	patch map[uint16]uint8
	chr   []uint8

	reset, irq, nmi uint16
}

// ROMFixtureBuilder assembles a minimal iNES image in memory for tests
// that need a real *Cartridge without a ROM file on disk: each call
// configures one header field or PRG/CHR payload, mirroring the header
// layout LoadFromReader parses in internal/cartridge/cartridge.go.
type ROMFixtureBuilder struct {
	f romFixture
}

// NewROMFixture starts a one-bank NROM image with horizontal mirroring
// and all three interrupt vectors pointed at $8000, the simplest ROM
// LoadFromReader will accept.
func NewROMFixture() *ROMFixtureBuilder {
	return &ROMFixtureBuilder{f: romFixture{
		prgBanks:  1,
		chrBanks:  1,
		mirroring: MirrorHorizontal,
		patch:     make(map[uint16]uint8),
		reset:     0x8000,
		irq:       0x8000,
		nmi:       0x8000,
	}}
}

// PRGBanks sets the PRG ROM size in 16KiB units.
func (b *ROMFixtureBuilder) PRGBanks(n uint8) *ROMFixtureBuilder {
	b.f.prgBanks = n
	return b
}

// CHRBanks sets the CHR ROM size in 8KiB units.
func (b *ROMFixtureBuilder) CHRBanks(n uint8) *ROMFixtureBuilder {
	b.f.chrBanks = n
	return b
}

// CHRRAM configures the image to declare zero CHR ROM banks, the iNES
// convention for "this board supplies its own CHR RAM".
func (b *ROMFixtureBuilder) CHRRAM() *ROMFixtureBuilder {
	b.f.chrBanks = 0
	return b
}

// Mapper sets the iNES mapper number split across flags6/flags7.
func (b *ROMFixtureBuilder) Mapper(id uint8) *ROMFixtureBuilder {
	b.f.mapperID = id
	return b
}

// Mirroring sets the nametable mirroring mode recorded in flags6.
func (b *ROMFixtureBuilder) Mirroring(m MirrorMode) *ROMFixtureBuilder {
	b.f.mirroring = m
	return b
}

// Battery marks the image as having battery-backed PRG-RAM (flags6 bit 1).
func (b *ROMFixtureBuilder) Battery() *ROMFixtureBuilder {
	b.f.battery = true
	return b
}

// Trainer adds a 512-byte trainer block ahead of PRG ROM, truncating or
// zero-padding data to fit, exercising LoadFromReader's trainer-skip path.
func (b *ROMFixtureBuilder) Trainer(data []uint8) *ROMFixtureBuilder {
	trainer := make([]uint8, 512)
	copy(trainer, data)
	b.f.trainer = trainer
	return b
}

// Code drops assembled 6502 bytes at the start of PRG ROM ($8000).
func (b *ROMFixtureBuilder) Code(code []uint8) *ROMFixtureBuilder {
	return b.PatchAt(0, code)
}

// PatchAt overwrites PRG ROM starting at the given offset into the PRG
// image (offset 0 is $8000), for tests that need data at a specific
// address without hand-padding the bytes in between.
func (b *ROMFixtureBuilder) PatchAt(offset uint16, data []uint8) *ROMFixtureBuilder {
	for i, v := range data {
		b.f.patch[offset+uint16(i)] = v
	}
	return b
}

// CHRData seeds the CHR ROM body (ignored when CHRRAM is in effect).
func (b *ROMFixtureBuilder) CHRData(data []uint8) *ROMFixtureBuilder {
	b.f.chr = append([]uint8(nil), data...)
	return b
}

// ResetVector sets the address stored at $FFFC/$FFFD.
func (b *ROMFixtureBuilder) ResetVector(addr uint16) *ROMFixtureBuilder {
	b.f.reset = addr
	return b
}

// NMIVector sets the address stored at $FFFA/$FFFB.
func (b *ROMFixtureBuilder) NMIVector(addr uint16) *ROMFixtureBuilder {
	b.f.nmi = addr
	return b
}

// IRQVector sets the address stored at $FFFE/$FFFF.
func (b *ROMFixtureBuilder) IRQVector(addr uint16) *ROMFixtureBuilder {
	b.f.irq = addr
	return b
}

// Build assembles the fixture into a byte-exact iNES image.
func (b *ROMFixtureBuilder) Build() ([]byte, error) {
	if b.f.prgBanks == 0 {
		return nil, fmt.Errorf("cartridge: fixture PRG banks cannot be zero")
	}

	var out bytes.Buffer
	out.Write(b.encodeHeader())
	if b.f.trainer != nil {
		out.Write(b.f.trainer)
	}
	prg, err := b.buildPRG()
	if err != nil {
		return nil, err
	}
	out.Write(prg)
	if b.f.chrBanks > 0 {
		out.Write(b.buildCHR())
	}
	return out.Bytes(), nil
}

// Cartridge assembles the fixture and loads it through LoadFromReader,
// the same entry point a real ROM file goes through.
func (b *ROMFixtureBuilder) Cartridge() (*Cartridge, error) {
	rom, err := b.Build()
	if err != nil {
		return nil, err
	}
	return LoadFromReader(bytes.NewReader(rom))
}

func (b *ROMFixtureBuilder) encodeHeader() []byte {
	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = b.f.prgBanks
	header[5] = b.f.chrBanks

	var flags6 uint8
	switch {
	case b.f.mirroring == MirrorFourScreen:
		flags6 |= 0x08
	case b.f.mirroring == MirrorVertical:
		flags6 |= 0x01
	}
	if b.f.battery {
		flags6 |= 0x02
	}
	if b.f.trainer != nil {
		flags6 |= 0x04
	}
	flags6 |= (b.f.mapperID & 0x0F) << 4
	header[6] = flags6
	header[7] = b.f.mapperID & 0xF0

	return header
}

func (b *ROMFixtureBuilder) buildPRG() ([]byte, error) {
	size := int(b.f.prgBanks) * 16384
	prg := make([]byte, size)

	for offset, v := range b.f.patch {
		if int(offset) >= size {
			return nil, fmt.Errorf("cartridge: fixture patch at offset %#x exceeds %d-byte PRG", offset, size)
		}
		prg[offset] = v
	}

	vectors := size - 6
	prg[vectors] = uint8(b.f.nmi)
	prg[vectors+1] = uint8(b.f.nmi >> 8)
	prg[vectors+2] = uint8(b.f.reset)
	prg[vectors+3] = uint8(b.f.reset >> 8)
	prg[vectors+4] = uint8(b.f.irq)
	prg[vectors+5] = uint8(b.f.irq >> 8)

	return prg, nil
}

func (b *ROMFixtureBuilder) buildCHR() []byte {
	size := int(b.f.chrBanks) * 8192
	chr := make([]byte, size)
	copy(chr, b.f.chr)
	return chr
}
