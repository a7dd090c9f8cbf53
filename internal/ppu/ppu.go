// Package ppu implements the NES 2C02 Picture Processing Unit: a
// dot-paced background-fetch state machine driving a 256x240
// framebuffer, plus the CPU-visible register window that controls it.
package ppu

import (
	"nesemu/internal/cartridge"
	"nesemu/internal/register"
)

// Cartridge is the PPU-side view of the cartridge: CHR-space
// read/write through the mapper, and the nametable mirroring mode
// that controls how the PPU folds its four logical nametables onto
// physical VRAM.
type Cartridge interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	GetMirrorMode() MirrorMode
}

// MirrorMode identifies how the PPU folds its four logical nametables
// onto physical nametable RAM. Aliased to cartridge.MirrorMode so a
// *cartridge.Cartridge satisfies the Cartridge interface directly.
type MirrorMode = cartridge.MirrorMode

const (
	MirrorHorizontal    = cartridge.MirrorHorizontal
	MirrorVertical      = cartridge.MirrorVertical
	MirrorSingleScreen0 = cartridge.MirrorSingleScreen0
	MirrorSingleScreen1 = cartridge.MirrorSingleScreen1
	MirrorFourScreen    = cartridge.MirrorFourScreen
)

// Loopy register bit fields, named for the hardware's packed
// yyyNNYYYYYXXXXX layout of v and t.
var (
	fieldCoarseX    = register.Field{Pos: 0, Width: 5}
	fieldCoarseY    = register.Field{Pos: 5, Width: 5}
	fieldNametableX = register.Field{Pos: 10, Width: 1}
	fieldNametableY = register.Field{Pos: 11, Width: 1}
	fieldFineY      = register.Field{Pos: 12, Width: 3}
)

// PPUCTRL ($2000) bit masks.
const (
	ctrlNametableX uint8 = 1 << 0
	ctrlNametableY uint8 = 1 << 1
	ctrlIncrement  uint8 = 1 << 2
	ctrlSpriteTbl  uint8 = 1 << 3
	ctrlBGTable    uint8 = 1 << 4
	ctrlSpriteSize uint8 = 1 << 5
	ctrlMasterSlv  uint8 = 1 << 6
	ctrlNMI        uint8 = 1 << 7
)

// PPUMASK ($2001) bit masks.
const (
	maskGrayscale  uint8 = 1 << 0
	maskShowBGLeft uint8 = 1 << 1
	maskShowSPLeft uint8 = 1 << 2
	maskShowBG     uint8 = 1 << 3
	maskShowSP     uint8 = 1 << 4
)

// PPUSTATUS ($2002) bit masks.
const (
	statusOverflow uint8 = 1 << 5
	statusSprite0  uint8 = 1 << 6
	statusVBlank   uint8 = 1 << 7
)

// PPU is a dot-paced 2C02 emulation. Step must be called once per PPU
// dot; the background pipeline advances its internal shift registers
// and fetch state machine exactly as the hardware does, including the
// documented 2C02 quirks (coarse-X/Y wraparound, the two-write
// PPUSCROLL/PPUADDR latch, the delayed PPUDATA buffer).
type PPU struct {
	ctrl   uint8
	mask   uint8
	status uint8

	oamAddr uint8
	OAM     [256]uint8

	v, t  register.Reg16
	fineX uint8
	w     bool

	readBuffer uint8
	lastLatch  uint8 // last byte written to any register, for open-bus reads

	chrRAM       [2][4096]uint8
	nametables   [2][1024]uint8
	paletteTable [32]uint8

	bgPatternLo, bgPatternHi uint16
	bgAttribLo, bgAttribHi   uint16

	nextTileID, nextTileAttrib, nextTileLSB, nextTileMSB uint8

	scanline int
	dot      int

	frameComplete bool
	nmiEdge       bool

	cart Cartridge

	frameBuffer [256 * 240]uint32
}

// New creates a PPU with no cartridge attached; call ConnectCartridge
// before clocking it for anything but blank-screen output.
func New() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

// Reset returns the PPU to its power-on state: pre-render scanline,
// dot 0, all registers and shift state cleared.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t = register.NewReg16(0), register.NewReg16(0)
	p.fineX, p.w = 0, false
	p.readBuffer, p.lastLatch = 0, 0
	p.bgPatternLo, p.bgPatternHi = 0, 0
	p.bgAttribLo, p.bgAttribHi = 0, 0
	p.scanline, p.dot = -1, 0
	p.frameComplete, p.nmiEdge = false, false
	for i := range p.frameBuffer {
		p.frameBuffer[i] = 0
	}
}

// ConnectCartridge attaches the cartridge whose CHR space and
// mirroring mode back the PPU's nametable/pattern-table fetches.
func (p *PPU) ConnectCartridge(cart Cartridge) {
	p.cart = cart
}

// GetFrameBuffer returns a pointer to the 256x240 RGB framebuffer,
// updated pixel-by-pixel as rendering progresses.
func (p *PPU) GetFrameBuffer() *[256 * 240]uint32 {
	return &p.frameBuffer
}

// FrameComplete reports whether a frame has completed (the scanline
// counter wrapped from 260 back to -1) since the last Reset or
// ClearFrameComplete. The flag stays set until one of those clears it.
func (p *PPU) FrameComplete() bool { return p.frameComplete }

// ClearFrameComplete acknowledges a completed frame so the next wrap
// raises it again.
func (p *PPU) ClearFrameComplete() { p.frameComplete = false }

// TakeNMI reports and clears the one-shot NMI edge raised at the
// start of VBlank, for the bus to forward to the CPU.
func (p *PPU) TakeNMI() bool {
	v := p.nmiEdge
	p.nmiEdge = false
	return v
}

// Scanline and Dot expose the current raster position, used by tests
// that assert frame timing against known tick counts.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }

func (p *PPU) renderingEnabled() bool { return p.mask&(maskShowBG|maskShowSP) != 0 }

// ReadRegister dispatches a CPU-side read by (address & 7), the
// eight-register mirrored window at $2000-$2007.
func (p *PPU) ReadRegister(reg uint16) uint8 {
	switch reg & 7 {
	case 2:
		result := (p.status & 0xE0) | (p.readBuffer & 0x1F)
		p.status &^= statusVBlank
		p.w = false
		return result
	case 4:
		return p.OAM[p.oamAddr]
	case 7:
		return p.readData()
	default:
		return p.lastLatch
	}
}

// DebugReadRegister returns the current register latch without any of
// ReadRegister's side effects (no VBlank clear, no write-toggle reset,
// no PPUDATA buffer advance), for disassemblers and test harnesses.
func (p *PPU) DebugReadRegister(reg uint16) uint8 {
	switch reg & 7 {
	case 2:
		return (p.status & 0xE0) | (p.readBuffer & 0x1F)
	case 4:
		return p.OAM[p.oamAddr]
	default:
		return p.lastLatch
	}
}

// WriteRegister dispatches a CPU-side write by (address & 7).
func (p *PPU) WriteRegister(reg uint16, value uint8) {
	p.lastLatch = value
	switch reg & 7 {
	case 0:
		p.ctrl = value
		p.t.SetField(fieldNametableX, uint16(value&ctrlNametableX))
		p.t.SetField(fieldNametableY, uint16(b2u16(value&ctrlNametableY != 0)))
	case 1:
		p.mask = value
	case 2:
		// read-only
	case 3:
		p.oamAddr = value
	case 4:
		p.OAM[p.oamAddr] = value
		p.oamAddr++
	case 5:
		p.writeScroll(value)
	case 6:
		p.writeAddr(value)
	case 7:
		p.writeData(value)
	}
}

func b2u16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t.SetField(fieldCoarseX, uint16(value>>3))
		p.fineX = value & 0x07
		p.w = true
	} else {
		p.t.SetField(fieldCoarseY, uint16(value>>3))
		p.t.SetField(fieldFineY, uint16(value&0x07))
		p.w = false
	}
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t.Set((p.t.Get() & 0x00FF) | (uint16(value&0x3F) << 8))
		p.w = true
	} else {
		p.t.Set((p.t.Get() & 0xFF00) | uint16(value))
		p.v.Set(p.t.Get())
		p.w = false
	}
}

// readData implements PPUDATA's delayed-read behavior: non-palette
// reads return the byte buffered from the *previous* read, while the
// buffer itself is refilled from the address just read; palette reads
// bypass the buffer and return the fresh value immediately.
func (p *PPU) readData() uint8 {
	addr := p.v.Get()
	data := p.readBuffer
	p.readBuffer = p.ppuRead(addr)
	if addr >= 0x3F00 {
		data = p.readBuffer
	}
	p.advanceV()
	return data
}

func (p *PPU) writeData(value uint8) {
	p.ppuWrite(p.v.Get(), value)
	p.advanceV()
}

func (p *PPU) advanceV() {
	if p.ctrl&ctrlIncrement != 0 {
		p.v.Add(32)
	} else {
		p.v.Add(1)
	}
}

// ppuRead dispatches an address in the PPU's own 14-bit address
// space: cartridge CHR space first, then internal CHR-RAM fallback,
// nametables (mirrored per cartridge mirroring mode), then palette RAM.
func (p *PPU) ppuRead(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.cart != nil {
			return p.cart.ReadCHR(addr)
		}
		return p.chrRAM[(addr>>12)&1][addr&0x0FFF]
	case addr < 0x3F00:
		return p.nametables[p.nametableBank(addr)][addr&0x03FF]
	default:
		idx := p.paletteIndex(addr)
		v := p.paletteTable[idx]
		if p.mask&maskGrayscale != 0 {
			return v & 0x30
		}
		return v & 0x3F
	}
}

func (p *PPU) ppuWrite(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.cart != nil {
			p.cart.WriteCHR(addr, value)
			return
		}
		p.chrRAM[(addr>>12)&1][addr&0x0FFF] = value
	case addr < 0x3F00:
		p.nametables[p.nametableBank(addr)][addr&0x03FF] = value
	default:
		p.paletteTable[p.paletteIndex(addr)] = value
	}
}

func (p *PPU) nametableBank(addr uint16) int {
	nt := int(addr>>10) & 3
	mode := MirrorVertical
	if p.cart != nil {
		mode = p.cart.GetMirrorMode()
	}
	switch mode {
	case MirrorVertical:
		return [4]int{0, 1, 0, 1}[nt]
	default: // MirrorHorizontal and any other mode fold the same as horizontal
		return [4]int{0, 0, 1, 1}[nt]
	}
}

func (p *PPU) paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx >= 0x10 && idx%4 == 0 {
		idx -= 0x10
	}
	return idx
}

// Step advances the PPU by one dot and reports whether that dot
// completed a frame. It implements the background fetch pipeline and
// VBlank/NMI timing: the pre-render scanline is -1, visible scanlines
// are 0-239, and VBlank spans 241-260.
func (p *PPU) Step() bool {
	if p.scanline >= -1 && p.scanline < 240 {
		p.backgroundPipeline()
	}

	if p.scanline >= 0 && p.scanline < 240 && p.dot >= 1 && p.dot <= 256 {
		p.renderPixel()
	}

	if p.scanline == -1 && p.dot == 1 {
		p.status &^= statusVBlank | statusSprite0 | statusOverflow
	}
	if p.scanline == 241 && p.dot == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlNMI != 0 {
			p.nmiEdge = true
		}
	}

	p.dot++
	completed := false
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameComplete = true
			completed = true
		}
	}
	return completed
}

func (p *PPU) backgroundPipeline() {
	if (p.dot >= 2 && p.dot <= 257) || (p.dot >= 321 && p.dot <= 337) {
		p.updateShifters()
		switch (p.dot - 1) % 8 {
		case 0:
			p.loadBackgroundShifters()
			p.nextTileID = p.ppuRead(0x2000 | (p.v.Get() & 0x0FFF))
		case 2:
			p.fetchAttribute()
		case 4:
			p.nextTileLSB = p.ppuRead(p.patternAddr(0))
		case 6:
			p.nextTileMSB = p.ppuRead(p.patternAddr(8))
		case 7:
			p.incrementCoarseX()
		}
	}
	if p.dot == 256 {
		p.incrementCoarseY()
	}
	if p.dot == 257 {
		p.loadBackgroundShifters()
		p.transferAddressX()
	}
	if p.scanline == -1 && p.dot >= 280 && p.dot <= 304 {
		p.transferAddressY()
	}
}

func (p *PPU) fetchAttribute() {
	coarseX := p.v.Field(fieldCoarseX)
	coarseY := p.v.Field(fieldCoarseY)
	nametable := (p.v.Field(fieldNametableY) << 1) | p.v.Field(fieldNametableX)
	addr := 0x23C0 | (nametable << 10) | ((coarseY >> 2) << 3) | (coarseX >> 2)
	attrib := p.ppuRead(addr)
	if coarseY&0x02 != 0 {
		attrib >>= 4
	}
	if coarseX&0x02 != 0 {
		attrib >>= 2
	}
	p.nextTileAttrib = attrib & 0x03
}

func (p *PPU) patternAddr(offset uint16) uint16 {
	bgTable := uint16(0)
	if p.ctrl&ctrlBGTable != 0 {
		bgTable = 1
	}
	return (bgTable << 12) + uint16(p.nextTileID)<<4 + p.v.Field(fieldFineY) + offset
}

func (p *PPU) incrementCoarseX() {
	if !p.renderingEnabled() {
		return
	}
	if p.v.Field(fieldCoarseX) == 31 {
		p.v.SetField(fieldCoarseX, 0)
		p.toggleNametableX()
	} else {
		p.v.SetField(fieldCoarseX, p.v.Field(fieldCoarseX)+1)
	}
}

func (p *PPU) incrementCoarseY() {
	if !p.renderingEnabled() {
		return
	}
	fineY := p.v.Field(fieldFineY)
	if fineY < 7 {
		p.v.SetField(fieldFineY, fineY+1)
		return
	}
	p.v.SetField(fieldFineY, 0)
	y := p.v.Field(fieldCoarseY)
	switch y {
	case 29:
		y = 0
		p.toggleNametableY()
	case 31:
		y = 0
	default:
		y++
	}
	p.v.SetField(fieldCoarseY, y)
}

func (p *PPU) toggleNametableY() {
	p.v.SetField(fieldNametableY, 1-p.v.Field(fieldNametableY))
}

func (p *PPU) toggleNametableX() {
	p.v.SetField(fieldNametableX, 1-p.v.Field(fieldNametableX))
}

func (p *PPU) transferAddressX() {
	if !p.renderingEnabled() {
		return
	}
	p.v.SetField(fieldCoarseX, p.t.Field(fieldCoarseX))
	p.v.SetField(fieldNametableX, p.t.Field(fieldNametableX))
}

func (p *PPU) transferAddressY() {
	if !p.renderingEnabled() {
		return
	}
	p.v.SetField(fieldFineY, p.t.Field(fieldFineY))
	p.v.SetField(fieldCoarseY, p.t.Field(fieldCoarseY))
	p.v.SetField(fieldNametableY, p.t.Field(fieldNametableY))
}

func (p *PPU) loadBackgroundShifters() {
	p.bgPatternLo = (p.bgPatternLo & 0xFF00) | uint16(p.nextTileLSB)
	p.bgPatternHi = (p.bgPatternHi & 0xFF00) | uint16(p.nextTileMSB)

	var lo, hi uint16
	if p.nextTileAttrib&0x01 != 0 {
		lo = 0x00FF
	}
	if p.nextTileAttrib&0x02 != 0 {
		hi = 0x00FF
	}
	p.bgAttribLo = (p.bgAttribLo & 0xFF00) | lo
	p.bgAttribHi = (p.bgAttribHi & 0xFF00) | hi
}

func (p *PPU) updateShifters() {
	if p.mask&maskShowBG == 0 {
		return
	}
	p.bgPatternLo <<= 1
	p.bgPatternHi <<= 1
	p.bgAttribLo <<= 1
	p.bgAttribHi <<= 1
}

// renderPixel synthesizes the pixel at (dot-1, scanline) from the
// background shift registers and writes it into the framebuffer.
// Sprite compositing is a declared non-goal; only the background
// layer reaches the framebuffer.
func (p *PPU) renderPixel() {
	x, y := p.dot-1, p.scanline
	if x < 0 || x >= 256 || y < 0 || y >= 240 {
		return
	}

	var pixel, palette uint8
	if p.mask&maskShowBG != 0 {
		mux := uint16(0x8000) >> p.fineX
		loBit := b2u16(p.bgPatternLo&mux != 0)
		hiBit := b2u16(p.bgPatternHi&mux != 0)
		pixel = uint8((hiBit << 1) | loBit)

		palLo := b2u16(p.bgAttribLo&mux != 0)
		palHi := b2u16(p.bgAttribHi&mux != 0)
		palette = uint8((palHi << 1) | palLo)
	}

	color := p.ppuRead(0x3F00 + uint16(palette)<<2 + uint16(pixel))
	p.frameBuffer[y*256+x] = nesColorPalette[color&0x3F] & 0x00FFFFFF
}

// nesColorPalette is the NES 2C02 NTSC palette. Entries 0x0D-0x0F,
// 0x1D-0x1F, 0x2E-0x2F and 0x3D-0x3F are black; 0x2D is dark gray.
var nesColorPalette = [64]uint32{
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFF29B, 0xFFBEFBB3, 0xFFB8F8D8, 0xFFB8F8F8, 0xFF000000, 0xFF000000, 0xFF000000,
}
