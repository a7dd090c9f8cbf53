package ppu

import "testing"

type stubCart struct {
	chr    [0x2000]uint8
	mirror MirrorMode
}

func (s *stubCart) ReadCHR(addr uint16) uint8         { return s.chr[addr&0x1FFF] }
func (s *stubCart) WriteCHR(addr uint16, value uint8) { s.chr[addr&0x1FFF] = value }
func (s *stubCart) GetMirrorMode() MirrorMode         { return s.mirror }

func newTestPPU() *PPU {
	p := New()
	p.ConnectCartridge(&stubCart{mirror: MirrorVertical})
	return p
}

func TestPPUAddrWriteThenDataReadIsBuffered(t *testing.T) {
	p := newTestPPU()
	p.ppuWrite(0x2005, 0xAB) // seed nametable byte directly at 0x2005

	p.WriteRegister(6, 0x20) // high byte
	p.WriteRegister(6, 0x05) // low byte; v = 0x2005, w reset to false

	first := p.ReadRegister(7) // returns stale buffer (0), refills from 0x2005
	if first != 0 {
		t.Errorf("first PPUDATA read = %#02x, want 0 (stale buffer)", first)
	}
	second := p.ReadRegister(7)
	if second != 0xAB {
		t.Errorf("second PPUDATA read = %#02x, want 0xAB", second)
	}
}

func TestPPUDataPaletteReadIsUnbuffered(t *testing.T) {
	p := newTestPPU()
	p.paletteTable[0x05] = 0x2C

	p.WriteRegister(6, 0x3F)
	p.WriteRegister(6, 0x05)

	got := p.ReadRegister(7)
	if got != 0x2C {
		t.Errorf("palette PPUDATA read = %#02x, want 0x2C", got)
	}
}

func TestWriteCtrlThenReadStatusClearsToggleAndVBlank(t *testing.T) {
	p := newTestPPU()
	p.status |= statusVBlank
	p.w = true

	p.WriteRegister(0, 0x80)
	p.ReadRegister(2)

	if p.w {
		t.Error("write toggle w should be cleared by a PPUSTATUS read")
	}
	if p.status&statusVBlank != 0 {
		t.Error("VBlank flag should be cleared by a PPUSTATUS read")
	}
}

func TestDebugReadRegisterHasNoSideEffects(t *testing.T) {
	p := newTestPPU()
	p.status |= statusVBlank
	p.w = true

	p.DebugReadRegister(2)

	if !p.w {
		t.Error("DebugReadRegister must not reset the write toggle")
	}
	if p.status&statusVBlank == 0 {
		t.Error("DebugReadRegister must not clear VBlank")
	}
}

func TestOAMDataReadDoesNotAutoIncrement(t *testing.T) {
	p := newTestPPU()
	p.WriteRegister(3, 0x10) // OAMADDR = 0x10
	p.OAM[0x10] = 0x42

	a := p.ReadRegister(4)
	b := p.ReadRegister(4)
	if a != 0x42 || b != 0x42 {
		t.Errorf("OAMDATA reads = %#02x, %#02x, want 0x42 twice (no increment)", a, b)
	}
}

func TestOAMDataWriteAutoIncrements(t *testing.T) {
	p := newTestPPU()
	p.WriteRegister(3, 0x00)
	p.WriteRegister(4, 0x11)
	p.WriteRegister(4, 0x22)
	if p.OAM[0] != 0x11 || p.OAM[1] != 0x22 {
		t.Errorf("OAM[0:2] = %#02x %#02x, want 0x11 0x22", p.OAM[0], p.OAM[1])
	}
}

func TestPPUDataIncrementModeFollowsCtrlBit2(t *testing.T) {
	p := newTestPPU()
	p.WriteRegister(0, 0x04) // increment mode = 32
	p.WriteRegister(6, 0x20)
	p.WriteRegister(6, 0x00)
	p.WriteRegister(7, 0x00)
	if p.v.Get() != 0x2020 {
		t.Errorf("v after increment-by-32 write = %#04x, want 0x2020", p.v.Get())
	}
}

func TestNametableMirroringVertical(t *testing.T) {
	p := New()
	p.ConnectCartridge(&stubCart{mirror: MirrorVertical})
	p.ppuWrite(0x2000, 0xAA)
	if got := p.ppuRead(0x2800); got != 0xAA {
		t.Errorf("vertical mirror 0x2000->0x2800 = %#02x, want 0xAA", got)
	}
}

func TestNametableMirroringHorizontal(t *testing.T) {
	p := New()
	p.ConnectCartridge(&stubCart{mirror: MirrorHorizontal})
	p.ppuWrite(0x2000, 0x55)
	if got := p.ppuRead(0x2400); got != 0x55 {
		t.Errorf("horizontal mirror 0x2000->0x2400 = %#02x, want 0x55", got)
	}
}

func TestPaletteMirrorFold(t *testing.T) {
	p := newTestPPU()
	p.ppuWrite(0x3F00, 0x0F)
	if got := p.ppuRead(0x3F10); got != 0x0F {
		t.Errorf("0x3F10 should fold onto 0x3F00, got %#02x", got)
	}
}

func TestFrameCompletionAfterOneFullFrame(t *testing.T) {
	p := newTestPPU()
	completions := 0
	for i := 0; i < 341*262; i++ {
		if p.Step() {
			completions++
		}
	}
	if completions != 1 {
		t.Fatalf("completions after one frame's worth of dots = %d, want 1", completions)
	}
	if p.Scanline() != -1 || p.Dot() != 0 {
		t.Errorf("scanline/dot after frame wrap = %d/%d, want -1/0", p.Scanline(), p.Dot())
	}
}

func TestVBlankSetsStatusAndNMIWhenEnabled(t *testing.T) {
	p := newTestPPU()
	p.WriteRegister(0, ctrlNMI)

	// Positions run (-1,0)..(241,1): 242 full scanlines ahead of scanline
	// 241, then two more steps to process dots 0 and 1.
	dotsToVBlank := 242*341 + 2
	nmiSeen := false
	for i := 0; i < dotsToVBlank; i++ {
		p.Step()
		if p.TakeNMI() {
			nmiSeen = true
		}
	}
	if !nmiSeen {
		t.Error("expected NMI edge at scanline 241 dot 1 with generate_nmi set")
	}
	if p.status&statusVBlank == 0 {
		t.Error("expected VBlank flag set at scanline 241 dot 1")
	}
}

func TestPreRenderClearsStatusFlags(t *testing.T) {
	p := newTestPPU()
	p.status = statusVBlank | statusSprite0 | statusOverflow
	p.scanline, p.dot = -1, 0
	p.Step() // processes dot 0, advances to dot 1
	p.Step() // processes dot 1, where the clear happens
	if p.status != 0 {
		t.Errorf("status after pre-render dot 1 = %#02x, want 0", p.status)
	}
}
