// Package bus implements the NES system bus: the address-decoded
// router connecting the CPU, PPU, cartridge, internal RAM, and
// controller latches, and the shared clock that paces them.
package bus

import (
	"fmt"

	"nesemu/internal/apu"
	"nesemu/internal/cartridge"
	"nesemu/internal/cpu"
	"nesemu/internal/input"
	"nesemu/internal/ppu"
)

// Bus owns every NES component and is the sole path through which the
// CPU and PPU exchange data with the rest of the system. It satisfies
// cpu.MemoryInterface directly, so the CPU holds a non-owning
// reference back to the bus rather than the reverse.
type Bus struct {
	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Input *input.InputState

	cart *cartridge.Cartridge
	ram  [0x0800]uint8

	ticks uint64
}

// New creates a bus with no cartridge attached. Call ConnectCartridge
// before Clock-ing it for anything but a blank, cartridge-less system.
func New() *Bus {
	b := &Bus{
		PPU:   ppu.New(),
		APU:   apu.New(),
		Input: input.NewInputState(),
	}
	b.CPU = cpu.New(b)
	b.Reset()
	return b
}

// ConnectCartridge attaches cart to the bus and resets the system, so
// the CPU's reset vector is fetched through the mapper rather than the
// empty bus it saw at construction time. A cartridge swap mid-run is
// not a supported scenario, matching real hardware (cartridges are
// swapped with the console powered off).
func (b *Bus) ConnectCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	b.PPU.ConnectCartridge(cart)
	b.Reset()
}

// Reset reinitializes the CPU and PPU. Internal RAM contents are left
// as they were, matching hardware: a reset does not clear RAM.
func (b *Bus) Reset() {
	b.CPU.Reset()
	b.PPU.Reset()
	b.APU.Reset()
	b.Input.Reset()
	b.ticks = 0
}

// LoadRAMBlock writes data into internal RAM starting at offset, for
// test harnesses that need to seed memory directly. It is the one
// bus operation that can fail: a block that would run past the 2KiB
// RAM window is rejected rather than silently truncated.
func (b *Bus) LoadRAMBlock(offset uint16, data []byte) error {
	if int(offset)+len(data) > len(b.ram) {
		return fmt.Errorf("bus: range exceeds %d-byte RAM (offset %#04x, len %d)", len(b.ram), offset, len(data))
	}
	copy(b.ram[offset:], data)
	return nil
}

// Read dispatches a CPU-side read, decoding addr in priority order:
// cartridge first refusal, internal RAM mirrors, PPU registers,
// APU/IO, controller ports, then the $4018-$401F no-op window. Every
// address resolves to a value; unmapped reads return 0.
func (b *Bus) Read(addr uint16) uint8 {
	if b.cart != nil {
		if v, ok := b.cart.TryReadPRG(addr); ok {
			return v
		}
	}
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.PPU.ReadRegister(addr & 0x0007)
	case addr == 0x4015:
		return b.APU.ReadStatus()
	case addr <= 0x4013:
		return 0
	case addr == 0x4016, addr == 0x4017:
		return b.Input.Read(addr)
	default:
		return 0
	}
}

// Write dispatches a CPU-side write with the same priority order as
// Read, plus the $4014 OAM DMA trigger.
func (b *Bus) Write(addr uint16, value uint8) {
	if b.cart != nil {
		if b.cart.TryWritePRG(addr, value) {
			return
		}
	}
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.PPU.WriteRegister(addr&0x0007, value)
	case addr == 0x4014:
		b.oamDMA(value)
	case addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		b.APU.WriteRegister(addr, value)
	case addr == 0x4016:
		b.Input.Write(addr, value)
	default:
		// $4018-$401F and anything unmapped: discarded.
	}
}

// oamDMA copies 256 bytes starting at page<<8 into OAM through
// OAMDATA, so it respects (and advances) whatever OAMADDR was already
// set, matching real $4014 behavior.
func (b *Bus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.PPU.WriteRegister(4, b.Read(base+uint16(i)))
	}
}

// DebugRead decodes the cartridge, internal RAM and PPU registers as
// Read does but is side-effect-free: it never advances the controller
// shift latches, clears PPUSTATUS bits, or disturbs the PPUDATA read
// buffer. Every address from $4000 up that the cartridge declines,
// including APU status and both controller ports, reads as 0. Used by
// the disassembler and test harnesses that must inspect memory
// without perturbing emulation state.
func (b *Bus) DebugRead(addr uint16) uint8 {
	if b.cart != nil {
		if v, ok := b.cart.TryReadPRG(addr); ok {
			return v
		}
	}
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.PPU.DebugReadRegister(addr & 0x0007)
	default:
		return 0
	}
}

// Clock advances the shared-time clock by one PPU dot. Every third
// call also advances the CPU by one cycle, reproducing the hardware's
// 3:1 PPU:CPU ratio. If the PPU raised its one-shot NMI edge during
// this tick, the bus clears it and delivers the interrupt to the CPU
// before returning, so NMI servicing always begins on a CPU
// instruction boundary. Clock reports whether this tick completed a
// frame.
func (b *Bus) Clock() bool {
	frameComplete := b.PPU.Step()
	b.ticks++
	if b.ticks%3 == 0 {
		b.CPU.Clock()
	}
	if b.PPU.TakeNMI() {
		b.CPU.SetNMI()
	}
	return frameComplete
}

// SetControllerButtons sets all eight button states for the given
// one-based controller port (1 or 2); any other value is a no-op.
func (b *Bus) SetControllerButtons(controller int, buttons [8]bool) {
	switch controller {
	case 1:
		b.Input.SetButtons1(buttons)
	case 2:
		b.Input.SetButtons2(buttons)
	}
}

// GetFrameBuffer returns the PPU's current 256x240 RGB framebuffer.
func (b *Bus) GetFrameBuffer() *[256 * 240]uint32 {
	return b.PPU.GetFrameBuffer()
}
