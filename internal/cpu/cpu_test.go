package cpu

import "testing"

// flatMemory is a flat 64KB address space used to unit-test the CPU
// in isolation from the rest of the system.
type flatMemory struct {
	data [65536]uint8
}

func (m *flatMemory) Read(addr uint16) uint8      { return m.data[addr] }
func (m *flatMemory) Write(addr uint16, v uint8)  { m.data[addr] = v }
func (m *flatMemory) DebugRead(addr uint16) uint8 { return m.data[addr] }

func newTestCPU(resetVector uint16) (*CPU, *flatMemory) {
	mem := &flatMemory{}
	mem.data[resetVector] = 0
	mem.data[0xFFFC] = uint8(resetVector)
	mem.data[0xFFFD] = uint8(resetVector >> 8)
	c := New(mem)
	c.Reset()
	// Drain the reset sequence so the CPU sits at a fetch boundary.
	for c.CyclesRemaining() != 0 {
		c.Clock()
	}
	return c, mem
}

// runInstruction clocks c through exactly one full instruction,
// assuming it currently sits at a fetch boundary.
func runInstruction(c *CPU) {
	c.Clock()
	for c.CyclesRemaining() != 0 {
		c.Clock()
	}
}

func TestResetLoadsVectorAndInitialRegisters(t *testing.T) {
	c, _ := newTestCPU(0x8000)
	if c.GetPC() != 0x8000 {
		t.Errorf("PC after reset = %#04x, want 0x8000", c.GetPC())
	}
	if c.SP != 0xFD {
		t.Errorf("SP after reset = %#02x, want 0xFD", c.SP)
	}
	if c.GetStatusByte()&flagI == 0 {
		t.Error("expected interrupt-disable flag set after reset")
	}
}

func TestLDAImmediateSetsZeroAndNegativeFlags(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0xA9 // LDA #$00
	mem.data[0x8001] = 0x00
	runInstruction(c)
	if c.A != 0 {
		t.Errorf("A = %#02x, want 0", c.A)
	}
	if c.GetStatusByte()&flagZ == 0 {
		t.Error("expected Z flag set after loading 0")
	}

	mem.data[0x8002] = 0xA9 // LDA #$80
	mem.data[0x8003] = 0x80
	runInstruction(c)
	if c.A != 0x80 {
		t.Errorf("A = %#02x, want 0x80", c.A)
	}
	if c.GetStatusByte()&flagN == 0 {
		t.Error("expected N flag set after loading 0x80")
	}
}

func TestADCSetsCarryOnUnsignedOverflow(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0xA9 // LDA #$FF
	mem.data[0x8001] = 0xFF
	mem.data[0x8002] = 0x69 // ADC #$02
	mem.data[0x8003] = 0x02
	runInstruction(c)
	runInstruction(c)
	if c.A != 0x01 {
		t.Errorf("A = %#02x, want 0x01", c.A)
	}
	if c.GetStatusByte()&flagC == 0 {
		t.Error("expected carry flag set on unsigned overflow")
	}
}

func TestADCSetsOverflowOnSignedOverflow(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0xA9 // LDA #$7F (max positive)
	mem.data[0x8001] = 0x7F
	mem.data[0x8002] = 0x69 // ADC #$01
	mem.data[0x8003] = 0x01
	runInstruction(c)
	runInstruction(c)
	if c.A != 0x80 {
		t.Errorf("A = %#02x, want 0x80", c.A)
	}
	if c.GetStatusByte()&flagV == 0 {
		t.Error("expected overflow flag set when two positives sum negative")
	}
}

func TestSBCBorrowClearsCarryWhenResultNegative(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0x38 // SEC (no borrow going in)
	mem.data[0x8001] = 0xA9 // LDA #$00
	mem.data[0x8002] = 0x00
	mem.data[0x8003] = 0xE9 // SBC #$01
	mem.data[0x8004] = 0x01
	runInstruction(c)
	runInstruction(c)
	runInstruction(c)
	if c.A != 0xFF {
		t.Errorf("A = %#02x, want 0xFF", c.A)
	}
	if c.GetStatusByte()&flagC != 0 {
		t.Error("expected carry clear (borrow occurred) after 0 - 1")
	}
}

func TestCompareSetsCarryWhenRegisterGreaterOrEqual(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0xA9 // LDA #$10
	mem.data[0x8001] = 0x10
	mem.data[0x8002] = 0xC9 // CMP #$05
	mem.data[0x8003] = 0x05
	runInstruction(c)
	runInstruction(c)
	if c.GetStatusByte()&flagC == 0 {
		t.Error("expected carry set when A >= operand")
	}
	if c.GetStatusByte()&flagZ != 0 {
		t.Error("expected zero flag clear when A != operand")
	}
}

func TestBITSetsNAndVFromMemoryAndZFromAND(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x00A0] = 0xC0 // bits 7 and 6 set
	mem.data[0x8000] = 0xA9 // LDA #$00
	mem.data[0x8001] = 0x00
	mem.data[0x8002] = 0x24 // BIT $A0
	mem.data[0x8003] = 0xA0
	runInstruction(c)
	runInstruction(c)
	status := c.GetStatusByte()
	if status&flagN == 0 || status&flagV == 0 {
		t.Errorf("status = %#02x, want N and V set from memory bits 7/6", status)
	}
	if status&flagZ == 0 {
		t.Error("expected Z set since A (0) AND memory (0xC0) == 0")
	}
}

func TestBranchTakenSamePageCostsOneExtraCycle(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0x18 // CLC
	mem.data[0x8001] = 0x90 // BCC +2 (not taken would fall through, carry clear so taken)
	mem.data[0x8002] = 0x02
	runInstruction(c)
	before := c.TotalCycles()
	runInstruction(c)
	if c.TotalCycles()-before != 3 {
		t.Errorf("cycles for same-page taken branch = %d, want 3", c.TotalCycles()-before)
	}
	if c.GetPC() != 0x8005 {
		t.Errorf("PC after branch = %#04x, want 0x8005", c.GetPC())
	}
}

func TestBranchTakenCrossPageCostsTwoExtraCycles(t *testing.T) {
	c, mem := newTestCPU(0x80FC)
	mem.data[0x80FC] = 0x18 // CLC
	mem.data[0x80FD] = 0x90 // BCC +1, target crosses into the next page
	mem.data[0x80FE] = 0x01
	runInstruction(c)
	before := c.TotalCycles()
	runInstruction(c)
	if c.TotalCycles()-before != 4 {
		t.Errorf("cycles for cross-page taken branch = %d, want 4", c.TotalCycles()-before)
	}
	if c.GetPC() != 0x8100 {
		t.Errorf("PC after branch = %#04x, want 0x8100", c.GetPC())
	}
}

func TestStackPushPullRoundTrip(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0xA9 // LDA #$42
	mem.data[0x8001] = 0x42
	mem.data[0x8002] = 0x48 // PHA
	mem.data[0x8003] = 0xA9 // LDA #$00
	mem.data[0x8004] = 0x00
	mem.data[0x8005] = 0x68 // PLA
	runInstruction(c)
	runInstruction(c)
	runInstruction(c)
	runInstruction(c)
	if c.A != 0x42 {
		t.Errorf("A after PLA = %#02x, want 0x42", c.A)
	}
}

func TestNMIIsServicedAtTheNextInstructionBoundary(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0xEA // NOP
	mem.data[0xFFFA] = 0x00 // NMI vector -> 0x9000
	mem.data[0xFFFB] = 0x90
	runInstruction(c) // retire the NOP
	c.SetNMI()
	runInstruction(c) // services NMI instead of fetching the next opcode
	if c.GetPC() != 0x9000 {
		t.Errorf("PC after NMI = %#04x, want 0x9000", c.GetPC())
	}
}

func TestIRQIsIgnoredWhenInterruptDisableFlagIsSet(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	mem.data[0x8000] = 0xEA // NOP; reset already leaves I set
	mem.data[0x8001] = 0xEA // NOP, so a skipped IRQ falls through to a known opcode
	mem.data[0xFFFE] = 0x00
	mem.data[0xFFFF] = 0x90
	runInstruction(c)
	c.SetIRQ()
	runInstruction(c) // NOP at the new PC, not an IRQ service
	if c.GetPC() != 0x8002 {
		t.Errorf("PC = %#04x, want 0x8002 (IRQ should be ignored while I is set)", c.GetPC())
	}
}

func TestDisassembleDecodesKnownOpcodes(t *testing.T) {
	mem := &flatMemory{}
	mem.data[0x8000] = 0xA9 // LDA #$10
	mem.data[0x8001] = 0x10
	mem.data[0x8002] = 0x8D // STA $0200
	mem.data[0x8003] = 0x00
	mem.data[0x8004] = 0x02
	mem.data[0x8005] = 0xEA // NOP

	lines := Disassemble(mem, 0x8000, 0x8005)
	if len(lines) != 3 {
		t.Fatalf("got %d decoded instructions, want 3", len(lines))
	}
	if got := lines[0x8000]; got != "8000  A9 LDA #$10" {
		t.Errorf("LDA line = %q", got)
	}
	if got := lines[0x8002]; got != "8002  8D STA $0200" {
		t.Errorf("STA line = %q", got)
	}
	if got := lines[0x8005]; got != "8005  EA NOP" {
		t.Errorf("NOP line = %q", got)
	}
}
