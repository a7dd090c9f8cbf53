// Package cpu implements a cycle-paced interpreter for the NES's
// MOS 6502-derived processor.
package cpu

import (
	"fmt"
	"io"
)

// MemoryInterface is the bus-side contract the CPU needs: plain
// byte-addressed read/write with no notion of cycles.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Status flag bit positions within P.
const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5 // unused, always forced to 1
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

const (
	stackBase   uint16 = 0x0100
	nmiVector   uint16 = 0xFFFA
	resetVector uint16 = 0xFFFC
	irqVector   uint16 = 0xFFFE
)

// CPU is a cycle-accurate 6502 interpreter. Clock must be called once
// per CPU cycle; fetch-decode-execute happens atomically on the tick
// where cycles reaches zero, and cycles ticks down on every
// subsequent call, matching real hardware's instruction pipelining.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	bus MemoryInterface

	cycles      uint8
	totalCycles uint64

	opcode      uint8
	addrAbs     uint16
	addrRel     uint16
	fetched     uint8
	isAcc       bool
	pageCrossed bool

	instructions [256]instruction

	nmiPending bool
	irqPending bool

	trace io.Writer
}

// New creates a CPU wired to bus. Call Reset before the first Clock.
func New(bus MemoryInterface) *CPU {
	c := &CPU{bus: bus}
	c.buildInstructionTable()
	return c
}

// SetTraceWriter installs a writer that receives one line per retired
// instruction, nestest-trace style. Pass nil to disable.
func (c *CPU) SetTraceWriter(w io.Writer) {
	c.trace = w
}

func (c *CPU) read(addr uint16) uint8     { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v uint8) { c.bus.Write(addr, v) }

func (c *CPU) getFlag(mask uint8) bool { return c.P&mask != 0 }

func (c *CPU) setFlag(mask uint8, set bool) {
	if set {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, v&0x80 != 0)
}

// GetStatusByte returns the processor status register.
func (c *CPU) GetStatusByte() uint8 { return c.P | flagU }

// SetStatusByte overwrites the processor status register.
func (c *CPU) SetStatusByte(v uint8) { c.P = v | flagU }

func (c *CPU) push(v uint8) {
	c.write(stackBase|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(stackBase | uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return lo | hi<<8
}

// Reset brings the CPU to its power-on/reset entry point. PC is
// loaded from the reset vector; the registers take their documented
// post-reset values; the reset sequence occupies 8 cycles before the
// first instruction fetch.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = flagU | flagI
	lo := uint16(c.read(resetVector))
	hi := uint16(c.read(resetVector + 1))
	c.PC = lo | hi<<8
	c.addrAbs, c.addrRel, c.fetched = 0, 0, 0
	c.cycles = 8
}

// SetNMI schedules a non-maskable interrupt to be serviced on the
// next instruction boundary.
func (c *CPU) SetNMI() { c.nmiPending = true }

// SetIRQ requests a maskable interrupt; it is serviced on the next
// instruction boundary only if the interrupt-disable flag is clear.
func (c *CPU) SetIRQ() { c.irqPending = true }

func (c *CPU) serviceNMI() {
	c.pushWord(c.PC)
	c.push((c.P &^ flagB) | flagU)
	c.setFlag(flagI, true)
	lo := uint16(c.read(nmiVector))
	hi := uint16(c.read(nmiVector + 1))
	c.PC = lo | hi<<8
	c.cycles = 8
}

func (c *CPU) serviceIRQ() {
	c.pushWord(c.PC)
	c.push((c.P &^ flagB) | flagU)
	c.setFlag(flagI, true)
	lo := uint16(c.read(irqVector))
	hi := uint16(c.read(irqVector + 1))
	c.PC = lo | hi<<8
	c.cycles = 7
}

// Clock advances the CPU by one cycle. On the cycle where the
// previous instruction has fully retired, it services any pending
// interrupt, then fetches, decodes, and executes the next
// instruction, charging cycles up front; the remaining cycles drain
// on subsequent calls with no further work done.
func (c *CPU) Clock() {
	if c.cycles == 0 {
		if c.nmiPending {
			c.nmiPending = false
			c.serviceNMI()
		} else if c.irqPending {
			c.irqPending = false
			if !c.getFlag(flagI) {
				c.serviceIRQ()
			}
		}
		if c.cycles == 0 {
			c.step()
		}
	}
	c.totalCycles++
	c.cycles--
}

func (c *CPU) step() {
	pc := c.PC
	c.opcode = c.read(c.PC)
	c.PC++

	instr := c.instructions[c.opcode]
	c.setFlag(flagU, true)
	c.cycles = instr.cycles
	c.pageCrossed = false

	addrExtra := instr.mode(c)
	opExtra := instr.execute(c)
	c.cycles += addrExtra + opExtra

	if c.trace != nil {
		fmt.Fprintf(c.trace, "%04X  %02X  %-4s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d\n",
			pc, c.opcode, instr.name, c.A, c.X, c.Y, c.GetStatusByte(), c.SP, c.totalCycles)
	}
}

// GetPC returns the program counter.
func (c *CPU) GetPC() uint16 { return c.PC }

// SetPC overwrites the program counter, used by test harnesses that
// need to start execution at a fixed address (e.g. nestest's $C000 entry).
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// CyclesRemaining reports how many more Clock calls will elapse
// before the next instruction is fetched.
func (c *CPU) CyclesRemaining() uint8 { return c.cycles }

// TotalCycles returns the monotonic cycle counter since Reset.
func (c *CPU) TotalCycles() uint64 { return c.totalCycles }
