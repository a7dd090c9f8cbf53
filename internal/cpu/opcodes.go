package cpu

type modeFunc func(*CPU) uint8
type execFunc func(*CPU) uint8

type instruction struct {
	name    string
	mode    modeFunc
	execute execFunc
	cycles  uint8
}

func (c *CPU) extra() uint8 {
	if c.pageCrossed {
		return 1
	}
	return 0
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// buildInstructionTable populates the 256-entry opcode table. The
// unofficial NOPs listed at the end of the table are sized to their
// addressing mode. Every other slot not claimed by an official opcode
// defaults to a one-byte, two-cycle implied NOP, whatever length that
// opcode has on real hardware.
func (c *CPU) buildInstructionTable() {
	for i := range c.instructions {
		c.instructions[i] = instruction{name: "NOP", mode: (*CPU).imp, execute: (*CPU).nop, cycles: 2}
	}

	type def struct {
		op      uint8
		name    string
		mode    modeFunc
		execute execFunc
		cycles  uint8
	}

	defs := []def{
		// ADC
		{0x69, "ADC", (*CPU).imm, (*CPU).adc, 2}, {0x65, "ADC", (*CPU).zp0, (*CPU).adc, 3},
		{0x75, "ADC", (*CPU).zpx, (*CPU).adc, 4}, {0x6D, "ADC", (*CPU).abs, (*CPU).adc, 4},
		{0x7D, "ADC", (*CPU).abx, (*CPU).adc, 4}, {0x79, "ADC", (*CPU).aby, (*CPU).adc, 4},
		{0x61, "ADC", (*CPU).izx, (*CPU).adc, 6}, {0x71, "ADC", (*CPU).izy, (*CPU).adc, 5},

		// AND
		{0x29, "AND", (*CPU).imm, (*CPU).and, 2}, {0x25, "AND", (*CPU).zp0, (*CPU).and, 3},
		{0x35, "AND", (*CPU).zpx, (*CPU).and, 4}, {0x2D, "AND", (*CPU).abs, (*CPU).and, 4},
		{0x3D, "AND", (*CPU).abx, (*CPU).and, 4}, {0x39, "AND", (*CPU).aby, (*CPU).and, 4},
		{0x21, "AND", (*CPU).izx, (*CPU).and, 6}, {0x31, "AND", (*CPU).izy, (*CPU).and, 5},

		// ASL
		{0x0A, "ASL", (*CPU).acc, (*CPU).asl, 2}, {0x06, "ASL", (*CPU).zp0, (*CPU).asl, 5},
		{0x16, "ASL", (*CPU).zpx, (*CPU).asl, 6}, {0x0E, "ASL", (*CPU).abs, (*CPU).asl, 6},
		{0x1E, "ASL", (*CPU).abx, (*CPU).asl, 7},

		// Branches
		{0x90, "BCC", (*CPU).rel, (*CPU).bcc, 2}, {0xB0, "BCS", (*CPU).rel, (*CPU).bcs, 2},
		{0xF0, "BEQ", (*CPU).rel, (*CPU).beq, 2}, {0x30, "BMI", (*CPU).rel, (*CPU).bmi, 2},
		{0xD0, "BNE", (*CPU).rel, (*CPU).bne, 2}, {0x10, "BPL", (*CPU).rel, (*CPU).bpl, 2},
		{0x50, "BVC", (*CPU).rel, (*CPU).bvc, 2}, {0x70, "BVS", (*CPU).rel, (*CPU).bvs, 2},

		// BIT
		{0x24, "BIT", (*CPU).zp0, (*CPU).bit, 3}, {0x2C, "BIT", (*CPU).abs, (*CPU).bit, 4},

		// BRK
		{0x00, "BRK", (*CPU).imp, (*CPU).brk, 7},

		// Flags
		{0x18, "CLC", (*CPU).imp, (*CPU).clc, 2}, {0xD8, "CLD", (*CPU).imp, (*CPU).cld, 2},
		{0x58, "CLI", (*CPU).imp, (*CPU).cli, 2}, {0xB8, "CLV", (*CPU).imp, (*CPU).clv, 2},
		{0x38, "SEC", (*CPU).imp, (*CPU).sec, 2}, {0xF8, "SED", (*CPU).imp, (*CPU).sed, 2},
		{0x78, "SEI", (*CPU).imp, (*CPU).sei, 2},

		// CMP
		{0xC9, "CMP", (*CPU).imm, (*CPU).cmp, 2}, {0xC5, "CMP", (*CPU).zp0, (*CPU).cmp, 3},
		{0xD5, "CMP", (*CPU).zpx, (*CPU).cmp, 4}, {0xCD, "CMP", (*CPU).abs, (*CPU).cmp, 4},
		{0xDD, "CMP", (*CPU).abx, (*CPU).cmp, 4}, {0xD9, "CMP", (*CPU).aby, (*CPU).cmp, 4},
		{0xC1, "CMP", (*CPU).izx, (*CPU).cmp, 6}, {0xD1, "CMP", (*CPU).izy, (*CPU).cmp, 5},

		// CPX / CPY
		{0xE0, "CPX", (*CPU).imm, (*CPU).cpx, 2}, {0xE4, "CPX", (*CPU).zp0, (*CPU).cpx, 3},
		{0xEC, "CPX", (*CPU).abs, (*CPU).cpx, 4},
		{0xC0, "CPY", (*CPU).imm, (*CPU).cpy, 2}, {0xC4, "CPY", (*CPU).zp0, (*CPU).cpy, 3},
		{0xCC, "CPY", (*CPU).abs, (*CPU).cpy, 4},

		// DEC/DEX/DEY
		{0xC6, "DEC", (*CPU).zp0, (*CPU).dec, 5}, {0xD6, "DEC", (*CPU).zpx, (*CPU).dec, 6},
		{0xCE, "DEC", (*CPU).abs, (*CPU).dec, 6}, {0xDE, "DEC", (*CPU).abx, (*CPU).dec, 7},
		{0xCA, "DEX", (*CPU).imp, (*CPU).dex, 2}, {0x88, "DEY", (*CPU).imp, (*CPU).dey, 2},

		// EOR
		{0x49, "EOR", (*CPU).imm, (*CPU).eor, 2}, {0x45, "EOR", (*CPU).zp0, (*CPU).eor, 3},
		{0x55, "EOR", (*CPU).zpx, (*CPU).eor, 4}, {0x4D, "EOR", (*CPU).abs, (*CPU).eor, 4},
		{0x5D, "EOR", (*CPU).abx, (*CPU).eor, 4}, {0x59, "EOR", (*CPU).aby, (*CPU).eor, 4},
		{0x41, "EOR", (*CPU).izx, (*CPU).eor, 6}, {0x51, "EOR", (*CPU).izy, (*CPU).eor, 5},

		// INC/INX/INY
		{0xE6, "INC", (*CPU).zp0, (*CPU).inc, 5}, {0xF6, "INC", (*CPU).zpx, (*CPU).inc, 6},
		{0xEE, "INC", (*CPU).abs, (*CPU).inc, 6}, {0xFE, "INC", (*CPU).abx, (*CPU).inc, 7},
		{0xE8, "INX", (*CPU).imp, (*CPU).inx, 2}, {0xC8, "INY", (*CPU).imp, (*CPU).iny, 2},

		// JMP/JSR/RTS/RTI
		{0x4C, "JMP", (*CPU).abs, (*CPU).jmp, 3}, {0x6C, "JMP", (*CPU).ind, (*CPU).jmp, 5},
		{0x20, "JSR", (*CPU).abs, (*CPU).jsr, 6},
		{0x60, "RTS", (*CPU).imp, (*CPU).rts, 6}, {0x40, "RTI", (*CPU).imp, (*CPU).rti, 6},

		// LDA/LDX/LDY
		{0xA9, "LDA", (*CPU).imm, (*CPU).lda, 2}, {0xA5, "LDA", (*CPU).zp0, (*CPU).lda, 3},
		{0xB5, "LDA", (*CPU).zpx, (*CPU).lda, 4}, {0xAD, "LDA", (*CPU).abs, (*CPU).lda, 4},
		{0xBD, "LDA", (*CPU).abx, (*CPU).lda, 4}, {0xB9, "LDA", (*CPU).aby, (*CPU).lda, 4},
		{0xA1, "LDA", (*CPU).izx, (*CPU).lda, 6}, {0xB1, "LDA", (*CPU).izy, (*CPU).lda, 5},
		{0xA2, "LDX", (*CPU).imm, (*CPU).ldx, 2}, {0xA6, "LDX", (*CPU).zp0, (*CPU).ldx, 3},
		{0xB6, "LDX", (*CPU).zpy, (*CPU).ldx, 4}, {0xAE, "LDX", (*CPU).abs, (*CPU).ldx, 4},
		{0xBE, "LDX", (*CPU).aby, (*CPU).ldx, 4},
		{0xA0, "LDY", (*CPU).imm, (*CPU).ldy, 2}, {0xA4, "LDY", (*CPU).zp0, (*CPU).ldy, 3},
		{0xB4, "LDY", (*CPU).zpx, (*CPU).ldy, 4}, {0xAC, "LDY", (*CPU).abs, (*CPU).ldy, 4},
		{0xBC, "LDY", (*CPU).abx, (*CPU).ldy, 4},

		// LSR
		{0x4A, "LSR", (*CPU).acc, (*CPU).lsr, 2}, {0x46, "LSR", (*CPU).zp0, (*CPU).lsr, 5},
		{0x56, "LSR", (*CPU).zpx, (*CPU).lsr, 6}, {0x4E, "LSR", (*CPU).abs, (*CPU).lsr, 6},
		{0x5E, "LSR", (*CPU).abx, (*CPU).lsr, 7},

		// NOP (official)
		{0xEA, "NOP", (*CPU).imp, (*CPU).nop, 2},

		// ORA
		{0x09, "ORA", (*CPU).imm, (*CPU).ora, 2}, {0x05, "ORA", (*CPU).zp0, (*CPU).ora, 3},
		{0x15, "ORA", (*CPU).zpx, (*CPU).ora, 4}, {0x0D, "ORA", (*CPU).abs, (*CPU).ora, 4},
		{0x1D, "ORA", (*CPU).abx, (*CPU).ora, 4}, {0x19, "ORA", (*CPU).aby, (*CPU).ora, 4},
		{0x01, "ORA", (*CPU).izx, (*CPU).ora, 6}, {0x11, "ORA", (*CPU).izy, (*CPU).ora, 5},

		// Stack
		{0x48, "PHA", (*CPU).imp, (*CPU).pha, 3}, {0x08, "PHP", (*CPU).imp, (*CPU).php, 3},
		{0x68, "PLA", (*CPU).imp, (*CPU).pla, 4}, {0x28, "PLP", (*CPU).imp, (*CPU).plp, 4},

		// ROL/ROR
		{0x2A, "ROL", (*CPU).acc, (*CPU).rol, 2}, {0x26, "ROL", (*CPU).zp0, (*CPU).rol, 5},
		{0x36, "ROL", (*CPU).zpx, (*CPU).rol, 6}, {0x2E, "ROL", (*CPU).abs, (*CPU).rol, 6},
		{0x3E, "ROL", (*CPU).abx, (*CPU).rol, 7},
		{0x6A, "ROR", (*CPU).acc, (*CPU).ror, 2}, {0x66, "ROR", (*CPU).zp0, (*CPU).ror, 5},
		{0x76, "ROR", (*CPU).zpx, (*CPU).ror, 6}, {0x6E, "ROR", (*CPU).abs, (*CPU).ror, 6},
		{0x7E, "ROR", (*CPU).abx, (*CPU).ror, 7},

		// SBC
		{0xE9, "SBC", (*CPU).imm, (*CPU).sbc, 2}, {0xE5, "SBC", (*CPU).zp0, (*CPU).sbc, 3},
		{0xF5, "SBC", (*CPU).zpx, (*CPU).sbc, 4}, {0xED, "SBC", (*CPU).abs, (*CPU).sbc, 4},
		{0xFD, "SBC", (*CPU).abx, (*CPU).sbc, 4}, {0xF9, "SBC", (*CPU).aby, (*CPU).sbc, 4},
		{0xE1, "SBC", (*CPU).izx, (*CPU).sbc, 6}, {0xF1, "SBC", (*CPU).izy, (*CPU).sbc, 5},

		// Stores
		{0x85, "STA", (*CPU).zp0, (*CPU).sta, 3}, {0x95, "STA", (*CPU).zpx, (*CPU).sta, 4},
		{0x8D, "STA", (*CPU).abs, (*CPU).sta, 4}, {0x9D, "STA", (*CPU).abx, (*CPU).sta, 5},
		{0x99, "STA", (*CPU).aby, (*CPU).sta, 5}, {0x81, "STA", (*CPU).izx, (*CPU).sta, 6},
		{0x91, "STA", (*CPU).izy, (*CPU).sta, 6},
		{0x86, "STX", (*CPU).zp0, (*CPU).stx, 3}, {0x96, "STX", (*CPU).zpy, (*CPU).stx, 4},
		{0x8E, "STX", (*CPU).abs, (*CPU).stx, 4},
		{0x84, "STY", (*CPU).zp0, (*CPU).sty, 3}, {0x94, "STY", (*CPU).zpx, (*CPU).sty, 4},
		{0x8C, "STY", (*CPU).abs, (*CPU).sty, 4},

		// Transfers
		{0xAA, "TAX", (*CPU).imp, (*CPU).tax, 2}, {0xA8, "TAY", (*CPU).imp, (*CPU).tay, 2},
		{0xBA, "TSX", (*CPU).imp, (*CPU).tsx, 2}, {0x8A, "TXA", (*CPU).imp, (*CPU).txa, 2},
		{0x9A, "TXS", (*CPU).imp, (*CPU).txs, 2}, {0x98, "TYA", (*CPU).imp, (*CPU).tya, 2},

		// Unofficial but commonly seen multi-byte NOPs: sized to match
		// their addressing mode so the disassembler and cycle counter
		// stay plausible even though only a NOP side effect is emulated.
		{0x1A, "NOP", (*CPU).imp, (*CPU).nop, 2}, {0x3A, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0x5A, "NOP", (*CPU).imp, (*CPU).nop, 2}, {0x7A, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0xDA, "NOP", (*CPU).imp, (*CPU).nop, 2}, {0xFA, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0x80, "NOP", (*CPU).imm, (*CPU).nopRead, 2}, {0x82, "NOP", (*CPU).imm, (*CPU).nopRead, 2},
		{0x89, "NOP", (*CPU).imm, (*CPU).nopRead, 2}, {0xC2, "NOP", (*CPU).imm, (*CPU).nopRead, 2},
		{0xE2, "NOP", (*CPU).imm, (*CPU).nopRead, 2},
		{0x04, "NOP", (*CPU).zp0, (*CPU).nopRead, 3}, {0x44, "NOP", (*CPU).zp0, (*CPU).nopRead, 3},
		{0x64, "NOP", (*CPU).zp0, (*CPU).nopRead, 3},
		{0x14, "NOP", (*CPU).zpx, (*CPU).nopRead, 4}, {0x34, "NOP", (*CPU).zpx, (*CPU).nopRead, 4},
		{0x54, "NOP", (*CPU).zpx, (*CPU).nopRead, 4}, {0x74, "NOP", (*CPU).zpx, (*CPU).nopRead, 4},
		{0xD4, "NOP", (*CPU).zpx, (*CPU).nopRead, 4}, {0xF4, "NOP", (*CPU).zpx, (*CPU).nopRead, 4},
		{0x0C, "NOP", (*CPU).abs, (*CPU).nopRead, 4},
		{0x1C, "NOP", (*CPU).abx, (*CPU).nopRead, 4}, {0x3C, "NOP", (*CPU).abx, (*CPU).nopRead, 4},
		{0x5C, "NOP", (*CPU).abx, (*CPU).nopRead, 4}, {0x7C, "NOP", (*CPU).abx, (*CPU).nopRead, 4},
		{0xDC, "NOP", (*CPU).abx, (*CPU).nopRead, 4}, {0xFC, "NOP", (*CPU).abx, (*CPU).nopRead, 4},
	}

	for _, d := range defs {
		c.instructions[d.op] = instruction{name: d.name, mode: d.mode, execute: d.execute, cycles: d.cycles}
	}
}

// --- load/store ---

func (c *CPU) lda() uint8 { c.A = c.fetch(); c.setZN(c.A); return c.extra() }
func (c *CPU) ldx() uint8 { c.X = c.fetch(); c.setZN(c.X); return c.extra() }
func (c *CPU) ldy() uint8 { c.Y = c.fetch(); c.setZN(c.Y); return c.extra() }

func (c *CPU) sta() uint8 { c.write(c.addrAbs, c.A); return 0 }
func (c *CPU) stx() uint8 { c.write(c.addrAbs, c.X); return 0 }
func (c *CPU) sty() uint8 { c.write(c.addrAbs, c.Y); return 0 }

// --- arithmetic ---

func (c *CPU) adcWith(operand uint8) {
	sum := uint16(c.A) + uint16(operand) + uint16(b2u8(c.getFlag(flagC)))
	result := uint8(sum)
	c.setFlag(flagV, (^(c.A^operand)&(c.A^result)&0x80) != 0)
	c.setFlag(flagC, sum > 0xFF)
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) adc() uint8 { c.adcWith(c.fetch()); return c.extra() }
func (c *CPU) sbc() uint8 { c.adcWith(c.fetch() ^ 0xFF); return c.extra() }

func (c *CPU) and() uint8 { c.A &= c.fetch(); c.setZN(c.A); return c.extra() }
func (c *CPU) ora() uint8 { c.A |= c.fetch(); c.setZN(c.A); return c.extra() }
func (c *CPU) eor() uint8 { c.A ^= c.fetch(); c.setZN(c.A); return c.extra() }

func (c *CPU) bit() uint8 {
	v := c.fetch()
	c.setFlag(flagN, v&0x80 != 0)
	c.setFlag(flagV, v&0x40 != 0)
	c.setFlag(flagZ, c.A&v == 0)
	return 0
}

func (c *CPU) compare(reg uint8) {
	operand := c.fetch()
	result := reg - operand
	c.setFlag(flagC, reg >= operand)
	c.setZN(result)
}

func (c *CPU) cmp() uint8 { c.compare(c.A); return c.extra() }
func (c *CPU) cpx() uint8 { c.compare(c.X); return 0 }
func (c *CPU) cpy() uint8 { c.compare(c.Y); return 0 }

// --- shifts/rotates ---

func (c *CPU) writeResult(v uint8) {
	if c.isAcc {
		c.A = v
	} else {
		c.write(c.addrAbs, v)
	}
}

func (c *CPU) asl() uint8 {
	v := c.fetch()
	c.setFlag(flagC, v&0x80 != 0)
	result := v << 1
	c.writeResult(result)
	c.setZN(result)
	return 0
}

func (c *CPU) lsr() uint8 {
	v := c.fetch()
	c.setFlag(flagC, v&0x01 != 0)
	result := v >> 1
	c.writeResult(result)
	c.setZN(result)
	return 0
}

func (c *CPU) rol() uint8 {
	v := c.fetch()
	carryIn := b2u8(c.getFlag(flagC))
	c.setFlag(flagC, v&0x80 != 0)
	result := (v << 1) | carryIn
	c.writeResult(result)
	c.setZN(result)
	return 0
}

func (c *CPU) ror() uint8 {
	v := c.fetch()
	carryIn := b2u8(c.getFlag(flagC))
	c.setFlag(flagC, v&0x01 != 0)
	result := (v >> 1) | (carryIn << 7)
	c.writeResult(result)
	c.setZN(result)
	return 0
}

// --- increment/decrement ---

func (c *CPU) inc() uint8 { v := c.read(c.addrAbs) + 1; c.write(c.addrAbs, v); c.setZN(v); return 0 }
func (c *CPU) dec() uint8 { v := c.read(c.addrAbs) - 1; c.write(c.addrAbs, v); c.setZN(v); return 0 }
func (c *CPU) inx() uint8 { c.X++; c.setZN(c.X); return 0 }
func (c *CPU) dex() uint8 { c.X--; c.setZN(c.X); return 0 }
func (c *CPU) iny() uint8 { c.Y++; c.setZN(c.Y); return 0 }
func (c *CPU) dey() uint8 { c.Y--; c.setZN(c.Y); return 0 }

// --- flags ---

func (c *CPU) clc() uint8 { c.setFlag(flagC, false); return 0 }
func (c *CPU) sec() uint8 { c.setFlag(flagC, true); return 0 }
func (c *CPU) cli() uint8 { c.setFlag(flagI, false); return 0 }
func (c *CPU) sei() uint8 { c.setFlag(flagI, true); return 0 }
func (c *CPU) clv() uint8 { c.setFlag(flagV, false); return 0 }
func (c *CPU) cld() uint8 { c.setFlag(flagD, false); return 0 }
func (c *CPU) sed() uint8 { c.setFlag(flagD, true); return 0 }

// --- transfers ---

func (c *CPU) tax() uint8 { c.X = c.A; c.setZN(c.X); return 0 }
func (c *CPU) tay() uint8 { c.Y = c.A; c.setZN(c.Y); return 0 }
func (c *CPU) txa() uint8 { c.A = c.X; c.setZN(c.A); return 0 }
func (c *CPU) tya() uint8 { c.A = c.Y; c.setZN(c.A); return 0 }
func (c *CPU) tsx() uint8 { c.X = c.SP; c.setZN(c.X); return 0 }
func (c *CPU) txs() uint8 { c.SP = c.X; return 0 }

// --- stack ---

func (c *CPU) pha() uint8 { c.push(c.A); return 0 }
func (c *CPU) pla() uint8 { c.A = c.pop(); c.setZN(c.A); return 0 }
func (c *CPU) php() uint8 { c.push(c.P | flagB | flagU); return 0 }
func (c *CPU) plp() uint8 { c.P = (c.pop() &^ flagB) | flagU; return 0 }

// --- control flow ---

func (c *CPU) jmp() uint8 { c.PC = c.addrAbs; return 0 }

func (c *CPU) jsr() uint8 {
	c.pushWord(c.PC - 1)
	c.PC = c.addrAbs
	return 0
}

func (c *CPU) rts() uint8 { c.PC = c.popWord() + 1; return 0 }

func (c *CPU) rti() uint8 {
	c.P = (c.pop() &^ flagB) | flagU
	c.PC = c.popWord()
	return 0
}

func (c *CPU) brk() uint8 {
	c.PC++ // BRK's second byte is a padding signature byte, skipped
	c.pushWord(c.PC)
	c.push(c.P | flagB | flagU)
	c.setFlag(flagI, true)
	lo := uint16(c.read(irqVector))
	hi := uint16(c.read(irqVector + 1))
	c.PC = lo | hi<<8
	return 0
}

func (c *CPU) branch(taken bool) uint8 {
	if !taken {
		return 0
	}
	extra := uint8(1)
	target := c.PC + c.addrRel
	if target&0xFF00 != c.PC&0xFF00 {
		extra++
	}
	c.PC = target
	return extra
}

func (c *CPU) bcc() uint8 { return c.branch(!c.getFlag(flagC)) }
func (c *CPU) bcs() uint8 { return c.branch(c.getFlag(flagC)) }
func (c *CPU) bne() uint8 { return c.branch(!c.getFlag(flagZ)) }
func (c *CPU) beq() uint8 { return c.branch(c.getFlag(flagZ)) }
func (c *CPU) bpl() uint8 { return c.branch(!c.getFlag(flagN)) }
func (c *CPU) bmi() uint8 { return c.branch(c.getFlag(flagN)) }
func (c *CPU) bvc() uint8 { return c.branch(!c.getFlag(flagV)) }
func (c *CPU) bvs() uint8 { return c.branch(c.getFlag(flagV)) }

// --- no-ops ---

func (c *CPU) nop() uint8 { return 0 }

// nopRead performs the dummy operand read a multi-byte illegal NOP
// makes on real hardware, so it picks up the same page-cross penalty
// an LDA at the same addressing mode would.
func (c *CPU) nopRead() uint8 { c.fetch(); return c.extra() }
