package cpu

// Each addressing-mode resolver sets c.addrAbs (or c.addrRel, for REL)
// and records whether the effective address crossed a page boundary
// in c.pageCrossed. Only specific opcode handlers consult that flag
// to charge the extra cycle real hardware grants to read-class
// instructions; write-class instructions at the same addressing mode
// never do. IMP/ACC touch neither; ACC handlers read/write c.A
// directly, selected via c.isAcc. The uint8 return value is unused
// directly by callers (always 0) and exists only so every resolver
// shares the same func(*CPU) uint8 shape as the opcode handlers.

func (c *CPU) imp() uint8 {
	c.isAcc = false
	return 0
}

func (c *CPU) acc() uint8 {
	c.isAcc = true
	c.fetched = c.A
	return 0
}

func (c *CPU) imm() uint8 {
	c.isAcc = false
	c.addrAbs = c.PC
	c.PC++
	return 0
}

func (c *CPU) zp0() uint8 {
	c.isAcc = false
	c.addrAbs = uint16(c.read(c.PC)) & 0x00FF
	c.PC++
	return 0
}

func (c *CPU) zpx() uint8 {
	c.isAcc = false
	c.addrAbs = uint16(c.read(c.PC)+c.X) & 0x00FF
	c.PC++
	return 0
}

func (c *CPU) zpy() uint8 {
	c.isAcc = false
	c.addrAbs = uint16(c.read(c.PC)+c.Y) & 0x00FF
	c.PC++
	return 0
}

func (c *CPU) rel() uint8 {
	c.isAcc = false
	offset := uint16(c.read(c.PC))
	c.PC++
	if offset&0x80 != 0 {
		offset |= 0xFF00
	}
	c.addrRel = offset
	return 0
}

func (c *CPU) abs() uint8 {
	c.isAcc = false
	lo := uint16(c.read(c.PC))
	c.PC++
	hi := uint16(c.read(c.PC))
	c.PC++
	c.addrAbs = lo | hi<<8
	return 0
}

func (c *CPU) abx() uint8 {
	c.isAcc = false
	lo := uint16(c.read(c.PC))
	c.PC++
	hi := uint16(c.read(c.PC))
	c.PC++
	base := lo | hi<<8
	c.addrAbs = base + uint16(c.X)
	c.pageCrossed = c.addrAbs&0xFF00 != hi<<8
	return 0
}

func (c *CPU) aby() uint8 {
	c.isAcc = false
	lo := uint16(c.read(c.PC))
	c.PC++
	hi := uint16(c.read(c.PC))
	c.PC++
	base := lo | hi<<8
	c.addrAbs = base + uint16(c.Y)
	c.pageCrossed = c.addrAbs&0xFF00 != hi<<8
	return 0
}

// ind resolves JMP's indirect operand, faithfully reproducing the
// page-wrap hardware bug: if the pointer's low byte is 0xFF, the high
// byte of the target is fetched from the start of the same page
// rather than the next page.
func (c *CPU) ind() uint8 {
	c.isAcc = false
	ptrLo := uint16(c.read(c.PC))
	c.PC++
	ptrHi := uint16(c.read(c.PC))
	c.PC++
	ptr := ptrLo | ptrHi<<8

	var hiAddr uint16
	if ptrLo == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	lo := uint16(c.read(ptr))
	hi := uint16(c.read(hiAddr))
	c.addrAbs = lo | hi<<8
	return 0
}

func (c *CPU) izx() uint8 {
	c.isAcc = false
	base := c.read(c.PC)
	c.PC++
	lo := uint16(c.read(uint16(base + c.X)))
	hi := uint16(c.read(uint16(base + c.X + 1)))
	c.addrAbs = lo | hi<<8
	return 0
}

func (c *CPU) izy() uint8 {
	c.isAcc = false
	base := c.read(c.PC)
	c.PC++
	lo := uint16(c.read(uint16(base)))
	hi := uint16(c.read(uint16(base + 1)))
	ptr := lo | hi<<8
	c.addrAbs = ptr + uint16(c.Y)
	c.pageCrossed = c.addrAbs&0xFF00 != hi<<8
	return 0
}

// fetch returns the operand byte for the current instruction: the
// accumulator for ACC-mode instructions, otherwise a fresh read of
// addrAbs.
func (c *CPU) fetch() uint8 {
	if c.isAcc {
		return c.A
	}
	c.fetched = c.read(c.addrAbs)
	return c.fetched
}
