package cartridge

// Mapper decodes CPU and PPU addresses into cartridge storage. Every
// operation reports whether the mapper claimed the address via a
// second, idiomatic "comma-ok" return value, so a declined access (an
// address this mapper doesn't decode) is never confused with one that
// was mapped and happened to produce a zero value.
type Mapper interface {
	// ReadPRG maps a CPU address in 0x4020-0xFFFF. ok is false if the
	// mapper declines the address entirely.
	ReadPRG(address uint16) (value uint8, ok bool)
	// WritePRG maps a CPU write address. ok is false if the mapper
	// declines the write (e.g. a read-only ROM region).
	WritePRG(address uint16, value uint8) (ok bool)
	// ReadCHR maps a PPU pattern-table address in 0x0000-0x1FFF.
	ReadCHR(address uint16) (value uint8, ok bool)
	// WriteCHR maps a PPU pattern-table write address. ok is false
	// unless the board has CHR RAM.
	WriteCHR(address uint16, value uint8) (ok bool)
}
