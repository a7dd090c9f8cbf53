package cpu

import (
	"fmt"
	"reflect"
)

// DebugBus is the minimal, side-effect-free memory contract the
// disassembler needs. Bus.DebugRead satisfies it.
type DebugBus interface {
	DebugRead(address uint16) uint8
}

type addrModeKind int

const (
	modeImp addrModeKind = iota
	modeAcc
	modeImm
	modeZp0
	modeZpx
	modeZpy
	modeRel
	modeAbs
	modeAbx
	modeAby
	modeInd
	modeIzx
	modeIzy
)

func funcPtr(f modeFunc) uintptr {
	return reflect.ValueOf(f).Pointer()
}

var modeKindByFunc = map[uintptr]addrModeKind{
	funcPtr((*CPU).imp): modeImp,
	funcPtr((*CPU).acc): modeAcc,
	funcPtr((*CPU).imm): modeImm,
	funcPtr((*CPU).zp0): modeZp0,
	funcPtr((*CPU).zpx): modeZpx,
	funcPtr((*CPU).zpy): modeZpy,
	funcPtr((*CPU).rel): modeRel,
	funcPtr((*CPU).abs): modeAbs,
	funcPtr((*CPU).abx): modeAbx,
	funcPtr((*CPU).aby): modeAby,
	funcPtr((*CPU).ind): modeInd,
	funcPtr((*CPU).izx): modeIzx,
	funcPtr((*CPU).izy): modeIzy,
}

// instrLength reports how many bytes (opcode plus operand) an
// instruction in addressing mode kind occupies.
func instrLength(kind addrModeKind) uint16 {
	switch kind {
	case modeImp, modeAcc:
		return 1
	case modeAbs, modeAbx, modeAby, modeInd:
		return 3
	default:
		return 2
	}
}

// Disassemble decodes every instruction from start through end
// (inclusive) and returns one formatted mnemonic line per instruction,
// keyed by the address its opcode byte occupies. It reads memory
// exclusively through bus.DebugRead, so disassembling a running
// system never perturbs PPU registers or controller shift latches.
// Unofficial opcodes with no dedicated handler still decode with
// their table-assigned addressing mode, since buildInstructionTable
// gives every opcode slot a mode and a byte length.
func Disassemble(bus DebugBus, start, end uint16) map[uint16]string {
	table := &CPU{}
	table.buildInstructionTable()

	out := make(map[uint16]string)
	for pc := uint32(start); pc <= uint32(end); {
		addr := uint16(pc)
		opcode := bus.DebugRead(addr)
		instr := table.instructions[opcode]
		kind := modeKindByFunc[funcPtr(instr.mode)]
		length := instrLength(kind)

		out[addr] = fmt.Sprintf("%04X  %02X %s", addr, opcode, formatOperand(bus, addr, kind, instr.name))

		pc += uint32(length)
	}
	return out
}

func formatOperand(bus DebugBus, addr uint16, kind addrModeKind, name string) string {
	switch kind {
	case modeImp:
		return name
	case modeAcc:
		return name + " A"
	case modeImm:
		return fmt.Sprintf("%s #$%02X", name, bus.DebugRead(addr+1))
	case modeZp0:
		return fmt.Sprintf("%s $%02X", name, bus.DebugRead(addr+1))
	case modeZpx:
		return fmt.Sprintf("%s $%02X,X", name, bus.DebugRead(addr+1))
	case modeZpy:
		return fmt.Sprintf("%s $%02X,Y", name, bus.DebugRead(addr+1))
	case modeRel:
		offset := int8(bus.DebugRead(addr + 1))
		target := uint16(int32(addr) + 2 + int32(offset))
		return fmt.Sprintf("%s $%04X", name, target)
	case modeAbs:
		lo, hi := bus.DebugRead(addr+1), bus.DebugRead(addr+2)
		return fmt.Sprintf("%s $%04X", name, uint16(lo)|uint16(hi)<<8)
	case modeAbx:
		lo, hi := bus.DebugRead(addr+1), bus.DebugRead(addr+2)
		return fmt.Sprintf("%s $%04X,X", name, uint16(lo)|uint16(hi)<<8)
	case modeAby:
		lo, hi := bus.DebugRead(addr+1), bus.DebugRead(addr+2)
		return fmt.Sprintf("%s $%04X,Y", name, uint16(lo)|uint16(hi)<<8)
	case modeInd:
		lo, hi := bus.DebugRead(addr+1), bus.DebugRead(addr+2)
		return fmt.Sprintf("%s ($%04X)", name, uint16(lo)|uint16(hi)<<8)
	case modeIzx:
		return fmt.Sprintf("%s ($%02X,X)", name, bus.DebugRead(addr+1))
	case modeIzy:
		return fmt.Sprintf("%s ($%02X),Y", name, bus.DebugRead(addr+1))
	default:
		return name
	}
}
