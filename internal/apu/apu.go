// Package apu decodes the NES APU's CPU-visible register window.
// Audio synthesis is out of scope; writes are accepted and discarded
// and status reads report no pending interrupts, which is equivalent
// to silent output for a host that never asks for samples.
package apu

// APU accepts writes to $4000-$4013/$4015/$4017 and answers $4015
// status reads, without driving any channel synthesis.
type APU struct {
	frameIRQFlag bool
	dmcIRQFlag   bool
}

// New creates an APU with all channels disabled.
func New() *APU {
	return &APU{}
}

// WriteRegister decodes a CPU write in the $4000-$4017 APU window.
// Channel control registers ($4000-$4013) are accepted and ignored.
// A $4015 write clears the DMC IRQ flag; its channel-enable bits are
// not stored. A $4017 write with bit 6 set clears the frame IRQ flag;
// the frame-counter mode is not stored.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x4015:
		a.dmcIRQFlag = false
	case 0x4017:
		if value&0x40 != 0 {
			a.frameIRQFlag = false
		}
	default:
		// Pulse/triangle/noise/DMC control registers: no channel to drive.
	}
}

// ReadStatus decodes a CPU read of $4015. Length counters and the DMC
// sample buffer are never populated, so every channel reports silent;
// only the two interrupt flags are meaningful.
func (a *APU) ReadStatus() uint8 {
	var status uint8
	if a.frameIRQFlag {
		status |= 0x40
	}
	if a.dmcIRQFlag {
		status |= 0x80
	}
	a.frameIRQFlag = false
	return status
}

// Reset clears pending interrupt flags.
func (a *APU) Reset() {
	a.frameIRQFlag = false
	a.dmcIRQFlag = false
}
