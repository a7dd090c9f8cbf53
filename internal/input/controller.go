// Package input implements the NES controller shift-register latch.
package input

// Button identifies a single NES controller button, encoded at its
// hardware bit position: A is bit 7, Right is bit 0.
type Button uint8

const (
	ButtonA      Button = 0x80
	ButtonB      Button = 0x40
	ButtonSelect Button = 0x20
	ButtonStart  Button = 0x10
	ButtonUp     Button = 0x08
	ButtonDown   Button = 0x04
	ButtonLeft   Button = 0x02
	ButtonRight  Button = 0x01
)

// Controller models the 4021 shift register wired to the NES
// controller port: writing $01 then $00 to $4016 latches the current
// button state, and each subsequent read returns bit 7 of the latch
// and shifts it left by one.
type Controller struct {
	buttons uint8
	latch   uint8
	strobe  bool
}

// New creates a controller with no buttons pressed.
func New() *Controller {
	return &Controller{}
}

// SetButton sets or clears a single button's pressed state.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// SetButtons sets all eight button states at once, in A,B,Select,Start,
// Up,Down,Left,Right order.
func (c *Controller) SetButtons(buttons [8]bool) {
	order := [8]Button{ButtonA, ButtonB, ButtonSelect, ButtonStart, ButtonUp, ButtonDown, ButtonLeft, ButtonRight}
	c.buttons = 0
	for i, pressed := range buttons {
		if pressed {
			c.buttons |= uint8(order[i])
		}
	}
}

// IsPressed reports whether button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles a write to the controller's strobe line. While strobe
// is held high the latch continuously reloads from the live button
// state; the falling edge freezes it for serial reading.
func (c *Controller) Write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.latch = c.buttons
	}
}

// Read returns bit 7 of the latch and shifts the latch left by one.
// While strobe is held high the latch is reloaded before every read,
// so only button A is ever observed. The shift register's serial
// input is tied high, so reads past the eighth bit return 1.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.latch = c.buttons
	}
	result := (c.latch >> 7) & 1
	c.latch = c.latch<<1 | 1
	return result
}

// Reset returns the controller to its unstrobed, no-buttons state.
func (c *Controller) Reset() {
	c.buttons = 0
	c.latch = 0
	c.strobe = false
}

// InputState owns both controller ports and decodes the $4016/$4017
// CPU-visible registers.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState creates an input state with two disconnected controllers.
func NewInputState() *InputState {
	return &InputState{
		Controller1: New(),
		Controller2: New(),
	}
}

// Reset resets both controller ports.
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

// SetButtons1 sets all button states for controller 1.
func (is *InputState) SetButtons1(buttons [8]bool) {
	is.Controller1.SetButtons(buttons)
}

// SetButtons2 sets all button states for controller 2.
func (is *InputState) SetButtons2(buttons [8]bool) {
	is.Controller2.SetButtons(buttons)
}

// Read decodes a CPU read from $4016 or $4017. $4017 reads back with
// bit 6 set regardless of button state, matching the NES's open-bus
// wiring between the second controller port and the APU.
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read()
	case 0x4017:
		return is.Controller2.Read() | 0x40
	default:
		return 0
	}
}

// Write decodes a CPU write to $4016. Both controller shift registers
// share the single strobe line.
func (is *InputState) Write(address uint16, value uint8) {
	if address == 0x4016 {
		is.Controller1.Write(value)
		is.Controller2.Write(value)
	}
}
