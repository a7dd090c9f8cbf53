// Package graphics abstracts the frame-presentation surface the
// emulation core stays independent of: a Backend turns a 256x240 NES
// frame buffer into pixels on screen (or discards it, for headless
// runs), and a Window carries the host input events back to the caller.
package graphics

import "errors"

// ErrHeadlessBuild is returned by the Ebitengine stub's Initialize,
// CreateWindow, RenderFrame and Run when the binary was built with the
// headless tag, so a caller that accidentally requests the GUI backend in
// a headless build gets one consistent error instead of a different
// string per stub method.
var ErrHeadlessBuild = errors.New("graphics: ebitengine backend unavailable in a headless build")

// Backend creates and tears down a presentation surface. Two
// implementations exist: an Ebitengine-backed window for interactive use,
// and a no-op headless backend for batch runs and automated testing.
type Backend interface {
	Initialize(config Config) error
	CreateWindow(title string, width, height int) (Window, error)
	Cleanup() error
	IsHeadless() bool
	GetName() string
}

// Window is one open presentation surface: it accepts rendered frames and
// surfaces host input as a queue of InputEvents.
type Window interface {
	SetTitle(title string)
	GetSize() (width, height int)
	ShouldClose() bool
	SwapBuffers()
	PollEvents() []InputEvent
	RenderFrame(frameBuffer [256 * 240]uint32) error
	Cleanup() error
}

// Config configures a Backend at Initialize time.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool
	Filter       string // "nearest" or "linear"
	Headless     bool
}

// InputEvent is one host-side input transition: a raw key edge, a
// controller button edge (mapped to the NES's two controller ports), or
// a request to close the window.
type InputEvent struct {
	Type InputEventType
	Key  Key

	// Button and Controller are only meaningful when Type is
	// InputEventTypeButton. Controller is 1 or 2, selecting which of the
	// bus's two controller latches ($4016/$4017) the button belongs to.
	Button     Button
	Controller int

	Pressed   bool
	Modifiers ModifierKey
}

// InputEventType distinguishes the three shapes an InputEvent can take.
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeButton
	InputEventTypeQuit
)

// Key identifies a host keyboard key, for shortcuts that don't map to a
// NES controller button (quitting, function-key debug hooks, ...).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyJ
	KeyK
	KeyX
	KeyZ
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Button identifies one of the eight buttons on an NES controller, in
// the controller byte's bit order {A, B, Select, Start, Up, Down, Left,
// Right}. Which physical controller (1 or 2) a button event targets
// travels separately, in InputEvent.Controller.
type Button int

const (
	ButtonUnknown Button = iota
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// ModifierKey is a bitmask of held modifier keys.
type ModifierKey int

const (
	ModifierShift ModifierKey = 1 << iota
	ModifierCtrl
	ModifierAlt
	ModifierSuper
)

// BackendType selects which Backend implementation CreateBackend builds.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
)

// CreateBackend constructs a Backend of the requested type, defaulting to
// the Ebitengine GUI backend for anything other than "headless".
func CreateBackend(backendType BackendType) (Backend, error) {
	if backendType == BackendHeadless {
		return NewHeadlessBackend(), nil
	}
	return NewEbitengineBackend(), nil
}

// AsEbitengineWindow reports whether window is the Ebitengine-backed
// implementation, letting cmd/nes drive Ebitengine's own run loop
// (ebiten.RunGame) instead of the generic poll-and-render loop headless
// runs use.
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	w, ok := window.(*EbitengineWindow)
	return w, ok
}
