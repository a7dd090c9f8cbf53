//go:build !headless
// +build !headless

package graphics

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const nesFrameWidth, nesFrameHeight = 256, 240

// EbitengineBackend is the interactive Backend, presenting frames through
// a real OS window via github.com/hajimehoshi/ebiten/v2.
type EbitengineBackend struct {
	initialized bool
	config      Config
}

// EbitengineWindow is the Window half of the Ebitengine backend: it owns
// the ebiten.Game implementation and buffers input events between one
// ebiten Update tick and the next PollEvents call.
type EbitengineWindow struct {
	title    string
	width    int
	height   int
	open     bool
	game     *ebitengineGame
	events   []InputEvent
	onUpdate func() error
}

// ebitengineGame implements ebiten.Game; it is kept unexported since only
// EbitengineWindow and ebiten's own runtime ever touch it directly.
type ebitengineGame struct {
	window *EbitengineWindow

	displayWidth, displayHeight int
	frame                       *ebiten.Image
	pixels                      *image.RGBA // reused across RenderFrame calls

	renderCount int
}

// NewEbitengineBackend constructs an uninitialized Ebitengine backend.
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize records the backend configuration; it may only be called once.
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("graphics: ebitengine backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow configures ebiten's global window state and returns the
// Window that will drive it. ebiten keeps window configuration as
// process-global state, so this also applies title/size/vsync/fullscreen
// immediately rather than deferring to Run.
func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("graphics: backend not initialized")
	}
	if b.config.Headless {
		return nil, fmt.Errorf("graphics: cannot create a window in headless mode")
	}

	game := &ebitengineGame{
		displayWidth:  width,
		displayHeight: height,
		frame:         ebiten.NewImage(nesFrameWidth, nesFrameHeight),
		pixels:        image.NewRGBA(image.Rect(0, 0, nesFrameWidth, nesFrameHeight)),
	}
	window := &EbitengineWindow{title: title, width: width, height: height, open: true, game: game}
	game.window = window

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)
	ebiten.SetFullscreen(b.config.Fullscreen)
	ebiten.SetScreenFilterEnabled(b.config.Filter == "linear")

	return window, nil
}

func (b *EbitengineBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *EbitengineBackend) IsHeadless() bool { return b.config.Headless }
func (b *EbitengineBackend) GetName() string  { return "Ebitengine" }

func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

func (w *EbitengineWindow) GetSize() (width, height int) { return w.width, w.height }
func (w *EbitengineWindow) ShouldClose() bool            { return !w.open }

// SwapBuffers is a no-op: ebiten presents the frame itself once Draw returns.
func (w *EbitengineWindow) SwapBuffers() {}

// PollEvents drains and returns every InputEvent queued since the last call.
func (w *EbitengineWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

// RenderFrame converts the NES's packed-RGB frame buffer into the ebiten
// image Draw blits each tick. The RGBA conversion reuses a single scratch
// buffer across calls to avoid a per-frame 256x240 allocation.
func (w *EbitengineWindow) RenderFrame(frameBuffer [nesFrameWidth * nesFrameHeight]uint32) error {
	if w.game == nil {
		return fmt.Errorf("graphics: window has no game loop attached")
	}

	dst := w.game.pixels
	for y := 0; y < nesFrameHeight; y++ {
		for x := 0; x < nesFrameWidth; x++ {
			px := frameBuffer[y*nesFrameWidth+x]
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8(px >> 16),
				G: uint8(px >> 8),
				B: uint8(px),
				A: 255,
			})
		}
	}
	w.game.frame.ReplacePixels(dst.Pix)
	return nil
}

func (w *EbitengineWindow) Cleanup() error {
	w.open = false
	return nil
}

// Run hands control to ebiten's own blocking run loop; it returns once the
// window closes or the game's Update/Draw cycle reports a fatal error.
func (w *EbitengineWindow) Run() error {
	if w.game == nil {
		return fmt.Errorf("graphics: window has no game loop attached")
	}
	return ebiten.RunGame(w.game)
}

// SetEmulatorUpdateFunc registers the callback ebiten's Update invokes
// once per tick, after host input has been translated into InputEvents.
func (w *EbitengineWindow) SetEmulatorUpdateFunc(updateFunc func() error) {
	w.onUpdate = updateFunc
}

// Update satisfies ebiten.Game: poll host input, then step the emulator.
func (g *ebitengineGame) Update() error {
	if g.window == nil {
		return nil
	}
	g.pollInput()
	if g.window.onUpdate != nil {
		if err := g.window.onUpdate(); err != nil {
			log.Printf("[graphics] emulator update: %v", err)
		}
	}
	return nil
}

// Draw satisfies ebiten.Game: blit the most recent frame, letterboxed and
// centered to whatever size the window currently is.
func (g *ebitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 255})
	if g.frame == nil {
		return
	}

	scale := g.fitScale()
	offsetX := (float64(g.displayWidth) - nesFrameWidth*scale) / 2
	offsetY := (float64(g.displayHeight) - nesFrameHeight*scale) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(g.frame, op)

	g.renderCount++
	if g.renderCount%1800 == 0 {
		log.Printf("[graphics] drawn %d frames at %.2fx scale", g.renderCount, scale)
	}
}

// fitScale returns the largest uniform scale that fits the NES's
// 256x240 frame inside the current display size without distortion.
func (g *ebitengineGame) fitScale() float64 {
	scaleX := float64(g.displayWidth) / nesFrameWidth
	scaleY := float64(g.displayHeight) / nesFrameHeight
	if scaleY < scaleX {
		return scaleY
	}
	return scaleX
}

// Layout satisfies ebiten.Game; the actual scaling math happens in Draw,
// so Layout just records the outer size and echoes it back unscaled.
func (g *ebitengineGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.displayWidth = outsideWidth
	g.displayHeight = outsideHeight
	return outsideWidth, outsideHeight
}

// keyBinding pairs one ebiten key with the controller button (if any) it
// drives. A binding with button == ButtonUnknown still surfaces a raw
// InputEventTypeKey event (used for F-keys and other non-gameplay
// shortcuts that PollEvents' caller may want to observe).
type keyBinding struct {
	ebitenKey  ebiten.Key
	hostKey    Key
	button     Button
	controller int
}

// defaultKeyBindings wires host keys to both a logical Key (for
// shortcuts) and, where applicable, an NES controller button: WASD and
// the arrow keys drive controller port 1, the number row 1-8 drives
// controller port 2, so one keyboard can feed both of the bus's
// controller latches.
var defaultKeyBindings = []keyBinding{
	{ebiten.KeyEscape, KeyEscape, ButtonUnknown, 0},
	{ebiten.KeyArrowUp, KeyUp, ButtonUp, 1},
	{ebiten.KeyArrowDown, KeyDown, ButtonDown, 1},
	{ebiten.KeyArrowLeft, KeyLeft, ButtonLeft, 1},
	{ebiten.KeyArrowRight, KeyRight, ButtonRight, 1},
	{ebiten.KeyW, KeyW, ButtonUp, 1},
	{ebiten.KeyS, KeyS, ButtonDown, 1},
	{ebiten.KeyA, KeyA, ButtonLeft, 1},
	{ebiten.KeyD, KeyD, ButtonRight, 1},
	{ebiten.KeyJ, KeyJ, ButtonA, 1},
	{ebiten.KeyK, KeyK, ButtonB, 1},
	{ebiten.KeyEnter, KeyEnter, ButtonStart, 1},
	{ebiten.KeySpace, KeySpace, ButtonSelect, 1},
	{ebiten.KeyX, KeyX, ButtonUnknown, 0},
	{ebiten.KeyZ, KeyZ, ButtonUnknown, 0},
	{ebiten.Key1, Key1, ButtonUp, 2},
	{ebiten.Key2, Key2, ButtonDown, 2},
	{ebiten.Key3, Key3, ButtonLeft, 2},
	{ebiten.Key4, Key4, ButtonRight, 2},
	{ebiten.Key5, Key5, ButtonA, 2},
	{ebiten.Key6, Key6, ButtonB, 2},
	{ebiten.Key7, Key7, ButtonStart, 2},
	{ebiten.Key8, Key8, ButtonSelect, 2},
	{ebiten.KeyF1, KeyF1, ButtonUnknown, 0},
	{ebiten.KeyF2, KeyF2, ButtonUnknown, 0},
	{ebiten.KeyF3, KeyF3, ButtonUnknown, 0},
	{ebiten.KeyF4, KeyF4, ButtonUnknown, 0},
	{ebiten.KeyF5, KeyF5, ButtonUnknown, 0},
	{ebiten.KeyF6, KeyF6, ButtonUnknown, 0},
	{ebiten.KeyF7, KeyF7, ButtonUnknown, 0},
	{ebiten.KeyF8, KeyF8, ButtonUnknown, 0},
	{ebiten.KeyF9, KeyF9, ButtonUnknown, 0},
	{ebiten.KeyF10, KeyF10, ButtonUnknown, 0},
	{ebiten.KeyF11, KeyF11, ButtonUnknown, 0},
	{ebiten.KeyF12, KeyF12, ButtonUnknown, 0},
}

// pollInput walks ebiten's edge-triggered key state once per Update and
// translates every just-pressed/just-released key into a queued
// InputEvent: a Button event when the binding drives a controller,
// otherwise a plain Key event. Escape additionally raises a quit event
// while held, not just on the press edge.
func (g *ebitengineGame) pollInput() {
	if g.window == nil {
		return
	}

	var events []InputEvent
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		events = append(events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
	}

	for _, binding := range defaultKeyBindings {
		var pressed bool
		switch {
		case inpututil.IsKeyJustPressed(binding.ebitenKey):
			pressed = true
		case inpututil.IsKeyJustReleased(binding.ebitenKey):
			pressed = false
		default:
			continue
		}

		if binding.button != ButtonUnknown {
			events = append(events, InputEvent{
				Type:       InputEventTypeButton,
				Button:     binding.button,
				Controller: binding.controller,
				Pressed:    pressed,
			})
		} else {
			events = append(events, InputEvent{Type: InputEventTypeKey, Key: binding.hostKey, Pressed: pressed})
		}
	}

	g.window.events = append(g.window.events, events...)
}
