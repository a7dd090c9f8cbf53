package graphics

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// HeadlessBackend is the display-less Backend used for batch runs and
// automated testing: frames are counted, optionally dumped to disk as
// PPM images, and otherwise discarded. It is always compiled in,
// regardless of build tags, so test harnesses never need a GUI stack.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// NewHeadlessBackend constructs an uninitialized headless backend.
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize records the backend configuration; it may only be called once.
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("graphics: headless backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow returns a HeadlessWindow: no OS window is opened, but
// the Window contract (frame delivery, close signaling) is honored so
// cmd/nes can drive either backend through the same loop.
func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("graphics: backend not initialized")
	}
	return &HeadlessWindow{
		title:  title,
		width:  width,
		height: height,
		open:   true,
		dumper: frameDumper{dir: "."},
	}, nil
}

func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *HeadlessBackend) IsHeadless() bool { return true }
func (b *HeadlessBackend) GetName() string  { return "Headless" }

// HeadlessWindow consumes frames without presenting them. Input never
// arrives (PollEvents is always empty), so a headless run ends when the
// driver's frame budget is spent or the host signals shutdown.
type HeadlessWindow struct {
	title  string
	width  int
	height int
	open   bool
	dumper frameDumper
}

func (w *HeadlessWindow) SetTitle(title string)    { w.title = title }
func (w *HeadlessWindow) GetSize() (int, int)      { return w.width, w.height }
func (w *HeadlessWindow) ShouldClose() bool        { return !w.open }
func (w *HeadlessWindow) SwapBuffers()             {}
func (w *HeadlessWindow) PollEvents() []InputEvent { return nil }

// RenderFrame counts the frame and hands it to the dumper, which saves
// it as a PPM image when periodic dumping is enabled.
func (w *HeadlessWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	return w.dumper.frame(frameBuffer)
}

func (w *HeadlessWindow) Cleanup() error {
	w.open = false
	return nil
}

// SetDumpInterval enables saving every nth rendered frame to disk;
// n <= 0 disables dumping entirely.
func (w *HeadlessWindow) SetDumpInterval(n int) { w.dumper.every = n }

// SetOutputPath sets the directory frame dumps are written into.
func (w *HeadlessWindow) SetOutputPath(path string) { w.dumper.dir = path }

// GetFrameCount returns how many frames have been rendered so far.
func (w *HeadlessWindow) GetFrameCount() int { return w.dumper.count }

// frameDumper counts rendered frames and writes every `every`th one to
// `dir` as a binary (P6) PPM, the simplest format that round-trips the
// emulator's packed-RGB frame buffer without an image library.
type frameDumper struct {
	every int
	dir   string
	count int
}

func (d *frameDumper) frame(frameBuffer [256 * 240]uint32) error {
	d.count++
	if d.every <= 0 || d.count%d.every != 0 {
		return nil
	}
	name := filepath.Join(d.dir, fmt.Sprintf("frame_%06d.ppm", d.count))
	return writePPM(name, frameBuffer)
}

func writePPM(name string, frameBuffer [256 * 240]uint32) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("graphics: creating frame dump: %w", err)
	}
	defer file.Close()

	out := bufio.NewWriter(file)
	fmt.Fprintf(out, "P6\n%d %d\n255\n", 256, 240)
	for _, px := range frameBuffer {
		out.WriteByte(byte(px >> 16))
		out.WriteByte(byte(px >> 8))
		out.WriteByte(byte(px))
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("graphics: writing frame dump %s: %w", name, err)
	}
	return nil
}
