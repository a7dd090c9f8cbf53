//go:build headless
// +build headless

package graphics

// EbitengineBackend and EbitengineWindow are unavailable under the
// headless build tag: the real implementation (ebitengine_backend.go)
// imports github.com/hajimehoshi/ebiten/v2, which headless builds must
// not link against. These stand-ins let cmd/nes reference the Ebitengine
// types unconditionally and fail at runtime, rather than needing a build
// tag of its own, if a headless binary is asked to open a GUI window.
type EbitengineBackend struct{}

type EbitengineWindow struct{}

func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

func (*EbitengineBackend) Initialize(Config) error                       { return ErrHeadlessBuild }
func (*EbitengineBackend) CreateWindow(string, int, int) (Window, error) { return nil, ErrHeadlessBuild }
func (*EbitengineBackend) Cleanup() error                                { return nil }
func (*EbitengineBackend) IsHeadless() bool                              { return true }
func (*EbitengineBackend) GetName() string                               { return "ebitengine (unavailable: headless build)" }

func (*EbitengineWindow) SetTitle(string)                     {}
func (*EbitengineWindow) GetSize() (int, int)                 { return 0, 0 }
func (*EbitengineWindow) ShouldClose() bool                   { return true }
func (*EbitengineWindow) SwapBuffers()                        {}
func (*EbitengineWindow) PollEvents() []InputEvent            { return nil }
func (*EbitengineWindow) RenderFrame([256 * 240]uint32) error { return ErrHeadlessBuild }
func (*EbitengineWindow) Cleanup() error                      { return nil }
func (*EbitengineWindow) Run() error                          { return ErrHeadlessBuild }
func (*EbitengineWindow) SetEmulatorUpdateFunc(func() error)  {}
