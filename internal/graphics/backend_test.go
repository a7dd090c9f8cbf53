package graphics

import "testing"

func TestCreateBackendHeadless(t *testing.T) {
	b, err := CreateBackend(BackendHeadless)
	if err != nil {
		t.Fatalf("CreateBackend(headless): %v", err)
	}
	if !b.IsHeadless() {
		t.Error("expected headless backend to report IsHeadless() == true")
	}
}

func TestHeadlessWindowRenderFrameDumpInterval(t *testing.T) {
	b := NewHeadlessBackend()
	if err := b.Initialize(Config{Headless: true}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	win, err := b.CreateWindow("test", 256, 240)
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	hw := win.(*HeadlessWindow)
	hw.SetDumpInterval(0)

	var frame [256 * 240]uint32
	for i := 0; i < 5; i++ {
		if err := win.RenderFrame(frame); err != nil {
			t.Fatalf("RenderFrame: %v", err)
		}
	}
	if hw.GetFrameCount() != 5 {
		t.Errorf("frame count = %d, want 5", hw.GetFrameCount())
	}
}
