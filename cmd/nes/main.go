// Package main implements the NES emulator executable: it loads a
// ROM, wires up the emulation core, and drives either an on-screen
// ebiten window or a headless frame-dumping loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nesemu/internal/bus"
	"nesemu/internal/cartridge"
	"nesemu/internal/config"
	"nesemu/internal/cpu"
	"nesemu/internal/graphics"
	"nesemu/internal/version"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "path to an iNES ROM file")
		configFile = flag.String("config", "", "path to a JSON config file (default ./config/nes.json)")
		backend    = flag.String("backend", "", "graphics backend: ebitengine or headless (overrides config)")
		disasm     = flag.Bool("disasm", false, "disassemble the cartridge's PRG ROM and exit")
		traceFile  = flag.String("trace", "", "write a CPU trace line per retired instruction to this file")
		frames     = flag.Int("frames", 0, "headless mode only: stop after N frames (0 = run until the window closes)")
		showVer    = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVer {
		version.PrintBuildInfo()
		return
	}

	configPath := *configFile
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *backend != "" {
		cfg.Video.Backend = *backend
	}

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "a ROM is required: -rom path/to/game.nes")
		flag.Usage()
		os.Exit(1)
	}
	cart, err := cartridge.LoadFromFile(*romFile)
	if err != nil {
		log.Fatalf("loading ROM %s: %v", *romFile, err)
	}

	console := bus.New()
	console.ConnectCartridge(cart)

	if *disasm {
		lines := cpu.Disassemble(console, 0x8000, 0xFFFF)
		for addr := uint32(0x8000); addr <= 0xFFFF; addr++ {
			if line, ok := lines[uint16(addr)]; ok {
				fmt.Println(line)
			}
		}
		return
	}

	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			log.Fatalf("creating trace file: %v", err)
		}
		defer f.Close()
		console.CPU.SetTraceWriter(f)
	} else if cfg.Debug.CPUTracing {
		console.CPU.SetTraceWriter(os.Stdout)
	}

	setupGracefulShutdown()

	if err := run(console, cfg, *frames); err != nil {
		log.Fatalf("emulation stopped: %v", err)
	}
}

func run(console *bus.Bus, cfg *config.Config, maxFrames int) error {
	backendType := graphics.BackendEbitengine
	if cfg.Video.Backend == "headless" {
		backendType = graphics.BackendHeadless
	}

	gfx, err := graphics.CreateBackend(backendType)
	if err != nil {
		return fmt.Errorf("creating graphics backend: %w", err)
	}

	width, height := cfg.GetWindowResolution()
	if err := gfx.Initialize(graphics.Config{
		WindowTitle:  "NES",
		WindowWidth:  width,
		WindowHeight: height,
		Fullscreen:   cfg.Window.Fullscreen,
		VSync:        cfg.Window.VSync,
		Headless:     backendType == graphics.BackendHeadless,
	}); err != nil {
		return fmt.Errorf("initializing graphics backend: %w", err)
	}
	defer gfx.Cleanup()

	window, err := gfx.CreateWindow("NES", width, height)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Cleanup()

	if hw, ok := window.(*graphics.HeadlessWindow); ok {
		hw.SetDumpInterval(cfg.Video.DumpInterval)
		hw.SetOutputPath(cfg.Video.DumpDirectory)
	}

	var p1, p2 [8]bool
	framesRendered := 0

	step := func() error {
		for {
			if console.Clock() {
				break
			}
		}
		console.SetControllerButtons(1, p1)
		console.SetControllerButtons(2, p2)
		if err := window.RenderFrame(*console.GetFrameBuffer()); err != nil {
			return err
		}
		window.SwapBuffers()
		framesRendered++
		return nil
	}

	applyEvents := func() bool {
		for _, ev := range window.PollEvents() {
			switch ev.Type {
			case graphics.InputEventTypeQuit:
				return true
			case graphics.InputEventTypeButton:
				applyButton(&p1, &p2, ev.Controller, ev.Button, ev.Pressed)
			}
		}
		return false
	}

	if ew, ok := graphics.AsEbitengineWindow(window); ok {
		ew.SetEmulatorUpdateFunc(func() error {
			applyEvents()
			return step()
		})
		return ew.Run()
	}

	for !window.ShouldClose() {
		if applyEvents() {
			break
		}
		if err := step(); err != nil {
			return err
		}
		if maxFrames > 0 && framesRendered >= maxFrames {
			break
		}
	}
	return nil
}

// applyButton sets the right controller's button slot, in the
// A,B,Select,Start,Up,Down,Left,Right order both input.Controller.SetButtons
// and graphics.Button agree on. controller selects which of the bus's two
// controller latches the event targets; anything but 2 is treated as 1.
func applyButton(p1, p2 *[8]bool, controller int, button graphics.Button, pressed bool) {
	buttons := p1
	if controller == 2 {
		buttons = p2
	}
	switch button {
	case graphics.ButtonA:
		buttons[0] = pressed
	case graphics.ButtonB:
		buttons[1] = pressed
	case graphics.ButtonSelect:
		buttons[2] = pressed
	case graphics.ButtonStart:
		buttons[3] = pressed
	case graphics.ButtonUp:
		buttons[4] = pressed
	case graphics.ButtonDown:
		buttons[5] = pressed
	case graphics.ButtonLeft:
		buttons[6] = pressed
	case graphics.ButtonRight:
		buttons[7] = pressed
	}
}

func setupGracefulShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down")
		os.Exit(0)
	}()
}
