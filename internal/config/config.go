// Package config loads and saves the emulator's JSON configuration
// file: window geometry, the selected graphics backend, controller
// key bindings, and logging/tracing options.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all host-side configuration. Emulation semantics
// themselves (CPU/PPU behavior) are never configurable; only how the
// host drives and observes the emulator is.
type Config struct {
	Window WindowConfig `json:"window"`
	Video  VideoConfig  `json:"video"`
	Input  InputConfig  `json:"input"`
	Debug  DebugConfig  `json:"debug"`
	Paths  PathsConfig  `json:"paths"`

	configPath string
}

// WindowConfig controls the on-screen window the ebiten backend opens.
type WindowConfig struct {
	Scale      int  `json:"scale"` // integer multiple of the 256x240 NES frame
	Fullscreen bool `json:"fullscreen"`
	VSync      bool `json:"vsync"`
}

// VideoConfig selects the rendering backend and its basic behavior.
type VideoConfig struct {
	Backend       string `json:"backend"`        // "ebitengine" or "headless"
	DumpInterval  int    `json:"dump_interval"`  // headless backend: dump every Nth frame as PPM, 0 disables
	DumpDirectory string `json:"dump_directory"`
}

// InputConfig maps host keys to NES controller buttons.
type InputConfig struct {
	Player1 KeyMapping `json:"player1_keys"`
	Player2 KeyMapping `json:"player2_keys"`
}

// KeyMapping names one host key per NES controller button.
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// DebugConfig controls CPU tracing and log verbosity.
type DebugConfig struct {
	EnableLogging bool   `json:"enable_logging"`
	LogLevel      string `json:"log_level"` // "DEBUG", "INFO", "WARN", "ERROR"
	CPUTracing    bool   `json:"cpu_tracing"`
}

// PathsConfig names directories the emulator reads ROMs from and
// writes trace/dump output to.
type PathsConfig struct {
	ROMs      string `json:"roms"`
	TraceLogs string `json:"trace_logs"`
}

// New returns a configuration populated with the emulator's defaults.
func New() *Config {
	return &Config{
		Window: WindowConfig{
			Scale:      2,
			Fullscreen: false,
			VSync:      true,
		},
		Video: VideoConfig{
			Backend:       "ebitengine",
			DumpInterval:  0,
			DumpDirectory: ".",
		},
		Input: InputConfig{
			Player1: KeyMapping{Up: "W", Down: "S", Left: "A", Right: "D", A: "J", B: "K", Start: "Return", Select: "Space"},
			Player2: KeyMapping{Up: "Up", Down: "Down", Left: "Left", Right: "Right", A: "N", B: "M", Start: "RShift", Select: "RCtrl"},
		},
		Debug: DebugConfig{
			EnableLogging: false,
			LogLevel:      "INFO",
			CPUTracing:    false,
		},
		Paths: PathsConfig{
			ROMs:      "./roms",
			TraceLogs: "./logs",
		},
	}
}

// LoadFromFile reads path and parses it as JSON. A missing file is
// not an error: defaults are written to path and returned instead, so
// the caller always gets a usable config and a config file to edit.
func LoadFromFile(path string) (*Config, error) {
	cfg := New()
	cfg.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cfg.SaveToFile(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.configPath = path
	cfg.applyDefaultsForZeroValues()
	return cfg, nil
}

// applyDefaultsForZeroValues resets fields that decoded to an
// unusable zero value back to a sane default, so a hand-edited
// partial config file doesn't produce a broken emulator.
func (c *Config) applyDefaultsForZeroValues() {
	if c.Window.Scale <= 0 {
		c.Window.Scale = 2
	}
	if c.Video.Backend == "" {
		c.Video.Backend = "ebitengine"
	}
	if c.Video.DumpDirectory == "" {
		c.Video.DumpDirectory = "."
	}
	if c.Debug.LogLevel == "" {
		c.Debug.LogLevel = "INFO"
	}
	if c.Paths.ROMs == "" {
		c.Paths.ROMs = "./roms"
	}
}

// SaveToFile writes cfg to path as indented JSON, creating the parent
// directory if needed.
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("config: creating directory %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	c.configPath = path
	return nil
}

// GetWindowResolution returns the window's pixel dimensions at the
// configured integer scale of the native 256x240 NES frame.
func (c *Config) GetWindowResolution() (width, height int) {
	return 256 * c.Window.Scale, 240 * c.Window.Scale
}

// ConfigPath returns the path this config was loaded from or saved to.
func (c *Config) ConfigPath() string { return c.configPath }

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return "./config/nes.json"
}
