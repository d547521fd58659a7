// Package config holds the holohud tunables and loads them from disk.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Duration is a time.Duration that encodes as a Go duration string ("1.5s").
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts either a duration string or a number of milliseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(time.Duration(ms * float64(time.Millisecond)))
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds application configuration.
type Config struct {
	// Gesture tunables. Distances are in normalized camera coordinates.
	PinchThreshold float64  `json:"pinch_threshold"`
	HoldDuration   Duration `json:"hold_duration"`
	DragThreshold  float64  `json:"drag_threshold"`

	// TickRate is the number of frame ticks per second.
	TickRate int `json:"tick_rate"`

	// Overlay tunables.
	ParticleCount   int     `json:"particle_count"`
	PanelLife       int     `json:"panel_life"`
	PanelSlideSpeed float64 `json:"panel_slide_speed"`
	ViewportWidth   int     `json:"viewport_width"`
	ViewportHeight  int     `json:"viewport_height"`

	// Seed drives particle placement and panel offsets. 0 picks a time-based seed.
	Seed int64 `json:"seed,omitempty"`

	// Camera.
	CameraID int  `json:"camera_id"`
	Mirror   bool `json:"mirror"`

	// VideoURL is opened by the open-video action.
	VideoURL string `json:"video_url"`

	// ListenAddr is the HTTP address for the renderer transport and API.
	ListenAddr string `json:"listen_addr"`

	// Plugins.
	PluginDir     string   `json:"plugin_dir,omitempty"`
	PluginTimeout Duration `json:"plugin_timeout"`
	SpeechRate    int      `json:"speech_rate"`

	// Queue sizes for cross-goroutine hand-off.
	ActionQueue  int `json:"action_queue"`
	EffectsQueue int `json:"effects_queue"`

	// Voice listen loop.
	VoiceBackoffBase Duration `json:"voice_backoff_base"`
	VoiceBackoffMax  Duration `json:"voice_backoff_max"`
	VoiceMaxFailures int      `json:"voice_max_failures"`
	VoicePhraseLimit Duration `json:"voice_phrase_limit"`
	VoiceGreeting    string   `json:"voice_greeting"`
	DisableVoice     bool     `json:"disable_voice,omitempty"`
	DisableTray      bool     `json:"disable_tray,omitempty"`

	LogLevel string `json:"log_level"`
}

// MaxTickRate bounds tick_rate so one tick stays at least a millisecond long.
const MaxTickRate = 1000

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PinchThreshold: 0.04,
		HoldDuration:   Duration(1500 * time.Millisecond),
		DragThreshold:  0.15,
		TickRate:       30,

		ParticleCount:   80,
		PanelLife:       180,
		PanelSlideSpeed: 8,
		ViewportWidth:   1280,
		ViewportHeight:  720,

		CameraID: 0,
		Mirror:   true,

		VideoURL:   "https://youtube.com/results?search_query=iron+man+hologram",
		ListenAddr: ":8080",

		PluginTimeout: Duration(5 * time.Second),
		SpeechRate:    170,

		ActionQueue:  16,
		EffectsQueue: 32,

		VoiceBackoffBase: Duration(250 * time.Millisecond),
		VoiceBackoffMax:  Duration(8 * time.Second),
		VoiceMaxFailures: 20,
		VoicePhraseLimit: Duration(4 * time.Second),
		VoiceGreeting:    "Jarvis online.",

		LogLevel: "info",
	}
}

// Load loads configuration from baseDir/config.json on top of the defaults.
// Returns the default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.holohud.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

func loadFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	// Unmarshal over the defaults so absent keys keep their default value.
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to baseDir/config.json.
func (c *Config) Save(baseDir string) error {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(baseDir, "config.json"), data, 0600)
}

// TickInterval returns the wall-clock duration of one tick.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.TickRate)
}

// Validate reports the first out-of-range tunable.
func (c *Config) Validate() error {
	switch {
	case c.PinchThreshold <= 0:
		return errors.New("config: pinch_threshold must be > 0")
	case c.HoldDuration <= 0:
		return errors.New("config: hold_duration must be > 0")
	case c.DragThreshold <= 0:
		return errors.New("config: drag_threshold must be > 0")
	case c.TickRate <= 0:
		return errors.New("config: tick_rate must be > 0")
	case c.TickRate > MaxTickRate:
		return fmt.Errorf("config: tick_rate must be <= %d", MaxTickRate)
	case c.ParticleCount < 0:
		return errors.New("config: particle_count must be >= 0")
	case c.PanelLife <= 0:
		return errors.New("config: panel_life must be > 0")
	case c.PanelSlideSpeed < 0:
		return errors.New("config: panel_slide_speed must be >= 0")
	case c.ViewportWidth <= 0 || c.ViewportHeight <= 0:
		return errors.New("config: viewport dimensions must be > 0")
	case c.ActionQueue <= 0:
		return errors.New("config: action_queue must be > 0")
	case c.EffectsQueue <= 0:
		return errors.New("config: effects_queue must be > 0")
	case c.VoiceBackoffBase <= 0 || c.VoiceBackoffMax < c.VoiceBackoffBase:
		return errors.New("config: voice backoff requires 0 < base <= max")
	case c.VoiceMaxFailures < 0:
		return errors.New("config: voice_max_failures must be >= 0")
	}
	return nil
}
