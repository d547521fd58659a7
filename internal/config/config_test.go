package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := DefaultConfig()
	if cfg.PinchThreshold != def.PinchThreshold {
		t.Errorf("PinchThreshold = %v, want %v", cfg.PinchThreshold, def.PinchThreshold)
	}
	if cfg.HoldDuration.Std() != 1500*time.Millisecond {
		t.Errorf("HoldDuration = %v, want 1.5s", cfg.HoldDuration.Std())
	}
	if cfg.ParticleCount != 80 {
		t.Errorf("ParticleCount = %d, want 80", cfg.ParticleCount)
	}
	if cfg.PanelLife != 180 {
		t.Errorf("PanelLife = %d, want 180", cfg.PanelLife)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	data := `{"pinch_threshold": 0.05, "hold_duration": "2s", "plugin_timeout": 750, "tick_rate": 60}`
	if err := os.WriteFile(configPath, []byte(data), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PinchThreshold != 0.05 {
		t.Errorf("PinchThreshold = %v, want 0.05", cfg.PinchThreshold)
	}
	if cfg.HoldDuration.Std() != 2*time.Second {
		t.Errorf("HoldDuration = %v, want 2s", cfg.HoldDuration.Std())
	}
	if cfg.PluginTimeout.Std() != 750*time.Millisecond {
		t.Errorf("PluginTimeout = %v, want 750ms", cfg.PluginTimeout.Std())
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Errorf("TickInterval() = %v, want %v", cfg.TickInterval(), time.Second/60)
	}

	// Untouched keys keep their defaults
	if cfg.DragThreshold != 0.15 {
		t.Errorf("DragThreshold = %v, want default 0.15", cfg.DragThreshold)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatal("Load() expected error, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"tick_rate": 0}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatal("Load() expected validation error, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero pinch threshold", func(c *Config) { c.PinchThreshold = 0 }, true},
		{"negative drag threshold", func(c *Config) { c.DragThreshold = -1 }, true},
		{"zero hold", func(c *Config) { c.HoldDuration = 0 }, true},
		{"zero panel life", func(c *Config) { c.PanelLife = 0 }, true},
		{"no particles", func(c *Config) { c.ParticleCount = 0 }, false},
		{"backoff max below base", func(c *Config) { c.VoiceBackoffMax = Duration(time.Millisecond) }, true},
		{"zero action queue", func(c *Config) { c.ActionQueue = 0 }, true},
		{"max tick rate", func(c *Config) { c.TickRate = MaxTickRate }, false},
		{"tick rate above max", func(c *Config) { c.TickRate = MaxTickRate + 1 }, true},
		{"tick rate rounds to zero interval", func(c *Config) { c.TickRate = 2_000_000_000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.VideoURL = "https://example.com/video"
	cfg.VoiceBackoffMax = Duration(3 * time.Second)
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.VideoURL != cfg.VideoURL {
		t.Errorf("VideoURL = %q, want %q", loaded.VideoURL, cfg.VideoURL)
	}
	if loaded.VoiceBackoffMax != cfg.VoiceBackoffMax {
		t.Errorf("VoiceBackoffMax = %v, want %v", loaded.VoiceBackoffMax.Std(), cfg.VoiceBackoffMax.Std())
	}
}
