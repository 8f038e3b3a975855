package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != "flac" {
		t.Errorf("format = %q, want flac", cfg.Format)
	}
	if !cfg.AutoPaste {
		t.Error("auto paste should default on")
	}
	if cfg.Capture.SampleRate != 16000 || cfg.Capture.Channels != 1 {
		t.Errorf("capture defaults = %+v", cfg.Capture)
	}
	if !cfg.Silence.Detection || cfg.Silence.Threshold != 5 {
		t.Errorf("silence defaults = %+v", cfg.Silence)
	}
	if cfg.PauseDelay() != 2500*time.Millisecond {
		t.Errorf("pause delay = %v", cfg.PauseDelay())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
provider = "openai"
format = "wav"
auto_paste = false

[capture]
sample_rate = 48000
channels = 2

[silence]
detection = false
threshold = 12
pause_delay_ms = 1000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" || cfg.Format != "wav" || cfg.AutoPaste {
		t.Errorf("top-level = %+v", cfg)
	}
	if cfg.Capture.SampleRate != 48000 || cfg.Capture.Channels != 2 {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if cfg.Silence.Detection || cfg.Silence.Threshold != 12 {
		t.Errorf("silence = %+v", cfg.Silence)
	}
	if cfg.PauseDelay() != time.Second {
		t.Errorf("pause delay = %v", cfg.PauseDelay())
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad format":    `format = "mp3"`,
		"bad threshold": "[silence]\nthreshold = 300",
		"bad delay":     "[silence]\npause_delay_ms = -1",
		"bad rate":      "[capture]\nsample_rate = 0",
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MURMUR_PROVIDER", "groq")
	t.Setenv("MURMUR_LANGUAGE", "de")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "groq" || cfg.Language != "de" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}
