package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the effective runtime configuration: defaults, overlaid with the
// TOML config file if one exists, overlaid with environment overrides.
type Config struct {
	Provider  string  `toml:"provider"` // "groq", "openai", or "" for auto-detect by API key
	Language  string  `toml:"language"` // ISO-639-1 hint passed to the transcriber, empty = auto
	Format    string  `toml:"format"`   // upload encoding: "flac" or "wav"
	AutoPaste bool    `toml:"auto_paste"`
	Capture   Capture `toml:"capture"`
	Silence   Silence `toml:"silence"`
}

type Capture struct {
	SampleRate       int  `toml:"sample_rate"`
	Channels         int  `toml:"channels"`
	EchoCancellation bool `toml:"echo_cancellation"`
	NoiseSuppression bool `toml:"noise_suppression"`
	AutoGainControl  bool `toml:"auto_gain_control"`
}

type Silence struct {
	Detection    bool `toml:"detection"`
	Threshold    int  `toml:"threshold"`
	PauseDelayMS int  `toml:"pause_delay_ms"`
}

func Default() *Config {
	return &Config{
		Format:    "flac",
		AutoPaste: true,
		Capture: Capture{
			SampleRate:       16000,
			Channels:         1,
			EchoCancellation: true,
			NoiseSuppression: true,
			AutoGainControl:  true,
		},
		Silence: Silence{
			Detection:    true,
			Threshold:    5,
			PauseDelayMS: 2500,
		},
	}
}

// Load reads the config at path, or the default location when path is empty.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) PauseDelay() time.Duration {
	return time.Duration(c.Silence.PauseDelayMS) * time.Millisecond
}

func (c *Config) validate() error {
	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "wav", "flac":
	default:
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	if c.Capture.SampleRate <= 0 {
		return fmt.Errorf("config: sample rate %d", c.Capture.SampleRate)
	}
	if c.Capture.Channels <= 0 {
		return fmt.Errorf("config: channels %d", c.Capture.Channels)
	}
	if c.Silence.Threshold < 0 || c.Silence.Threshold > 127 {
		return fmt.Errorf("config: silence threshold %d out of range", c.Silence.Threshold)
	}
	if c.Silence.PauseDelayMS <= 0 {
		return fmt.Errorf("config: pause delay %dms", c.Silence.PauseDelayMS)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MURMUR_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("MURMUR_LANGUAGE"); v != "" {
		cfg.Language = v
	}
}

func defaultPath() string {
	var dir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, "murmur")
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", "murmur")
	} else {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}
