// Package config resolves application settings from defaults, an optional
// TOML file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/tonerow/audio"
	"github.com/lixenwraith/tonerow/core"
)

const (
	envConfigPath  = "TONEROW_CONFIG"
	defaultPort    = "8080"
	defaultEnvName = "development"
)

var (
	ErrInvalidBPM        = errors.New("bpm out of range")
	ErrInvalidInstrument = errors.New("unknown instrument")
	ErrInvalidClef       = errors.New("unknown clef")
)

// Config holds every user-facing setting
type Config struct {
	Playback PlaybackConfig `toml:"playback"`
	Display  DisplayConfig  `toml:"display"`
	Audio    AudioSection   `toml:"audio"`
	Server   ServerConfig   `toml:"server"`
}

// PlaybackConfig mirrors the demo's instrument selector, BPM box and loop toggle
type PlaybackConfig struct {
	BPM        int    `toml:"bpm"`
	Instrument string `toml:"instrument"`
	Loop       bool   `toml:"loop"`
}

// DisplayConfig mirrors the clef selector and accidentals toggle
type DisplayConfig struct {
	Clef  string `toml:"clef"`
	Flats bool   `toml:"flats"`
}

// AudioSection configures the output device
type AudioSection struct {
	Enabled      bool    `toml:"enabled"`
	MasterVolume float64 `toml:"master_volume"`
	SampleRate   int     `toml:"sample_rate"`
}

// ServerConfig configures the HTTP front end
type ServerConfig struct {
	Port        string `toml:"port"`
	Environment string `toml:"environment"`
	SentryDSN   string `toml:"sentry_dsn,omitempty"`
}

// Default returns the built-in settings
func Default() *Config {
	ac := audio.DefaultAudioConfig()
	return &Config{
		Playback: PlaybackConfig{
			BPM:        audio.DefaultBPM,
			Instrument: core.InstrSynth.String(),
		},
		Display: DisplayConfig{
			Clef: core.ClefTreble.String(),
		},
		Audio: AudioSection{
			Enabled:      ac.Enabled,
			MasterVolume: ac.MasterVolume,
			SampleRate:   ac.SampleRate,
		},
		Server: ServerConfig{
			Port:        defaultPort,
			Environment: defaultEnvName,
		},
	}
}

// Load builds the effective config. path may be empty, in which case
// TONEROW_CONFIG is consulted; a missing file is not an error
func Load(path string) (*Config, error) {
	// Optional .env; real environment wins over it
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TONEROW_BPM"); v != "" {
		c.Playback.BPM = ParseBPM(v)
	}
	if v := os.Getenv("TONEROW_INSTRUMENT"); v != "" {
		c.Playback.Instrument = v
	}
	if v := os.Getenv("TONEROW_LOOP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Playback.Loop = b
		}
	}
	if v := os.Getenv("TONEROW_CLEF"); v != "" {
		c.Display.Clef = v
	}
	if v := os.Getenv("TONEROW_FLATS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Display.Flats = b
		}
	}

	// Same variables the audio package reads on its own
	ac := audio.LoadAudioConfig()
	if os.Getenv("TONEROW_AUDIO_ENABLED") != "" {
		c.Audio.Enabled = ac.Enabled
	}
	if os.Getenv("TONEROW_MASTER_VOLUME") != "" {
		c.Audio.MasterVolume = ac.MasterVolume
	}
	if os.Getenv("TONEROW_SAMPLE_RATE") != "" {
		c.Audio.SampleRate = ac.SampleRate
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" {
		c.Server.SentryDSN = v
	}
}

// Validate normalizes names and clamps numeric ranges
func (c *Config) Validate() error {
	if c.Playback.BPM < audio.MinBPM || c.Playback.BPM > audio.MaxBPM {
		return fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidBPM, c.Playback.BPM, audio.MinBPM, audio.MaxBPM)
	}

	inst, ok := core.ParseInstrument(c.Playback.Instrument)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidInstrument, c.Playback.Instrument)
	}
	c.Playback.Instrument = inst.String()

	clef, ok := core.ParseClef(c.Display.Clef)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidClef, c.Display.Clef)
	}
	c.Display.Clef = clef.String()

	if c.Audio.MasterVolume < 0 {
		c.Audio.MasterVolume = 0
	} else if c.Audio.MasterVolume > 1 {
		c.Audio.MasterVolume = 1
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = audio.DefaultAudioConfig().SampleRate
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		c.Server.Port = defaultPort
	}
	return nil
}

// Instrument returns the validated playback preset
func (c *Config) Instrument() core.Instrument {
	inst, _ := core.ParseInstrument(c.Playback.Instrument)
	return inst
}

// Clef returns the validated clef
func (c *Config) Clef() core.Clef {
	clef, _ := core.ParseClef(c.Display.Clef)
	return clef
}

// Accidental returns the spelling selected by the flats toggle
func (c *Config) Accidental() core.Accidental {
	return core.AccidentalFromFlag(c.Display.Flats)
}

// AudioConfig builds the audio package settings, keeping per-instrument
// gains from the environment
func (c *Config) AudioConfig() *audio.AudioConfig {
	ac := audio.LoadAudioConfig()
	ac.Enabled = c.Audio.Enabled
	ac.MasterVolume = c.Audio.MasterVolume
	ac.SampleRate = c.Audio.SampleRate
	return ac
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Save writes cfg as TOML
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ParseBPM reads the leading integer of user tempo input, so "90.5" and
// "100bpm" parse as 90 and 100. Empty, non-numeric or zero gives the default
func ParseBPM(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return audio.DefaultBPM
	}

	bpm, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return audio.DefaultBPM
	}
	if bpm == 0 {
		return audio.DefaultBPM
	}
	return bpm
}
