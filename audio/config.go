package audio

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/lixenwraith/tonerow/core"
)

// AudioConfig holds output and mixing settings
type AudioConfig struct {
	Enabled           bool
	MasterVolume      float64 // 0.0-1.0
	SampleRate        int
	InstrumentVolumes map[core.Instrument]float64
}

// DefaultAudioConfig returns unity instrument gains at half master volume
func DefaultAudioConfig() *AudioConfig {
	vols := make(map[core.Instrument]float64, core.InstrumentCount)
	for _, inst := range core.Instruments() {
		vols[inst] = 1.0
	}
	// Inharmonic and percussive presets peak louder
	vols[core.InstrMetal] = 0.6
	vols[core.InstrMembrane] = 0.8

	return &AudioConfig{
		Enabled:           true,
		MasterVolume:      0.5,
		SampleRate:        44100,
		InstrumentVolumes: vols,
	}
}

// InstrumentVolume returns the gain for inst, 1.0 when unset
func (c *AudioConfig) InstrumentVolume(inst core.Instrument) float64 {
	if v, ok := c.InstrumentVolumes[inst]; ok {
		return v
	}
	return 1.0
}

// LoadAudioConfig loads audio configuration from environment variables
func LoadAudioConfig() *AudioConfig {
	cfg := DefaultAudioConfig()

	if enabled := os.Getenv("TONEROW_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume 0-100 converted to 0.0-1.0
	if volume := os.Getenv("TONEROW_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clampUnit(float64(val) / 100.0)
		}
	}

	// Per-instrument gains as JSON: {"fm": 0.7, "metal": 0.4}
	if instVols := os.Getenv("TONEROW_INSTRUMENT_VOLUMES"); instVols != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(instVols), &volumes); err == nil {
			for name, v := range volumes {
				if inst, ok := core.ParseInstrument(name); ok {
					cfg.InstrumentVolumes[inst] = clampUnit(v)
				}
			}
		}
	}

	if sampleRate := os.Getenv("TONEROW_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
