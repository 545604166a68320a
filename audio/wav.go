package audio

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// EncodeWAV renders one pass over the notes as 16-bit stereo WAV, running
// until the last note has rung out
func EncodeWAV(w io.WriteSeeker, midi []int, opts SequenceOptions, cfg *AudioConfig) error {
	if len(midi) == 0 {
		return ErrEmptySequence
	}
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(cfg.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	opts.OnNote = nil
	opts.Loop = false
	if err := wav.Encode(w, Sequence(midi, opts, cfg), format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
