package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/tonerow/core"
)

// SequenceOptions controls how a note list is rendered
type SequenceOptions struct {
	Instrument core.Instrument
	BPM        int
	// Loop cuts the pass at exactly n beats so passes chain without drift;
	// otherwise the pass runs until the last release ends
	Loop bool
	// OnNote is called from the audio goroutine as note i starts
	OnNote func(i int)
}

// NormalizeBPM maps unset values to DefaultBPM and clamps the rest
func NormalizeBPM(bpm int) int {
	switch {
	case bpm <= 0:
		return DefaultBPM
	case bpm < MinBPM:
		return MinBPM
	case bpm > MaxBPM:
		return MaxBPM
	}
	return bpm
}

// BeatDuration is the spacing between consecutive notes
func BeatDuration(bpm int) time.Duration {
	return time.Minute / time.Duration(NormalizeBPM(bpm))
}

// SequenceLen returns the length in samples of one looping pass over n notes
func SequenceLen(n, bpm int, sr beep.SampleRate) int {
	return n * sr.N(BeatDuration(bpm))
}

// RingOutLen returns the length in samples of a one-shot pass over n notes:
// the last onset plus the full voice, or n beats when that is longer
func RingOutLen(n, bpm int, inst core.Instrument, sr beep.SampleRate) int {
	if n == 0 {
		return 0
	}
	beat := sr.N(BeatDuration(bpm))
	return max(n*beat, (n-1)*beat+voiceLen(inst, sr.N(NoteGate), sr))
}

// Sequence renders one pass over the MIDI notes: one note per beat, each
// held for NoteGate then released. Release tails ring into the following
// beats; a looping pass cuts them at n beats
func Sequence(midi []int, opts SequenceOptions, cfg *AudioConfig) beep.Streamer {
	sr := beep.SampleRate(cfg.SampleRate)
	beat := sr.N(BeatDuration(opts.BPM))
	gate := sr.N(NoteGate)

	total := SequenceLen(len(midi), opts.BPM, sr)
	if !opts.Loop {
		total = RingOutLen(len(midi), opts.BPM, opts.Instrument, sr)
	}

	parts := make([]beep.Streamer, 0, len(midi)+1)
	parts = append(parts, beep.Silence(total))
	for i, note := range midi {
		voice := NewVoice(opts.Instrument, NoteFreq(note), gate, sr)
		lead := beep.Silence(i * beat)
		if opts.OnNote != nil {
			idx := i
			onNote := opts.OnNote
			parts = append(parts, beep.Seq(lead, beep.Callback(func() { onNote(idx) }), voice))
		} else {
			parts = append(parts, beep.Seq(lead, voice))
		}
	}

	mixed := beep.Take(total, beep.Mix(parts...))
	vol := cfg.MasterVolume * cfg.InstrumentVolume(opts.Instrument)
	return newVolume(mixed, vol)
}
