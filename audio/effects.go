package audio

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Waveforms take a phase in [0, 1) and return [-1, 1]

func sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

func triangle(phase float64) float64 {
	return 4*math.Abs(phase-0.5) - 1
}

func square(phase float64) float64 {
	if phase < 0.5 {
		return 1.0
	}
	return -1.0
}

func saw(phase float64) float64 {
	return 2.0 * (phase - 0.5)
}

// advance steps a phase accumulator, keeping it in [0, 1)
func advance(phase, freq float64, sr beep.SampleRate) float64 {
	phase += freq / float64(sr)
	return phase - math.Floor(phase)
}

// adsr is an envelope in samples. The note is held for gate samples, then
// released from whatever level it reached
type adsr struct {
	attack  int
	decay   int
	sustain float64
	gate    int
	release int
}

func newADSR(sr beep.SampleRate, attack, decay, sustain, release float64, gate int) adsr {
	return adsr{
		attack:  int(attack * float64(sr)),
		decay:   int(decay * float64(sr)),
		sustain: sustain,
		gate:    gate,
		release: int(release * float64(sr)),
	}
}

// total is the full sounding length including release
func (e adsr) total() int {
	return e.gate + e.release
}

func (e adsr) level(pos int) float64 {
	if pos < e.gate {
		return e.held(pos)
	}
	r := pos - e.gate
	if e.release <= 0 || r >= e.release {
		return 0
	}
	return e.held(e.gate) * (1 - float64(r)/float64(e.release))
}

func (e adsr) held(pos int) float64 {
	switch {
	case pos < e.attack:
		return float64(pos) / float64(e.attack)
	case pos < e.attack+e.decay:
		t := float64(pos-e.attack) / float64(e.decay)
		return 1.0 - t*(1.0-e.sustain)
	default:
		return e.sustain
	}
}

// Helper to create a volume effect safely
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
