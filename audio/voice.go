package audio

import (
	"math"
	"math/rand"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/tonerow/core"
)

// preset describes one synthesizer voice: envelope in seconds plus output gain
type preset struct {
	attack, decay, sustain, release float64
	gain                            float64
}

var presets = [core.InstrumentCount]preset{
	core.InstrSynth:    {attack: 0.005, decay: 0.1, sustain: 0.3, release: 1.0, gain: 0.8},
	core.InstrAM:       {attack: 0.01, decay: 0.01, sustain: 1.0, release: 0.5, gain: 0.7},
	core.InstrFM:       {attack: 0.01, decay: 0.01, sustain: 1.0, release: 0.5, gain: 0.6},
	core.InstrDuo:      {attack: 0.01, decay: 0.0, sustain: 1.0, release: 0.5, gain: 0.5},
	core.InstrMono:     {attack: 0.005, decay: 0.1, sustain: 0.9, release: 1.0, gain: 0.6},
	core.InstrMembrane: {attack: 0.001, decay: 0.4, sustain: 0.01, release: 1.4, gain: 0.9},
	core.InstrMetal:    {attack: 0.001, decay: 1.4, sustain: 0.0, release: 0.2, gain: 0.3},
	core.InstrPluck:    {attack: 0.001, decay: 0.0, sustain: 1.0, release: 1.0, gain: 0.8},
	core.InstrPoly:     {attack: 0.005, decay: 0.1, sustain: 0.3, release: 1.0, gain: 0.6},
}

// Inharmonic partial ratios for the metallic preset
var metalRatios = [...]float64{1.0, 1.483, 1.932, 2.546, 2.630, 3.897}

// Voice synthesizes one note for a preset. Implements beep.Streamer
type Voice struct {
	inst core.Instrument
	sr   beep.SampleRate
	freq float64
	env  adsr
	pos  int
	gain float64

	phase    float64
	modPhase float64
	phases   [len(metalRatios)]float64
	filter   float64

	// Karplus-Strong delay line for pluck
	ring    []float64
	ringIdx int
}

// NewVoice creates a voice sounding for gate samples plus the preset release
func NewVoice(inst core.Instrument, freq float64, gate int, sr beep.SampleRate) *Voice {
	if inst < 0 || inst >= core.InstrumentCount {
		inst = core.InstrSynth
	}
	p := presets[inst]
	v := &Voice{
		inst: inst,
		sr:   sr,
		freq: freq,
		env:  newADSR(sr, p.attack, p.decay, p.sustain, p.release, gate),
		gain: p.gain,
	}

	if inst == core.InstrPluck && freq > 0 {
		n := max(int(float64(sr)/freq), 2)
		// Seeded by pitch so renders are reproducible
		rng := rand.New(rand.NewSource(int64(freq * 1000)))
		v.ring = make([]float64, n)
		for i := range v.ring {
			v.ring[i] = rng.Float64()*2 - 1
		}
	}
	return v
}

// voiceLen is the length in samples of a voice held for gate samples
func voiceLen(inst core.Instrument, gate int, sr beep.SampleRate) int {
	if inst < 0 || inst >= core.InstrumentCount {
		inst = core.InstrSynth
	}
	return gate + int(presets[inst].release*float64(sr))
}

// Len returns the voice length in samples
func (v *Voice) Len() int {
	return v.env.total()
}

func (v *Voice) Stream(samples [][2]float64) (n int, ok bool) {
	total := v.env.total()
	for i := range samples {
		if v.pos >= total {
			return i, i > 0
		}
		s := v.next() * v.env.level(v.pos) * v.gain
		samples[i][0] = s
		samples[i][1] = s
		v.pos++
	}
	return len(samples), true
}

func (v *Voice) Err() error { return nil }

// next produces one raw sample and advances oscillator state
func (v *Voice) next() float64 {
	var out float64
	switch v.inst {
	case core.InstrAM:
		// Carrier amplitude-modulated by a sine at 3x
		mod := 0.5 + 0.5*sine(v.modPhase)
		out = sine(v.phase) * mod
		v.modPhase = advance(v.modPhase, v.freq*3, v.sr)

	case core.InstrFM:
		// Two-operator FM, index falls with the envelope
		index := 3.0 * v.env.level(v.pos)
		out = math.Sin(2*math.Pi*v.phase + index*sine(v.modPhase))
		v.modPhase = advance(v.modPhase, v.freq*3, v.sr)

	case core.InstrDuo:
		// Second voice a fifth up with slow vibrato
		vibrato := 1 + 0.005*sine(v.modPhase)
		out = 0.5*sine(v.phase) + 0.5*sine(v.phases[0])
		v.phases[0] = advance(v.phases[0], v.freq*1.5*vibrato, v.sr)
		v.modPhase = advance(v.modPhase, 5, v.sr)

	case core.InstrMono:
		// Saw through a one-pole low-pass that closes as the note decays
		cutoff := 0.05 + 0.25*v.env.level(v.pos)
		v.filter += cutoff * (saw(v.phase) - v.filter)
		out = v.filter

	case core.InstrMembrane:
		// Pitch drops two octaves onto the note over 50ms
		t := float64(v.pos) / float64(v.sr)
		f := v.freq * (1 + 3*math.Exp(-t/0.05))
		out = sine(v.phase)
		v.phase = advance(v.phase, f, v.sr)
		return out

	case core.InstrMetal:
		for i, r := range metalRatios {
			out += square(v.phases[i])
			v.phases[i] = advance(v.phases[i], v.freq*r, v.sr)
		}
		return out / float64(len(metalRatios))

	case core.InstrPluck:
		if len(v.ring) == 0 {
			return 0
		}
		next := (v.ringIdx + 1) % len(v.ring)
		out = v.ring[v.ringIdx]
		v.ring[v.ringIdx] = 0.498 * (v.ring[v.ringIdx] + v.ring[next])
		v.ringIdx = next
		return out

	case core.InstrPoly:
		out = 0.7*triangle(v.phase) + 0.2*sine(v.modPhase) + 0.1*sine(v.phases[0])
		v.modPhase = advance(v.modPhase, v.freq*2, v.sr)
		v.phases[0] = advance(v.phases[0], v.freq*3, v.sr)

	default:
		out = triangle(v.phase)
	}

	v.phase = advance(v.phase, v.freq, v.sr)
	return out
}
