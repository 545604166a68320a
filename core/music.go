package core

import "strings"

// Instrument identifies synthesizer presets
type Instrument int

const (
	InstrSynth Instrument = iota
	InstrAM
	InstrFM
	InstrDuo
	InstrMono
	InstrMembrane
	InstrMetal
	InstrPluck
	InstrPoly
	InstrumentCount
)

var instrumentNames = [InstrumentCount]string{"synth", "am", "fm", "duo", "mono", "membrane", "metal", "pluck", "poly"}

func (i Instrument) String() string {
	if i >= 0 && i < InstrumentCount {
		return instrumentNames[i]
	}
	return "unknown"
}

// Next cycles forward through the presets
func (i Instrument) Next() Instrument {
	return (i + 1) % InstrumentCount
}

// Prev cycles backward through the presets
func (i Instrument) Prev() Instrument {
	return (i + InstrumentCount - 1) % InstrumentCount
}

// ParseInstrument accepts preset names case-insensitively, with or without
// a "synth" suffix ("FMSynth", "fm")
func ParseInstrument(name string) (Instrument, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n != "synth" {
		n = strings.TrimSuffix(n, "synth")
	}
	for i, s := range instrumentNames {
		if s == n {
			return Instrument(i), true
		}
	}
	return InstrSynth, false
}

// Instruments returns all presets in selector order
func Instruments() []Instrument {
	out := make([]Instrument, InstrumentCount)
	for i := range out {
		out[i] = Instrument(i)
	}
	return out
}

// Clef selects the staff reference line
type Clef int

const (
	ClefTreble Clef = iota
	ClefBass
)

func (c Clef) String() string {
	if c == ClefBass {
		return "bass"
	}
	return "treble"
}

// Toggle switches between treble and bass
func (c Clef) Toggle() Clef {
	if c == ClefBass {
		return ClefTreble
	}
	return ClefBass
}

// ParseClef accepts "treble" or "bass"
func ParseClef(name string) (Clef, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "treble":
		return ClefTreble, true
	case "bass":
		return ClefBass, true
	}
	return ClefTreble, false
}
