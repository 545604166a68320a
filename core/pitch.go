package core

// PitchClass is one of the twelve chromatic notes without octave
type PitchClass uint8

const (
	PitchC PitchClass = iota
	PitchCSharp
	PitchD
	PitchDSharp
	PitchE
	PitchF
	PitchFSharp
	PitchG
	PitchGSharp
	PitchA
	PitchASharp
	PitchB
	PitchClassCount
)

var sharpNames = [PitchClassCount]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flatNames = [PitchClassCount]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// String returns the canonical sharp spelling
func (p PitchClass) String() string {
	if p < PitchClassCount {
		return sharpNames[p]
	}
	return "?"
}

// FlatName returns the flat spelling, naturals unchanged
func (p PitchClass) FlatName() string {
	if p < PitchClassCount {
		return flatNames[p]
	}
	return "?"
}

// Valid reports whether p is one of the twelve pitch classes
func (p PitchClass) Valid() bool {
	return p < PitchClassCount
}

// IsBlackKey returns true for the five chromatic (accidental) pitch classes
func (p PitchClass) IsBlackKey() bool {
	switch p {
	case PitchCSharp, PitchDSharp, PitchFSharp, PitchGSharp, PitchASharp:
		return true
	}
	return false
}

// Semitones returns the offset above C
func (p PitchClass) Semitones() int {
	return int(p)
}

// ParsePitchClass accepts sharp or flat spellings ("C#", "Db")
func ParsePitchClass(name string) (PitchClass, bool) {
	for i := PitchC; i < PitchClassCount; i++ {
		if sharpNames[i] == name || flatNames[i] == name {
			return i, true
		}
	}
	return 0, false
}

// AllPitchClasses returns the twelve pitch classes in chromatic order
func AllPitchClasses() []PitchClass {
	out := make([]PitchClass, PitchClassCount)
	for i := range out {
		out[i] = PitchClass(i)
	}
	return out
}

// Accidental selects sharp or flat spelling for black keys
type Accidental uint8

const (
	Sharps Accidental = iota
	Flats
)

// AccidentalFromFlag maps a "prefer flats" toggle to an Accidental
func AccidentalFromFlag(preferFlats bool) Accidental {
	if preferFlats {
		return Flats
	}
	return Sharps
}

func (a Accidental) String() string {
	if a == Flats {
		return "flats"
	}
	return "sharps"
}
