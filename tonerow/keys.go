package tonerow

import (
	"strconv"

	"github.com/lixenwraith/tonerow/core"
)

const (
	// DisplayOctave is the fixed octave of every rendered and played note
	DisplayOctave = 4
	// DefaultKey is returned for names neither table recognizes
	DefaultKey = "C/4"
	// middleC is the MIDI number of C4
	middleC = 60
)

var sharpKeys = [core.PitchClassCount]string{
	core.PitchC:      "C/4",
	core.PitchCSharp: "C#/4",
	core.PitchD:      "D/4",
	core.PitchDSharp: "D#/4",
	core.PitchE:      "E/4",
	core.PitchF:      "F/4",
	core.PitchFSharp: "F#/4",
	core.PitchG:      "G/4",
	core.PitchGSharp: "G#/4",
	core.PitchA:      "A/4",
	core.PitchASharp: "A#/4",
	core.PitchB:      "B/4",
}

// F maps to E/4 in the flat table. Kept as the rendered output users know;
// see DESIGN.md before changing it
var flatKeys = [core.PitchClassCount]string{
	core.PitchC:      "C/4",
	core.PitchCSharp: "Db/4",
	core.PitchD:      "D/4",
	core.PitchDSharp: "Eb/4",
	core.PitchE:      "E/4",
	core.PitchF:      "E/4",
	core.PitchFSharp: "Gb/4",
	core.PitchG:      "G/4",
	core.PitchGSharp: "Ab/4",
	core.PitchA:      "A/4",
	core.PitchASharp: "Bb/4",
	core.PitchB:      "B/4",
}

// DisplayKey returns the notation key for pc in the requested spelling
func DisplayKey(pc core.PitchClass, acc core.Accidental) string {
	if !pc.Valid() {
		return DefaultKey
	}
	if acc == core.Flats {
		return flatKeys[pc]
	}
	return sharpKeys[pc]
}

// KeyForName maps a spelled note name to its display key.
// With preferFlats a sharp name is first rewritten to its flat enharmonic;
// the rewritten name must then exist in the selected spelling, otherwise
// DefaultKey is returned (a flat name under sharps, an empty string, ...)
func KeyForName(name string, preferFlats bool) string {
	pc, ok := core.ParsePitchClass(name)
	if !ok {
		return DefaultKey
	}
	acc := core.AccidentalFromFlag(preferFlats)
	// Sharp table only knows sharp spellings, flat table only flat ones
	// (after the sharp-to-flat rewrite)
	if acc == core.Sharps && name != pc.String() {
		return DefaultKey
	}
	return DisplayKey(pc, acc)
}

// DisplayKeys maps the whole row in one spelling
func (r Row) DisplayKeys(acc core.Accidental) []string {
	out := make([]string, len(r))
	for i, pc := range r {
		out[i] = DisplayKey(pc, acc)
	}
	return out
}

// PlaybackName returns the synthesizer note name, always sharp spelled
// ("C#4"); the accidental toggle only affects notation
func PlaybackName(pc core.PitchClass) string {
	return pc.String() + strconv.Itoa(DisplayOctave)
}

// PlaybackNames maps the whole row to synthesizer note names
func (r Row) PlaybackNames() []string {
	out := make([]string, len(r))
	for i, pc := range r {
		out[i] = PlaybackName(pc)
	}
	return out
}

// MIDINote returns the MIDI note number of pc at the display octave
func MIDINote(pc core.PitchClass) int {
	return middleC + pc.Semitones()
}

// MIDINotes maps the whole row to MIDI note numbers
func (r Row) MIDINotes() []int {
	out := make([]int, len(r))
	for i, pc := range r {
		out[i] = MIDINote(pc)
	}
	return out
}
