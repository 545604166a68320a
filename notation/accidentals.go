package notation

// ApplyAccidentals returns the accidental to print for each key in a single
// C major measure. A note whose alteration differs from the current state
// of its letter and octave prints its sign, a natural included. Once a
// letter and octave has been altered, every later note on it prints its
// sign again even when unchanged; untouched pitches print nothing
func ApplyAccidentals(keys []Key) []AccidentalMark {
	type slot struct {
		letter byte
		octave int
	}
	state := make(map[slot]AccidentalMark)
	modified := make(map[slot]bool)
	out := make([]AccidentalMark, len(keys))

	for i, k := range keys {
		s := slot{k.Letter, k.Octave}
		current, ok := state[s]
		if !ok {
			current = MarkNatural
		}

		want := k.Accidental
		if want == MarkNone {
			want = MarkNatural
		}

		if want != current || modified[s] {
			out[i] = want
			state[s] = want
			modified[s] = true
		}
	}
	return out
}
