// Package notation lays out a sequence of display keys on a five-line
// staff as a grid of terminal cells.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AccidentalMark is the accidental attached to a key
type AccidentalMark uint8

const (
	MarkNone AccidentalMark = iota
	MarkSharp
	MarkFlat
	MarkNatural
)

var ErrBadKey = errors.New("malformed display key")

var letterSteps = map[byte]int{'C': 0, 'D': 1, 'E': 2, 'F': 3, 'G': 4, 'A': 5, 'B': 6}

// Key is a parsed display key such as "C#/4"
type Key struct {
	Letter     byte
	Accidental AccidentalMark
	Octave     int
}

// ParseKey parses "<letter>[#|b]/<octave>"
func ParseKey(s string) (Key, error) {
	name, oct, found := strings.Cut(s, "/")
	if !found || len(name) == 0 || len(name) > 2 {
		return Key{}, fmt.Errorf("%w: %q", ErrBadKey, s)
	}

	k := Key{Letter: strings.ToUpper(name[:1])[0]}
	if _, ok := letterSteps[k.Letter]; !ok {
		return Key{}, fmt.Errorf("%w: letter in %q", ErrBadKey, s)
	}

	if len(name) == 2 {
		switch name[1] {
		case '#':
			k.Accidental = MarkSharp
		case 'b':
			k.Accidental = MarkFlat
		case 'n':
			k.Accidental = MarkNatural
		default:
			return Key{}, fmt.Errorf("%w: accidental in %q", ErrBadKey, s)
		}
	}

	octave, err := strconv.Atoi(oct)
	if err != nil || octave < 0 || octave > 9 {
		return Key{}, fmt.Errorf("%w: octave in %q", ErrBadKey, s)
	}
	k.Octave = octave
	return k, nil
}

// DiatonicStep counts letter steps from C0
func (k Key) DiatonicStep() int {
	return k.Octave*7 + letterSteps[k.Letter]
}

func (k Key) String() string {
	acc := ""
	switch k.Accidental {
	case MarkSharp:
		acc = "#"
	case MarkFlat:
		acc = "b"
	case MarkNatural:
		acc = "n"
	}
	return fmt.Sprintf("%c%s/%d", k.Letter, acc, k.Octave)
}
