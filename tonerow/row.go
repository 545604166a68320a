// Package tonerow generates twelve-tone rows and maps their pitch classes
// to the spellings used by the notation and audio layers.
package tonerow

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/lixenwraith/tonerow/core"
)

// RowLength is the number of pitch classes in a row
const RowLength = int(core.PitchClassCount)

// Row is an ordered permutation of all twelve pitch classes.
// Array value type: copies are independent and a produced row never changes
type Row [RowLength]core.PitchClass

var (
	ErrRowLength    = errors.New("tone row must contain twelve notes")
	ErrUnknownNote  = errors.New("unknown pitch class")
	ErrRepeatedNote = errors.New("pitch class repeated in row")
)

// Generate draws a uniformly random row from rng.
// Each step removes a random element of the remaining pool
func Generate(rng *rand.Rand) Row {
	pool := core.AllPitchClasses()
	var row Row
	for i := range row {
		idx := rng.Intn(len(pool))
		row[i] = pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return row
}

// New generates a row from a time-seeded source
func New() Row {
	return Generate(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// ParseRow validates a client-supplied row; flat spellings are accepted
func ParseRow(names []string) (Row, error) {
	var row Row
	if len(names) != RowLength {
		return row, fmt.Errorf("%w: got %d", ErrRowLength, len(names))
	}

	var seen [core.PitchClassCount]bool
	for i, name := range names {
		pc, ok := core.ParsePitchClass(strings.TrimSpace(name))
		if !ok {
			return row, fmt.Errorf("position %d: %w %q", i, ErrUnknownNote, name)
		}
		if seen[pc] {
			return row, fmt.Errorf("position %d: %w %q", i, ErrRepeatedNote, name)
		}
		seen[pc] = true
		row[i] = pc
	}
	return row, nil
}

// Valid reports whether every pitch class appears exactly once
func (r Row) Valid() bool {
	var seen [core.PitchClassCount]bool
	for _, pc := range r {
		if !pc.Valid() || seen[pc] {
			return false
		}
		seen[pc] = true
	}
	return true
}

// Names returns the canonical sharp spellings
func (r Row) Names() []string {
	out := make([]string, len(r))
	for i, pc := range r {
		out[i] = pc.String()
	}
	return out
}

func (r Row) String() string {
	return strings.Join(r.Names(), " ")
}
