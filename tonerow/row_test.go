package tonerow

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/lixenwraith/tonerow/core"
)

// TestGeneratePermutation verifies every row holds each pitch class once
func TestGeneratePermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	canonical := map[string]bool{
		"C": true, "C#": true, "D": true, "D#": true, "E": true, "F": true,
		"F#": true, "G": true, "G#": true, "A": true, "A#": true, "B": true,
	}

	for i := 0; i < 500; i++ {
		row := Generate(rng)
		names := row.Names()
		if len(names) != 12 {
			t.Fatalf("Expected 12 notes, got %d", len(names))
		}

		seen := make(map[string]bool, 12)
		for _, n := range names {
			if !canonical[n] {
				t.Fatalf("Unexpected name %q in row %v", n, row)
			}
			if seen[n] {
				t.Fatalf("Duplicate %q in row %v", n, row)
			}
			seen[n] = true
		}
		if !row.Valid() {
			t.Fatalf("Row %v reported invalid", row)
		}
	}
}

// TestGenerateDistribution checks first-position picks are roughly uniform
func TestGenerateDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const trials = 12000
	var counts [core.PitchClassCount]int

	for i := 0; i < trials; i++ {
		counts[Generate(rng)[0]]++
	}

	// Expected 1000 each; 20% tolerance is far outside sampling noise
	for pc, c := range counts {
		if c < 800 || c > 1200 {
			t.Errorf("Pitch class %v chosen first %d times, expected ~1000", core.PitchClass(pc), c)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := Generate(rand.New(rand.NewSource(7)))
	b := Generate(rand.New(rand.NewSource(7)))
	if a != b {
		t.Errorf("Same seed produced different rows: %v vs %v", a, b)
	}
}

func TestNewIsValid(t *testing.T) {
	if row := New(); !row.Valid() {
		t.Errorf("New() produced invalid row %v", row)
	}
}

func TestRowValid(t *testing.T) {
	var row Row
	if row.Valid() {
		t.Error("Zero row (all C) must be invalid")
	}

	for i := range row {
		row[i] = core.PitchClass(i)
	}
	if !row.Valid() {
		t.Error("Chromatic row must be valid")
	}

	row[11] = core.PitchClassCount
	if row.Valid() {
		t.Error("Out-of-range pitch class must be invalid")
	}
}

func TestParseRow(t *testing.T) {
	valid := []string{"C", "Db", "D", "D#", "E", "F", "Gb", "G", "G#", "A", "Bb", "B"}
	row, err := ParseRow(valid)
	if err != nil {
		t.Fatalf("ParseRow failed: %v", err)
	}
	if row[1] != core.PitchCSharp || row[10] != core.PitchASharp {
		t.Errorf("Flat spellings not mapped: %v", row)
	}

	tests := []struct {
		name  string
		input []string
		err   error
	}{
		{"Short", valid[:11], ErrRowLength},
		{"Unknown", append(append([]string{}, valid[:11]...), "H"), ErrUnknownNote},
		{"Repeated", append(append([]string{}, valid[:11]...), "C"), ErrRepeatedNote},
		{"Enharmonic repeat", append(append([]string{}, valid[:11]...), "C#"), ErrRepeatedNote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRow(tt.input); !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestRowString(t *testing.T) {
	var row Row
	for i := range row {
		row[i] = core.PitchClass(11 - i)
	}
	want := "B A# A G# G F# F E D# D C# C"
	if got := row.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
