package main

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lixenwraith/tonerow/config"
	"github.com/lixenwraith/tonerow/core"
	"github.com/lixenwraith/tonerow/tonerow"
)

var chromatic = tonerow.Row{
	core.PitchC, core.PitchCSharp, core.PitchD, core.PitchDSharp,
	core.PitchE, core.PitchF, core.PitchFSharp, core.PitchG,
	core.PitchGSharp, core.PitchA, core.PitchASharp, core.PitchB,
}

func parseTestFlags(t *testing.T, args ...string) (*options, map[string]bool) {
	t.Helper()
	fs := flag.NewFlagSet("tonerow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o, set, err := parseFlags(fs, args)
	if err != nil {
		t.Fatalf("parseFlags(%v) failed: %v", args, err)
	}
	return o, set
}

func TestApplyFlagsOverrides(t *testing.T) {
	o, set := parseTestFlags(t, "-bpm", "90", "-instrument", "PluckSynth", "-clef", "bass", "-flats", "-loop", "-mute")

	cfg := config.Default()
	if err := applyFlags(cfg, o, set); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}
	if cfg.Playback.BPM != 90 {
		t.Errorf("Expected 90 BPM, got %d", cfg.Playback.BPM)
	}
	if cfg.Instrument() != core.InstrPluck {
		t.Errorf("Expected pluck, got %v", cfg.Instrument())
	}
	if cfg.Clef() != core.ClefBass || !cfg.Display.Flats || !cfg.Playback.Loop {
		t.Errorf("Unexpected display/loop settings: %+v %+v", cfg.Display, cfg.Playback)
	}
	if cfg.Audio.Enabled {
		t.Error("-mute should disable audio")
	}
}

func TestApplyFlagsKeepsUnsetValues(t *testing.T) {
	o, set := parseTestFlags(t)

	cfg := config.Default()
	cfg.Playback.BPM = 200
	cfg.Display.Flats = true
	if err := applyFlags(cfg, o, set); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}
	if cfg.Playback.BPM != 200 || !cfg.Display.Flats {
		t.Error("Unset flags must not override loaded config")
	}
}

func TestApplyFlagsBPMText(t *testing.T) {
	o, set := parseTestFlags(t, "-bpm", "fast")
	cfg := config.Default()
	if err := applyFlags(cfg, o, set); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}
	if cfg.Playback.BPM != 120 {
		t.Errorf("Unparsable BPM should fall back to 120, got %d", cfg.Playback.BPM)
	}
}

func TestApplyFlagsInvalid(t *testing.T) {
	o, set := parseTestFlags(t, "-instrument", "kazoo")
	if err := applyFlags(config.Default(), o, set); !errors.Is(err, config.ErrInvalidInstrument) {
		t.Errorf("Expected ErrInvalidInstrument, got %v", err)
	}

	o, set = parseTestFlags(t, "-bpm", "1000")
	if err := applyFlags(config.Default(), o, set); !errors.Is(err, config.ErrInvalidBPM) {
		t.Errorf("Expected ErrInvalidBPM, got %v", err)
	}
}

func TestPrintRow(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Flats = true

	var buf bytes.Buffer
	if err := printRow(&buf, chromatic, cfg); err != nil {
		t.Fatalf("printRow failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Row:  C C# D D# E F F# G G# A A# B") {
		t.Errorf("Missing row line:\n%s", out)
	}
	if !strings.Contains(out, "Keys: C/4 Db/4 D/4 Eb/4 E/4 E/4 Gb/4") {
		t.Errorf("Missing flat keys line:\n%s", out)
	}
	if !strings.Contains(out, "Time: 12/8") {
		t.Errorf("Missing time signature:\n%s", out)
	}
	if strings.Count(out, "●") != tonerow.RowLength {
		t.Errorf("Expected %d note heads in staff:\n%s", tonerow.RowLength, out)
	}
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "row.wav")
	cfg := config.Default()
	cfg.Playback.BPM = 400

	if err := writeWAV(path, chromatic, cfg); err != nil {
		t.Fatalf("writeWAV failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) <= 44 || string(data[:4]) != "RIFF" {
		t.Errorf("Expected WAV data, got %d bytes", len(data))
	}

	if err := writeWAV(filepath.Join(t.TempDir(), "missing", "row.wav"), chromatic, cfg); err == nil {
		t.Error("Expected error for unwritable path")
	}
}
