package ui

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tonerow/audio"
	"github.com/lixenwraith/tonerow/core"
	"github.com/lixenwraith/tonerow/tonerow"
)

// fakePlayer records calls instead of producing sound
type fakePlayer struct {
	initialized bool
	playing     bool
	note        int
	err         error

	plays []playCall
	stops int
}

type playCall struct {
	row  tonerow.Row
	inst core.Instrument
	bpm  int
	loop bool
}

func (p *fakePlayer) PlayRow(row tonerow.Row, inst core.Instrument, bpm int, loop bool) error {
	if p.err != nil {
		return p.err
	}
	p.plays = append(p.plays, playCall{row, inst, bpm, loop})
	p.playing = true
	return nil
}

func (p *fakePlayer) Stop() {
	p.stops++
	p.playing = false
}

func (p *fakePlayer) IsPlaying() bool       { return p.playing }
func (p *fakePlayer) CurrentNote() int      { return p.note }
func (p *fakePlayer) Initialized() bool     { return p.initialized }
func (p *fakePlayer) Meter() audio.Analysis { return audio.Analysis{} }

func newTestApp(t *testing.T, player Player) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)

	app := NewApp(screen, player, Options{
		Instrument: core.InstrSynth,
		BPM:        120,
		Clef:       core.ClefTreble,
		Rand:       rand.New(rand.NewSource(7)),
	})
	return app, screen
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

// screenText returns the simulation screen contents row by row
func screenText(screen tcell.SimulationScreen) []string {
	cells, w, h := screen.GetContents()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				sb.WriteRune(c.Runes[0])
			} else {
				sb.WriteRune(' ')
			}
		}
		lines[y] = sb.String()
	}
	return lines
}

func TestGenerateKey(t *testing.T) {
	player := &fakePlayer{note: -1}
	app, _ := newTestApp(t, player)

	if _, ok := app.Row(); ok {
		t.Fatal("No row expected before generate")
	}

	app.HandleEvent(runeKey('g'))
	row, ok := app.Row()
	if !ok || !row.Valid() {
		t.Fatalf("Expected a valid row after generate, got %v", row)
	}
	if app.Staff() == nil {
		t.Fatal("Expected staff after generate")
	}
	if player.stops != 1 {
		t.Errorf("Generate should stop playback first, stops=%d", player.stops)
	}

	app.HandleEvent(key(tcell.KeyEnter))
	next, _ := app.Row()
	if next == row {
		t.Error("Enter should generate a different row for this seed")
	}
}

func TestPlayGeneratesWhenEmpty(t *testing.T) {
	player := &fakePlayer{note: -1, initialized: true}
	app, _ := newTestApp(t, player)

	app.HandleEvent(runeKey('p'))
	if len(player.plays) != 1 {
		t.Fatalf("Expected one play call, got %d", len(player.plays))
	}
	row, ok := app.Row()
	if !ok || player.plays[0].row != row {
		t.Error("Play should use the generated row")
	}

	// Same row plays again until regenerated
	app.HandleEvent(runeKey(' '))
	if len(player.plays) != 2 || player.plays[1].row != row {
		t.Error("Space should replay the current row")
	}
}

func TestPlaybackSettings(t *testing.T) {
	player := &fakePlayer{note: -1, initialized: true}
	app, _ := newTestApp(t, player)

	app.HandleEvent(runeKey('i'))
	app.HandleEvent(runeKey('i'))
	app.HandleEvent(runeKey('+'))
	app.HandleEvent(runeKey('l'))
	app.HandleEvent(runeKey('p'))

	got := player.plays[0]
	if got.inst != core.InstrFM {
		t.Errorf("Expected fm after two steps, got %v", got.inst)
	}
	if got.bpm != 125 {
		t.Errorf("Expected 125 BPM, got %d", got.bpm)
	}
	if !got.loop {
		t.Error("Expected loop enabled")
	}

	app.HandleEvent(runeKey('I'))
	app.HandleEvent(runeKey('s'))
	if player.playing {
		t.Error("s should stop playback")
	}
	if app.instrument != core.InstrAM {
		t.Errorf("Expected am after previous, got %v", app.instrument)
	}
}

func TestBPMEntry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"typed", "90", 90},
		{"empty", "", audio.DefaultBPM},
		{"zero", "0", audio.DefaultBPM},
		{"clamped", "999", audio.MaxBPM},
		{"letters ignored", "x6y0", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t, &fakePlayer{note: -1})
			app.bpm = 200

			app.HandleEvent(runeKey('b'))
			for _, r := range tt.input {
				app.HandleEvent(runeKey(r))
			}
			app.HandleEvent(key(tcell.KeyEnter))

			if app.mode != modeNormal {
				t.Error("Enter should leave BPM entry")
			}
			if app.bpm != tt.want {
				t.Errorf("Expected %d BPM, got %d", tt.want, app.bpm)
			}
		})
	}
}

func TestBPMEntryCancel(t *testing.T) {
	app, _ := newTestApp(t, &fakePlayer{note: -1})
	app.HandleEvent(runeKey('b'))
	app.HandleEvent(runeKey('6'))
	app.HandleEvent(key(tcell.KeyBackspace2))
	app.HandleEvent(runeKey('q'))
	if !app.HandleEvent(key(tcell.KeyEscape)) {
		t.Fatal("Escape in BPM entry must not quit")
	}
	if app.mode != modeNormal || app.bpm != 120 {
		t.Errorf("Cancel should keep 120 BPM, got mode=%d bpm=%d", app.mode, app.bpm)
	}
}

func TestFlatsAndClefRerenderSameRow(t *testing.T) {
	app, _ := newTestApp(t, &fakePlayer{note: -1})
	app.HandleEvent(runeKey('g'))
	row, _ := app.Row()

	app.HandleEvent(runeKey('f'))
	if r, _ := app.Row(); r != row {
		t.Fatal("Flats toggle must not regenerate the row")
	}
	for i, pc := range row {
		want := tonerow.DisplayKey(pc, core.Flats)
		if got := app.Staff().Keys[i].String(); got != want {
			t.Errorf("Note %d: staff key %s, want %s", i, got, want)
		}
	}

	treble := app.Staff().Height
	app.HandleEvent(runeKey('c'))
	if app.Staff().Clef != core.ClefBass {
		t.Error("Expected bass clef after toggle")
	}
	if app.Staff().Height <= treble {
		t.Errorf("Octave 4 on bass clef should need ledger lines: height %d vs %d", app.Staff().Height, treble)
	}
}

func TestQuitKeys(t *testing.T) {
	app, _ := newTestApp(t, &fakePlayer{note: -1})
	if app.HandleEvent(runeKey('x')) != true {
		t.Error("Unbound key should not quit")
	}
	for _, ev := range []*tcell.EventKey{runeKey('q'), key(tcell.KeyEscape), key(tcell.KeyCtrlC)} {
		if app.HandleEvent(ev) {
			t.Errorf("Expected quit on %v", ev.Name())
		}
	}
}

func TestDrawStaffAndStatus(t *testing.T) {
	player := &fakePlayer{note: -1, initialized: true}
	app, screen := newTestApp(t, player)

	app.Draw()
	if !strings.Contains(strings.Join(screenText(screen), "\n"), "press g") {
		t.Error("Expected generate hint before the first row")
	}

	app.HandleEvent(runeKey('g'))
	app.Draw()
	lines := screenText(screen)
	text := strings.Join(lines, "\n")

	if !strings.Contains(text, "Twelve-Tone Row") {
		t.Error("Missing title")
	}
	if strings.Count(text, "●") != tonerow.RowLength {
		t.Errorf("Expected %d note heads, got %d", tonerow.RowLength, strings.Count(text, "●"))
	}
	status := lines[len(lines)-1]
	for _, want := range []string{"synth", "120 BPM", "treble", "sharps", "loop off", "stopped"} {
		if !strings.Contains(status, want) {
			t.Errorf("Status bar %q missing %q", status, want)
		}
	}
}

func TestDrawHighlightsCurrentNote(t *testing.T) {
	player := &fakePlayer{note: 3, initialized: true}
	app, screen := newTestApp(t, player)
	app.HandleEvent(runeKey('p'))
	app.Draw()

	st := app.Staff()
	hx, hy, _ := st.NoteHead(3)
	x0 := (100 - st.Width) / 2
	y0 := max(2, (30-st.Height)/2-1)

	mainc, _, style, _ := screen.GetContent(x0+hx, y0+hy)
	if mainc != '●' {
		t.Fatalf("Expected note head at %d,%d, got %q", x0+hx, y0+hy, mainc)
	}
	fg, _, _ := style.Decompose()
	if fg != RgbNoteActive {
		t.Errorf("Sounding note should be highlighted, got %v", fg)
	}

	hx, hy, _ = st.NoteHead(4)
	_, _, style, _ = screen.GetContent(x0+hx, y0+hy)
	if fg, _, _ := style.Decompose(); fg != RgbNote {
		t.Errorf("Other notes keep the normal color, got %v", fg)
	}

	status := screenText(screen)[29]
	if !strings.Contains(status, "playing") {
		t.Errorf("Status should show playing: %q", status)
	}
}

func TestPlayErrorShowsMessage(t *testing.T) {
	player := &fakePlayer{note: -1, err: errors.New("speaker missing")}
	app, screen := newTestApp(t, player)

	app.HandleEvent(runeKey('p'))
	app.Draw()

	text := strings.Join(screenText(screen), "\n")
	if !strings.Contains(text, "speaker missing") {
		t.Error("Expected playback error message on screen")
	}
	if !strings.Contains(text, "no audio") {
		t.Error("Expected no audio state in status bar")
	}
}

func TestRealPlayerSatisfiesInterface(t *testing.T) {
	var _ Player = audio.NewPlayer(nil)
}
