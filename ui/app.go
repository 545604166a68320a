// Package ui is the terminal front end: it draws the current row on a staff
// and drives playback from the keyboard.
package ui

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tonerow/audio"
	"github.com/lixenwraith/tonerow/config"
	"github.com/lixenwraith/tonerow/core"
	"github.com/lixenwraith/tonerow/notation"
	"github.com/lixenwraith/tonerow/tonerow"
)

const (
	frameInterval  = 33 * time.Millisecond
	bpmStep        = 5
	maxBPMDigits   = 3
	messageTimeout = 3 * time.Second
	meterWidth     = 10
)

// Player is the playback surface the app drives; *audio.Player implements it
type Player interface {
	PlayRow(row tonerow.Row, inst core.Instrument, bpm int, loop bool) error
	Stop()
	IsPlaying() bool
	CurrentNote() int
	Initialized() bool
	Meter() audio.Analysis
}

type inputMode uint8

const (
	modeNormal inputMode = iota
	modeBPM
)

// Options seeds the app state
type Options struct {
	Instrument core.Instrument
	BPM        int
	Clef       core.Clef
	Accidental core.Accidental
	Loop       bool
	Rand       *rand.Rand
}

// OptionsFromConfig copies playback and display settings
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Instrument: cfg.Instrument(),
		BPM:        cfg.Playback.BPM,
		Clef:       cfg.Clef(),
		Accidental: cfg.Accidental(),
		Loop:       cfg.Playback.Loop,
	}
}

// App holds all UI state. Not safe for concurrent use: events and frames
// are serialized by Run
type App struct {
	screen        tcell.Screen
	width, height int
	player        Player
	rng           *rand.Rand

	instrument core.Instrument
	bpm        int
	clef       core.Clef
	accidental core.Accidental
	loop       bool

	row    tonerow.Row
	hasRow bool
	staff  *notation.Staff

	mode     inputMode
	bpmInput string

	message     string
	messageTime time.Time
}

// NewApp creates the app on an initialized screen
func NewApp(screen tcell.Screen, player Player, opts Options) *App {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	a := &App{
		screen:     screen,
		player:     player,
		rng:        rng,
		instrument: opts.Instrument,
		bpm:        audio.NormalizeBPM(opts.BPM),
		clef:       opts.Clef,
		accidental: opts.Accidental,
		loop:       opts.Loop,
	}
	a.width, a.height = screen.Size()
	return a
}

// Row returns the current row and whether one has been generated
func (a *App) Row() (tonerow.Row, bool) {
	return a.row, a.hasRow
}

// Staff returns the rendered staff of the current row, nil before the first row
func (a *App) Staff() *notation.Staff {
	return a.staff
}

// Run processes events and redraws until the user quits
func (a *App) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	a.Draw()
	for {
		select {
		case ev := <-eventChan:
			if !a.HandleEvent(ev) {
				a.player.Stop()
				return
			}
			a.Draw()

		case <-ticker.C:
			a.Draw()
		}
	}
}

// HandleEvent applies one event; false means quit
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if a.mode == modeBPM {
			a.handleBPMKey(ev)
			return true
		}
		return a.handleKey(ev)

	case *tcell.EventResize:
		a.width, a.height = a.screen.Size()
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return false
	case tcell.KeyEnter:
		a.generate()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'g':
		a.generate()
	case 'p', ' ':
		a.play()
	case 's':
		a.player.Stop()
	case 'l':
		a.loop = !a.loop
	case 'f':
		if a.accidental == core.Flats {
			a.accidental = core.Sharps
		} else {
			a.accidental = core.Flats
		}
		a.render()
	case 'c':
		a.clef = a.clef.Toggle()
		a.render()
	case 'i':
		a.instrument = a.instrument.Next()
	case 'I':
		a.instrument = a.instrument.Prev()
	case '+', '=':
		a.setBPM(a.bpm + bpmStep)
	case '-', '_':
		a.setBPM(a.bpm - bpmStep)
	case 'b':
		a.mode = modeBPM
		a.bpmInput = ""
	}
	return true
}

func (a *App) handleBPMKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.mode = modeNormal
	case tcell.KeyEnter:
		a.mode = modeNormal
		a.setBPM(config.ParseBPM(a.bpmInput))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.bpmInput) > 0 {
			a.bpmInput = a.bpmInput[:len(a.bpmInput)-1]
		}
	case tcell.KeyRune:
		if r := ev.Rune(); r >= '0' && r <= '9' && len(a.bpmInput) < maxBPMDigits {
			a.bpmInput += string(r)
		}
	}
}

func (a *App) setBPM(bpm int) {
	a.bpm = audio.NormalizeBPM(bpm)
	log.Printf("bpm set to %d", a.bpm)
}

// generate stops playback, draws a fresh row and renders it
func (a *App) generate() {
	a.player.Stop()
	a.row = tonerow.Generate(a.rng)
	a.hasRow = true
	log.Printf("generated row: %s", a.row)
	a.render()
}

func (a *App) render() {
	if !a.hasRow {
		return
	}
	st, err := notation.Render(a.row.DisplayKeys(a.accidental), a.clef)
	if err != nil {
		log.Printf("staff render failed: %v", err)
		a.showMessage("render failed: " + err.Error())
		return
	}
	a.staff = st
}

func (a *App) play() {
	if !a.hasRow {
		a.generate()
	}
	if err := a.player.PlayRow(a.row, a.instrument, a.bpm, a.loop); err != nil {
		log.Printf("playback failed: %v", err)
		a.showMessage("playback unavailable: " + err.Error())
	}
}

func (a *App) showMessage(msg string) {
	a.message = msg
	a.messageTime = time.Now()
}

// Draw renders the whole frame
func (a *App) Draw() {
	a.screen.Clear()
	a.fill(0, 0, a.width, a.height, tcell.StyleDefault.Background(RgbBackground))

	title := "Twelve-Tone Row"
	a.drawText((a.width-len(title))/2, 0, title, tcell.StyleDefault.Background(RgbBackground).Foreground(RgbTitle).Bold(true))

	if a.staff != nil {
		a.drawStaff()
	} else {
		hint := "press g to generate a row"
		a.drawText((a.width-len(hint))/2, a.height/2, hint, tcell.StyleDefault.Background(RgbBackground).Foreground(RgbHelpText))
	}

	a.drawStatusBar()
	a.screen.Show()
}

func (a *App) drawStaff() {
	st := a.staff
	x0 := max(0, (a.width-st.Width)/2)
	y0 := max(2, (a.height-st.Height)/2-1)

	active := -1
	if a.player.IsPlaying() {
		active = a.player.CurrentNote()
	}

	for y := 0; y < st.Height; y++ {
		for x := 0; x < st.Width; x++ {
			cell := st.Cell(x, y)
			a.screen.SetContent(x0+x, y0+y, cell.Rune, nil, styleForCell(cell, cell.Note == active))
		}
	}

	// Row names under their note heads
	nameStyle := tcell.StyleDefault.Background(RgbBackground).Foreground(RgbRowNames)
	names := a.row.Names()
	if a.accidental == core.Flats {
		for i, pc := range a.row {
			names[i] = pc.FlatName()
		}
	}
	for i, name := range names {
		hx, _, ok := st.NoteHead(i)
		if !ok {
			continue
		}
		style := nameStyle
		if i == active {
			style = style.Foreground(RgbNoteActive).Bold(true)
		}
		a.drawText(x0+hx, y0+st.Height+1, name, style)
	}
}

func (a *App) drawStatusBar() {
	y := a.height - 1
	if y < 0 {
		return
	}

	if a.mode == modeBPM {
		style := tcell.StyleDefault.Background(RgbPromptBg).Foreground(RgbPromptText)
		a.fill(0, y, a.width, 1, style)
		a.drawText(0, y, " BPM: "+a.bpmInput+"_  (Enter apply, Esc cancel)", style)
		return
	}

	bg := RgbStatusBg
	state := "stopped"
	if !a.player.Initialized() {
		state = "no audio"
	} else if a.player.IsPlaying() {
		bg = RgbPlayingBg
		state = "playing"
	}
	style := tcell.StyleDefault.Background(bg).Foreground(RgbStatusText)
	a.fill(0, y, a.width, 1, style)

	loop := "off"
	if a.loop {
		loop = "on"
	}
	status := fmt.Sprintf(" %s | %d BPM | %s | %s | loop %s | %s ",
		a.instrument, a.bpm, a.clef, a.accidental, loop, state)
	a.drawText(0, y, status, style)

	meter := a.meterText()
	a.drawText(a.width-len([]rune(meter))-1, y, meter, style.Foreground(RgbMeterLevel))

	// Message line above the status bar
	if a.message != "" && time.Since(a.messageTime) < messageTimeout {
		a.drawText(1, y-1, a.message, tcell.StyleDefault.Background(RgbBackground).Foreground(RgbMessage))
	} else {
		help := "g gen  p play  s stop  l loop  f flats  c clef  i inst  +/- bpm  b bpm  q quit"
		a.drawText(1, y-1, help, tcell.StyleDefault.Background(RgbBackground).Foreground(RgbHelpText))
	}
}

// meterText shows output level as a bar and the dominant frequency
func (a *App) meterText() string {
	m := a.player.Meter()
	if m.Silent() {
		return "[" + strings.Repeat(" ", meterWidth) + "]"
	}
	n := min(meterWidth, int(m.RMS*4*meterWidth+0.5))
	return fmt.Sprintf("%4.0f Hz [%s%s]", m.DominantHz, strings.Repeat("█", n), strings.Repeat(" ", meterWidth-n))
}

func (a *App) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= a.width {
			return
		}
		if x >= 0 && y >= 0 && y < a.height {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func (a *App) fill(x, y, w, h int, style tcell.Style) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			a.screen.SetContent(i, j, ' ', nil, style)
		}
	}
}
