package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/tonerow/core"
	"github.com/lixenwraith/tonerow/tonerow"
)

// Player owns the speaker and plays tone rows through a shared mixer.
// All methods are safe to call before Init or after Close
type Player struct {
	mu          sync.Mutex
	config      *AudioConfig
	mixer       *beep.Mixer
	meter       *meterTap
	current     *beep.Ctrl
	initialized bool

	// Written from the speaker goroutine
	note    atomic.Int32
	playing atomic.Bool
	// Bumped per PlayNotes so callbacks of a stopped run are ignored
	run atomic.Uint64
}

// NewPlayer creates a player; the speaker is not opened until Init
func NewPlayer(cfg *AudioConfig) *Player {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	p := &Player{
		config: cfg,
		mixer:  &beep.Mixer{},
	}
	p.meter = newMeterTap(p.mixer, beep.SampleRate(cfg.SampleRate))
	p.note.Store(-1)
	return p
}

// Init opens the speaker. Disabled config is not an error: the player
// stays silent and Play calls return ErrNotInitialized
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.config.Enabled {
		return nil
	}

	sr := beep.SampleRate(p.config.SampleRate)
	if err := speaker.Init(sr, sr.N(defaultBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(p.meter)
	p.initialized = true
	return nil
}

// Initialized reports whether the speaker is open
func (p *Player) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// PlayRow plays a tone row at the display octave
func (p *Player) PlayRow(row tonerow.Row, inst core.Instrument, bpm int, loop bool) error {
	return p.PlayNotes(row.MIDINotes(), inst, bpm, loop)
}

// PlayNotes stops any running playback and starts the given notes.
// With loop the pass repeats back to back until Stop
func (p *Player) PlayNotes(midi []int, inst core.Instrument, bpm int, loop bool) error {
	if len(midi) == 0 {
		return ErrEmptySequence
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}

	p.stopLocked()

	run := p.run.Add(1)
	notes := append([]int(nil), midi...)
	cfg := p.config
	opts := SequenceOptions{
		Instrument: inst,
		BPM:        bpm,
		Loop:       loop,
		OnNote: func(i int) {
			if p.run.Load() == run {
				p.note.Store(int32(i))
			}
		},
	}
	finished := beep.Callback(func() {
		if p.run.Load() == run {
			p.playing.Store(false)
			p.note.Store(-1)
		}
	})

	var stream beep.Streamer
	if loop {
		stream = beep.Iterate(func() beep.Streamer {
			return Sequence(notes, opts, cfg)
		})
	} else {
		stream = beep.Seq(Sequence(notes, opts, cfg), finished)
	}

	ctrl := &beep.Ctrl{Streamer: stream}
	p.current = ctrl
	p.playing.Store(true)

	speaker.Lock()
	p.mixer.Add(ctrl)
	speaker.Unlock()
	return nil
}

// Stop silences running playback
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	p.run.Add(1)
	p.playing.Store(false)
	p.note.Store(-1)

	if !p.initialized {
		p.current = nil
		return
	}

	speaker.Lock()
	if p.current != nil {
		p.current.Paused = true
		p.current.Streamer = nil
	}
	p.mixer.Clear()
	speaker.Unlock()
	p.current = nil
}

// IsPlaying reports whether a sequence is sounding
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}

// CurrentNote returns the index of the sounding note, -1 when idle
func (p *Player) CurrentNote() int {
	return int(p.note.Load())
}

// Meter analyzes the most recent output block
func (p *Player) Meter() Analysis {
	return p.meter.analysis()
}

// Close stops playback and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.stopLocked()
	speaker.Close()
	p.initialized = false
}
