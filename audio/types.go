package audio

import (
	"errors"
	"time"
)

// Tempo defaults follow the browser demo: unset or unparsable BPM plays at 120
const (
	DefaultBPM = 120
	MinBPM     = 20
	MaxBPM     = 400
)

// NoteGate is how long each note is held before release: an eighth note at
// the default 120 BPM transport. The BPM setting only spaces the notes
const NoteGate = 250 * time.Millisecond

// Speaker buffer
const defaultBufferDuration = 100 * time.Millisecond

// Sentinel errors
var (
	ErrNotInitialized = errors.New("audio output not initialized")
	ErrEmptySequence  = errors.New("no notes to play")
)
