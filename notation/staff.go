package notation

import (
	"strings"

	"github.com/lixenwraith/tonerow/core"
)

// TimeSignature is fixed: one measure of twelve eighth notes
const TimeSignature = "12/8"

// Layout
const (
	staffLines  = 5
	topLinePos  = (staffLines - 1) * 2 // Staff positions: 0 = bottom line, 8 = top line
	middleLine  = 4
	stemLength  = 3
	clefX       = 2
	meterX      = 4
	firstNoteX  = 8
	noteSlot    = 4 // accidental, head, two blank
	trailingPad = 2
)

// Bottom line of each clef as a diatonic step: treble E4, bass G2
var clefBottom = map[core.Clef]int{
	core.ClefTreble: 4*7 + 2,
	core.ClefBass:   2*7 + 4,
}

// CellKind classifies a grid cell for styling
type CellKind uint8

const (
	KindEmpty CellKind = iota
	KindStaffLine
	KindLedger
	KindClef
	KindMeter
	KindBar
	KindAccidental
	KindNoteHead
	KindStem
)

// Cell is one terminal cell of the rendered staff
type Cell struct {
	Rune rune
	Kind CellKind
	Note int // Index of the owning note, -1 for staff furniture
}

// Staff is a rendered measure
type Staff struct {
	Clef   core.Clef
	Keys   []Key
	Marks  []AccidentalMark // Printed accidental per note after ApplyAccidentals
	Width  int
	Height int

	cells []Cell
	headX []int
	headY []int
}

type placed struct {
	x, pos int
	cell   Cell
}

// Render lays out keys on a staff with the given clef
func Render(keys []string, clef core.Clef) (*Staff, error) {
	parsed := make([]Key, len(keys))
	for i, s := range keys {
		k, err := ParseKey(s)
		if err != nil {
			return nil, err
		}
		parsed[i] = k
	}

	bottom, ok := clefBottom[clef]
	if !ok {
		bottom = clefBottom[core.ClefTreble]
	}

	marks := ApplyAccidentals(parsed)
	width := firstNoteX + len(parsed)*noteSlot + trailingPad
	var items []placed

	// Staff lines
	for line := 0; line < staffLines; line++ {
		for x := 0; x < width; x++ {
			items = append(items, placed{x, line * 2, Cell{'─', KindStaffLine, -1}})
		}
	}

	// Clef
	if clef == core.ClefBass {
		items = append(items,
			placed{clefX, 6, Cell{'?', KindClef, -1}},
			placed{clefX + 1, 6, Cell{':', KindClef, -1}},
		)
	} else {
		items = append(items, placed{clefX, 2, Cell{'&', KindClef, -1}})
	}

	// Time signature
	num, den, _ := strings.Cut(TimeSignature, "/")
	for i, r := range num {
		items = append(items, placed{meterX + i, 6, Cell{r, KindMeter, -1}})
	}
	for i, r := range den {
		items = append(items, placed{meterX + i, 2, Cell{r, KindMeter, -1}})
	}

	headX := make([]int, len(parsed))
	headPos := make([]int, len(parsed))
	for i, k := range parsed {
		x := firstNoteX + i*noteSlot + 1
		pos := k.DiatonicStep() - bottom
		headX[i] = x
		headPos[i] = pos

		// Ledger lines on even positions outside the staff
		for lp := -2; lp >= pos; lp -= 2 {
			items = append(items, ledger(x, lp, i)...)
		}
		for lp := topLinePos + 2; lp <= pos; lp += 2 {
			items = append(items, ledger(x, lp, i)...)
		}

		if r := markRune(marks[i]); r != 0 {
			items = append(items, placed{x - 1, pos, Cell{r, KindAccidental, i}})
		}

		// Stem up below the middle line, down otherwise
		dir := 1
		if pos >= middleLine {
			dir = -1
		}
		for s := 1; s <= stemLength; s++ {
			items = append(items, placed{x, pos + dir*s, Cell{'│', KindStem, i}})
		}

		items = append(items, placed{x, pos, Cell{'●', KindNoteHead, i}})
	}

	// Final double bar
	for pos := 0; pos <= topLinePos; pos++ {
		items = append(items,
			placed{width - 2, pos, Cell{'│', KindBar, -1}},
			placed{width - 1, pos, Cell{'┃', KindBar, -1}},
		)
	}

	minPos, maxPos := 0, topLinePos
	for _, it := range items {
		minPos = min(minPos, it.pos)
		maxPos = max(maxPos, it.pos)
	}

	st := &Staff{
		Clef:   clef,
		Keys:   parsed,
		Marks:  marks,
		Width:  width,
		Height: maxPos - minPos + 1,
		headX:  headX,
		headY:  make([]int, len(parsed)),
	}
	st.cells = make([]Cell, st.Width*st.Height)
	for i := range st.cells {
		st.cells[i] = Cell{' ', KindEmpty, -1}
	}
	for _, it := range items {
		y := maxPos - it.pos
		st.cells[y*st.Width+it.x] = it.cell
	}
	for i, p := range headPos {
		st.headY[i] = maxPos - p
	}
	return st, nil
}

func ledger(x, pos, note int) []placed {
	return []placed{
		{x - 1, pos, Cell{'─', KindLedger, note}},
		{x, pos, Cell{'─', KindLedger, note}},
		{x + 1, pos, Cell{'─', KindLedger, note}},
	}
}

func markRune(m AccidentalMark) rune {
	switch m {
	case MarkSharp:
		return '♯'
	case MarkFlat:
		return '♭'
	case MarkNatural:
		return '♮'
	}
	return 0
}

// Cell returns the cell at x,y; out of range returns an empty cell
func (s *Staff) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return Cell{' ', KindEmpty, -1}
	}
	return s.cells[y*s.Width+x]
}

// NoteHead returns the grid position of note i
func (s *Staff) NoteHead(i int) (x, y int, ok bool) {
	if i < 0 || i >= len(s.headX) {
		return 0, 0, false
	}
	return s.headX[i], s.headY[i], true
}

// Lines returns the staff as plain text, trailing spaces trimmed
func (s *Staff) Lines() []string {
	out := make([]string, s.Height)
	var sb strings.Builder
	for y := 0; y < s.Height; y++ {
		sb.Reset()
		for x := 0; x < s.Width; x++ {
			sb.WriteRune(s.cells[y*s.Width+x].Rune)
		}
		out[y] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

func (s *Staff) String() string {
	return strings.Join(s.Lines(), "\n")
}
