package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tonerow/notation"
)

var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background
	RgbStaffLine  = tcell.NewRGBColor(120, 120, 130)
	RgbLedger     = tcell.NewRGBColor(160, 160, 170)
	RgbClef       = tcell.NewRGBColor(140, 190, 255)
	RgbMeter      = tcell.NewRGBColor(140, 190, 255)
	RgbBar        = tcell.NewRGBColor(200, 200, 200)
	RgbAccidental = tcell.NewRGBColor(255, 165, 0)
	RgbNote       = tcell.NewRGBColor(255, 255, 255)
	RgbNoteActive = tcell.NewRGBColor(50, 255, 50) // Sounding note
	RgbRowNames   = tcell.NewRGBColor(180, 180, 180)
	RgbTitle      = tcell.NewRGBColor(255, 255, 0)
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)
	RgbStatusBg   = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbPlayingBg  = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbPromptBg   = tcell.NewRGBColor(128, 0, 128)   // Dark purple
	RgbPromptText = tcell.NewRGBColor(255, 255, 255)
	RgbMessage    = tcell.NewRGBColor(255, 80, 80)
	RgbMeterLevel = tcell.NewRGBColor(0, 200, 200)
	RgbHelpText   = tcell.NewRGBColor(120, 120, 130)
)

// styleForCell returns the style of a staff cell; active marks the sounding note
func styleForCell(cell notation.Cell, active bool) tcell.Style {
	base := tcell.StyleDefault.Background(RgbBackground)

	if active && cell.Note >= 0 {
		switch cell.Kind {
		case notation.KindNoteHead, notation.KindStem, notation.KindAccidental:
			return base.Foreground(RgbNoteActive).Bold(true)
		}
	}

	switch cell.Kind {
	case notation.KindStaffLine:
		return base.Foreground(RgbStaffLine)
	case notation.KindLedger:
		return base.Foreground(RgbLedger)
	case notation.KindClef:
		return base.Foreground(RgbClef).Bold(true)
	case notation.KindMeter:
		return base.Foreground(RgbMeter).Bold(true)
	case notation.KindBar:
		return base.Foreground(RgbBar)
	case notation.KindAccidental:
		return base.Foreground(RgbAccidental)
	case notation.KindNoteHead, notation.KindStem:
		return base.Foreground(RgbNote)
	default:
		return base
	}
}
