package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lixenwraith/tonerow/audio"
	"github.com/lixenwraith/tonerow/config"
	"github.com/lixenwraith/tonerow/core"
	"github.com/lixenwraith/tonerow/logging"
	"github.com/lixenwraith/tonerow/notation"
	"github.com/lixenwraith/tonerow/status"
	"github.com/lixenwraith/tonerow/tonerow"
)

const rowHeader = "X-Tone-Row"

var (
	errBadFlats = errors.New("flats must be a boolean")
	errBadClef  = errors.New("clef must be treble or bass")
)

// RowResponse describes one generated row for the browser page
type RowResponse struct {
	Row      []string `json:"row"`
	Keys     []string `json:"keys"`
	Playback []string `json:"playback"`
	Staff    []string `json:"staff"`
	Clef     string   `json:"clef"`
	Time     string   `json:"time"`
}

// KeysRequest asks for display keys of a client-held row
type KeysRequest struct {
	Row   []string `json:"row" binding:"required"`
	Flats bool     `json:"flats"`
}

// KeysResponse carries display keys in row order
type KeysResponse struct {
	Keys []string `json:"keys"`
}

// RenderRequest asks for one pass of a row as WAV. Missing fields fall back
// to the server config; a missing row generates one
type RenderRequest struct {
	Row        []string `json:"row"`
	Instrument string   `json:"instrument"`
	BPM        int      `json:"bpm"`
}

// Handler serves the tone-row API
type Handler struct {
	cfg   *config.Config
	stats *status.Registry

	rowsGenerated  *atomic.Int64
	keysMapped     *atomic.Int64
	rendersDone    *atomic.Int64
	rendersFailed  *atomic.Int64
	rejected       *atomic.Int64
	renderLastMs   *status.AtomicFloat
	renderMaxMs    *status.AtomicFloat
	lastRow        *status.AtomicString
	lastInstrument *status.AtomicString
}

// NewHandler creates a handler using cfg for request defaults and stats for
// counters; a nil stats gets a private registry
func NewHandler(cfg *config.Config, stats *status.Registry) *Handler {
	if stats == nil {
		stats = status.NewRegistry()
	}
	return &Handler{
		cfg:            cfg,
		stats:          stats,
		rowsGenerated:  stats.Ints.Get("rows.generated"),
		keysMapped:     stats.Ints.Get("keys.mapped"),
		rendersDone:    stats.Ints.Get("renders.completed"),
		rendersFailed:  stats.Ints.Get("renders.failed"),
		rejected:       stats.Ints.Get("requests.rejected"),
		renderLastMs:   stats.Floats.Get("render.last_ms"),
		renderMaxMs:    stats.Floats.Get("render.max_ms"),
		lastRow:        stats.Strings.Get("row.last"),
		lastInstrument: stats.Strings.Get("render.last_instrument"),
	}
}

// Status reports the request counters
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.stats.Snapshot()})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GenerateRow creates a fresh row and its staff
func (h *Handler) GenerateRow(c *gin.Context) {
	acc := h.cfg.Accidental()
	if v := c.Query("flats"); v != "" {
		flats, err := strconv.ParseBool(v)
		if err != nil {
			h.badRequest(c, errBadFlats)
			return
		}
		acc = core.AccidentalFromFlag(flats)
	}

	clef := h.cfg.Clef()
	if v := c.Query("clef"); v != "" {
		var ok bool
		if clef, ok = core.ParseClef(v); !ok {
			h.badRequest(c, errBadClef)
			return
		}
	}

	row := tonerow.New()
	h.rowsGenerated.Add(1)
	h.lastRow.Store(row.String())
	keys := row.DisplayKeys(acc)
	staff, err := notation.Render(keys, clef)
	if err != nil {
		logging.Error("Staff render failed", err, logging.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "staff render failed"})
		return
	}

	c.JSON(http.StatusOK, RowResponse{
		Row:      row.Names(),
		Keys:     keys,
		Playback: row.PlaybackNames(),
		Staff:    staff.Lines(),
		Clef:     clef.String(),
		Time:     notation.TimeSignature,
	})
}

// Keys maps a posted row to display keys
func (h *Handler) Keys(c *gin.Context) {
	var req KeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	row, err := tonerow.ParseRow(req.Row)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	h.keysMapped.Add(1)
	c.JSON(http.StatusOK, KeysResponse{Keys: row.DisplayKeys(core.AccidentalFromFlag(req.Flats))})
}

// Render synthesizes one pass of a row and returns it as audio/wav
func (h *Handler) Render(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	row := tonerow.New()
	if len(req.Row) > 0 {
		parsed, err := tonerow.ParseRow(req.Row)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		row = parsed
	}

	inst := h.cfg.Instrument()
	if req.Instrument != "" {
		var ok bool
		if inst, ok = core.ParseInstrument(req.Instrument); !ok {
			h.badRequest(c, fmt.Errorf("%w: %q", config.ErrInvalidInstrument, req.Instrument))
			return
		}
	}

	bpm := h.cfg.Playback.BPM
	if req.BPM != 0 {
		if req.BPM < audio.MinBPM || req.BPM > audio.MaxBPM {
			h.badRequest(c, fmt.Errorf("%w: %d", config.ErrInvalidBPM, req.BPM))
			return
		}
		bpm = req.BPM
	}

	start := time.Now()
	data, err := h.renderWAV(row, inst, bpm)
	if err != nil {
		h.rendersFailed.Add(1)
		logging.Error("WAV render failed", err, logging.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	h.rendersDone.Add(1)
	h.renderLastMs.Set(elapsed)
	h.renderMaxMs.Max(elapsed)
	h.lastRow.Store(row.String())
	h.lastInstrument.Store(inst.String())

	fields := logging.WithContext(c)
	fields["render_ms"] = elapsed
	fields["instrument"] = inst.String()
	fields["bpm"] = bpm
	fields["bytes"] = len(data)
	logging.Info("Row rendered", fields)

	c.Header(rowHeader, row.String())
	c.Data(http.StatusOK, "audio/wav", data)
}

// renderWAV encodes through a temp file since the encoder needs to seek
func (h *Handler) renderWAV(row tonerow.Row, inst core.Instrument, bpm int) ([]byte, error) {
	f, err := os.CreateTemp("", "tonerow-*.wav")
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())

	opts := audio.SequenceOptions{Instrument: inst, BPM: bpm}
	if err := audio.EncodeWAV(f, row.MIDINotes(), opts, h.cfg.AudioConfig()); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.Name())
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.rejected.Add(1)
	c.JSON(http.StatusBadRequest, gin.H{"error": strings.TrimSpace(err.Error())})
}
