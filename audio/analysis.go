package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Analysis summarizes a block of mono samples
type Analysis struct {
	RMS        float64
	Peak       float64
	DominantHz float64
}

// Silent reports whether the block carried no meaningful signal
func (a Analysis) Silent() bool {
	return a.Peak < 1e-4
}

// Analyze computes level and the strongest spectral peak of samples
func Analyze(samples []float64, sr beep.SampleRate) Analysis {
	if len(samples) == 0 {
		return Analysis{}
	}

	squares := make([]float64, len(samples))
	floats.MulTo(squares, samples, samples)

	a := Analysis{
		RMS:  math.Sqrt(stat.Mean(squares, nil)),
		Peak: math.Max(floats.Max(samples), -floats.Min(samples)),
	}
	if a.Silent() || len(samples) < 4 {
		return a
	}

	spectrum := fft.FFTReal(samples)
	half := len(spectrum) / 2
	mags := make([]float64, half)
	for k := 1; k < half; k++ {
		mags[k] = cmplx.Abs(spectrum[k])
	}
	bin := floats.MaxIdx(mags)
	a.DominantHz = float64(bin) * float64(sr) / float64(len(samples))
	return a
}

// Collect streams up to n frames from s and returns their mono mixdown
func Collect(s beep.Streamer, n int) []float64 {
	out := make([]float64, 0, n)
	buf := make([][2]float64, 512)
	for len(out) < n {
		want := min(len(buf), n-len(out))
		got, ok := s.Stream(buf[:want])
		for i := 0; i < got; i++ {
			out = append(out, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}
	return out
}

// meterTap passes a stream through and keeps a copy of the last block
type meterTap struct {
	src beep.Streamer
	sr  beep.SampleRate

	mu   sync.Mutex
	last []float64
}

func newMeterTap(src beep.Streamer, sr beep.SampleRate) *meterTap {
	return &meterTap{src: src, sr: sr}
}

func (m *meterTap) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = m.src.Stream(samples)

	m.mu.Lock()
	if cap(m.last) < n {
		m.last = make([]float64, n)
	}
	m.last = m.last[:n]
	for i := 0; i < n; i++ {
		m.last[i] = (samples[i][0] + samples[i][1]) / 2
	}
	m.mu.Unlock()
	return n, ok
}

func (m *meterTap) Err() error { return m.src.Err() }

func (m *meterTap) analysis() Analysis {
	m.mu.Lock()
	block := append([]float64(nil), m.last...)
	m.mu.Unlock()
	return Analyze(block, m.sr)
}
