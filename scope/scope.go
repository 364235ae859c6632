// Package scope feeds the live analysis tap to a drawing surface once per
// frame.
package scope

import (
	"context"
	"errors"
	"time"

	"github.com/cwbudde/algo-tonelab/audio"
)

// ErrInterval is returned by Run for a non-positive frame interval.
var ErrInterval = errors.New("scope: frame interval must be positive")

// Source supplies the current analysis tap, or nil when nothing plays.
type Source interface {
	Analyser() *audio.Analyser
}

// Frame is one visualizer frame. Both slices have the analyser's bin
// count. Waveform bytes are centred at 128; Spectrum bytes span [0, 255].
// The slices are reused by the next Tick.
type Frame struct {
	Waveform []byte
	Spectrum []byte
}

// Surface draws frames.
type Surface interface {
	Draw(Frame)
	Clear()
}

// Feed copies analyser data into a Surface.
type Feed struct {
	src   Source
	surf  Surface
	frame Frame
}

// NewFeed creates a feed from src to surf.
func NewFeed(src Source, surf Surface) *Feed {
	return &Feed{src: src, surf: surf}
}

// Tick draws one frame, or clears the surface when src has no analyser.
// It reports whether a frame was drawn.
func (f *Feed) Tick() bool {
	a := f.src.Analyser()
	if a == nil {
		f.surf.Clear()
		return false
	}

	n := a.FrequencyBinCount()
	if len(f.frame.Waveform) != n {
		f.frame = Frame{Waveform: make([]byte, n), Spectrum: make([]byte, n)}
	}
	a.ByteTimeDomainData(f.frame.Waveform)
	a.ByteFrequencyData(f.frame.Spectrum)
	f.surf.Draw(f.frame)

	return true
}

// Run ticks every interval until ctx is cancelled and returns ctx.Err().
func (f *Feed) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.Tick()
		}
	}
}

// Trace converts waveform bytes to samples in [-1, 1) as b/128 - 1.
// dst is grown as needed and returned.
func Trace(dst []float64, b []byte) []float64 {
	dst = resize(dst, len(b))
	for i, v := range b {
		dst[i] = float64(v)/128 - 1
	}
	return dst
}

// Bars converts spectrum bytes to heights in [0, 1] as b/255.
func Bars(dst []float64, b []byte) []float64 {
	dst = resize(dst, len(b))
	for i, v := range b {
		dst[i] = float64(v) / 255
	}
	return dst
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
