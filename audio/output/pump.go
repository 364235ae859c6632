package output

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrPeriod is returned when a Pump period is not positive.
var ErrPeriod = errors.New("output: pump period must be positive")

// Renderer is the part of audio.Context a Pump drives.
type Renderer interface {
	Render(dst []float32)
	SampleRate() float64
}

// Pump renders a Renderer at wall-clock speed and discards the samples.
type Pump struct {
	src    Renderer
	period time.Duration
	buf    []float32

	rendered int64
}

// NewPump creates a pump that renders once per period.
func NewPump(src Renderer, period time.Duration) (*Pump, error) {
	if period <= 0 {
		return nil, ErrPeriod
	}

	return &Pump{src: src, period: period}, nil
}

// Rendered returns the number of frames rendered so far.
func (p *Pump) Rendered() int64 {
	return p.rendered
}

// Advance renders the frames owed for elapsed wall time since the pump
// started and returns how many were rendered.
func (p *Pump) Advance(elapsed time.Duration) int {
	want := int64(math.Round(elapsed.Seconds() * p.src.SampleRate()))
	n := int(want - p.rendered)
	if n <= 0 {
		return 0
	}

	if cap(p.buf) < n {
		p.buf = make([]float32, n)
	}
	p.src.Render(p.buf[:n])
	p.rendered += int64(n)

	return n
}

// Run advances the renderer every period until ctx is cancelled and
// returns ctx.Err().
func (p *Pump) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			p.Advance(now.Sub(start))
		}
	}
}
