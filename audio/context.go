package audio

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// RenderQuantum is the number of frames rendered per graph pull.
const RenderQuantum = 128

var (
	// ErrSampleRate is returned for a non-positive or non-finite sample rate.
	ErrSampleRate = errors.New("audio: sample rate must be > 0")
	// ErrFFTSize is returned for an analyser size that is not a power of two in [32, 32768].
	ErrFFTSize = errors.New("audio: fft size must be a power of two in [32, 32768]")
)

type config struct {
	sampleRate float64
	fftSize    int
}

// Option configures a Context.
type Option func(*config)

// WithSampleRate sets the rendering sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) {
		cfg.sampleRate = sampleRate
	}
}

// WithFFTSize sets the analysis window length used by analysers.
func WithFFTSize(n int) Option {
	return func(cfg *config) {
		cfg.fftSize = n
	}
}

// Context is the audio clock and owner of a node graph.
type Context struct {
	mu       sync.Mutex
	renderMu sync.Mutex

	sampleRate float64
	fftSize    int
	plan       *algofft.Plan[complex128]

	frame   int64
	quantum int64
	closed  bool
	dest    *Destination
	timers  []*Timer
	seq     uint64

	block []float64
	pos   int
}

// NewContext creates a Context. The FFT plan shared by all analysers is
// built here, so a Context that cannot analyse audio fails once, up front.
func NewContext(opts ...Option) (*Context, error) {
	cfg := config{sampleRate: 48000, fftSize: 2048}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.sampleRate <= 0 || math.IsNaN(cfg.sampleRate) || math.IsInf(cfg.sampleRate, 0) {
		return nil, fmt.Errorf("%w: %f", ErrSampleRate, cfg.sampleRate)
	}

	if cfg.fftSize < 32 || cfg.fftSize > 32768 || cfg.fftSize&(cfg.fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrFFTSize, cfg.fftSize)
	}

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("audio: init fft plan: %w", err)
	}

	c := &Context{
		sampleRate: cfg.sampleRate,
		fftSize:    cfg.fftSize,
		plan:       plan,
		block:      make([]float64, RenderQuantum),
		pos:        RenderQuantum,
	}
	c.dest = &Destination{}
	c.dest.init(c, c.dest)

	return c, nil
}

// SampleRate returns the rendering sample rate in Hz.
func (c *Context) SampleRate() float64 {
	return c.sampleRate
}

// FFTSize returns the analysis window length of analysers in this Context.
func (c *Context) FFTSize() int {
	return c.fftSize
}

// CurrentTime returns the audio clock in seconds: the start time of the
// next quantum to be rendered.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now()
}

// Destination returns the final node of the graph.
func (c *Context) Destination() *Destination {
	return c.dest
}

// Render fills dst with mono samples clamped to [-1, 1] and advances the
// clock. It renders silence once the Context is closed.
func (c *Context) Render(dst []float32) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	for len(dst) > 0 {
		if c.pos >= len(c.block) {
			c.renderQuantum()
			c.pos = 0
		}

		n := min(len(dst), len(c.block)-c.pos)
		for i, v := range c.block[c.pos : c.pos+n] {
			dst[i] = float32(clamp(v, -1, 1))
		}

		c.pos += n
		dst = dst[n:]
	}
}

// RenderSeconds renders and discards audio until the clock has advanced by
// at least seconds. It drives the clock when no device is attached.
func (c *Context) RenderSeconds(seconds float64) {
	frames := int(math.Ceil(seconds * c.sampleRate))
	buf := make([]float32, RenderQuantum)
	for frames > 0 {
		n := min(frames, len(buf))
		c.Render(buf[:n])
		frames -= n
	}
}

// Close stops rendering and drops pending timers.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, t := range c.timers {
		t.active = false
	}
	c.timers = nil
}

func (c *Context) renderQuantum() {
	c.mu.Lock()

	if c.closed {
		clear(c.block)
		c.mu.Unlock()

		return
	}

	c.quantum++
	out := c.dest.pull(c.quantum, c.frame)
	copy(c.block, out)
	c.frame += RenderQuantum
	due := c.collectDue()

	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *Context) now() float64 {
	return float64(c.frame) / c.sampleRate
}

// frameAt converts a clock time in seconds to a frame index, never earlier
// than the current frame.
func (c *Context) frameAt(when float64) int64 {
	f := int64(math.Round(when * c.sampleRate))
	if f < c.frame || math.IsNaN(when) {
		return c.frame
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Timer is a callback scheduled on the audio clock.
type Timer struct {
	c      *Context
	due    int64
	seq    uint64
	f      func()
	active bool
}

// AfterFunc schedules f to run once the clock has advanced by delay
// seconds. f runs on the rendering goroutine.
func (c *Context) AfterFunc(delay float64, f func()) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}

	c.seq++
	t := &Timer{
		c:      c,
		due:    c.frame + int64(math.Ceil(delay*c.sampleRate)),
		seq:    c.seq,
		f:      f,
		active: !c.closed,
	}
	if t.active {
		c.timers = append(c.timers, t)
	}

	return t
}

// Stop cancels the timer. It reports whether the call prevented f from running.
func (t *Timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	if !t.active {
		return false
	}

	t.active = false
	for i, other := range t.c.timers {
		if other == t {
			t.c.timers = append(t.c.timers[:i], t.c.timers[i+1:]...)
			break
		}
	}

	return true
}

// PendingTimers returns the number of timers that have not fired or been stopped.
func (c *Context) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.timers)
}

func (c *Context) collectDue() []*Timer {
	var due []*Timer

	keep := c.timers[:0]
	for _, t := range c.timers {
		if t.due <= c.frame {
			t.active = false
			due = append(due, t)
			continue
		}
		keep = append(keep, t)
	}
	clear(c.timers[len(keep):])
	c.timers = keep

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})

	return due
}
