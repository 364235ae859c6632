package audio

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-tonelab/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// ErrDecibelRange is returned when an analyser dB range is empty or inverted.
var ErrDecibelRange = errors.New("audio: analyser min dB must be below max dB")

const (
	defaultSmoothing = 0.8
	defaultMinDB     = -100.0
	defaultMaxDB     = -30.0
)

// Analyser passes audio through unchanged and keeps the most recent
// FFTSize frames for time-domain and frequency-domain inspection.
type Analyser struct {
	node

	size  int
	ring  []float64
	write int

	window   []float64
	ordered  []float64
	fftIn    []complex128
	fftOut   []complex128
	re, im   []float64
	mag      []float64
	smoothed []float64

	smoothing    float64
	minDB, maxDB float64
}

// NewAnalyser creates an analyser with the Context's FFT size, a Blackman
// window, 0.8 smoothing and a [-100, -30] dB byte range.
func (c *Context) NewAnalyser() *Analyser {
	n := c.fftSize
	bins := n / 2
	w, _ := window.Blackman(n, window.WithPeriodic())
	a := &Analyser{
		size:      n,
		ring:      make([]float64, n),
		window:    w,
		ordered:   make([]float64, n),
		fftIn:     make([]complex128, n),
		fftOut:    make([]complex128, n),
		re:        make([]float64, bins),
		im:        make([]float64, bins),
		mag:       make([]float64, bins),
		smoothed:  make([]float64, bins),
		smoothing: defaultSmoothing,
		minDB:     defaultMinDB,
		maxDB:     defaultMaxDB,
	}
	a.init(c, a)
	return a
}

// FFTSize returns the analysis window length in frames.
func (a *Analyser) FFTSize() int {
	return a.size
}

// FrequencyBinCount returns FFTSize/2, the length of frequency data.
func (a *Analyser) FrequencyBinCount() int {
	return a.size / 2
}

// SetSmoothing sets the spectral averaging constant, clamped to [0, 1).
func (a *Analyser) SetSmoothing(v float64) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.smoothing = clamp(v, 0, 0.99)
}

// SetDecibelRange sets the dB range mapped onto byte frequency data.
func (a *Analyser) SetDecibelRange(minDB, maxDB float64) error {
	if !(minDB < maxDB) {
		return ErrDecibelRange
	}

	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.minDB, a.maxDB = minDB, maxDB
	return nil
}

// ByteTimeDomainData copies the oldest min(len(dst), FFTSize) frames of
// the window as bytes centred at 128 (128*(1+x), clamped to [0, 255]).
// It returns the number of bytes written.
func (a *Analyser) ByteTimeDomainData(dst []byte) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	n := min(len(dst), a.size)
	a.order()
	for i, x := range a.ordered[:n] {
		dst[i] = byte(clamp(math.Floor(128*(1+x)), 0, 255))
	}
	return n
}

// FloatTimeDomainData copies the oldest min(len(dst), FFTSize) frames.
func (a *Analyser) FloatTimeDomainData(dst []float64) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.order()
	return copy(dst, a.ordered)
}

// ByteFrequencyData computes the smoothed spectrum of the current window
// and writes it as bytes scaled linearly from the min dB (0) to the max dB
// (255). It returns the number of bytes written.
func (a *Analyser) ByteFrequencyData(dst []byte) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.analyse()

	n := min(len(dst), len(a.smoothed))
	scale := 255 / (a.maxDB - a.minDB)
	for i, m := range a.smoothed[:n] {
		db := toDB(m)
		dst[i] = byte(clamp(math.Floor(scale*(db-a.minDB)), 0, 255))
	}
	return n
}

// FloatFrequencyData computes the smoothed spectrum in dB.
func (a *Analyser) FloatFrequencyData(dst []float64) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.analyse()

	n := min(len(dst), len(a.smoothed))
	for i, m := range a.smoothed[:n] {
		dst[i] = toDB(m)
	}
	return n
}

func (a *Analyser) process(_, _ int64, in, out []float64) {
	copy(out, in)
	for _, x := range in {
		a.ring[a.write] = x
		a.write++
		if a.write == a.size {
			a.write = 0
		}
	}
}

// order unrolls the ring so ordered[0] is the oldest frame.
func (a *Analyser) order() {
	k := copy(a.ordered, a.ring[a.write:])
	copy(a.ordered[k:], a.ring[:a.write])
}

func (a *Analyser) analyse() {
	a.order()
	_ = window.Apply(a.ordered, a.window)
	for i, x := range a.ordered {
		a.fftIn[i] = complex(x, 0)
	}

	if err := a.ctx.plan.Forward(a.fftOut, a.fftIn); err != nil {
		return
	}

	for k := range a.re {
		a.re[k] = real(a.fftOut[k])
		a.im[k] = imag(a.fftOut[k])
	}
	vecmath.Magnitude(a.mag, a.re, a.im)

	norm := 1 / float64(a.size)
	tau := a.smoothing
	for k, m := range a.mag {
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*m*norm
	}
}

func toDB(m float64) float64 {
	if m <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(m)
}
