package tone

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-tonelab/dsp/filter/biquad"
	"github.com/cwbudde/algo-tonelab/dsp/signal"
)

// Parameter ranges.
const (
	MinFrequency       = 0.5
	MaxFrequency       = 1000.0
	MaxModFrequency    = 50.0
	MinFilterFrequency = 20.0
	MaxFilterFrequency = 20000.0
	MaxEnvelopeSeconds = 10.0
)

// ErrFrequency is returned for a tone frequency outside
// [MinFrequency, MaxFrequency].
var ErrFrequency = errors.New("tone: frequency out of range")

// FilterType selects the filter response. FilterNone leaves the signal
// unfiltered.
type FilterType int

const (
	FilterNone FilterType = iota
	FilterLowpass
	FilterHighpass
	FilterBandpass
	FilterNotch
	FilterAllpass
	FilterLowShelf
	FilterHighShelf
	FilterPeaking
)

var filterBiquads = [...]biquad.Type{
	FilterLowpass:   biquad.Lowpass,
	FilterHighpass:  biquad.Highpass,
	FilterBandpass:  biquad.Bandpass,
	FilterNotch:     biquad.Notch,
	FilterAllpass:   biquad.Allpass,
	FilterLowShelf:  biquad.LowShelf,
	FilterHighShelf: biquad.HighShelf,
	FilterPeaking:   biquad.Peaking,
}

func (f FilterType) valid() bool {
	return f >= FilterNone && int(f) < len(filterBiquads)
}

// Biquad returns the section type for f, or false for FilterNone.
func (f FilterType) Biquad() (biquad.Type, bool) {
	if f == FilterNone || !f.valid() {
		return 0, false
	}
	return filterBiquads[f], true
}

// String returns the lower-case name, "none" for FilterNone.
func (f FilterType) String() string {
	if f == FilterNone {
		return "none"
	}
	if t, ok := f.Biquad(); ok {
		return t.String()
	}
	return fmt.Sprintf("FilterType(%d)", int(f))
}

// ParseFilterType maps "none" or a biquad type name to a FilterType.
func ParseFilterType(name string) (FilterType, error) {
	if strings.EqualFold(strings.TrimSpace(name), "none") {
		return FilterNone, nil
	}

	t, err := biquad.ParseType(name)
	if err != nil {
		return FilterNone, fmt.Errorf("tone: %w", err)
	}
	for f, bt := range filterBiquads {
		if f != int(FilterNone) && bt == t {
			return FilterType(f), nil
		}
	}
	return FilterNone, fmt.Errorf("tone: unknown filter type %q", name)
}

// ParseWaveform maps a waveform name to its shape.
func ParseWaveform(name string) (signal.Shape, error) {
	s, err := signal.ParseShape(name)
	if err != nil {
		return 0, fmt.Errorf("tone: %w", err)
	}
	return s, nil
}

// Parameters is a snapshot of every user-controlled tone setting.
type Parameters struct {
	Frequency       float64 // Hz
	Waveform        signal.Shape
	Volume          float64 // [0, 1]
	ModFrequency    float64 // Hz
	ModDepth        float64 // [0, 1]
	FilterType      FilterType
	FilterFrequency float64 // Hz
	Attack          float64 // seconds
	Decay           float64 // seconds
	NoiseEnabled    bool
}

// Default returns the initial settings: a 440 Hz sine at half volume,
// 5 Hz modulation with zero depth, no filter, 0.1 s attack, 0.2 s decay
// and no noise.
func Default() Parameters {
	return Parameters{
		Frequency:       440,
		Waveform:        signal.ShapeSine,
		Volume:          0.5,
		ModFrequency:    5,
		ModDepth:        0,
		FilterType:      FilterNone,
		FilterFrequency: 1000,
		Attack:          0.1,
		Decay:           0.2,
	}
}

// ValidFrequency reports whether f is an accepted tone frequency.
func ValidFrequency(f float64) bool {
	return f >= MinFrequency && f <= MaxFrequency
}

// WithFrequency returns p with a new frequency. Out-of-range or NaN
// values are rejected with ErrFrequency and p is returned unchanged.
func (p Parameters) WithFrequency(f float64) (Parameters, error) {
	if !ValidFrequency(f) {
		return p, fmt.Errorf("%w: %g Hz", ErrFrequency, f)
	}
	p.Frequency = f
	return p, nil
}

// WithWaveform returns p with a new waveform.
func (p Parameters) WithWaveform(s signal.Shape) Parameters {
	p.Waveform = s
	return p
}

// WithVolume returns p with the volume clamped to [0, 1].
func (p Parameters) WithVolume(v float64) Parameters {
	p.Volume = clamp(v, 0, 1)
	return p
}

// WithModulation returns p with new modulation rate and depth, clamped to
// [0, MaxModFrequency] and [0, 1].
func (p Parameters) WithModulation(freq, depth float64) Parameters {
	p.ModFrequency = clamp(freq, 0, MaxModFrequency)
	p.ModDepth = clamp(depth, 0, 1)
	return p
}

// WithFilter returns p with a new filter type and frequency. The frequency
// is clamped to [MinFilterFrequency, MaxFilterFrequency].
func (p Parameters) WithFilter(t FilterType, freq float64) Parameters {
	if t.valid() {
		p.FilterType = t
	}
	p.FilterFrequency = clamp(freq, MinFilterFrequency, MaxFilterFrequency)
	return p
}

// WithEnvelope returns p with attack and decay clamped to
// [0, MaxEnvelopeSeconds].
func (p Parameters) WithEnvelope(attack, decay float64) Parameters {
	p.Attack = clamp(attack, 0, MaxEnvelopeSeconds)
	p.Decay = clamp(decay, 0, MaxEnvelopeSeconds)
	return p
}

// WithNoise returns p with noise enabled or disabled.
func (p Parameters) WithNoise(enabled bool) Parameters {
	p.NoiseEnabled = enabled
	return p
}

// Sanitize forces every field into range, clamping the frequency as well.
// It is used for snapshots that did not come through the With methods.
func (p Parameters) Sanitize() Parameters {
	p.Frequency = clamp(p.Frequency, MinFrequency, MaxFrequency)
	if !p.FilterType.valid() {
		p.FilterType = FilterNone
	}
	p = p.WithVolume(p.Volume).
		WithModulation(p.ModFrequency, p.ModDepth).
		WithFilter(p.FilterType, p.FilterFrequency).
		WithEnvelope(p.Attack, p.Decay)
	return p
}

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
