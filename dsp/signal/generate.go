package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// Generator creates periodic and noise buffers at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed used for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator for sampleRate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("generator sample rate must be > 0: %f", sampleRate)
	}
	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 {
	return g.sampleRate
}

// Seed returns the seed the next noise buffer will use.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSeed replaces the noise seed.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
}

// Periodic renders samples of shape s at freqHz, starting at phase 0.
func (g *Generator) Periodic(s Shape, freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("periodic samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := freqHz / g.sampleRate
	phase := 0.0
	for i := range out {
		out[i] = amplitude * s.At(phase)
		phase = WrapPhase(phase + step)
	}
	return out, nil
}

// WhiteNoise generates uniform noise in [-amplitude, amplitude].
// Every call advances the seed, so consecutive buffers differ while a
// generator built with the same seed reproduces the same sequence.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	g.seed++
	return out, nil
}

// NoiseSeconds generates a full-scale white noise buffer lasting seconds.
func (g *Generator) NoiseSeconds(seconds float64) ([]float64, error) {
	n := int(math.Round(seconds * g.sampleRate))
	return g.WhiteNoise(1, n)
}
