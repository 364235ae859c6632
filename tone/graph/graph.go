package graph

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-tonelab/audio"
	"github.com/cwbudde/algo-tonelab/dsp/filter/biquad"
	"github.com/cwbudde/algo-tonelab/dsp/signal"
	"github.com/cwbudde/algo-tonelab/tone"
)

const (
	// FadeSeconds is the envelope fade applied by Stop before teardown.
	FadeSeconds = 0.1

	// NoiseLevel is the noise mix gain when noise is enabled.
	NoiseLevel = 0.1

	// SustainRatio is the envelope level after decay, relative to volume.
	SustainRatio = 0.7

	// modScale keeps the frequency deviation proportional to the carrier.
	modScale     = 0.1
	noiseSeconds = 2.0
	filterQ      = 1.0
)

// State is the playback state of a Graph.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

type config struct {
	seed int64
}

// Option configures a Graph.
type Option func(*config)

// WithSeed sets the seed of the noise generator. Each Start draws a new
// noise buffer; graphs with the same seed draw the same sequence.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// Graph owns the live node set of one tone.
type Graph struct {
	mu    sync.Mutex
	ac    *audio.Context
	noise *signal.Generator

	state State
	live  *nodes
}

// New creates a stopped graph rendering into ac.
func New(ac *audio.Context, opts ...Option) (*Graph, error) {
	cfg := config{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	gen, err := signal.NewGenerator(ac.SampleRate(), signal.WithSeed(cfg.seed))
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}

	return &Graph{ac: ac, noise: gen}, nil
}

// State returns the playback state.
func (g *Graph) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Start builds and starts a node set for p. It is a no-op while Playing.
func (g *Graph) Start(p tone.Parameters) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Playing {
		return nil
	}

	noise, err := g.noise.NoiseSeconds(noiseSeconds)
	if err != nil {
		return fmt.Errorf("graph: noise buffer: %w", err)
	}

	n := build(g.ac, p, noise)

	now := g.ac.CurrentTime()
	env := n.env.Gain()
	env.SetValueAtTime(0, now)
	env.LinearRampToValueAtTime(p.Volume, now+p.Attack)
	env.LinearRampToValueAtTime(p.Volume*SustainRatio, now+p.Attack+p.Decay)

	n.osc.Start(now)
	n.lfo.Start(now)
	n.noise.Start(now)

	g.live = n
	g.state = Playing

	return nil
}

// Stop fades the envelope to zero over FadeSeconds and schedules the
// release of the current node set. State changes to Stopped immediately.
// It is a no-op while Stopped.
func (g *Graph) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Playing {
		return
	}

	now := g.ac.CurrentTime()
	env := g.live.env.Gain()
	env.HoldAtCurrent()
	env.LinearRampToValueAtTime(0, now+FadeSeconds)

	outgoing := *g.live
	ac := g.ac
	ac.AfterFunc(FadeSeconds, func() {
		outgoing.release(ac.CurrentTime())
	})

	g.live = nil
	g.state = Stopped
}

// SetFrequency retunes the oscillator at the current time.
func (g *Graph) SetFrequency(freq float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.live == nil {
		return
	}
	g.live.osc.Frequency().SetValueAtTime(freq, g.ac.CurrentTime())
}

// SetWaveform changes the oscillator shape.
func (g *Graph) SetWaveform(s signal.Shape) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.live == nil {
		return
	}
	g.live.osc.SetShape(s)
}

// SetVolume replaces any pending envelope automation with an immediate
// step to v.
func (g *Graph) SetVolume(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.live == nil {
		return
	}
	now := g.ac.CurrentTime()
	env := g.live.env.Gain()
	env.CancelScheduledValues(now)
	env.SetValueAtTime(v, now)
}

// SetModulation sets the modulation rate and recomputes the deviation as
// mainFreq * depth * 0.1 Hz.
func (g *Graph) SetModulation(modFreq, depth, mainFreq float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.live == nil {
		return
	}
	now := g.ac.CurrentTime()
	g.live.lfo.Frequency().SetValueAtTime(modFreq, now)
	g.live.lfoGain.Gain().SetValueAtTime(modGain(mainFreq, depth), now)
}

// SetFilter configures the filter. FilterNone selects an allpass with
// Q = 1, which leaves the magnitude response flat.
func (g *Graph) SetFilter(t tone.FilterType, freq float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.live == nil {
		return
	}
	configureFilter(g.live.filter, t, freq, g.ac.CurrentTime())
}

// SetNoiseEnabled sets the noise mix gain to NoiseLevel or zero.
func (g *Graph) SetNoiseEnabled(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.live == nil {
		return
	}
	g.live.noiseGain.Gain().SetValueAtTime(noiseGain(enabled), g.ac.CurrentTime())
}

// Analyser returns the analysis tap of the live node set, or nil when
// Stopped.
func (g *Graph) Analyser() *audio.Analyser {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.live == nil {
		return nil
	}
	return g.live.analyser
}

// Snapshot describes the live node settings. Values are parameter targets,
// the levels reached once scheduled automation completes.
type Snapshot struct {
	Live            bool
	Frequency       float64
	Waveform        signal.Shape
	Volume          float64
	Level           float64 // current envelope gain
	ModFrequency    float64
	ModGain         float64
	FilterType      biquad.Type
	FilterFrequency float64
	FilterQ         float64
	NoiseGain       float64
}

// Snapshot reads the live node settings. Live is false when Stopped.
func (g *Graph) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.live
	if n == nil {
		return Snapshot{}
	}

	return Snapshot{
		Live:            true,
		Frequency:       n.osc.Frequency().Target(),
		Waveform:        n.osc.Shape(),
		Volume:          n.env.Gain().Target(),
		Level:           n.env.Gain().Value(),
		ModFrequency:    n.lfo.Frequency().Target(),
		ModGain:         n.lfoGain.Gain().Target(),
		FilterType:      n.filter.Type(),
		FilterFrequency: n.filter.Frequency().Target(),
		FilterQ:         n.filter.Q().Target(),
		NoiseGain:       n.noiseGain.Gain().Target(),
	}
}

func modGain(mainFreq, depth float64) float64 {
	return mainFreq * depth * modScale
}

func noiseGain(enabled bool) float64 {
	if enabled {
		return NoiseLevel
	}
	return 0
}

func configureFilter(f *audio.BiquadFilter, t tone.FilterType, freq, now float64) {
	bt, ok := t.Biquad()
	if !ok {
		f.SetType(biquad.Allpass)
		f.Q().SetValueAtTime(filterQ, now)
		return
	}
	f.SetType(bt)
	f.Frequency().SetValueAtTime(freq, now)
	f.Q().SetValueAtTime(filterQ, now)
}
