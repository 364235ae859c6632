// Package lab is the interactive tone lab: it holds the current parameter
// snapshot, keeps the signal graph in step with it, applies presets and
// publishes display text.
//
// A Lab is safe for concurrent use. The host calls its setters from the UI
// goroutine while the audio device renders, fires clock timers and feeds
// the visualizer from other goroutines.
package lab

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/cwbudde/algo-tonelab/audio"
	"github.com/cwbudde/algo-tonelab/dsp/signal"
	"github.com/cwbudde/algo-tonelab/tone"
	"github.com/cwbudde/algo-tonelab/tone/graph"
)

// Display receives derived text whenever it changes.
type Display interface {
	ShowReadout(tone.Readout)
	ShowControls(tone.Controls)
	ShowState(graph.State)
}

type nopDisplay struct{}

func (nopDisplay) ShowReadout(tone.Readout)   {}
func (nopDisplay) ShowControls(tone.Controls) {}
func (nopDisplay) ShowState(graph.State)      {}

type config struct {
	logger       *log.Logger
	display      Display
	restartDelay float64
	seed         int64
	params       tone.Parameters
}

// Option configures a Lab.
type Option func(*config)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDisplay sets the display sink.
func WithDisplay(d Display) Option {
	return func(c *config) {
		if d != nil {
			c.display = d
		}
	}
}

// WithRestartDelay sets the audio-clock delay between the stop and the
// restart of a preset change. Negative values are ignored.
func WithRestartDelay(seconds float64) Option {
	return func(c *config) {
		if seconds >= 0 {
			c.restartDelay = seconds
		}
	}
}

// WithSeed sets the noise seed of the graph.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithParameters sets the initial parameters. Out-of-range fields are
// clamped.
func WithParameters(p tone.Parameters) Option {
	return func(c *config) {
		c.params = p.Sanitize()
	}
}

// Lab ties parameters, graph, presets and display together.
type Lab struct {
	mu      sync.Mutex
	ac      *audio.Context
	g       *graph.Graph
	log     *log.Logger
	display Display

	params       tone.Parameters
	restartDelay float64
	restart      *audio.Timer
	restartGen   uint64
}

// New creates a stopped lab rendering into ac and publishes the initial
// display text.
func New(ac *audio.Context, opts ...Option) (*Lab, error) {
	cfg := config{
		logger:       log.New(io.Discard, "", 0),
		display:      nopDisplay{},
		restartDelay: graph.FadeSeconds,
		seed:         1,
		params:       tone.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	g, err := graph.New(ac, graph.WithSeed(cfg.seed))
	if err != nil {
		return nil, fmt.Errorf("lab: %w", err)
	}

	l := &Lab{
		ac:           ac,
		g:            g,
		log:          cfg.logger,
		display:      cfg.display,
		params:       cfg.params,
		restartDelay: cfg.restartDelay,
	}
	l.publish(true)
	l.display.ShowState(graph.Stopped)

	return l, nil
}

// Params returns the current parameter snapshot.
func (l *Lab) Params() tone.Parameters {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.params
}

// State returns the playback state.
func (l *Lab) State() graph.State {
	return l.g.State()
}

// Analyser returns the live analysis tap, or nil when stopped.
func (l *Lab) Analyser() *audio.Analyser {
	return l.g.Analyser()
}

// Snapshot returns the live node settings.
func (l *Lab) Snapshot() graph.Snapshot {
	return l.g.Snapshot()
}

// Start builds the graph from the current parameters and cancels a pending
// preset restart.
func (l *Lab) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cancelRestart()
	return l.startLocked()
}

// Stop fades out the graph and cancels a pending preset restart.
func (l *Lab) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cancelRestart()
	l.stopLocked()
}

// TogglePlay stops when playing and starts otherwise.
func (l *Lab) TogglePlay() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cancelRestart()
	if l.g.State() == graph.Playing {
		l.stopLocked()
		return nil
	}
	return l.startLocked()
}

// ApplyPreset replaces frequency, waveform and volume with the named
// preset. A playing graph is stopped and rebuilt after the restart delay
// using the parameters current when the restart fires. Unknown names are
// ignored and reported as false.
func (l *Lab) ApplyPreset(name string) bool {
	pr, ok := tone.LookupPreset(name)
	if !ok {
		l.log.Printf("lab: unknown preset %q", name)
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.params = pr.Apply(l.params)
	l.publish(true)
	l.log.Printf("lab: preset %s (%s)", pr.Name, tone.FormatHz(pr.Frequency))

	if l.g.State() != graph.Playing {
		return true
	}

	l.cancelRestart()
	l.stopLocked()

	gen := l.restartGen
	l.restart = l.ac.AfterFunc(l.restartDelay, func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		if gen != l.restartGen {
			return
		}
		l.restart = nil
		if err := l.startLocked(); err != nil {
			l.log.Printf("lab: restart after preset: %v", err)
		}
	})

	return true
}

// SetFrequency retunes the tone. Frequencies outside
// [tone.MinFrequency, tone.MaxFrequency] are rejected with
// tone.ErrFrequency and change nothing.
func (l *Lab) SetFrequency(f float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.params.WithFrequency(f)
	if err != nil {
		l.log.Printf("lab: %v", err)
		return err
	}
	l.params = p
	l.g.SetFrequency(p.Frequency)
	l.publish(true)

	return nil
}

// SetWaveform changes the oscillator shape.
func (l *Lab) SetWaveform(s signal.Shape) {
	l.update(func(p tone.Parameters) tone.Parameters {
		p = p.WithWaveform(s)
		l.g.SetWaveform(p.Waveform)
		return p
	})
}

// SetVolume sets the volume, clamped to [0, 1].
func (l *Lab) SetVolume(v float64) {
	l.update(func(p tone.Parameters) tone.Parameters {
		p = p.WithVolume(v)
		l.g.SetVolume(p.Volume)
		return p
	})
}

// SetModFrequency sets the modulation rate.
func (l *Lab) SetModFrequency(f float64) {
	l.update(func(p tone.Parameters) tone.Parameters {
		p = p.WithModulation(f, p.ModDepth)
		l.g.SetModulation(p.ModFrequency, p.ModDepth, p.Frequency)
		return p
	})
}

// SetModDepth sets the modulation depth, clamped to [0, 1].
func (l *Lab) SetModDepth(d float64) {
	l.update(func(p tone.Parameters) tone.Parameters {
		p = p.WithModulation(p.ModFrequency, d)
		l.g.SetModulation(p.ModFrequency, p.ModDepth, p.Frequency)
		return p
	})
}

// SetFilterType selects the filter response.
func (l *Lab) SetFilterType(t tone.FilterType) {
	l.update(func(p tone.Parameters) tone.Parameters {
		p = p.WithFilter(t, p.FilterFrequency)
		l.g.SetFilter(p.FilterType, p.FilterFrequency)
		return p
	})
}

// SetFilterFrequency sets the filter frequency.
func (l *Lab) SetFilterFrequency(f float64) {
	l.update(func(p tone.Parameters) tone.Parameters {
		p = p.WithFilter(p.FilterType, f)
		l.g.SetFilter(p.FilterType, p.FilterFrequency)
		return p
	})
}

// SetAttack sets the attack time used by the next Start.
func (l *Lab) SetAttack(seconds float64) {
	l.update(func(p tone.Parameters) tone.Parameters {
		return p.WithEnvelope(seconds, p.Decay)
	})
}

// SetDecay sets the decay time used by the next Start.
func (l *Lab) SetDecay(seconds float64) {
	l.update(func(p tone.Parameters) tone.Parameters {
		return p.WithEnvelope(p.Attack, seconds)
	})
}

// SetNoiseEnabled switches the noise blend.
func (l *Lab) SetNoiseEnabled(enabled bool) {
	l.update(func(p tone.Parameters) tone.Parameters {
		p = p.WithNoise(enabled)
		l.g.SetNoiseEnabled(p.NoiseEnabled)
		return p
	})
}

func (l *Lab) update(f func(tone.Parameters) tone.Parameters) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.params = f(l.params)
	l.publish(false)
}

func (l *Lab) startLocked() error {
	if l.g.State() == graph.Playing {
		return nil
	}
	if err := l.g.Start(l.params); err != nil {
		return fmt.Errorf("lab: start: %w", err)
	}
	l.log.Printf("lab: start %s %s", tone.FormatHz(l.params.Frequency), l.params.Waveform)
	l.display.ShowState(graph.Playing)

	return nil
}

func (l *Lab) stopLocked() {
	if l.g.State() != graph.Playing {
		return
	}
	l.g.Stop()
	l.log.Printf("lab: stop")
	l.display.ShowState(graph.Stopped)
}

// cancelRestart invalidates a pending preset restart. The generation check
// covers a timer that already fell due but has not run yet.
func (l *Lab) cancelRestart() {
	l.restartGen++
	if l.restart != nil {
		l.restart.Stop()
		l.restart = nil
	}
}

func (l *Lab) publish(readout bool) {
	if readout {
		l.display.ShowReadout(tone.NewReadout(l.params.Frequency))
	}
	l.display.ShowControls(tone.FormatControls(l.params))
}
