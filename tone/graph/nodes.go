package graph

import (
	"github.com/cwbudde/algo-tonelab/audio"
	"github.com/cwbudde/algo-tonelab/tone"
)

// nodes is one live node set. It is copied by value into the teardown
// callback so later Starts never touch it.
type nodes struct {
	osc       *audio.Oscillator
	lfo       *audio.Oscillator
	lfoGain   *audio.Gain
	filter    *audio.BiquadFilter
	env       *audio.Gain
	noise     *audio.BufferSource
	noiseGain *audio.Gain
	analyser  *audio.Analyser
}

// build creates and connects a node set for p. Sources are not started and
// the envelope is left at its default.
func build(ac *audio.Context, p tone.Parameters, noise []float64) *nodes {
	n := &nodes{
		osc:       ac.NewOscillator(),
		lfo:       ac.NewOscillator(),
		lfoGain:   ac.NewGain(),
		filter:    ac.NewBiquadFilter(),
		env:       ac.NewGain(),
		noise:     ac.NewBufferSource(),
		noiseGain: ac.NewGain(),
		analyser:  ac.NewAnalyser(),
	}

	now := ac.CurrentTime()

	n.osc.SetShape(p.Waveform)
	n.osc.Frequency().SetValue(p.Frequency)
	configureFilter(n.filter, p.FilterType, p.FilterFrequency, now)

	n.lfo.Frequency().SetValue(p.ModFrequency)
	n.lfoGain.Gain().SetValue(modGain(p.Frequency, p.ModDepth))
	n.lfo.Connect(n.lfoGain)
	n.lfoGain.ConnectParam(n.osc.Frequency())

	n.osc.Connect(n.filter)
	n.filter.Connect(n.env)

	n.noise.SetBuffer(noise)
	n.noise.SetLoop(true)
	n.noiseGain.Gain().SetValue(noiseGain(p.NoiseEnabled))
	n.noise.Connect(n.noiseGain)
	n.noiseGain.Connect(n.env)

	n.env.Connect(n.analyser)
	n.analyser.Connect(ac.Destination())

	return n
}

// release stops the sources at clock time when and disconnects every node.
func (n nodes) release(when float64) {
	n.osc.Stop(when)
	n.lfo.Stop(when)
	n.noise.Stop(when)

	for _, d := range []interface{ Disconnect() }{
		n.osc, n.lfo, n.lfoGain, n.filter, n.env, n.noise, n.noiseGain, n.analyser,
	} {
		d.Disconnect()
	}
}
