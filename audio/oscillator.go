package audio

import "github.com/cwbudde/algo-tonelab/dsp/signal"

// Oscillator is a periodic source with an automatable frequency.
type Oscillator struct {
	node
	scheduled

	shape     signal.Shape
	frequency *Param
	phase     float64
}

// NewOscillator creates a stopped 440 Hz sine oscillator.
func (c *Context) NewOscillator() *Oscillator {
	nyquist := c.sampleRate / 2
	o := &Oscillator{
		shape:     signal.ShapeSine,
		frequency: newParam(c, 440, -nyquist, nyquist),
	}
	o.init(c, o)
	return o
}

// Frequency returns the frequency parameter in Hz.
func (o *Oscillator) Frequency() *Param {
	return o.frequency
}

// Shape returns the current waveform.
func (o *Oscillator) Shape() signal.Shape {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	return o.shape
}

// SetShape changes the waveform without resetting the phase.
func (o *Oscillator) SetShape(s signal.Shape) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	o.shape = s
}

// Start begins output at clock time when. Only the first call has effect.
func (o *Oscillator) Start(when float64) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	o.start(o.ctx, when)
}

// Stop ends output at clock time when.
func (o *Oscillator) Stop(when float64) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	o.stop(o.ctx, when)
}

func (o *Oscillator) process(q, start int64, _, out []float64) {
	freq := o.frequency.values(q, start)
	inv := 1 / o.ctx.sampleRate
	for i := range out {
		if !o.playing(start + int64(i)) {
			out[i] = 0
			continue
		}
		out[i] = o.shape.At(o.phase)
		o.phase = signal.WrapPhase(o.phase + freq[i]*inv)
	}
}
