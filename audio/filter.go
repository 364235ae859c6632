package audio

import "github.com/cwbudde/algo-tonelab/dsp/filter/biquad"

// BiquadFilter is a second-order filter whose type, frequency and Q can
// change while audio runs. Frequency and Q are read once per quantum.
type BiquadFilter struct {
	node

	typ       biquad.Type
	frequency *Param
	q         *Param
	section   *biquad.Section

	designed bool
	lastType biquad.Type
	lastFreq float64
	lastQ    float64
}

// NewBiquadFilter creates a 350 Hz lowpass with Q = 1.
func (c *Context) NewBiquadFilter() *BiquadFilter {
	f := &BiquadFilter{
		typ:       biquad.Lowpass,
		frequency: newParam(c, 350, 0, c.sampleRate/2),
		q:         newParam(c, 1, 1e-4, 1000),
		section:   biquad.NewSection(biquad.Identity()),
	}
	f.init(c, f)
	return f
}

// Frequency returns the corner or centre frequency parameter in Hz.
func (f *BiquadFilter) Frequency() *Param {
	return f.frequency
}

// Q returns the quality factor parameter.
func (f *BiquadFilter) Q() *Param {
	return f.q
}

// Type returns the filter response type.
func (f *BiquadFilter) Type() biquad.Type {
	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()

	return f.typ
}

// SetType changes the filter response type.
func (f *BiquadFilter) SetType(t biquad.Type) {
	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()

	f.typ = t
}

// Coefficients returns the coefficients for the current type and the
// current intrinsic frequency and Q.
func (f *BiquadFilter) Coefficients() biquad.Coefficients {
	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()

	now := f.ctx.now()
	return biquad.Design(f.typ, f.frequency.advance(now), f.q.advance(now), 0, f.ctx.sampleRate)
}

func (f *BiquadFilter) process(q, start int64, in, out []float64) {
	freq := f.frequency.values(q, start)[0]
	qv := f.q.values(q, start)[0]

	if !f.designed || f.typ != f.lastType || freq != f.lastFreq || qv != f.lastQ {
		f.section.SetCoefficients(biquad.Design(f.typ, freq, qv, 0, f.ctx.sampleRate))
		f.designed = true
		f.lastType, f.lastFreq, f.lastQ = f.typ, freq, qv
	}

	copy(out, in)
	f.section.ProcessBlock(out)
}
