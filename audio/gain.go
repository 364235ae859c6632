package audio

import "github.com/cwbudde/algo-vecmath"

// Gain multiplies its input by an automatable gain.
type Gain struct {
	node

	gain *Param
}

// NewGain creates a unity Gain.
func (c *Context) NewGain() *Gain {
	g := &Gain{gain: newParam(c, 1, -1e9, 1e9)}
	g.init(c, g)
	return g
}

// Gain returns the linear gain parameter.
func (g *Gain) Gain() *Param {
	return g.gain
}

func (g *Gain) process(q, start int64, in, out []float64) {
	vecmath.MulBlock(out, in, g.gain.values(q, start))
}
