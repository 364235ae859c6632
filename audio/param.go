package audio

import (
	"math"
	"sort"
)

type eventKind int

const (
	eventSet eventKind = iota
	eventRamp
)

type event struct {
	kind  eventKind
	time  float64
	value float64
}

// Param is an automatable node parameter.
//
// Its computed value is the intrinsic value, driven by scheduled events,
// plus the summed output of every node connected with ConnectParam. The
// result is clamped to the parameter's nominal range.
type Param struct {
	ctx      *Context
	value    float64
	minValue float64
	maxValue float64

	events      []event
	anchorTime  float64
	anchorValue float64

	inputs   []*node
	buf      []float64
	mod      []float64
	computed int64
}

func newParam(c *Context, value, minValue, maxValue float64) *Param {
	return &Param{
		ctx:         c,
		value:       value,
		anchorValue: value,
		minValue:    minValue,
		maxValue:    maxValue,
		buf:         make([]float64, RenderQuantum),
		mod:         make([]float64, RenderQuantum),
	}
}

// Value returns the intrinsic value at the current clock time, excluding
// modulation inputs.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	return p.advance(p.ctx.now())
}

// Target returns the intrinsic value the parameter settles at once every
// scheduled event has completed.
func (p *Param) Target() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	if n := len(p.events); n > 0 {
		return p.events[n-1].value
	}
	return p.value
}

// SetValue sets the intrinsic value at the current clock time.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.insert(event{kind: eventSet, time: p.ctx.now(), value: v})
}

// SetValueAtTime schedules a step to v at clock time t.
func (p *Param) SetValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.insert(event{kind: eventSet, time: t, value: v})
}

// LinearRampToValueAtTime schedules a linear ramp that starts at the
// previous event (or now, if none is pending) and reaches v at clock time t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	if len(p.events) == 0 {
		now := p.ctx.now()
		p.anchorTime = now
		p.anchorValue = p.advance(now)
	}
	p.insert(event{kind: eventRamp, time: t, value: v})
}

// CancelScheduledValues drops every event at or after clock time t. The
// intrinsic value holds wherever automation had reached.
func (p *Param) CancelScheduledValues(t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.advance(p.ctx.now())
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time >= t })
	p.events = p.events[:i]
}

// HoldAtCurrent cancels pending automation and pins the intrinsic value to
// where it is now, so a following ramp starts from the audible level.
func (p *Param) HoldAtCurrent() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	now := p.ctx.now()
	v := p.advance(now)
	p.events = p.events[:0]
	p.anchorTime = now
	p.anchorValue = v

	return v
}

// insert keeps events ordered by time; equal times keep insertion order.
func (p *Param) insert(e event) {
	if math.IsNaN(e.time) || math.IsNaN(e.value) {
		return
	}
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > e.time })
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// advance consumes events up to clock time t and returns the intrinsic
// value at t. Calls must use non-decreasing t.
func (p *Param) advance(t float64) float64 {
	for len(p.events) > 0 {
		e := p.events[0]
		if t < e.time {
			if e.kind == eventRamp {
				if span := e.time - p.anchorTime; span > 0 {
					frac := clamp((t-p.anchorTime)/span, 0, 1)
					p.value = p.anchorValue + (e.value-p.anchorValue)*frac
				}
			}
			return p.value
		}

		p.value = e.value
		p.anchorTime = e.time
		p.anchorValue = e.value
		p.events = p.events[1:]
	}

	return p.value
}

// values computes the per-frame parameter values for quantum q starting at
// frame start. The caller holds the Context lock.
func (p *Param) values(q, start int64) []float64 {
	if p.computed == q {
		return p.buf
	}
	p.computed = q

	sr := p.ctx.sampleRate
	if len(p.events) == 0 {
		v := p.value
		for i := range p.buf {
			p.buf[i] = v
		}
	} else {
		for i := range p.buf {
			p.buf[i] = p.advance(float64(start+int64(i)) / sr)
		}
	}

	if len(p.inputs) > 0 {
		for i, v := range mix(p.mod, p.inputs, q, start) {
			p.buf[i] += v
		}
	}

	for i, v := range p.buf {
		p.buf[i] = clamp(v, p.minValue, p.maxValue)
	}

	return p.buf
}
