package audio

import (
	"testing"

	"github.com/cwbudde/algo-tonelab/internal/testutil"
)

func TestParamLinearRamp(t *testing.T) {
	c := newTestContext(t)
	g := c.NewGain()
	p := g.Gain()

	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(1, 0.1)
	p.LinearRampToValueAtTime(0.5, 0.2)

	testutil.RequireNear(t, "Target", p.Target(), 0.5, 0)
	testutil.RequireNear(t, "Value(0)", p.Value(), 0, 1e-12)

	c.RenderSeconds(0.05)
	testutil.RequireNear(t, "Value(~0.05)", p.Value(), c.CurrentTime()/0.1, 1e-9)

	c.RenderSeconds(0.1)
	now := c.CurrentTime()
	testutil.RequireNear(t, "Value(~0.15)", p.Value(), 1-0.5*(now-0.1)/0.1, 1e-9)

	c.RenderSeconds(0.1)
	testutil.RequireNear(t, "Value(end)", p.Value(), 0.5, 0)
}

func TestParamRampWithoutPriorEventStartsNow(t *testing.T) {
	c := newTestContext(t)
	g := c.NewGain()
	c.RenderSeconds(1)

	start := c.CurrentTime()
	g.Gain().LinearRampToValueAtTime(0, start+0.1)
	testutil.RequireNear(t, "Value(start)", g.Gain().Value(), 1, 1e-12)

	c.RenderSeconds(0.05)
	want := 1 - (c.CurrentTime()-start)/0.1
	testutil.RequireNear(t, "Value(mid)", g.Gain().Value(), want, 1e-9)
}

func TestParamCancelScheduledValues(t *testing.T) {
	c := newTestContext(t)
	p := c.NewGain().Gain()
	now := c.CurrentTime()

	p.SetValueAtTime(0, now)
	p.LinearRampToValueAtTime(0.8, now+1)
	p.LinearRampToValueAtTime(0.56, now+2)

	p.CancelScheduledValues(now)
	p.SetValueAtTime(0.2, now)

	testutil.RequireNear(t, "Target", p.Target(), 0.2, 0)
	testutil.RequireNear(t, "Value", p.Value(), 0.2, 0)
	c.RenderSeconds(3)
	testutil.RequireNear(t, "Value after 3s", p.Value(), 0.2, 0)
}

func TestParamHoldAtCurrent(t *testing.T) {
	c := newTestContext(t)
	p := c.NewGain().Gain()
	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(1, 1)

	c.RenderSeconds(0.5)
	held := p.HoldAtCurrent()
	testutil.RequireNear(t, "held", held, c.CurrentTime(), 1e-9)
	testutil.RequireNear(t, "Target", p.Target(), held, 0)

	c.RenderSeconds(1)
	testutil.RequireNear(t, "Value", p.Value(), held, 0)
}

func TestParamModulationInput(t *testing.T) {
	c := newTestContext(t)

	dc := c.NewBufferSource()
	dc.SetBuffer([]float64{1})
	dc.SetLoop(true)
	dc.Start(0)

	depth := c.NewGain()
	depth.Gain().SetValue(50)
	dc.Connect(depth)

	sink := c.NewGain()
	sink.Gain().SetValue(100)
	depth.ConnectParam(sink.Gain())
	src := c.NewBufferSource()
	src.SetBuffer([]float64{0.001})
	src.SetLoop(true)
	src.Start(0)
	src.Connect(sink)
	sink.Connect(c.Destination())

	buf := make([]float32, RenderQuantum)
	c.Render(buf)
	// 0.001 * (100 + 1*50)
	testutil.RequireNear(t, "modulated output", float64(buf[10]), 0.15, 1e-6)

	depth.Disconnect()
	c.Render(buf)
	testutil.RequireNear(t, "unmodulated output", float64(buf[10]), 0.1, 1e-6)
}
