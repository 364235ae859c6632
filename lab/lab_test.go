package lab

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-tonelab/audio"
	"github.com/cwbudde/algo-tonelab/dsp/filter/biquad"
	"github.com/cwbudde/algo-tonelab/dsp/signal"
	"github.com/cwbudde/algo-tonelab/tone"
	"github.com/cwbudde/algo-tonelab/tone/graph"
)

type recordingDisplay struct {
	readouts []tone.Readout
	controls []tone.Controls
	states   []graph.State
}

func (d *recordingDisplay) ShowReadout(r tone.Readout)   { d.readouts = append(d.readouts, r) }
func (d *recordingDisplay) ShowControls(c tone.Controls) { d.controls = append(d.controls, c) }
func (d *recordingDisplay) ShowState(s graph.State)      { d.states = append(d.states, s) }

func (d *recordingDisplay) lastReadout() tone.Readout   { return d.readouts[len(d.readouts)-1] }
func (d *recordingDisplay) lastControls() tone.Controls { return d.controls[len(d.controls)-1] }
func (d *recordingDisplay) lastState() graph.State      { return d.states[len(d.states)-1] }

func newTestLab(t *testing.T, opts ...Option) (*audio.Context, *Lab, *recordingDisplay) {
	t.Helper()
	ac, err := audio.NewContext()
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	d := &recordingDisplay{}
	l, err := New(ac, append([]Option{WithDisplay(d)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return ac, l, d
}

func mustStart(t *testing.T, l *Lab) {
	t.Helper()
	if err := l.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

// peakHz returns the frequency of the strongest analyser bin.
func peakHz(ac *audio.Context, a *audio.Analyser) float64 {
	db := make([]float64, a.FrequencyBinCount())
	a.FloatFrequencyData(db)
	best := 0
	for i := range db {
		if db[i] > db[best] {
			best = i
		}
	}
	return float64(best) * ac.SampleRate() / float64(a.FFTSize())
}

func TestNewPublishesInitialState(t *testing.T) {
	_, l, d := newTestLab(t)

	if l.Params() != tone.Default() || l.State() != graph.Stopped {
		t.Fatalf("initial params %+v state %v", l.Params(), l.State())
	}
	if d.lastReadout().Note != "A4" || d.lastControls().Volume != "50%" || d.lastState() != graph.Stopped {
		t.Fatalf("initial display %+v %+v %v", d.lastReadout(), d.lastControls(), d.lastState())
	}
}

func TestSetFrequencyRejectsOutOfRange(t *testing.T) {
	var logs bytes.Buffer
	_, l, d := newTestLab(t, WithLogger(log.New(&logs, "", 0)))
	mustStart(t, l)
	published := len(d.readouts)

	for _, f := range []float64{0.1, 1000.5, math.NaN()} {
		if err := l.SetFrequency(f); !errors.Is(err, tone.ErrFrequency) {
			t.Fatalf("SetFrequency(%v) = %v, want ErrFrequency", f, err)
		}
	}
	if l.Params().Frequency != 440 || l.Snapshot().Frequency != 440 {
		t.Fatal("rejected frequency changed the tone")
	}
	if len(d.readouts) != published {
		t.Fatal("rejected frequency published a readout")
	}
	if !strings.Contains(logs.String(), "out of range") {
		t.Fatalf("rejection not logged: %q", logs.String())
	}

	if err := l.SetFrequency(256); err != nil {
		t.Fatalf("SetFrequency(256) error = %v", err)
	}
	if l.Snapshot().Frequency != 256 || d.lastReadout().Note != "C3" {
		t.Fatalf("frequency 256: snapshot %v, note %q", l.Snapshot().Frequency, d.lastReadout().Note)
	}
}

func TestSettersForwardToLiveGraph(t *testing.T) {
	_, l, d := newTestLab(t)
	mustStart(t, l)

	l.SetWaveform(signal.ShapeSquare)
	l.SetVolume(0.2)
	l.SetModFrequency(8)
	l.SetModDepth(0.5)
	l.SetFilterType(tone.FilterLowpass)
	l.SetFilterFrequency(1500)
	l.SetNoiseEnabled(true)

	s := l.Snapshot()
	if s.Waveform != signal.ShapeSquare || s.Volume != 0.2 || s.ModFrequency != 8 {
		t.Fatalf("snapshot = %+v", s)
	}
	if math.Abs(s.ModGain-440*0.5*0.1) > 1e-9 {
		t.Fatalf("ModGain = %v, want 22", s.ModGain)
	}
	if s.FilterType != biquad.Lowpass || s.FilterFrequency != 1500 || s.NoiseGain != 0.1 {
		t.Fatalf("snapshot = %+v", s)
	}

	c := d.lastControls()
	if c.Volume != "20%" || c.ModDepth != "50%" || c.ModFrequency != "8.0 Hz" || c.FilterFrequency != "1500 Hz" || c.Noise != "on" {
		t.Fatalf("controls = %+v", c)
	}
}

func TestSettersWhileStoppedOnlyUpdateParams(t *testing.T) {
	ac, l, _ := newTestLab(t)

	l.Stop()
	l.SetVolume(0.7)
	l.SetNoiseEnabled(true)
	l.SetAttack(0.3)
	l.SetDecay(-1)

	if l.State() != graph.Stopped || ac.Destination().InputCount() != 0 {
		t.Fatal("setters while stopped changed the graph")
	}
	p := l.Params()
	if p.Volume != 0.7 || !p.NoiseEnabled || p.Attack != 0.3 || p.Decay != 0 {
		t.Fatalf("params = %+v", p)
	}

	mustStart(t, l)
	s := l.Snapshot()
	if s.NoiseGain != 0.1 || s.Volume != 0.7*graph.SustainRatio {
		t.Fatalf("Start ignored stored params: %+v", s)
	}
}

func TestTogglePlay(t *testing.T) {
	_, l, d := newTestLab(t)

	if err := l.TogglePlay(); err != nil || l.State() != graph.Playing {
		t.Fatalf("TogglePlay() = %v, state %v", err, l.State())
	}
	if err := l.TogglePlay(); err != nil || l.State() != graph.Stopped {
		t.Fatalf("TogglePlay() = %v, state %v", err, l.State())
	}
	want := []graph.State{graph.Stopped, graph.Playing, graph.Stopped}
	if len(d.states) != len(want) {
		t.Fatalf("states = %v, want %v", d.states, want)
	}
}

func TestApplyUnknownPreset(t *testing.T) {
	ac, l, d := newTestLab(t)
	mustStart(t, l)
	before := len(d.readouts)

	if l.ApplyPreset("gamma") {
		t.Fatal("ApplyPreset(gamma) = true")
	}
	if l.Params() != tone.Default() || l.State() != graph.Playing || len(d.readouts) != before {
		t.Fatal("unknown preset had an effect")
	}
	if ac.PendingTimers() != 0 {
		t.Fatal("unknown preset scheduled a restart")
	}
}

func TestApplyPresetWhileStopped(t *testing.T) {
	ac, l, d := newTestLab(t)
	l.SetWaveform(signal.ShapeTriangle)

	if !l.ApplyPreset("meditation") {
		t.Fatal("ApplyPreset(meditation) = false")
	}
	p := l.Params()
	if p.Frequency != 7.83 || p.Waveform != signal.ShapeSine || p.Volume != 0.3 {
		t.Fatalf("params = %+v", p)
	}
	if r := d.lastReadout(); r.Frequency != "7.8 Hz" || r.Period != "127.71 ms" {
		t.Fatalf("readout = %+v", r)
	}
	if l.State() != graph.Stopped || ac.PendingTimers() != 0 {
		t.Fatal("preset started a stopped lab")
	}
}

func TestApplyPresetRestartsWithNewFrequency(t *testing.T) {
	ac, l, _ := newTestLab(t)
	if err := l.SetFrequency(200); err != nil {
		t.Fatal(err)
	}
	l.SetWaveform(signal.ShapeSquare)
	mustStart(t, l)
	ac.RenderSeconds(0.2)

	if !l.ApplyPreset("a440") {
		t.Fatal("ApplyPreset(a440) = false")
	}
	if l.State() != graph.Stopped {
		t.Fatalf("State() right after preset = %v, want stopped", l.State())
	}
	p := l.Params()
	if p.Frequency != 440 || p.Waveform != signal.ShapeSine || p.Volume != 0.5 {
		t.Fatalf("params = %+v", p)
	}

	ac.RenderSeconds(graph.FadeSeconds + 0.01)
	if l.State() != graph.Playing {
		t.Fatalf("State() after restart delay = %v, want playing", l.State())
	}
	s := l.Snapshot()
	if s.Frequency != 440 || s.Waveform != signal.ShapeSine {
		t.Fatalf("rebuilt graph = %+v", s)
	}

	ac.RenderSeconds(0.5)
	if hz := peakHz(ac, l.Analyser()); math.Abs(hz-440) > 30 {
		t.Fatalf("spectral peak at %v Hz, want ~440", hz)
	}
	if n := ac.Destination().InputCount(); n != 1 {
		t.Fatalf("InputCount = %d, want 1", n)
	}
}

func TestRestartUsesParamsCurrentAtFireTime(t *testing.T) {
	ac, l, _ := newTestLab(t)
	mustStart(t, l)

	l.ApplyPreset("alpha")
	if err := l.SetFrequency(300); err != nil {
		t.Fatal(err)
	}
	ac.RenderSeconds(graph.FadeSeconds + 0.01)

	if l.State() != graph.Playing || l.Snapshot().Frequency != 300 {
		t.Fatalf("restart state %v frequency %v", l.State(), l.Snapshot().Frequency)
	}
}

func TestStopCancelsPendingRestart(t *testing.T) {
	ac, l, _ := newTestLab(t)
	mustStart(t, l)

	l.ApplyPreset("beta")
	l.Stop()
	ac.RenderSeconds(0.5)

	if l.State() != graph.Stopped {
		t.Fatalf("State() = %v, want stopped", l.State())
	}
	if n := ac.Destination().InputCount(); n != 0 {
		t.Fatalf("InputCount = %d, want 0", n)
	}
}

func TestStartCancelsPendingRestart(t *testing.T) {
	ac, l, _ := newTestLab(t)
	mustStart(t, l)

	l.ApplyPreset("c256")
	mustStart(t, l)
	first := l.Analyser()
	ac.RenderSeconds(0.5)

	if l.Analyser() != first {
		t.Fatal("pending restart replaced the graph after an explicit Start")
	}
	if l.Snapshot().Frequency != 256 {
		t.Fatalf("frequency = %v, want 256", l.Snapshot().Frequency)
	}
}

func TestWithParametersSanitizes(t *testing.T) {
	_, l, _ := newTestLab(t, WithParameters(tone.Parameters{Frequency: 5000, Volume: 2}))
	p := l.Params()
	if p.Frequency != tone.MaxFrequency || p.Volume != 1 {
		t.Fatalf("params = %+v", p)
	}
}
