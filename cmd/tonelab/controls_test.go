package main

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/cwbudde/algo-tonelab/audio"
	"github.com/cwbudde/algo-tonelab/dsp/signal"
	"github.com/cwbudde/algo-tonelab/lab"
	"github.com/cwbudde/algo-tonelab/scope"
	"github.com/cwbudde/algo-tonelab/tone"
	"github.com/cwbudde/algo-tonelab/tone/graph"
)

func newTestControls(t *testing.T) (*lab.Lab, *controls) {
	t.Helper()
	ac, err := audio.NewContext()
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	l, err := lab.New(ac)
	if err != nil {
		t.Fatalf("lab.New() error = %v", err)
	}
	return l, newControls(l, log.New(io.Discard, "", 0))
}

func press(c *controls, keys string) {
	for i := 0; i < len(keys); i++ {
		c.handle(keys[i])
	}
}

func TestControlsQuit(t *testing.T) {
	_, c := newTestControls(t)
	for _, k := range []byte{'q', keyCtrlC, keyEsc} {
		if !c.handle(k) {
			t.Fatalf("key %q did not quit", k)
		}
	}
	if c.handle('x') {
		t.Fatal("unbound key quit")
	}
}

func TestControlsPlayAndTune(t *testing.T) {
	l, c := newTestControls(t)

	press(c, " ")
	if l.State() != graph.Playing {
		t.Fatal("space did not start playback")
	}

	press(c, "++-w")
	p := l.Params()
	if p.Frequency != 441 || p.Waveform != signal.ShapeSquare {
		t.Fatalf("params = %+v", p)
	}
	if s := l.Snapshot(); s.Frequency != 441 || s.Waveform != signal.ShapeSquare {
		t.Fatalf("graph = %+v", s)
	}

	press(c, "wwww")
	if l.Params().Waveform != signal.ShapeSquare {
		t.Fatalf("waveform cycle = %v", l.Params().Waveform)
	}

	press(c, "s")
	if l.State() != graph.Stopped {
		t.Fatal("s did not stop playback")
	}
}

func TestControlsClampFrequency(t *testing.T) {
	l, c := newTestControls(t)
	if err := l.SetFrequency(999.5); err != nil {
		t.Fatal(err)
	}
	press(c, "++")
	if f := l.Params().Frequency; f != tone.MaxFrequency {
		t.Fatalf("frequency = %v, want %v", f, tone.MaxFrequency)
	}
}

func TestControlsLevelsAndFilter(t *testing.T) {
	l, c := newTestControls(t)
	press(c, "VVMMRfCnAd")

	p := l.Params()
	if p.Volume < 0.599 || p.Volume > 0.601 {
		t.Errorf("Volume = %v, want 0.6", p.Volume)
	}
	if p.ModDepth < 0.099 || p.ModDepth > 0.101 {
		t.Errorf("ModDepth = %v, want 0.1", p.ModDepth)
	}
	if p.ModFrequency != 5.5 {
		t.Errorf("ModFrequency = %v, want 5.5", p.ModFrequency)
	}
	if p.FilterType != tone.FilterLowpass || p.FilterFrequency != 1260 {
		t.Errorf("filter = %v %v", p.FilterType, p.FilterFrequency)
	}
	if !p.NoiseEnabled {
		t.Error("noise not enabled")
	}
	if p.Attack < 0.149 || p.Attack > 0.151 || p.Decay < 0.149 || p.Decay > 0.151 {
		t.Errorf("envelope = %v / %v", p.Attack, p.Decay)
	}

	press(c, "fffffffff")
	if l.Params().FilterType != tone.FilterLowpass {
		t.Errorf("filter cycle = %v", l.Params().FilterType)
	}
}

func TestControlsPresetKeys(t *testing.T) {
	l, c := newTestControls(t)
	names := tone.PresetNames()

	press(c, "5")
	want, _ := tone.LookupPreset(names[4])
	if l.Params().Frequency != want.Frequency {
		t.Fatalf("key 5 applied %v Hz, want %v", l.Params().Frequency, want.Frequency)
	}

	before := l.Params()
	press(c, "9")
	if l.Params() != before {
		t.Fatal("key without a preset changed params")
	}
}

func TestControlsHelpToggle(t *testing.T) {
	_, c := newTestControls(t)
	press(c, "h")
	if !c.helpVisible {
		t.Fatal("h did not show help")
	}
	press(c, "?")
	if c.helpVisible {
		t.Fatal("? did not hide help")
	}
}

func TestScreen(t *testing.T) {
	var out bytes.Buffer
	s := newScreen(&out, 40, 20)
	s.ShowReadout(tone.NewReadout(440))
	s.ShowControls(tone.FormatControls(tone.Default()))
	s.ShowState(graph.Playing)

	wave := bytes.Repeat([]byte{128}, 64)
	s.Draw(scope.Frame{Waveform: wave, Spectrum: make([]byte, 64)})

	got := out.String()
	for _, want := range []string{"⏸ Pause", "440.0 Hz", "A4", "2.27 ms", "78.0 cm", "volume 50%", "filter none"} {
		if !strings.Contains(got, want) {
			t.Errorf("frame lacks %q", want)
		}
	}
	if strings.Contains(strings.ReplaceAll(got, "\r\n", ""), "\n") {
		t.Error("frame contains bare LF")
	}

	out.Reset()
	s.ShowState(graph.Stopped)
	s.setHelp(true)
	s.Clear()
	got = out.String()
	if !strings.Contains(got, "▶ Play") || !strings.Contains(got, helpLines[0]) {
		t.Errorf("cleared frame = %q", got)
	}
}
