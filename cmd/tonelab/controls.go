package main

import (
	"log"
	"math"

	"github.com/cwbudde/algo-tonelab/dsp/signal"
	"github.com/cwbudde/algo-tonelab/tone"
)

const (
	keyCtrlC = 3
	keyEsc   = 27

	semitone  = 1.0594630943592953 // 2^(1/12)
	thirdOct  = 1.2599210498948732 // 2^(1/3)
	volStep   = 0.05
	depthStep = 0.05
	rateStep  = 0.5
	envStep   = 0.05
)

var helpLines = []string{
	"space play/pause   s stop   q quit   h help",
	"+/- freq 1 Hz   ]/[ semitone   w waveform",
	"V/v volume   M/m mod depth   R/r mod rate",
	"f filter type   C/c filter freq   n noise",
	"A/a attack   D/d decay   1-5 presets",
}

// tuner is the part of lab.Lab the key bindings drive.
type tuner interface {
	Params() tone.Parameters
	TogglePlay() error
	Stop()
	ApplyPreset(name string) bool
	SetFrequency(f float64) error
	SetWaveform(s signal.Shape)
	SetVolume(v float64)
	SetModFrequency(f float64)
	SetModDepth(d float64)
	SetFilterType(t tone.FilterType)
	SetFilterFrequency(f float64)
	SetAttack(seconds float64)
	SetDecay(seconds float64)
	SetNoiseEnabled(enabled bool)
}

type controls struct {
	t           tuner
	log         *log.Logger
	presets     []string
	helpVisible bool
}

func newControls(t tuner, logger *log.Logger) *controls {
	return &controls{t: t, log: logger, presets: tone.PresetNames()}
}

// handle applies one key press and reports whether the host should exit.
func (c *controls) handle(k byte) bool {
	p := c.t.Params()

	switch k {
	case 'q', keyCtrlC, keyEsc:
		return true
	case ' ':
		if err := c.t.TogglePlay(); err != nil {
			c.log.Printf("toggle: %v", err)
		}
	case 's':
		c.t.Stop()
	case 'h', '?':
		c.helpVisible = !c.helpVisible

	case '+', '=':
		c.setFrequency(p.Frequency + 1)
	case '-', '_':
		c.setFrequency(p.Frequency - 1)
	case ']':
		c.setFrequency(p.Frequency * semitone)
	case '[':
		c.setFrequency(p.Frequency / semitone)
	case 'w':
		c.t.SetWaveform((p.Waveform + 1) % (signal.ShapeTriangle + 1))

	case 'V':
		c.t.SetVolume(p.Volume + volStep)
	case 'v':
		c.t.SetVolume(p.Volume - volStep)
	case 'M':
		c.t.SetModDepth(p.ModDepth + depthStep)
	case 'm':
		c.t.SetModDepth(p.ModDepth - depthStep)
	case 'R':
		c.t.SetModFrequency(p.ModFrequency + rateStep)
	case 'r':
		c.t.SetModFrequency(p.ModFrequency - rateStep)

	case 'f':
		c.t.SetFilterType((p.FilterType + 1) % (tone.FilterPeaking + 1))
	case 'C':
		c.t.SetFilterFrequency(math.Round(p.FilterFrequency * thirdOct))
	case 'c':
		c.t.SetFilterFrequency(math.Round(p.FilterFrequency / thirdOct))
	case 'n':
		c.t.SetNoiseEnabled(!p.NoiseEnabled)

	case 'A':
		c.t.SetAttack(p.Attack + envStep)
	case 'a':
		c.t.SetAttack(p.Attack - envStep)
	case 'D':
		c.t.SetDecay(p.Decay + envStep)
	case 'd':
		c.t.SetDecay(p.Decay - envStep)

	default:
		if i := int(k) - '1'; i >= 0 && i < len(c.presets) {
			c.t.ApplyPreset(c.presets[i])
		}
	}

	return false
}

// setFrequency clamps to the accepted range so held keys stop at the edge.
func (c *controls) setFrequency(f float64) {
	f = math.Min(math.Max(f, tone.MinFrequency), tone.MaxFrequency)
	if err := c.t.SetFrequency(f); err != nil {
		c.log.Printf("frequency: %v", err)
	}
}
