//go:build js && wasm

package main

import (
	"math"
	"sync"
	"syscall/js"

	"github.com/cwbudde/algo-tonelab/audio"
	"github.com/cwbudde/algo-tonelab/lab"
	"github.com/cwbudde/algo-tonelab/scope"
	"github.com/cwbudde/algo-tonelab/tone"
	"github.com/cwbudde/algo-tonelab/tone/graph"
)

var (
	ac    *audio.Context
	tl    *lab.Lab
	shown = &display{}
	frame = &lastFrame{}
	feed  *scope.Feed
	funcs []js.Func
)

// display keeps the latest text for the page to poll.
type display struct {
	mu       sync.Mutex
	readout  tone.Readout
	controls tone.Controls
	state    graph.State
}

func (d *display) ShowReadout(r tone.Readout) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readout = r
}

func (d *display) ShowControls(c tone.Controls) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.controls = c
}

func (d *display) ShowState(s graph.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
}

// lastFrame is the scope surface handed to the page.
type lastFrame struct {
	value js.Value
}

func (f *lastFrame) Draw(fr scope.Frame) {
	wave := js.Global().Get("Uint8Array").New(len(fr.Waveform))
	js.CopyBytesToJS(wave, fr.Waveform)
	bins := js.Global().Get("Uint8Array").New(len(fr.Spectrum))
	js.CopyBytesToJS(bins, fr.Spectrum)

	obj := js.Global().Get("Object").New()
	obj.Set("waveform", wave)
	obj.Set("spectrum", bins)
	f.value = obj
}

func (f *lastFrame) Clear() {
	f.value = js.Null()
}

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		c, err := audio.NewContext(audio.WithSampleRate(sr))
		if err != nil {
			return err.Error()
		}
		l, err := lab.New(c, lab.WithDisplay(shown))
		if err != nil {
			return err.Error()
		}
		ac, tl = c, l
		feed = scope.NewFeed(tl, frame)
		return js.Null()
	}))

	api.Set("start", labFunc(func(_ []js.Value) any {
		if err := tl.Start(); err != nil {
			return err.Error()
		}
		return js.Null()
	}))
	api.Set("stop", labFunc(func(_ []js.Value) any {
		tl.Stop()
		return js.Null()
	}))
	api.Set("toggle", labFunc(func(_ []js.Value) any {
		if err := tl.TogglePlay(); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setFrequency", labFunc(func(args []js.Value) any {
		if err := tl.SetFrequency(num(args, 0)); err != nil {
			return err.Error()
		}
		return js.Null()
	}))
	api.Set("setWaveform", labFunc(func(args []js.Value) any {
		s, err := tone.ParseWaveform(arg(args, 0).String())
		if err != nil {
			return err.Error()
		}
		tl.SetWaveform(s)
		return js.Null()
	}))
	api.Set("setVolume", labFunc(func(args []js.Value) any {
		tl.SetVolume(num(args, 0) / 100)
		return js.Null()
	}))
	api.Set("setModFrequency", labFunc(func(args []js.Value) any {
		tl.SetModFrequency(num(args, 0))
		return js.Null()
	}))
	api.Set("setModDepth", labFunc(func(args []js.Value) any {
		tl.SetModDepth(num(args, 0) / 100)
		return js.Null()
	}))
	api.Set("setFilterType", labFunc(func(args []js.Value) any {
		t, err := tone.ParseFilterType(arg(args, 0).String())
		if err != nil {
			return err.Error()
		}
		tl.SetFilterType(t)
		return js.Null()
	}))
	api.Set("setFilterFrequency", labFunc(func(args []js.Value) any {
		tl.SetFilterFrequency(num(args, 0))
		return js.Null()
	}))
	api.Set("setAttack", labFunc(func(args []js.Value) any {
		tl.SetAttack(num(args, 0))
		return js.Null()
	}))
	api.Set("setDecay", labFunc(func(args []js.Value) any {
		tl.SetDecay(num(args, 0))
		return js.Null()
	}))
	api.Set("setNoise", labFunc(func(args []js.Value) any {
		tl.SetNoiseEnabled(arg(args, 0).Truthy())
		return js.Null()
	}))
	api.Set("applyPreset", labFunc(func(args []js.Value) any {
		return tl.ApplyPreset(arg(args, 0).String())
	}))

	api.Set("presets", export(func(_ []js.Value) any {
		names := tone.PresetNames()
		out := make([]any, len(names))
		for i, n := range names {
			out[i] = n
		}
		return js.ValueOf(out)
	}))

	api.Set("render", export(func(args []js.Value) any {
		if ac == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		n := args[0].Int()
		buf := make([]float32, n)
		ac.Render(buf)
		arr := js.Global().Get("Float32Array").New(n)
		for i := 0; i < n; i++ {
			arr.SetIndex(i, buf[i])
		}
		return arr
	}))

	api.Set("frame", labFunc(func(_ []js.Value) any {
		feed.Tick()
		return frame.value
	}))

	api.Set("display", labFunc(func(_ []js.Value) any {
		shown.mu.Lock()
		defer shown.mu.Unlock()

		r, c := shown.readout, shown.controls
		return js.ValueOf(map[string]any{
			"frequency":       r.Frequency,
			"note":            r.Note,
			"period":          r.Period,
			"wavelength":      r.Wavelength,
			"waveform":        c.Waveform,
			"volume":          c.Volume,
			"modFrequency":    c.ModFrequency,
			"modDepth":        c.ModDepth,
			"filterType":      c.FilterType,
			"filterFrequency": c.FilterFrequency,
			"attack":          c.Attack,
			"decay":           c.Decay,
			"noise":           c.Noise,
			"playing":         shown.state == graph.Playing,
		})
	}))

	js.Global().Set("AlgoToneLab", api)
	select {}
}

// num returns argument i as a number, NaN when it is missing or not a
// number. NaN is rejected or clamped by the lab setters.
func num(args []js.Value, i int) float64 {
	if v := arg(args, i); v.Type() == js.TypeNumber {
		return v.Float()
	}
	return math.NaN()
}

func arg(args []js.Value, i int) js.Value {
	if i < len(args) {
		return args[i]
	}
	return js.Undefined()
}

// labFunc exports fn and returns null until init has run.
func labFunc(fn func([]js.Value) any) js.Func {
	return export(func(args []js.Value) any {
		if tl == nil {
			return js.Null()
		}
		return fn(args)
	})
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
