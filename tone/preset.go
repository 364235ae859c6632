package tone

import (
	"slices"

	"github.com/cwbudde/algo-tonelab/dsp/signal"
)

// Preset is a named frequency, waveform and volume.
type Preset struct {
	Name        string
	Description string
	Frequency   float64
	Waveform    signal.Shape
	Volume      float64
}

var presets = map[string]Preset{
	"meditation": {Name: "meditation", Description: "Schumann resonance", Frequency: 7.83, Waveform: signal.ShapeSine, Volume: 0.3},
	"alpha":      {Name: "alpha", Description: "alpha brain waves", Frequency: 10, Waveform: signal.ShapeSine, Volume: 0.3},
	"beta":       {Name: "beta", Description: "beta brain waves", Frequency: 20, Waveform: signal.ShapeSine, Volume: 0.3},
	"a440":       {Name: "a440", Description: "concert A", Frequency: 440, Waveform: signal.ShapeSine, Volume: 0.5},
	"c256":       {Name: "c256", Description: "scientific C", Frequency: 256, Waveform: signal.ShapeSine, Volume: 0.5},
}

// LookupPreset returns the preset called name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames returns all preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Apply returns p with the preset's frequency, waveform and volume.
func (pr Preset) Apply(p Parameters) Parameters {
	p.Frequency = pr.Frequency
	p.Waveform = pr.Waveform
	p.Volume = pr.Volume
	return p
}
