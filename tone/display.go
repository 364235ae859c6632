package tone

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tonelab/measure/pitch"
)

// Readout is the derived information shown for the current frequency.
type Readout struct {
	Frequency  string // "440.0 Hz"
	Note       string // "A4"
	Period     string // "2.27 ms"
	Wavelength string // "78.0 cm"
}

// NewReadout formats the metrics for freq.
func NewReadout(freq float64) Readout {
	m := pitch.Analyze(freq)
	return Readout{
		Frequency:  FormatHz(freq),
		Note:       m.Note,
		Period:     fmt.Sprintf("%.2f ms", m.PeriodMs),
		Wavelength: fmt.Sprintf("%.1f cm", m.WavelengthCm),
	}
}

// Controls holds the label text for every control.
type Controls struct {
	Frequency       string
	Waveform        string
	Volume          string
	ModFrequency    string
	ModDepth        string
	FilterType      string
	FilterFrequency string
	Attack          string
	Decay           string
	Noise           string
}

// FormatControls formats every field of p for display.
func FormatControls(p Parameters) Controls {
	noise := "off"
	if p.NoiseEnabled {
		noise = "on"
	}

	return Controls{
		Frequency:       FormatHz(p.Frequency),
		Waveform:        p.Waveform.String(),
		Volume:          FormatPercent(p.Volume),
		ModFrequency:    FormatHz(p.ModFrequency),
		ModDepth:        FormatPercent(p.ModDepth),
		FilterType:      p.FilterType.String(),
		FilterFrequency: fmt.Sprintf("%d Hz", int(math.Round(p.FilterFrequency))),
		Attack:          FormatSeconds(p.Attack),
		Decay:           FormatSeconds(p.Decay),
		Noise:           noise,
	}
}

// FormatHz formats a frequency with one decimal, e.g. "7.8 Hz".
func FormatHz(f float64) string {
	return fmt.Sprintf("%.1f Hz", f)
}

// FormatPercent formats a [0, 1] fraction as a whole percentage, e.g. "30%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(v*100)))
}

// FormatSeconds formats a duration in seconds with two decimals.
func FormatSeconds(s float64) string {
	return fmt.Sprintf("%.2f s", s)
}
