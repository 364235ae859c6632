// Package pitch derives musical and physical quantities from a frequency:
// the nearest equal-tempered note (A4 = 440 Hz), the period and the
// wavelength in air.
package pitch

import (
	"fmt"
	"math"
)

const (
	// ReferenceHz is the tuning reference for A4.
	ReferenceHz = 440.0
	// SpeedOfSound is the propagation speed in air used for wavelengths, in m/s.
	SpeedOfSound = 343.0

	semitonesPerOctave = 12
	// A sits 9 semitones above C; octaves are counted from C0, four octaves below C4.
	aOffset      = 9
	octaveOffset = 48
)

var noteNames = [semitonesPerOctave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Metrics bundles everything derived from one frequency.
type Metrics struct {
	Frequency    float64
	Note         string // name with octave, e.g. "A4"
	Name         string // name without octave, e.g. "A"
	Octave       int
	Cents        float64 // offset from the nearest tempered note, in [-50, 50]
	PeriodMs     float64
	WavelengthCm float64
}

// Analyze computes all metrics for freq. A non-positive or non-finite
// frequency yields empty note fields and infinite period and wavelength.
func Analyze(freq float64) Metrics {
	m := Metrics{
		Frequency:    freq,
		PeriodMs:     PeriodMs(freq),
		WavelengthCm: WavelengthCm(freq),
	}
	if !valid(freq) {
		return m
	}

	steps := halfSteps(freq)
	idx, octave := position(steps)
	m.Name = noteNames[idx]
	m.Octave = octave
	m.Note = fmt.Sprintf("%s%d", m.Name, octave)
	m.Cents = 100 * (steps + aOffset - roundHalfUp(steps+aOffset))
	return m
}

// NoteFor returns the nearest equal-tempered note name with octave,
// e.g. "A4" for 440 Hz. It returns "" for non-positive frequencies.
func NoteFor(freq float64) string {
	if !valid(freq) {
		return ""
	}
	idx, octave := position(halfSteps(freq))
	return fmt.Sprintf("%s%d", noteNames[idx], octave)
}

// PeriodMs returns the period of freq in milliseconds.
func PeriodMs(freq float64) float64 {
	if !valid(freq) {
		return math.Inf(1)
	}
	return 1000 / freq
}

// WavelengthCm returns the wavelength of freq in air, in centimetres.
func WavelengthCm(freq float64) float64 {
	if !valid(freq) {
		return math.Inf(1)
	}
	return SpeedOfSound / freq * 100
}

// NoteFrequency returns the tempered frequency of the named note in octave,
// for names as produced by [NoteFor] without the octave ("C", "F#", ...).
func NoteFrequency(name string, octave int) (float64, error) {
	for i, n := range noteNames {
		if n != name {
			continue
		}
		steps := float64(octave*semitonesPerOctave+i) - aOffset - octaveOffset
		return ReferenceHz * math.Pow(2, steps/semitonesPerOctave), nil
	}
	return 0, fmt.Errorf("unknown note name: %q", name)
}

func valid(freq float64) bool {
	return freq > 0 && !math.IsInf(freq, 0) && !math.IsNaN(freq)
}

func halfSteps(freq float64) float64 {
	return semitonesPerOctave * math.Log2(freq/ReferenceHz)
}

// position maps semitones relative to A4 onto a note index in [0, 12) and
// an octave number. The index wraps with a non-negative modulo so
// frequencies far below C0 still index the name table.
func position(steps float64) (int, int) {
	idx := int(roundHalfUp(steps+aOffset)) % semitonesPerOctave
	if idx < 0 {
		idx += semitonesPerOctave
	}
	octave := int(math.Floor((steps + aOffset + octaveOffset) / semitonesPerOctave))
	return idx, octave
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
