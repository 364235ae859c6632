package biquad

import (
	"fmt"
	"math"
	"strings"
)

// Type selects the response of a designed section.
type Type int

const (
	Lowpass Type = iota
	Highpass
	Bandpass
	Notch
	Allpass
	LowShelf
	HighShelf
	Peaking
)

var typeNames = [...]string{
	"lowpass", "highpass", "bandpass", "notch", "allpass", "lowshelf", "highshelf", "peaking",
}

// String returns the lower-case type name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType maps a type name to its Type.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown biquad type: %q", name)
}

const defaultQ = 1 / math.Sqrt2

// Identity returns unity-gain passthrough coefficients.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// Design computes coefficients for a section of type t at freq (Hz).
// gainDB only affects the shelving and peaking types. A frequency outside
// (0, Nyquist) or an invalid sample rate yields [Identity], so a misconfigured
// filter passes audio through instead of muting it.
func Design(t Type, freq, q, gainDB, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)
	a := math.Pow(10, gainDB/40)

	switch t {
	case Lowpass:
		return normalize((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
	case Highpass:
		return normalize((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
	case Bandpass:
		// constant 0 dB peak gain
		return normalize(alpha, 0, -alpha, 1+alpha, -2*cw, 1-alpha)
	case Notch:
		return normalize(1, -2*cw, 1, 1+alpha, -2*cw, 1-alpha)
	case Allpass:
		return normalize(1-alpha, -2*cw, 1+alpha, 1+alpha, -2*cw, 1-alpha)
	case Peaking:
		return normalize(1+alpha*a, -2*cw, 1-alpha*a, 1+alpha/a, -2*cw, 1-alpha/a)
	case LowShelf:
		beta := 2 * math.Sqrt(a) * alpha
		return normalize(
			a*((a+1)-(a-1)*cw+beta),
			2*a*((a-1)-(a+1)*cw),
			a*((a+1)-(a-1)*cw-beta),
			(a+1)+(a-1)*cw+beta,
			-2*((a-1)+(a+1)*cw),
			(a+1)+(a-1)*cw-beta,
		)
	case HighShelf:
		beta := 2 * math.Sqrt(a) * alpha
		return normalize(
			a*((a+1)+(a-1)*cw+beta),
			-2*a*((a-1)+(a+1)*cw),
			a*((a+1)+(a-1)*cw-beta),
			(a+1)-(a-1)*cw+beta,
			2*((a-1)-(a+1)*cw),
			(a+1)-(a-1)*cw-beta,
		)
	default:
		return Identity()
	}
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}
	return q
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Identity()
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
