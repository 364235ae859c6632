package signal

import (
	"fmt"
	"math"
	"strings"
)

// Shape selects the waveform of a periodic oscillator.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeSquare
	ShapeSawtooth
	ShapeTriangle
)

var shapeNames = [...]string{"sine", "square", "sawtooth", "triangle"}

// String returns the lower-case shape name.
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape maps a shape name to its Shape.
func ParseShape(name string) (Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown waveform shape: %q", name)
}

// At evaluates one period of the shape at phase in [0, 1).
// Output is in [-1, 1]. All shapes start at zero crossing or at their
// positive half, matching a sine that starts at phase 0.
func (s Shape) At(phase float64) float64 {
	switch s {
	case ShapeSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case ShapeSawtooth:
		// rises from 0 to 1, jumps to -1, rises back to 0
		if phase < 0.5 {
			return 2 * phase
		}
		return 2*phase - 2
	case ShapeTriangle:
		switch {
		case phase < 0.25:
			return 4 * phase
		case phase < 0.75:
			return 2 - 4*phase
		default:
			return 4*phase - 4
		}
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// WrapPhase folds any phase into [0, 1).
func WrapPhase(phase float64) float64 {
	phase -= math.Floor(phase)
	if phase >= 1 {
		return 0
	}
	return phase
}
