// Package window generates analysis windows and applies them to blocks.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var blackmanCoeffs = []float64{0.42, 0.5, 0.08}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Blackman returns Blackman window coefficients (alpha = 0.16).
func Blackman(size int, opts ...Option) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", size)
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w, nil
	}

	den := float64(size - 1)
	if cfg.periodic {
		den = float64(size)
	}
	for i := range w {
		// Rounding leaves the edges slightly negative.
		w[i] = math.Max(0, cosineFromCoeffs(float64(i)/den, blackmanCoeffs))
	}
	return w, nil
}

// Apply multiplies buf in-place by coeffs. Both must have the same length.
func Apply(buf, coeffs []float64) error {
	if len(buf) != len(coeffs) {
		return fmt.Errorf("window length %d does not match buffer length %d", len(coeffs), len(buf))
	}
	vecmath.MulBlockInPlace(buf, coeffs)
	return nil
}

// cosineFromCoeffs evaluates sum_k (-1)^k c[k] cos(2 pi k x).
func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	sum := 0.0
	sign := 1.0
	for k, c := range coeffs {
		sum += sign * c * math.Cos(2*math.Pi*float64(k)*x)
		sign = -sign
	}
	return sum
}
