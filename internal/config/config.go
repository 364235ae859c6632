// Package config loads runtime settings for the tonelab commands from the
// environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration.
type Config struct {
	SampleRate int     // audio device rate in Hz
	FFTSize    int     // analyser window length
	FrameRate  float64 // visualizer frames per second
	Preset     string  // preset applied at startup, empty for none
	Seed       int64   // noise seed
}

// Load reads TONELAB_* environment variables, falling back to defaults for
// unset or unparsable values.
func Load() Config {
	return Config{
		SampleRate: envInt("TONELAB_SAMPLE_RATE", 48000),
		FFTSize:    envInt("TONELAB_FFT_SIZE", 2048),
		FrameRate:  envFloat("TONELAB_FRAME_RATE", 30),
		Preset:     envStr("TONELAB_PRESET", ""),
		Seed:       int64(envInt("TONELAB_SEED", 1)),
	}
}

// FrameInterval returns the visualizer tick period. Non-positive frame
// rates fall back to 30 fps.
func (c Config) FrameInterval() time.Duration {
	fps := c.FrameRate
	if fps <= 0 {
		fps = 30
	}
	return time.Duration(float64(time.Second) / fps)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
