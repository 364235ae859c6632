//go:build !headless

package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-tonelab/audio"
	"github.com/ebitengine/oto/v3"
)

// Name identifies the backend compiled into this build.
const Name = "oto"

// bufferFrames is the device buffer requested from oto.
const bufferFrames = 1024

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
	otoRate    int
)

func deviceContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate = sampleRate
		}
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if otoRate != sampleRate {
		return nil, fmt.Errorf("output: device already open at %d Hz", otoRate)
	}
	return otoCtx, nil
}

// Device plays an audio.Context through the system audio device. oto pulls
// samples from its own goroutine through Read.
type Device struct {
	src    *audio.Context
	player *oto.Player
	buf    []float32
}

// Open acquires the audio device at src's sample rate and starts playback.
func Open(src *audio.Context) (*Device, error) {
	ctx, err := deviceContext(int(src.SampleRate()))
	if err != nil {
		return nil, fmt.Errorf("output: open audio device: %w", err)
	}

	d := &Device{src: src, buf: make([]float32, bufferFrames)}
	d.player = ctx.NewPlayer(d)
	d.player.Play()

	return d, nil
}

// Read renders len(p)/4 frames and encodes them as float32 little endian.
func (d *Device) Read(p []byte) (int, error) {
	n := len(p) / 4
	if cap(d.buf) < n {
		d.buf = make([]float32, n)
	}
	samples := d.buf[:n]
	d.src.Render(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(s))
	}
	return 4 * n, nil
}

// Close stops playback. The device context stays open for the process.
func (d *Device) Close() error {
	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	return err
}
