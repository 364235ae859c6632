//go:build headless

package output

import (
	"context"
	"time"

	"github.com/cwbudde/algo-tonelab/audio"
)

// Name identifies the backend compiled into this build.
const Name = "headless"

const pumpPeriod = 10 * time.Millisecond

// Device advances an audio.Context in real time without sound output.
type Device struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Open starts a Pump on src.
func Open(src *audio.Context) (*Device, error) {
	pump, err := NewPump(src, pumpPeriod)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Device{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(d.done)
		_ = pump.Run(ctx)
	}()

	return d, nil
}

// Close stops the pump and waits for it to exit.
func (d *Device) Close() error {
	d.cancel()
	<-d.done
	return nil
}
