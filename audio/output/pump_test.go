package output

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/algo-tonelab/audio"
)

type countingRenderer struct {
	frames int
}

func (r *countingRenderer) Render(dst []float32) { r.frames += len(dst) }
func (r *countingRenderer) SampleRate() float64  { return 1000 }

func TestNewPumpRejectsBadPeriod(t *testing.T) {
	if _, err := NewPump(&countingRenderer{}, 0); !errors.Is(err, ErrPeriod) {
		t.Fatalf("err = %v, want ErrPeriod", err)
	}
}

func TestPumpAdvanceTracksWallTime(t *testing.T) {
	r := &countingRenderer{}
	p, err := NewPump(r, time.Millisecond)
	if err != nil {
		t.Fatalf("NewPump() error = %v", err)
	}

	if n := p.Advance(10 * time.Millisecond); n != 10 {
		t.Fatalf("Advance(10ms) = %d, want 10", n)
	}
	if n := p.Advance(10 * time.Millisecond); n != 0 {
		t.Fatalf("repeated Advance = %d, want 0", n)
	}
	if n := p.Advance(25 * time.Millisecond); n != 15 {
		t.Fatalf("Advance(25ms) = %d, want 15", n)
	}
	if r.frames != 25 || p.Rendered() != 25 {
		t.Fatalf("frames = %d, Rendered = %d, want 25", r.frames, p.Rendered())
	}
}

func TestPumpRunDrivesContextClock(t *testing.T) {
	ac, err := audio.NewContext(audio.WithSampleRate(8000))
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}

	p, err := NewPump(ac, time.Millisecond)
	if err != nil {
		t.Fatalf("NewPump() error = %v", err)
	}

	fired := make(chan struct{})
	ac.AfterFunc(0.01, func() { close(fired) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire while pumping")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
}
