package scope

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-tonelab/audio"
)

type fixedSource struct {
	a *audio.Analyser
}

func (s fixedSource) Analyser() *audio.Analyser { return s.a }

type recorder struct {
	frames  []Frame
	clears  int
	lengths []int
}

func (r *recorder) Draw(f Frame) {
	r.frames = append(r.frames, f)
	r.lengths = append(r.lengths, len(f.Waveform), len(f.Spectrum))
}

func (r *recorder) Clear() { r.clears++ }

func TestTickWithoutAnalyserClears(t *testing.T) {
	r := &recorder{}
	f := NewFeed(fixedSource{}, r)
	if f.Tick() {
		t.Fatal("Tick() drew without an analyser")
	}
	if r.clears != 1 || len(r.frames) != 0 {
		t.Fatalf("clears = %d, frames = %d", r.clears, len(r.frames))
	}
}

func TestTickCopiesAnalyserData(t *testing.T) {
	ac, err := audio.NewContext()
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	a := ac.NewAnalyser()
	osc := ac.NewOscillator()
	osc.Connect(a)
	a.Connect(ac.Destination())
	osc.Start(0)
	ac.RenderSeconds(0.1)

	r := &recorder{}
	f := NewFeed(fixedSource{a: a}, r)
	if !f.Tick() {
		t.Fatal("Tick() did not draw")
	}
	if r.lengths[0] != 1024 || r.lengths[1] != 1024 {
		t.Fatalf("frame lengths = %v, want 1024", r.lengths)
	}

	var loud bool
	for _, v := range r.frames[0].Spectrum {
		loud = loud || v > 0
	}
	if !loud {
		t.Fatal("spectrum of a 440 Hz tone is empty")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := &recorder{}
	f := NewFeed(fixedSource{}, r)

	if err := f.Run(context.Background(), 0); !errors.Is(err, ErrInterval) {
		t.Fatalf("Run(0) = %v, want ErrInterval", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := f.Run(ctx, time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() = %v, want DeadlineExceeded", err)
	}
	if r.clears == 0 {
		t.Fatal("Run never ticked")
	}
}

func TestTraceAndBars(t *testing.T) {
	tr := Trace(nil, []byte{0, 64, 128, 192, 255})
	want := []float64{-1, -0.5, 0, 0.5, 255.0/128 - 1}
	for i := range want {
		if tr[i] != want[i] {
			t.Fatalf("Trace[%d] = %v, want %v", i, tr[i], want[i])
		}
	}

	b := Bars(make([]float64, 0, 8), []byte{0, 255, 51})
	if len(b) != 3 || b[0] != 0 || b[1] != 1 || b[2] != 0.2 {
		t.Fatalf("Bars = %v", b)
	}
}

func TestTextSurface(t *testing.T) {
	var buf bytes.Buffer
	s := &Text{W: &buf, Width: 8, Height: 5, Home: "<home>", Blank: "<blank>"}

	wave := []byte{128, 255, 128, 0, 128, 255, 128, 0}
	bins := []byte{0, 0, 255, 255, 0, 0, 128, 128}
	s.Draw(Frame{Waveform: wave, Spectrum: bins})

	out := buf.String()
	if !strings.HasPrefix(out, "<home>") {
		t.Fatalf("frame does not start with Home: %q", out)
	}
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "<home>"), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	if lines[2][0] != '*' {
		t.Fatalf("centre sample not on the middle row:\n%s", out)
	}
	if lines[0][1] != '*' || lines[4][3] != '*' {
		t.Fatalf("peaks misplaced:\n%s", out)
	}
	if bars := []rune(lines[5]); bars[0] != ' ' || bars[2] != '█' {
		t.Fatalf("bars = %q", lines[5])
	}

	buf.Reset()
	s.Clear()
	if buf.String() != "<blank>" {
		t.Fatalf("Clear wrote %q", buf.String())
	}
}
