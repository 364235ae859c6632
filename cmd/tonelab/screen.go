package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cwbudde/algo-tonelab/scope"
	"github.com/cwbudde/algo-tonelab/tone"
	"github.com/cwbudde/algo-tonelab/tone/graph"
)

const (
	home       = "\x1b[H"
	clearLine  = "\x1b[K"
	clearBelow = "\x1b[J"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"

	headerRows = 4
)

// screen is the terminal display. The lab pushes text into it from any
// goroutine; only the scope goroutine writes to the terminal.
type screen struct {
	mu  sync.Mutex
	out io.Writer

	readout  tone.Readout
	controls tone.Controls
	state    graph.State
	help     bool

	buf  bytes.Buffer
	text scope.Text
}

func newScreen(out io.Writer, width, height int) *screen {
	s := &screen{out: out}
	s.text = scope.Text{
		W:                &s.buf,
		Width:            max(width, 16),
		Height:           max(height-headerRows-len(helpLines)-2, 4),
		SpectrumFraction: 0.25,
	}
	return s
}

func (s *screen) ShowReadout(r tone.Readout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readout = r
}

func (s *screen) ShowControls(c tone.Controls) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controls = c
}

func (s *screen) ShowState(st graph.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = st
}

func (s *screen) setHelp(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.help = on
}

func (s *screen) Draw(f scope.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()
	s.header()
	s.text.Draw(f)
	s.buf.WriteString(clearBelow)
	s.flush()
}

func (s *screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()
	s.header()
	s.buf.WriteString(clearBelow)
	s.flush()
}

func (s *screen) header() {
	r, c := s.readout, s.controls
	play := "▶ Play"
	if s.state == graph.Playing {
		play = "⏸ Pause"
	}

	s.buf.WriteString(hideCursor + home)
	line := func(format string, args ...any) {
		fmt.Fprintf(&s.buf, format, args...)
		s.buf.WriteString(clearLine + "\n")
	}
	line("%s   %s  %s  period %s  wavelength %s", play, r.Frequency, r.Note, r.Period, r.Wavelength)
	line("wave %s  volume %s  attack %s  decay %s  noise %s", c.Waveform, c.Volume, c.Attack, c.Decay, c.Noise)
	line("modulation %s at %s  filter %s at %s", c.ModDepth, c.ModFrequency, c.FilterType, c.FilterFrequency)
	if s.help {
		for _, h := range helpLines {
			line("%s", h)
		}
	}
	line("%s", strings.Repeat("─", s.text.Width))
}

// flush writes the frame with CRLF line endings; raw mode disables output
// post-processing.
func (s *screen) flush() {
	io.WriteString(s.out, strings.ReplaceAll(s.buf.String(), "\n", "\r\n"))
}
