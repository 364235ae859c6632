// Command tonelab is an interactive tone generator for the terminal.
//
// It plays through the system audio device (or, built with -tags headless,
// only runs the audio clock) and draws an oscilloscope trace and spectrum
// of the live tone. Keys change the tone while it plays; press h for the
// key list.
//
// Usage:
//
//	tonelab [flags]
//
// Examples:
//
//	tonelab
//	tonelab -preset a440
//	tonelab -rate 44100 -fps 60 -v 2>tonelab.log
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	ossignal "os/signal"
	"time"

	"golang.org/x/term"

	"github.com/cwbudde/algo-tonelab/audio"
	"github.com/cwbudde/algo-tonelab/audio/output"
	"github.com/cwbudde/algo-tonelab/internal/config"
	"github.com/cwbudde/algo-tonelab/lab"
	"github.com/cwbudde/algo-tonelab/scope"
	"github.com/cwbudde/algo-tonelab/tone"
	"github.com/cwbudde/algo-tonelab/tone/graph"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tonelab: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	rate := flag.Int("rate", cfg.SampleRate, "audio sample rate in Hz (TONELAB_SAMPLE_RATE)")
	fftSize := flag.Int("fft", cfg.FFTSize, "analyser FFT size (TONELAB_FFT_SIZE)")
	fps := flag.Float64("fps", cfg.FrameRate, "visualizer frames per second (TONELAB_FRAME_RATE)")
	preset := flag.String("preset", cfg.Preset, "preset applied at startup (TONELAB_PRESET)")
	seed := flag.Int64("seed", cfg.Seed, "noise seed (TONELAB_SEED)")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tonelab [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Interactive tone generator with a terminal oscilloscope.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPresets: %v\n", tone.PresetNames())
	}
	flag.Parse()
	cfg.FrameRate = *fps

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "tonelab: ", log.LstdFlags)
	}

	ac, err := audio.NewContext(audio.WithSampleRate(float64(*rate)), audio.WithFFTSize(*fftSize))
	if err != nil {
		return err
	}
	defer ac.Close()

	dev, err := output.Open(ac)
	if err != nil {
		return err
	}
	defer dev.Close()
	logger.Printf("audio backend %s at %d Hz", output.Name, *rate)

	stdin, stdout := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	width, height, err := term.GetSize(stdout)
	if err != nil {
		width, height = 80, 24
	}

	scr := newScreen(os.Stdout, width, height)
	l, err := lab.New(ac, lab.WithLogger(logger), lab.WithDisplay(scr), lab.WithSeed(*seed))
	if err != nil {
		return err
	}
	if *preset != "" && !l.ApplyPreset(*preset) {
		return fmt.Errorf("unknown preset %q (available: %v)", *preset, tone.PresetNames())
	}

	oldState, err := term.MakeRaw(stdin)
	if err != nil {
		return fmt.Errorf("cannot enter raw mode: %w", err)
	}
	defer term.Restore(stdin, oldState)
	defer fmt.Fprint(os.Stdout, showCursor)

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	feed := scope.NewFeed(l, scr)
	go func() {
		_ = feed.Run(ctx, cfg.FrameInterval())
	}()

	keys := make(chan byte, 16)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()

	ctl := newControls(l, logger)
	for {
		select {
		case <-ctx.Done():
			return shutdown(l)
		case k := <-keys:
			if quit := ctl.handle(k); quit {
				return shutdown(l)
			}
			scr.setHelp(ctl.helpVisible)
		}
	}
}

// shutdown stops the tone and lets the fade play out before the device
// closes.
func shutdown(l *lab.Lab) error {
	l.Stop()
	time.Sleep(2 * time.Duration(graph.FadeSeconds*float64(time.Second)))
	return nil
}
