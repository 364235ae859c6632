// Command noteinfo prints the nearest note, period and wavelength of
// frequencies.
//
// Usage:
//
//	noteinfo [flags] [frequency ...]
//
// Examples:
//
//	noteinfo 440 256 7.83
//	noteinfo -octave 4
//	noteinfo -presets
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-tonelab/measure/pitch"
	"github.com/cwbudde/algo-tonelab/tone"
)

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func main() {
	octave := flag.Int("octave", -100, "print every note of this octave")
	presets := flag.Bool("presets", false, "print the preset frequencies")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: noteinfo [flags] [frequency ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints note, cents offset, period and wavelength for frequencies in Hz.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  noteinfo 440 256 7.83\n")
		fmt.Fprintf(os.Stderr, "  noteinfo -octave 4\n")
		fmt.Fprintf(os.Stderr, "  noteinfo -presets\n")
	}
	flag.Parse()

	rows, err := collect(flag.Args(), *octave, *presets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := printTable(os.Stdout, rows); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type row struct {
	label string
	freq  float64
}

func collect(args []string, octave int, presets bool) ([]row, error) {
	var rows []row

	if presets {
		for _, name := range tone.PresetNames() {
			pr, _ := tone.LookupPreset(name)
			rows = append(rows, row{label: name, freq: pr.Frequency})
		}
	}

	if octave != -100 {
		for _, name := range noteNames {
			f, err := pitch.NoteFrequency(name, octave)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row{label: fmt.Sprintf("%s%d", name, octave), freq: f})
		}
	}

	for _, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid frequency %q", arg)
		}
		rows = append(rows, row{label: arg, freq: f})
	}

	return rows, nil
}

func printTable(w io.Writer, rows []row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Input\tFrequency\tNote\tCents\tPeriod\tWavelength\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-----\t---------\t----\t-----\t------\t----------\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		m := pitch.Analyze(r.freq)
		note := m.Note
		if note == "" {
			note = "-"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%+.1f\t%.2f ms\t%.1f cm\n",
			r.label, tone.FormatHz(r.freq), note, m.Cents, m.PeriodMs, m.WavelengthCm,
		); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
