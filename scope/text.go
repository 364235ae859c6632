package scope

import (
	"bufio"
	"io"
	"math"
)

var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// Text draws frames as character art: an oscilloscope trace of Height rows
// followed by one row of spectrum bars, each Width columns wide.
//
// Home is written before every frame and Blank on Clear, which lets a
// terminal host redraw in place with cursor escape sequences.
type Text struct {
	W      io.Writer
	Width  int
	Height int
	Home   string
	Blank  string

	// SpectrumFraction is the share of the bins shown as bars, starting at
	// DC. Zero shows all bins.
	SpectrumFraction float64

	trace []float64
	bars  []float64
	grid  [][]rune
}

// Draw renders f.
func (t *Text) Draw(f Frame) {
	if t.Width <= 0 || t.Height <= 0 || len(f.Waveform) == 0 {
		t.Clear()
		return
	}

	t.trace = Trace(t.trace, f.Waveform)
	t.bars = Bars(t.bars, f.Spectrum)
	if frac := t.SpectrumFraction; frac > 0 && frac < 1 {
		t.bars = t.bars[:max(1, int(float64(len(t.bars))*frac))]
	}

	t.resetGrid()
	last := -1
	for x := 0; x < t.Width; x++ {
		v := t.trace[x*len(t.trace)/t.Width]
		row := int(math.Round((1 - v) / 2 * float64(t.Height-1)))
		row = min(max(row, 0), t.Height-1)
		t.grid[row][x] = '*'
		if last >= 0 {
			for r := min(last, row) + 1; r < max(last, row); r++ {
				t.grid[r][x] = '|'
			}
		}
		last = row
	}

	w := bufio.NewWriter(t.W)
	w.WriteString(t.Home)
	for _, line := range t.grid {
		w.WriteString(string(line))
		w.WriteByte('\n')
	}
	for x := 0; x < t.Width; x++ {
		h := t.bars[x*len(t.bars)/t.Width]
		w.WriteRune(barGlyphs[int(math.Round(h*float64(len(barGlyphs)-1)))])
	}
	w.WriteByte('\n')
	w.Flush()
}

// Clear writes Blank.
func (t *Text) Clear() {
	io.WriteString(t.W, t.Blank)
}

func (t *Text) resetGrid() {
	if len(t.grid) != t.Height || len(t.grid[0]) != t.Width {
		t.grid = make([][]rune, t.Height)
		for i := range t.grid {
			t.grid[i] = make([]rune, t.Width)
		}
	}
	for _, line := range t.grid {
		for i := range line {
			line[i] = ' '
		}
	}
}
