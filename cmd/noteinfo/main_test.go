package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestCollect(t *testing.T) {
	rows, err := collect([]string{"440", "7.83"}, 4, true)
	if err != nil {
		t.Fatalf("collect() error = %v", err)
	}
	if len(rows) != 5+12+2 {
		t.Fatalf("got %d rows, want 19", len(rows))
	}
	if rows[0].label != "a440" || rows[5].label != "C4" || rows[17].freq != 440 {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if _, err := collect([]string{"loud"}, -100, false); err == nil {
		t.Fatal("expected error for non-numeric frequency")
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	if err := printTable(&buf, []row{{"440", 440}, {"0", 0}}); err != nil {
		t.Fatalf("printTable() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for _, want := range []string{"440.0 Hz", "A4", "+0.0", "2.27 ms", "78.0 cm"} {
		if !strings.Contains(lines[2], want) {
			t.Errorf("row %q lacks %q", lines[2], want)
		}
	}
	if !strings.Contains(lines[3], "-") || !strings.Contains(lines[3], "+Inf ms") {
		t.Errorf("invalid frequency row = %q", lines[3])
	}
}
