package compose

import (
	"path/filepath"
	"testing"
)

func TestDigits(t *testing.T) {
	tests := map[int]int{0: 1, 1: 1, 9: 1, 10: 2, 12: 2, 99: 2, 100: 3, 1000: 4}
	for n, want := range tests {
		if got := Digits(n); got != want {
			t.Errorf("Digits(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestSequencePath(t *testing.T) {
	dir := filepath.Join("out", "dir")
	tests := []struct {
		label  string
		number int
		count  int
		want   string
	}{
		{"page", 3, 3, "report_page3.png"},
		{"page", 3, 12, "report_page03.png"},
		{"", 1, 12, "report_01.png"},
		{"", 12, 12, "report_12.png"},
		{"p", 5, 150, "report_p005.png"},
	}
	for _, tt := range tests {
		got := SequencePath(filepath.Join(dir, "report.png"), tt.label, tt.number, tt.count)
		if want := filepath.Join(dir, tt.want); got != want {
			t.Errorf("SequencePath(%q, %d, %d) = %q, want %q", tt.label, tt.number, tt.count, got, want)
		}
	}
}
