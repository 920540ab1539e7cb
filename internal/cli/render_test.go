package cli

import (
	"strings"
	"testing"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	SetColor(false)

	out := RenderTable(Table{
		Title:   "Income",
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"salary", "1,000.00"},
			{"---"},
			{"café", "5.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Income") {
		t.Fatalf("title line = %q", lines[0])
	}

	width := len([]rune(lines[1]))
	for i, l := range lines[1:] {
		if n := len([]rune(l)); n != width {
			t.Fatalf("line %d width = %d, want %d:\n%s", i+1, n, width, out)
		}
	}
	if !strings.Contains(out, "│     5.00 │") {
		t.Fatalf("value column not right-aligned:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Fatalf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestRenderUsageBar(t *testing.T) {
	SetColor(false)

	cases := []struct {
		pct  float64
		want string
	}{
		{0, "░░░░░░░░░░"},
		{0.5, "█████░░░░░"},
		{1.4, "██████████"},
		{-1, "░░░░░░░░░░"},
	}
	for _, tc := range cases {
		if got := RenderUsageBar(tc.pct, 10); got != tc.want {
			t.Fatalf("RenderUsageBar(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}
