package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderTableWrapsLongPaths(t *testing.T) {
	path := "/mnt/nas/" + strings.Repeat("movies archive ", 10)
	out := renderTable([]string{"Title", "Linux path"}, [][]string{{"Heat", path}}, nil)

	for _, line := range strings.Split(out, "\n") {
		if n := utf8.RuneCountInString(line); n > maxCellWidth+20 {
			t.Fatalf("line not wrapped (%d runes): %q", n, line)
		}
	}
	if !strings.Contains(out, "Heat") {
		t.Fatalf("missing title cell:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Title", "Year", "TMDB"}, [][]string{{"Heat"}}, []columnAlignment{alignLeft, alignRight, alignRight})
	if !strings.Contains(out, "Heat") {
		t.Fatalf("missing row:\n%s", out)
	}
	if renderTable(nil, [][]string{{"x"}}, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
