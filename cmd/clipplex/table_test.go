package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTablePlainWhenNotTerminal(t *testing.T) {
	out := &bytes.Buffer{}
	rendered := renderTable(out,
		[]string{"Viewer", "Title"},
		[][]string{{"alice", "The Expanse - Pilot"}},
		nil)
	if !strings.Contains(rendered, "alice") || !strings.Contains(rendered, "The Expanse - Pilot") {
		t.Fatalf("row content missing:\n%s", rendered)
	}
	if strings.Contains(rendered, "╭") {
		t.Fatalf("rounded borders must only appear on terminals:\n%s", rendered)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := &bytes.Buffer{}
	rendered := renderTable(out,
		[]string{"A", "B", "C"},
		[][]string{{"only"}},
		nil)
	if !strings.Contains(rendered, "only") {
		t.Fatalf("short row dropped:\n%s", rendered)
	}
}

func TestKindLabel(t *testing.T) {
	cases := map[string]string{
		"episode": "Episode",
		"movie":   "Movie",
		"":        "",
	}
	for input, want := range cases {
		if got := kindLabel(input); got != want {
			t.Fatalf("kindLabel(%q) = %q, want %q", input, got, want)
		}
	}
}
