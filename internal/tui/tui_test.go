package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"imconv/internal/convert"
)

func TestModelShowsProgress(t *testing.T) {
	updates := make(chan convert.Progress, 1)
	m := NewModel(updates, NewStyles(DarkPalette))

	next, cmd := m.Update(progressMsg{Current: 2, Total: 3, File: "b.png"})
	if cmd == nil {
		t.Fatal("model should keep listening after a progress event")
	}
	view := next.View()
	if !strings.Contains(view, "Converting 2 of 3:") || !strings.Contains(view, "b.png") {
		t.Fatalf("view missing progress line:\n%s", view)
	}
}

func TestModelListensOnChannel(t *testing.T) {
	updates := make(chan convert.Progress, 1)
	updates <- convert.Progress{Current: 1, Total: 1, File: "a.png"}
	close(updates)

	cmd := listenForUpdates(updates)
	if msg, ok := cmd().(progressMsg); !ok || msg.File != "a.png" {
		t.Fatalf("unexpected first message %#v", msg)
	}
	if _, ok := cmd().(doneMsg); !ok {
		t.Fatal("closed channel should produce doneMsg")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(nil, NewStyles(LightPalette))

	done, _ := m.Update(doneMsg{})
	if done.(Model).Interrupted() || done.View() != "" {
		t.Fatal("done should quit without interrupting")
	}

	stopped, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !stopped.(Model).Interrupted() {
		t.Fatal("ctrl+c should interrupt")
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "[    ]"},
		{0.5, "[==  ]"},
		{1, "[====]"},
		{2, "[====]"},
	}
	for _, tt := range tests {
		if got := renderBar(4, tt.ratio); got != tt.want {
			t.Errorf("renderBar(4, %v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	s := convert.Summary{
		Total:     3,
		Succeeded: 2,
		Failed:    1,
		Failures:  []convert.Failure{{Input: "/in/bad.jpg", Name: "bad.jpg", Message: "decode: unexpected EOF"}},
	}
	out := RenderSummary(s, NewStyles(DarkPalette))
	for _, want := range []string{"2 converted", "1 failed", "bad.jpg:", "decode: unexpected EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPaletteFor(t *testing.T) {
	if PaletteFor("light") != LightPalette {
		t.Fatal("light theme")
	}
	if PaletteFor("dark") != DarkPalette || PaletteFor("") != DarkPalette {
		t.Fatal("dark is the default")
	}
}
