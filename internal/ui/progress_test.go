package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"tsunused/internal/pipeline"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan pipeline.Event)
	model := NewProgressModel("tsunused check", []string{"a.tsdiag.json", "b.tsdiag.json"}, events)
	m := model.(*progressModel)

	m.applyEvent(pipeline.Event{File: "a.tsdiag.json", Stage: pipeline.StageAnalyze, Status: pipeline.StatusWorking})
	if m.items[0].status != "analyzing" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	if got := m.percent(); got != 0.3 {
		t.Fatalf("percent = %v", got)
	}

	m.applyEvent(pipeline.Event{File: "a.tsdiag.json", Stage: pipeline.StageAnalyze, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{File: "b.tsdiag.json", Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: errors.New("bad snapshot")})
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v", got)
	}
	// неизвестные файлы игнорируются
	m.applyEvent(pipeline.Event{File: "c.tsdiag.json", Status: pipeline.StatusDone})

	view := m.View()
	for _, want := range []string{"a.tsdiag.json", "done", "error", "bad snapshot"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}

	next, cmd := m.Update(doneMsg{})
	if !next.(*progressModel).done || cmd == nil {
		t.Fatal("doneMsg should finish the model")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("doneMsg should quit")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("internal/snapshots/long.tsdiag.json", 10); got != "interna..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	for _, width := range []int{4, 7, 12} {
		if got := runewidth.StringWidth(truncate("internal/snapshots/long.tsdiag.json", width)); got != width {
			t.Fatalf("width %d: truncated to %d columns", width, got)
		}
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Fatalf("narrow truncate = %q", got)
	}
}
