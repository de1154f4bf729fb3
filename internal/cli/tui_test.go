package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gandergraph/gander/pkg/dispatch"
)

func TestBoardModelProgress(t *testing.T) {
	m := newBoardModel([]string{"degree", "density"})

	next, _ := m.Update(progressMsg{index: 0, value: 0.5})
	m = next.(boardModel)

	if m.rows[0].progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", m.rows[0].progress)
	}
	if m.rows[0].state != dispatch.StateRunning {
		t.Errorf("progress should mark the row running, got %s", m.rows[0].state)
	}
	if m.rows[1].state != dispatch.StatePending {
		t.Errorf("other rows stay pending, got %s", m.rows[1].state)
	}

	// A stale lower report never rolls the bar back.
	next, _ = m.Update(progressMsg{index: 0, value: 0.25})
	m = next.(boardModel)
	if m.rows[0].progress != 0.5 {
		t.Errorf("progress = %v after stale report, want 0.5", m.rows[0].progress)
	}
}

func TestBoardModelQuitsWhenAllSettle(t *testing.T) {
	m := newBoardModel([]string{"degree", "density"})

	next, cmd := m.Update(settledMsg{index: 0, state: dispatch.StateCompleted})
	m = next.(boardModel)
	if cmd != nil {
		t.Fatal("board should keep running while rows are open")
	}
	if m.rows[0].progress != 1 {
		t.Errorf("completion should fill the bar, got %v", m.rows[0].progress)
	}

	next, cmd = m.Update(settledMsg{index: 1, state: dispatch.StateFailed})
	m = next.(boardModel)
	if cmd == nil {
		t.Fatal("board should quit once every row settles")
	}
	if m.settled != 2 {
		t.Errorf("settled = %d, want 2", m.settled)
	}
	if m.rows[1].progress != 0 {
		t.Errorf("failure should not fill the bar, got %v", m.rows[1].progress)
	}
}

func TestBoardModelQuitKey(t *testing.T) {
	m := newBoardModel([]string{"degree"})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(boardModel)

	if !m.quit {
		t.Error("q should mark the board aborted")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestBoardModelView(t *testing.T) {
	m := newBoardModel([]string{"degree", "density"})

	next, _ := m.Update(settledMsg{index: 0, state: dispatch.StateCompleted})
	m = next.(boardModel)

	view := m.View()
	for _, want := range []string{"degree", "density", "1/2 settled"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	full := strings.Repeat("█", boardBarWidth)
	if !strings.Contains(renderProgressBar(2.0), full) {
		t.Error("overshoot should clamp to a full bar")
	}
	if strings.Contains(renderProgressBar(0), "█") {
		t.Error("zero progress should render an empty bar")
	}
}
