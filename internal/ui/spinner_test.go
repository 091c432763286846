package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestSpinnerModel_View(t *testing.T) {
	m := NewSpinnerModel("Contacting discovery endpoint")

	if !strings.Contains(m.View(), "Contacting discovery endpoint") {
		t.Errorf("View() = %q, want label", m.View())
	}
	if m.Init() == nil {
		t.Error("Init() should start the tick")
	}
}

func TestSpinnerModel_Tick(t *testing.T) {
	m := NewSpinnerModel("Working")
	before := m.View()

	tick, ok := m.spinner.Tick().(spinner.TickMsg)
	if !ok {
		t.Fatal("Tick() did not return a TickMsg")
	}

	next, cmd := m.Update(tick)
	if cmd == nil {
		t.Error("Update(TickMsg) should schedule the next tick")
	}
	if next.View() == before {
		t.Errorf("View() unchanged after tick: %q", before)
	}
}

func TestSpinnerModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{name: "done", msg: spinnerDoneMsg{}},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, cmd := NewSpinnerModel("Working").Update(tt.msg)
			if !isQuit(cmd) {
				t.Error("Update() should return tea.Quit")
			}
			if view := next.View(); view != "" {
				t.Errorf("View() after quit = %q, want empty", view)
			}

			tick := NewSpinnerModel("Working").spinner.Tick()
			if _, cmd := next.Update(tick); cmd != nil {
				t.Error("stopped spinner should not schedule more ticks")
			}
		})
	}
}

func TestSpinnerModel_IgnoresOtherKeys(t *testing.T) {
	next, cmd := NewSpinnerModel("Working").Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		t.Error("Update(q) should not return a command")
	}
	if next.View() == "" {
		t.Error("spinner should keep running after an unrelated key")
	}
}
