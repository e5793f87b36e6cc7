package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func update(t *testing.T, m PickerModel, msg tea.Msg) (PickerModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(PickerModel)
	if !ok {
		t.Fatalf("Update returned %T, want PickerModel", next)
	}
	return pm, cmd
}

func TestPickerListsAllActions(t *testing.T) {
	m := NewPickerModel()
	view := m.View()

	for _, a := range MenuActions {
		if !strings.Contains(view, a.Title) {
			t.Errorf("View should list %q", a.Title)
		}
	}
}

func TestPickerSelectsHighlightedAction(t *testing.T) {
	m := NewPickerModel()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.Choice(); got != ChoiceAddFeedback {
		t.Errorf("Choice() = %d, want %d", got, ChoiceAddFeedback)
	}
	if cmd == nil {
		t.Error("selecting an action should quit the program")
	}
	if m.View() != "" {
		t.Error("View should be empty once a choice is made")
	}
}

func TestPickerEscapeMeansExit(t *testing.T) {
	m := NewPickerModel()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if got := m.Choice(); got != ChoiceExit {
		t.Errorf("Choice() = %d, want %d", got, ChoiceExit)
	}
}

func TestPickerStartsUnselected(t *testing.T) {
	if got := NewPickerModel().Choice(); got != 0 {
		t.Errorf("Choice() = %d, want 0", got)
	}
}
