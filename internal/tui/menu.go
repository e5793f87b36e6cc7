package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuAction is one numbered entry of the main menu.
type MenuAction struct {
	Num   int
	Title string
	Desc  string
}

const (
	ChoiceAddDeveloper = iota + 1
	ChoiceDisplayDevelopers
	ChoiceAddFeedback
	ChoiceDisplayFeedback
	ChoiceExit
)

var MenuActions = []MenuAction{
	{Num: ChoiceAddDeveloper, Title: "Add Developer", Desc: "Register a developer"},
	{Num: ChoiceDisplayDevelopers, Title: "Display Developers", Desc: "List developers in registration order"},
	{Num: ChoiceAddFeedback, Title: "Add Feedback", Desc: "Record feedback for a developer"},
	{Num: ChoiceDisplayFeedback, Title: "Display All Feedback", Desc: "List every feedback entry"},
	{Num: ChoiceExit, Title: "Exit", Desc: "Leave the feedback loop"},
}

type item struct {
	action MenuAction
}

func (i item) Title() string       { return fmt.Sprintf("%d. %s", i.action.Num, i.action.Title) }
func (i item) Description() string { return i.action.Desc }
func (i item) FilterValue() string { return i.action.Title }

// PickerModel lets the user pick a menu action with the arrow keys.
type PickerModel struct {
	list   list.Model
	choice int
	done   bool
}

func NewPickerModel() PickerModel {
	items := make([]list.Item, 0, len(MenuActions))
	for _, a := range MenuActions {
		items = append(items, item{action: a})
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(Green).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Green).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(DimGreen)

	l := list.New(items, d, 50, 20)
	l.Title = "Feedback Loop"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().Foreground(Green).Bold(true).MarginLeft(2)

	return PickerModel{list: l}
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			m.choice = ChoiceExit
			m.done = true
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				m.choice = it.action.Num
				m.done = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	if m.done {
		return ""
	}
	return PickerBoxStyle.Render(m.list.View())
}

// Choice is the selected action number, or 0 while nothing is picked.
func (m PickerModel) Choice() int {
	return m.choice
}

// Picker runs one bubbletea program per menu selection.
type Picker struct {
	In  io.Reader
	Out io.Writer
}

func (p Picker) Choose(ctx context.Context) (int, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(NewPickerModel(), opts...).Run()
	if err != nil {
		return 0, err
	}
	m, ok := final.(PickerModel)
	if !ok || m.Choice() == 0 {
		return ChoiceExit, nil
	}
	return m.Choice(), nil
}
