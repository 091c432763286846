package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerStyle colors the spinner glyph
var SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

// spinnerDoneMsg stops a running spinner
type spinnerDoneMsg struct{}

// SpinnerModel shows an animated label while a request is in flight.
// It quits on spinnerDoneMsg or ctrl+c and renders nothing afterwards.
type SpinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

// NewSpinnerModel creates a spinner with the given label
func NewSpinnerModel(label string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return SpinnerModel{
		spinner: s,
		label:   label,
	}
}

// Init starts the animation
func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles ticks and the stop message
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the spinner line, empty once stopped so the line is cleared
func (m SpinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label
}

// StartSpinner runs a spinner on stderr until the returned function is
// called. stdout is left untouched for the command's result. Interrupts
// are left to the caller's signal handling.
func StartSpinner(label string) (stop func()) {
	p := tea.NewProgram(NewSpinnerModel(label),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, _ = p.Run()
	}()

	return func() {
		p.Send(spinnerDoneMsg{})
		<-finished
	}
}
