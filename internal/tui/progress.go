// Package tui shows the progress of one task in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"worldengine/internal/task"
)

// maxLog is the number of past statuses kept on screen.
const maxLog = 8

type eventMsg struct{ ev task.Event }

type closedMsg struct{}

// Model is a bubbletea model following a task.Channel. The program quits when
// the terminal event arrives or when the user dismisses it.
type Model struct {
	title   string
	events  <-chan task.Event
	spinner spinner.Model

	current   string
	log       []string
	final     *task.Event
	dismissed bool

	titleStyle lipgloss.Style
	logStyle   lipgloss.Style
	doneStyle  lipgloss.Style
	failStyle  lipgloss.Style
	quitStyle  lipgloss.Style
}

// NewModel returns a model draining events.
func NewModel(title string, events <-chan task.Event) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return Model{
		title:      title,
		events:     events,
		spinner:    sp,
		current:    "....",
		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("129")),
		logStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		doneStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		quitStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func waitForEvent(ch <-chan task.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return eventMsg{ev: ev}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.dismissed = true
			return m, tea.Quit
		}
	case eventMsg:
		if msg.ev.State.Terminal() {
			ev := msg.ev
			m.final = &ev
			return m, tea.Quit
		}
		if m.current != "...." {
			m.log = append(m.log, m.current)
			if len(m.log) > maxLog {
				m.log = m.log[len(m.log)-maxLog:]
			}
		}
		m.current = msg.ev.Message
		return m, waitForEvent(m.events)
	case closedMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for _, line := range m.log {
		b.WriteString(m.logStyle.Render("  " + line))
		b.WriteString("\n")
	}
	switch {
	case m.final != nil && m.final.State == task.Succeeded:
		b.WriteString(m.doneStyle.Render("✔ " + m.current))
		b.WriteString("\n")
	case m.final != nil:
		b.WriteString(m.failStyle.Render(fmt.Sprintf("✘ %s", task.Describe(*m.final))))
		b.WriteString("\n")
	case m.dismissed:
		b.WriteString(m.quitStyle.Render("dismissed: " + m.current))
		b.WriteString("\n")
	default:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.current))
		b.WriteString(m.logStyle.Render("esc to cancel"))
		b.WriteString("\n")
	}
	return b.String()
}

// Final returns the terminal event, or nil if the user dismissed the view
// first.
func (m Model) Final() *task.Event { return m.final }

// Dismissed reports whether the user closed the view before the task ended.
func (m Model) Dismissed() bool { return m.dismissed }
