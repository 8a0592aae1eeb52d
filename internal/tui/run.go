package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"worldengine/internal/task"
)

// Follow shows the progress of the task behind h, whose sink is ch, until it
// ends. Dismissing the view detaches ch and cancels the task; Follow then
// waits for the task to reach its next step boundary. The task's error is
// returned.
func Follow(title string, ch *task.Channel, h *task.Handle, opts ...tea.ProgramOption) error {
	out, err := tea.NewProgram(NewModel(title, ch.Events()), opts...).Run()
	if err != nil {
		ch.Detach()
		h.Cancel()
		h.Wait()
		return fmt.Errorf("progress view: %w", err)
	}
	if m, ok := out.(Model); ok && m.Dismissed() {
		ch.Detach()
		h.Cancel()
	}
	return h.Wait()
}
