//go:build ebiten

package app

import (
	"io"
	"log"
	"testing"

	"worldengine/internal/session"
	"worldengine/internal/task"
	"worldengine/internal/ui"
)

func TestDismissSchedulesRedraw(t *testing.T) {
	g := &Game{
		sess:   session.New(nil, nil),
		cfg:    NewConfig(),
		logger: log.New(io.Discard, "", 0),
		panel:  ui.NewPanel(0),
		events: task.NewChannel(1),
		label:  "Simulating erosion",
	}
	g.dismiss()
	if g.events != nil {
		t.Fatal("dismiss must stop observing the task")
	}
	if !g.dirty {
		t.Fatal("dismiss must mark the map for redraw")
	}
	if !g.idle() {
		t.Fatal("game with no running task must be idle after dismiss")
	}
}
