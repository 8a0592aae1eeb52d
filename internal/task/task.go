// Package task runs long operations on a dedicated goroutine and reports
// their progress to a sink.
package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle state carried by an Event.
type State int

const (
	Running State = iota
	Succeeded
	Failed
	Canceled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further events follow s.
func (s State) Terminal() bool { return s != Running }

// StateOf maps the error returned by a unit of work to its terminal state.
func StateOf(err error) State {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, context.Canceled):
		return Canceled
	default:
		return Failed
	}
}

// Reporter receives status text from a running unit of work.
type Reporter interface {
	Status(msg string)
}

// Work is one unit of background work. Implementations check ctx at their
// own step boundaries; nothing interrupts them in between.
type Work interface {
	Run(ctx context.Context, r Reporter) error
}

// WorkFunc adapts a function to Work.
type WorkFunc func(ctx context.Context, r Reporter) error

// Run calls f.
func (f WorkFunc) Run(ctx context.Context, r Reporter) error { return f(ctx, r) }

// Sink observes a task: every status in order, then exactly one Finish.
type Sink interface {
	Reporter
	Finish(err error)
}

// Handle refers to a launched task.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Run starts w on its own goroutine and returns immediately. sink.Finish is
// called exactly once when w returns, with a nil error on success.
func Run(ctx context.Context, w Work, sink Sink) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer cancel()
		err := runSafely(ctx, w, sink)
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		sink.Finish(err)
	}()
	return h
}

func runSafely(ctx context.Context, w Work, r Reporter) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return w.Run(ctx, r)
}

// Cancel asks the work to stop at its next step boundary. Mutations already
// applied are kept.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed once the work has returned and the sink has been finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the task is done and returns its error.
func (h *Handle) Wait() error {
	<-h.done
	return h.Err()
}

// Err returns the task error; it is only meaningful after Done is closed.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
