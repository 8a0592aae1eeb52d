package task

import (
	"fmt"
	"log"
	"sync"
	"time"

	"worldengine/internal/core"
)

// Event is one entry of a task's progress stream. Seq increases by one per
// event, starting at 1.
type Event struct {
	Seq     int
	Message string
	State   State
	Err     error
}

// Channel is a Sink that turns progress into an ordered event stream. The
// final event carries a terminal state, after which the channel is closed.
type Channel struct {
	events   chan Event
	detached chan struct{}
	once     sync.Once
	seq      int
}

// NewChannel returns a Channel buffering up to buffer events.
func NewChannel(buffer int) *Channel {
	if buffer < 1 {
		buffer = 1
	}
	return &Channel{
		events:   make(chan Event, buffer),
		detached: make(chan struct{}),
	}
}

// Events returns the stream to drain.
func (c *Channel) Events() <-chan Event { return c.events }

// Status implements Reporter. It blocks while the buffer is full unless the
// observer has detached.
func (c *Channel) Status(msg string) {
	c.send(Event{Message: msg, State: Running})
}

// Finish implements Sink.
func (c *Channel) Finish(err error) {
	state := StateOf(err)
	msg := state.String()
	if err != nil {
		msg = err.Error()
	}
	c.send(Event{Message: msg, State: state, Err: err})
	close(c.events)
}

// Detach tells the channel that nobody is reading anymore. Later events are
// dropped so the worker never blocks on a dismissed observer.
func (c *Channel) Detach() {
	c.once.Do(func() { close(c.detached) })
}

func (c *Channel) send(ev Event) {
	c.seq++
	ev.Seq = c.seq
	select {
	case <-c.detached:
		return
	default:
	}
	select {
	case c.events <- ev:
	case <-c.detached:
	}
}

// LogSink writes progress to a logger. Running statuses are throttled; the
// terminal line is always written.
type LogSink struct {
	Logger *log.Logger
	gate   *core.Interval
	last   string
}

// NewLogSink returns a LogSink writing at most one running status per period.
func NewLogSink(l *log.Logger, period time.Duration) *LogSink {
	return &LogSink{Logger: l, gate: core.NewInterval(period)}
}

// Status implements Reporter.
func (s *LogSink) Status(msg string) {
	s.last = msg
	if s.gate.Ready() {
		s.Logger.Print(msg)
	}
}

// Finish implements Sink.
func (s *LogSink) Finish(err error) {
	switch state := StateOf(err); state {
	case Succeeded:
		s.Logger.Printf("%s (%s)", s.last, state)
	default:
		s.Logger.Printf("%s: %v", state, err)
	}
}

// Multi fans every call out to several sinks in order.
type Multi []Sink

// Status implements Reporter.
func (m Multi) Status(msg string) {
	for _, s := range m {
		s.Status(msg)
	}
}

// Finish implements Sink.
func (m Multi) Finish(err error) {
	for _, s := range m {
		s.Finish(err)
	}
}

// Describe renders an event as a single status line.
func Describe(ev Event) string {
	if ev.State == Running {
		return ev.Message
	}
	return fmt.Sprintf("[%s] %s", ev.State, ev.Message)
}
