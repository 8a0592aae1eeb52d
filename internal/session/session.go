// Package session holds the world a front end is working on and makes sure at
// most one task mutates it at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"worldengine/internal/core"
	"worldengine/internal/generation"
	"worldengine/internal/simulation"
	"worldengine/internal/task"
)

// ErrBusy is returned when a task is started while another is running.
var ErrBusy = errors.New("another task is still running")

// Session is safe for concurrent use.
type Session struct {
	Engines   generation.EngineFactory
	Finalizer generation.Finalizer
	Limits    core.Limits

	mu      sync.Mutex
	world   *core.World
	running *task.Handle
	label   string
}

// New returns an empty session generating worlds with engines and fin.
func New(engines generation.EngineFactory, fin generation.Finalizer) *Session {
	return &Session{Engines: engines, Finalizer: fin, Limits: core.DefaultLimits()}
}

// World returns the current world, or nil.
func (s *Session) World() *core.World {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world
}

// SetWorld replaces the current world. It fails while a task is running.
func (s *Session) SetWorld(w *core.World) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return ErrBusy
	}
	s.world = w
	return nil
}

// Running returns the handle and label of the running task, if any.
func (s *Session) Running() (*task.Handle, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.label
}

// Cancel cancels the running task, if any.
func (s *Session) Cancel() {
	if h, _ := s.Running(); h != nil {
		h.Cancel()
	}
}

// Generate validates p and starts generating a new world. On success the new
// world replaces the current one before sink sees the terminal event.
func (s *Session) Generate(ctx context.Context, p core.GenerationParams, sink task.Sink) (*task.Handle, error) {
	if err := p.Validate(s.Limits); err != nil {
		return nil, err
	}
	job := generation.NewJob(p, s.Engines, s.Finalizer)
	return s.start(ctx, "generate "+p.Name, job, sink, func(err error) {
		if err == nil {
			s.world = job.World()
		}
	})
}

// Simulate starts the simulation of the given kind on the current world. It
// fails when there is no world or the simulation is not applicable to it.
func (s *Session) Simulate(ctx context.Context, kind simulation.Kind, sink task.Sink) (*task.Handle, error) {
	sim, ok := simulation.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: simulation %q is not available", core.ErrInvalidArgument, kind)
	}
	w := s.World()
	if w == nil {
		return nil, fmt.Errorf("%w: no world loaded", core.ErrInvalidArgument)
	}
	w.RLock()
	applicable := sim.IsApplicable(w)
	w.RUnlock()
	if !applicable {
		return nil, fmt.Errorf("%w: %s is not applicable to %s yet", core.ErrInvalidArgument, kind, w.Name)
	}
	return s.start(ctx, string(kind), simulation.NewOperation(sim, w), sink, nil)
}

func (s *Session) start(ctx context.Context, label string, work task.Work, sink task.Sink, done func(error)) (*task.Handle, error) {
	if sink == nil {
		sink = finishFunc(func(error) {})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return nil, fmt.Errorf("%w: %s", ErrBusy, s.label)
	}
	release := finishFunc(func(err error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if done != nil {
			done(err)
		}
		s.running, s.label = nil, ""
	})
	s.label = label
	s.running = task.Run(ctx, work, task.Multi{release, sink})
	return s.running, nil
}

// finishFunc is a Sink that ignores statuses.
type finishFunc func(err error)

func (finishFunc) Status(string)      {}
func (f finishFunc) Finish(err error) { f(err) }
