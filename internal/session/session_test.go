package session

import (
	"context"
	"errors"
	"testing"

	"worldengine/internal/core"
	"worldengine/internal/generation"
	"worldengine/internal/simulation"
	_ "worldengine/internal/sims"
	"worldengine/internal/task"
)

// gatedEngine finishes after one step, and that step waits for gate.
type gatedEngine struct {
	w, h int
	gate chan struct{}
	done bool
}

func (e *gatedEngine) Finished() bool { return e.done }

func (e *gatedEngine) Step() error {
	<-e.gate
	e.done = true
	return nil
}

func (e *gatedEngine) Heightmap() []float64 {
	out := make([]float64, e.w*e.h)
	for i := range out {
		out[i] = float64(i % e.w)
	}
	return out
}

func (e *gatedEngine) PlatesMap() []int { return make([]int, e.w*e.h) }

type oceanOnly struct{}

func (oceanOnly) CenterLand(*core.World) error                 { return nil }
func (oceanOnly) AddNoiseToElevation(*core.World, int64) error { return nil }
func (oceanOnly) PlaceOceansAtMapBorders(*core.World) error    { return nil }
func (oceanOnly) InitializeOceanAndThresholds(w *core.World) error {
	return w.SetOcean(core.NewGrid[bool](w.Width, w.Height))
}

func newSession(gate chan struct{}) *Session {
	s := New(func(p generation.EngineParams) (generation.Engine, error) {
		return &gatedEngine{w: p.Width, h: p.Height, gate: gate}, nil
	}, oceanOnly{})
	s.Limits.Size = core.Range{Min: 1, Max: 64}
	return s
}

func params() core.GenerationParams {
	return core.GenerationParams{Seed: 1, Name: "tiny", Width: 6, Height: 4, NumPlates: 2}
}

func TestGenerateInstallsWorldBeforeTerminalEvent(t *testing.T) {
	gate := make(chan struct{})
	s := newSession(gate)
	ch := task.NewChannel(16)
	if _, err := s.Generate(context.Background(), params(), ch); err != nil {
		t.Fatal(err)
	}
	close(gate)
	var last task.Event
	for ev := range ch.Events() {
		last = ev
	}
	if last.State != task.Succeeded {
		t.Fatalf("terminal event %+v", last)
	}
	w := s.World()
	if w == nil || w.Name != "tiny" || !w.HasOcean() {
		t.Fatalf("world not installed: %+v", w)
	}
	if h, _ := s.Running(); h != nil {
		t.Fatal("running handle must be cleared")
	}
}

func TestOneTaskAtATime(t *testing.T) {
	gate := make(chan struct{})
	s := newSession(gate)
	h, err := s.Generate(context.Background(), params(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Generate(context.Background(), params(), nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := s.SetWorld(nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("SetWorld while busy: %v", err)
	}
	close(gate)
	if err := h.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateValidatesParams(t *testing.T) {
	s := newSession(make(chan struct{}))
	p := params()
	p.NumPlates = 0
	if _, err := s.Generate(context.Background(), p, nil); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSimulateGatesOnApplicability(t *testing.T) {
	s := newSession(nil)
	if _, err := s.Simulate(context.Background(), simulation.Precipitation, nil); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("no world: %v", err)
	}

	w := core.NewWorld("bare", 1, 4, 4, 2, 1)
	_ = w.SetElevation(core.NewGrid[float64](4, 4))
	_ = s.SetWorld(w)
	if _, err := s.Simulate(context.Background(), simulation.Precipitation, nil); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("world without ocean: %v", err)
	}

	_ = w.SetOcean(core.NewGrid[bool](4, 4))
	h, err := s.Simulate(context.Background(), simulation.Precipitation, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Wait(); err != nil {
		t.Fatal(err)
	}
	if !w.HasLayer(core.LayerPrecipitation) {
		t.Fatal("precipitation layer missing")
	}
}
