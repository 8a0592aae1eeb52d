package simulation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"worldengine/internal/core"
	"worldengine/internal/task"
)

type fakeSim struct {
	applicable bool
	err        error
	calls      int
	seed       int64
	locked     bool
}

func (s *fakeSim) Kind() Kind                    { return "fake" }
func (s *fakeSim) Title() string                 { return "Simulating fakes" }
func (s *fakeSim) IsApplicable(*core.World) bool { return s.applicable }

func (s *fakeSim) Execute(w *core.World, seed int64) error {
	s.calls++
	s.seed = seed
	if w.TryRLock() {
		w.RUnlock()
	} else {
		s.locked = true
	}
	return s.err
}

type fixedSeeds int64

func (s fixedSeeds) Seed(int64) int64 { return int64(s) }

func drain(ch *task.Channel) []task.Event {
	var out []task.Event
	for ev := range ch.Events() {
		out = append(out, ev)
	}
	return out
}

func TestOperationForwardsEvenWhenNotApplicable(t *testing.T) {
	sim := &fakeSim{applicable: false}
	op := NewOperation(sim, core.NewWorld("w", 1, 2, 2, 1, 1))
	op.Seeds = fixedSeeds(123)

	ch := task.NewChannel(8)
	h := task.Run(context.Background(), op, ch)
	events := drain(ch)
	if err := h.Err(); err != nil {
		t.Fatalf("operation failed: %v", err)
	}
	if sim.calls != 1 || sim.seed != 123 {
		t.Fatalf("Execute calls=%d seed=%d, want 1 call with seed 123", sim.calls, sim.seed)
	}
	if !sim.locked {
		t.Fatal("Execute must run under the world write lock")
	}
	want := []string{"Simulating fakes: started (seed 123)", "Simulating fakes: done (seed 123)"}
	for i, msg := range want {
		if events[i].Message != msg {
			t.Fatalf("event %d = %q, want %q", i, events[i].Message, msg)
		}
	}
	if last := events[len(events)-1]; last.State != task.Succeeded {
		t.Fatalf("terminal state %v, want succeeded", last.State)
	}
}

func TestOperationFailureIsReported(t *testing.T) {
	sim := &fakeSim{err: errors.New("no rain")}
	op := NewOperation(sim, core.NewWorld("w", 1, 2, 2, 1, 1))
	ch := task.NewChannel(8)
	task.Run(context.Background(), op, ch)
	events := drain(ch)

	last := events[len(events)-1]
	if last.State != task.Failed || !errors.Is(last.Err, core.ErrExternal) {
		t.Fatalf("terminal event %+v, want failed external error", last)
	}
	for _, ev := range events {
		if strings.Contains(ev.Message, ": done") {
			t.Fatalf("done status must not follow a failure: %q", ev.Message)
		}
	}
}

func TestOperationSeedInRange(t *testing.T) {
	sim := &fakeSim{}
	op := NewOperation(sim, core.NewWorld("w", 1, 2, 2, 1, 1))
	op.Seeds = core.NewRNG(5)
	for i := 0; i < 50; i++ {
		if err := task.Run(context.Background(), op, task.NewChannel(8)).Wait(); err != nil {
			t.Fatal(err)
		}
		if op.Seed() < 0 || op.Seed() > SeedMax {
			t.Fatalf("seed %d outside [0,%d]", op.Seed(), SeedMax)
		}
	}
}

func TestOperationRequiresWorld(t *testing.T) {
	op := NewOperation(&fakeSim{}, nil)
	err := task.Run(context.Background(), op, task.NewChannel(2)).Wait()
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Biome "); err != nil || k != Biome {
		t.Fatalf("ParseKind = %v, %v", k, err)
	}
	if _, err := ParseKind("volcanism"); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestApplicableFiltersRegistry(t *testing.T) {
	Register(&kindSim{kind: Temperature, ok: true})
	Register(&kindSim{kind: Biome, ok: false})
	w := core.NewWorld("w", 1, 2, 2, 1, 1)

	var kinds []Kind
	for _, s := range Applicable(w) {
		kinds = append(kinds, s.Kind())
	}
	if len(kinds) != 1 || kinds[0] != Temperature {
		t.Fatalf("Applicable = %v, want [temperature]", kinds)
	}
}

type kindSim struct {
	kind Kind
	ok   bool
}

func (s *kindSim) Kind() Kind                       { return s.kind }
func (s *kindSim) Title() string                    { return string(s.kind) }
func (s *kindSim) IsApplicable(*core.World) bool    { return s.ok }
func (s *kindSim) Execute(*core.World, int64) error { return nil }
