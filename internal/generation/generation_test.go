package generation

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"worldengine/internal/core"
	"worldengine/internal/task"
)

type fakeEngine struct {
	w, h     int
	total    int
	steps    int
	finished int
	failAt   int
}

func (e *fakeEngine) Finished() bool {
	e.finished++
	return e.steps >= e.total
}

func (e *fakeEngine) Step() error {
	if e.failAt > 0 && e.steps+1 == e.failAt {
		return errors.New("engine exploded")
	}
	e.steps++
	return nil
}

func (e *fakeEngine) Heightmap() []float64 {
	out := make([]float64, e.w*e.h)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func (e *fakeEngine) PlatesMap() []int {
	out := make([]int, e.w*e.h)
	for i := range out {
		out[i] = i % 3
	}
	return out
}

func factoryFor(e *fakeEngine) EngineFactory {
	return func(p EngineParams) (Engine, error) {
		e.w, e.h = p.Width, p.Height
		return e, nil
	}
}

type recordingFinalizer struct {
	calls       []string
	oceanAfter  []bool
	noiseSeed   int64
	failOnStage string
}

func (f *recordingFinalizer) record(name string, w *core.World) error {
	if name == f.failOnStage {
		return errors.New("stage failed")
	}
	f.calls = append(f.calls, name)
	f.oceanAfter = append(f.oceanAfter, w.HasOcean())
	return nil
}

func (f *recordingFinalizer) CenterLand(w *core.World) error { return f.record("center", w) }

func (f *recordingFinalizer) AddNoiseToElevation(w *core.World, seed int64) error {
	f.noiseSeed = seed
	return f.record("noise", w)
}

func (f *recordingFinalizer) PlaceOceansAtMapBorders(w *core.World) error {
	return f.record("borders", w)
}

func (f *recordingFinalizer) InitializeOceanAndThresholds(w *core.World) error {
	if f.failOnStage == "ocean" {
		return errors.New("stage failed")
	}
	if err := w.SetOcean(core.NewGrid[bool](w.Width, w.Height)); err != nil {
		return err
	}
	return f.record("ocean", w)
}

type fixedSeeds int64

func (s fixedSeeds) Seed(n int64) int64 { return int64(s) }

func params() core.GenerationParams {
	return core.GenerationParams{Seed: 5, Name: "test", Width: 4, Height: 3, NumPlates: 3}
}

func TestStepIsIdempotentOnceFinished(t *testing.T) {
	eng := &fakeEngine{total: 3}
	p, err := New(params(), factoryFor(eng))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 1; i <= 3; i++ {
		finished, n, err := p.Step()
		if err != nil || finished || n != i {
			t.Fatalf("step %d = (%v, %d, %v)", i, finished, n, err)
		}
	}
	finished, n, _ := p.Step()
	if !finished || n != 3 {
		t.Fatalf("expected (true, 3), got (%v, %d)", finished, n)
	}

	queries := eng.finished
	for i := 0; i < 5; i++ {
		finished, n, _ := p.Step()
		if !finished || n != 3 {
			t.Fatalf("repeat step = (%v, %d), want (true, 3)", finished, n)
		}
	}
	if eng.finished != queries || eng.steps != 3 {
		t.Fatal("engine touched after it reported finished")
	}
}

func TestWorldBeforeFinishFails(t *testing.T) {
	p, _ := New(params(), factoryFor(&fakeEngine{total: 1}))
	if _, err := p.World(); !errors.Is(err, ErrNotFinished) {
		t.Fatalf("expected ErrNotFinished, got %v", err)
	}
}

func TestWorldReshapesEngineOutput(t *testing.T) {
	p, _ := New(params(), factoryFor(&fakeEngine{total: 0}))
	if finished, _, _ := p.Step(); !finished {
		t.Fatal("engine with zero steps must finish immediately")
	}
	w, err := p.World()
	if err != nil {
		t.Fatalf("World: %v", err)
	}
	if w.Width != 4 || w.Height != 3 || w.Name != "test" {
		t.Fatalf("unexpected world header %+v", w.Size())
	}
	if w.Elevation.At(1, 2) != 9 {
		t.Fatalf("elevation (1,2) = %v, want 9", w.Elevation.At(1, 2))
	}
	if w.Plates.At(1, 2) != 0 {
		t.Fatalf("plate (1,2) = %v, want 0", w.Plates.At(1, 2))
	}
	if w.HasOcean() {
		t.Fatal("ocean must be left for finalization")
	}
}

func TestJobRunsStagesInOrder(t *testing.T) {
	fin := &recordingFinalizer{}
	job := NewJob(params(), factoryFor(&fakeEngine{total: 4}), fin)
	job.Seeds = fixedSeeds(77)

	sink := task.NewChannel(64)
	h := task.Run(context.Background(), job, sink)
	var messages []string
	for ev := range sink.Events() {
		messages = append(messages, ev.Message)
	}
	if err := h.Err(); err != nil {
		t.Fatalf("job failed: %v", err)
	}

	if !slices.Equal(fin.calls, []string{"center", "noise", "borders", "ocean"}) {
		t.Fatalf("stage order = %v", fin.calls)
	}
	if !slices.Equal(fin.oceanAfter, []bool{false, false, false, true}) {
		t.Fatalf("ocean presence after stages = %v", fin.oceanAfter)
	}
	if fin.noiseSeed != 77 {
		t.Fatalf("noise seed = %d, want the drawn seed", fin.noiseSeed)
	}
	if job.World() == nil || !job.World().HasOcean() {
		t.Fatal("job must hand back the finalized world")
	}
	if messages[0] != "Plate simulation: step 1" || messages[3] != "Plate simulation: step 4" {
		t.Fatalf("unexpected step messages %v", messages[:4])
	}
	if messages[len(messages)-2] != "Plate simulation: completed" {
		t.Fatalf("missing completion status in %v", messages)
	}
}

func TestJobFailureIsNotSuccess(t *testing.T) {
	fin := &recordingFinalizer{failOnStage: "borders"}
	job := NewJob(params(), factoryFor(&fakeEngine{total: 1}), fin)

	sink := task.NewChannel(64)
	task.Run(context.Background(), job, sink)
	var last task.Event
	for ev := range sink.Events() {
		last = ev
	}
	if last.State != task.Failed || !errors.Is(last.Err, core.ErrExternal) {
		t.Fatalf("terminal event = %+v, want failed external error", last)
	}
	if !strings.Contains(last.Message, "forcing oceans") {
		t.Fatalf("failure must name the stage: %q", last.Message)
	}
	if job.World() != nil {
		t.Fatal("failed job must not publish a world")
	}
	if slices.Contains(fin.calls, "ocean") {
		t.Fatal("stages after a failure must not run")
	}
}

func TestJobPropagatesEngineFailure(t *testing.T) {
	job := NewJob(params(), factoryFor(&fakeEngine{total: 10, failAt: 3}), &recordingFinalizer{})
	err := task.Run(context.Background(), job, task.NewChannel(64)).Wait()
	if !errors.Is(err, core.ErrExternal) {
		t.Fatalf("expected ErrExternal, got %v", err)
	}
}

func TestJobStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fin := &recordingFinalizer{}
	job := NewJob(params(), factoryFor(&fakeEngine{total: 1000}), fin)
	err := task.Run(ctx, job, task.NewChannel(1)).Wait()
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(fin.calls) != 0 {
		t.Fatal("canceled job must not finalize")
	}
}
