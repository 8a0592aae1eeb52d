package tectonics

import (
	"slices"
	"testing"

	"worldengine/internal/generation"
)

func smallParams(seed int64) generation.EngineParams {
	p := generation.DefaultEngineParams(seed, 48, 32, 6)
	p.ErosionPeriod = 5
	return p
}

func runToEnd(t *testing.T, e *Engine) int {
	t.Helper()
	steps := 0
	for !e.Finished() {
		if err := e.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		steps++
		if steps > 10000 {
			t.Fatal("engine never finished")
		}
	}
	return steps
}

func TestEngineFinishesAfterAllCycles(t *testing.T) {
	e, err := New(smallParams(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	steps := runToEnd(t, e)
	if want := e.StepsPerCycle() * generation.DefaultCycleCount; steps != want {
		t.Fatalf("took %d steps, want %d", steps, want)
	}
	if len(e.Heightmap()) != 48*32 || len(e.PlatesMap()) != 48*32 {
		t.Fatal("output maps must cover the whole grid")
	}
}

func TestEngineIsDeterministic(t *testing.T) {
	a, _ := New(smallParams(9))
	b, _ := New(smallParams(9))
	runToEnd(t, a)
	runToEnd(t, b)
	if !slices.Equal(a.Heightmap(), b.Heightmap()) {
		t.Fatal("same seed must produce the same heightmap")
	}
	if !slices.Equal(a.PlatesMap(), b.PlatesMap()) {
		t.Fatal("same seed must produce the same plates")
	}
}

func TestHeightmapHonorsSeaLevel(t *testing.T) {
	e, _ := New(smallParams(3))
	runToEnd(t, e)
	below := 0
	hm := e.Heightmap()
	for _, v := range hm {
		if v < 1.0 {
			below++
		}
	}
	frac := float64(below) / float64(len(hm))
	if frac < 0.55 || frac > 0.7 {
		t.Fatalf("ocean fraction %.2f, want about %.2f", frac, generation.DefaultSeaLevel)
	}
}

func TestPlateIdsStayInRange(t *testing.T) {
	e, _ := New(smallParams(4))
	runToEnd(t, e)
	for _, id := range e.PlatesMap() {
		if id < 0 || id >= 6 {
			t.Fatalf("plate id %d outside [0,6)", id)
		}
	}
}

func TestNewRejectsEmptyMap(t *testing.T) {
	if _, err := New(generation.DefaultEngineParams(1, 0, 10, 3)); err == nil {
		t.Fatal("expected an error for a zero-width map")
	}
	if _, err := New(generation.DefaultEngineParams(1, 10, 10, 0)); err == nil {
		t.Fatal("expected an error for zero plates")
	}
}
