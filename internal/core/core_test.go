package core

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestFromFlatReshapesRowMajor(t *testing.T) {
	g, err := FromFlat([]int{0, 1, 2, 3, 4, 5}, 3, 2)
	if err != nil {
		t.Fatalf("FromFlat: %v", err)
	}
	if g.At(2, 0) != 2 || g.At(0, 1) != 3 || g.At(2, 1) != 5 {
		t.Fatalf("unexpected layout %v", g.Cells())
	}

	if _, err := FromFlat([]int{1, 2, 3}, 2, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for short slice, got %v", err)
	}
}

func TestRollWrapsBothAxes(t *testing.T) {
	g, _ := FromFlat([]int{
		0, 1, 2,
		3, 4, 5,
	}, 3, 2)
	g.Roll(-1, -1)
	want := []int{
		4, 5, 3,
		1, 2, 0,
	}
	if !slices.Equal(g.Cells(), want) {
		t.Fatalf("Roll(-1,-1) = %v, want %v", g.Cells(), want)
	}
}

func TestWorldAccessors(t *testing.T) {
	w := NewWorld("t", 1, 2, 2, 3, 0.5)
	elev, _ := FromFlat([]float64{0.1, 0.9, -2, 4}, 2, 2)
	plates, _ := FromFlat([]int{0, 2, 1, 2}, 2, 2)
	if err := w.SetElevation(elev); err != nil {
		t.Fatalf("SetElevation: %v", err)
	}
	if err := w.SetPlates(plates); err != nil {
		t.Fatalf("SetPlates: %v", err)
	}
	if w.MinElevation() != -2 || w.MaxElevation() != 4 {
		t.Fatalf("range = [%v,%v], want [-2,4]", w.MinElevation(), w.MaxElevation())
	}
	if got := w.ActualPlateCount(); got != 3 {
		t.Fatalf("ActualPlateCount = %d, want 3", got)
	}
	if w.IsLand(0, 0) || !w.IsLand(1, 0) {
		t.Fatal("land before ocean mask must follow the ocean level")
	}

	ocean := NewGrid[bool](2, 2)
	ocean.Fill(true)
	if err := w.SetOcean(ocean); err != nil {
		t.Fatalf("SetOcean: %v", err)
	}
	if w.IsLand(1, 0) {
		t.Fatal("ocean mask must take precedence over elevation")
	}
	if w.LandFraction() != 0 {
		t.Fatalf("LandFraction = %v, want 0", w.LandFraction())
	}
}

func TestWorldRejectsMismatchedGrids(t *testing.T) {
	w := NewWorld("t", 1, 4, 4, 2, 1)
	if err := w.SetElevation(NewGrid[float64](4, 3)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := w.SetLayer(LayerHumidity, NewGrid[float64](3, 4)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if w.HasLayer(LayerHumidity) {
		t.Fatal("rejected layer must not be stored")
	}
}

func TestEmptyWorldHasNoPlates(t *testing.T) {
	w := NewWorld("t", 1, 4, 4, 2, 1)
	if w.ActualPlateCount() != 0 {
		t.Fatalf("ActualPlateCount = %d, want 0", w.ActualPlateCount())
	}
}

func TestValidateLimits(t *testing.T) {
	l := DefaultLimits()
	p := DefaultGenerationParams(42)
	if err := p.Validate(l); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if p.Name != "world_seed_42" {
		t.Fatalf("Name = %q", p.Name)
	}

	cases := []GenerationParams{
		{Seed: 70000, Name: "a", Width: 512, Height: 512, NumPlates: 10},
		{Seed: 1, Name: "a", Width: 99, Height: 512, NumPlates: 10},
		{Seed: 1, Name: "a", Width: 512, Height: 8193, NumPlates: 10},
		{Seed: 1, Name: "a", Width: 512, Height: 512, NumPlates: 1},
		{Seed: 1, Name: "", Width: 512, Height: 512, NumPlates: 10},
	}
	for i, c := range cases {
		if err := c.Validate(l); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}

func TestRNGSeedStaysInRange(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		if s := r.Seed(4096); s < 0 || s > 4096 {
			t.Fatalf("seed %d outside [0,4096]", s)
		}
	}
	if NewRNG(3).Seed(100) != NewRNG(3).Seed(100) {
		t.Fatal("RNG must be deterministic for a fixed seed")
	}
}

func TestRNGDrawsAreReproducible(t *testing.T) {
	a, b := NewRNG(11), NewRNG(11)
	for i := 0; i < 100; i++ {
		fa, fb := a.Float64(), b.Float64()
		if fa != fb {
			t.Fatalf("draw %d: %v vs %v", i, fa, fb)
		}
		if fa < 0 || fa >= 1 {
			t.Fatalf("Float64 = %v outside [0,1)", fa)
		}
		na, nb := a.IntN(7), b.IntN(7)
		if na != nb || na < 0 || na >= 7 {
			t.Fatalf("IntN = %d and %d, want equal values in [0,7)", na, nb)
		}
	}
	if NewRNG(1).IntN(0) != 0 {
		t.Fatal("IntN(0) must be 0")
	}
}

func TestIntervalGates(t *testing.T) {
	now := time.Unix(0, 0)
	iv := NewInterval(time.Second)
	iv.now = func() time.Time { return now }

	if !iv.Ready() {
		t.Fatal("first call must pass")
	}
	now = now.Add(500 * time.Millisecond)
	if iv.Ready() {
		t.Fatal("call inside the period must be held back")
	}
	now = now.Add(600 * time.Millisecond)
	if !iv.Ready() {
		t.Fatal("call after the period must pass")
	}
	iv.Reset()
	if !iv.Ready() {
		t.Fatal("Reset must release the next call")
	}
}
