package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"worldengine/internal/core"
)

func sampleWorld() *core.World {
	w := core.NewWorld("sample", 77, 3, 2, 4, 1)
	elev, _ := core.FromFlat([]float64{0.5, 1.5, 2, 0.2, 1.1, 3}, 3, 2)
	plates, _ := core.FromFlat([]int{0, 1, 1, 2, 3, 3}, 3, 2)
	ocean, _ := core.FromFlat([]bool{true, false, false, true, false, false}, 3, 2)
	rain, _ := core.FromFlat([]float64{0, 0.2, 0.4, 0.6, 0.8, 1}, 3, 2)
	_ = w.SetElevation(elev)
	_ = w.SetPlates(plates)
	_ = w.SetOcean(ocean)
	_ = w.SetLayer(core.LayerPrecipitation, rain)
	w.Thresholds = core.Thresholds{Sea: 1, Plain: 2, Hill: 2.5}
	return w
}

func TestSaveOpenKeepsEveryLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), WithExt("sample"))
	orig := sampleWorld()
	if err := Save(orig, path); err != nil {
		t.Fatal(err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != orig.Name || got.Seed != orig.Seed || got.NumPlates != orig.NumPlates {
		t.Fatalf("header mismatch: %+v", got)
	}
	if got.Thresholds != orig.Thresholds {
		t.Fatalf("thresholds %+v, want %+v", got.Thresholds, orig.Thresholds)
	}
	if !slices.Equal(got.Elevation.Cells(), orig.Elevation.Cells()) ||
		!slices.Equal(got.Plates.Cells(), orig.Plates.Cells()) ||
		!slices.Equal(got.Ocean.Cells(), orig.Ocean.Cells()) {
		t.Fatal("rasters changed across save/open")
	}
	if !got.HasLayer(core.LayerPrecipitation) || got.HasLayer(core.LayerHumidity) || got.HasBiome() {
		t.Fatal("layer set changed across save/open")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not gzip")))
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWithExt(t *testing.T) {
	if WithExt("a.world") != "a.world" || WithExt("a") != "a.world" || WithExt("a.WORLD") != "a.WORLD" {
		t.Fatal("WithExt mishandles extensions")
	}
}

func TestCaptureDoesNotAliasWorld(t *testing.T) {
	w := sampleWorld()
	snap := capture(w)

	w.Lock()
	w.Elevation.Set(0, 0, 99)
	w.Plates.Set(0, 0, 3)
	w.Ocean.Set(0, 0, false)
	w.Layer(core.LayerPrecipitation).Set(0, 0, 0.9)
	w.Unlock()

	if snap.Elevation[0] != 0.5 || snap.Plates[0] != 0 || !snap.Ocean[0] || snap.Layers[core.LayerPrecipitation][0] != 0 {
		t.Fatalf("snapshot follows later writes: elev=%v plate=%v ocean=%v rain=%v",
			snap.Elevation[0], snap.Plates[0], snap.Ocean[0], snap.Layers[core.LayerPrecipitation][0])
	}
}
