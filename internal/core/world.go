package core

import (
	"fmt"
	"math"
	"sync"
)

// World is the raster state of a generated planet. It is handed from the
// generation task to its caller and then mutated in place by simulations.
//
// Writers (simulations) hold the write lock for the duration of a mutation;
// readers (renderers, export, persistence) hold the read lock.
type World struct {
	sync.RWMutex

	Name       string
	Seed       int64
	Width      int
	Height     int
	NumPlates  int
	OceanLevel float64

	Elevation  *Grid[float64]
	Plates     *Grid[int]
	Ocean      *Grid[bool]
	Thresholds Thresholds
	Biome      *Grid[Biome]

	layers map[Layer]*Grid[float64]
}

// NewWorld returns an empty world of the given size. Elevation and plates are
// set separately once the tectonics engine has produced them.
func NewWorld(name string, seed int64, w, h, numPlates int, oceanLevel float64) *World {
	return &World{
		Name:       name,
		Seed:       seed,
		Width:      w,
		Height:     h,
		NumPlates:  numPlates,
		OceanLevel: oceanLevel,
		layers:     make(map[Layer]*Grid[float64]),
	}
}

// Size returns the world dimensions.
func (w *World) Size() Size { return Size{W: w.Width, H: w.Height} }

// SetElevation installs the elevation grid.
func (w *World) SetElevation(g *Grid[float64]) error {
	if !g.Matches(w.Width, w.Height) {
		return w.sizeError("elevation")
	}
	w.Elevation = g
	return nil
}

// SetPlates installs the plate id grid.
func (w *World) SetPlates(g *Grid[int]) error {
	if !g.Matches(w.Width, w.Height) {
		return w.sizeError("plates")
	}
	w.Plates = g
	return nil
}

// SetOcean installs the ocean mask.
func (w *World) SetOcean(g *Grid[bool]) error {
	if !g.Matches(w.Width, w.Height) {
		return w.sizeError("ocean")
	}
	w.Ocean = g
	return nil
}

// SetBiome installs the biome grid.
func (w *World) SetBiome(g *Grid[Biome]) error {
	if !g.Matches(w.Width, w.Height) {
		return w.sizeError("biome")
	}
	w.Biome = g
	return nil
}

// SetLayer adds or overwrites a named layer.
func (w *World) SetLayer(name Layer, g *Grid[float64]) error {
	if !g.Matches(w.Width, w.Height) {
		return w.sizeError(string(name))
	}
	if w.layers == nil {
		w.layers = make(map[Layer]*Grid[float64])
	}
	w.layers[name] = g
	return nil
}

// Layer returns the named layer, or nil if it has not been produced yet.
func (w *World) Layer(name Layer) *Grid[float64] { return w.layers[name] }

// HasLayer reports whether the named layer is present.
func (w *World) HasLayer(name Layer) bool { return w.layers[name] != nil }

// HasOcean reports whether the ocean mask has been initialized.
func (w *World) HasOcean() bool { return w.Ocean != nil }

// HasBiome reports whether biomes have been assigned.
func (w *World) HasBiome() bool { return w.Biome != nil }

// MinElevation returns the lowest elevation value.
func (w *World) MinElevation() float64 {
	lo, _ := w.elevationRange()
	return lo
}

// MaxElevation returns the highest elevation value.
func (w *World) MaxElevation() float64 {
	_, hi := w.elevationRange()
	return hi
}

func (w *World) elevationRange() (float64, float64) {
	if w.Elevation == nil || len(w.Elevation.data) == 0 {
		return 0, 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, e := range w.Elevation.data {
		if e < lo {
			lo = e
		}
		if e > hi {
			hi = e
		}
	}
	return lo, hi
}

// ActualPlateCount is the number of distinct plate ids, assuming ids are
// assigned densely from zero.
func (w *World) ActualPlateCount() int {
	if w.Plates == nil {
		return 0
	}
	top := -1
	for _, p := range w.Plates.data {
		if p > top {
			top = p
		}
	}
	return top + 1
}

// IsLand reports whether (x, y) is land. Once the ocean mask exists it is
// authoritative; before that the ocean level decides.
func (w *World) IsLand(x, y int) bool {
	if w.Ocean != nil {
		return !w.Ocean.At(x, y)
	}
	if w.Elevation == nil {
		return false
	}
	return w.Elevation.At(x, y) > w.OceanLevel
}

// IsOcean is the complement of IsLand.
func (w *World) IsOcean(x, y int) bool { return !w.IsLand(x, y) }

// LandFraction returns the share of land cells in [0,1].
func (w *World) LandFraction() float64 {
	total := w.Width * w.Height
	if total == 0 {
		return 0
	}
	land := 0
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if w.IsLand(x, y) {
				land++
			}
		}
	}
	return float64(land) / float64(total)
}

func (w *World) sizeError(what string) error {
	return fmt.Errorf("%w: %s grid does not match world size %dx%d", ErrInvalidArgument, what, w.Width, w.Height)
}
