// Package worldbuild post-processes raw tectonics output: it recenters the
// land, roughens the relief, sinks the map borders and derives the ocean.
package worldbuild

import (
	"fmt"
	"math"
	"sort"

	"github.com/aquilax/go-perlin"

	"worldengine/internal/core"
)

const (
	noiseOctaves   = 8
	maxOceanBorder = 30
	plainShare     = 0.10
	hillShare      = 0.03
)

// Library implements generation.Finalizer.
type Library struct{}

// CenterLand rolls the map so that the row and the column with the smallest
// elevation sum become the first ones. Landmasses then no longer straddle
// the horizontal wrap.
func (Library) CenterLand(w *core.World) error {
	if err := requireRelief(w); err != nil {
		return err
	}
	rowSums := make([]float64, w.Height)
	colSums := make([]float64, w.Width)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			e := w.Elevation.At(x, y)
			rowSums[y] += e
			colSums[x] += e
		}
	}
	minY, minX := argmin(rowSums), argmin(colSums)
	w.Elevation.Roll(-minX, -minY)
	w.Plates.Roll(-minX, -minY)
	return nil
}

// AddNoiseToElevation adds seeded fractal noise to break up straight plate
// boundaries.
func (Library) AddNoiseToElevation(w *core.World, seed int64) error {
	if err := requireRelief(w); err != nil {
		return err
	}
	freq := 16.0 * noiseOctaves
	noise := perlin.NewPerlin(2, 2, noiseOctaves, seed)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			n := noise.Noise2D(float64(x)/freq*2, float64(y)/freq*2)
			w.Elevation.Set(x, y, w.Elevation.At(x, y)+n)
		}
	}
	return nil
}

// OceanBorder is the depth, in cells, of the band sunk along every edge.
func OceanBorder(width, height int) int {
	return int(math.Min(maxOceanBorder, math.Max(float64(width)/5, float64(height)/5)))
}

// PlaceOceansAtMapBorders scales elevation down linearly towards every edge,
// reaching zero on the outermost row and column.
func (Library) PlaceOceansAtMapBorders(w *core.World) error {
	if err := requireRelief(w); err != nil {
		return err
	}
	border := OceanBorder(w.Width, w.Height)
	if border <= 0 {
		return nil
	}
	sink := func(x, y, i int) {
		w.Elevation.Set(x, y, w.Elevation.At(x, y)*float64(i)/float64(border))
	}
	for x := 0; x < w.Width; x++ {
		for i := 0; i < border && i < w.Height; i++ {
			sink(x, i, i)
			sink(x, w.Height-i-1, i)
		}
	}
	for y := 0; y < w.Height; y++ {
		for i := 0; i < border && i < w.Width; i++ {
			sink(i, y, i)
			sink(w.Width-i-1, y, i)
		}
	}
	return nil
}

// InitializeOceanAndThresholds floods the ocean inwards from the map edges
// and derives the plain and hill thresholds from the remaining land.
func (Library) InitializeOceanAndThresholds(w *core.World) error {
	if err := requireRelief(w); err != nil {
		return err
	}
	ocean := FillOcean(w.Elevation, w.OceanLevel)
	if err := w.SetOcean(ocean); err != nil {
		return err
	}
	w.Thresholds = core.Thresholds{
		Sea:   w.OceanLevel,
		Plain: FindThreshold(w.Elevation, ocean, plainShare),
		Hill:  FindThreshold(w.Elevation, ocean, hillShare),
	}
	return nil
}

// FillOcean marks every cell at or below level that is connected to a map
// edge through such cells, using the 8-neighbourhood.
func FillOcean(elev *core.Grid[float64], level float64) *core.Grid[bool] {
	ocean := core.NewGrid[bool](elev.W, elev.H)
	queue := make([]int, 0, 2*(elev.W+elev.H))
	push := func(x, y int) {
		if x < 0 || y < 0 || x >= elev.W || y >= elev.H {
			return
		}
		if ocean.At(x, y) || elev.At(x, y) > level {
			return
		}
		ocean.Set(x, y, true)
		queue = append(queue, elev.Index(x, y))
	}
	for x := 0; x < elev.W; x++ {
		push(x, 0)
		push(x, elev.H-1)
	}
	for y := 0; y < elev.H; y++ {
		push(0, y)
		push(elev.W-1, y)
	}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		x, y := idx%elev.W, idx/elev.W
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 {
					push(x+dx, y+dy)
				}
			}
		}
	}
	return ocean
}

// FindThreshold returns the elevation above which the given share of land
// cells lies. It returns +Inf when there is no land.
func FindThreshold(elev *core.Grid[float64], ocean *core.Grid[bool], share float64) float64 {
	var land []float64
	for i, e := range elev.Cells() {
		if !ocean.Cells()[i] {
			land = append(land, e)
		}
	}
	if len(land) == 0 {
		return math.Inf(1)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(land)))
	idx := int(share * float64(len(land)))
	if idx >= len(land) {
		idx = len(land) - 1
	}
	return land[idx]
}

func requireRelief(w *core.World) error {
	if w.Elevation == nil || w.Plates == nil {
		return fmt.Errorf("%w: world %q has no relief", core.ErrInvalidArgument, w.Name)
	}
	return nil
}

func argmin(vs []float64) int {
	best := 0
	for i, v := range vs {
		if v < vs[best] {
			best = i
		}
	}
	return best
}
