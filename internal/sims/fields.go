// Package sims provides the built-in climate and geography simulations.
// Importing it registers every simulation with the simulation package.
package sims

import (
	"math"

	"github.com/aquilax/go-perlin"

	"worldengine/internal/core"
)

var neighbors8 = [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// latitude returns 0 on the equator (middle row) and 1 at either pole.
func latitude(y, h int) float64 {
	if h <= 1 {
		return 0
	}
	return math.Abs(2*float64(y)/float64(h-1) - 1)
}

// normalize rescales g into [0,1]. A flat grid becomes all zeros.
func normalize(g *core.Grid[float64]) {
	cells := g.Cells()
	if len(cells) == 0 {
		return
	}
	lo, hi := cells[0], cells[0]
	for _, v := range cells {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	for i, v := range cells {
		if span == 0 {
			cells[i] = 0
			continue
		}
		cells[i] = (v - lo) / span
	}
}

// noiseField samples seeded perlin noise over the grid, normalized to [0,1].
// scale is the number of noise periods across the map width.
func noiseField(w, h int, seed int64, scale float64) *core.Grid[float64] {
	g := core.NewGrid[float64](w, h)
	p := perlin.NewPerlin(2, 2, 6, seed)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, p.Noise2D(float64(x)/float64(w)*scale, float64(y)/float64(w)*scale))
		}
	}
	normalize(g)
	return g
}

// altitudeOf returns a function reporting how far above sea level a cell
// is, in [0,1] of the world's land relief. Ocean cells report 0.
func altitudeOf(w *core.World) func(x, y int) float64 {
	top := w.MaxElevation()
	sea := w.Thresholds.Sea
	return func(x, y int) float64 {
		if top <= sea || !w.IsLand(x, y) {
			return 0
		}
		return clamp01((w.Elevation.At(x, y) - sea) / (top - sea))
	}
}

// lowestNeighbor returns the index of the lowest 8-neighbour of (x, y), or
// -1 when no neighbour is lower. The map wraps horizontally.
func lowestNeighbor(elev *core.Grid[float64], x, y int) int {
	best := -1
	bestE := elev.At(x, y)
	for _, d := range neighbors8 {
		ny := y + d[1]
		if ny < 0 || ny >= elev.H {
			continue
		}
		nx, _ := elev.Wrap(x+d[0], ny)
		if e := elev.At(nx, ny); e < bestE {
			best, bestE = elev.Index(nx, ny), e
		}
	}
	return best
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
