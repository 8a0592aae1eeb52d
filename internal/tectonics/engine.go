// Package tectonics is a small stepwise plate simulation that satisfies
// generation.Engine. Plates are Voronoi regions on a map that wraps
// horizontally; each step moves whole plates, folds crust where they
// collide and opens oceanic rifts where they separate.
package tectonics

import (
	"fmt"
	"math"
	"sort"

	"github.com/aquilax/go-perlin"

	"worldengine/internal/core"
	"worldengine/internal/generation"
)

const (
	continentalBase = 1.0
	oceanicBase     = 0.35
	riftHeight      = 0.1
	minHeight       = 0.01
	foldGain        = 15.0
	erosionRate     = 0.2
)

// Engine implements generation.Engine.
type Engine struct {
	p    generation.EngineParams
	w, h int

	height []float64
	plates []int

	vel   [][2]float64
	off   [][2]float64
	alive []bool

	stepsPerCycle int
	iter          int
	cycle         int

	rng *core.RNG
}

// New builds the initial plate layout and relief for p.
func New(p generation.EngineParams) (*Engine, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", p.Width, p.Height)
	}
	if p.NumPlates <= 0 {
		return nil, fmt.Errorf("invalid plate count %d", p.NumPlates)
	}
	if p.CycleCount <= 0 {
		p.CycleCount = 1
	}
	if p.ErosionPeriod <= 0 {
		p.ErosionPeriod = generation.DefaultErosionPeriod
	}
	total := p.Width * p.Height
	e := &Engine{
		p:             p,
		w:             p.Width,
		h:             p.Height,
		height:        make([]float64, total),
		plates:        make([]int, total),
		vel:           make([][2]float64, p.NumPlates),
		off:           make([][2]float64, p.NumPlates),
		alive:         make([]bool, p.NumPlates),
		stepsPerCycle: 2 * p.ErosionPeriod,
		rng:           core.NewRNG(p.Seed),
	}
	e.seedPlates()
	e.randomizeMotion()
	return e, nil
}

// Factory adapts New to generation.EngineFactory.
func Factory(p generation.EngineParams) (generation.Engine, error) {
	return New(p)
}

func (e *Engine) seedPlates() {
	type center struct{ x, y int }
	centers := make([]center, e.p.NumPlates)
	continental := make([]bool, e.p.NumPlates)
	for i := range centers {
		centers[i] = center{e.rng.IntN(e.w), e.rng.IntN(e.h)}
		continental[i] = e.rng.Float64() < 0.5
		e.alive[i] = true
	}

	noise := perlin.NewPerlin(2, 2, 5, e.p.Seed)
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			best, bestDist := 0, math.MaxInt
			for id, c := range centers {
				dx := abs(x - c.x)
				if wrapped := e.w - dx; wrapped < dx {
					dx = wrapped
				}
				dy := y - c.y
				if d := dx*dx + dy*dy; d < bestDist {
					best, bestDist = id, d
				}
			}
			idx := y*e.w + x
			e.plates[idx] = best
			base := oceanicBase
			if continental[best] {
				base = continentalBase
			}
			n := noise.Noise2D(float64(x)/float64(e.w)*4, float64(y)/float64(e.h)*4)
			e.height[idx] = math.Max(minHeight, base+0.3*n)
		}
	}
}

func (e *Engine) randomizeMotion() {
	for id := range e.vel {
		angle := e.rng.Float64() * 2 * math.Pi
		speed := 0.1 + e.rng.Float64()*0.4
		e.vel[id] = [2]float64{math.Cos(angle) * speed, math.Sin(angle) * speed}
		e.off[id] = [2]float64{}
	}
}

// Finished reports whether every cycle has run.
func (e *Engine) Finished() bool { return e.cycle >= e.p.CycleCount }

// Step runs one increment of plate motion.
func (e *Engine) Step() error {
	if e.Finished() {
		return nil
	}
	moves := e.plateMoves()

	total := len(e.height)
	owner := make([]int, total)
	height := make([]float64, total)
	for i := range owner {
		owner[i] = -1
	}
	area := make([]int, len(e.alive))
	collisions := make(map[[2]int]int)

	for i, id := range e.plates {
		area[id]++
		x, y := i%e.w, i/e.w
		nx := ((x+moves[id][0])%e.w + e.w) % e.w
		ny := y + moves[id][1]
		if ny < 0 || ny >= e.h {
			nx, ny = x, y
		}
		j := ny*e.w + nx
		switch owner[j] {
		case -1:
			owner[j] = id
			height[j] = e.height[i]
		case id:
			height[j] = math.Max(height[j], e.height[i])
		default:
			height[j] += e.height[i] * e.p.FoldingRatio * foldGain
			collisions[pairKey(id, owner[j])]++
		}
	}
	for j := range owner {
		if owner[j] == -1 {
			owner[j] = e.plates[j]
			height[j] = riftHeight
		}
	}
	e.plates, e.height = owner, height
	e.aggregate(collisions, area)

	e.iter++
	if e.iter%e.p.ErosionPeriod == 0 {
		e.erode()
	}
	if e.iter >= e.stepsPerCycle {
		e.iter = 0
		e.cycle++
		e.randomizeMotion()
	}
	return nil
}

func (e *Engine) plateMoves() [][2]int {
	moves := make([][2]int, len(e.vel))
	for id := range e.vel {
		if !e.alive[id] {
			continue
		}
		for axis := 0; axis < 2; axis++ {
			e.off[id][axis] += e.vel[id][axis]
			d := int(e.off[id][axis])
			e.off[id][axis] -= float64(d)
			moves[id][axis] = d
		}
	}
	return moves
}

// aggregate merges a plate into its neighbour when their overlap passes
// either the absolute or the relative threshold.
func (e *Engine) aggregate(collisions map[[2]int]int, area []int) {
	if len(collisions) == 0 {
		return
	}
	keys := make([][2]int, 0, len(collisions))
	for k := range collisions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, k := range keys {
		a, b := k[0], k[1]
		if !e.alive[a] || !e.alive[b] {
			continue
		}
		small, large := a, b
		if area[a] > area[b] {
			small, large = b, a
		}
		count := collisions[k]
		if count < e.p.AggrOverlapAbs && float64(count) < e.p.AggrOverlapRel*float64(area[small]) {
			continue
		}
		for i, id := range e.plates {
			if id == small {
				e.plates[i] = large
			}
		}
		area[large] += area[small]
		area[small] = 0
		e.alive[small] = false
	}
}

func (e *Engine) erode() {
	next := make([]float64, len(e.height))
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			sum, n := 0.0, 0
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx := ((x+d[0])%e.w + e.w) % e.w
				ny := y + d[1]
				if ny < 0 || ny >= e.h {
					continue
				}
				sum += e.height[ny*e.w+nx]
				n++
			}
			idx := y*e.w + x
			cur := e.height[idx]
			next[idx] = math.Max(minHeight, cur+(sum/float64(n)-cur)*erosionRate)
		}
	}
	e.height = next
}

// Heightmap returns the relief rescaled so that a SeaLevel share of cells
// lies below 1.0.
func (e *Engine) Heightmap() []float64 {
	out := make([]float64, len(e.height))
	copy(out, e.height)
	if len(out) == 0 {
		return out
	}
	sorted := make([]float64, len(out))
	copy(sorted, out)
	sort.Float64s(sorted)
	idx := int(e.p.SeaLevel * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	level := sorted[idx]
	if level <= 0 {
		return out
	}
	for i := range out {
		out[i] /= level
	}
	return out
}

// PlatesMap returns the plate id of every cell.
func (e *Engine) PlatesMap() []int {
	out := make([]int, len(e.plates))
	copy(out, e.plates)
	return out
}

// StepsPerCycle returns the number of increments per cycle.
func (e *Engine) StepsPerCycle() int { return e.stepsPerCycle }

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
