package sims

import (
	"math"
	"sort"

	"worldengine/internal/core"
	"worldengine/internal/simulation"
)

func init() {
	simulation.Register(erosionSim{})
	simulation.Register(watermapSim{})
	simulation.Register(irrigationSim{})
}

const (
	erosionStrength  = 0.05
	irrigationRadius = 4
)

type erosionSim struct{}

func (erosionSim) Kind() simulation.Kind { return simulation.Erosion }
func (erosionSim) Title() string         { return "Simulating erosion" }

func (erosionSim) IsApplicable(w *core.World) bool {
	return w.HasLayer(core.LayerPrecipitation)
}

// Execute carries sediment from every land cell towards its lowest
// neighbour, in proportion to rainfall and slope. A cell never drops below
// the neighbour it drains into.
func (erosionSim) Execute(w *core.World, seed int64) error {
	rng := core.NewRNG(seed)
	precip := w.Layer(core.LayerPrecipitation)
	elev := w.Elevation
	next := elev.Clone()
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.IsLand(x, y) {
				continue
			}
			low := lowestNeighbor(elev, x, y)
			if low < 0 {
				continue
			}
			drop := elev.At(x, y) - elev.Cells()[low]
			jitter := 0.9 + 0.2*rng.Float64()
			amount := drop * precip.At(x, y) * erosionStrength * jitter
			idx := elev.Index(x, y)
			next.Cells()[idx] -= amount
			next.Cells()[low] += amount * 0.5
		}
	}
	return w.SetElevation(next)
}

type watermapSim struct{}

func (watermapSim) Kind() simulation.Kind { return simulation.Watermap }
func (watermapSim) Title() string         { return "Simulating water flow" }

func (watermapSim) IsApplicable(w *core.World) bool {
	return w.HasLayer(core.LayerPrecipitation)
}

// Execute accumulates rainfall downhill: land cells are visited from the
// highest to the lowest and pass their water to the lowest neighbour.
func (watermapSim) Execute(w *core.World, seed int64) error {
	rng := core.NewRNG(seed)
	precip := w.Layer(core.LayerPrecipitation)
	elev := w.Elevation
	flow := core.NewGrid[float64](w.Width, w.Height)

	order := make([]int, 0, len(flow.Cells()))
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if w.IsLand(x, y) {
				idx := flow.Index(x, y)
				flow.Cells()[idx] = precip.Cells()[idx] * (0.9 + 0.2*rng.Float64())
				order = append(order, idx)
			}
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return elev.Cells()[order[i]] > elev.Cells()[order[j]]
	})
	for _, idx := range order {
		x, y := idx%w.Width, idx/w.Width
		low := lowestNeighbor(elev, x, y)
		if low < 0 {
			continue
		}
		lx, ly := low%w.Width, low/w.Width
		if w.IsLand(lx, ly) {
			flow.Cells()[low] += flow.Cells()[idx]
		}
	}
	return w.SetLayer(core.LayerWatermap, flow)
}

type irrigationSim struct{}

func (irrigationSim) Kind() simulation.Kind { return simulation.Irrigation }
func (irrigationSim) Title() string         { return "Simulating irrigation" }

func (irrigationSim) IsApplicable(w *core.World) bool {
	return w.HasLayer(core.LayerWatermap)
}

// Execute spreads the water flow of every cell over its surroundings,
// weighted by inverse distance.
func (irrigationSim) Execute(w *core.World, _ int64) error {
	water := w.Layer(core.LayerWatermap)
	irr := core.NewGrid[float64](w.Width, w.Height)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			v := water.At(x, y)
			if v == 0 {
				continue
			}
			for dy := -irrigationRadius; dy <= irrigationRadius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= w.Height {
					continue
				}
				for dx := -irrigationRadius; dx <= irrigationRadius; dx++ {
					nx, _ := irr.Wrap(x+dx, ny)
					dist := math.Hypot(float64(dx), float64(dy))
					irr.Set(nx, ny, irr.At(nx, ny)+v/(1+dist))
				}
			}
		}
	}
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.IsLand(x, y) {
				irr.Set(x, y, 0)
			}
		}
	}
	normalize(irr)
	return w.SetLayer(core.LayerIrrigation, irr)
}
