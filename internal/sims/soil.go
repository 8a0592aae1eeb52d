package sims

import (
	"worldengine/internal/core"
	"worldengine/internal/simulation"
)

func init() {
	simulation.Register(permeabilitySim{})
	simulation.Register(biomeSim{})
}

type permeabilitySim struct{}

func (permeabilitySim) Kind() simulation.Kind { return simulation.Permeability }
func (permeabilitySim) Title() string         { return "Simulating permeability" }

func (permeabilitySim) IsApplicable(w *core.World) bool { return w.HasOcean() }

func (permeabilitySim) Execute(w *core.World, seed int64) error {
	return w.SetLayer(core.LayerPermeability, noiseField(w.Width, w.Height, seed, 8))
}

type biomeSim struct{}

func (biomeSim) Kind() simulation.Kind { return simulation.Biome }
func (biomeSim) Title() string         { return "Simulating biome" }

func (biomeSim) IsApplicable(w *core.World) bool {
	return w.HasLayer(core.LayerHumidity) && w.HasLayer(core.LayerTemperature)
}

func (biomeSim) Execute(w *core.World, _ int64) error {
	hum := w.Layer(core.LayerHumidity)
	temp := w.Layer(core.LayerTemperature)
	biomes := core.NewGrid[core.Biome](w.Width, w.Height)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.IsLand(x, y) {
				biomes.Set(x, y, core.BiomeOcean)
				continue
			}
			biomes.Set(x, y, Classify(temp.At(x, y), hum.At(x, y)))
		}
	}
	return w.SetBiome(biomes)
}

// Classify maps a land cell's temperature and humidity, both in [0,1], to a
// biome.
func Classify(temperature, humidity float64) core.Biome {
	switch {
	case temperature < 0.15:
		return core.BiomeIce
	case temperature < 0.3:
		return core.BiomeTundra
	case humidity < 0.2:
		return core.BiomeDesert
	case humidity < 0.35:
		return core.BiomeSteppe
	case humidity < 0.55:
		return core.BiomeGrassland
	case humidity < 0.8:
		return core.BiomeForest
	case temperature > 0.6:
		return core.BiomeRainforest
	default:
		return core.BiomeSwamp
	}
}
