package core

// Size describes the dimensions of a world grid.
type Size struct {
	W int
	H int
}

// Layer names an optional raster produced by a simulation.
type Layer string

const (
	LayerPrecipitation Layer = "precipitation"
	LayerHumidity      Layer = "humidity"
	LayerTemperature   Layer = "temperature"
	LayerPermeability  Layer = "permeability"
	LayerWatermap      Layer = "watermap"
	LayerIrrigation    Layer = "irrigation"
)

// Layers lists every known layer in a stable order.
func Layers() []Layer {
	return []Layer{
		LayerPrecipitation,
		LayerHumidity,
		LayerTemperature,
		LayerPermeability,
		LayerWatermap,
		LayerIrrigation,
	}
}

// Thresholds holds the elevation bands derived once the ocean is known.
type Thresholds struct {
	Sea   float64
	Plain float64
	Hill  float64
}

// Biome enumerates the coarse biome classes assigned per cell.
type Biome int

const (
	BiomeOcean Biome = iota
	BiomeIce
	BiomeTundra
	BiomeDesert
	BiomeSteppe
	BiomeGrassland
	BiomeForest
	BiomeRainforest
	BiomeSwamp
)

var biomeNames = [...]string{
	BiomeOcean:      "ocean",
	BiomeIce:        "ice",
	BiomeTundra:     "tundra",
	BiomeDesert:     "desert",
	BiomeSteppe:     "steppe",
	BiomeGrassland:  "grassland",
	BiomeForest:     "forest",
	BiomeRainforest: "rainforest",
	BiomeSwamp:      "swamp",
}

func (b Biome) String() string {
	if b < 0 || int(b) >= len(biomeNames) {
		return "unknown"
	}
	return biomeNames[b]
}
