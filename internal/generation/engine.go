package generation

import "worldengine/internal/core"

// Engine is a stepwise plate-tectonics simulation. A handle is owned by one
// Process for its whole life and is never shared between goroutines.
type Engine interface {
	Finished() bool
	Step() error
	// Heightmap returns width*height elevations in row-major order. Only
	// valid once Finished reports true.
	Heightmap() []float64
	// PlatesMap returns width*height plate ids in row-major order. Only
	// valid once Finished reports true.
	PlatesMap() []int
}

// EngineParams are the creation parameters of an Engine.
type EngineParams struct {
	Seed           int64
	Width          int
	Height         int
	SeaLevel       float64
	ErosionPeriod  int
	FoldingRatio   float64
	AggrOverlapAbs int
	AggrOverlapRel float64
	CycleCount     int
	NumPlates      int
}

// Physical defaults used for every generated world.
const (
	DefaultSeaLevel       = 0.65
	DefaultErosionPeriod  = 60
	DefaultFoldingRatio   = 0.02
	DefaultAggrOverlapAbs = 1000000
	DefaultAggrOverlapRel = 0.33
	DefaultCycleCount     = 2
)

// DefaultEngineParams fills the fixed physical parameters around the
// user-chosen ones.
func DefaultEngineParams(seed int64, width, height, numPlates int) EngineParams {
	return EngineParams{
		Seed:           seed,
		Width:          width,
		Height:         height,
		SeaLevel:       DefaultSeaLevel,
		ErosionPeriod:  DefaultErosionPeriod,
		FoldingRatio:   DefaultFoldingRatio,
		AggrOverlapAbs: DefaultAggrOverlapAbs,
		AggrOverlapRel: DefaultAggrOverlapRel,
		CycleCount:     DefaultCycleCount,
		NumPlates:      numPlates,
	}
}

// EngineFactory creates a fresh Engine.
type EngineFactory func(EngineParams) (Engine, error)

// Finalizer turns the raw tectonics output into a usable world. Each stage
// mutates the world in place and assumes the previous stages have run.
type Finalizer interface {
	CenterLand(w *core.World) error
	AddNoiseToElevation(w *core.World, seed int64) error
	PlaceOceansAtMapBorders(w *core.World) error
	InitializeOceanAndThresholds(w *core.World) error
}
