package config

import (
	"flag"

	"worldengine/internal/core"
)

// Generate holds the flags describing a world to generate.
type Generate struct {
	Seed   int64
	Name   string
	Width  int
	Height int
	Plates int
}

// NewGenerate returns the defaults of the generate dialog; a negative seed
// means "pick one".
func NewGenerate() *Generate {
	d := core.DefaultGenerationParams(0)
	return &Generate{Seed: -1, Width: d.Width, Height: d.Height, Plates: d.NumPlates}
}

// Bind attaches the configuration to the provided FlagSet.
func (g *Generate) Bind(fs *flag.FlagSet) {
	fs.Int64Var(&g.Seed, "seed", g.Seed, "world seed (negative picks a random one)")
	fs.StringVar(&g.Name, "name", g.Name, "world name (default world_seed_<seed>)")
	fs.IntVar(&g.Width, "width", g.Width, "world width in cells")
	fs.IntVar(&g.Height, "height", g.Height, "world height in cells")
	fs.IntVar(&g.Plates, "plates", g.Plates, "number of tectonic plates")
}

// Params resolves the flags into generation parameters, drawing a seed in
// the limits when none was given.
func (g *Generate) Params(seeds core.Seeds, l core.Limits) core.GenerationParams {
	seed := g.Seed
	if seed < 0 {
		seed = int64(l.Seed.Min) + seeds.Seed(int64(l.Seed.Max-l.Seed.Min))
	}
	p := core.DefaultGenerationParams(seed)
	if g.Name != "" {
		p.Name = g.Name
	}
	p.Width, p.Height, p.NumPlates = g.Width, g.Height, g.Plates
	return p
}
