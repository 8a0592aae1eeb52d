package core

import "fmt"

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Limits bounds the values a caller may accept for a new world.
type Limits struct {
	Size   Range
	Plates Range
	Seed   Range
}

// DefaultLimits returns the bounds offered by the generate dialog.
func DefaultLimits() Limits {
	return Limits{
		Size:   Range{Min: 100, Max: 8192},
		Plates: Range{Min: 2, Max: 100},
		Seed:   Range{Min: 0, Max: 65535},
	}
}

// GenerationParams describes a world requested by the user.
type GenerationParams struct {
	Seed      int64
	Name      string
	Width     int
	Height    int
	NumPlates int
}

// DefaultGenerationParams returns a 512x512, 10 plate request for seed.
func DefaultGenerationParams(seed int64) GenerationParams {
	return GenerationParams{
		Seed:      seed,
		Name:      DefaultWorldName(seed),
		Width:     512,
		Height:    512,
		NumPlates: 10,
	}
}

// DefaultWorldName is the name proposed for a world generated from seed.
func DefaultWorldName(seed int64) string {
	return fmt.Sprintf("world_seed_%d", seed)
}

// Validate checks p against the limits. generation.Process does not validate
// its own input; every caller runs this first.
func (p GenerationParams) Validate(l Limits) error {
	if !l.Seed.Contains(int(p.Seed)) {
		return fmt.Errorf("%w: seed %d outside [%d,%d]", ErrInvalidArgument, p.Seed, l.Seed.Min, l.Seed.Max)
	}
	if !l.Size.Contains(p.Width) {
		return fmt.Errorf("%w: width %d outside [%d,%d]", ErrInvalidArgument, p.Width, l.Size.Min, l.Size.Max)
	}
	if !l.Size.Contains(p.Height) {
		return fmt.Errorf("%w: height %d outside [%d,%d]", ErrInvalidArgument, p.Height, l.Size.Min, l.Size.Max)
	}
	if !l.Plates.Contains(p.NumPlates) {
		return fmt.Errorf("%w: plates %d outside [%d,%d]", ErrInvalidArgument, p.NumPlates, l.Plates.Min, l.Plates.Max)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: empty world name", ErrInvalidArgument)
	}
	return nil
}
