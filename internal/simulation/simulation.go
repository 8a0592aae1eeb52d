// Package simulation defines the climate and geography simulations that can
// be applied to a finished world, and the task that runs one of them.
package simulation

import (
	"fmt"
	"strings"
	"sync"

	"worldengine/internal/core"
)

// Kind identifies one simulation.
type Kind string

const (
	Precipitation Kind = "precipitation"
	Erosion       Kind = "erosion"
	Watermap      Kind = "watermap"
	Irrigation    Kind = "irrigation"
	Humidity      Kind = "humidity"
	Temperature   Kind = "temperature"
	Permeability  Kind = "permeability"
	Biome         Kind = "biome"
)

// Kinds lists every simulation kind in menu order.
func Kinds() []Kind {
	return []Kind{Precipitation, Erosion, Watermap, Irrigation, Humidity, Temperature, Permeability, Biome}
}

// ParseKind maps a name to a Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown simulation %q", core.ErrInvalidArgument, name)
}

// Simulation mutates a world in place, adding or overwriting layers.
type Simulation interface {
	Kind() Kind
	// Title is the status prefix shown while the simulation runs.
	Title() string
	// IsApplicable reports whether the world has what Execute needs. It must
	// not modify the world.
	IsApplicable(w *core.World) bool
	Execute(w *core.World, seed int64) error
}

var (
	mu       sync.RWMutex
	registry = map[Kind]Simulation{}
)

// Register adds a simulation under its kind, replacing any previous one.
func Register(s Simulation) {
	if s == nil || s.Kind() == "" {
		return
	}
	mu.Lock()
	registry[s.Kind()] = s
	mu.Unlock()
}

// Lookup returns the simulation registered for k.
func Lookup(k Kind) (Simulation, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[k]
	return s, ok
}

// All returns the registered simulations in menu order.
func All() []Simulation {
	mu.RLock()
	defer mu.RUnlock()
	var out []Simulation
	for _, k := range Kinds() {
		if s, ok := registry[k]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Applicable returns the registered simulations whose preconditions the
// world meets. Callers use it to decide what to offer; the operation itself
// does not check.
func Applicable(w *core.World) []Simulation {
	if w == nil {
		return nil
	}
	w.RLock()
	defer w.RUnlock()
	var out []Simulation
	for _, s := range All() {
		if s.IsApplicable(w) {
			out = append(out, s)
		}
	}
	return out
}
