package session

import (
	"math"

	"worldengine/internal/core"
	"worldengine/internal/render"
	"worldengine/internal/simulation"
)

// Summary describes a world for listings and the HTTP API.
type Summary struct {
	Name         string            `json:"name"`
	Seed         int64             `json:"seed"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	NumPlates    int               `json:"numPlates"`
	ActualPlates int               `json:"actualPlates"`
	MinElevation float64           `json:"minElevation"`
	MaxElevation float64           `json:"maxElevation"`
	LandFraction float64           `json:"landFraction"`
	Thresholds   core.Thresholds   `json:"thresholds"`
	Layers       []core.Layer      `json:"layers"`
	Modes        []render.Mode     `json:"modes"`
	Simulations  []simulation.Kind `json:"simulations"`
}

// Summarize collects a Summary of w. Modes lists what r can draw and
// Simulations what can run next.
func Summarize(w *core.World, r *render.Renderer) Summary {
	modes := r.Modes(w)
	var kinds []simulation.Kind
	for _, sim := range simulation.Applicable(w) {
		kinds = append(kinds, sim.Kind())
	}

	w.RLock()
	defer w.RUnlock()
	s := Summary{
		Name:         w.Name,
		Seed:         w.Seed,
		Width:        w.Width,
		Height:       w.Height,
		NumPlates:    w.NumPlates,
		ActualPlates: w.ActualPlateCount(),
		MinElevation: w.MinElevation(),
		MaxElevation: w.MaxElevation(),
		LandFraction: w.LandFraction(),
		Thresholds:   finiteThresholds(w.Thresholds),
		Modes:        modes,
		Simulations:  kinds,
	}
	for _, l := range core.Layers() {
		if w.HasLayer(l) {
			s.Layers = append(s.Layers, l)
		}
	}
	return s
}

// finiteThresholds zeroes thresholds that are not finite, such as the hill
// level of a world without land, so the summary stays JSON encodable.
func finiteThresholds(t core.Thresholds) core.Thresholds {
	for _, v := range []*float64{&t.Sea, &t.Plain, &t.Hill} {
		if math.IsInf(*v, 0) || math.IsNaN(*v) {
			*v = 0
		}
	}
	return t
}
