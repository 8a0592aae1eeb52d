package sims

import (
	"math"

	"worldengine/internal/core"
	"worldengine/internal/simulation"
)

func init() {
	simulation.Register(temperatureSim{})
	simulation.Register(precipitationSim{})
	simulation.Register(humiditySim{})
}

type temperatureSim struct{}

func (temperatureSim) Kind() simulation.Kind { return simulation.Temperature }
func (temperatureSim) Title() string         { return "Simulating temperature" }

func (temperatureSim) IsApplicable(w *core.World) bool { return w.HasOcean() }

// Execute mixes a latitude gradient with seeded noise and cools the land
// with altitude.
func (temperatureSim) Execute(w *core.World, seed int64) error {
	noise := noiseField(w.Width, w.Height, seed, 5)
	t := core.NewGrid[float64](w.Width, w.Height)
	altitude := altitudeOf(w)
	for y := 0; y < w.Height; y++ {
		lat := latitude(y, w.Height)
		for x := 0; x < w.Width; x++ {
			v := (1-lat)*0.8 + noise.At(x, y)*0.2 - altitude(x, y)*0.3
			t.Set(x, y, clamp01(v))
		}
	}
	return w.SetLayer(core.LayerTemperature, t)
}

type precipitationSim struct{}

func (precipitationSim) Kind() simulation.Kind { return simulation.Precipitation }
func (precipitationSim) Title() string         { return "Simulating precipitations" }

func (precipitationSim) IsApplicable(w *core.World) bool {
	return w.HasOcean() && !w.HasLayer(core.LayerPrecipitation)
}

// Execute combines seeded noise with latitude bands: wet at the equator and
// mid latitudes, dry in the subtropics and at the poles.
func (precipitationSim) Execute(w *core.World, seed int64) error {
	noise := noiseField(w.Width, w.Height, seed, 6)
	p := core.NewGrid[float64](w.Width, w.Height)
	for y := 0; y < w.Height; y++ {
		band := 0.5 + 0.5*math.Cos(latitude(y, w.Height)*3*math.Pi)
		for x := 0; x < w.Width; x++ {
			p.Set(x, y, noise.At(x, y)*0.6+band*0.4)
		}
	}
	normalize(p)
	return w.SetLayer(core.LayerPrecipitation, p)
}

type humiditySim struct{}

const (
	precipitationWeight = 1.0
	irrigationWeight    = 3.0
)

func (humiditySim) Kind() simulation.Kind { return simulation.Humidity }
func (humiditySim) Title() string         { return "Simulating humidity" }

func (humiditySim) IsApplicable(w *core.World) bool {
	return w.HasLayer(core.LayerPrecipitation) && w.HasLayer(core.LayerIrrigation)
}

func (humiditySim) Execute(w *core.World, _ int64) error {
	precip := w.Layer(core.LayerPrecipitation)
	irr := w.Layer(core.LayerIrrigation)
	hum := core.NewGrid[float64](w.Width, w.Height)
	total := precipitationWeight + irrigationWeight
	for i := range hum.Cells() {
		hum.Cells()[i] = (precip.Cells()[i]*precipitationWeight + irr.Cells()[i]*irrigationWeight) / total
	}
	normalize(hum)
	return w.SetLayer(core.LayerHumidity, hum)
}
