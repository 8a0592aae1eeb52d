package render

import (
	"image"
	"image/color"
	"math"

	"worldengine/internal/core"
)

var precipitationStops = []colorStop{
	{0.0, color.RGBA{R: 214, G: 196, B: 150, A: 255}},
	{0.35, color.RGBA{R: 150, G: 190, B: 120, A: 255}},
	{0.7, color.RGBA{R: 70, G: 150, B: 200, A: 255}},
	{1.0, color.RGBA{R: 20, G: 50, B: 160, A: 255}},
}

// PrecipitationView shades every cell by its precipitation, dry to wet.
type PrecipitationView struct{}

func (PrecipitationView) IsApplicable(w *core.World) bool {
	return w.HasLayer(core.LayerPrecipitation)
}

func (PrecipitationView) Draw(w *core.World, buf *image.RGBA) error {
	for i, v := range w.Layer(core.LayerPrecipitation).Cells() {
		col := ramp(precipitationStops, v)
		putRGB(buf.Pix, i, int(col.R), int(col.G), int(col.B))
	}
	return nil
}

// WatermapView draws land grey and flowing water blue, darker where more
// water passes. Ocean is drawn flat and does not count toward the scale.
type WatermapView struct{}

func (WatermapView) IsApplicable(w *core.World) bool {
	return w.HasLayer(core.LayerWatermap)
}

func (WatermapView) Draw(w *core.World, buf *image.RGBA) error {
	flow := w.Layer(core.LayerWatermap)
	top := 0.0
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if w.IsLand(x, y) {
				top = math.Max(top, flow.At(x, y))
			}
		}
	}
	scale := math.Log1p(top)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			i := y*w.Width + x
			if !w.IsLand(x, y) {
				putRGB(buf.Pix, i, 0, 0, 120)
				continue
			}
			t := 0.0
			if scale > 0 {
				t = math.Log1p(flow.At(x, y)) / scale
			}
			col := lerpRGBA(color.RGBA{R: 200, G: 200, B: 190, A: 255}, color.RGBA{R: 0, G: 60, B: 255, A: 255}, t)
			putRGB(buf.Pix, i, int(col.R), int(col.G), int(col.B))
		}
	}
	return nil
}

var biomePalette = []color.RGBA{
	core.BiomeOcean:      {R: 0, G: 0, B: 200, A: 255},
	core.BiomeIce:        {R: 240, G: 245, B: 250, A: 255},
	core.BiomeTundra:     {R: 150, G: 160, B: 140, A: 255},
	core.BiomeDesert:     {R: 230, G: 210, B: 150, A: 255},
	core.BiomeSteppe:     {R: 190, G: 190, B: 110, A: 255},
	core.BiomeGrassland:  {R: 130, G: 190, B: 80, A: 255},
	core.BiomeForest:     {R: 40, G: 120, B: 40, A: 255},
	core.BiomeRainforest: {R: 10, G: 90, B: 30, A: 255},
	core.BiomeSwamp:      {R: 70, G: 100, B: 80, A: 255},
}

// BiomeView colors every cell by its biome class.
type BiomeView struct{}

func (BiomeView) IsApplicable(w *core.World) bool { return w.HasBiome() }

func (BiomeView) Draw(w *core.World, buf *image.RGBA) error {
	fillPaletteRGBA(buf.Pix, w.Biome.Cells(), biomePalette)
	return nil
}
