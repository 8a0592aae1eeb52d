// Package render turns a world into pixels. Every mode visits each cell once
// in row-major order and computes its color from that cell alone.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"worldengine/internal/core"
)

// Mode names one way of drawing a world.
type Mode string

const (
	ModeBW              Mode = "bw"
	ModePlates          Mode = "plates"
	ModePlatesElevation Mode = "plates-elevation"
	ModeLand            Mode = "land"
	ModePrecipitations  Mode = "precipitations"
	ModeWatermap        Mode = "watermap"
	ModeBiome           Mode = "biome"
)

// AllModes lists every mode in menu order.
func AllModes() []Mode {
	return []Mode{ModeBW, ModePlates, ModePlatesElevation, ModeLand, ModePrecipitations, ModeWatermap, ModeBiome}
}

// ParseMode maps a name to a Mode. There is no default mode.
func ParseMode(name string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllModes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown view %q", core.ErrInvalidArgument, name)
}

var (
	landColor  = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	oceanColor = color.RGBA{R: 0, G: 0, B: 200, A: 255}
)

// View draws a world layer that the built-in modes do not cover. Draw runs
// while the renderer holds the world's read lock and must fill every pixel of
// buf, which always has the world's size and origin (0,0).
type View interface {
	IsApplicable(w *core.World) bool
	Draw(w *core.World, buf *image.RGBA) error
}

// Renderer draws worlds into RGBA buffers.
type Renderer struct {
	views map[Mode]View
}

// NewRenderer returns a renderer with the precipitation, watermap and biome
// views installed.
func NewRenderer() *Renderer {
	return &Renderer{views: map[Mode]View{
		ModePrecipitations: PrecipitationView{},
		ModeWatermap:       WatermapView{},
		ModeBiome:          BiomeView{},
	}}
}

// SetView installs v as the delegate for mode m.
func (r *Renderer) SetView(m Mode, v View) {
	r.views[m] = v
}

// Render draws w into buf using mode m. buf must be exactly the world's size.
// Nothing is written to buf unless the whole render succeeds.
func (r *Renderer) Render(w *core.World, m Mode, buf *image.RGBA) error {
	if w == nil {
		return fmt.Errorf("%w: no world", core.ErrInvalidArgument)
	}
	w.RLock()
	defer w.RUnlock()

	b := buf.Bounds()
	if b.Dx() != w.Width || b.Dy() != w.Height {
		return fmt.Errorf("%w: buffer is %dx%d, world is %dx%d",
			core.ErrInvalidArgument, b.Dx(), b.Dy(), w.Width, w.Height)
	}
	scratch := image.NewRGBA(image.Rect(0, 0, w.Width, w.Height))
	if err := r.draw(w, m, scratch); err != nil {
		return err
	}
	draw.Draw(buf, b, scratch, image.Point{}, draw.Src)
	return nil
}

// Image renders w into a freshly allocated buffer.
func (r *Renderer) Image(w *core.World, m Mode) (*image.RGBA, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: no world", core.ErrInvalidArgument)
	}
	w.RLock()
	width, height := w.Width, w.Height
	w.RUnlock()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := r.Render(w, m, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Modes lists the modes that can currently draw w, in menu order.
func (r *Renderer) Modes(w *core.World) []Mode {
	if w == nil {
		return nil
	}
	w.RLock()
	defer w.RUnlock()
	var out []Mode
	for _, m := range AllModes() {
		if r.applicable(w, m) {
			out = append(out, m)
		}
	}
	return out
}

func (r *Renderer) applicable(w *core.World, m Mode) bool {
	switch m {
	case ModeBW:
		return w.Elevation != nil && w.MinElevation() < w.MaxElevation()
	case ModePlates:
		return w.ActualPlateCount() > 0
	case ModePlatesElevation:
		return w.ActualPlateCount() > 0 && w.Elevation != nil && w.MinElevation() < w.MaxElevation()
	case ModeLand:
		return w.Elevation != nil || w.Ocean != nil
	}
	v, ok := r.views[m]
	return ok && v.IsApplicable(w)
}

func (r *Renderer) draw(w *core.World, m Mode, img *image.RGBA) error {
	switch m {
	case ModeBW:
		return drawBW(w, img.Pix)
	case ModePlates:
		return drawPlates(w, img.Pix, false)
	case ModePlatesElevation:
		return drawPlates(w, img.Pix, true)
	case ModeLand:
		return drawLand(w, img.Pix)
	}
	v, ok := r.views[m]
	if !ok {
		return fmt.Errorf("%w: unknown view %q", core.ErrInvalidArgument, m)
	}
	if !v.IsApplicable(w) {
		return fmt.Errorf("%w: view %q needs layers the world does not have", core.ErrInvalidArgument, m)
	}
	return v.Draw(w, img)
}

// elevationScale returns a function normalizing elevation to [0,1].
func elevationScale(w *core.World) (func(e float64) float64, error) {
	if w.Elevation == nil {
		return nil, fmt.Errorf("%w: world has no elevation", core.ErrInvalidArgument)
	}
	lo, hi := w.MinElevation(), w.MaxElevation()
	if !(lo < hi) {
		return nil, fmt.Errorf("%w: elevation range is empty (min=max=%v)", core.ErrDomain, lo)
	}
	delta := hi - lo
	return func(e float64) float64 { return (e - lo) / delta }, nil
}

func drawBW(w *core.World, buf []byte) error {
	norm, err := elevationScale(w)
	if err != nil {
		return err
	}
	for i, e := range w.Elevation.Cells() {
		c := int(norm(e) * 255)
		putRGB(buf, i, c, c, c)
	}
	return nil
}

func drawPlates(w *core.World, buf []byte, withElevation bool) error {
	n := w.ActualPlateCount()
	if n == 0 {
		return fmt.Errorf("%w: world has no plates", core.ErrDomain)
	}
	var norm func(float64) float64
	if withElevation {
		var err error
		if norm, err = elevationScale(w); err != nil {
			return err
		}
	}
	step := 360 / float64(n)
	for i, p := range w.Plates.Cells() {
		h := float64(p) * step
		s, in := 0.5, 64.0
		if withElevation {
			s, in = 0.6, 40+60*norm(w.Elevation.Cells()[i])
		}
		r, g, b, err := HSIToRGB(h, s, in)
		if err != nil {
			return err
		}
		putRGB(buf, i, r, g, b)
	}
	return nil
}

func drawLand(w *core.World, buf []byte) error {
	if w.Elevation == nil && w.Ocean == nil {
		return fmt.Errorf("%w: world has no elevation", core.ErrInvalidArgument)
	}
	land := make([]bool, w.Width*w.Height)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			land[y*w.Width+x] = w.IsLand(x, y)
		}
	}
	fillBinaryRGBA(buf, land, landColor, oceanColor)
	return nil
}
