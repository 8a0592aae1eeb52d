//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Overlay draws a tinted intensity mask, such as rivers, over the map.
type Overlay struct {
	scale   int
	visible bool
	tint    color.RGBA

	w, h    int
	maskImg *ebiten.Image
	maskBuf []byte
}

// NewOverlay constructs a hidden overlay.
func NewOverlay(scale int, tint color.RGBA) *Overlay {
	return &Overlay{scale: scale, tint: tint}
}

// Toggle flips visibility.
func (o *Overlay) Toggle() { o.visible = !o.visible }

// Visible reports whether the overlay is drawn.
func (o *Overlay) Visible() bool { return o.visible }

// SetMask uploads a w*h intensity mask. A nil mask clears the overlay.
func (o *Overlay) SetMask(mask []float64, w, h int) {
	total := w * h
	if mask == nil || len(mask) != total || total == 0 {
		o.w, o.h = 0, 0
		return
	}
	if o.maskImg == nil || o.w != w || o.h != h {
		o.maskImg = ebiten.NewImage(w, h)
		o.maskBuf = make([]byte, 4*total)
	}
	o.w, o.h = w, h

	const (
		maxAlpha      = 200.0
		glowBase      = 0.45
		glowRange     = 0.55
		intensityBias = 0.6
	)
	for i, v := range mask {
		base := i * 4
		intensity := clamp01(v)
		if intensity == 0 {
			o.maskBuf[base+0] = 0
			o.maskBuf[base+1] = 0
			o.maskBuf[base+2] = 0
			o.maskBuf[base+3] = 0
			continue
		}
		alpha := math.Round(maxAlpha * math.Pow(intensity, intensityBias))
		glow := glowBase + glowRange*math.Sqrt(intensity)
		// ebiten expects premultiplied alpha.
		a := alpha / 255
		o.maskBuf[base+0] = scaleColorComponent(o.tint.R, glow*a)
		o.maskBuf[base+1] = scaleColorComponent(o.tint.G, glow*a)
		o.maskBuf[base+2] = scaleColorComponent(o.tint.B, glow*a)
		o.maskBuf[base+3] = uint8(alpha)
	}
	o.maskImg.WritePixels(o.maskBuf)
}

// Draw renders the overlay onto the screen when visible.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.visible || o.w == 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
