//go:build ebiten

package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Painter keeps one ebiten image in sync with a rendered world.
type Painter struct {
	w, h int
	img  *ebiten.Image
}

// NewPainter allocates a painter for a w*h world.
func NewPainter(w, h int) *Painter {
	return &Painter{w: w, h: h, img: ebiten.NewImage(w, h)}
}

// Upload copies a rendered buffer into the painter image. Buffers of the
// wrong size are ignored.
func (p *Painter) Upload(src *image.RGBA) {
	b := src.Bounds()
	if b.Dx() != p.w || b.Dy() != p.h || src.Stride != 4*p.w {
		return
	}
	p.img.WritePixels(src.Pix)
}

// Blit draws the painter image onto dst at the given integer scale.
func (p *Painter) Blit(dst *ebiten.Image, scale int) {
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}

// Size returns the dimensions of the underlying image.
func (p *Painter) Size() (int, int) { return p.w, p.h }
