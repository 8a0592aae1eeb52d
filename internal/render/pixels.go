package render

import "image/color"

// putRGB writes an opaque pixel for cell i of a tightly packed RGBA buffer,
// clamping every channel to [0,255].
func putRGB(buf []byte, i int, r, g, b int) {
	base := i * 4
	buf[base+0] = clampChannel(r)
	buf[base+1] = clampChannel(g)
	buf[base+2] = clampChannel(b)
	buf[base+3] = 0xff
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// fillBinaryRGBA converts a boolean mask into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []bool, on, off color.RGBA) {
	for i, c := range cells {
		col := off
		if c {
			col = on
		}
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA[T ~int](buf []byte, cells []T, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last || idx < 0 {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

type colorStop struct {
	t   float64
	col color.RGBA
}

// ramp interpolates linearly between stops; t is clamped to [0,1].
func ramp(stops []colorStop, t float64) color.RGBA {
	t = clamp01(t)
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			var local float64
			if span := curr.t - prev.t; span > 0 {
				local = (t - prev.t) / span
			}
			return lerpRGBA(prev.col, curr.col, local)
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
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
