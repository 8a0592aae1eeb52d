package render

import (
	"fmt"
	"math"

	"worldengine/internal/core"
)

// cosDeg converts degrees with 3.14 rather than math.Pi. The plate palettes
// are calibrated against this exact conversion; keep it.
func cosDeg(x float64) float64 {
	return math.Cos(x / 180 * 3.14)
}

// HSIToRGB converts hue (degrees, reduced modulo 360), saturation in [0,1]
// and intensity to three channels in the unit of intensity. Channels are
// truncated toward zero and may fall outside [0,255]; callers clamp.
func HSIToRGB(hue, saturation, intensity float64) (r, g, b int, err error) {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	if math.IsNaN(h) || h < 0 || h >= 360 {
		return 0, 0, 0, fmt.Errorf("%w: hue %v", core.ErrDomain, hue)
	}

	i := intensity
	is := saturation * intensity
	var R, G, B float64
	switch {
	case h == 0:
		R, G, B = i+2*is, i-is, i-is
	case h < 120:
		ratio := cosDeg(h) / cosDeg(60-h)
		R, G, B = i+is*ratio, i+is*(1-ratio), i-is
	case h == 120:
		R, G, B = i-is, i+2*is, i-is
	case h < 240:
		ratio := cosDeg(h-120) / cosDeg(180-h)
		R, G, B = i-is, i+is*ratio, i+is*(1-ratio)
	case h == 240:
		R, G, B = i-is, i-is, i+2*is
	default:
		ratio := cosDeg(h-240) / cosDeg(300-h)
		R, G, B = i+is*(1-ratio), i-is, i+is*ratio
	}
	return int(R), int(G), int(B), nil
}
