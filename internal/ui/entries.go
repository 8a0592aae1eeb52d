// Package ui draws the viewer's side panel and map overlays.
package ui

import (
	"math"
	"strings"

	"worldengine/internal/core"
)

// Entry is one button of the side panel.
type Entry struct {
	Section string
	Label   string
	// Key is the keyboard shortcut shown on the right of the button.
	Key     string
	Enabled bool
	Active  bool
}

// Wrap splits s into lines of at most width runes, breaking at spaces where
// possible.
func Wrap(s string, width int) []string {
	if s == "" {
		return nil
	}
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// RiverMask turns the world's water flow into overlay intensities in [0,1].
// Cells below the cutoff share of the log-scaled maximum, and ocean cells,
// are 0. It returns nil when the world has no water flow yet.
func RiverMask(w *core.World, cutoff float64) []float64 {
	flow := w.Layer(core.LayerWatermap)
	if flow == nil {
		return nil
	}
	top := 0.0
	for _, v := range flow.Cells() {
		top = math.Max(top, v)
	}
	mask := make([]float64, len(flow.Cells()))
	if top <= 0 {
		return mask
	}
	scale := math.Log1p(top)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.IsLand(x, y) {
				continue
			}
			t := math.Log1p(flow.At(x, y)) / scale
			if t < cutoff {
				continue
			}
			mask[y*w.Width+x] = (t - cutoff) / (1 - cutoff)
		}
	}
	return mask
}
