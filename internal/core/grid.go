package core

import "fmt"

// Grid stores a 2D grid of cell values in row-major order.
type Grid[T any] struct {
	W, H int
	data []T
}

// NewGrid allocates a zeroed grid with the given dimensions.
func NewGrid[T any](w, h int) *Grid[T] {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}
}

// FromFlat reshapes a flat row-major slice into a w*h grid. The slice is
// copied so the caller may reuse it.
func FromFlat[T any](flat []T, w, h int) (*Grid[T], error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidArgument, w, h)
	}
	if len(flat) != w*h {
		return nil, fmt.Errorf("%w: flat length %d does not match %dx%d", ErrInvalidArgument, len(flat), w, h)
	}
	g := &Grid[T]{W: w, H: h, data: make([]T, len(flat))}
	copy(g.data, flat)
	return g, nil
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.W + x }

// At returns the value stored at (x, y).
func (g *Grid[T]) At(x, y int) T { return g.data[y*g.W+x] }

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) { g.data[y*g.W+x] = v }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid[T]) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// Matches reports whether the grid has exactly the given dimensions.
func (g *Grid[T]) Matches(w, h int) bool {
	return g != nil && g.W == w && g.H == h && len(g.data) == w*h
}

// Clone returns a deep copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{W: g.W, H: g.H, data: make([]T, len(g.data))}
	copy(c.data, g.data)
	return c
}

// Roll shifts every cell by (dx, dy) with wrap-around, so the value at (x, y)
// moves to (x+dx, y+dy).
func (g *Grid[T]) Roll(dx, dy int) {
	if len(g.data) == 0 {
		return
	}
	out := make([]T, len(g.data))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			nx, ny := g.Wrap(x+dx, y+dy)
			out[ny*g.W+nx] = g.data[y*g.W+x]
		}
	}
	g.data = out
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}
