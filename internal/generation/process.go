// Package generation drives a tectonics engine to completion and finalizes
// its output into a World.
package generation

import (
	"errors"
	"fmt"

	"worldengine/internal/core"
)

// OceanLevel is the elevation separating ocean from land in engine output.
const OceanLevel = 1.0

// ErrNotFinished is returned by World when the engine is still stepping.
var ErrNotFinished = errors.New("plate simulation not finished")

// Process owns one engine handle and steps it until it is done.
type Process struct {
	params core.GenerationParams
	engine Engine
	steps  int
	done   bool
}

// New creates the engine for params. The caller is expected to have
// validated params already.
func New(params core.GenerationParams, factory EngineFactory) (*Process, error) {
	ep := DefaultEngineParams(params.Seed, params.Width, params.Height, params.NumPlates)
	engine, err := factory(ep)
	if err != nil {
		return nil, fmt.Errorf("%w: create engine: %v", core.ErrExternal, err)
	}
	return &Process{params: params, engine: engine}, nil
}

// Step advances the engine by one increment. Once the engine reports it is
// finished, Step keeps returning (true, n) without touching it again.
func (p *Process) Step() (bool, int, error) {
	if p.done {
		return true, p.steps, nil
	}
	if p.engine.Finished() {
		p.done = true
		return true, p.steps, nil
	}
	if err := p.engine.Step(); err != nil {
		return false, p.steps, fmt.Errorf("%w: step %d: %v", core.ErrExternal, p.steps+1, err)
	}
	p.steps++
	return false, p.steps, nil
}

// Steps returns the number of increments taken so far.
func (p *Process) Steps() int { return p.steps }

// World reads the engine output into a new World. Only elevation and plates
// are set; everything else is left for the finalization stages.
func (p *Process) World() (*core.World, error) {
	if !p.done {
		return nil, ErrNotFinished
	}
	w, h := p.params.Width, p.params.Height
	elevation, err := core.FromFlat(p.engine.Heightmap(), w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: heightmap: %v", core.ErrExternal, err)
	}
	plates, err := core.FromFlat(p.engine.PlatesMap(), w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: plates map: %v", core.ErrExternal, err)
	}

	world := core.NewWorld(p.params.Name, p.params.Seed, w, h, p.params.NumPlates, OceanLevel)
	if err := world.SetElevation(elevation); err != nil {
		return nil, err
	}
	if err := world.SetPlates(plates); err != nil {
		return nil, err
	}
	return world, nil
}
