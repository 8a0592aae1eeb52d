package simulation

import (
	"context"
	"fmt"

	"worldengine/internal/core"
	"worldengine/internal/task"
)

// SeedMax bounds the seed drawn for every operation.
const SeedMax = 65536

// Operation runs one simulation against a world as a task.Work.
type Operation struct {
	Sim   Simulation
	World *core.World
	Seeds core.Seeds

	seed int64
}

// NewOperation returns an Operation drawing its seed from the process-wide
// source.
func NewOperation(sim Simulation, w *core.World) *Operation {
	return &Operation{Sim: sim, World: w, Seeds: core.RandomSeeds()}
}

// Seed returns the seed used by the last Run.
func (o *Operation) Seed() int64 { return o.seed }

// Run implements task.Work. The simulation is forwarded unconditionally;
// gating on IsApplicable is the caller's job.
func (o *Operation) Run(ctx context.Context, r task.Reporter) error {
	if o.Sim == nil || o.World == nil {
		return fmt.Errorf("%w: operation needs a simulation and a world", core.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	seeds := o.Seeds
	if seeds == nil {
		seeds = core.RandomSeeds()
	}
	o.seed = seeds.Seed(SeedMax)
	title := o.Sim.Title()
	r.Status(fmt.Sprintf("%s: started (seed %d)", title, o.seed))

	if err := o.execute(); err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrExternal, title, err)
	}
	r.Status(fmt.Sprintf("%s: done (seed %d)", title, o.seed))
	return nil
}

func (o *Operation) execute() (err error) {
	o.World.Lock()
	defer o.World.Unlock()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return o.Sim.Execute(o.World, o.seed)
}
