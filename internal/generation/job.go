package generation

import (
	"context"
	"fmt"

	"worldengine/internal/core"
	"worldengine/internal/task"
)

// NoiseSeedMax bounds the seed drawn for the elevation noise stage.
const NoiseSeedMax = 4096

// Job generates one world as a task.Work: it steps the engine to completion
// and then runs the finalization stages exactly once, in order.
type Job struct {
	Params    core.GenerationParams
	Engines   EngineFactory
	Finalizer Finalizer
	Seeds     core.Seeds

	world *core.World
}

// NewJob returns a Job drawing its noise seed from the process-wide source.
func NewJob(params core.GenerationParams, engines EngineFactory, fin Finalizer) *Job {
	return &Job{Params: params, Engines: engines, Finalizer: fin, Seeds: core.RandomSeeds()}
}

// World returns the finalized world once Run has succeeded.
func (j *Job) World() *core.World { return j.world }

type stage struct {
	status string
	run    func(*core.World) error
}

// Run implements task.Work. Cancellation is honored between engine steps and
// between stages.
func (j *Job) Run(ctx context.Context, r task.Reporter) error {
	p, err := New(j.Params, j.Engines)
	if err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		finished, n, err := p.Step()
		if err != nil {
			return err
		}
		if finished {
			break
		}
		r.Status(fmt.Sprintf("Plate simulation: step %d", n))
	}

	r.Status("Plate simulation: terminating plates simulation")
	w, err := p.World()
	if err != nil {
		return err
	}

	seeds := j.Seeds
	if seeds == nil {
		seeds = core.RandomSeeds()
	}
	stages := []stage{
		{"Plate simulation: center land", j.Finalizer.CenterLand},
		{"Plate simulation: adding noise", func(w *core.World) error {
			return j.Finalizer.AddNoiseToElevation(w, seeds.Seed(NoiseSeedMax))
		}},
		{"Plate simulation: forcing oceans at borders", j.Finalizer.PlaceOceansAtMapBorders},
		{"Plate simulation: finalization (can take a while)", j.Finalizer.InitializeOceanAndThresholds},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Status(s.status)
		if err := s.run(w); err != nil {
			return fmt.Errorf("%w: %s: %v", core.ErrExternal, s.status, err)
		}
	}

	r.Status("Plate simulation: completed")
	j.world = w
	return nil
}
