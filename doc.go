/*
Package phenogo models how a single biological cell's behavior changes over
time: an ordered, possibly cyclic set of phases, each with its own volume
dynamics and a rule deciding when the phase ends.

The engine is deliberately small. It tracks one cell's discrete phase and its
scalar volume compartments; it does not simulate mechanics, diffusion, or
space. The host simulation drives it with one Step call per cell per tick and
acts on the result: when a step reports ShouldDivide the host creates the
daughter cell (Clone gives it an independent copy), and when it reports
ShouldExit the host removes the cell.

# Usage

	spec := catalog.Ki67Basic()
	cell, err := phenogo.New(spec,
		phenogo.WithUniform(rand.New(rand.NewSource(42))),
	)
	if err != nil {
		log.Fatal(err)
	}
	for i := 0; i < steps; i++ {
		res, err := cell.Step(dt)
		if err != nil {
			log.Fatal(err)
		}
		if res.ShouldDivide {
			daughter := cell.Clone()
			daughter.Volume().Scale(0.5)
			cell.Volume().Scale(0.5)
			// hand daughter to the host simulation
		}
	}

Transition rules come in three variants: stochastic (fires with probability
1-exp(-λ·dt) per step), deterministic (fires after a fixed period in phase),
and custom (an arbitrary predicate over the cell state). Phases may carry
entry and exit hooks that retarget the volume model, an arrest predicate
that reports senescence, and flags for division or removal at exit.

Randomness is injected, never global: seed the source and a simulation
replays exactly.
*/
package phenogo
