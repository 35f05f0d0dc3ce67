// Package force implements a deterministic force-directed layout.
//
// The simulation follows the d3-force velocity Verlet model: every tick
// decays alpha toward zero, lets each force add to node velocities, then
// moves each free node by its velocity scaled by (1 - VelocityDecay).
// Pinned coordinates (FX, FY) override the integration and zero the
// velocity on that axis.
//
// Three forces are applied in order:
//
//   - collide: pairs whose circles of radius CollideScale*Radius overlap
//     are pushed apart, the smaller node moving further
//   - link: linked nodes are pulled toward LinkDistance, with strength
//     1/min(degree) and a bias toward moving the lower-degree end
//   - center: the mean position is translated to (CenterX, CenterY)
//
// The simulation is a pure step function. [Simulation.Step] takes a
// [State] and returns the next one; nothing is kept between calls other
// than the immutable link structure:
//
//	sim, st, err := force.New(nodes, links, nil)
//	st = sim.Run(st, nil)
//
// Coincident nodes are separated with a tiny jiggle drawn from a PCG
// generator carried inside State, so equal inputs and equal seeds give
// bit-identical positions.
package force
