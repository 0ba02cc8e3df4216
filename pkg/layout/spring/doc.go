// Package spring implements an exact Fruchterman-Reingold spring embedder.
//
// Every node repels every other node of its connected component and every
// edge pulls its endpoints together like a spring with rest length k, the
// ideal edge length. Each iteration is a Jacobi step: all displacements are
// computed from the old positions, clamped per axis by a temperature that
// cools down over time, and only then applied. The all-pairs repulsion makes
// one iteration O(n²+m) per component; there is no spatial approximation.
//
// # Components
//
// The graph is split into connected components which are laid out one at a
// time, each in its own coordinate system. A component is first rescaled so
// that its area fits n nodes at spacing k, then simulated until every node
// moves less than ConvTolerance*k or the iteration budget is spent. Finally
// each component is normalized to start at (MinDistCC, MinDistCC) and the
// resulting boxes are arranged by a [packing.Packer].
//
// # Kernels
//
// Two kernels compute an iteration. The scalar kernel is the reference. The
// unrolled kernel evaluates the repulsive pass in four independent lanes and
// splits the per-node passes across a bounded worker pool; the attractive
// pass stays sequential because edges scatter into shared accumulators.
// Both kernels make the same convergence decisions on the same input.
//
// # Usage
//
//	e, err := spring.New(spring.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	res, err := e.Call(ctx, g)
//
// An Embedder holds no per-call state and may be used by several goroutines
// on different graphs. A single graph must not be laid out concurrently.
package spring
