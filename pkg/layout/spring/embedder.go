package spring

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/graph"
	"github.com/matzehuels/springembed/pkg/observability"
	"github.com/matzehuels/springembed/pkg/packing"
)

// Embedder lays out graphs with the exact Fruchterman-Reingold model.
type Embedder struct {
	opts   Options
	kernel kernel
	packer packing.Packer
	logger *log.Logger
}

// ComponentStats describes how one connected component was laid out.
type ComponentStats struct {
	Index      int            `json:"index"`
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	Iterations int            `json:"iterations"`
	Converged  bool           `json:"converged"`
	Box        packing.Box    `json:"box"`
	Offset     packing.Offset `json:"offset"`
}

// Result summarizes a Call. Positions are written to the graph itself.
type Result struct {
	Kernel     string           `json:"kernel"`
	Components []ComponentStats `json:"components"`
	Duration   time.Duration    `json:"duration"`
}

// New validates opts and returns an Embedder.
func New(opts Options) (*Embedder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Embedder{
		opts:   opts,
		kernel: selectKernel(&opts),
		packer: opts.packer(),
		logger: opts.logger(),
	}, nil
}

// Options returns the options the Embedder was built with.
func (e *Embedder) Options() Options { return e.opts }

// Kernel names the kernel the Embedder runs iterations with.
func (e *Embedder) Kernel() string { return e.kernel.name() }

// Call replaces the position of every node of g.
//
// Each connected component is laid out independently, shifted so that its
// occupied box (node extents included) starts at (MinDistCC, MinDistCC),
// and then moved to the offset chosen by the packer. Node sizes, edges and
// metadata are left untouched. An empty graph is a no-op.
//
// ctx is passed to observability hooks; the computation itself runs to
// completion.
func (e *Embedder) Call(ctx context.Context, g *graph.Graph) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "graph is nil")
	}
	res := &Result{Kernel: e.kernel.name()}
	if g.Empty() {
		return res, nil
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount(), g.EdgeCount())

	cc := graph.ConnectedComponents(g)
	flat := newFlatGraph(g, cc, e.opts.UseNodeWeight)
	defer flat.release()

	boxes := make([]packing.Box, cc.Count())
	res.Components = make([]ComponentStats, cc.Count())
	for i := range cc.Count() {
		flat.load(i)
		stats := ComponentStats{Index: i, Nodes: flat.n, Edges: flat.m}

		// A single node has nothing to balance and keeps its input position.
		if flat.n >= 2 {
			st := initialize(flat, e.opts.IdealEdgeLength)
			stats.Iterations, stats.Converged = e.run(flat, st)
		}
		flat.writeBack()

		boxes[i] = e.normalize(g, cc.Members[i])
		stats.Box = boxes[i]
		res.Components[i] = stats

		e.logger.Debug("laid out component",
			"component", i,
			"nodes", stats.Nodes,
			"edges", stats.Edges,
			"iterations", stats.Iterations,
			"converged", stats.Converged)
		hooks.OnComponentComplete(ctx, i, stats.Nodes, stats.Iterations, stats.Converged)
	}

	offsets := e.packer.Pack(boxes, e.opts.PageRatio)
	if len(offsets) != len(boxes) {
		err := errors.New(errors.ErrCodeInternal, "packer returned %d offsets for %d components", len(offsets), len(boxes))
		hooks.OnLayoutComplete(ctx, cc.Count(), time.Since(start), err)
		return nil, err
	}
	for i, members := range cc.Members {
		off := offsets[i]
		for _, v := range members {
			g.Translate(v, off.X, off.Y)
		}
		res.Components[i].Offset = off
	}

	res.Duration = time.Since(start)
	e.logger.Debug("layout complete",
		"kernel", res.Kernel,
		"components", cc.Count(),
		"duration", res.Duration)
	hooks.OnLayoutComplete(ctx, cc.Count(), res.Duration, nil)
	return res, nil
}

// run iterates the loaded component until it settles or the budget is spent.
// It returns the number of iterations executed and whether it converged.
func (e *Embedder) run(c *flatGraph, st *solverState) (int, bool) {
	c.grow()
	p := newParams(&e.opts)
	for it := 1; it <= e.opts.Iterations; it++ {
		converged := e.kernel.step(c, st, p)
		st.cool(&e.opts)
		if e.opts.CheckConvergence && converged {
			return it, true
		}
	}
	return e.opts.Iterations, false
}

// normalize translates the members of one component so that their occupied
// box, widened by MinDistCC on the low sides, starts at the origin. It
// returns the resulting box for packing.
func (e *Embedder) normalize(g *graph.Graph, members []int) packing.Box {
	r := g.BoundsOf(members)
	minX := r.MinX - e.opts.MinDistCC
	minY := r.MinY - e.opts.MinDistCC
	for _, v := range members {
		g.Translate(v, -minX, -minY)
	}
	return packing.Box{Width: r.MaxX - minX, Height: r.MaxY - minY}
}
