package spring

import "github.com/matzehuels/springembed/pkg/graph"

// flatGraph is the contiguous working copy of one connected component.
//
// Compact index j corresponds to graph node orig[j]. Edges are stored once,
// as (src[e], tgt[e]) pairs of compact indices; self-loops are dropped.
// The buffers are owned by the flat graph and replaced on every load.
type flatGraph struct {
	g        *graph.Graph
	cc       graph.Components
	weighted bool

	n, m     int
	orig     []int
	x, y     []float64
	weight   []float64
	dx, dy   []float64
	src, tgt []int

	compact []int // graph node index -> compact index within its component
}

func newFlatGraph(g *graph.Graph, cc graph.Components, weighted bool) *flatGraph {
	return &flatGraph{
		g:        g,
		cc:       cc,
		weighted: weighted,
		compact:  make([]int, g.NodeCount()),
	}
}

// load copies component i into the buffers, releasing the previous one.
func (c *flatGraph) load(i int) {
	c.release()

	members := c.cc.Members[i]
	n := len(members)
	buf := make([]float64, 3*n)
	c.n = n
	c.orig = make([]int, n)
	c.x, c.y, c.weight = buf[:n:n], buf[n:2*n:2*n], buf[2*n:]

	for j, v := range members {
		c.orig[j] = v
		c.compact[v] = j
		node := c.g.NodeAt(v)
		c.x[j], c.y[j] = node.X, node.Y
		c.weight[j] = 1
		if c.weighted && node.Weight > 0 {
			c.weight[j] = node.Weight
		}
		for _, w := range c.g.Neighbors(v) {
			if v < w {
				c.m++
			}
		}
	}

	c.src = make([]int, 0, c.m)
	c.tgt = make([]int, 0, c.m)
	for j, v := range members {
		for _, w := range c.g.Neighbors(v) {
			if v < w {
				c.src = append(c.src, j)
				c.tgt = append(c.tgt, c.compact[w])
			}
		}
	}
}

// grow allocates the displacement accumulators for the loaded component.
func (c *flatGraph) grow() {
	buf := make([]float64, 2*c.n)
	c.dx, c.dy = buf[:c.n:c.n], buf[c.n:]
}

// writeBack stores the working coordinates on the graph nodes.
func (c *flatGraph) writeBack() {
	for j, v := range c.orig {
		c.g.SetPosition(v, c.x[j], c.y[j])
	}
}

func (c *flatGraph) release() {
	c.n, c.m = 0, 0
	c.orig = nil
	c.x, c.y, c.weight = nil, nil, nil
	c.dx, c.dy = nil, nil
	c.src, c.tgt = nil, nil
}
