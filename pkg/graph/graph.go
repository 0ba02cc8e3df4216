package graph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the first
	// endpoint does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the second
	// endpoint does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to nodes.
// It survives a JSON round trip and is ignored by the layout solver.
type Metadata map[string]any

// Node is a vertex with the geometry attributes the layout solver uses.
//
// The zero value is not usable: ID must be set before adding to a Graph.
type Node struct {
	ID     string   // Unique identifier
	X, Y   float64  // Centre position
	Width  float64  // Box width, expands the occupied bounding box by Width/2
	Height float64  // Box height, expands the occupied bounding box by Height/2
	Weight float64  // Repulsion multiplier when node weighting is enabled (<= 0 reads as 1)
	Meta   Metadata // Arbitrary metadata (never nil after AddNode)

	index int
}

// Index returns the node's insertion index, its stable identity in the graph.
func (n Node) Index() int { return n.index }

// Edge is an undirected connection between two nodes.
// From and To keep the orientation the edge was added with, for output only.
type Edge struct {
	From string
	To   string
}

// Graph is an undirected multigraph with node attributes.
//
// Self-loops and parallel edges are accepted. Self-loops never contribute to
// a layout; parallel edges pull their endpoints together once per edge.
//
// The zero value is not usable - use New to create a valid Graph.
type Graph struct {
	nodes []*Node
	index map[string]int
	edges []Edge
	adj   [][]int // node index -> neighbour node indices, one entry per edge end
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode appends a node to the graph. Returns ErrInvalidNodeID if the ID is
// empty or ErrDuplicateNodeID if the ID is taken. The node's Meta field is
// initialized to an empty map if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	n.index = len(g.nodes)
	node := &n
	g.index[n.ID] = n.index
	g.nodes = append(g.nodes, node)
	g.adj = append(g.adj, nil)
	return nil
}

// AddEdge adds an undirected edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode for missing endpoints.
func (g *Graph) AddEdge(from, to string) error {
	fi, ok := g.index[from]
	if !ok {
		return ErrUnknownSourceNode
	}
	ti, ok := g.index[to]
	if !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.adj[fi] = append(g.adj[fi], ti)
	if fi != ti {
		g.adj[ti] = append(g.adj[ti], fi)
	}
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// NodeAt returns the node with insertion index i. It panics if i is out of range.
func (g *Graph) NodeAt(i int) *Node { return g.nodes[i] }

// Nodes returns all nodes in insertion order.
// The slice is a copy; the nodes are shared with the graph.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Neighbors returns the insertion indices adjacent to node i, one entry per
// incident edge. The returned slice must not be modified.
func (g *Graph) Neighbors(i int) []int { return g.adj[i] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.nodes) == 0 }

// SetPosition moves node i to (x, y).
func (g *Graph) SetPosition(i int, x, y float64) {
	g.nodes[i].X = x
	g.nodes[i].Y = y
}

// Translate moves node i by (dx, dy).
func (g *Graph) Translate(i int, dx, dy float64) {
	g.nodes[i].X += dx
	g.nodes[i].Y += dy
}

// Clone returns a deep copy of the graph. Metadata maps are copied shallowly.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make([]*Node, len(g.nodes)),
		index: maps.Clone(g.index),
		edges: slices.Clone(g.edges),
		adj:   make([][]int, len(g.adj)),
	}
	for i, n := range g.nodes {
		cp := *n
		cp.Meta = maps.Clone(n.Meta)
		c.nodes[i] = &cp
	}
	for i, a := range g.adj {
		c.adj[i] = slices.Clone(a)
	}
	return c
}
