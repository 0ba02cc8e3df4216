package spring

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/springembed/pkg/graph"
)

type point struct{ x, y float64 }

// buildGraph creates nodes n0..n(k-1) at the given points and connects the
// listed index pairs.
func buildGraph(t testing.TB, pts []point, edges [][2]int) *graph.Graph {
	t.Helper()
	g := graph.New()
	for i, p := range pts {
		err := g.AddNode(graph.Node{
			ID:     fmt.Sprintf("n%d", i),
			X:      p.x,
			Y:      p.y,
			Width:  graph.DefaultNodeWidth,
			Height: graph.DefaultNodeHeight,
		})
		if err != nil {
			t.Fatalf("AddNode(n%d): %v", i, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(fmt.Sprintf("n%d", e[0]), fmt.Sprintf("n%d", e[1])); err != nil {
			t.Fatalf("AddEdge(n%d, n%d): %v", e[0], e[1], err)
		}
	}
	return g
}

func distance(g *graph.Graph, a, b int) float64 {
	na, nb := g.NodeAt(a), g.NodeAt(b)
	return math.Hypot(na.X-nb.X, na.Y-nb.Y)
}

// loadSingle loads component 0 of g into a fresh flat graph.
func loadSingle(g *graph.Graph) *flatGraph {
	flat := newFlatGraph(g, graph.ConnectedComponents(g), false)
	flat.load(0)
	flat.grow()
	return flat
}

// near reports whether got is within tol of want.
func near(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func testOptions(k float64) Options {
	opts := DefaultOptions()
	opts.IdealEdgeLength = k
	return opts
}
