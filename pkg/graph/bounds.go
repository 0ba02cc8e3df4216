package graph

import "math"

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns MaxX - MinX.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns MaxY - MinY.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Box returns the area occupied by the node: its centre expanded by half its
// width and height.
func (n Node) Box() Rect {
	return Rect{
		MinX: n.X - n.Width/2,
		MinY: n.Y - n.Height/2,
		MaxX: n.X + n.Width/2,
		MaxY: n.Y + n.Height/2,
	}
}

// BoundsOf returns the union of the boxes of the nodes with the given
// insertion indices. An empty index list yields the zero Rect.
func (g *Graph) BoundsOf(indices []int) Rect {
	if len(indices) == 0 {
		return Rect{}
	}
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, i := range indices {
		b := g.nodes[i].Box()
		r.MinX = min(r.MinX, b.MinX)
		r.MinY = min(r.MinY, b.MinY)
		r.MaxX = max(r.MaxX, b.MaxX)
		r.MaxY = max(r.MaxY, b.MaxY)
	}
	return r
}

// Bounds returns the union of all node boxes.
func (g *Graph) Bounds() Rect {
	all := make([]int, len(g.nodes))
	for i := range all {
		all[i] = i
	}
	return g.BoundsOf(all)
}
