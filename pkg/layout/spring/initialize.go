package spring

import "math"

// solverState carries the temperature of one component between iterations.
type solverState struct {
	tx, ty   float64 // current per-axis displacement caps
	tx0, ty0 float64 // initial caps, used by logarithmic cooling
	cF       int     // logarithmic cooling counter, starts at 1
}

// initialize rescales the loaded component into a box that holds n nodes at
// spacing k, keeping its aspect ratio, and derives the starting temperature.
//
// With w and h the extents padded by k, the target box is W x H with
// H/W = h/w and W*H = n*k². The minimum corner moves to the origin.
// The component must have at least one node.
func initialize(c *flatGraph, k float64) *solverState {
	xmin, xmax := c.x[0], c.x[0]
	ymin, ymax := c.y[0], c.y[0]
	for j := 1; j < c.n; j++ {
		xmin, xmax = min(xmin, c.x[j]), max(xmax, c.x[j])
		ymin, ymax = min(ymin, c.y[j]), max(ymax, c.y[j])
	}

	w := xmax - xmin + k
	h := ymax - ymin + k
	ratio := h / w
	boxW := math.Sqrt(float64(c.n)/ratio) * k
	boxH := ratio * boxW

	fx, fy := boxW/w, boxH/h
	for j := range c.n {
		c.x[j] = (c.x[j] - xmin) * fx
		c.y[j] = (c.y[j] - ymin) * fy
	}

	tx, ty := boxW/8, boxH/8
	return &solverState{tx: tx, ty: ty, tx0: tx, ty0: ty, cF: 1}
}
