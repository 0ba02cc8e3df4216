package spring

import "slices"

// workPerChunk is the smallest amount of work worth a goroutine.
const workPerChunk = 256

// unrolledKernel evaluates repulsion in four independent accumulator lanes
// and fans the per-node passes out to a worker pool.
//
// Each node's repulsion depends only on the positions, which stay fixed
// until the displacement pass, so chunking never changes the result.
type unrolledKernel struct {
	workers int
}

func (unrolledKernel) name() string { return string(KernelUnrolled) }

func (k unrolledKernel) step(c *flatGraph, st *solverState, p params) bool {
	n := c.n

	parallelFor(n, min(k.workers, 1+n*n/workPerChunk), func(_, lo, hi int) {
		repulseUnrolled(c, p.cRep, lo, hi)
	})

	attract(c, p.k)

	chunks := min(k.workers, 1+n/workPerChunk)
	settled := make([]bool, chunks)
	for i := range settled {
		settled[i] = true
	}
	parallelFor(n, chunks, func(chunk, lo, hi int) {
		settled[chunk] = displace(c, st, p.thresholdSq, lo, hi)
	})
	return !slices.Contains(settled, false)
}

func repulseUnrolled(c *flatGraph, cRep float64, lo, hi int) {
	for v := lo; v < hi; v++ {
		ax, ay := repulseSpan(c, v, 0, v)
		bx, by := repulseSpan(c, v, v+1, c.n)
		c.dx[v] = (ax + bx) * cRep
		c.dy[v] = (ay + by) * cRep
	}
}

// repulseSpan sums the repulsion on v from nodes [from, to), which must not
// contain v.
func repulseSpan(c *flatGraph, v, from, to int) (float64, float64) {
	x, y, w := c.x[:c.n], c.y[:c.n], c.weight[:c.n]
	xv, yv := x[v], y[v]

	var sx0, sx1, sx2, sx3 float64
	var sy0, sy1, sy2, sy3 float64

	u := from
	for ; u+3 < to; u += 4 {
		dx0, dy0 := xv-x[u], yv-y[u]
		dx1, dy1 := xv-x[u+1], yv-y[u+1]
		dx2, dy2 := xv-x[u+2], yv-y[u+2]
		dx3, dy3 := xv-x[u+3], yv-y[u+3]

		if dx0 == 0 && dy0 == 0 {
			dx0, dy0 = coincident(v, u)
		}
		if dx1 == 0 && dy1 == 0 {
			dx1, dy1 = coincident(v, u+1)
		}
		if dx2 == 0 && dy2 == 0 {
			dx2, dy2 = coincident(v, u+2)
		}
		if dx3 == 0 && dy3 == 0 {
			dx3, dy3 = coincident(v, u+3)
		}

		t0 := w[u] / max(minDistSq, dx0*dx0+dy0*dy0)
		t1 := w[u+1] / max(minDistSq, dx1*dx1+dy1*dy1)
		t2 := w[u+2] / max(minDistSq, dx2*dx2+dy2*dy2)
		t3 := w[u+3] / max(minDistSq, dx3*dx3+dy3*dy3)

		sx0 += dx0 * t0
		sy0 += dy0 * t0
		sx1 += dx1 * t1
		sy1 += dy1 * t1
		sx2 += dx2 * t2
		sy2 += dy2 * t2
		sx3 += dx3 * t3
		sy3 += dy3 * t3
	}
	for ; u < to; u++ {
		dx, dy := xv-x[u], yv-y[u]
		if dx == 0 && dy == 0 {
			dx, dy = coincident(v, u)
		}
		t := w[u] / max(minDistSq, dx*dx+dy*dy)
		sx0 += dx * t
		sy0 += dy * t
	}

	return (sx0 + sx1) + (sx2 + sx3), (sy0 + sy1) + (sy2 + sy3)
}
