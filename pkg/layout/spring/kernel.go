package spring

import "math"

const (
	// minDist is the distance floor used wherever a distance divides.
	minDist   = 1e-5
	minDistSq = minDist * minDist

	// repulsionScale multiplies k² to form the repulsion constant.
	repulsionScale = 0.052

	// coincidentStep is the per-axis offset substituted for an exactly zero
	// separation, so that coincident nodes get pushed apart diagonally.
	coincidentStep = minDist / math.Sqrt2
)

// params are the per-component constants of an iteration.
type params struct {
	k           float64 // ideal edge length
	cRep        float64 // repulsion constant, repulsionScale*k²
	thresholdSq float64 // squared convergence threshold, (ConvTolerance*k)²
}

func newParams(o *Options) params {
	k := o.IdealEdgeLength
	tol := o.ConvTolerance * k
	return params{k: k, cRep: repulsionScale * k * k, thresholdSq: tol * tol}
}

// kernel computes one Jacobi iteration on the loaded component: forces from
// the current positions, then clamped moves. It reports whether every node
// moved less than the convergence threshold.
type kernel interface {
	name() string
	step(c *flatGraph, st *solverState, p params) bool
}

// scalarKernel is the single-goroutine reference implementation.
type scalarKernel struct{}

func (scalarKernel) name() string { return string(KernelScalar) }

func (scalarKernel) step(c *flatGraph, st *solverState, p params) bool {
	repulse(c, p.cRep, 0, c.n)
	attract(c, p.k)
	return displace(c, st, p.thresholdSq, 0, c.n)
}

// coincident returns the separation substituted for nodes v and u sharing a
// position. The sign depends on index order so the pair moves apart.
func coincident(v, u int) (float64, float64) {
	if v < u {
		return -coincidentStep, -coincidentStep
	}
	return coincidentStep, coincidentStep
}

// repulse overwrites the displacement of nodes [lo, hi) with the repulsive
// force from every other node of the component:
//
//	disp[v] = cRep * Σ_u (pos[v]-pos[u]) * weight[u] / max(minDist², |pos[v]-pos[u]|²)
func repulse(c *flatGraph, cRep float64, lo, hi int) {
	x, y, w := c.x[:c.n], c.y[:c.n], c.weight[:c.n]
	for v := lo; v < hi; v++ {
		xv, yv := x[v], y[v]
		var sx, sy float64
		for u := range x {
			if u == v {
				continue
			}
			ddx, ddy := xv-x[u], yv-y[u]
			if ddx == 0 && ddy == 0 {
				ddx, ddy = coincident(v, u)
			}
			t := w[u] / max(minDistSq, ddx*ddx+ddy*ddy)
			sx += ddx * t
			sy += ddy * t
		}
		c.dx[v] = sx * cRep
		c.dy[v] = sy * cRep
	}
}

// attract adds the spring force of every edge to both endpoints. Force
// magnitude is dist²/k along the edge.
func attract(c *flatGraph, k float64) {
	for e := range c.m {
		v, u := c.src[e], c.tgt[e]
		ddx, ddy := c.x[v]-c.x[u], c.y[v]-c.y[u]
		f := max(minDist, math.Sqrt(ddx*ddx+ddy*ddy)) / k
		c.dx[v] -= ddx * f
		c.dy[v] -= ddy * f
		c.dx[u] += ddx * f
		c.dy[u] += ddy * f
	}
}

// displace moves nodes [lo, hi) along their displacement, each axis clamped
// to the current temperature. It reports whether every move stayed within
// the convergence threshold.
func displace(c *flatGraph, st *solverState, thresholdSq float64, lo, hi int) bool {
	converged := true
	for v := lo; v < hi; v++ {
		dx, dy := c.dx[v], c.dy[v]
		dist := max(minDist, math.Sqrt(dx*dx+dy*dy))
		mx := dx / dist * min(dist, st.tx)
		my := dy / dist * min(dist, st.ty)
		if mx*mx+my*my > thresholdSq {
			converged = false
		}
		c.x[v] += mx
		c.y[v] += my
	}
	return converged
}
