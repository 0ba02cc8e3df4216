package spring

import "math"

// cool advances the temperature by one iteration.
func (s *solverState) cool(o *Options) {
	switch o.Cooling {
	case CoolingLogarithmic:
		// log2(1) is zero, so the first iteration keeps t0.
		if l := math.Log2(float64(s.cF)); l != 0 {
			s.tx = s.tx0 / l
			s.ty = s.ty0 / l
		}
		s.cF++
	default:
		s.tx *= o.CoolFactorX
		s.ty *= o.CoolFactorY
	}
}
