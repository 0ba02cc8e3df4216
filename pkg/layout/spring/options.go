package spring

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/graph"
	"github.com/matzehuels/springembed/pkg/packing"
)

// =============================================================================
// Enumerations
// =============================================================================

// CoolingFunction selects how the per-axis temperature decays.
type CoolingFunction string

const (
	// CoolingFactor multiplies both temperatures by CoolFactorX/Y every iteration.
	CoolingFactor CoolingFunction = "factor"

	// CoolingLogarithmic resets the temperatures to t0/log2(i) at iteration i.
	// It cools more slowly and suits large iteration budgets.
	CoolingLogarithmic CoolingFunction = "logarithmic"
)

// KernelKind selects the implementation of one force iteration.
type KernelKind string

const (
	// KernelAuto picks the unrolled parallel kernel when the CPU has wide
	// floating-point units and falls back to the scalar kernel otherwise.
	KernelAuto KernelKind = "auto"

	// KernelScalar is the single-goroutine reference kernel.
	KernelScalar KernelKind = "scalar"

	// KernelUnrolled is the lane-unrolled kernel that splits the repulsive and
	// displacement passes across a worker pool.
	KernelUnrolled KernelKind = "unrolled"
)

// CoolingFunctions lists the accepted cooling schedules.
func CoolingFunctions() []CoolingFunction {
	return []CoolingFunction{CoolingFactor, CoolingLogarithmic}
}

// KernelKinds lists the accepted kernel selections, KernelAuto first.
func KernelKinds() []KernelKind {
	return []KernelKind{KernelAuto, KernelScalar, KernelUnrolled}
}

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultIterations is the iteration budget per component.
	DefaultIterations = 1000

	// DefaultCoolFactor is the per-axis decay for CoolingFactor.
	DefaultCoolFactor = 0.9

	// DefaultPageRatio is the width/height ratio handed to the packer.
	DefaultPageRatio = 1.0

	// DefaultConvTolerance is the fraction of the ideal edge length below
	// which a node counts as settled.
	DefaultConvTolerance = 0.01
)

// =============================================================================
// Options
// =============================================================================

// Options configures an Embedder. Use DefaultOptions as the starting point;
// the zero value disables convergence checking and fails validation.
//
// Options are immutable for the duration of a Call.
type Options struct {
	// Iterations is the iteration budget per component. Zero skips the force
	// simulation entirely and keeps the initializer's rescaled coordinates.
	Iterations int `json:"iterations" toml:"iterations" mapstructure:"iterations"`

	// Cooling selects the temperature schedule.
	Cooling CoolingFunction `json:"cooling" toml:"cooling" mapstructure:"cooling"`

	// CoolFactorX and CoolFactorY are the per-axis multipliers in (0, 1]
	// used by CoolingFactor.
	CoolFactorX float64 `json:"cool_factor_x" toml:"cool_factor_x" mapstructure:"cool_factor_x"`
	CoolFactorY float64 `json:"cool_factor_y" toml:"cool_factor_y" mapstructure:"cool_factor_y"`

	// IdealEdgeLength is the spring rest length k. It also scales repulsion.
	IdealEdgeLength float64 `json:"ideal_edge_length" toml:"ideal_edge_length" mapstructure:"ideal_edge_length"`

	// MinDistCC is the minimum gap between packed components.
	MinDistCC float64 `json:"min_dist_cc" toml:"min_dist_cc" mapstructure:"min_dist_cc"`

	// PageRatio is the target width/height ratio for component packing.
	PageRatio float64 `json:"page_ratio" toml:"page_ratio" mapstructure:"page_ratio"`

	// UseNodeWeight scales each node's repulsion by its Weight attribute.
	UseNodeWeight bool `json:"use_node_weight" toml:"use_node_weight" mapstructure:"use_node_weight"`

	// CheckConvergence enables early termination once every node moves less
	// than ConvTolerance*IdealEdgeLength in one iteration.
	CheckConvergence bool    `json:"check_convergence" toml:"check_convergence" mapstructure:"check_convergence"`
	ConvTolerance    float64 `json:"conv_tolerance" toml:"conv_tolerance" mapstructure:"conv_tolerance"`

	// Noise is accepted for compatibility with other placers and has no
	// effect on the force simulation.
	Noise bool `json:"noise" toml:"noise" mapstructure:"noise"`

	// Kernel forces a kernel implementation. Empty means KernelAuto.
	Kernel KernelKind `json:"kernel,omitempty" toml:"kernel" mapstructure:"kernel"`

	// Workers bounds the worker pool of the unrolled kernel. Zero means
	// runtime.GOMAXPROCS(0), and larger values are capped at it.
	Workers int `json:"workers,omitempty" toml:"workers" mapstructure:"workers"`

	// Packer arranges the laid-out components. Nil means packing.TileToRows.
	Packer packing.Packer `json:"-" toml:"-" mapstructure:"-"`

	// Logger receives per-component debug records. Nil discards them.
	Logger *log.Logger `json:"-" toml:"-" mapstructure:"-"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Iterations:       DefaultIterations,
		Cooling:          CoolingFactor,
		CoolFactorX:      DefaultCoolFactor,
		CoolFactorY:      DefaultCoolFactor,
		IdealEdgeLength:  graph.DefaultIdealEdgeLength(),
		MinDistCC:        graph.DefaultCCSeparation,
		PageRatio:        DefaultPageRatio,
		UseNodeWeight:    false,
		CheckConvergence: true,
		ConvTolerance:    DefaultConvTolerance,
		Noise:            true,
		Kernel:           KernelAuto,
	}
}

// Validate checks the structural preconditions of the solver. Violations are
// programming errors and are reported with code ErrCodeInvalidConfig.
func (o *Options) Validate() error {
	switch {
	case o.Iterations < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "iterations must be >= 0, got %d", o.Iterations)
	case o.IdealEdgeLength <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "ideal edge length must be > 0, got %v", o.IdealEdgeLength)
	case o.MinDistCC < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "component separation must be >= 0, got %v", o.MinDistCC)
	case o.PageRatio <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "page ratio must be > 0, got %v", o.PageRatio)
	case o.ConvTolerance < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "convergence tolerance must be >= 0, got %v", o.ConvTolerance)
	case o.Workers < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be >= 0, got %d", o.Workers)
	}

	switch o.Cooling {
	case CoolingFactor:
		if o.CoolFactorX <= 0 || o.CoolFactorX > 1 || o.CoolFactorY <= 0 || o.CoolFactorY > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "cool factors must be in (0, 1], got %v/%v", o.CoolFactorX, o.CoolFactorY)
		}
	case CoolingLogarithmic:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cooling function: %q (must be one of: factor, logarithmic)", o.Cooling)
	}

	switch o.Kernel {
	case "", KernelAuto, KernelScalar, KernelUnrolled:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid kernel: %q (must be one of: auto, scalar, unrolled)", o.Kernel)
	}
	return nil
}

func (o *Options) workers() int {
	procs := runtime.GOMAXPROCS(0)
	if o.Workers > 0 {
		return min(o.Workers, procs)
	}
	return procs
}

func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

func (o *Options) packer() packing.Packer {
	if o.Packer != nil {
		return o.Packer
	}
	return packing.TileToRows{}
}
