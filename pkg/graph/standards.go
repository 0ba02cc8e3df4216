package graph

import "math"

// Layout standards shared by the solver defaults and the JSON reader.
const (
	// DefaultNodeWidth is the width given to nodes that do not specify one.
	DefaultNodeWidth = 20.0

	// DefaultNodeHeight is the height given to nodes that do not specify one.
	DefaultNodeHeight = 20.0

	// DefaultNodeSeparation is the preferred free space between two nodes.
	DefaultNodeSeparation = 20.0

	// DefaultCCSeparation is the preferred gap between packed components.
	DefaultCCSeparation = 20.0
)

// DefaultIdealEdgeLength is the node separation plus the diagonal of a
// default node box.
func DefaultIdealEdgeLength() float64 {
	return DefaultNodeSeparation + math.Hypot(DefaultNodeWidth, DefaultNodeHeight)
}
