// Package nodelink renders positioned graphs as node-link diagrams.
//
// # Overview
//
// The layout solver decides where every node goes; this package only draws
// the result. Nodes become boxes of their own width and height centred on
// their coordinates, edges become straight lines.
//
// # Usage
//
// Convert a positioned graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// [ToDOT] pins every node with pos="x,y!" and selects the neato engine, which
// honours pinned positions instead of computing its own. The y axis is
// flipped because Graphviz grows upwards while layout coordinates grow
// downwards. The DOT source can also be saved and processed with external
// Graphviz tools (neato -n2).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
