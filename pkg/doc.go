// Package pkg provides the libraries behind springembed, a force-directed
// graph layout tool.
//
// # Overview
//
// springembed positions the nodes of an undirected graph with the exact
// Fruchterman-Reingold spring embedder: every pair of nodes repels, every
// edge pulls its endpoints together, and a cooling schedule caps how far a
// node may move per iteration. Connected components are laid out one at a
// time and then packed into rows.
//
// The pkg directory is organized into four areas:
//
//  1. [graph], [packing] - Graph model, component detection, bounding boxes and packing
//  2. [layout/spring] - The spring embedder itself
//  3. [pipeline], [render/nodelink] - Orchestration (layout → render) and DOT/SVG output
//  4. [cache], [store], [observability], [errors], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	graph.json
//	     ↓
//	[graph] package (parse, validate, find components)
//	     ↓
//	[layout/spring] package (initialize, iterate, pack)
//	     ↓
//	[pipeline] package (cache, render)
//	     ↓
//	layout.json / DOT / SVG
//
// # Quick Start
//
//	g, err := graph.ReadGraphFile("graph.json")
//	if err != nil {
//	    return err
//	}
//	emb, err := spring.New(spring.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	res, err := emb.Call(ctx, g)
//	if err != nil {
//	    return err
//	}
//	for _, n := range g.Nodes() {
//	    fmt.Printf("%s: (%.1f, %.1f)\n", n.ID, n.X, n.Y)
//	}
//	fmt.Println(res.Kernel, len(res.Components))
package pkg
