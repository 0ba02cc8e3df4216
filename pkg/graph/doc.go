// Package graph provides the attributed, undirected graph that springembed
// lays out, together with its traversal primitives and wire format.
//
// # Overview
//
// A [Graph] stores nodes in insertion order. The insertion index of a node is
// its stable identity: the layout solver uses it to order nodes inside a
// component and to record every undirected edge exactly once. Each node
// carries the geometry the solver reads and writes:
//
//   - X, Y: current centre position (read as the initial layout, written back)
//   - Width, Height: node box size, used to compute occupied bounding boxes
//   - Weight: optional repulsion multiplier
//
// # Basic Usage
//
//	g := graph.New()
//	_ = g.AddNode(graph.Node{ID: "a", X: 0, Y: 0})
//	_ = g.AddNode(graph.Node{ID: "b", X: 10, Y: 0})
//	_ = g.AddEdge("a", "b")
//
// Nodes added without a size get the layout standards from [DefaultNodeWidth]
// and [DefaultNodeHeight] when read from JSON; programmatic callers set sizes
// explicitly.
//
// # Connected Components
//
// [ConnectedComponents] partitions the node set with a breadth-first search.
// Components are numbered in discovery order (the order of their first node)
// and list their members in node order.
//
// # Serialization
//
// Graphs use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "x": 0, "y": 0, "width": 20, "height": 20}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// See [ReadGraphFile], [WriteGraphFile], [MarshalGraph] and [UnmarshalGraph].
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Concurrent reads are fine.
package graph
