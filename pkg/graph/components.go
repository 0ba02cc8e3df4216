package graph

import "github.com/gammazero/deque"

// Components is a partition of a graph's nodes into connected components.
type Components struct {
	// Of maps a node's insertion index to its component index.
	Of []int
	// Members lists the node indices of each component in node order.
	Members [][]int
}

// Count returns the number of components.
func (c Components) Count() int { return len(c.Members) }

// ConnectedComponents partitions g into maximal connected subgraphs.
//
// Components are numbered in discovery order: scanning nodes by insertion
// index, each node not yet reached starts a new component which is then
// filled by breadth-first search. Members are listed in node order so that
// callers see a stable visiting order independent of the search.
//
// Time: O(V+E). Memory: O(V).
func ConnectedComponents(g *Graph) Components {
	n := g.NodeCount()
	of := make([]int, n)
	for i := range of {
		of[i] = -1
	}

	count := 0
	var queue deque.Deque[int]
	for start := 0; start < n; start++ {
		if of[start] >= 0 {
			continue
		}
		of[start] = count
		queue.PushBack(start)
		for queue.Len() > 0 {
			v := queue.PopFront()
			for _, w := range g.adj[v] {
				if of[w] < 0 {
					of[w] = count
					queue.PushBack(w)
				}
			}
		}
		count++
	}

	members := make([][]int, count)
	for v, c := range of {
		members[c] = append(members[c], v)
	}
	return Components{Of: of, Members: members}
}
