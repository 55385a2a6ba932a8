package graph

import "sort"

// Rollup names a group of process ids that should be presented as a
// single merged node, a subgraph/roll-out collapsing feature for
// summarizing large process trees into one reporting unit.
type Rollup struct {
	ID        string
	Label     string
	ProcessID []string
}

// CollapsedNode is the merged representation of a Rollup once projected
// onto a reconstructed graph: a single node whose Predecessors/
// Successors are the union of the external (non-member) edges of its
// constituent processes.
type CollapsedNode struct {
	Rollup       Rollup
	Predecessors map[string]struct{}
	Successors   map[string]struct{}
}

// CollapseRollups merges every process named by a Rollup into one node
// per rollup, redirecting edges that crossed the rollup boundary to/from
// the merged node (mirroring merge_nodes: an edge into any member becomes
// an edge into the merged node, an edge out of any member becomes an edge
// out of the merged node; edges between two members of the same rollup
// are dropped).
func (g *Graph) CollapseRollups(rollups []Rollup) *Graph {
	memberOf := make(map[string]string, len(g.Nodes))
	byID := make(map[string]Rollup, len(rollups))
	for _, r := range rollups {
		byID[r.ID] = r
		for _, pid := range r.ProcessID {
			memberOf[pid] = r.ID
		}
	}

	out := &Graph{
		Nodes: make(map[string]Node),
		Edges: make(map[string]map[string]struct{}),
	}
	for pid, n := range g.Nodes {
		if _, merged := memberOf[pid]; merged {
			continue
		}
		out.Nodes[pid] = n
	}
	for rid := range byID {
		out.Nodes[rid] = Node{ID: rid}
	}

	targetOf := func(pid string) string {
		if rid, ok := memberOf[pid]; ok {
			return rid
		}
		return pid
	}

	for pid, deps := range g.Edges {
		to := targetOf(pid)
		merged := out.Edges[to]
		if merged == nil {
			merged = make(map[string]struct{})
			out.Edges[to] = merged
		}
		for dep := range deps {
			from := targetOf(dep)
			if from == to {
				continue // internal rollup edge
			}
			merged[from] = struct{}{}
		}
	}
	return out
}

// RollupIDs returns the ids of rollups in out, sorted.
func (out *Graph) RollupIDs(rollups []Rollup) []string {
	ids := make([]string, 0, len(rollups))
	for _, r := range rollups {
		if _, ok := out.Nodes[r.ID]; ok {
			ids = append(ids, r.ID)
		}
	}
	sort.Strings(ids)
	return ids
}
