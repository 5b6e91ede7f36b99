package detection

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ironsheep/staffscan/internal/score"
)

// MergeResult contains symbol candidates after fragment merging.
type MergeResult struct {
	// Components are ordered by ID; each merged group keeps the smallest
	// member ID.
	Components []Component `json:"components"`

	// Merged is the number of input components absorbed into another one.
	Merged int `json:"merged"`

	// Degenerate is the number of groups discarded for zero area.
	Degenerate int `json:"degenerate"`
}

// MergeComponents joins fragments that belong to one symbol.
//
// Two components are related when the intersection of their bounding boxes
// covers more than OverlapThreshold of the smaller box. Merging is the
// transitive closure of that relation: a chain of fragments where each
// overlaps the next becomes one candidate even when its ends do not overlap.
//
// # Algorithm
//
//  1. Sweep components in order of left edge; only pairs whose horizontal
//     extents intersect are compared, so distant symbols cost nothing
//  2. Each related pair adds an edge to an undirected graph over the
//     components
//  3. Connected components of the graph are the merged groups: bounds are
//     the union of member bounds and the contour concatenates member
//     contours in ID order
//
// The result is deterministic for a given input regardless of graph
// iteration order.
func MergeComponents(components []Component, cfg score.Config) *MergeResult {
	result := &MergeResult{Components: make([]Component, 0, len(components))}
	if len(components) == 0 {
		return result
	}

	g := simple.NewUndirectedGraph()
	for i := range components {
		g.AddNode(simple.Node(i))
	}

	order := make([]int, len(components))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := components[order[i]], components[order[j]]
		if a.Bounds.X != b.Bounds.X {
			return a.Bounds.X < b.Bounds.X
		}
		return a.ID < b.ID
	})

	for i, ai := range order {
		a := components[ai].Bounds
		for _, bi := range order[i+1:] {
			b := components[bi].Bounds
			if b.X >= a.Right() {
				break
			}
			if a.OverlapRatio(b) > cfg.OverlapThreshold {
				g.SetEdge(simple.Edge{F: simple.Node(ai), T: simple.Node(bi)})
			}
		}
	}

	for _, nodes := range topo.ConnectedComponents(g) {
		members := make([]Component, len(nodes))
		for i, n := range nodes {
			members[i] = components[n.ID()]
		}
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

		group := mergeGroup(members)
		result.Merged += len(members) - 1
		if group.Bounds.Empty() {
			result.Degenerate++
			continue
		}
		result.Components = append(result.Components, group)
	}

	sort.Slice(result.Components, func(i, j int) bool {
		return result.Components[i].ID < result.Components[j].ID
	})
	return result
}

// mergeGroup combines members (sorted by ID) into one component.
func mergeGroup(members []Component) Component {
	if len(members) == 1 {
		return members[0]
	}
	size := 0
	for _, m := range members {
		size += len(m.Contour)
	}

	out := Component{ID: members[0].ID, Contour: make(score.Contour, 0, size)}
	for _, m := range members {
		out.Contour = append(out.Contour, m.Contour...)
		out.Bounds = out.Bounds.Union(m.Bounds)
		out.Area += m.Area
	}
	return out
}
