package graph

import "slices"

// Merge contracts deleting into union and reports whether the merge happened.
//
// The merge is refused, leaving g untouched, when the result would hold more
// than [MaxModuleSize] original nodes, when both arguments are the same node,
// or when either node is not a live node of g. Otherwise:
//
//  1. deleting's neighbours other than union are captured,
//  2. every edge touching deleting is removed graph-wide,
//  3. deleting's label and members are appended to union's,
//  4. deleting is dropped from the arena,
//  5. the captured neighbours are re-attached to union.
//
// Because edges are stripped before re-attachment, a neighbour that was
// connected to both nodes ends up with a single edge to union, and the former
// union-deleting edges never turn into a self-loop.
func (g *Graph) Merge(union, deleting *Node) bool {
	if !g.owns(union) || !g.owns(deleting) || union == deleting {
		return false
	}
	if union.MergeCount > MaxModuleSize || union.MergeCount+deleting.MergeCount > MaxModuleSize {
		return false
	}

	children := g.resolve(without(deleting.children, union.ID))
	parents := g.resolve(without(deleting.parents, union.ID))

	for _, id := range g.order {
		n := g.arena[id]
		n.children = without(n.children, deleting.ID)
		n.parents = without(n.parents, deleting.ID)
	}

	union.Label += deleting.Label
	union.Members = append(union.Members, deleting.Members...)
	union.MergeCount += deleting.MergeCount

	g.arena[deleting.ID] = nil
	g.order = without(g.order, deleting.ID)
	deleting.children, deleting.parents = nil, nil

	for _, c := range children {
		g.link(union, c)
	}
	for _, p := range parents {
		g.link(p, union)
	}
	return true
}

// MergeByDegree merges the node with fewer edges into the one with more.
// On a tie a absorbs b.
func (g *Graph) MergeByDegree(a, b *Node) bool {
	if a.Degree() < b.Degree() {
		return g.Merge(b, a)
	}
	return g.Merge(a, b)
}

func without(ids []NodeID, drop NodeID) []NodeID {
	return slices.DeleteFunc(slices.Clone(ids), func(id NodeID) bool { return id == drop })
}
