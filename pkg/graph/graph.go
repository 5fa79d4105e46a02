package graph

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrAsymmetricEdge is returned by [Graph.Validate] when a child edge has no
	// matching parent edge (or vice versa).
	ErrAsymmetricEdge = errors.New("asymmetric edge")

	// ErrSelfLoop is returned by [Graph.Validate] when a node lists itself as a
	// child or parent.
	ErrSelfLoop = errors.New("self-loop")

	// ErrDanglingEdge is returned by [Graph.Validate] when an adjacency list
	// references a node that has been merged away.
	ErrDanglingEdge = errors.New("edge references removed node")

	// ErrModuleTooLarge is returned by [Graph.Validate] when a node has absorbed
	// more than [MaxModuleSize] original nodes.
	ErrModuleTooLarge = errors.New("module exceeds size cap")
)

// MaxModuleSize is the largest number of original nodes a single node may hold.
// [Graph.Merge] refuses any merge whose result would exceed it.
const MaxModuleSize = 5

// NodeID addresses a node inside the arena of its owning [Graph]. IDs are stable
// for the lifetime of the graph and are never reused after a node is merged away.
type NodeID int

// Kind classifies a node during decomposition.
type Kind int

const (
	// KindUnclassified is the initial kind of every node.
	KindUnclassified Kind = iota
	// KindModule marks a node that matched a terminal pattern (pure source or
	// pure sink).
	KindModule
)

// String returns "unclassified" or "module".
func (k Kind) String() string {
	if k == KindModule {
		return "module"
	}
	return "unclassified"
}

// ParseKind is the inverse of [Kind.String]. Unknown values map to
// KindUnclassified.
func ParseKind(s string) Kind {
	if s == "module" {
		return KindModule
	}
	return KindUnclassified
}

// Node is a vertex of the precedence graph.
//
// Label is the node's current identity. It changes when other nodes are merged
// into this one, so it is not a stable key; use ID for that.
type Node struct {
	ID         NodeID
	Label      string
	Members    []string // original labels folded into this node, in merge order
	Kind       Kind
	MergeCount int

	children []NodeID
	parents  []NodeID
}

// HasChildren reports whether the node has at least one outgoing edge.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// HasParents reports whether the node has at least one incoming edge.
func (n *Node) HasParents() bool { return len(n.parents) > 0 }

// Degree returns the total number of incoming and outgoing edges.
func (n *Node) Degree() int { return len(n.children) + len(n.parents) }

// Graph owns every node of a precedence graph.
//
// Nodes live in an arena indexed by [NodeID]; adjacency is stored as ID lists
// on both endpoints. The zero value is an empty, usable graph. Graph is not
// safe for concurrent use.
type Graph struct {
	arena []*Node  // nil slot = merged away
	order []NodeID // live nodes in insertion order
}

// New returns an empty graph.
func New() *Graph { return &Graph{} }

// Find returns the first live node (in insertion order) with the given label.
func (g *Graph) Find(label string) (*Node, bool) {
	for _, id := range g.order {
		if n := g.arena[id]; n.Label == label {
			return n, true
		}
	}
	return nil, false
}

// Node returns the live node with the given ID.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(g.arena) || g.arena[id] == nil {
		return nil, false
	}
	return g.arena[id], true
}

// AddNode inserts a node with the given label unless one already exists, and
// returns the node carrying that label.
func (g *Graph) AddNode(label string) *Node {
	if n, ok := g.Find(label); ok {
		return n
	}
	return g.Insert(label)
}

// Insert appends a new node without checking for an existing label. It exists
// for decoders that restore merged graphs, where labels need not be unique;
// construction code should use [Graph.AddNode].
func (g *Graph) Insert(label string) *Node {
	n := &Node{
		ID:         NodeID(len(g.arena)),
		Label:      label,
		Members:    []string{label},
		MergeCount: 1,
	}
	g.arena = append(g.arena, n)
	g.order = append(g.order, n.ID)
	return n
}

// AddChildren adds each of children as a child of the node labelled label and
// registers that node as their parent. Edges that already exist, self edges,
// nodes not owned by g, and an unknown label are ignored.
func (g *Graph) AddChildren(label string, children ...*Node) {
	n, ok := g.Find(label)
	if !ok {
		return
	}
	for _, c := range children {
		g.link(n, c)
	}
}

// AddParents is the mirror of [Graph.AddChildren] for incoming edges.
func (g *Graph) AddParents(label string, parents ...*Node) {
	n, ok := g.Find(label)
	if !ok {
		return
	}
	for _, p := range parents {
		g.link(p, n)
	}
}

// AddEdge adds the edge from -> to between two nodes of g and reports whether
// a new edge was created.
func (g *Graph) AddEdge(from, to *Node) bool { return g.link(from, to) }

// link adds the edge from -> to if both ends are live nodes of g, the edge is
// new and it is not a self edge.
func (g *Graph) link(from, to *Node) bool {
	if !g.owns(from) || !g.owns(to) || from == to {
		return false
	}
	if slices.Contains(from.children, to.ID) {
		return false
	}
	from.children = append(from.children, to.ID)
	if !slices.Contains(to.parents, from.ID) {
		to.parents = append(to.parents, from.ID)
	}
	return true
}

func (g *Graph) owns(n *Node) bool {
	if n == nil {
		return false
	}
	live, ok := g.Node(n.ID)
	return ok && live == n
}

// Nodes returns the live nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.arena[id]
	}
	return nodes
}

// Children returns the children of n in edge insertion order.
func (g *Graph) Children(n *Node) []*Node { return g.resolve(n.children) }

// Parents returns the parents of n in edge insertion order.
func (g *Graph) Parents(n *Node) []*Node { return g.resolve(n.parents) }

func (g *Graph) resolve(ids []NodeID) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, id := range g.order {
		total += len(g.arena[id].children)
	}
	return total
}

// Snapshot renders every edge as "parent -> child", joined by ";". Nodes are
// visited in insertion order and children in edge order; duplicate lines are
// dropped. An edgeless graph yields "".
func (g *Graph) Snapshot() string {
	seen := make(map[string]struct{})
	var lines []string
	for _, id := range g.order {
		n := g.arena[id]
		for _, c := range n.children {
			line := n.Label + " -> " + g.arena[c].Label
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, ";")
}

// String is an alias for [Graph.Snapshot].
func (g *Graph) String() string { return g.Snapshot() }

// Clone returns a deep copy of g. Node IDs are preserved.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		arena: make([]*Node, len(g.arena)),
		order: slices.Clone(g.order),
	}
	for i, n := range g.arena {
		if n == nil {
			continue
		}
		cp := *n
		cp.Members = slices.Clone(n.Members)
		cp.children = slices.Clone(n.children)
		cp.parents = slices.Clone(n.parents)
		c.arena[i] = &cp
	}
	return c
}
