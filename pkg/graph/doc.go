// Package graph provides the precedence graph that modgraph decomposes into
// modules.
//
// # Overview
//
// A precedence graph is built from rows of operation labels: within a row,
// every operation precedes the one that follows it. [Build] turns a selection
// of rows into a [Graph] where each label is a [Node] and each adjacency in a
// row is a parent -> child edge.
//
//	g := graph.Build([]int{0, 1}, [][]string{
//	    {"cut", "drill", "paint"},
//	    {"cut", "weld", "paint"},
//	})
//	fmt.Println(g) // cut -> drill;cut -> weld;drill -> paint;weld -> paint
//
// # Storage
//
// Nodes live in an arena and are addressed by [NodeID]. Adjacency is kept on
// both endpoints as ID lists, so removing a node is a slot invalidation plus
// list updates and no node ever holds a dangling pointer to another. Labels
// are the public addressing mechanism ([Graph.Find]) but are not stable: they
// grow as nodes are merged.
//
// # Merging
//
// [Graph.Merge] is the only operation that removes nodes. It contracts one
// node into another, concatenating labels (survivor first) and redirecting
// every edge of the absorbed node to the survivor without creating duplicate
// edges or self-loops. A merge is refused when the survivor would hold more
// than [MaxModuleSize] original nodes; callers must treat a refused merge as
// a no-op rather than an error.
//
// # Snapshots
//
// [Graph.Snapshot] renders the current edges as "parent -> child" lines joined
// by ";". Snapshots are an audit trail of a decomposition run, not an exchange
// format; use the io package to serialize graphs.
//
// # Invariants
//
// Outside of a running merge every graph satisfies edge symmetry, has no
// self-loops, and respects the module size cap. [Graph.Validate] checks all
// three.
//
// # Concurrency
//
// Graph is not safe for concurrent use.
package graph
