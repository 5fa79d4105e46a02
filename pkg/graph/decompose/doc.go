// Package decompose contracts a precedence graph into modules.
//
// # Overview
//
// [Decompose] repeatedly runs five passes over a [graph.Graph] until a whole
// iteration leaves the node count unchanged:
//
//  1. [TagSources] marks nodes with children but no parents as modules.
//  2. [TagSinks] marks nodes with parents but no children as modules.
//  3. [MergeMutualPair] contracts the first pair of nodes that are each
//     other's parent and child.
//  4. [MergeCycle] contracts the first directed cycle found by [FindCycle].
//  5. [MergeConvergence] contracts the first reconverging fork (diamond)
//     found by [FindConvergence].
//
// The tagging passes only annotate nodes. The merge passes act on the first
// match only and rely on the driver to call them again; every merge goes
// through [graph.Graph.Merge] and is therefore bounded by
// [graph.MaxModuleSize].
//
// # Determinism
//
// Every pass visits nodes in insertion order and edges in edge order, so the
// same input always yields the same modules and the same snapshot trail.
//
// # Termination
//
// An iteration either removes at least one node or ends the run, so a graph
// with n nodes terminates after at most n+1 iterations. [Options] still
// carries an iteration cap; exceeding it returns [ErrIterationLimit] with the
// partial result.
//
// # Usage
//
//	g := graph.Build(groups, operations)
//	res, err := decompose.Decompose(g, decompose.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, s := range res.Snapshots {
//	    fmt.Println(s)
//	}
//
// Passes can also be applied individually:
//
//	decompose.TagSources(g)
//	decompose.TagSinks(g)
//	decompose.MergeMutualPair(g)
//	decompose.MergeCycle(g)
//	decompose.MergeConvergence(g)
package decompose
