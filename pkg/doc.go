// Package pkg provides the libraries behind modgraph, a tool that decomposes
// precedence graphs into modules.
//
// # Overview
//
// A precedence graph is built from rows of operation labels: every label in
// a row precedes the next one. Decomposition then repeats five passes until
// the graph stops changing:
//
//  1. tag pure sources as modules
//  2. tag pure sinks as modules
//  3. merge mutual pairs (A -> B and B -> A)
//  4. merge the interior of the first simple cycle found
//  5. merge the interior of two paths that reconverge
//
// Merges are capped at [graph.MaxModuleSize] original nodes per module.
//
// # Architecture
//
//	rows of labels (JSON / TOML / YAML)
//	         ↓
//	    [io] package (decode + validate input)
//	         ↓
//	    [graph] package (arena graph, Build, Merge)
//	         ↓
//	    [graph/decompose] package (fixed-point passes, snapshots, trail)
//	         ↓
//	    [render/nodelink] package (DOT + SVG of the final graph)
//
// [pipeline] ties these together with caching, and [server] exposes the
// pipeline over HTTP with run history kept in [store].
//
// # Quick Start
//
//	g := graph.Build([]int{0, 1}, [][]string{{"A", "B"}, {"B", "A"}})
//	res, err := decompose.Decompose(g, decompose.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Snapshots) // [A -> B;B -> A ]
//
// # Infrastructure
//
// [cache] - File, Redis and null result caches behind one interface.
//
// [store] - Run history in memory, on disk or in MongoDB.
//
// [observability] - Hooks for runs, passes, cache and HTTP events, with a
// Prometheus implementation in observability/metrics.
//
// [errors] - Coded errors and input validation.
//
// [buildinfo] - Version information injected at build time.
package pkg
