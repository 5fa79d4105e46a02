// Package io reads decomposition inputs and reads and writes graphs and run
// reports.
//
// # Input Documents
//
// An input document selects rows ("groups") from a table of operation
// sequences:
//
//	{
//	  "groups": [0, 1],
//	  "operations": [
//	    ["cut", "drill", "paint"],
//	    ["cut", "weld", "paint"]
//	  ]
//	}
//
// The same document may be written as TOML or YAML. [ImportInput] picks the
// decoder from the file extension (.json, .toml, .yaml, .yml); [ReadInput]
// takes the [Format] explicitly. When "groups" is omitted every row is
// selected.
//
// # Graph Documents
//
// [WriteGraph] encodes a (possibly merged) graph by node ID:
//
//	{
//	  "nodes": [
//	    {"id": 0, "label": "cutdrill", "members": ["cut", "drill"], "kind": "module", "merge_count": 2},
//	    {"id": 1, "label": "paint", "members": ["paint"], "kind": "module", "merge_count": 1}
//	  ],
//	  "edges": [{"from": 0, "to": 1}]
//	}
//
// Labels of merged nodes are not unique, so edges reference IDs. [ReadGraph]
// restores the graph in document order and validates it; IDs are reassigned
// densely and need not match the document.
//
// # Reports
//
// A [Report] bundles the result of one decomposition run: its ID, the
// distinct snapshots, the per-pass trail and the final graph. Reports are
// what the CLI writes with --format json, what the HTTP API returns and what
// the run store persists.
package io
