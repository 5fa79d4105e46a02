// Package nodelink renders precedence graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Modules (nodes tagged by the source and sink passes) are filled; merged
// nodes carry a badge with the number of original nodes they hold. With
// Options.Detailed the label lists the member labels instead of the
// concatenated one.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
