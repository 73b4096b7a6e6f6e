// Package nodelink renders the search structure of a trapezoidal map as a
// node-link diagram.
//
// # Usage
//
// Convert a map to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Passing the node IDs of a [trapmap.Map.Trace] in [Options.Highlight] marks
// the path a query takes through the structure.
//
// # DOT Format
//
// Nodes are keyed by their diagnostic labels (P#, Q#, S#, T#), the same
// labels used in the adjacency export, so a diagram and a CSV table of the
// same map can be read side by side. Zero-width regions are drawn dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
