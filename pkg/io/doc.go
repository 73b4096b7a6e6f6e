// Package io reads segment sets and writes the artifacts derived from a
// trapezoidal map.
//
// # Input formats
//
// An [Input] is a bounding rectangle and an ordered list of segments. Three
// encodings are understood; [Import] picks one by file extension.
//
// Text (any other extension), a count line, a bounds line and one segment
// per line:
//
//	# comment lines and blank lines are ignored
//	3            <- number of segments
//	0 0 10 10    <- bounds: x y width height
//	2 2 8 8      <- one segment per line: x1 y1 x2 y2
//	1 5 3 9
//	4 1 9 2
//
// TOML (.toml):
//
//	[bounds]
//	x = 0
//	y = 0
//	width = 10
//	height = 10
//
//	[[segment]]
//	x1 = 2
//	y1 = 2
//	x2 = 8
//	y2 = 8
//
// JSON (.json):
//
//	{
//	  "bounds": {"x": 0, "y": 0, "width": 10, "height": 10},
//	  "segments": [{"x1": 2, "y1": 2, "x2": 8, "y2": 8}]
//	}
//
// Coordinates must be finite. Geometric validity (vertical or crossing
// segments, endpoints outside the bounds) is checked by the map on insert,
// not here.
//
// # Output formats
//
// [WriteCSV] writes the adjacency table returned by
// trapmap.Map.ExportAdjacency. [WriteRegionsJSON] writes the regions of a
// map with their corners.
//
// All readers and writers report failures as coded errors from
// [github.com/matzehuels/trapmap/pkg/errors].
package io
