// Package pkg provides the libraries behind trapmap, a point-location
// structure for planar subdivisions.
//
// # Overview
//
// Trapmap partitions a bounding rectangle by non-crossing line segments into
// trapezoids and answers "which region contains this point?" through a
// search DAG built incrementally. The pkg directory is organized as:
//
//  1. [geom] - points, segments, rectangles and orientation tests
//  2. [trapmap] - the trapezoidal map and its search structure
//  3. [io] - segment input (text, JSON, TOML) and table/region output
//  4. [render] - Graphviz drawings of the DAG and PNG drawings of the map
//  5. [pipeline] - build → render orchestration with artifact caching
//  6. [cache], [errors], [observability], [buildinfo] - shared infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	segment file
//	     ↓
//	[io] package (parse and validate input)
//	     ↓
//	[trapmap] package (insert segments, locate points)
//	     ↓
//	[render] / [io] packages (DOT, SVG, PNG, CSV, JSON)
//
// [pipeline] runs the whole chain and caches rendered artifacts by input
// hash, which the CLI and the HTTP server share.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/trapmap/pkg/geom"
//	    "github.com/matzehuels/trapmap/pkg/trapmap"
//	)
//
//	m, _ := trapmap.New(geom.R(0, 0, 10, 10))
//	_, err := m.Insert(ctx, []geom.Segment{geom.Seg(geom.Pt(2, 2), geom.Pt(8, 8))}, -1)
//	region := m.Locate(geom.Pt(5, 1))
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/geom
// [trapmap]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/trapmap
// [io]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/trapmap/pkg/buildinfo
package pkg
