// Package trapmap builds a trapezoidal map of non-crossing line segments and
// answers point-location queries against it.
//
// # Overview
//
// A [Map] starts as a single region covering a bounding rectangle. Segments
// are inserted one at a time with [Map.Insert]; each insertion splits the
// regions the segment passes through into pieces above and below it, fuses
// pieces that are no longer separated by a vertical wall and splices new
// decision nodes into the search DAG in place of the regions it replaced.
// After k segments the map is the trapezoidal decomposition of the first k.
//
//	m, err := trapmap.New(geom.R(0, 0, 10, 10))
//	if err != nil {
//	    return err
//	}
//	ok, err := m.Insert(ctx, []geom.Segment{geom.Seg(geom.Pt(2, 2), geom.Pt(8, 8))}, -1)
//	region := m.Locate(geom.Pt(5, 1))
//
// # Regions and nodes
//
// A region ([Trapezoid]) is bounded by vertical walls through its left and
// right defining points and by a top and a bottom segment. Regions are
// comparable values. Endpoints sharing an x-coordinate are ordered
// lexicographically, so the walls through them count as distinct and the
// region between them has zero width.
//
// The search DAG lives in an arena addressed by [NodeID]. X nodes test a
// query against an endpoint, Y nodes against a segment, and leaves hold one
// region plus the set of leaves it shares a wall with. Parent sets and
// neighbour sets are kept symmetric by the map's own mutators; [Map.Validate]
// checks that they are.
//
// # Budgets and cancellation
//
// Insert checks its time budget and context between segments. When either
// runs out it returns false and leaves the segments inserted so far in place;
// callers that need all-or-nothing semantics rebuild from scratch.
//
// # Diagnostics
//
// [Map.ExportAdjacency] renders the DAG as a square incidence table with one
// labelled row and column per node. Labels are P# and Q# for X nodes testing
// a left or right endpoint, S# for Y nodes and T# for leaves.
package trapmap
