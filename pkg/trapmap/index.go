package trapmap

import (
	"github.com/dhconnelly/rtreego"

	"github.com/matzehuels/trapmap/pkg/geom"
)

// pad keeps index rectangles of horizontal segments and zero-width regions
// at a positive size, which rtreego requires.
const pad = 1e-7

// segmentIndex is an R-tree over inserted segments. Insert consults it to
// reject crossings without comparing against every segment in the map.
type segmentIndex struct {
	tree *rtreego.Rtree
	n    int
}

type indexedSegment struct {
	seg  geom.Segment
	rect rtreego.Rect
}

func (s *indexedSegment) Bounds() rtreego.Rect { return s.rect }

func newSegmentIndex() *segmentIndex {
	return &segmentIndex{tree: rtreego.NewTree(2, 25, 50)}
}

// rectOf converts r to an R-tree rectangle grown by pad on every side.
func rectOf(r geom.Rect) rtreego.Rect {
	rect, err := rtreego.NewRect(
		rtreego.Point{r.X - pad, r.Y - pad},
		[]float64{r.W + 2*pad, r.H + 2*pad},
	)
	if err != nil {
		// Unreachable: every length is at least 2*pad.
		panic(err)
	}
	return rect
}

func (ix *segmentIndex) insert(s geom.Segment) {
	ix.tree.Insert(&indexedSegment{seg: s, rect: rectOf(s.Bounds())})
	ix.n++
}

// conflict returns the first indexed segment s conflicts with.
func (ix *segmentIndex) conflict(s geom.Segment) (geom.Segment, bool) {
	if ix.n == 0 {
		return geom.Segment{}, false
	}
	for _, hit := range ix.tree.SearchIntersect(rectOf(s.Bounds())) {
		t := hit.(*indexedSegment).seg
		if s == t || s.Conflicts(t) {
			return t, true
		}
	}
	return geom.Segment{}, false
}

// regionIndex is an R-tree over leaf regions used by Validate to find
// candidate overlaps.
type regionIndex struct {
	tree *rtreego.Rtree
}

type indexedRegion struct {
	id   NodeID
	rect rtreego.Rect
}

func (r *indexedRegion) Bounds() rtreego.Rect { return r.rect }

func newRegionIndex(m *Map, ids []NodeID) *regionIndex {
	objs := make([]rtreego.Spatial, len(ids))
	for i, id := range ids {
		objs[i] = &indexedRegion{id: id, rect: rectOf(m.nodes[id].region.Bounds())}
	}
	return &regionIndex{tree: rtreego.NewTree(2, 25, 50, objs...)}
}

// candidates returns the leaves whose bounding boxes meet t's.
func (ix *regionIndex) candidates(t Trapezoid) []NodeID {
	hits := ix.tree.SearchIntersect(rectOf(t.Bounds()))
	out := make([]NodeID, len(hits))
	for i, h := range hits {
		out[i] = h.(*indexedRegion).id
	}
	return out
}
