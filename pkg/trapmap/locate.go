package trapmap

import (
	"github.com/matzehuels/trapmap/pkg/geom"
)

// Step records one decision taken while locating a point.
type Step struct {
	Node   NodeID
	Label  string
	Kind   NodeKind
	Branch Branch // meaningless for the final leaf step
}

// Locate returns the region containing p.
//
// At an X node p goes left when p.X is at most the node's x, so points on a
// vertical wall belong to the region on its left. At a Y node p goes above
// only when strictly above the segment's line, so points on a segment belong
// to the region below it.
func (m *Map) Locate(p geom.Point) Trapezoid {
	id := m.root
	for m.nodes[id].kind != KindLeaf {
		id = m.nodes[id].child[m.decide(id, p)]
	}
	return m.nodes[id].region
}

// LocateLeaf is Locate returning the leaf instead of its region.
func (m *Map) LocateLeaf(p geom.Point) NodeID {
	id := m.root
	for m.nodes[id].kind != KindLeaf {
		id = m.nodes[id].child[m.decide(id, p)]
	}
	return id
}

// Trace returns the decisions Locate takes for p, ending with the leaf.
func (m *Map) Trace(p geom.Point) []Step {
	var steps []Step
	id := m.root
	for {
		n := &m.nodes[id]
		step := Step{Node: id, Label: n.label, Kind: n.kind}
		if n.kind == KindLeaf {
			return append(steps, step)
		}
		step.Branch = m.decide(id, p)
		steps = append(steps, step)
		id = n.child[step.Branch]
	}
}

func (m *Map) decide(id NodeID, p geom.Point) Branch {
	n := &m.nodes[id]
	switch n.kind {
	case KindX:
		if p.X <= n.point.X {
			return LeftAbove
		}
	case KindY:
		if n.seg.Above(p) {
			return LeftAbove
		}
	}
	return RightBelow
}

// locateEndpoint finds the leaf that contains s immediately to the right of
// s.P (start) or immediately to the left of s.Q (end). Endpoint comparisons
// are lexicographic; when the point coincides with a node's endpoint the
// direction of s decides, and when it lies on a node's segment the other
// endpoint of s does.
func (m *Map) locateEndpoint(s geom.Segment, start bool) NodeID {
	pt, other := s.Q, s.P
	if start {
		pt, other = s.P, s.Q
	}
	id := m.root
	for m.nodes[id].kind != KindLeaf {
		n := &m.nodes[id]
		var b Branch
		switch n.kind {
		case KindX:
			switch c := pt.Compare(n.point); {
			case c < 0:
				b = LeftAbove
			case c > 0:
				b = RightBelow
			case start:
				b = RightBelow
			default:
				b = LeftAbove
			}
		case KindY:
			side := n.seg.Side(pt)
			if side == 0 {
				side = n.seg.Side(other)
			}
			b = RightBelow
			if side > 0 {
				b = LeftAbove
			}
		}
		id = n.child[b]
	}
	return id
}
