package trapmap

import (
	"github.com/matzehuels/trapmap/pkg/geom"
)

// adjacent reports whether a's right wall is b's left wall: both are erected
// through the same defining point and their y-extents overlap by more than
// geom.Epsilon.
func adjacent(a, b Trapezoid) bool {
	if a.RightP != b.LeftP {
		return false
	}
	x := a.RightP.X
	a0, a1 := a.Span(x)
	b0, b1 := b.Span(x)
	return geom.Overlaps(a0, a1, b0, b1)
}

// link makes a and b neighbours of each other.
func (m *Map) link(a, b NodeID) {
	if a == b {
		return
	}
	m.nodes[a].neighbors.add(b)
	m.nodes[b].neighbors.add(a)
}

// unlink removes the neighbour relation between a and b in both directions.
func (m *Map) unlink(a, b NodeID) {
	m.nodes[a].neighbors.remove(b)
	m.nodes[b].neighbors.remove(a)
}

// removeAsNeighbor detaches id from every neighbour.
func (m *Map) removeAsNeighbor(id NodeID) {
	for _, n := range m.nodes[id].neighbors.sorted() {
		m.unlink(id, n)
	}
}

// linkCandidates links every fresh leaf with each candidate it shares a wall
// with. Candidates may include the fresh leaves themselves.
func (m *Map) linkCandidates(fresh []NodeID, candidates []NodeID) {
	for _, a := range fresh {
		ra := m.nodes[a].region
		for _, b := range candidates {
			if a == b || !m.nodes[b].live || m.nodes[b].kind != KindLeaf {
				continue
			}
			rb := m.nodes[b].region
			if adjacent(ra, rb) || adjacent(rb, ra) {
				m.link(a, b)
			}
		}
	}
}

// neighborInDirection returns the right neighbour of leaf that s enters when
// it leaves through leaf's right wall, or None.
func (m *Map) neighborInDirection(leaf NodeID, s geom.Segment) NodeID {
	r := m.nodes[leaf].region.RightP
	var fallback []NodeID
	for _, n := range m.nodes[leaf].neighbors.sorted() {
		reg := m.nodes[n].region
		if reg.LeftP != r {
			continue
		}
		y := s.YAt(r.X)
		lo, hi := reg.Span(r.X)
		if y > lo && y < hi {
			return n
		}
		if y >= lo-geom.Epsilon && y <= hi+geom.Epsilon {
			fallback = append(fallback, n)
		}
	}
	for _, n := range fallback {
		if passesThrough(m.nodes[n].region, s, r.X) {
			return n
		}
	}
	return None
}

// passesThrough settles a tie at a wall where s meets the region's top or
// bottom: the slopes decide on which side of the boundary s continues. When
// s ends at x the part of s left of the wall is the one that counts.
func passesThrough(t Trapezoid, s geom.Segment, x float64) bool {
	y := s.YAt(x)
	lo, hi := t.Span(x)
	dir := 1.0
	if s.Q.X <= x {
		dir = -1
	}
	aboveBottom := y > lo+geom.Epsilon ||
		(geom.NearlyEqual(y, lo) && dir*(s.Slope()-t.Bottom.Slope()) > 0)
	belowTop := y < hi-geom.Epsilon ||
		(geom.NearlyEqual(y, hi) && dir*(s.Slope()-t.Top.Slope()) < 0)
	return aboveBottom && belowTop
}
