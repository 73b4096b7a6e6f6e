package trapmap

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/trapmap/pkg/geom"
)

// NodeID addresses a slot in the map's node arena. IDs are stable while the
// node is live; slots of detached leaves are reused.
type NodeID int32

// None marks an absent child.
const None NodeID = -1

// NodeKind distinguishes the three kinds of search DAG node.
type NodeKind uint8

const (
	// KindX is an endpoint test: queries at or left of Point go to LeftAbove.
	KindX NodeKind = iota
	// KindY is an above/below test: queries strictly above Segment go to
	// LeftAbove.
	KindY
	// KindLeaf is a terminal wrapping one region.
	KindLeaf
)

// String returns "x", "y" or "leaf".
func (k NodeKind) String() string {
	switch k {
	case KindX:
		return "x"
	case KindY:
		return "y"
	case KindLeaf:
		return "leaf"
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Branch names one of the two children of a decision node.
type Branch uint8

const (
	// LeftAbove is taken by points left of an X node or above a Y node.
	LeftAbove Branch = iota
	// RightBelow is taken by all other points.
	RightBelow
)

func (b Branch) String() string {
	if b == LeftAbove {
		return "left/above"
	}
	return "right/below"
}

// idSet is an index set of arena slots.
type idSet map[NodeID]struct{}

func (s idSet) add(id NodeID)      { s[id] = struct{}{} }
func (s idSet) remove(id NodeID)   { delete(s, id) }
func (s idSet) has(id NodeID) bool { _, ok := s[id]; return ok }

// sorted returns the members in ascending order so that iteration is
// deterministic.
func (s idSet) sorted() []NodeID {
	return slices.Sorted(maps.Keys(s))
}

// node is one arena slot. Only the fields of its kind are meaningful.
type node struct {
	kind NodeKind
	live bool

	point  geom.Point   // KindX
	seg    geom.Segment // KindY
	region Trapezoid    // KindLeaf

	child     [2]NodeID
	parents   idSet
	neighbors idSet // KindLeaf only

	label string
	index int
}

// Node is a read-only snapshot of a live arena slot.
type Node struct {
	ID    NodeID
	Kind  NodeKind
	Label string // "P3", "Q4", "S2", "T7"; diagnostic only
	Index int    // per-kind sequence number; diagnostic only

	Point   geom.Point   // discriminant of a KindX node
	Segment geom.Segment // discriminant of a KindY node
	Region  Trapezoid    // region of a KindLeaf node

	LeftAbove, RightBelow NodeID
	Parents               []NodeID
	Neighbors             []NodeID
}

// IsLeaf reports whether the node is a terminal.
func (n Node) IsLeaf() bool { return n.Kind == KindLeaf }

func (m *Map) snapshot(id NodeID) Node {
	n := &m.nodes[id]
	out := Node{
		ID:         id,
		Kind:       n.kind,
		Label:      n.label,
		Index:      n.index,
		Point:      n.point,
		Segment:    n.seg,
		Region:     n.region,
		LeftAbove:  n.child[LeftAbove],
		RightBelow: n.child[RightBelow],
		Parents:    n.parents.sorted(),
	}
	if n.kind == KindLeaf {
		out.Neighbors = n.neighbors.sorted()
	}
	return out
}

// endpointRole selects the label prefix of an X node.
type endpointRole uint8

const (
	roleP endpointRole = iota // left endpoint of its segment
	roleQ                     // right endpoint of its segment
)

// alloc stores n in a free slot and returns its ID. Children are attached
// afterwards through setChild so that parent sets stay exact.
func (m *Map) alloc(n node) NodeID {
	n.live = true
	n.child = [2]NodeID{None, None}
	n.parents = idSet{}
	n.index = m.counters[n.kind]
	m.counters[n.kind]++

	if k := len(m.free); k > 0 {
		id := m.free[k-1]
		m.free = m.free[:k-1]
		m.nodes[id] = n
		return id
	}
	m.nodes = append(m.nodes, n)
	return NodeID(len(m.nodes) - 1)
}

// newLeaf creates a leaf for r and registers it in the region index.
func (m *Map) newLeaf(r Trapezoid) NodeID {
	if prev, ok := m.regions[r]; ok {
		m.logger.Warn("region already present", "region", r.String(), "leaf", m.nodes[prev].label)
	}
	id := m.alloc(node{kind: KindLeaf, region: r, neighbors: idSet{}})
	m.nodes[id].label = fmt.Sprintf("T%d", m.nodes[id].index)
	m.regions[r] = id
	m.leaves.add(id)
	return id
}

// newX creates an endpoint test for p with the given children.
func (m *Map) newX(p geom.Point, role endpointRole, left, right NodeID) NodeID {
	id := m.alloc(node{kind: KindX, point: p})
	prefix := "P"
	if role == roleQ {
		prefix = "Q"
	}
	m.nodes[id].label = fmt.Sprintf("%s%d", prefix, m.nodes[id].index)
	m.setChild(id, LeftAbove, left)
	m.setChild(id, RightBelow, right)
	return id
}

// newY creates an above/below test for s with the given children.
func (m *Map) newY(s geom.Segment, above, below NodeID) NodeID {
	id := m.alloc(node{kind: KindY, seg: s})
	m.nodes[id].label = fmt.Sprintf("S%d", m.nodes[id].index)
	m.setChild(id, LeftAbove, above)
	m.setChild(id, RightBelow, below)
	return id
}

// setChild is the only place a child link changes. It updates the forward
// link and both affected parent sets together: the new child gains parent,
// and the old child loses it unless the other branch still points there.
func (m *Map) setChild(parent NodeID, b Branch, child NodeID) {
	old := m.nodes[parent].child[b]
	if old == child {
		return
	}
	m.nodes[parent].child[b] = child
	if old != None && m.nodes[parent].child[1-b] != old {
		m.nodes[old].parents.remove(parent)
	}
	if child != None {
		m.nodes[child].parents.add(parent)
	}
}

// replaceChild rewires whichever branch of parent points at old to next.
func (m *Map) replaceChild(parent, old, next NodeID) {
	for _, b := range [...]Branch{LeftAbove, RightBelow} {
		if m.nodes[parent].child[b] == old {
			m.setChild(parent, b, next)
		}
	}
}

// replaceNode makes next take old's place everywhere old is referenced,
// including the root. Afterwards old has no parents.
func (m *Map) replaceNode(old, next NodeID) {
	if m.root == old {
		m.root = next
	}
	for _, p := range m.nodes[old].parents.sorted() {
		m.replaceChild(p, old, next)
	}
}

// retireLeaf detaches a superseded leaf and returns its slot to the free
// list. The caller must already have replaced it in the DAG.
func (m *Map) retireLeaf(id NodeID) {
	n := &m.nodes[id]
	if len(n.parents) > 0 || m.root == id {
		panic(fmt.Sprintf("trapmap: retiring referenced leaf %s", n.label))
	}
	m.removeAsNeighbor(id)
	if m.regions[n.region] == id {
		delete(m.regions, n.region)
	}
	m.leaves.remove(id)
	m.nodes[id] = node{child: [2]NodeID{None, None}}
	m.free = append(m.free, id)
}
