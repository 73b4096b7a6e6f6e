package trapmap

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trapmap/pkg/geom"
)

// Map is a trapezoidal decomposition of a bounding rectangle together with
// the search DAG that locates points in it.
//
// A Map is not safe for concurrent use.
type Map struct {
	bounds geom.Rect

	nodes    []node
	free     []NodeID
	root     NodeID
	regions  map[Trapezoid]NodeID
	leaves   idSet
	counters [3]int

	segments []geom.Segment
	index    *segmentIndex

	logger     *log.Logger
	exportEach func(inserted int, table [][]string)
}

// Option configures a [Map].
type Option func(*Map)

// WithLogger sets the logger used for insertion diagnostics. The default
// discards everything.
func WithLogger(l *log.Logger) Option {
	return func(m *Map) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithExportEach rebuilds the adjacency table after every inserted segment
// and hands it to fn together with the number of segments inserted so far.
func WithExportEach(fn func(inserted int, table [][]string)) Option {
	return func(m *Map) { m.exportEach = fn }
}

// New returns a map covering bounds with a single region.
func New(bounds geom.Rect, opts ...Option) (*Map, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBounds, bounds)
	}
	m := &Map{
		bounds: bounds,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reset()
	return m, nil
}

// Clear discards all segments and returns the map to its initial single
// region. Options are kept.
func (m *Map) Clear() { m.reset() }

func (m *Map) reset() {
	m.nodes = m.nodes[:0]
	m.free = m.free[:0]
	m.regions = make(map[Trapezoid]NodeID)
	m.leaves = idSet{}
	m.counters = [3]int{}
	m.segments = nil
	m.index = newSegmentIndex()
	m.root = m.newLeaf(boundsTrapezoid(m.bounds))
}

// Bounds returns the bounding rectangle.
func (m *Map) Bounds() geom.Rect { return m.bounds }

// Root returns the root of the search DAG.
func (m *Map) Root() NodeID { return m.root }

// Node returns a snapshot of a live node.
func (m *Map) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(m.nodes) || !m.nodes[id].live {
		return Node{}, false
	}
	return m.snapshot(id), true
}

// Leaves returns the live leaves in arena order.
func (m *Map) Leaves() []NodeID { return m.leaves.sorted() }

// Regions returns the regions of the live leaves in arena order.
func (m *Map) Regions() []Trapezoid {
	ids := m.leaves.sorted()
	out := make([]Trapezoid, len(ids))
	for i, id := range ids {
		out[i] = m.nodes[id].region
	}
	return out
}

// LeafCount returns the number of regions.
func (m *Map) LeafCount() int { return len(m.leaves) }

// NodeCount returns the number of live DAG nodes, leaves included.
func (m *Map) NodeCount() int { return len(m.nodes) - len(m.free) }

// Segments returns the inserted segments in insertion order, normalised.
func (m *Map) Segments() []geom.Segment {
	out := make([]geom.Segment, len(m.segments))
	copy(out, m.segments)
	return out
}

// LeafOf returns the leaf holding region r.
func (m *Map) LeafOf(r Trapezoid) (NodeID, bool) {
	id, ok := m.regions[r]
	return id, ok
}
