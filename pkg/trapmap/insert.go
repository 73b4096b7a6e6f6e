package trapmap

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/trapmap/pkg/geom"
	"github.com/matzehuels/trapmap/pkg/observability"
)

// Insert adds segments to the map in order.
//
// The whole batch is validated first; an invalid segment is reported as an
// error wrapping one of the input sentinels together with its batch index,
// and the map is left untouched.
//
// The elapsed time and ctx are checked before every segment. When budget is
// non-negative and has been used up, or ctx is done, Insert stops and returns
// false; the segments inserted so far stay in place. A negative budget never
// expires.
func (m *Map) Insert(ctx context.Context, segments []geom.Segment, budget time.Duration) (bool, error) {
	start := time.Now()
	hooks := observability.Insert()
	hooks.OnInsertStart(ctx, len(segments))

	batch, err := m.prepare(segments)
	if err != nil {
		hooks.OnInsertComplete(ctx, 0, false, time.Since(start), err)
		return false, err
	}

	for i, s := range batch {
		if (budget >= 0 && time.Since(start) >= budget) || ctx.Err() != nil {
			m.logger.Warn("insertion stopped", "inserted", i, "pending", len(batch)-i, "elapsed", time.Since(start))
			hooks.OnInsertComplete(ctx, i, false, time.Since(start), ctx.Err())
			return false, nil
		}

		segStart := time.Now()
		if err := m.insertSegment(s); err != nil {
			err = fmt.Errorf("segment %d %s: %w", i, s, err)
			hooks.OnInsertComplete(ctx, i, false, time.Since(start), err)
			return false, err
		}
		m.segments = append(m.segments, s)
		m.index.insert(s)

		hooks.OnSegment(ctx, len(m.segments)-1, m.LeafCount(), m.NodeCount(), time.Since(segStart))
		m.logger.Debug("inserted segment", "n", len(m.segments), "segment", s, "leaves", m.LeafCount())
		if m.exportEach != nil {
			m.exportEach(len(m.segments), m.ExportAdjacency())
		}
	}

	hooks.OnInsertComplete(ctx, len(batch), true, time.Since(start), nil)
	return true, nil
}

// prepare normalises the batch and checks every segment against the bounds,
// the map and the segments before it in the batch.
func (m *Map) prepare(segments []geom.Segment) ([]geom.Segment, error) {
	batch := make([]geom.Segment, len(segments))
	pending := newSegmentIndex()
	for i, raw := range segments {
		s := raw.Normalize()
		switch {
		case s.IsDegenerate():
			return nil, fmt.Errorf("segment %d %s: %w", i, raw, ErrZeroLengthSegment)
		case s.IsVertical():
			return nil, fmt.Errorf("segment %d %s: %w", i, raw, ErrVerticalSegment)
		case !m.bounds.ContainsStrict(s.P) || !m.bounds.ContainsStrict(s.Q):
			return nil, fmt.Errorf("segment %d %s: %w", i, raw, ErrOutOfBounds)
		}
		if t, ok := m.index.conflict(s); ok {
			return nil, fmt.Errorf("segment %d %s meets %s: %w", i, raw, t, ErrCrossingSegment)
		}
		if t, ok := pending.conflict(s); ok {
			return nil, fmt.Errorf("segment %d %s meets %s: %w", i, raw, t, ErrCrossingSegment)
		}
		pending.insert(s)
		batch[i] = s
	}
	return batch, nil
}

// insertSegment threads one validated segment through the map.
func (m *Map) insertSegment(s geom.Segment) error {
	first := m.locateEndpoint(s, true)
	last := m.locateEndpoint(s, false)
	if first == last {
		m.insertSingle(first, s)
		return nil
	}
	crossed, err := m.crossedLeaves(first, s)
	if err != nil {
		return err
	}
	if end := crossed[len(crossed)-1]; end != last {
		m.logger.Warn("walk ended away from located end region",
			"walk", m.nodes[end].label, "located", m.nodes[last].label)
	}
	m.insertMulti(crossed, s)
	return nil
}

// crossedLeaves walks from first to the right, through every region s
// passes, until it reaches the region containing s.Q.
func (m *Map) crossedLeaves(first NodeID, s geom.Segment) ([]NodeID, error) {
	crossed := []NodeID{first}
	cur := first
	for m.nodes[cur].region.RightP.Less(s.Q) {
		next := m.neighborInDirection(cur, s)
		if next == None {
			return nil, fmt.Errorf("%w: no region right of %s", ErrDegenerateGeometry, m.nodes[cur].region)
		}
		if len(crossed) > len(m.leaves) {
			return nil, fmt.Errorf("%w: walk does not terminate", ErrDegenerateGeometry)
		}
		crossed = append(crossed, next)
		cur = next
	}
	return crossed, nil
}

// insertSingle splits the one region that contains all of s.
func (m *Map) insertSingle(old NodeID, s geom.Segment) {
	region := m.nodes[old].region
	pc := region.split(s)
	m.logSkipped(pc, region)

	upper := m.newLeaf(pc.above)
	lower := m.newLeaf(pc.below)
	fresh := []NodeID{upper, lower}

	top := m.newY(s, upper, lower)
	if pc.hasRight {
		right := m.newLeaf(pc.right)
		fresh = append(fresh, right)
		top = m.newX(s.Q, roleQ, top, right)
	}
	if pc.hasLeft {
		left := m.newLeaf(pc.left)
		fresh = append(fresh, left)
		top = m.newX(s.P, roleP, left, top)
	}

	candidates := append(m.nodes[old].neighbors.sorted(), fresh...)
	m.replaceNode(old, top)
	m.retireLeaf(old)
	m.linkCandidates(fresh, candidates)
}

// insertMulti splits every crossed region, merges the pieces that no wall
// separates any more and splices one subtree per crossed leaf. A single
// crossed region goes through insertSingle.
func (m *Map) insertMulti(crossed []NodeID, s geom.Segment) {
	k := len(crossed)
	if k == 1 {
		m.insertSingle(crossed[0], s)
		return
	}
	above := make([]Trapezoid, k)
	below := make([]Trapezoid, k)
	walls := make([]geom.Point, k-1)

	var head, tail pieces
	for i, id := range crossed {
		region := m.nodes[id].region
		pc := region.split(s)
		above[i], below[i] = pc.above, pc.below
		if i < k-1 {
			walls[i] = region.RightP
		}
		// Only the outer end of the first and last region can leave a
		// residual, so the inner side is not reported.
		switch i {
		case 0:
			head = pc
			m.logSkipped(pieces{skippedLeft: pc.skippedLeft}, region)
		case k - 1:
			tail = pc
			m.logSkipped(pieces{skippedRight: pc.skippedRight}, region)
		}
	}

	upperRuns := m.mergePieces(above, walls, s, true)
	lowerRuns := m.mergePieces(below, walls, s, false)

	var fresh []NodeID
	upper := m.leavesFor(upperRuns, &fresh)
	lower := m.leavesFor(lowerRuns, &fresh)

	var left, right NodeID = None, None
	if head.hasLeft {
		left = m.newLeaf(head.left)
		fresh = append(fresh, left)
	}
	if tail.hasRight {
		right = m.newLeaf(tail.right)
		fresh = append(fresh, right)
	}

	seen := idSet{}
	var candidates []NodeID
	for _, id := range crossed {
		for _, n := range m.nodes[id].neighbors.sorted() {
			if !seen.has(n) {
				seen.add(n)
				candidates = append(candidates, n)
			}
		}
	}
	candidates = append(candidates, fresh...)

	for i, id := range crossed {
		top := m.newY(s, upper[i], lower[i])
		if i == 0 && left != None {
			top = m.newX(s.P, roleP, left, top)
		}
		if i == k-1 && right != None {
			top = m.newX(s.Q, roleQ, top, right)
		}
		m.replaceNode(id, top)
		m.retireLeaf(id)
	}
	m.linkCandidates(fresh, candidates)
}

// leavesFor creates one leaf per merged run and returns, for every crossed
// region, the leaf its piece ended up in.
func (m *Map) leavesFor(runs []run, fresh *[]NodeID) []NodeID {
	var out []NodeID
	for _, r := range runs {
		id := m.newLeaf(r.region)
		*fresh = append(*fresh, id)
		for range r.count {
			out = append(out, id)
		}
	}
	return out
}

func (m *Map) logSkipped(pc pieces, region Trapezoid) {
	if pc.skippedLeft {
		m.logger.Debug("skipping degenerate left residual", "region", region.String())
	}
	if pc.skippedRight {
		m.logger.Debug("skipping degenerate right residual", "region", region.String())
	}
}
