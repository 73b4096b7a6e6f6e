package trapmap

import (
	"fmt"
	"math"
)

// Validate checks the structural invariants of the map and returns an error
// wrapping [ErrInvariant] for the first violation found:
//
//   - decision nodes have two live children and parent sets match the child
//     links exactly;
//   - the search DAG is acyclic and every live node is reachable from the
//     root, so the reachable leaves are exactly the regions;
//   - neighbour sets are symmetric and link exactly the leaves that share a
//     wall;
//   - the regions are pairwise interior-disjoint and their areas add up to
//     the area of the bounds.
//
// Validate does not modify the map. It is meant for tests and debugging.
func (m *Map) Validate() error {
	if err := m.validateLinks(); err != nil {
		return err
	}
	if err := m.detectCycles(); err != nil {
		return err
	}
	if err := m.validateReachability(); err != nil {
		return err
	}
	ix := newRegionIndex(m, m.leaves.sorted())
	if err := m.validateNeighbors(ix); err != nil {
		return err
	}
	return m.validateCoverage(ix)
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

func (m *Map) validateLinks() error {
	if m.root == None || !m.nodes[m.root].live {
		return invariant("root %d is not live", m.root)
	}
	if len(m.nodes[m.root].parents) > 0 {
		return invariant("root %s has parents", m.nodes[m.root].label)
	}
	for i := range m.nodes {
		id := NodeID(i)
		n := &m.nodes[i]
		if !n.live {
			continue
		}
		if n.kind != KindLeaf {
			for _, c := range n.child {
				if c == None || !m.nodes[c].live {
					return invariant("%s has a missing child", n.label)
				}
				if !m.nodes[c].parents.has(id) {
					return invariant("%s is missing parent %s", m.nodes[c].label, n.label)
				}
			}
		}
		for p := range n.parents {
			pn := &m.nodes[p]
			if !pn.live || pn.kind == KindLeaf || (pn.child[LeftAbove] != id && pn.child[RightBelow] != id) {
				return invariant("%s lists %d as parent but is not its child", n.label, p)
			}
		}
	}
	return nil
}

// detectCycles colours nodes white, gray and black during an explicit-stack
// depth-first search; reaching a gray node closes a cycle.
func (m *Map) detectCycles() error {
	const (
		white = iota
		gray
		black
	)
	type frame struct {
		id   NodeID
		next int
	}

	color := make([]uint8, len(m.nodes))
	stack := []frame{{id: m.root}}
	color[m.root] = gray
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := &m.nodes[top.id]
		if n.kind == KindLeaf || top.next == len(n.child) {
			color[top.id] = black
			stack = stack[:len(stack)-1]
			continue
		}
		c := n.child[top.next]
		top.next++
		switch color[c] {
		case white:
			color[c] = gray
			stack = append(stack, frame{id: c})
		case gray:
			return invariant("cycle through %s", m.nodes[c].label)
		}
	}
	return nil
}

func (m *Map) validateReachability() error {
	reached := m.reachable()
	if len(reached) != m.NodeCount() {
		return invariant("%d nodes reachable from the root, %d live", len(reached), m.NodeCount())
	}
	leaves := 0
	for _, id := range reached {
		if m.nodes[id].kind != KindLeaf {
			continue
		}
		leaves++
		if !m.leaves.has(id) {
			return invariant("reachable leaf %s is not registered", m.nodes[id].label)
		}
		if got, ok := m.regions[m.nodes[id].region]; !ok || got != id {
			return invariant("region of %s is not indexed", m.nodes[id].label)
		}
	}
	if leaves != len(m.leaves) || len(m.regions) != len(m.leaves) {
		return invariant("%d reachable leaves, %d registered, %d regions", leaves, len(m.leaves), len(m.regions))
	}
	return nil
}

func (m *Map) validateNeighbors(ix *regionIndex) error {
	for _, a := range m.leaves.sorted() {
		ra := m.nodes[a].region
		if !ra.Valid() {
			return invariant("%s has malformed region %s", m.nodes[a].label, ra)
		}
		for b := range m.nodes[a].neighbors {
			if !m.leaves.has(b) {
				return invariant("%s neighbours detached node %d", m.nodes[a].label, b)
			}
			if !m.nodes[b].neighbors.has(a) {
				return invariant("%s lists %s as neighbour but not vice versa", m.nodes[a].label, m.nodes[b].label)
			}
			rb := m.nodes[b].region
			if !adjacent(ra, rb) && !adjacent(rb, ra) {
				return invariant("%s and %s are linked but share no wall", m.nodes[a].label, m.nodes[b].label)
			}
		}
		for _, b := range ix.candidates(ra) {
			if b != a && adjacent(ra, m.nodes[b].region) && !m.nodes[a].neighbors.has(b) {
				return invariant("%s and %s share a wall but are not linked", m.nodes[a].label, m.nodes[b].label)
			}
		}
	}
	return nil
}

func (m *Map) validateCoverage(ix *regionIndex) error {
	total := 0.0
	for _, a := range m.leaves.sorted() {
		ra := m.nodes[a].region
		total += ra.Area()
		for _, b := range ix.candidates(ra) {
			if b > a && interiorsOverlap(ra, m.nodes[b].region) {
				return invariant("%s and %s overlap", m.nodes[a].label, m.nodes[b].label)
			}
		}
	}
	want := m.bounds.Area()
	if math.Abs(total-want) > 1e-6*math.Max(1, want) {
		return invariant("regions cover %g, bounds %g", total, want)
	}
	return nil
}
