package trapmap

import (
	"slices"
	"strconv"
)

// ExportAdjacency returns the incidence table of the search DAG.
//
// The first row is the header: an empty cell, one label per node and
// "Total". Every following row describes one node as a child: cell j is "1"
// when the node of column j references it and "0" otherwise, and the last
// cell counts its parents. The final "Total" row counts the children of every
// column, with the overall number of edges in the corner. Nodes are ordered
// X nodes first, then Y nodes, then leaves, each by creation index.
func (m *Map) ExportAdjacency() [][]string {
	order := m.exportOrder()

	col := make(map[NodeID]int, len(order))
	header := make([]string, 0, len(order)+2)
	header = append(header, "")
	for i, id := range order {
		col[id] = i
		header = append(header, m.nodes[id].label)
	}
	header = append(header, "Total")

	table := make([][]string, 0, len(order)+2)
	table = append(table, header)
	colTotals := make([]int, len(order))
	grand := 0
	for _, child := range order {
		row := make([]string, len(order)+2)
		row[0] = m.nodes[child].label
		for i := range order {
			row[i+1] = "0"
		}
		parents := 0
		for p := range m.nodes[child].parents {
			j, ok := col[p]
			if !ok {
				continue
			}
			row[j+1] = "1"
			colTotals[j]++
			parents++
		}
		row[len(row)-1] = strconv.Itoa(parents)
		grand += parents
		table = append(table, row)
	}

	totals := make([]string, 0, len(order)+2)
	totals = append(totals, "Total")
	for _, n := range colTotals {
		totals = append(totals, strconv.Itoa(n))
	}
	totals = append(totals, strconv.Itoa(grand))
	return append(table, totals)
}

// Nodes returns snapshots of every node reachable from the root, in the
// row order of [Map.ExportAdjacency].
func (m *Map) Nodes() []Node {
	order := m.exportOrder()
	out := make([]Node, len(order))
	for i, id := range order {
		out[i] = m.snapshot(id)
	}
	return out
}

func (m *Map) exportOrder() []NodeID {
	order := m.reachable()
	slices.SortFunc(order, func(a, b NodeID) int {
		na, nb := &m.nodes[a], &m.nodes[b]
		if na.kind != nb.kind {
			return int(na.kind) - int(nb.kind)
		}
		return na.index - nb.index
	})
	return order
}

// reachable returns every node reachable from the root, visiting each once.
func (m *Map) reachable() []NodeID {
	seen := idSet{m.root: {}}
	stack := []NodeID{m.root}
	var out []NodeID
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, id)
		if m.nodes[id].kind == KindLeaf {
			continue
		}
		for _, c := range m.nodes[id].child {
			if c != None && !seen.has(c) {
				seen.add(c)
				stack = append(stack, c)
			}
		}
	}
	return out
}
