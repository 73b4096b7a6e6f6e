package trapmap

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/trapmap/pkg/geom"
)

func TestExportAdjacencyInitial(t *testing.T) {
	m, err := New(square)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"", "T0", "Total"},
		{"T0", "0", "0"},
		{"Total", "0", "0"},
	}, m.ExportAdjacency())
}

func TestExportAdjacency(t *testing.T) {
	m := build(t, seg(2, 2, 8, 8))

	want := [][]string{
		{"", "Q0", "P1", "S0", "T1", "T2", "T3", "T4", "Total"},
		{"Q0", "0", "1", "0", "0", "0", "0", "0", "1"},
		{"P1", "0", "0", "0", "0", "0", "0", "0", "0"},
		{"S0", "1", "0", "0", "0", "0", "0", "0", "1"},
		{"T1", "0", "0", "1", "0", "0", "0", "0", "1"},
		{"T2", "0", "0", "1", "0", "0", "0", "0", "1"},
		{"T3", "1", "0", "0", "0", "0", "0", "0", "1"},
		{"T4", "0", "1", "0", "0", "0", "0", "0", "1"},
		{"Total", "2", "2", "2", "0", "0", "0", "0", "6"},
	}
	assert.Equal(t, want, m.ExportAdjacency())
}

func TestExportAdjacencyTotals(t *testing.T) {
	m := build(t, seg(3, 2, 5, 2), seg(1, 6, 9, 6), seg(2, 8, 7, 9))
	table := m.ExportAdjacency()

	n := m.NodeCount()
	require.Len(t, table, n+2)
	for _, row := range table {
		require.Len(t, row, n+2)
	}

	edges := 0
	for _, row := range table[1 : n+1] {
		ones := 0
		for _, cell := range row[1 : n+1] {
			if cell == "1" {
				ones++
			}
		}
		assert.Equal(t, strconv.Itoa(ones), row[n+1], "row %s", row[0])
		edges += ones
	}
	assert.Equal(t, strconv.Itoa(edges), table[n+1][n+1])

	// Every decision node has two children; leaves none.
	for j, label := range table[0][1 : n+1] {
		want := "2"
		if label[0] == 'T' {
			want = "0"
		}
		assert.Equal(t, want, table[n+1][j+1], "column %s", label)
	}
}

func TestExportDoesNotMutate(t *testing.T) {
	m := build(t, seg(2, 2, 8, 8))
	before := m.ExportAdjacency()
	_ = m.ExportAdjacency()
	assert.Equal(t, before, m.ExportAdjacency())
	assert.Equal(t, 7, m.NodeCount())
	assert.Equal(t, geom.Pt(2, 2), m.Locate(geom.Pt(1, 1)).RightP)
}

func TestNodesMatchesExportOrder(t *testing.T) {
	m := build(t, seg(2, 2, 8, 8))
	header := m.ExportAdjacency()[0]

	nodes := m.Nodes()
	require.Len(t, nodes, m.NodeCount())
	for i, n := range nodes {
		assert.Equal(t, header[i+1], n.Label)
	}
	assert.Equal(t, KindX, nodes[0].Kind)
	assert.True(t, nodes[len(nodes)-1].IsLeaf())
}
