package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// Options configures search DAG rendering.
type Options struct {
	// Detailed adds the discriminant of every node to its label: the
	// endpoint of an X node, the segment of a Y node and the corners of a
	// leaf's region. When false, only the node label is shown.
	Detailed bool

	// Highlight marks nodes, typically the path returned by [trapmap.Map.Trace].
	Highlight []trapmap.NodeID
}

// ToDOT converts the search DAG of m to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// X nodes are drawn as ellipses, Y nodes as diamonds and leaves as rounded
// boxes. Edges carry the branch they represent.
func ToDOT(m *trapmap.Map, opts Options) string {
	marked := make(map[trapmap.NodeID]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		marked[id] = true
	}

	nodes := m.Nodes()
	labels := make(map[trapmap.NodeID]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.Label
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label, marked[n.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Label, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if n.IsLeaf() {
			continue
		}
		left, right := branchNames(n.Kind)
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.Label, labels[n.LeftAbove], left)
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.Label, labels[n.RightBelow], right)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func branchNames(k trapmap.NodeKind) (string, string) {
	if k == trapmap.KindX {
		return "left", "right"
	}
	return "above", "below"
}

func fmtLabel(n trapmap.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}

	switch n.Kind {
	case trapmap.KindX:
		return n.Label + "\n" + n.Point.String()
	case trapmap.KindY:
		return n.Label + "\n" + n.Segment.String()
	}
	c := n.Region.Corners()
	return fmt.Sprintf("%s\n%s %s\n%s %s", n.Label, c[3], c[2], c[0], c[1])
}

func fmtAttrs(n trapmap.Node, label string, highlight bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case trapmap.KindX:
		attrs = append(attrs, "shape=ellipse")
	case trapmap.KindY:
		attrs = append(attrs, "shape=diamond")
	default:
		if n.Region.Width() == 0 {
			attrs = append(attrs, "shape=box", "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		} else {
			attrs = append(attrs, "shape=box", "style=\"rounded,filled\"")
		}
	}
	if highlight {
		attrs = append(attrs, "fillcolor=gold", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
