// Package raster paints the regions of a trapezoidal map as a PNG image.
//
// Every region is filled with a colour from a small palette and outlined;
// inserted segments are drawn on top. An optional query point is marked and
// the region containing it highlighted, which makes the image a quick visual
// check of [trapmap.Map.Locate].
package raster

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/trapmap/pkg/geom"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

var palette = []string{"#e8f1fb", "#fdf2e0", "#e9f6ec", "#f6e8f3", "#fbf7dc", "#eaeaf6"}

const (
	outline   = "#8a8f98"
	segment   = "#1d2330"
	highlight = "#ffd34d"
	marker    = "#d23c3c"
)

// Option configures PNG rendering.
type Option func(*renderer)

type renderer struct {
	width  int
	margin float64
	query  *geom.Point
}

// WithWidth sets the image width in pixels (default 800). The height follows
// the aspect ratio of the map's bounds.
func WithWidth(px int) Option {
	return func(r *renderer) { r.width = px }
}

// WithMargin sets the blank border around the bounds in pixels (default 16).
func WithMargin(px float64) Option {
	return func(r *renderer) { r.margin = px }
}

// WithQuery marks p and highlights the region containing it.
func WithQuery(p geom.Point) Option {
	return func(r *renderer) { r.query = &p }
}

// RenderPNG renders the decomposition of m as PNG.
func RenderPNG(m *trapmap.Map, opts ...Option) ([]byte, error) {
	r := renderer{width: 800, margin: 16}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= int(2*r.margin) {
		return nil, fmt.Errorf("image width %d too small for margin %.0f", r.width, r.margin)
	}

	b := m.Bounds()
	scale := (float64(r.width) - 2*r.margin) / (b.MaxX() - b.MinX())
	height := int(math.Ceil((b.MaxY()-b.MinY())*scale + 2*r.margin))

	dc := gg.NewContext(r.width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	px := func(p geom.Point) (float64, float64) {
		return r.margin + (p.X-b.MinX())*scale, float64(height) - r.margin - (p.Y-b.MinY())*scale
	}

	var hit trapmap.Trapezoid
	if r.query != nil {
		hit = m.Locate(*r.query)
	}

	for i, t := range m.Regions() {
		if t.Width() == 0 {
			continue
		}
		fill := palette[i%len(palette)]
		if r.query != nil && t == hit {
			fill = highlight
		}
		c := t.Corners()
		for j, p := range c {
			x, y := px(p)
			if j == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.SetHexColor(fill)
		if err := dc.FillPreserve(); err != nil {
			return nil, fmt.Errorf("fill region %s: %w", t, err)
		}
		dc.SetHexColor(outline)
		dc.SetLineWidth(1)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("outline region %s: %w", t, err)
		}
	}

	dc.SetHexColor(segment)
	dc.SetLineWidth(2.5)
	for _, s := range m.Segments() {
		x1, y1 := px(s.P)
		x2, y2 := px(s.Q)
		dc.DrawLine(x1, y1, x2, y2)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("draw segment %s: %w", s, err)
		}
	}

	if r.query != nil {
		x, y := px(*r.query)
		dc.SetHexColor(marker)
		dc.DrawCircle(x, y, 4)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("mark query: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
