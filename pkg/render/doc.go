// Package render provides visual outputs for trapezoidal maps.
//
// Two renderers are available:
//
//   - [nodelink] draws the search structure (X, Y and leaf nodes) with Graphviz.
//   - [raster] paints the decomposition itself: the bounding box, every
//     region and the inserted segments, as PNG.
//
//	dot := nodelink.ToDOT(m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
//	png, err := raster.RenderPNG(m, raster.Options{Width: 800})
//
// [nodelink]: github.com/matzehuels/trapmap/pkg/render/nodelink
// [raster]: github.com/matzehuels/trapmap/pkg/render/raster
package render
