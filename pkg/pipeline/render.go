package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	tmio "github.com/matzehuels/trapmap/pkg/io"
	"github.com/matzehuels/trapmap/pkg/render/nodelink"
	"github.com/matzehuels/trapmap/pkg/render/raster"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// Render generates artifacts in the requested formats.
func Render(ctx context.Context, m *trapmap.Map, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatCSV:
			var buf bytes.Buffer
			err = tmio.WriteCSV(m.ExportAdjacency(), &buf)
			data = buf.Bytes()
		case FormatRegions:
			var buf bytes.Buffer
			err = tmio.WriteRegionsJSON(m, &buf)
			data = buf.Bytes()
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(m, dotOptions(m, opts))
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		case FormatPNG:
			rasterOpts := []raster.Option{raster.WithWidth(opts.ImageWidth)}
			if opts.Query != nil {
				rasterOpts = append(rasterOpts, raster.WithQuery(*opts.Query))
			}
			data, err = raster.RenderPNG(m, rasterOpts...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func dotOptions(m *trapmap.Map, opts Options) nodelink.Options {
	out := nodelink.Options{Detailed: opts.Detailed}
	if opts.Query != nil {
		for _, step := range m.Trace(*opts.Query) {
			out.Highlight = append(out.Highlight, step.Node)
		}
	}
	return out
}

// artifactVariant names the cache entry of format under opts, so that
// renderings with different settings do not share an entry.
func artifactVariant(format string, opts Options) string {
	switch format {
	case FormatDOT, FormatSVG:
		if opts.Detailed {
			return format + ":detailed"
		}
	case FormatPNG:
		return format + ":" + strconv.Itoa(opts.ImageWidth)
	}
	return format
}
