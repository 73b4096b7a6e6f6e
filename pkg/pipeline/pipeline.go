// Package pipeline builds trapezoidal maps from decoded input and turns them
// into artifacts: the adjacency table, the region list, the search DAG
// diagram and a raster snapshot.
//
// The CLI and the HTTP server share this package so that budgets, error
// classification and caching behave the same on both entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	in, err := io.Import("segments.txt")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, in, pipeline.Options{
//	    Formats: []string{pipeline.FormatCSV},
//	})
//	csv := result.Artifacts[pipeline.FormatCSV]
//
// Run individual stages:
//
//	m, completed, err := runner.Build(ctx, in, opts)
//	artifacts, err := pipeline.Render(ctx, m, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// Artifact formats.
const (
	FormatCSV     = "csv"     // adjacency table
	FormatRegions = "regions" // JSON list of regions
	FormatDOT     = "dot"     // search DAG as Graphviz source
	FormatSVG     = "svg"     // search DAG rendered by Graphviz
	FormatPNG     = "png"     // raster image of the decomposition
)

// Formats lists every supported artifact format.
var Formats = []string{FormatCSV, FormatRegions, FormatDOT, FormatSVG, FormatPNG}

// DefaultImageWidth is the default width of PNG snapshots in pixels.
const DefaultImageWidth = 800

// Options configures a pipeline run.
type Options struct {
	// Budget bounds the time spent inserting segments. Zero disables the
	// limit. A map that runs out of budget is returned incomplete.
	Budget time.Duration

	// ExportEach, when set, receives the adjacency table after every
	// inserted segment.
	ExportEach func(inserted int, table [][]string)

	// Formats selects the artifacts to produce. Empty means [FormatCSV].
	Formats []string

	// Detailed adds discriminants to the labels of DOT and SVG output.
	Detailed bool

	// Query, when set, is highlighted in DOT, SVG and PNG output.
	Query *geom.Point

	// ImageWidth is the PNG width in pixels.
	ImageWidth int

	// Refresh ignores cached artifacts and overwrites them.
	Refresh bool

	Logger *log.Logger
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Map *trapmap.Map

	// InputHash identifies the input; artifacts are cached under it.
	InputHash string

	// Completed is false when the insertion budget ran out.
	Completed bool

	// Artifacts contains the rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Segments   int
	Inserted   int
	Leaves     int
	Nodes      int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // all artifacts came from cache
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, Formats...); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills in zero values.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatCSV}
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = strings.ToLower(f)
	}
	o.Formats = formats
	if o.ImageWidth == 0 {
		o.ImageWidth = DefaultImageWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate sets defaults and checks the options.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Budget < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "budget cannot be negative")
	}
	if o.ImageWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "image width cannot be negative")
	}
	return ValidateFormats(o.Formats)
}

// insertBudget converts Budget to the convention of [trapmap.Map.Insert],
// where a negative budget is unlimited.
func (o *Options) insertBudget() time.Duration {
	if o.Budget == 0 {
		return -1
	}
	return o.Budget
}

// cacheable reports whether the artifacts of a run depend only on the input,
// which excludes highlighted queries.
func (o *Options) cacheable() bool {
	return o.Query == nil
}
