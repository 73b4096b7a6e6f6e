package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
	tmio "github.com/matzehuels/trapmap/pkg/io"
	"github.com/matzehuels/trapmap/pkg/observability"
	"github.com/matzehuels/trapmap/pkg/pipeline"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// buildFlags are shared by every command that builds a map from an input file.
type buildFlags struct {
	budget     time.Duration
	exportEach string
	noCache    bool
	refresh    bool
}

func (f *buildFlags) register(cmd *cobra.Command, withCache bool) {
	cmd.Flags().DurationVar(&f.budget, "budget", 0, "stop inserting after this long, e.g. 500ms (0 = no limit)")
	cmd.Flags().StringVar(&f.exportEach, "export-each", "", "write the adjacency table after every segment into this directory")
	if withCache {
		cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
		cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts")
	}
}

// pipelineOptions merges flags with the config file. Flags the user set win.
func (c *CLI) pipelineOptions(ctx context.Context, cmd *cobra.Command, f *buildFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		Budget:  f.budget,
		Refresh: f.refresh,
		Logger:  loggerFromContext(ctx),
	}
	if !cmd.Flags().Changed("budget") {
		d, err := c.config.BudgetDuration()
		if err != nil {
			return opts, err
		}
		opts.Budget = d
	}

	dir := f.exportEach
	if !cmd.Flags().Changed("export-each") {
		dir = c.config.ExportEach
	}
	if dir != "" {
		fn, err := exportEachTo(dir, opts.Logger)
		if err != nil {
			return opts, err
		}
		opts.ExportEach = fn
	}
	return opts, nil
}

// exportEachTo returns a callback writing each intermediate adjacency table
// to dir as step-NNNN.csv.
func exportEachTo(dir string, logger *log.Logger) (func(int, [][]string), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return func(n int, table [][]string) {
		path := filepath.Join(dir, fmt.Sprintf("step-%04d.csv", n))
		if err := tmio.ExportCSV(table, path); err != nil {
			logger.Warn("export step failed", "path", path, "error", err)
		}
	}, nil
}

// execute imports input and runs the full pipeline on it.
func (c *CLI) execute(ctx context.Context, input string, noCache bool, opts pipeline.Options) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	logger.Infof("Building %s", input)

	in, err := tmio.Import(input)
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	var spinner *Spinner
	if logger.GetLevel() > log.DebugLevel {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Inserting %d segments...", len(in.Segments)))
		observability.SetInsertHooks(&spinnerInsertHooks{spinner: spinner, total: len(in.Segments)})
		spinner.Start()
	}
	res, err := runner.Execute(ctx, in, opts)
	if spinner != nil {
		spinner.Stop()
		observability.SetInsertHooks(observability.NoopInsertHooks{})
	}
	if err != nil {
		return nil, err
	}

	if !res.Completed {
		printWarning("Budget exhausted: inserted %d of %d segments", res.Stats.Inserted, res.Stats.Segments)
	}
	return res, nil
}

// buildMap imports input and builds its map without rendering artifacts.
func (c *CLI) buildMap(ctx context.Context, cmd *cobra.Command, input string, f *buildFlags) (*trapmap.Map, error) {
	logger := loggerFromContext(ctx)
	opts, err := c.pipelineOptions(ctx, cmd, f)
	if err != nil {
		return nil, err
	}

	in, err := tmio.Import(input)
	if err != nil {
		return nil, err
	}

	prog := newProgress(logger)
	m, completed, err := pipeline.NewRunner(nil, nil, logger).Build(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	prog.built(m, len(in.Segments), completed)
	if !completed {
		printWarning("Budget exhausted: inserted %d of %d segments", len(m.Segments()), len(in.Segments))
	}
	return m, nil
}

// writeArtifacts writes each artifact to disk. A single artifact goes to
// output when it is set ("-" is standard output); otherwise every artifact is
// written next to base with its format's extension. It returns the paths
// written.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, base string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		data := artifacts[formats[0]]
		if output == "-" {
			_, err := os.Stdout.Write(data)
			return nil, err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	var paths []string
	for _, f := range formats {
		path := base + extension(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// parsePoint parses a query point from two coordinate strings.
func parsePoint(xs, ys string) (geom.Point, error) {
	var coords [2]float64
	for i, s := range [2]string{xs, ys} {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return geom.Point{}, errors.New(errors.ErrCodeInvalidInput, "invalid coordinate %q", s)
		}
		if err := errors.ValidateCoordinate("coordinate", v); err != nil {
			return geom.Point{}, err
		}
		coords[i] = v
	}
	return geom.Pt(coords[0], coords[1]), nil
}

// parsePointList parses "x,y" or "x y".
func parsePointList(s string) (geom.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return geom.Point{}, errors.New(errors.ErrCodeInvalidInput, "expected two coordinates, got %q", s)
	}
	return parsePoint(fields[0], fields[1])
}

// describe summarises the region containing p on one line.
func describe(m *trapmap.Map, p geom.Point) string {
	n, _ := m.Node(m.LocateLeaf(p))
	r := n.Region
	return fmt.Sprintf("%s %s %s  left %s  right %s  top %s  bottom %s",
		p, iconArrow, n.Label, r.LeftP, r.RightP, r.Top, r.Bottom)
}
