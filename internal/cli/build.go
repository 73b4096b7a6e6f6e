package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trapmap/pkg/pipeline"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags   buildFlags
		output  string
		formats string
		show    bool
	)

	cmd := &cobra.Command{
		Use:   "build <input>",
		Short: "Build a trapezoidal map and write its artifacts",
		Long: `Build a trapezoidal map from a segment file and write the requested artifacts.

The input format follows the file extension: .toml, .json, anything else is
the text format (segment count, bounds "x y w h", then one "x1 y1 x2 y2" per
line). "-" reads text from standard input.

Formats: ` + strings.Join(pipeline.Formats, ", ") + ` (default csv).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.pipelineOptions(ctx, cmd, &flags)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formats, pipeline.FormatCSV)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.SetDefaults()

			res, err := c.execute(ctx, args[0], flags.noCache, opts)
			if err != nil {
				return err
			}

			paths, err := writeArtifacts(res.Artifacts, opts.Formats, output, basePath(output, args[0]))
			if err != nil {
				return err
			}

			printSuccess("Built %s", StyleHighlight.Render(args[0]))
			printStats(res.Stats.Leaves, res.Stats.Nodes, res.Completed, res.CacheInfo.RenderHit)
			for _, p := range paths {
				printFile(p)
			}
			if show {
				fmt.Println(adjacencyTable(res.Map.ExportAdjacency()))
			}
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s), comma-separated")
	cmd.Flags().BoolVar(&show, "show", false, "print the adjacency table")

	return cmd
}
