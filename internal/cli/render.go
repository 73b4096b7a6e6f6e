package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/trapmap/pkg/pipeline"
)

// renderCommand creates the render command for diagrams and snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags    buildFlags
		output   string
		formats  string
		detailed bool
		query    string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Draw the search structure or the regions of a map",
		Long: `Draw a map.

  dot  Graphviz source of the search structure
  svg  the search structure rendered with Graphviz (default)
  png  the regions and segments of the map

With --query x,y the path of the query through the structure and the region
containing it are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.pipelineOptions(ctx, cmd, &flags)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formats, pipeline.FormatSVG)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Detailed = detailed
			opts.ImageWidth = width
			if query != "" {
				p, err := parsePointList(query)
				if err != nil {
					return err
				}
				opts.Query = &p
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
			printSuccess("Rendered %s", StyleHighlight.Render(args[0]))
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with their points and segments")
	cmd.Flags().StringVar(&query, "query", "", "highlight the location of x,y")
	cmd.Flags().IntVar(&width, "width", pipeline.DefaultImageWidth, "PNG width in pixels")

	return cmd
}
