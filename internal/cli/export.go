package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	tmio "github.com/matzehuels/trapmap/pkg/io"
	"github.com/matzehuels/trapmap/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags   buildFlags
		output  string
		regions bool
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "export <input>",
		Short: "Export the adjacency table or the regions of a map",
		Long: `Export the search structure of a map as a CSV adjacency table.

Rows and columns are the nodes of the structure: X nodes (P#, Q#), Y nodes
(S#) and leaves (T#). A cell is 1 when the column node points at the row node.
The last column counts parents and the last row counts children.

With --regions the leaf regions are written as JSON instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.pipelineOptions(ctx, cmd, &flags)
			if err != nil {
				return err
			}
			format := pipeline.FormatCSV
			if regions {
				format = pipeline.FormatRegions
			}
			opts.Formats = []string{format}

			res, err := c.execute(ctx, args[0], flags.noCache, opts)
			if err != nil {
				return err
			}

			if pretty {
				if regions {
					fmt.Println(regionTable(tmio.Regions(res.Map)))
				} else {
					fmt.Println(adjacencyTable(res.Map.ExportAdjacency()))
				}
				return nil
			}

			if output == "" {
				output = "-"
			}
			paths, err := writeArtifacts(res.Artifacts, opts.Formats, output, "")
			if err != nil {
				return err
			}
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default standard output)")
	cmd.Flags().BoolVar(&regions, "regions", false, "export the regions as JSON")
	cmd.Flags().BoolVar(&pretty, "table", false, "print a formatted table instead")

	return cmd
}
