package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// locateCommand creates the locate command for a single point query.
func (c *CLI) locateCommand() *cobra.Command {
	var (
		flags buildFlags
		trace bool
	)

	cmd := &cobra.Command{
		Use:   "locate <input> <x> <y>",
		Short: "Find the region containing a point",
		Long: `Build the map of <input> and print the region containing (x, y).

A point on a vertical wall belongs to the region on its left; a point on a
segment belongs to the region below it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(args[1], args[2])
			if err != nil {
				return err
			}
			m, err := c.buildMap(cmd.Context(), cmd, args[0], &flags)
			if err != nil {
				return err
			}

			n, _ := m.Node(m.LocateLeaf(p))
			r := n.Region
			printSuccess("%s lies in %s", p, StyleHighlight.Render(n.Label))
			printKeyValue("left", r.LeftP.String())
			printKeyValue("right", r.RightP.String())
			printKeyValue("top", r.Top.String())
			printKeyValue("bottom", r.Bottom.String())
			printKeyValue("area", fmt.Sprintf("%g", r.Area()))

			if trace {
				for _, step := range m.Trace(p) {
					if step.Kind == trapmap.KindLeaf {
						printDetail("%s", step.Label)
						continue
					}
					printDetail("%s %s %s", step.Label, iconArrow, step.Branch)
				}
			}
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&trace, "trace", false, "print the path through the search structure")

	return cmd
}
