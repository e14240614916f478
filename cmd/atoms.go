package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/render"
)

var atomsCmd = &cobra.Command{
	Use:   "atoms",
	Short: "Browse the knowledge graph",
}

var atomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List atoms in topological order (optionally filtered by axis)",
	RunE: func(cmd *cobra.Command, args []string) error {
		axis, _ := cmd.Flags().GetString("axis")
		if axis != "" && !atomgraph.Axis(axis).Valid() {
			return fmt.Errorf("unknown axis %q (want one of %v)", axis, atomgraph.AllAxes())
		}

		snap, err := contentLoader(cmd)()
		if err != nil {
			return err
		}
		return render.Atoms(cmd.OutOrStdout(), snap.Graph, atomgraph.Axis(axis))
	},
}

func init() {
	atomsListCmd.Flags().String("axis", "", "Filter by axis (numbers, algebra, geometry, probability)")

	atomsCmd.AddCommand(atomsListCmd)
}
