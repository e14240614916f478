package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/paesdx/internal/content"
	"github.com/abhisek/paesdx/internal/diagerr"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a content directory (knowledge graph, item bank, blueprint)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		load := contentLoader(cmd)
		if len(args) == 1 {
			load = content.DirLoader(args[0])
		}

		snap, err := load()
		if err != nil {
			var cfg *diagerr.ConfigurationError
			if errors.As(err, &cfg) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d problem(s)\n", cfg.Source, len(cfg.Problems))
				for _, p := range cfg.Problems {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
				}
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "content OK (%s)\n", snap.Origin)
		fmt.Fprintf(out, "  blueprint %s, %d routing items, routes %v\n",
			snap.Blueprint.Version(), snap.Blueprint.RoutingSize(), snap.Blueprint.Routes())
		fmt.Fprintf(out, "  %d atoms, %d items\n", snap.Graph.Len(), snap.Bank.Len())
		return nil
	},
}
