package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/paesdx/internal/render"
	"github.com/abhisek/paesdx/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect stored diagnostic reports",
}

var reportListCmd = &cobra.Command{
	Use:   "list <student-id>",
	Short: "List a student's reports, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.Reports().ListByStudent(context.Background(), args[0], store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query reports: %w", err)
		}
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		return render.Summaries(cmd.OutOrStdout(), list)
	},
}

var reportViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rep, err := s.Reports().Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), rep)
		}

		// Atom names come from the current content when it still loads; the
		// report itself is self-contained.
		snap, err := contentLoader(cmd)()
		if err != nil {
			return render.Report(cmd.OutOrStdout(), rep, nil)
		}
		return render.Report(cmd.OutOrStdout(), rep, snap.Graph)
	},
}

func init() {
	reportListCmd.Flags().Int("limit", 20, "Maximum number of reports to show (0 = all)")
	reportListCmd.Flags().String("format", "text", "Output format: text or json")
	reportViewCmd.Flags().String("format", "text", "Output format: text or json")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportViewCmd)
}
