package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/paesdx/internal/content"
	"github.com/abhisek/paesdx/internal/render"
	"github.com/abhisek/paesdx/internal/session"
)

var routeCmd = &cobra.Command{
	Use:   "route <answers.json|->",
	Short: "Route routing-stage answers to a second-stage module",
	Long:  `Reads {"routing_answers": [{"item_id": ..., "response": ...}]} and prints the selected route.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		var sub session.Submission
		if err := readPayload(cmd, args[0], content.SchemaRouteRequest, &sub); err != nil {
			return err
		}

		holder, err := content.Open(contentLoader(cmd), nil)
		if err != nil {
			return err
		}
		dec, err := session.NewEngine(holder).RouteStage(sub.RoutingAnswers)
		if err != nil {
			return err
		}

		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), dec)
		}
		return render.Route(cmd.OutOrStdout(), string(dec.Route), dec.ModuleItems)
	},
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <submission.json|->",
	Short: "Score and diagnose a complete submission",
	Long: `Reads {"student_id", "routing_answers", "module_answers"} and prints the
diagnostic report. With --save the report is also stored in the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")
		if err := checkFormat(format); err != nil {
			return err
		}

		var sub session.Submission
		if err := readPayload(cmd, args[0], content.SchemaSubmission, &sub); err != nil {
			return err
		}

		log, err := newLogger(cmd, "nop")
		if err != nil {
			return err
		}
		defer log.Sync()

		holder, err := content.Open(contentLoader(cmd), log)
		if err != nil {
			return err
		}
		snap := holder.Current()
		rep, err := session.NewEngine(holder).Evaluate(sub)
		if err != nil {
			return err
		}

		if save {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			seq, err := s.Reports().Save(context.Background(), rep)
			if err != nil {
				return fmt.Errorf("save report: %w", err)
			}
			log.Info("report saved", "report_id", rep.ID, "student_id", rep.StudentID, "sequence", seq)
		}

		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		return render.Report(cmd.OutOrStdout(), rep, snap.Graph)
	},
}

// readPayload reads a JSON document, checks it against schema and decodes
// it into out.
func readPayload(cmd *cobra.Command, name, schema string, out any) error {
	raw, err := readInput(cmd, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := content.Validate(schema, raw); err != nil {
		var se *content.SchemaError
		if errors.As(err, &se) {
			return fmt.Errorf("%s is not a valid %s payload:\n  %s", name, schema, strings.Join(se.Problems, "\n  "))
		}
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func init() {
	routeCmd.Flags().String("format", "text", "Output format: text or json")

	diagnoseCmd.Flags().String("format", "text", "Output format: text or json")
	diagnoseCmd.Flags().Bool("save", false, "Store the report in the database")
}
