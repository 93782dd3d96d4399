package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived run reports",
	}

	cmd.AddCommand(newHistoryListCmd(app), newHistoryShowCmd(app))

	return cmd
}

func newHistoryListCmd(app *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := parseFormat(format)
			if err != nil {
				return err
			}

			reports, err := app.reports.List(cmd.Context())
			if err != nil {
				return err
			}

			switch outputFormat {
			case formatJSON, formatYAML:
				docs := make([]reportDocument, 0, len(reports))
				for _, report := range reports {
					docs = append(docs, newReportDocument(report))
				}
				if outputFormat == formatYAML {
					return writeYAML(cmd.OutOrStdout(), docs)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(docs)
			default:
				rendered, err := app.historyRender(reports)
				if err != nil {
					return fmt.Errorf("render history: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return err
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", string(formatText), "Output format: text, json or yaml")

	return cmd
}

func newHistoryShowCmd(app *app) *cobra.Command {
	var (
		format  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one archived report (a unique ID prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := parseFormat(format)
			if err != nil {
				return err
			}

			report, err := app.reports.GetByID(cmd.Context(), domain.RunID(args[0]))
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), app, report, outputFormat, verbose)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(formatText), "Output format: text, json or yaml")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show expected state and clauses for every record")

	return cmd
}
