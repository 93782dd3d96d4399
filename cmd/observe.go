package cmd

import (
	"context"

	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	"github.com/bnema/ncdrift/internal/application"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/spf13/cobra"
)

func newObserveCmd(app *app) *cobra.Command {
	var (
		opts   sessionOptions
		format string
	)

	cmd := &cobra.Command{
		Use:   "observe",
		Short: "Read the route-map once through both channels and compare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := parseFormat(format)
			if err != nil {
				return err
			}

			return app.withSession(cmd, opts, func(ctx context.Context, target tomlrepo.ScenarioFile, session ports.DeviceSession) error {
				started := app.clock.Now()
				engine := application.NewEngine(app.clock, application.EngineOptions{ObserveTimeout: target.Run.ObserveTimeout}, app.logger)

				step := domain.StepRef{Index: 0, Name: "observe", Attempt: 1, Operation: "observe"}
				record, err := engine.ObserveBoth(ctx, session, target.Scenario.Object, step, domain.Expectation{})
				if err != nil {
					return err
				}

				report := domain.Report{
					ID:         domain.NewRunID(),
					Scenario:   "observe",
					Device:     session.Device(),
					Object:     target.Scenario.Object,
					State:      domain.RunStateComplete,
					Timeline:   []domain.DivergenceRecord{record},
					StartedAt:  started,
					FinishedAt: app.clock.Now(),
				}
				report.Summarize()

				return writeReport(cmd.OutOrStdout(), app, report, outputFormat, true)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", string(formatText), "Output format: text, json or yaml")
	opts.register(cmd)

	return cmd
}
