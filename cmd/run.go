package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/ncdrift/internal/adapters/device"
	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	"github.com/bnema/ncdrift/internal/application"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/spf13/cobra"
)

type runOptions struct {
	format      string
	save        bool
	verbose     bool
	noSpinner   bool
	object      string
	interval    time.Duration
	convergence int
	sim         simulation
}

func newRunCmd(app *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenario and report divergence between both channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}

			target, err := app.loadTarget(opts.sim)
			if err != nil {
				return err
			}
			if opts.object != "" {
				target.Scenario.Object = opts.object
			}
			if cmd.Flags().Changed("interval") {
				target.Scenario.ObservationInterval = opts.interval
			}
			if cmd.Flags().Changed("convergence-retries") {
				target.Scenario.ConvergenceRetries = opts.convergence
			}

			connector, err := app.connector(cmd.Context(), target, opts.sim)
			if err != nil {
				return err
			}

			report, runErr := app.runScenario(cmd, target, connector, format == formatText && !opts.noSpinner)

			if opts.save {
				if err := app.reports.Save(context.WithoutCancel(cmd.Context()), report); err != nil {
					return fmt.Errorf("save report: %w", err)
				}
				app.logger.Info().Str("run", string(report.ID)).Msg("report archived")
			}

			if err := writeReport(cmd.OutOrStdout(), app, report, format, opts.verbose); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", string(formatText), "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Archive the report in ~/.ncdrift/reports.toml")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show expected state and clauses for every record")
	cmd.Flags().BoolVar(&opts.noSpinner, "no-spinner", false, "Disable the progress spinner")
	cmd.Flags().StringVar(&opts.object, "object", "", "Override the route-map name from the scenario")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Override the observation interval between convergence cycles")
	cmd.Flags().IntVar(&opts.convergence, "convergence-retries", 0, "Override the number of convergence re-observations")
	opts.sim.register(cmd)

	return cmd
}

func (a *app) runScenario(cmd *cobra.Command, target tomlrepo.ScenarioFile, connector *device.Connector, spinner bool) (domain.Report, error) {
	var (
		report domain.Report
		runErr error
	)

	execute := func(ctx context.Context, progress func(string)) error {
		runner := application.NewRunner(connector, a.clock, application.RunnerConfig{
			ObserveTimeout:  target.Run.ObserveTimeout,
			MutationTimeout: target.Run.MutationTimeout,
			StepRetries:     target.Run.StepRetries,
			RetryInterval:   target.Run.RetryInterval,
			OnRecord: func(record domain.DivergenceRecord) {
				progress(recordProgress(record))
			},
		}, a.logger)

		report, runErr = runner.Run(ctx, target.Scenario)
		return nil
	}

	if spinner && a.isTerminal(cmd.ErrOrStderr()) {
		label := fmt.Sprintf("Running %s against %s...", target.Scenario.Name, connector.Device)
		if err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), label, execute); err != nil {
			return report, err
		}
		return report, runErr
	}

	_ = execute(cmd.Context(), func(string) {})
	return report, runErr
}

func recordProgress(record domain.DivergenceRecord) string {
	verdict := "consistent"
	if !record.Consistent {
		verdict = "diverged"
	}
	return fmt.Sprintf("[step %d.%d %s: %s]", record.Step.Index, record.Step.Attempt, record.Step.Name, verdict)
}
