package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ncdrift",
		Short:         "Reproduce route-map divergence between NETCONF and the CLI",
		Long:          "ncdrift drives one route-map through a NETCONF session and an SSH CLI session on the same device, compares what each channel reports after every step, and records a timeline of agreements and divergences.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentFlags().StringVar(&app.flags.scenarioPath, "config", "", "Scenario file (default from scenario.path in ~/.ncdrift/config.toml)")
	rootCmd.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.initLogger(cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newObserveCmd(app),
		newCleanCmd(app),
		newExecCmd(app),
		newScenarioCmd(app),
		newHistoryCmd(app),
	)

	return rootCmd
}
