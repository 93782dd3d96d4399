package cmd

import (
	"context"
	"fmt"

	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/spf13/cobra"
)

func newCleanCmd(app *app) *cobra.Command {
	var opts sessionOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the route-map through the structured channel (no-op when absent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, opts, func(ctx context.Context, target tomlrepo.ScenarioFile, session ports.DeviceSession) error {
				if err := session.Structured().Delete(ctx, target.Scenario.Object); err != nil {
					return fmt.Errorf("delete route-map %s: %w", target.Scenario.Object, err)
				}

				_, err := fmt.Fprintf(cmd.OutOrStdout(), "route-map %s removed from %s\n", target.Scenario.Object, session.Device())
				return err
			})
		},
	}

	opts.register(cmd)

	return cmd
}
