package cmd

import (
	"context"
	"fmt"
	"strings"

	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/spf13/cobra"
)

func newExecCmd(app *app) *cobra.Command {
	var opts sessionOptions

	cmd := &cobra.Command{
		Use:   "exec -- <command...>",
		Short: "Send one raw command over the interactive channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")

			return app.withSession(cmd, opts, func(ctx context.Context, _ tomlrepo.ScenarioFile, session ports.DeviceSession) error {
				output, err := session.Interactive().Run(ctx, command)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(output, "\r\n"))
				return err
			})
		},
	}

	opts.register(cmd)

	return cmd
}
