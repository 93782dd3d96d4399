package cmd

import (
	"context"
	"errors"
	"fmt"

	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/spf13/cobra"
)

// sessionOptions are shared by the commands that act on one open session
// pair outside of a scenario run.
type sessionOptions struct {
	object string
	sim    simulation
}

func (o *sessionOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.object, "object", "", "Route-map name (default from the scenario file)")
	o.sim.register(cmd)
}

func (a *app) withSession(cmd *cobra.Command, opts sessionOptions, fn func(context.Context, tomlrepo.ScenarioFile, ports.DeviceSession) error) (err error) {
	target, err := a.loadTarget(opts.sim)
	if err != nil {
		return err
	}
	if opts.object != "" {
		target.Scenario.Object = opts.object
	}

	connector, err := a.connector(cmd.Context(), target, opts.sim)
	if err != nil {
		return err
	}

	session, err := connector.Open(cmd.Context())
	if err != nil {
		return fmt.Errorf("open session pair: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close session pair: %w", closeErr))
		}
	}()

	return fn(cmd.Context(), target, session)
}
