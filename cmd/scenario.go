package cmd

import (
	"fmt"
	"strings"

	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/spf13/cobra"
)

func newScenarioCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Inspect scenario definitions",
	}

	cmd.AddCommand(newScenarioValidateCmd(app), newScenarioExampleCmd())

	return cmd
}

func newScenarioValidateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a scenario file without connecting to the device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.scenarioPath()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errNoScenario
			}

			file, err := tomlrepo.LoadScenarioFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "scenario %q is valid: object %s on %s, %d steps\n",
				file.Scenario.Name, file.Scenario.Object, file.Device.Address, len(file.Scenario.Steps)); err != nil {
				return err
			}
			for i, step := range file.Scenario.Steps {
				if _, err := fmt.Fprintf(out, "  %d. %s: %s\n", i+1, step.Name, step.Describe()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newScenarioExampleCmd() *cobra.Command {
	var address, builtin string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print a built-in scenario as a starting point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenario, err := domain.BuiltinScenario(builtin, defaultObject)
			if err != nil {
				return err
			}
			data, err := tomlrepo.EncodeScenarioFile(tomlrepo.ExampleScenarioFile(address, scenario))
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&address, "address", "192.0.2.10", "Device address written into the example")
	cmd.Flags().StringVar(&builtin, "builtin", domain.ScenarioDeleteRecreate, "Built-in scenario to print: "+strings.Join(domain.BuiltinScenarios(), ", "))

	return cmd
}
