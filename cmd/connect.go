package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/ncdrift/internal/adapters/cli"
	"github.com/bnema/ncdrift/internal/adapters/device"
	"github.com/bnema/ncdrift/internal/adapters/netconf"
	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	"github.com/bnema/ncdrift/internal/adapters/simulator"
	"github.com/bnema/ncdrift/internal/adapters/sshconfig"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
)

const defaultObject = "TEST"

var errNoScenario = errors.New("no scenario file: pass --config or set scenario.path in ~/.ncdrift/config.toml")

// simulation selects the in-process device instead of a real one.
type simulation struct {
	enabled    bool
	staleReads int
	hangShowAt int
	candidate  bool
	newFormat  bool
	builtin    string
}

func (s *simulation) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.enabled, "simulate", false, "Run against an in-process simulated device")
	cmd.Flags().IntVar(&s.staleReads, "stale-reads", 1, "Simulator: CLI reads that return the pre-delete object after a delete-recreate")
	cmd.Flags().IntVar(&s.hangShowAt, "hang-show", 0, "Simulator: hang the Nth route-map show command (0 disables)")
	cmd.Flags().BoolVar(&s.candidate, "candidate", true, "Simulator: advertise the candidate datastore")
	cmd.Flags().BoolVar(&s.newFormat, "new-format", false, "Simulator: start with ip bgp-community new-format configured")
	cmd.Flags().StringVar(&s.builtin, "builtin", "", "Use a built-in scenario ("+strings.Join(domain.BuiltinScenarios(), ", ")+") instead of the file's steps")
}

// loadTarget reads the scenario file. Without one, simulated runs fall back
// to a built-in scenario, delete-recreate unless --builtin names another.
// --builtin also replaces the steps of a loaded file.
func (a *app) loadTarget(sim simulation) (tomlrepo.ScenarioFile, error) {
	path, err := a.scenarioPath()
	if err != nil {
		return tomlrepo.ScenarioFile{}, err
	}

	var target tomlrepo.ScenarioFile
	switch {
	case path != "":
		target, err = tomlrepo.LoadScenarioFile(path)
		if err != nil {
			return tomlrepo.ScenarioFile{}, err
		}
		if sim.builtin == "" {
			return target, nil
		}
	case sim.enabled:
		target = tomlrepo.ExampleScenarioFile(simulator.Hostname, domain.Scenario{Object: defaultObject})
	default:
		return tomlrepo.ScenarioFile{}, errNoScenario
	}

	scenario, err := domain.BuiltinScenario(sim.builtin, target.Scenario.Object)
	if err != nil {
		return tomlrepo.ScenarioFile{}, err
	}
	target.Scenario = scenario
	return target, nil
}

func (a *app) connector(ctx context.Context, target tomlrepo.ScenarioFile, sim simulation) (*device.Connector, error) {
	datastore, err := netconf.ParseDatastore(target.Device.Structured.Datastore)
	if err != nil {
		return nil, fmt.Errorf("structured channel: %w", err)
	}
	parser, err := cli.NewParser(target.Device.Interactive.Parser)
	if err != nil {
		return nil, fmt.Errorf("interactive channel: %w", err)
	}

	logger := a.logger
	connector := &device.Connector{
		Device: target.Device.Address,
		NewStructured: func(session ports.RPCSession) ports.StructuredDriver {
			return netconf.NewDriver(session, netconf.Options{Datastore: datastore}, logger)
		},
		NewInteractive: func(session ports.LineSession) ports.InteractiveDriver {
			return cli.NewDriver(session, parser, cli.DriverOptions{}, logger)
		},
		Logger: logger,
	}

	if sim.enabled {
		dev := simulator.NewDevice(simulator.Options{
			Candidate:          sim.candidate,
			StaleReads:         sim.staleReads,
			HangShowAt:         sim.hangShowAt,
			CommunityNewFormat: sim.newFormat,
			Logger:             logger,
		})
		connector.Device = dev.Address()
		connector.DialStructured = dev.DialStructured
		connector.DialInteractive = dev.DialInteractive
		return connector, nil
	}

	if err := a.dialers(ctx, connector, target.Device); err != nil {
		return nil, err
	}
	return connector, nil
}

func (a *app) dialers(ctx context.Context, connector *device.Connector, settings tomlrepo.DeviceSettings) error {
	structuredAddr, err := sshconfig.Address(settings.Address, settings.Structured.Port, tomlrepo.DefaultStructuredPort)
	if err != nil {
		return err
	}
	interactiveAddr, err := sshconfig.Address(settings.Address, settings.Interactive.Port, tomlrepo.DefaultInteractivePort)
	if err != nil {
		return err
	}

	structuredConfig, err := a.clientConfig(ctx, settings.Structured)
	if err != nil {
		return fmt.Errorf("structured channel: %w", err)
	}
	interactiveConfig, err := a.clientConfig(ctx, settings.Interactive)
	if err != nil {
		return fmt.Errorf("interactive channel: %w", err)
	}

	sessionOpts := cli.SessionOptions{
		Prompt:         settings.Interactive.Prompt,
		PagingCommands: settings.Interactive.PagingCommands,
		CommandTimeout: settings.Interactive.CommandTimeout,
	}
	structuredTimeout := settings.Structured.ConnectTimeout
	interactiveTimeout := settings.Interactive.ConnectTimeout
	logger := a.logger

	connector.DialStructured = func(ctx context.Context) (ports.RPCSession, error) {
		ctx, cancel := withOptionalTimeout(ctx, structuredTimeout)
		defer cancel()

		session, err := netconf.Dial(ctx, structuredAddr, structuredConfig)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
	connector.DialInteractive = func(ctx context.Context) (ports.LineSession, error) {
		ctx, cancel := withOptionalTimeout(ctx, interactiveTimeout)
		defer cancel()

		session, err := cli.Dial(ctx, interactiveAddr, interactiveConfig, sessionOpts, logger)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
	return nil
}

func (a *app) clientConfig(ctx context.Context, settings tomlrepo.ChannelSettings) (*ssh.ClientConfig, error) {
	password := settings.Password
	if settings.PasswordRef != "" {
		resolved, err := a.credentials.Get(ctx, settings.PasswordRef)
		if err != nil {
			return nil, fmt.Errorf("resolve password_ref: %w", err)
		}
		password = resolved
	}

	keyPath, err := expandHome(settings.KeyPath)
	if err != nil {
		return nil, err
	}
	knownHosts, err := expandHome(settings.KnownHosts)
	if err != nil {
		return nil, err
	}

	return sshconfig.ClientConfig(sshconfig.Credentials{
		Username:        settings.Username,
		Password:        password,
		KeyPath:         keyPath,
		KnownHostsPath:  knownHosts,
		InsecureHostKey: settings.InsecureHostKey,
	}, settings.ConnectTimeout)
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
