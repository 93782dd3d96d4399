package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/rs/zerolog"
)

var _ ports.InteractiveDriver = (*Driver)(nil)

const defaultRecoveryTimeout = 15 * time.Second

var deviceErrorMarkers = []string{
	"% Invalid input",
	"% Incomplete command",
	"% Ambiguous command",
	"% Unknown command",
	"% Error",
	"%Error",
}

type DriverOptions struct {
	// RecoveryTimeout bounds the re-read after a partial apply. It runs on a
	// context detached from the caller.
	RecoveryTimeout time.Duration
}

type Driver struct {
	session         ports.LineSession
	parser          ports.PolicyParser
	recoveryTimeout time.Duration
	logger          zerolog.Logger
}

func NewDriver(session ports.LineSession, parser ports.PolicyParser, opts DriverOptions, logger zerolog.Logger) *Driver {
	if parser == nil {
		parser = RunningConfigParser{}
	}
	recoveryTimeout := opts.RecoveryTimeout
	if recoveryTimeout <= 0 {
		recoveryTimeout = defaultRecoveryTimeout
	}

	return &Driver{
		session:         session,
		parser:          parser,
		recoveryTimeout: recoveryTimeout,
		logger:          logger.With().Str("channel", string(domain.ChannelInteractive)).Logger(),
	}
}

func (d *Driver) Run(ctx context.Context, command string) (string, error) {
	output, err := d.session.Run(ctx, command)
	if err != nil {
		return "", domain.TransportError(domain.ChannelInteractive, "run", err)
	}
	return output, nil
}

func (d *Driver) ReadPolicyObject(ctx context.Context, name string) (domain.PolicyObject, bool, error) {
	output, err := d.session.Run(ctx, d.parser.Command(name))
	if err != nil {
		return domain.PolicyObject{}, false, domain.TransportError(domain.ChannelInteractive, "show", err)
	}
	if diagnostic := deviceError(output, false); diagnostic != "" {
		return domain.PolicyObject{}, false, domain.NewChannelError(domain.ChannelInteractive, "show", domain.ErrChannel, diagnostic, nil)
	}

	object, present, err := d.parser.Parse(name, output)
	if err != nil {
		return domain.PolicyObject{}, false, domain.NewChannelError(domain.ChannelInteractive, "show", domain.ErrMalformedOutput, "", err)
	}
	return object, present, nil
}

// ConfigureClauses replaces the route-map line by line. The sequence is not
// atomic: a failure after the first mutating command yields a
// PartialApplyError carrying a re-read of the resulting state.
func (d *Driver) ConfigureClauses(ctx context.Context, name string, clauses []domain.Clause) error {
	object := domain.NewPolicyObject(name, clauses)
	if err := object.Validate(); err != nil {
		return err
	}

	commands := []configCommand{{text: "no route-map " + name, mutating: true, tolerateMissing: true}}
	for _, clause := range object.Clauses {
		commands = append(commands, clauseCommand(name, clause))
		for _, rule := range clause.NormalizedRules() {
			commands = append(commands, configCommand{text: rule, mutating: true})
		}
		commands = append(commands, configCommand{text: "exit"})
	}

	return d.configure(ctx, name, commands)
}

// MergeClauses enters each clause without clearing the route-map first, so
// existing clauses and rules stay in place.
func (d *Driver) MergeClauses(ctx context.Context, name string, clauses []domain.Clause) error {
	object := domain.NewPolicyObject(name, clauses)
	if err := object.Validate(); err != nil {
		return err
	}

	var commands []configCommand
	for _, clause := range object.Clauses {
		commands = append(commands, clauseCommand(name, clause))
		for _, rule := range clause.NormalizedRules() {
			commands = append(commands, configCommand{text: rule, mutating: true})
		}
		commands = append(commands, configCommand{text: "exit"})
	}

	return d.configure(ctx, name, commands)
}

// RemoveClauses negates whole clauses, or the listed rules inside a clause.
func (d *Driver) RemoveClauses(ctx context.Context, name string, clauses []domain.Clause) error {
	if err := (domain.PolicyObject{Name: name}).Validate(); err != nil {
		return err
	}

	var commands []configCommand
	for _, clause := range domain.NewPolicyObject(name, clauses).Clauses {
		rules := clause.NormalizedRules()
		if len(rules) == 0 {
			commands = append(commands, configCommand{
				text:            fmt.Sprintf("no route-map %s %s %d", name, clause.Action, clause.Seq),
				mutating:        true,
				tolerateMissing: true,
			})
			continue
		}
		commands = append(commands, clauseCommand(name, clause))
		for _, rule := range rules {
			commands = append(commands, configCommand{text: "no " + rule, mutating: true})
		}
		commands = append(commands, configCommand{text: "exit"})
	}

	return d.configure(ctx, name, commands)
}

// ApplySetting switches a device-wide setting from configuration mode.
func (d *Driver) ApplySetting(ctx context.Context, setting domain.Setting, enable bool) error {
	if setting != domain.SettingCommunityNewFormat {
		return domain.NewChannelError(domain.ChannelInteractive, "configure", domain.ErrConfigRejected, fmt.Sprintf("unsupported setting %q", setting), nil)
	}

	command := configCommand{text: "ip bgp-community new-format", mutating: true}
	if !enable {
		command = configCommand{text: "no ip bgp-community new-format", mutating: true, tolerateMissing: true}
	}
	return d.configure(ctx, "", []configCommand{command})
}

func clauseCommand(name string, clause domain.Clause) configCommand {
	return configCommand{text: fmt.Sprintf("route-map %s %s %d", name, clause.Action, clause.Seq), mutating: true}
}

func (d *Driver) DeletePolicyObject(ctx context.Context, name string) error {
	if err := (domain.PolicyObject{Name: name}).Validate(); err != nil {
		return err
	}
	return d.configure(ctx, name, []configCommand{{text: "no route-map " + name, mutating: true, tolerateMissing: true}})
}

type configCommand struct {
	text            string
	mutating        bool
	tolerateMissing bool
}

func (d *Driver) configure(ctx context.Context, name string, commands []configCommand) error {
	total := 0
	for _, command := range commands {
		if command.mutating {
			total++
		}
	}

	if err := d.send(ctx, configCommand{text: "configure terminal"}); err != nil {
		return err
	}

	applied := 0
	for _, command := range commands {
		if err := d.send(ctx, command); err != nil {
			if applied == 0 {
				return d.abort(ctx, err)
			}
			return d.partial(ctx, name, applied, total, command.text, err)
		}
		if command.mutating {
			applied++
		}
	}

	if err := d.send(ctx, configCommand{text: "end"}); err != nil {
		return d.partial(ctx, name, applied, total, "end", err)
	}
	return nil
}

func (d *Driver) send(ctx context.Context, command configCommand) error {
	output, err := d.session.Run(ctx, command.text)
	if err != nil {
		return domain.TransportError(domain.ChannelInteractive, "configure", err)
	}

	diagnostic := deviceError(output, true)
	if diagnostic == "" {
		return nil
	}
	if command.tolerateMissing && isNotFound(diagnostic) {
		d.logger.Debug().Str("command", command.text).Msg("object already absent")
		return nil
	}
	return domain.NewChannelError(domain.ChannelInteractive, "configure", domain.ErrConfigRejected, fmt.Sprintf("%q: %s", command.text, diagnostic), nil)
}

// abort leaves configuration mode after a failure that changed nothing.
func (d *Driver) abort(ctx context.Context, cause error) error {
	recoverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.recoveryTimeout)
	defer cancel()

	if _, err := d.session.Run(recoverCtx, "end"); err != nil {
		d.logger.Debug().Err(err).Msg("leave configuration mode")
	}
	return cause
}

func (d *Driver) partial(ctx context.Context, name string, applied, total int, command string, cause error) error {
	partialErr := &domain.PartialApplyError{
		Channel: domain.ChannelInteractive,
		Object:  name,
		Applied: applied,
		Total:   total,
		Command: command,
		Cause:   cause,
	}
	var channelErr *domain.ChannelError
	if errors.As(cause, &channelErr) {
		partialErr.Diagnostic = channelErr.Diagnostic
	}

	recoverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.recoveryTimeout)
	defer cancel()

	if command != "end" {
		if _, err := d.session.Run(recoverCtx, "end"); err != nil {
			partialErr.ReadErr = domain.TransportError(domain.ChannelInteractive, "end", err)
			return partialErr
		}
	}
	// Settings have no object to re-read.
	if name == "" {
		return partialErr
	}

	object, present, err := d.ReadPolicyObject(recoverCtx, name)
	partialErr.Observed = object
	partialErr.Present = present
	partialErr.ReadErr = err

	d.logger.Warn().
		Str("object", name).
		Int("applied", applied).
		Int("total", total).
		Bool("present", present).
		Msg("partial apply")

	return partialErr
}

// deviceError returns the first line the device used to reject a command.
// Not-found messages count only when notFound is set.
func deviceError(output string, notFound bool) string {
	for _, line := range strings.Split(strings.ReplaceAll(output, "\r", ""), "\n") {
		trimmed := strings.TrimSpace(line)
		for _, marker := range deviceErrorMarkers {
			if strings.HasPrefix(trimmed, marker) {
				return trimmed
			}
		}
		if notFound && strings.HasPrefix(trimmed, "%") && isNotFound(trimmed) {
			return trimmed
		}
	}
	return ""
}
