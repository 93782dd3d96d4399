package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	_ ports.DeviceConnector = (*Connector)(nil)
	_ ports.DeviceSession   = (*Pair)(nil)
)

type (
	StructuredDialer  func(ctx context.Context) (ports.RPCSession, error)
	InteractiveDialer func(ctx context.Context) (ports.LineSession, error)

	StructuredFactory  func(session ports.RPCSession) ports.StructuredDriver
	InteractiveFactory func(session ports.LineSession) ports.InteractiveDriver
)

// Connector opens both channels to one device. Each dialer carries its own
// credentials.
type Connector struct {
	Device          string
	DialStructured  StructuredDialer
	DialInteractive InteractiveDialer
	NewStructured   StructuredFactory
	NewInteractive  InteractiveFactory
	Logger          zerolog.Logger
}

// Open dials both channels concurrently. If either fails, the one that
// succeeded is closed before returning.
func (c *Connector) Open(ctx context.Context) (ports.DeviceSession, error) {
	var (
		rpc  ports.RPCSession
		line ports.LineSession
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		session, err := c.DialStructured(groupCtx)
		if err != nil {
			return connectionError(domain.ChannelStructured, err)
		}
		rpc = session
		return nil
	})
	group.Go(func() error {
		session, err := c.DialInteractive(groupCtx)
		if err != nil {
			return connectionError(domain.ChannelInteractive, err)
		}
		line = session
		return nil
	})

	if err := group.Wait(); err != nil {
		var closeErrs []error
		if rpc != nil {
			closeErrs = append(closeErrs, rpc.Close())
		}
		if line != nil {
			closeErrs = append(closeErrs, line.Close())
		}
		if closeErr := errors.Join(closeErrs...); closeErr != nil {
			c.Logger.Warn().Err(closeErr).Msg("close half-open session")
		}
		return nil, err
	}

	c.Logger.Debug().Str("device", c.Device).Msg("session pair open")

	return &Pair{
		device:      c.Device,
		rpc:         rpc,
		line:        line,
		structured:  c.NewStructured(rpc),
		interactive: c.NewInteractive(line),
	}, nil
}

func connectionError(channel domain.Channel, err error) error {
	return domain.NewChannelError(channel, "open", domain.ErrConnection, "", err)
}

// Pair owns one structured and one interactive session. The two share
// nothing but the device address.
type Pair struct {
	device      string
	rpc         ports.RPCSession
	line        ports.LineSession
	structured  ports.StructuredDriver
	interactive ports.InteractiveDriver

	closeOnce sync.Once
	closeErr  error
}

func (p *Pair) Device() string {
	return p.device
}

func (p *Pair) Structured() ports.StructuredDriver {
	return p.structured
}

func (p *Pair) Interactive() ports.InteractiveDriver {
	return p.interactive
}

// Close releases both sessions. A failure closing one does not stop the other.
func (p *Pair) Close() error {
	p.closeOnce.Do(func() {
		var errs []error
		if err := p.rpc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s session: %w", domain.ChannelStructured, err))
		}
		if err := p.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s session: %w", domain.ChannelInteractive, err))
		}
		p.closeErr = errors.Join(errs...)
	})
	return p.closeErr
}
