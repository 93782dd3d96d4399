package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultObserveTimeout = 30 * time.Second

type EngineOptions struct {
	// ObserveTimeout bounds each channel read separately.
	ObserveTimeout time.Duration
}

// Engine reads the same object through the requested channels and compares
// the results. Disagreement is returned as data, never as an error.
type Engine struct {
	clock          ports.Clock
	observeTimeout time.Duration
	logger         zerolog.Logger

	mu    sync.Mutex
	cycle int
}

func NewEngine(clock ports.Clock, opts EngineOptions, logger zerolog.Logger) *Engine {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	observeTimeout := opts.ObserveTimeout
	if observeTimeout <= 0 {
		observeTimeout = defaultObserveTimeout
	}

	return &Engine{
		clock:          clock,
		observeTimeout: observeTimeout,
		logger:         logger,
	}
}

// ObserveBoth reads name over both channels concurrently and pairs the
// results. Left is the structured view, right the interactive one.
func (e *Engine) ObserveBoth(ctx context.Context, session ports.DeviceSession, name string, step domain.StepRef, expected domain.Expectation) (domain.DivergenceRecord, error) {
	return e.Observe(ctx, session, name, step, expected, []domain.Channel{domain.ChannelStructured, domain.ChannelInteractive})
}

// Observe reads name over the given channels. With a single channel the
// observation is compared against the expected state instead.
func (e *Engine) Observe(ctx context.Context, session ports.DeviceSession, name string, step domain.StepRef, expected domain.Expectation, channels []domain.Channel) (domain.DivergenceRecord, error) {
	if len(channels) == 0 || len(channels) > 2 {
		return domain.DivergenceRecord{}, fmt.Errorf("%w: observe needs one or two channels, got %d", domain.ErrInvalidScenario, len(channels))
	}

	cycle := e.nextCycle()
	observations := make([]domain.ChannelObservation, len(channels))

	// Each read keeps the caller's context. Abandoning an in-flight read
	// breaks that channel's session.
	var group errgroup.Group
	for i, channel := range channels {
		group.Go(func() error {
			observation, err := e.read(ctx, session, channel, cycle, name)
			if err != nil {
				return err
			}
			observations[i] = observation
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return domain.DivergenceRecord{}, err
	}

	left := observations[0]
	right := expected.Observation(cycle, name, e.clock.Now())
	if len(observations) == 2 {
		right = observations[1]
	}

	record := domain.NewDivergenceRecord(step, expected, left, right, e.clock.Now())
	e.logger.Debug().
		Int("step", step.Index).
		Int("attempt", step.Attempt).
		Int("cycle", cycle).
		Bool("consistent", record.Consistent).
		Msg("observation recorded")

	return record, nil
}

func (e *Engine) read(ctx context.Context, session ports.DeviceSession, channel domain.Channel, cycle int, name string) (domain.ChannelObservation, error) {
	readCtx, cancel := context.WithTimeout(ctx, e.observeTimeout)
	defer cancel()

	var (
		object  domain.PolicyObject
		present bool
		err     error
	)
	switch channel {
	case domain.ChannelStructured:
		object, present, err = session.Structured().Read(readCtx, name)
	case domain.ChannelInteractive:
		object, present, err = session.Interactive().ReadPolicyObject(readCtx, name)
	default:
		return domain.ChannelObservation{}, fmt.Errorf("%w: cannot observe channel %q", domain.ErrInvalidScenario, channel)
	}

	if err != nil {
		if errors.Is(readCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil && !errors.Is(err, domain.ErrChannelTimeout) {
			err = domain.NewChannelError(channel, "observe", domain.ErrChannelTimeout, "", err)
		}
		return domain.ChannelObservation{}, err
	}

	return domain.NewObservation(channel, cycle, name, object, present, e.clock.Now()), nil
}

func (e *Engine) nextCycle() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cycle++
	return e.cycle
}
