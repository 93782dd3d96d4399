package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

const (
	defaultMutationTimeout = 60 * time.Second
	defaultTeardownTimeout = 30 * time.Second

	baselineStep = "baseline"
)

var errInconsistent = errors.New("channels disagree")

type RunnerConfig struct {
	ObserveTimeout  time.Duration
	MutationTimeout time.Duration
	TeardownTimeout time.Duration
	// StepRetries re-issues a structured mutation that failed on the
	// transport. Interactive sequences and device rejections are never retried.
	StepRetries   int
	RetryInterval time.Duration
	// OnRecord is called for each record as it is appended to the timeline.
	OnRecord func(domain.DivergenceRecord)
}

// Runner drives a scenario against one device: baseline, each step with its
// convergence cycles, then teardown.
type Runner struct {
	connector ports.DeviceConnector
	engine    *Engine
	clock     ports.Clock
	cfg       RunnerConfig
	logger    zerolog.Logger
}

func NewRunner(connector ports.DeviceConnector, clock ports.Clock, cfg RunnerConfig, logger zerolog.Logger) *Runner {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.MutationTimeout <= 0 {
		cfg.MutationTimeout = defaultMutationTimeout
	}
	if cfg.TeardownTimeout <= 0 {
		cfg.TeardownTimeout = defaultTeardownTimeout
	}
	if cfg.StepRetries < 0 {
		cfg.StepRetries = 0
	}

	return &Runner{
		connector: connector,
		engine:    NewEngine(clock, EngineOptions{ObserveTimeout: cfg.ObserveTimeout}, logger),
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// run holds the state of one execution. It is never shared between runs.
type run struct {
	*Runner
	scenario domain.Scenario
	session  ports.DeviceSession
	report   domain.Report
	expected domain.Expectation
	logger   zerolog.Logger
}

// Run executes the scenario and always returns a report. The error is a
// *domain.StepError when the run ended in Failed.
func (r *Runner) Run(ctx context.Context, scenario domain.Scenario) (domain.Report, error) {
	id := domain.NewRunID()
	x := &run{
		Runner:   r,
		scenario: scenario,
		report: domain.Report{
			ID:        id,
			Scenario:  scenario.Name,
			Object:    scenario.Object,
			State:     domain.RunStateIdle,
			StartedAt: r.clock.Now(),
		},
		logger: r.logger.With().Str("run", string(id)).Str("scenario", scenario.Name).Logger(),
	}

	if err := scenario.Validate(); err != nil {
		return x.fail(&domain.StepError{Name: "validate", Err: err})
	}

	session, err := r.connector.Open(ctx)
	if err != nil {
		return x.fail(&domain.StepError{Name: "connect", Channel: domain.ErrorChannel(err), Err: err})
	}
	x.session = session
	x.report.Device = session.Device()

	stepErr := x.execute(ctx)
	x.teardown(ctx)

	if stepErr != nil {
		return x.fail(stepErr)
	}
	x.transition(domain.RunStateComplete)
	return x.finish(), nil
}

func (x *run) execute(ctx context.Context) *domain.StepError {
	x.transition(domain.RunStateBaseline)
	baseline := domain.StepRef{Index: 0, Name: baselineStep, Operation: "structured:delete"}
	if err := x.mutate(ctx, domain.Operation{Channel: domain.ChannelStructured, Kind: domain.OperationDelete}); err != nil {
		return stepError(baseline, err)
	}
	x.expected = domain.Expectation{}
	if err := x.observe(ctx, baseline, nil); err != nil {
		return stepError(baseline, err)
	}

	for i, step := range x.scenario.Steps {
		x.transition(domain.RunStateRunning)
		ref := domain.StepRef{Index: i + 1, Name: step.Name, Operation: step.Describe()}
		x.logger.Info().Int("step", ref.Index).Str("name", step.Name).Str("operation", ref.Operation).Msg("step started")

		for _, op := range step.Operations {
			if err := x.mutate(ctx, op); err != nil {
				return stepError(ref, err)
			}
			x.expected = op.Apply(x.scenario.Object, x.expected)
		}

		if err := x.observe(ctx, ref, step.ObservedChannels()); err != nil {
			return stepError(ref, err)
		}
	}

	return nil
}

// mutate applies one operation under the mutation timeout.
func (x *run) mutate(ctx context.Context, op domain.Operation) error {
	name := x.scenario.Object
	apply := func(ctx context.Context) error {
		mutateCtx, cancel := context.WithTimeout(ctx, x.cfg.MutationTimeout)
		defer cancel()

		if op.Channel == domain.ChannelStructured {
			structured := x.session.Structured()
			switch op.Kind {
			case domain.OperationDelete:
				return structured.Delete(mutateCtx, name)
			case domain.OperationMerge:
				return structured.Merge(mutateCtx, name, op.Clauses)
			case domain.OperationRemove:
				return structured.Remove(mutateCtx, name, op.Clauses)
			case domain.OperationSetting:
				return structured.ApplySetting(mutateCtx, op.Setting, op.Enable)
			default:
				return structured.CreateOrReplace(mutateCtx, name, op.Clauses)
			}
		}

		interactive := x.session.Interactive()
		switch op.Kind {
		case domain.OperationDelete:
			return interactive.DeletePolicyObject(mutateCtx, name)
		case domain.OperationMerge:
			return interactive.MergeClauses(mutateCtx, name, op.Clauses)
		case domain.OperationRemove:
			return interactive.RemoveClauses(mutateCtx, name, op.Clauses)
		case domain.OperationSetting:
			return interactive.ApplySetting(mutateCtx, op.Setting, op.Enable)
		default:
			return interactive.ConfigureClauses(mutateCtx, name, op.Clauses)
		}
	}

	if op.Channel != domain.ChannelStructured || x.cfg.StepRetries == 0 {
		return apply(ctx)
	}

	backoff := retry.WithMaxRetries(uint64(x.cfg.StepRetries), constantBackoff(x.cfg.RetryInterval))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := apply(ctx)
		if retryableTransport(err) {
			x.logger.Warn().Err(err).Str("operation", op.String()).Msg("retrying structured mutation")
			return retry.RetryableError(err)
		}
		return err
	})
}

// observe records one cycle, then keeps re-observing while the channels
// disagree and convergence retries remain. Every cycle lands in the timeline.
func (x *run) observe(ctx context.Context, step domain.StepRef, channels []domain.Channel) error {
	if channels == nil {
		channels = []domain.Channel{domain.ChannelStructured, domain.ChannelInteractive}
	}

	backoff := retry.WithMaxRetries(uint64(x.scenario.ConvergenceRetries), constantBackoff(x.scenario.ObservationInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		step.Attempt++
		record, err := x.engine.Observe(ctx, x.session, x.scenario.Object, step, x.expected, channels)
		if err != nil {
			return err
		}
		x.append(record)
		if !record.Consistent {
			return retry.RetryableError(errInconsistent)
		}
		return nil
	})
	if errors.Is(err, errInconsistent) {
		x.logger.Warn().Int("step", step.Index).Int("cycles", step.Attempt).Msg("channels did not converge")
		return nil
	}
	return err
}

func (x *run) append(record domain.DivergenceRecord) {
	x.report.Timeline = append(x.report.Timeline, record)

	event := x.logger.Info()
	if !record.Consistent {
		event = x.logger.Warn()
	}
	event.Int("step", record.Step.Index).
		Int("attempt", record.Step.Attempt).
		Int("cycle", record.Left.Cycle).
		Bool("consistent", record.Consistent).
		Msg("record appended")

	if x.cfg.OnRecord != nil {
		x.cfg.OnRecord(record)
	}
}

// teardown runs on every path once the session is open. Cleanup uses a
// context detached from the caller so an aborted run still removes the object.
func (x *run) teardown(ctx context.Context) {
	teardownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), x.cfg.TeardownTimeout)
	defer cancel()

	if x.scenario.Cleanup {
		if err := x.session.Structured().Delete(teardownCtx, x.scenario.Object); err != nil {
			x.report.TeardownErrors = append(x.report.TeardownErrors, fmt.Sprintf("cleanup %s: %v", x.scenario.Object, err))
			x.logger.Warn().Err(err).Msg("teardown cleanup failed")
		}
	}

	if err := x.session.Close(); err != nil {
		x.report.TeardownErrors = append(x.report.TeardownErrors, err.Error())
		x.logger.Warn().Err(err).Msg("close session pair")
	}
}

func (x *run) transition(to domain.RunState) {
	next, err := domain.Transition(x.report.State, to)
	if err != nil {
		x.logger.Error().Err(err).Msg("run state")
		return
	}
	if next != x.report.State {
		x.logger.Debug().Str("from", string(x.report.State)).Str("to", string(next)).Msg("run state")
	}
	x.report.State = next
}

func (x *run) fail(stepErr *domain.StepError) (domain.Report, error) {
	x.transition(domain.RunStateFailed)
	x.report.Failure = &domain.Failure{
		StepIndex: stepErr.Index,
		StepName:  stepErr.Name,
		Channel:   stepErr.Channel,
		Kind:      domain.ErrorKind(stepErr.Err),
		Message:   stepErr.Err.Error(),
	}
	x.logger.Error().
		Err(stepErr.Err).
		Int("step", stepErr.Index).
		Str("channel", string(stepErr.Channel)).
		Str("kind", x.report.Failure.Kind).
		Msg("run failed")

	return x.finish(), stepErr
}

func (x *run) finish() domain.Report {
	x.report.Summarize()
	x.report.FinishedAt = x.clock.Now()
	return x.report
}

func stepError(step domain.StepRef, err error) *domain.StepError {
	return &domain.StepError{
		Index:   step.Index,
		Name:    step.Name,
		Channel: domain.ErrorChannel(err),
		Err:     err,
	}
}

func retryableTransport(err error) bool {
	if err == nil {
		return false
	}
	var channelErr *domain.ChannelError
	if !errors.As(err, &channelErr) {
		return false
	}
	return errors.Is(channelErr.Kind, domain.ErrChannel) || errors.Is(channelErr.Kind, domain.ErrChannelTimeout)
}

func constantBackoff(interval time.Duration) retry.Backoff {
	if interval < 0 {
		interval = 0
	}
	return retry.BackoffFunc(func() (time.Duration, bool) {
		return interval, false
	})
}
