package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/bnema/ncdrift/internal/ports/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice keeps one object. After a structured delete followed by a
// recreate, the interactive side keeps returning the deleted generation for
// lag reads. hangAt makes the nth interactive read block until cancelled.
type fakeDevice struct {
	mu       sync.Mutex
	object   *domain.PolicyObject
	retired  *domain.PolicyObject
	stale    *domain.PolicyObject
	lag      int
	lagLeft  int
	hangAt   int
	reads    int
	closed   int
	mutateFn func(op string) error
}

func (d *fakeDevice) mutate(op string) error {
	if d.mutateFn != nil {
		return d.mutateFn(op)
	}
	return nil
}

// edit applies a clause-level edit the same way the expectation does.
func (d *fakeDevice) edit(name string, op domain.Operation) {
	current := domain.Expectation{}
	if d.object != nil {
		current = domain.Expectation{Present: true, Object: d.object.Clone()}
	}
	next := op.Apply(name, current)
	if !next.Present {
		d.object = nil
		return
	}
	d.object = &next.Object
}

type fakeStructured struct{ d *fakeDevice }

func (s fakeStructured) Delete(_ context.Context, _ string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.d.mutate("delete"); err != nil {
		return err
	}
	if s.d.object != nil && s.d.lag > 0 {
		retired := s.d.object.Clone()
		s.d.retired = &retired
	}
	s.d.object = nil
	return nil
}

func (s fakeStructured) CreateOrReplace(_ context.Context, name string, clauses []domain.Clause) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.d.mutate("replace"); err != nil {
		return err
	}
	if s.d.object == nil && s.d.retired != nil {
		s.d.stale = s.d.retired
		s.d.lagLeft = s.d.lag
		s.d.retired = nil
	}
	object := domain.NewPolicyObject(name, clauses)
	s.d.object = &object
	return nil
}

func (s fakeStructured) Merge(_ context.Context, name string, clauses []domain.Clause) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.d.mutate("merge"); err != nil {
		return err
	}
	s.d.edit(name, domain.Operation{Kind: domain.OperationMerge, Clauses: clauses})
	return nil
}

func (s fakeStructured) Remove(_ context.Context, name string, clauses []domain.Clause) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.d.mutate("remove"); err != nil {
		return err
	}
	s.d.edit(name, domain.Operation{Kind: domain.OperationRemove, Clauses: clauses})
	return nil
}

func (s fakeStructured) ApplySetting(context.Context, domain.Setting, bool) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return s.d.mutate("setting")
}

func (s fakeStructured) Read(_ context.Context, _ string) (domain.PolicyObject, bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if s.d.object == nil {
		return domain.PolicyObject{}, false, nil
	}
	return s.d.object.Clone(), true, nil
}

type fakeInteractive struct{ d *fakeDevice }

func (i fakeInteractive) Run(context.Context, string) (string, error) {
	return "", nil
}

func (i fakeInteractive) ReadPolicyObject(ctx context.Context, _ string) (domain.PolicyObject, bool, error) {
	i.d.mu.Lock()
	i.d.reads++
	if i.d.hangAt > 0 && i.d.reads == i.d.hangAt {
		i.d.mu.Unlock()
		<-ctx.Done()
		return domain.PolicyObject{}, false, domain.TransportError(domain.ChannelInteractive, "show", ctx.Err())
	}
	defer i.d.mu.Unlock()

	if i.d.stale != nil && i.d.lagLeft > 0 {
		i.d.lagLeft--
		stale := i.d.stale.Clone()
		if i.d.lagLeft == 0 {
			i.d.stale = nil
		}
		return stale, true, nil
	}
	if i.d.object == nil {
		return domain.PolicyObject{}, false, nil
	}
	return i.d.object.Clone(), true, nil
}

func (i fakeInteractive) ConfigureClauses(_ context.Context, name string, clauses []domain.Clause) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()

	object := domain.NewPolicyObject(name, clauses)
	i.d.object = &object
	return nil
}

func (i fakeInteractive) MergeClauses(_ context.Context, name string, clauses []domain.Clause) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()

	i.d.edit(name, domain.Operation{Kind: domain.OperationMerge, Clauses: clauses})
	return nil
}

func (i fakeInteractive) RemoveClauses(_ context.Context, name string, clauses []domain.Clause) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()

	i.d.edit(name, domain.Operation{Kind: domain.OperationRemove, Clauses: clauses})
	return nil
}

func (i fakeInteractive) ApplySetting(context.Context, domain.Setting, bool) error {
	return nil
}

func (i fakeInteractive) DeletePolicyObject(context.Context, string) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()

	i.d.object = nil
	return nil
}

type fakeSession struct{ d *fakeDevice }

func (s fakeSession) Device() string                       { return "fake-device" }
func (s fakeSession) Structured() ports.StructuredDriver   { return fakeStructured(s) }
func (s fakeSession) Interactive() ports.InteractiveDriver { return fakeInteractive(s) }

func (s fakeSession) Close() error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	s.d.closed += 2
	return nil
}

type fakeConnector struct{ d *fakeDevice }

func (c fakeConnector) Open(context.Context) (ports.DeviceSession, error) {
	return fakeSession(c), nil
}

func literalScenario() domain.Scenario {
	return domain.Scenario{
		Name:   "delete-recreate",
		Object: "TEST",
		Steps: []domain.ScenarioStep{
			{
				Name: "create",
				Operations: []domain.Operation{{
					Channel: domain.ChannelStructured,
					Kind:    domain.OperationReplace,
					Clauses: []domain.Clause{{Seq: 10, Action: domain.ActionPermit, Rules: []string{"match X"}}},
				}},
			},
			{
				Name: "delete-recreate",
				Operations: []domain.Operation{
					{Channel: domain.ChannelStructured, Kind: domain.OperationDelete},
					{
						Channel: domain.ChannelStructured,
						Kind:    domain.OperationReplace,
						Clauses: []domain.Clause{{Seq: 10, Action: domain.ActionDeny, Rules: []string{"match Y"}}},
					},
				},
			},
		},
		ConvergenceRetries: 3,
		Cleanup:            true,
	}
}

func TestRunnerReproducesDivergenceThenConverges(t *testing.T) {
	device := &fakeDevice{lag: 1}
	var streamed []domain.DivergenceRecord
	runner := NewRunner(fakeConnector{d: device}, fixedClock{now: testNow}, RunnerConfig{
		OnRecord: func(record domain.DivergenceRecord) { streamed = append(streamed, record) },
	}, zerolog.Nop())

	report, err := runner.Run(context.Background(), literalScenario())
	require.NoError(t, err)

	assert.Equal(t, domain.RunStateComplete, report.State)
	assert.True(t, report.BugReproduced)
	assert.Nil(t, report.Failure)
	assert.Equal(t, "fake-device", report.Device)
	assert.NotEmpty(t, report.ID)
	require.Len(t, report.Timeline, 4)
	assert.Equal(t, report.Timeline, streamed)

	baseline := report.Timeline[0]
	assert.Equal(t, 0, baseline.Step.Index)
	assert.True(t, baseline.Consistent)
	assert.False(t, baseline.Left.Present)

	created := report.Timeline[1]
	assert.Equal(t, 1, created.Step.Index)
	assert.True(t, created.Consistent)

	diverged := report.Timeline[2]
	assert.Equal(t, 2, diverged.Step.Index)
	assert.Equal(t, 1, diverged.Step.Attempt)
	assert.False(t, diverged.Consistent)
	require.Len(t, diverged.Diff.Changed, 1)
	assert.Equal(t, domain.ActionDeny, diverged.Diff.Changed[0].Left.Action)
	assert.Equal(t, domain.ActionPermit, diverged.Diff.Changed[0].Right.Action)
	assert.Equal(t, []string{"match X"}, diverged.Right.Object.Clauses[0].Rules)
	assert.True(t, diverged.Expected.Present)
	assert.Equal(t, domain.ActionDeny, diverged.Expected.Object.Clauses[0].Action)

	converged := report.Timeline[3]
	assert.Equal(t, 2, converged.Step.Index)
	assert.Equal(t, 2, converged.Step.Attempt)
	assert.True(t, converged.Consistent)
	assert.Greater(t, converged.Left.Cycle, diverged.Left.Cycle)

	assert.Nil(t, device.object, "cleanup removes the object")
	assert.Equal(t, 2, device.closed)
}

func TestRunnerStopsAfterConvergenceRetries(t *testing.T) {
	device := &fakeDevice{lag: 10}
	scenario := literalScenario()
	scenario.ConvergenceRetries = 2
	runner := NewRunner(fakeConnector{d: device}, fixedClock{now: testNow}, RunnerConfig{}, zerolog.Nop())

	report, err := runner.Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.Equal(t, domain.RunStateComplete, report.State)
	assert.True(t, report.BugReproduced)
	require.Len(t, report.Timeline, 5)
	assert.Equal(t, 3, report.InconsistentRecords())
}

func TestRunnerInteractiveTimeoutFailsStep(t *testing.T) {
	device := &fakeDevice{lag: 1, hangAt: 3}
	runner := NewRunner(fakeConnector{d: device}, fixedClock{now: testNow}, RunnerConfig{ObserveTimeout: 20 * time.Millisecond}, zerolog.Nop())

	report, err := runner.Run(context.Background(), literalScenario())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrChannelTimeout)

	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 2, stepErr.Index)
	assert.Equal(t, domain.ChannelInteractive, stepErr.Channel)

	assert.Equal(t, domain.RunStateFailed, report.State)
	require.NotNil(t, report.Failure)
	assert.Equal(t, 2, report.Failure.StepIndex)
	assert.Equal(t, "delete-recreate", report.Failure.StepName)
	assert.Equal(t, "ChannelTimeout", report.Failure.Kind)
	assert.Len(t, report.Timeline, 2)

	assert.Equal(t, 2, device.closed, "both sessions closed")
	assert.Nil(t, device.object, "cleanup still runs on failure")
}

func TestRunnerCommitErrorFailsStep(t *testing.T) {
	device := &fakeDevice{}
	device.mutateFn = func(op string) error {
		if op == "replace" {
			return domain.NewChannelError(domain.ChannelStructured, "commit", domain.ErrCommit, "operation-failed: commit failed", nil)
		}
		return nil
	}
	runner := NewRunner(fakeConnector{d: device}, fixedClock{now: testNow}, RunnerConfig{StepRetries: 3}, zerolog.Nop())

	report, err := runner.Run(context.Background(), literalScenario())
	require.ErrorIs(t, err, domain.ErrCommit)
	assert.Equal(t, domain.RunStateFailed, report.State)
	assert.Equal(t, 1, report.Failure.StepIndex)
	assert.Equal(t, domain.ChannelStructured, report.Failure.Channel)
	assert.Equal(t, "CommitError", report.Failure.Kind)
}

func TestRunnerRetriesStructuredTransportErrors(t *testing.T) {
	device := &fakeDevice{}
	failures := 2
	device.mutateFn = func(op string) error {
		if op == "replace" && failures > 0 {
			failures--
			return domain.TransportError(domain.ChannelStructured, "edit-config", errors.New("connection reset by peer"))
		}
		return nil
	}
	runner := NewRunner(fakeConnector{d: device}, fixedClock{now: testNow}, RunnerConfig{StepRetries: 2}, zerolog.Nop())

	report, err := runner.Run(context.Background(), literalScenario())
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateComplete, report.State)
	assert.Equal(t, 0, failures)
}

func TestRunnerConnectionFailure(t *testing.T) {
	connector := mocks.NewMockDeviceConnector(t)
	connector.EXPECT().Open(mockAnyContext()).
		Return(nil, domain.NewChannelError(domain.ChannelStructured, "open", domain.ErrConnection, "", errors.New("connection refused"))).Once()

	runner := NewRunner(connector, fixedClock{now: testNow}, RunnerConfig{}, zerolog.Nop())
	report, err := runner.Run(context.Background(), literalScenario())

	require.ErrorIs(t, err, domain.ErrConnection)
	assert.Equal(t, domain.RunStateFailed, report.State)
	assert.Equal(t, "ConnectionError", report.Failure.Kind)
	assert.Empty(t, report.Timeline)
}

func TestRunnerRejectsInvalidScenario(t *testing.T) {
	runner := NewRunner(mocks.NewMockDeviceConnector(t), fixedClock{now: testNow}, RunnerConfig{}, zerolog.Nop())

	scenario := literalScenario()
	scenario.Steps = nil
	report, err := runner.Run(context.Background(), scenario)

	require.ErrorIs(t, err, domain.ErrInvalidScenario)
	assert.Equal(t, domain.RunStateFailed, report.State)
}

func TestRunnerTeardownErrorsAreReported(t *testing.T) {
	session, structured, interactive := newMockSession(t)
	session.EXPECT().Device().Return("csr1").Once()
	structured.EXPECT().Delete(mockAnyContext(), "TEST").Return(nil).Once()
	structured.EXPECT().Read(mockAnyContext(), "TEST").Return(domain.PolicyObject{}, false, nil).Once()
	interactive.EXPECT().ReadPolicyObject(mockAnyContext(), "TEST").Return(domain.PolicyObject{}, false, nil).Once()
	structured.EXPECT().Delete(mockAnyContext(), "TEST").Return(errors.New("lock-denied")).Once()
	session.EXPECT().Close().Return(errors.New("close interactive session: EOF")).Once()

	connector := mocks.NewMockDeviceConnector(t)
	connector.EXPECT().Open(mockAnyContext()).Return(session, nil).Once()

	scenario := domain.Scenario{
		Name:    "observe-only",
		Object:  "TEST",
		Steps:   []domain.ScenarioStep{{Name: "look"}},
		Cleanup: true,
	}
	interactive.EXPECT().ReadPolicyObject(mockAnyContext(), "TEST").Return(domain.PolicyObject{}, false, nil).Once()
	structured.EXPECT().Read(mockAnyContext(), "TEST").Return(domain.PolicyObject{}, false, nil).Once()

	report, err := NewRunner(connector, fixedClock{now: testNow}, RunnerConfig{}, zerolog.Nop()).Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateComplete, report.State)
	assert.False(t, report.BugReproduced)
	require.Len(t, report.TeardownErrors, 2)
	assert.Contains(t, report.TeardownErrors[0], "cleanup TEST")
}

func TestRunnerDispatchesClauseEditsAndSettings(t *testing.T) {
	session, structured, interactive := newMockSession(t)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(testNow)

	add := []domain.Clause{{Seq: 10, Action: domain.ActionPermit, Rules: []string{"set community 655370"}}}
	drop := []domain.Clause{{Seq: 10, Action: domain.ActionPermit, Rules: []string{"set community 10:10"}}}

	session.EXPECT().Device().Return("csr1").Once()
	structured.EXPECT().Delete(mockAnyContext(), "TEST").Return(nil).Once()
	structured.EXPECT().ApplySetting(mockAnyContext(), domain.SettingCommunityNewFormat, true).Return(nil).Once()
	structured.EXPECT().Merge(mockAnyContext(), "TEST", add).Return(nil).Once()
	structured.EXPECT().Remove(mockAnyContext(), "TEST", drop).Return(nil).Once()
	interactive.EXPECT().ApplySetting(mockAnyContext(), domain.SettingCommunityNewFormat, false).Return(nil).Once()
	interactive.EXPECT().MergeClauses(mockAnyContext(), "TEST", add).Return(nil).Once()
	interactive.EXPECT().RemoveClauses(mockAnyContext(), "TEST", drop).Return(nil).Once()
	structured.EXPECT().Read(mockAnyContext(), "TEST").Return(domain.PolicyObject{}, false, nil).Times(3)
	interactive.EXPECT().ReadPolicyObject(mockAnyContext(), "TEST").Return(domain.PolicyObject{}, false, nil).Times(3)
	session.EXPECT().Close().Return(nil).Once()

	connector := mocks.NewMockDeviceConnector(t)
	connector.EXPECT().Open(mockAnyContext()).Return(session, nil).Once()

	scenario := domain.Scenario{
		Name:   "edits",
		Object: "TEST",
		Steps: []domain.ScenarioStep{
			{
				Name: "structured",
				Operations: []domain.Operation{
					{Channel: domain.ChannelStructured, Kind: domain.OperationSetting, Setting: domain.SettingCommunityNewFormat, Enable: true},
					{Channel: domain.ChannelStructured, Kind: domain.OperationMerge, Clauses: add},
					{Channel: domain.ChannelStructured, Kind: domain.OperationRemove, Clauses: drop},
				},
			},
			{
				Name: "interactive",
				Operations: []domain.Operation{
					{Channel: domain.ChannelInteractive, Kind: domain.OperationSetting, Setting: domain.SettingCommunityNewFormat},
					{Channel: domain.ChannelInteractive, Kind: domain.OperationMerge, Clauses: add},
					{Channel: domain.ChannelInteractive, Kind: domain.OperationRemove, Clauses: drop},
				},
			},
		},
	}

	report, err := NewRunner(connector, clock, RunnerConfig{}, zerolog.Nop()).Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateComplete, report.State)
	assert.Equal(t, testNow, report.StartedAt)
	assert.Equal(t, testNow, report.FinishedAt)
	require.Len(t, report.Timeline, 3)
	assert.Equal(t, "structured:setting[bgp-community-new-format=on] -> structured:merge[permit 10 set community 655370] -> structured:remove[permit 10 set community 10:10]", report.Timeline[1].Step.Operation)
	assert.True(t, report.Timeline[2].Expected.Present, "remove of an absent rule keeps the merged clause")
}
