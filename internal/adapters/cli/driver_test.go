package cli

import (
	"context"
	"testing"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const invalidInput = " match ip adress ACL-Y\n            ^\n% Invalid input detected at '^' marker."

func mockAnyContext() interface{} {
	return mock.Anything
}

func newTestDriver(t *testing.T) (*Driver, *mocks.MockLineSession) {
	t.Helper()

	session := mocks.NewMockLineSession(t)
	return NewDriver(session, RunningConfigParser{}, DriverOptions{}, zerolog.Nop()), session
}

func TestDriverConfigureClausesSendsLineEquivalents(t *testing.T) {
	driver, session := newTestDriver(t)

	mock.InOrder(
		session.EXPECT().Run(mockAnyContext(), "configure terminal").Return("Enter configuration commands, one per line.", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "no route-map TEST").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "route-map TEST permit 10").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "match ip address ACL-X").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "exit").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "route-map TEST deny 20").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "exit").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "end").Return("", nil).Once(),
	)

	err := driver.ConfigureClauses(context.Background(), "TEST", []domain.Clause{
		{Seq: 20, Action: domain.ActionDeny},
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"match  ip address ACL-X"}},
	})
	require.NoError(t, err)
}

func TestDriverConfigureClausesPartialApplyRereads(t *testing.T) {
	driver, session := newTestDriver(t)

	mock.InOrder(
		session.EXPECT().Run(mockAnyContext(), "configure terminal").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "no route-map TEST").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "route-map TEST deny 10").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "match ip adress ACL-Y").Return(invalidInput, nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "end").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "show running-config | section route-map TEST").Return("route-map TEST deny 10\n", nil).Once(),
	)

	err := driver.ConfigureClauses(context.Background(), "TEST", []domain.Clause{
		{Seq: 10, Action: domain.ActionDeny, Rules: []string{"match ip adress ACL-Y"}},
	})
	require.ErrorIs(t, err, domain.ErrPartialApply)
	require.ErrorIs(t, err, domain.ErrConfigRejected)

	var partialErr *domain.PartialApplyError
	require.ErrorAs(t, err, &partialErr)
	assert.Equal(t, 2, partialErr.Applied)
	assert.Equal(t, 3, partialErr.Total)
	assert.Equal(t, "match ip adress ACL-Y", partialErr.Command)
	assert.Contains(t, partialErr.Diagnostic, "% Invalid input detected")
	require.NoError(t, partialErr.ReadErr)
	assert.True(t, partialErr.Present)
	assert.Equal(t, []domain.Clause{{Seq: 10, Action: domain.ActionDeny}}, partialErr.Observed.Clauses)
}

func TestDriverConfigureClausesFailureBeforeAnyChange(t *testing.T) {
	driver, session := newTestDriver(t)

	session.EXPECT().Run(mockAnyContext(), "configure terminal").Return("", nil).Once()
	session.EXPECT().Run(mockAnyContext(), "no route-map TEST").Return("", context.DeadlineExceeded).Once()
	session.EXPECT().Run(mockAnyContext(), "end").Return("", nil).Once()

	err := driver.ConfigureClauses(context.Background(), "TEST", []domain.Clause{{Seq: 10, Action: domain.ActionPermit}})
	require.ErrorIs(t, err, domain.ErrChannelTimeout)
	assert.NotErrorIs(t, err, domain.ErrPartialApply)
}

func TestDriverConfigureClausesRejectsInvalidObject(t *testing.T) {
	driver, _ := newTestDriver(t)

	err := driver.ConfigureClauses(context.Background(), "TEST", []domain.Clause{{Seq: 10, Action: "drop"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPolicy)
}

func TestDriverDeletePolicyObjectToleratesNotFound(t *testing.T) {
	driver, session := newTestDriver(t)

	mock.InOrder(
		session.EXPECT().Run(mockAnyContext(), "configure terminal").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "no route-map TEST").Return("%Policy map TEST not found", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "end").Return("", nil).Once(),
	)

	require.NoError(t, driver.DeletePolicyObject(context.Background(), "TEST"))
}

func TestDriverReadPolicyObject(t *testing.T) {
	driver, session := newTestDriver(t)

	session.EXPECT().Run(mockAnyContext(), "show running-config | section route-map TEST").
		Return("route-map TEST permit 20\n set local-preference 50\nroute-map TEST deny 10\n match ip address ACL-Y\n", nil).Once()

	object, present, err := driver.ReadPolicyObject(context.Background(), "TEST")
	require.NoError(t, err)
	require.True(t, present)
	require.Len(t, object.Clauses, 2)
	assert.Equal(t, 10, object.Clauses[0].Seq)
	assert.Equal(t, domain.ActionDeny, object.Clauses[0].Action)
	assert.Equal(t, 20, object.Clauses[1].Seq)
}

func TestDriverReadPolicyObjectErrors(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		wantErr error
	}{
		{name: "timeout", err: context.DeadlineExceeded, wantErr: domain.ErrChannelTimeout},
		{name: "rejected show", output: "% Invalid input detected at '^' marker.", wantErr: domain.ErrChannel},
		{name: "malformed", output: " set local-preference 50\n", wantErr: domain.ErrMalformedOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, session := newTestDriver(t)
			session.EXPECT().Run(mockAnyContext(), "show running-config | section route-map TEST").Return(tt.output, tt.err).Once()

			_, _, err := driver.ReadPolicyObject(context.Background(), "TEST")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.ChannelInteractive, domain.ErrorChannel(err))
		})
	}
}

func TestDriverRunWrapsTransportErrors(t *testing.T) {
	driver, session := newTestDriver(t)
	session.EXPECT().Run(mockAnyContext(), "show clock").Return("*10:00:00.000 UTC Mon Oct 19 2026", nil).Once()
	session.EXPECT().Run(mockAnyContext(), "show users").Return("", context.DeadlineExceeded).Once()

	output, err := driver.Run(context.Background(), "show clock")
	require.NoError(t, err)
	assert.Contains(t, output, "UTC")

	_, err = driver.Run(context.Background(), "show users")
	assert.ErrorIs(t, err, domain.ErrChannelTimeout)
}

func TestDriverMergeClausesKeepsExistingObject(t *testing.T) {
	driver, session := newTestDriver(t)

	mock.InOrder(
		session.EXPECT().Run(mockAnyContext(), "configure terminal").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "route-map TEST permit 10").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "set community 10:10").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "exit").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "end").Return("", nil).Once(),
	)

	err := driver.MergeClauses(context.Background(), "TEST", []domain.Clause{
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"set community 10:10"}},
	})
	require.NoError(t, err)
	session.AssertNotCalled(t, "Run", mock.Anything, "no route-map TEST")
}

func TestDriverRemoveClausesNegatesRulesAndClauses(t *testing.T) {
	driver, session := newTestDriver(t)

	mock.InOrder(
		session.EXPECT().Run(mockAnyContext(), "configure terminal").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "route-map TEST permit 10").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "no set community 10:10").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "exit").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "no route-map TEST deny 20").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "end").Return("", nil).Once(),
	)

	err := driver.RemoveClauses(context.Background(), "TEST", []domain.Clause{
		{Seq: 20, Action: domain.ActionDeny},
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"set community 10:10"}},
	})
	require.NoError(t, err)
}

func TestDriverApplySetting(t *testing.T) {
	tests := []struct {
		name    string
		enable  bool
		command string
	}{
		{name: "enable", enable: true, command: "ip bgp-community new-format"},
		{name: "disable", enable: false, command: "no ip bgp-community new-format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, session := newTestDriver(t)

			mock.InOrder(
				session.EXPECT().Run(mockAnyContext(), "configure terminal").Return("", nil).Once(),
				session.EXPECT().Run(mockAnyContext(), tt.command).Return("", nil).Once(),
				session.EXPECT().Run(mockAnyContext(), "end").Return("", nil).Once(),
			)

			require.NoError(t, driver.ApplySetting(context.Background(), domain.SettingCommunityNewFormat, tt.enable))
		})
	}
}

func TestDriverApplySettingRejectedLeavesConfigMode(t *testing.T) {
	driver, session := newTestDriver(t)

	mock.InOrder(
		session.EXPECT().Run(mockAnyContext(), "configure terminal").Return("", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "ip bgp-community new-format").Return("% Invalid input detected at '^' marker.", nil).Once(),
		session.EXPECT().Run(mockAnyContext(), "end").Return("", nil).Once(),
	)

	err := driver.ApplySetting(context.Background(), domain.SettingCommunityNewFormat, true)
	require.ErrorIs(t, err, domain.ErrConfigRejected)

	err = driver.ApplySetting(context.Background(), domain.Setting("ip-classless"), true)
	require.ErrorIs(t, err, domain.ErrConfigRejected)
}

func TestDriverReadPolicyObjectUsesInjectedParser(t *testing.T) {
	session := mocks.NewMockLineSession(t)
	parser := mocks.NewMockPolicyParser(t)
	driver := NewDriver(session, parser, DriverOptions{}, zerolog.Nop())

	want := domain.NewPolicyObject("TEST", []domain.Clause{{Seq: 10, Action: domain.ActionPermit}})
	parser.EXPECT().Command("TEST").Return("show route-map TEST").Once()
	session.EXPECT().Run(mockAnyContext(), "show route-map TEST").Return("route-map TEST, permit, sequence 10\n", nil).Once()
	parser.EXPECT().Parse("TEST", "route-map TEST, permit, sequence 10\n").Return(want, true, nil).Once()

	object, present, err := driver.ReadPolicyObject(context.Background(), "TEST")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, want, object)
}

func TestDriverReadPolicyObjectWrapsParserErrors(t *testing.T) {
	session := mocks.NewMockLineSession(t)
	parser := mocks.NewMockPolicyParser(t)
	driver := NewDriver(session, parser, DriverOptions{}, zerolog.Nop())

	parser.EXPECT().Command("TEST").Return("show route-map TEST").Once()
	session.EXPECT().Run(mockAnyContext(), "show route-map TEST").Return("garbage", nil).Once()
	parser.EXPECT().Parse("TEST", "garbage").Return(domain.PolicyObject{}, false, domain.ErrMalformedOutput).Once()

	_, _, err := driver.ReadPolicyObject(context.Background(), "TEST")
	require.ErrorIs(t, err, domain.ErrMalformedOutput)
	assert.Equal(t, domain.ChannelInteractive, domain.ErrorChannel(err))
}
