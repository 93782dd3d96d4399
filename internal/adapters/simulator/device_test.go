package simulator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bnema/ncdrift/internal/adapters/cli"
	"github.com/bnema/ncdrift/internal/adapters/netconf"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	permitX = []domain.Clause{{Seq: 10, Action: domain.ActionPermit, Rules: []string{"match ip address ACL-X"}}}
	denyY   = []domain.Clause{{Seq: 10, Action: domain.ActionDeny, Rules: []string{"match ip address ACL-Y"}}}
)

func sameObject(left, right domain.PolicyObject) bool {
	return domain.Compare(
		domain.NewObservation(domain.ChannelStructured, 0, left.Name, left, true, time.Time{}),
		domain.NewObservation(domain.ChannelInteractive, 0, right.Name, right, true, time.Time{}),
	).Empty()
}

type drivers struct {
	structured  *netconf.Driver
	interactive *cli.Driver
}

func openDrivers(t *testing.T, device *Device, parser string) drivers {
	t.Helper()

	ctx := context.Background()
	rpc, err := device.DialStructured(ctx)
	require.NoError(t, err)
	line, err := device.DialInteractive(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = rpc.Close()
		_ = line.Close()
	})

	policyParser, err := cli.NewParser(parser)
	require.NoError(t, err)

	return drivers{
		structured:  netconf.NewDriver(rpc, netconf.Options{}, zerolog.Nop()),
		interactive: cli.NewDriver(line, policyParser, cli.DriverOptions{}, zerolog.Nop()),
	}
}

func TestDeviceInteractiveViewLagsAfterDeleteRecreate(t *testing.T) {
	for _, parser := range []string{cli.ParserRunningConfig, cli.ParserShowRouteMap} {
		t.Run(parser, func(t *testing.T) {
			ctx := context.Background()
			device := NewDevice(Options{Candidate: true, StaleReads: 2})
			d := openDrivers(t, device, parser)

			require.NoError(t, d.structured.CreateOrReplace(ctx, "TEST", permitX))
			seen, present, err := d.interactive.ReadPolicyObject(ctx, "TEST")
			require.NoError(t, err)
			require.True(t, present)
			assert.True(t, sameObject(domain.NewPolicyObject("TEST", permitX), seen))

			require.NoError(t, d.structured.Delete(ctx, "TEST"))
			require.NoError(t, d.structured.CreateOrReplace(ctx, "TEST", denyY))

			structured, present, err := d.structured.Read(ctx, "TEST")
			require.NoError(t, err)
			require.True(t, present)
			assert.True(t, sameObject(domain.NewPolicyObject("TEST", denyY), structured))

			for range 2 {
				stale, _, err := d.interactive.ReadPolicyObject(ctx, "TEST")
				require.NoError(t, err)
				assert.Equal(t, domain.ActionPermit, stale.Clauses[0].Action)
			}

			current, _, err := d.interactive.ReadPolicyObject(ctx, "TEST")
			require.NoError(t, err)
			assert.True(t, sameObject(structured, current))
		})
	}
}

func TestDeviceNoLagWithoutStaleReads(t *testing.T) {
	ctx := context.Background()
	device := NewDevice(Options{Candidate: true})
	d := openDrivers(t, device, "")

	require.NoError(t, d.structured.CreateOrReplace(ctx, "TEST", permitX))
	require.NoError(t, d.structured.Delete(ctx, "TEST"))
	require.NoError(t, d.structured.CreateOrReplace(ctx, "TEST", denyY))

	seen, present, err := d.interactive.ReadPolicyObject(ctx, "TEST")
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, domain.ActionDeny, seen.Clauses[0].Action)
}

func TestDeviceInteractiveReadBetweenDeleteAndRecreateClearsLag(t *testing.T) {
	ctx := context.Background()
	device := NewDevice(Options{StaleReads: 3})
	d := openDrivers(t, device, "")

	require.NoError(t, d.structured.CreateOrReplace(ctx, "TEST", permitX))
	require.NoError(t, d.structured.Delete(ctx, "TEST"))

	_, present, err := d.interactive.ReadPolicyObject(ctx, "TEST")
	require.NoError(t, err)
	assert.False(t, present)

	require.NoError(t, d.structured.CreateOrReplace(ctx, "TEST", denyY))
	seen, _, err := d.interactive.ReadPolicyObject(ctx, "TEST")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionDeny, seen.Clauses[0].Action)
}

func TestDeviceInteractiveConfigVisibleToStructured(t *testing.T) {
	ctx := context.Background()
	device := NewDevice(Options{Candidate: true, CommunityNewFormat: true})
	d := openDrivers(t, device, "")

	clauses := []domain.Clause{
		{Seq: 20, Action: domain.ActionDeny, Rules: []string{"match ip address prefix-list PL-DENY"}},
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"match ip address ACL-X", "set local-preference 200", "set community 10:10 no-export"}},
	}
	require.NoError(t, d.interactive.ConfigureClauses(ctx, "TEST", clauses))

	structured, present, err := d.structured.Read(ctx, "TEST")
	require.NoError(t, err)
	require.True(t, present)
	assert.True(t, sameObject(domain.NewPolicyObject("TEST", clauses), structured))

	interactive, _, err := d.interactive.ReadPolicyObject(ctx, "TEST")
	require.NoError(t, err)
	assert.True(t, sameObject(structured, interactive))

	require.NoError(t, d.interactive.DeletePolicyObject(ctx, "TEST"))
	require.NoError(t, d.interactive.DeletePolicyObject(ctx, "TEST"))
	_, present, err = d.structured.Read(ctx, "TEST")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestDeviceInteractivePartialApply(t *testing.T) {
	ctx := context.Background()
	device := NewDevice(Options{})
	d := openDrivers(t, device, "")

	err := d.interactive.ConfigureClauses(ctx, "TEST", []domain.Clause{
		{Seq: 10, Action: domain.ActionDeny, Rules: []string{"match ip adress ACL-Y"}},
	})
	require.ErrorIs(t, err, domain.ErrPartialApply)

	var partialErr *domain.PartialApplyError
	require.ErrorAs(t, err, &partialErr)
	assert.Equal(t, 2, partialErr.Applied)
	assert.True(t, partialErr.Present)

	object, present := device.Running("TEST")
	require.True(t, present)
	assert.Equal(t, []domain.Clause{{Seq: 10, Action: domain.ActionDeny}}, object.Clauses)
}

func TestDeviceHangingShowTimesOut(t *testing.T) {
	device := NewDevice(Options{HangShowAt: 1})
	d := openDrivers(t, device, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := d.interactive.ReadPolicyObject(ctx, "TEST")
	require.ErrorIs(t, err, domain.ErrChannelTimeout)

	_, err = d.interactive.Run(context.Background(), "show version")
	require.ErrorIs(t, err, domain.ErrChannel)

	_, _, err = d.structured.Read(context.Background(), "TEST")
	require.NoError(t, err)
}

func TestDeviceTracksSessions(t *testing.T) {
	ctx := context.Background()
	device := NewDevice(Options{})

	rpc, err := device.DialStructured(ctx)
	require.NoError(t, err)
	line, err := device.DialInteractive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, device.Stats().Open())

	require.NoError(t, rpc.Close())
	require.NoError(t, rpc.Close())
	require.NoError(t, line.Close())

	stats := device.Stats()
	assert.Equal(t, 0, stats.Open())
	assert.Equal(t, 1, stats.StructuredClosed)
	assert.Equal(t, 1, stats.InteractiveClosed)

	_, err = line.Run(ctx, "show version")
	assert.Error(t, err)
	_, err = rpc.Exec(ctx, "<commit/>")
	assert.Error(t, err)
}

func TestLineSessionRejectsUnknownCommands(t *testing.T) {
	device := NewDevice(Options{})
	line, err := device.DialInteractive(context.Background())
	require.NoError(t, err)

	output, err := line.Run(context.Background(), "show ip bgp summary")
	require.NoError(t, err)
	assert.Contains(t, output, "% Invalid input detected")

	output, err = line.Run(context.Background(), "show version")
	require.NoError(t, err)
	assert.Contains(t, output, "Cisco IOS XE Software")
}

func communityRules(t *testing.T, object domain.PolicyObject, present bool, seq int) []string {
	t.Helper()

	if !present {
		return nil
	}
	clause, ok := object.Clause(seq)
	require.True(t, ok)
	var rules []string
	for _, rule := range clause.Rules {
		if strings.HasPrefix(rule, "set community") {
			rules = append(rules, rule)
		}
	}
	return rules
}

func TestDeviceCommunityNewFormatDivergence(t *testing.T) {
	ctx := context.Background()
	device := NewDevice(Options{Candidate: true})
	d := openDrivers(t, device, "")

	read := func() ([]string, []string) {
		structured, present, err := d.structured.Read(ctx, "TEST")
		require.NoError(t, err)
		interactive, linePresent, err := d.interactive.ReadPolicyObject(ctx, "TEST")
		require.NoError(t, err)
		return communityRules(t, structured, present, 10), communityRules(t, interactive, linePresent, 10)
	}
	community := func(value string) []domain.Clause {
		return []domain.Clause{{Seq: 10, Action: domain.ActionPermit, Rules: []string{"set community " + value}}}
	}

	require.NoError(t, d.structured.Merge(ctx, "TEST", community("655370")))
	structured, interactive := read()
	assert.Equal(t, []string{"set community 655370"}, structured)
	assert.Equal(t, []string{"set community 655370"}, interactive)

	require.NoError(t, d.structured.ApplySetting(ctx, domain.SettingCommunityNewFormat, true))
	assert.True(t, device.CommunityNewFormat())
	structured, interactive = read()
	assert.Equal(t, []string{"set community 655370"}, structured)
	assert.Equal(t, []string{"set community 10:10"}, interactive)

	require.NoError(t, d.structured.Merge(ctx, "TEST", community("10:10")))
	structured, interactive = read()
	assert.Equal(t, []string{"set community 655370 10:10"}, structured)
	assert.Equal(t, []string{"set community 10:10"}, interactive)

	require.NoError(t, d.structured.Remove(ctx, "TEST", community("10:10")))
	structured, interactive = read()
	assert.Equal(t, []string{"set community 655370"}, structured)
	assert.Empty(t, interactive)

	require.NoError(t, d.structured.ApplySetting(ctx, domain.SettingCommunityNewFormat, false))
	require.NoError(t, d.structured.ApplySetting(ctx, domain.SettingCommunityNewFormat, false))
	assert.False(t, device.CommunityNewFormat())
}

func TestDeviceStructuredRemoveClauseDeletesEmptyObject(t *testing.T) {
	ctx := context.Background()
	device := NewDevice(Options{})
	d := openDrivers(t, device, "")

	require.NoError(t, d.structured.CreateOrReplace(ctx, "TEST", []domain.Clause{
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"match ip address ACL-X"}},
		{Seq: 20, Action: domain.ActionDeny},
	}))
	require.NoError(t, d.structured.Merge(ctx, "TEST", []domain.Clause{
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"match ip address ACL-Z"}},
	}))

	object, present := device.Running("TEST")
	require.True(t, present)
	require.Len(t, object.Clauses, 2)
	assert.Equal(t, []string{"match ip address ACL-X ACL-Z"}, object.Clauses[0].Rules)

	require.NoError(t, d.structured.Remove(ctx, "TEST", []domain.Clause{{Seq: 20, Action: domain.ActionDeny}}))
	object, _ = device.Running("TEST")
	require.Len(t, object.Clauses, 1)

	require.NoError(t, d.structured.Remove(ctx, "TEST", []domain.Clause{{Seq: 10, Action: domain.ActionPermit}}))
	_, present = device.Running("TEST")
	assert.False(t, present)
}

func TestDeviceInteractiveCommunityEditsUseNumericValues(t *testing.T) {
	ctx := context.Background()
	device := NewDevice(Options{})
	d := openDrivers(t, device, "")

	require.NoError(t, d.interactive.ApplySetting(ctx, domain.SettingCommunityNewFormat, true))
	assert.True(t, device.CommunityNewFormat())

	require.NoError(t, d.interactive.MergeClauses(ctx, "TEST", []domain.Clause{
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"set community 655370 no-export"}},
	}))
	object, present := device.Interactive("TEST")
	require.True(t, present)
	assert.Equal(t, []string{"set community 10:10 no-export"}, object.Clauses[0].Rules)

	require.NoError(t, d.interactive.RemoveClauses(ctx, "TEST", []domain.Clause{
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"set community 655370"}},
	}))
	structured, _, err := d.structured.Read(ctx, "TEST")
	require.NoError(t, err)
	assert.Equal(t, []string{"set community no-export"}, structured.Clauses[0].Rules)

	require.NoError(t, d.interactive.ApplySetting(ctx, domain.SettingCommunityNewFormat, false))
	assert.False(t, device.CommunityNewFormat())

	err = d.interactive.MergeClauses(ctx, "TEST", []domain.Clause{
		{Seq: 10, Action: domain.ActionPermit, Rules: []string{"set community 70000:1"}},
	})
	require.ErrorIs(t, err, domain.ErrPartialApply)
}

func TestCommunityFormatting(t *testing.T) {
	tests := []struct {
		token     string
		value     uint32
		newFormat string
		oldFormat string
	}{
		{token: "655370", value: 655370, newFormat: "10:10", oldFormat: "655370"},
		{token: "10:10", value: 655370, newFormat: "10:10", oldFormat: "655370"},
		{token: "no-export", value: 0xFFFFFF01, newFormat: "no-export", oldFormat: "no-export"},
		{token: "65535:65535", value: 0xFFFFFFFF, newFormat: "65535:65535", oldFormat: "4294967295"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			value, err := parseCommunity(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.newFormat, formatCommunity(value, true))
			assert.Equal(t, tt.oldFormat, formatCommunity(value, false))
		})
	}

	for _, token := range []string{"70000:1", "10:x", "4294967296", "additive"} {
		_, err := parseCommunity(token)
		assert.Error(t, err, token)
	}
}
