package toml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioFixture = `
version = 1

[device]
address = "csr1.lab"

[device.structured]
username = "admin"
password_ref = "pass://ncdrift/csr1"
known_hosts = "~/.ssh/known_hosts"
datastore = "candidate"

[device.interactive]
port = 2222
username = "admin"
password = "secret"
parser = "show-route-map"
paging_commands = ["terminal length 0"]
command_timeout = "15s"

[scenario]
name = "interactive-edit"
object = "TEST"
convergence_retries = 2
observation_interval = "500ms"
observe_timeout = "10s"
step_retries = 1
retry_interval = "1s"
cleanup = true

[[scenario.steps]]
name = "create"

[[scenario.steps.operations]]
channel = "structured"
kind = "replace"

[[scenario.steps.operations.clauses]]
seq = 10
action = "permit"
rules = ["match ip address ACL-X"]

[[scenario.steps]]
name = "edit"
observe = ["interactive"]

[[scenario.steps.operations]]
channel = "interactive"
kind = "replace"

[[scenario.steps.operations.clauses]]
seq = 20
action = "deny"
rules = ["match ip address ACL-Y", "set local-preference 200"]
`

func TestDecodeScenarioFile(t *testing.T) {
	t.Parallel()

	file, err := DecodeScenarioFile([]byte(scenarioFixture))
	require.NoError(t, err)

	assert.Equal(t, "csr1.lab", file.Device.Address)
	assert.Equal(t, DefaultStructuredPort, file.Device.Structured.Port)
	assert.Equal(t, "candidate", file.Device.Structured.Datastore)
	assert.Equal(t, "pass://ncdrift/csr1", file.Device.Structured.PasswordRef)
	assert.Equal(t, 2222, file.Device.Interactive.Port)
	assert.Equal(t, "show-route-map", file.Device.Interactive.Parser)
	assert.Equal(t, []string{"terminal length 0"}, file.Device.Interactive.PagingCommands)
	assert.Equal(t, 15*time.Second, file.Device.Interactive.CommandTimeout)

	assert.Equal(t, RunSettings{ObserveTimeout: 10 * time.Second, StepRetries: 1, RetryInterval: time.Second}, file.Run)

	scenario := file.Scenario
	assert.Equal(t, "interactive-edit", scenario.Name)
	assert.Equal(t, 2, scenario.ConvergenceRetries)
	assert.Equal(t, 500*time.Millisecond, scenario.ObservationInterval)
	assert.True(t, scenario.Cleanup)
	require.Len(t, scenario.Steps, 2)
	assert.Empty(t, scenario.Steps[0].Observe)
	assert.Equal(t, []domain.Channel{domain.ChannelInteractive}, scenario.Steps[1].Observe)
	assert.Equal(t, domain.Operation{
		Channel: domain.ChannelInteractive,
		Kind:    domain.OperationReplace,
		Clauses: []domain.Clause{{Seq: 20, Action: domain.ActionDeny, Rules: []string{"match ip address ACL-Y", "set local-preference 200"}}},
	}, scenario.Steps[1].Operations[0])
}

func TestDecodeScenarioFileRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := DecodeScenarioFile([]byte(scenarioFixture + "\n[extra]\nfoo = 1\n"))
	require.ErrorIs(t, err, domain.ErrInvalidScenario)
	assert.Contains(t, err.Error(), "extra")
}

func TestDecodeScenarioFileValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing address",
			content: "[scenario]\nname = \"x\"\nobject = \"TEST\"\n",
			want:    "address is required",
		},
		{
			name:    "bad duration",
			content: "[device]\naddress = \"r1\"\n[scenario]\nname = \"x\"\nobject = \"TEST\"\nobservation_interval = \"soon\"\n",
			want:    "observation_interval",
		},
		{
			name:    "unknown channel",
			content: "[device]\naddress = \"r1\"\n[scenario]\nname = \"x\"\nobject = \"TEST\"\n[[scenario.steps]]\nname = \"s\"\nobserve = [\"netconf\"]\n",
			want:    "unsupported channel \"netconf\"",
		},
		{
			name:    "no steps",
			content: "[device]\naddress = \"r1\"\n[scenario]\nname = \"x\"\nobject = \"TEST\"\n",
			want:    "at least one step is required",
		},
		{
			name:    "both password forms",
			content: "[device]\naddress = \"r1\"\n[device.structured]\npassword = \"a\"\npassword_ref = \"pass://b\"\n",
			want:    "mutually exclusive",
		},
		{
			name:    "port out of range",
			content: "[device]\naddress = \"r1\"\n[device.interactive]\nport = 70000\n",
			want:    "port 70000 out of range",
		},
		{
			name:    "newer version",
			content: "version = 2\n",
			want:    "unsupported scenario schema version 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeScenarioFile([]byte(tt.content))
			require.ErrorIs(t, err, domain.ErrInvalidScenario)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExampleScenarioFileRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range domain.BuiltinScenarios() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			scenario, err := domain.BuiltinScenario(name, "TEST")
			require.NoError(t, err)
			example := ExampleScenarioFile("csr1.lab", scenario)
			data, err := EncodeScenarioFile(example)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "scenario.toml")
			require.NoError(t, os.WriteFile(path, data, 0o600))

			loaded, err := LoadScenarioFile(path)
			require.NoError(t, err)
			assert.Equal(t, example, loaded)
		})
	}
}

func TestDecodeScenarioFileClauseEditsAndSettings(t *testing.T) {
	t.Parallel()

	content := `
version = 1

[device]
address = "csr1.lab"

[scenario]
name = "community"
object = "TEST"
convergence_retries = 1

[[scenario.steps]]
name = "enable-new-format"

[[scenario.steps.operations]]
channel = "interactive"
kind = "setting"
setting = "bgp-community-new-format"
enable = true

[[scenario.steps]]
name = "add"

[[scenario.steps.operations]]
channel = "structured"
kind = "merge"

[[scenario.steps.operations.clauses]]
seq = 10
action = "permit"
rules = ["set community 10:10"]

[[scenario.steps.operations]]
channel = "structured"
kind = "remove"

[[scenario.steps.operations.clauses]]
seq = 20
action = "deny"
`

	file, err := DecodeScenarioFile([]byte(content))
	require.NoError(t, err)
	require.Len(t, file.Scenario.Steps, 2)

	assert.Equal(t, domain.Operation{
		Channel: domain.ChannelInteractive,
		Kind:    domain.OperationSetting,
		Setting: domain.SettingCommunityNewFormat,
		Enable:  true,
	}, file.Scenario.Steps[0].Operations[0])

	edits := file.Scenario.Steps[1].Operations
	require.Len(t, edits, 2)
	assert.Equal(t, domain.OperationMerge, edits[0].Kind)
	assert.Equal(t, []string{"set community 10:10"}, edits[0].Clauses[0].Rules)
	assert.Equal(t, domain.OperationRemove, edits[1].Kind)
	assert.Equal(t, 20, edits[1].Clauses[0].Seq)

	_, err = DecodeScenarioFile([]byte(strings.Replace(content, `setting = "bgp-community-new-format"`, `setting = "ip-classless"`, 1)))
	require.ErrorIs(t, err, domain.ErrInvalidScenario)
	assert.Contains(t, err.Error(), "unsupported setting")
}

func TestLoadScenarioFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadScenarioFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
