package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestRunSimulatedReproducesDivergence(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "run", "--simulate", "--interval", "0")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Divergence report: delete-recreate")
	assert.Contains(t, stdout, "device sim-csr1")
	assert.Contains(t, stdout, "DIVERGENCE REPRODUCED")
	assert.Contains(t, stdout, "permit 10 [match ip address ACL-X]")
}

func TestRunSimulatedBuiltinCommunityNewFormat(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "run", "--simulate", "--builtin", "community-new-format", "--interval", "0", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Scenario            string `json:"scenario"`
		BugReproduced       bool   `json:"bug_reproduced"`
		InconsistentRecords int    `json:"inconsistent_records"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "community-new-format", doc.Scenario)
	assert.True(t, doc.BugReproduced)
	assert.Equal(t, 8, doc.InconsistentRecords)
}

func TestRunSimulatedBuiltinStartsWithNewFormat(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "run", "--simulate", "--builtin", "community-new-format", "--new-format", "--interval", "0", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Timeline []struct {
			Name       string `json:"name"`
			Consistent bool   `json:"consistent"`
		} `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Greater(t, len(doc.Timeline), 2)
	assert.Equal(t, "reset-new-format", doc.Timeline[1].Name)
	assert.True(t, doc.Timeline[1].Consistent)
	assert.Equal(t, "add-655370", doc.Timeline[2].Name)
	assert.True(t, doc.Timeline[2].Consistent, "reset step turns new-format off before the first add")
}

func TestRunSimulatedWithoutLagAgrees(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "run", "--simulate", "--stale-reads", "0", "--interval", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "channels agreed on every record")
}

func TestRunSimulatedJSONOutput(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "run", "--simulate", "--interval", "0", "--format", "json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var doc struct {
		State               string `json:"state"`
		BugReproduced       bool   `json:"bug_reproduced"`
		InconsistentRecords int    `json:"inconsistent_records"`
		Timeline            []struct {
			Name       string `json:"name"`
			Consistent bool   `json:"consistent"`
		} `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	assert.Equal(t, "complete", doc.State)
	assert.True(t, doc.BugReproduced)
	assert.Equal(t, 1, doc.InconsistentRecords)
	require.NotEmpty(t, doc.Timeline)
	assert.Equal(t, "baseline", doc.Timeline[0].Name)
}

func TestRunSimulatedYAMLOutput(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "run", "--simulate", "--interval", "0", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bug_reproduced: true")
	assert.Contains(t, stdout, "scenario: delete-recreate")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "run", "--simulate", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
}

func TestRunWithoutScenarioFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "run")
	require.ErrorIs(t, err, errNoScenario)
}

func TestRunSimulatedHangingShowFailsWithReport(t *testing.T) {
	home := t.TempDir()
	example := tomlrepo.ExampleScenarioFile("lab-r1", domain.DeleteRecreateScenario("TEST"))
	example.Run.ObserveTimeout = 100 * time.Millisecond
	example.Scenario.ObservationInterval = 0
	path := writeScenarioFile(t, home, example)

	stdout, _, err := executeCLI(t, home, "run", "--config", path, "--simulate", "--hang-show", "3")
	require.ErrorIs(t, err, domain.ErrChannelTimeout)
	assert.Contains(t, stdout, "failed at step 2 (delete-recreate) on interactive: ChannelTimeout")
}

func TestRunSaveThenHistory(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "run", "--simulate", "--interval", "0", "--save", "--format", "json")
	require.NoError(t, err)

	var saved struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &saved))
	require.NotEmpty(t, saved.ID)
	assert.FileExists(t, filepath.Join(home, ".ncdrift", "reports.toml"))

	stdout, _, err = executeCLI(t, home, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "reports: 1")
	assert.Contains(t, stdout, saved.ID[:8])
	assert.Contains(t, stdout, "diverged")

	stdout, _, err = executeCLI(t, home, "history", "show", saved.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, stdout, "DIVERGENCE REPRODUCED")

	stdout, _, err = executeCLI(t, home, "history", "list", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, saved.ID)
}

func TestHistoryShowUnknownRun(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "history", "show", "missing")
	require.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestHistoryListEmpty(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "history", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No reports archived yet.")
}

func TestScenarioExampleValidates(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "scenario", "example", "--address", "lab-r1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[device.structured]")
	assert.Contains(t, stdout, "lab-r1")
	assert.Contains(t, stdout, "delete-recreate")

	path := filepath.Join(home, "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(stdout), 0o600))

	stdout, _, err = executeCLI(t, home, "scenario", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `scenario "delete-recreate" is valid: object TEST on lab-r1, 2 steps`)
	assert.Contains(t, stdout, "2. delete-recreate: structured:delete -> structured:replace[deny 10]")
}

func TestScenarioExampleBuiltinCommunityNewFormat(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "scenario", "example", "--builtin", "community-new-format")
	require.NoError(t, err)
	assert.Contains(t, stdout, `setting = "bgp-community-new-format"`)

	path := filepath.Join(home, "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(stdout), 0o600))

	stdout, _, err = executeCLI(t, home, "scenario", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `scenario "community-new-format" is valid: object TEST on 192.0.2.10, 6 steps`)
	assert.Contains(t, stdout, "5. remove-10:10: structured:remove[permit 10 set community 10:10]")

	_, _, err = executeCLI(t, home, "scenario", "example", "--builtin", "bgp-flap")
	require.ErrorIs(t, err, domain.ErrInvalidScenario)
}

func TestScenarioValidateUsesConfiguredPath(t *testing.T) {
	home := t.TempDir()
	path := writeScenarioFile(t, home, tomlrepo.ExampleScenarioFile("lab-r1", domain.DeleteRecreateScenario("TEST")))

	configDir := filepath.Join(home, ".ncdrift")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[scenario]\npath = \""+path+"\"\n"), 0o600))

	stdout, _, err := executeCLI(t, home, "scenario", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "is valid")
}

func TestScenarioValidateRejectsUnknownKeys(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[device]\naddress = \"r1\"\ncolour = \"blue\"\n"), 0o600))

	_, _, err := executeCLI(t, home, "scenario", "validate", path)
	require.ErrorIs(t, err, domain.ErrInvalidScenario)
	assert.Contains(t, err.Error(), "device.colour")
}

func TestObserveSimulatedReportsBothChannels(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "observe", "--simulate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "structured:")
	assert.Contains(t, stdout, "interactive:")
	assert.Contains(t, stdout, "channels agreed on every record")
}

func TestCleanSimulatedIsIdempotent(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "clean", "--simulate", "--object", "RM-LAB")
	require.NoError(t, err)
	assert.Equal(t, "route-map RM-LAB removed from sim-csr1\n", stdout)
}

func TestExecSimulatedRunsRawCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "exec", "--simulate", "--", "show", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cisco IOS XE Software")
}

func TestInvalidLogLevelIsRejected(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported log level "loud"`)
}

func TestDebugLoggingGoesToStderr(t *testing.T) {
	t.Setenv("NCDRIFT_LOG_NOCOLOR", "1")

	stdout, stderr, err := executeCLI(t, t.TempDir(), "--log-level", "debug", "clean", "--simulate")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "DBG")
	assert.Contains(t, stderr, "DBG")
	assert.True(t, strings.Contains(stderr, "app=ncdrift"))
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeScenarioFile(t *testing.T, dir string, file tomlrepo.ScenarioFile) string {
	t.Helper()

	data, err := tomlrepo.EncodeScenarioFile(file)
	require.NoError(t, err)

	path := filepath.Join(dir, "scenario.toml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
