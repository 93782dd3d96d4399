package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int            `toml:"version"`
	Reports []reportSchema `toml:"reports"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported reports schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type reportSchema struct {
	ID             string         `toml:"id"`
	Scenario       string         `toml:"scenario"`
	Device         string         `toml:"device"`
	Object         string         `toml:"object"`
	State          string         `toml:"state"`
	BugReproduced  bool           `toml:"bug_reproduced"`
	StartedAt      string         `toml:"started_at"`
	FinishedAt     string         `toml:"finished_at"`
	Failure        *failureSchema `toml:"failure,omitempty"`
	TeardownErrors []string       `toml:"teardown_errors,omitempty"`
	Timeline       []recordSchema `toml:"timeline,omitempty"`
}

type failureSchema struct {
	StepIndex int    `toml:"step_index"`
	StepName  string `toml:"step_name"`
	Channel   string `toml:"channel,omitempty"`
	Kind      string `toml:"kind"`
	Message   string `toml:"message"`
}

type recordSchema struct {
	StepIndex  int               `toml:"step_index"`
	StepName   string            `toml:"step_name"`
	Attempt    int               `toml:"attempt"`
	Operation  string            `toml:"operation"`
	Consistent bool              `toml:"consistent"`
	RecordedAt string            `toml:"recorded_at"`
	Expected   expectationSchema `toml:"expected"`
	Left       observationSchema `toml:"left"`
	Right      observationSchema `toml:"right"`
}

type expectationSchema struct {
	Present bool           `toml:"present"`
	Clauses []clauseSchema `toml:"clauses,omitempty"`
}

type observationSchema struct {
	Channel    string         `toml:"channel"`
	Cycle      int            `toml:"cycle"`
	Present    bool           `toml:"present"`
	ObservedAt string         `toml:"observed_at"`
	Clauses    []clauseSchema `toml:"clauses,omitempty"`
}

type clauseSchema struct {
	Seq    int      `toml:"seq"`
	Action string   `toml:"action"`
	Rules  []string `toml:"rules,omitempty"`
}
