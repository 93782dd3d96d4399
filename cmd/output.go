package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	reportrender "github.com/bnema/ncdrift/internal/adapters/render/report"
	"github.com/bnema/ncdrift/internal/domain"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(raw string) (outputFormat, error) {
	switch outputFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	case formatYAML:
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text, json or yaml)", raw)
	}
}

// reportDocument is the export shape of a report. Field names are stable
// across json and yaml.
type reportDocument struct {
	ID                  string           `json:"id" yaml:"id"`
	Scenario            string           `json:"scenario" yaml:"scenario"`
	Device              string           `json:"device" yaml:"device"`
	Object              string           `json:"object" yaml:"object"`
	State               string           `json:"state" yaml:"state"`
	BugReproduced       bool             `json:"bug_reproduced" yaml:"bug_reproduced"`
	InconsistentRecords int              `json:"inconsistent_records" yaml:"inconsistent_records"`
	StartedAt           string           `json:"started_at" yaml:"started_at"`
	FinishedAt          string           `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Failure             *failureDocument `json:"failure,omitempty" yaml:"failure,omitempty"`
	TeardownErrors      []string         `json:"teardown_errors,omitempty" yaml:"teardown_errors,omitempty"`
	Timeline            []recordDocument `json:"timeline" yaml:"timeline"`
}

type failureDocument struct {
	StepIndex int    `json:"step_index" yaml:"step_index"`
	StepName  string `json:"step_name" yaml:"step_name"`
	Channel   string `json:"channel,omitempty" yaml:"channel,omitempty"`
	Kind      string `json:"kind" yaml:"kind"`
	Message   string `json:"message" yaml:"message"`
}

type recordDocument struct {
	Step       int                 `json:"step" yaml:"step"`
	Name       string              `json:"name" yaml:"name"`
	Attempt    int                 `json:"attempt" yaml:"attempt"`
	Operation  string              `json:"operation" yaml:"operation"`
	Consistent bool                `json:"consistent" yaml:"consistent"`
	RecordedAt string              `json:"recorded_at" yaml:"recorded_at"`
	Expected   observationDocument `json:"expected" yaml:"expected"`
	Left       observationDocument `json:"left" yaml:"left"`
	Right      observationDocument `json:"right" yaml:"right"`
	Diff       []string            `json:"diff,omitempty" yaml:"diff,omitempty"`
}

type observationDocument struct {
	Channel string           `json:"channel,omitempty" yaml:"channel,omitempty"`
	Cycle   int              `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Present bool             `json:"present" yaml:"present"`
	Clauses []clauseDocument `json:"clauses,omitempty" yaml:"clauses,omitempty"`
}

type clauseDocument struct {
	Seq    int      `json:"seq" yaml:"seq"`
	Action string   `json:"action" yaml:"action"`
	Rules  []string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

func writeReport(w io.Writer, app *app, report domain.Report, format outputFormat, verbose bool) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newReportDocument(report))
	case formatYAML:
		return writeYAML(w, newReportDocument(report))
	default:
		rendered, err := app.reportRenderer(report, reportrender.RenderOptions{Verbose: verbose})
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		_, err = fmt.Fprintln(w, rendered)
		return err
	}
}

func writeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func newReportDocument(report domain.Report) reportDocument {
	doc := reportDocument{
		ID:                  string(report.ID),
		Scenario:            report.Scenario,
		Device:              report.Device,
		Object:              report.Object,
		State:               string(report.State),
		BugReproduced:       report.BugReproduced,
		InconsistentRecords: report.InconsistentRecords(),
		StartedAt:           formatTimestamp(report.StartedAt),
		FinishedAt:          formatTimestamp(report.FinishedAt),
		TeardownErrors:      report.TeardownErrors,
		Timeline:            make([]recordDocument, 0, len(report.Timeline)),
	}
	if report.Failure != nil {
		doc.Failure = &failureDocument{
			StepIndex: report.Failure.StepIndex,
			StepName:  report.Failure.StepName,
			Channel:   string(report.Failure.Channel),
			Kind:      report.Failure.Kind,
			Message:   report.Failure.Message,
		}
	}

	for _, record := range report.Timeline {
		doc.Timeline = append(doc.Timeline, recordDocument{
			Step:       record.Step.Index,
			Name:       record.Step.Name,
			Attempt:    record.Step.Attempt,
			Operation:  record.Step.Operation,
			Consistent: record.Consistent,
			RecordedAt: formatTimestamp(record.RecordedAt),
			Expected:   observationDocument{Present: record.Expected.Present, Clauses: clauseDocuments(record.Expected.Object.Clauses)},
			Left:       newObservationDocument(record.Left),
			Right:      newObservationDocument(record.Right),
			Diff:       diffSummary(record.Diff),
		})
	}

	return doc
}

func newObservationDocument(observation domain.ChannelObservation) observationDocument {
	return observationDocument{
		Channel: string(observation.Channel),
		Cycle:   observation.Cycle,
		Present: observation.Present,
		Clauses: clauseDocuments(observation.Object.Clauses),
	}
}

func clauseDocuments(clauses []domain.Clause) []clauseDocument {
	docs := make([]clauseDocument, 0, len(clauses))
	for _, clause := range clauses {
		docs = append(docs, clauseDocument{Seq: clause.Seq, Action: string(clause.Action), Rules: clause.NormalizedRules()})
	}
	if len(docs) == 0 {
		return nil
	}
	return docs
}

func diffSummary(diff domain.Diff) []string {
	var lines []string
	if diff.PresenceMismatch {
		lines = append(lines, "presence mismatch")
	}
	for _, clause := range diff.OnlyLeft {
		lines = append(lines, fmt.Sprintf("only left: %s %d", clause.Action, clause.Seq))
	}
	for _, clause := range diff.OnlyRight {
		lines = append(lines, fmt.Sprintf("only right: %s %d", clause.Action, clause.Seq))
	}
	for _, change := range diff.Changed {
		lines = append(lines, fmt.Sprintf("changed: seq %d left %s %v right %s %v",
			change.Seq, change.Left.Action, change.Left.NormalizedRules(), change.Right.Action, change.Right.NormalizedRules()))
	}
	return lines
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339Nano)
}
