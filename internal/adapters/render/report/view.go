package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const shortIDLength = 8

type RenderOptions struct {
	// Verbose adds the expected state and the clauses of consistent records.
	Verbose bool
}

func renderReport(report domain.Report, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Divergence report: %s", report.Scenario)),
		s.header.Render(fmt.Sprintf("run %s  device %s  object %s", report.ID, report.Device, report.Object)),
		s.header.Render(fmt.Sprintf("started %s  duration %s", formatTime(report.StartedAt), formatDuration(report.StartedAt, report.FinishedAt))),
		summaryLine(report, s),
	}

	if report.Failure != nil {
		lines = append(lines, s.failure.Render(failureLine(*report.Failure)))
	}
	for _, teardown := range report.TeardownErrors {
		lines = append(lines, s.warning.Render("teardown: "+teardown))
	}

	if len(report.Timeline) == 0 {
		lines = append(lines, s.section.Render(s.empty.Render("No observations recorded.")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	timeline := make([]string, 0, len(report.Timeline))
	for _, record := range report.Timeline {
		timeline = append(timeline, renderRecord(record, opts, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, timeline...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func summaryLine(report domain.Report, s styles) string {
	state := fmt.Sprintf("state: %s", report.State)
	switch {
	case report.BugReproduced:
		return s.warning.Render(fmt.Sprintf("%s  DIVERGENCE REPRODUCED (%d of %d records inconsistent)", state, report.InconsistentRecords(), len(report.Timeline)))
	case report.State == domain.RunStateFailed:
		return s.failure.Render(fmt.Sprintf("%s  no divergence observed before the failure", state))
	default:
		return s.ok.Render(fmt.Sprintf("%s  channels agreed on every record", state))
	}
}

func failureLine(failure domain.Failure) string {
	where := fmt.Sprintf("step %d (%s)", failure.StepIndex, failure.StepName)
	if failure.Channel != "" {
		where += " on " + string(failure.Channel)
	}
	return fmt.Sprintf("failed at %s: %s: %s", where, failure.Kind, failure.Message)
}

func renderRecord(record domain.DivergenceRecord, opts RenderOptions, s styles) string {
	verdict := s.ok.Render("consistent")
	if !record.Consistent {
		verdict = s.warning.Render("DIVERGED")
	}

	head := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.step.Render(fmt.Sprintf("[%d.%d] %s", record.Step.Index, record.Step.Attempt, record.Step.Name)),
		" ",
		s.detail.Render(record.Step.Operation),
		" ",
		s.header.Render(fmt.Sprintf("cycle %d", record.Left.Cycle)),
		" ",
		verdict,
	)

	parts := []string{head}
	if opts.Verbose {
		parts = append(parts, s.channel.Render("  expected:    "+describeExpectation(record.Expected)))
	}
	if !record.Consistent || opts.Verbose {
		parts = append(parts,
			s.channel.Render(fmt.Sprintf("  %-12s %s", string(record.Left.Channel)+":", describeObservation(record.Left))),
			s.channel.Render(fmt.Sprintf("  %-12s %s", string(record.Right.Channel)+":", describeObservation(record.Right))),
		)
	}
	for _, line := range diffLines(record) {
		parts = append(parts, s.diff.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func diffLines(record domain.DivergenceRecord) []string {
	diff := record.Diff
	if diff.Empty() {
		return nil
	}

	left, right := string(record.Left.Channel), string(record.Right.Channel)
	if diff.PresenceMismatch {
		return []string{fmt.Sprintf("%s sees %s, %s sees %s", left, presence(record.Left.Present), right, presence(record.Right.Present))}
	}

	var lines []string
	for _, clause := range diff.OnlyLeft {
		lines = append(lines, fmt.Sprintf("only %s: %s", left, describeClause(clause)))
	}
	for _, clause := range diff.OnlyRight {
		lines = append(lines, fmt.Sprintf("only %s: %s", right, describeClause(clause)))
	}
	for _, change := range diff.Changed {
		lines = append(lines, fmt.Sprintf("seq %d differs (-%s +%s):", change.Seq, left, right))
		for _, text := range strings.Split(change.Text(), "\n") {
			lines = append(lines, "  "+strings.TrimSpace(text))
		}
	}
	return lines
}

func describeExpectation(expected domain.Expectation) string {
	if !expected.Present {
		return "absent"
	}
	return describeClauses(expected.Object.Clauses)
}

func describeObservation(observation domain.ChannelObservation) string {
	if !observation.Present {
		return "absent"
	}
	return describeClauses(observation.Object.Clauses)
}

func describeClauses(clauses []domain.Clause) string {
	if len(clauses) == 0 {
		return "present, no clauses"
	}

	described := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		described = append(described, describeClause(clause))
	}
	return strings.Join(described, "; ")
}

func describeClause(clause domain.Clause) string {
	rules := clause.NormalizedRules()
	if len(rules) == 0 {
		return fmt.Sprintf("%s %d", clause.Action, clause.Seq)
	}
	return fmt.Sprintf("%s %d [%s]", clause.Action, clause.Seq, strings.Join(rules, ", "))
}

func presence(present bool) string {
	if present {
		return "it present"
	}
	return "it absent"
}

func renderHistory(reports []domain.Report, s styles) string {
	lines := []string{
		s.title.Render("Archived runs"),
		s.header.Render(fmt.Sprintf("reports: %d", len(reports))),
	}

	if len(reports) == 0 {
		lines = append(lines, s.empty.Render("No reports archived yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, report := range reports {
		verdict := s.ok.Render("agreed")
		if report.BugReproduced {
			verdict = s.warning.Render("diverged")
		}

		state := s.detail.Render(string(report.State))
		if report.State == domain.RunStateFailed {
			state = s.failure.Render(string(report.State))
		}

		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.historyKey.Render(shortID(report.ID)),
			"  ",
			s.header.Render(formatTime(report.StartedAt)),
			"  ",
			s.detail.Render(fmt.Sprintf("%s %s/%s", report.Scenario, report.Device, report.Object)),
			"  ",
			state,
			" ",
			verdict,
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func shortID(id domain.RunID) string {
	if len(id) <= shortIDLength {
		return string(id)
	}
	return string(id[:shortIDLength])
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "unknown"
	}
	return value.UTC().Format("2006-01-02 15:04:05Z")
}

func formatDuration(start, end time.Time) string {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return "n/a"
	}
	return end.Sub(start).Round(time.Millisecond).String()
}
