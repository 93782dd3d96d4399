package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
)

var (
	_ ports.PolicyParser = RunningConfigParser{}
	_ ports.PolicyParser = ShowRouteMapParser{}
)

const (
	ParserRunningConfig = "running-config"
	ParserShowRouteMap  = "show-route-map"
)

func NewParser(kind string) (ports.PolicyParser, error) {
	switch strings.TrimSpace(kind) {
	case "", ParserRunningConfig:
		return RunningConfigParser{}, nil
	case ParserShowRouteMap:
		return ShowRouteMapParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported parser %q", kind)
	}
}

var (
	configHeaderPattern = regexp.MustCompile(`^route-map\s+(\S+)(?:\s+(permit|deny))?(?:\s+(\d+))?\s*$`)
	showHeaderPattern   = regexp.MustCompile(`^route-map\s+(\S+?),\s*(permit|deny),\s*sequence\s+(\d+)\s*$`)
	parentheticals      = regexp.MustCompile(`\([^)]*\)`)
	labelColon          = regexp.MustCompile(`:(\s|$)`)
)

// RunningConfigParser reads `show running-config | section route-map NAME`.
// The section filter is a regex match, so blocks of other route-maps and
// other top-level sections can appear and are skipped.
type RunningConfigParser struct{}

func (RunningConfigParser) Command(name string) string {
	return "show running-config | section route-map " + name
}

func (RunningConfigParser) Parse(name, output string) (domain.PolicyObject, bool, error) {
	var (
		clauses  []domain.Clause
		current  *domain.Clause
		present  bool
		topLevel bool
	)
	flush := func() {
		if current != nil {
			clauses = append(clauses, *current)
			current = nil
		}
	}

	for _, line := range outputLines(output) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "!" || strings.HasPrefix(trimmed, "Building configuration") {
			continue
		}
		if strings.HasPrefix(trimmed, "%") {
			if isNotFound(trimmed) {
				return domain.PolicyObject{}, false, nil
			}
			return domain.PolicyObject{}, false, fmt.Errorf("%w: %s", domain.ErrMalformedOutput, trimmed)
		}

		indented := line != strings.TrimLeft(line, " \t")
		if !indented {
			flush()
			topLevel = true

			m := configHeaderPattern.FindStringSubmatch(trimmed)
			if m == nil {
				if namesObject(trimmed, name) {
					return domain.PolicyObject{}, false, fmt.Errorf("%w: route-map header %q", domain.ErrMalformedOutput, trimmed)
				}
				continue
			}
			if m[1] != name {
				continue
			}
			clause, err := headerClause(m[2], m[3])
			if err != nil {
				return domain.PolicyObject{}, false, err
			}
			present = true
			current = &clause
			continue
		}

		if !topLevel {
			return domain.PolicyObject{}, false, fmt.Errorf("%w: rule %q before any route-map header", domain.ErrMalformedOutput, trimmed)
		}
		if current != nil {
			current.Rules = append(current.Rules, domain.NormalizeRule(trimmed))
		}
	}
	flush()

	return buildObject(name, present, clauses)
}

// ShowRouteMapParser reads `show route-map NAME`, which groups rules under
// "Match clauses:" and "Set clauses:" headings.
type ShowRouteMapParser struct{}

func (ShowRouteMapParser) Command(name string) string {
	return "show route-map " + name
}

func (ShowRouteMapParser) Parse(name, output string) (domain.PolicyObject, bool, error) {
	var (
		clauses []domain.Clause
		current *domain.Clause
		present bool
		section string
	)
	flush := func() {
		if current != nil {
			clauses = append(clauses, *current)
			current = nil
		}
	}

	for _, line := range outputLines(output) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "%") {
			if isNotFound(trimmed) {
				return domain.PolicyObject{}, false, nil
			}
			return domain.PolicyObject{}, false, fmt.Errorf("%w: %s", domain.ErrMalformedOutput, trimmed)
		}

		if m := showHeaderPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			section = ""
			if m[1] != name {
				continue
			}
			clause, err := headerClause(m[2], m[3])
			if err != nil {
				return domain.PolicyObject{}, false, err
			}
			present = true
			current = &clause
			continue
		}

		if namesObject(trimmed, name) {
			return domain.PolicyObject{}, false, fmt.Errorf("%w: route-map header %q", domain.ErrMalformedOutput, trimmed)
		}

		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "match clauses"):
			section = "match"
			continue
		case strings.HasPrefix(lower, "set clauses"):
			section = "set"
			continue
		case strings.HasPrefix(lower, "description"):
			section = "description"
			if rest := strings.TrimSpace(strings.TrimPrefix(trimmed[len("description"):], ":")); rest != "" && current != nil {
				current.Rules = append(current.Rules, "description "+rest)
			}
			continue
		case strings.HasPrefix(lower, "policy routing matches"), strings.HasPrefix(lower, "nat "):
			section = ""
			continue
		}

		if current == nil {
			if strings.HasPrefix(lower, "route-map") {
				continue
			}
			if section == "" && !present {
				return domain.PolicyObject{}, false, fmt.Errorf("%w: unexpected line %q", domain.ErrMalformedOutput, trimmed)
			}
			continue
		}
		if section == "" {
			continue
		}

		if rule := showRule(section, trimmed); rule != "" {
			current.Rules = append(current.Rules, rule)
		}
	}
	flush()

	return buildObject(name, present, clauses)
}

// namesObject reports whether line is a route-map header for name, well
// formed or not. Route-maps whose names only share a prefix do not count.
func namesObject(line, name string) bool {
	rest, ok := strings.CutPrefix(line, "route-map")
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return false
	}
	rest, ok = strings.CutPrefix(strings.TrimLeft(rest, " \t"), name)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == ','
}

func showRule(section, line string) string {
	if section == "description" {
		return "description " + domain.NormalizeRule(line)
	}

	line = parentheticals.ReplaceAllString(line, " ")
	line = labelColon.ReplaceAllString(line, " ")
	fields := strings.Fields(line)
	for i, field := range fields {
		switch field {
		case "prefix-lists":
			fields[i] = "prefix-list"
		case "access-lists":
			fields[i] = ""
		}
	}
	rule := domain.NormalizeRule(strings.Join(fields, " "))
	if rule == "" {
		return ""
	}
	return section + " " + rule
}

func headerClause(action, seq string) (domain.Clause, error) {
	clause := domain.Clause{Seq: 10, Action: domain.ActionPermit}
	if action != "" {
		parsed, err := domain.ParseAction(action)
		if err != nil {
			return domain.Clause{}, fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err)
		}
		clause.Action = parsed
	}
	if seq != "" {
		n, err := strconv.Atoi(seq)
		if err != nil {
			return domain.Clause{}, fmt.Errorf("%w: sequence %q", domain.ErrMalformedOutput, seq)
		}
		clause.Seq = n
	}
	return clause, nil
}

func buildObject(name string, present bool, clauses []domain.Clause) (domain.PolicyObject, bool, error) {
	if !present {
		return domain.PolicyObject{}, false, nil
	}

	for i := range clauses {
		if len(clauses[i].Rules) > 0 {
			clauses[i].Rules = clauses[i].NormalizedRules()
		}
	}

	object := domain.NewPolicyObject(name, clauses)
	if err := object.Validate(); err != nil {
		return domain.PolicyObject{}, false, fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err)
	}
	return object, true, nil
}

func outputLines(output string) []string {
	output = strings.ReplaceAll(stripANSI(output), "\r", "")
	return strings.Split(output, "\n")
}

func isNotFound(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist") ||
		strings.Contains(lower, "could not find")
}
