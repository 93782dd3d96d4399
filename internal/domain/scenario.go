package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type OperationKind string

const (
	OperationReplace OperationKind = "replace"
	OperationDelete  OperationKind = "delete"
	OperationMerge   OperationKind = "merge"
	OperationRemove  OperationKind = "remove"
	OperationSetting OperationKind = "setting"
)

func (k OperationKind) Valid() bool {
	switch k {
	case OperationReplace, OperationDelete, OperationMerge, OperationRemove, OperationSetting:
		return true
	default:
		return false
	}
}

// Setting is a device-wide knob that changes how policy objects are rendered.
type Setting string

const (
	// SettingCommunityNewFormat is `ip bgp-community new-format`: communities
	// print as AA:NN instead of one decimal number.
	SettingCommunityNewFormat Setting = "bgp-community-new-format"
)

func (s Setting) Valid() bool {
	return s == SettingCommunityNewFormat
}

// Operation is one mutation issued over one channel. Replace maps to
// createOrReplace on the structured channel and configureClauses on the
// interactive one. Merge overlays clauses on the existing object. Remove
// drops the listed rules from a clause, or the whole clause when it lists
// no rules. Setting toggles a device-wide knob and leaves the object alone.
type Operation struct {
	Channel Channel
	Kind    OperationKind
	Clauses []Clause
	Setting Setting
	Enable  bool
}

func (o Operation) String() string {
	switch o.Kind {
	case OperationDelete:
		return fmt.Sprintf("%s:delete", o.Channel)
	case OperationSetting:
		state := "off"
		if o.Enable {
			state = "on"
		}
		return fmt.Sprintf("%s:setting[%s=%s]", o.Channel, o.Setting, state)
	}

	parts := make([]string, 0, len(o.Clauses))
	for _, clause := range o.Clauses {
		part := fmt.Sprintf("%s %d", clause.Action, clause.Seq)
		if o.Kind != OperationReplace && len(clause.Rules) > 0 {
			part += " " + strings.Join(clause.NormalizedRules(), "; ")
		}
		parts = append(parts, part)
	}
	return fmt.Sprintf("%s:%s[%s]", o.Channel, o.Kind, strings.Join(parts, ","))
}

// Apply returns the expectation after this operation has taken effect. Rule
// lines are compared as text.
func (o Operation) Apply(name string, current Expectation) Expectation {
	switch o.Kind {
	case OperationDelete:
		return Expectation{}
	case OperationReplace:
		return Expectation{Present: true, Object: NewPolicyObject(name, o.Clauses)}
	case OperationMerge:
		var existing []Clause
		if current.Present {
			existing = current.Object.Clauses
		}
		return Expectation{Present: true, Object: NewPolicyObject(name, MergeClauses(existing, o.Clauses))}
	case OperationRemove:
		if !current.Present {
			return current
		}
		remaining := RemoveClauses(current.Object.Clauses, o.Clauses)
		if len(remaining) == 0 {
			return Expectation{}
		}
		return Expectation{Present: true, Object: NewPolicyObject(name, remaining)}
	default:
		return current
	}
}

// MergeClauses overlays incoming on existing by sequence number. A matching
// clause takes the incoming action and gains the rules it did not have.
func MergeClauses(existing, incoming []Clause) []Clause {
	merged := cloneClauses(existing)
	for _, clause := range incoming {
		index := slices.IndexFunc(merged, func(c Clause) bool { return c.Seq == clause.Seq })
		if index < 0 {
			merged = append(merged, clause.Clone())
			continue
		}

		merged[index].Action = clause.Action
		have := merged[index].NormalizedRules()
		for _, rule := range clause.NormalizedRules() {
			if !slices.Contains(have, rule) {
				merged[index].Rules = append(merged[index].Rules, rule)
				have = append(have, rule)
			}
		}
	}
	return merged
}

// RemoveClauses drops the listed rules from matching clauses. A listed clause
// without rules is removed entirely.
func RemoveClauses(existing, removed []Clause) []Clause {
	remaining := make([]Clause, 0, len(existing))
	for _, clause := range existing {
		index := slices.IndexFunc(removed, func(c Clause) bool { return c.Seq == clause.Seq })
		if index < 0 {
			remaining = append(remaining, clause.Clone())
			continue
		}
		drop := removed[index].NormalizedRules()
		if len(drop) == 0 {
			continue
		}

		kept := clause.Clone()
		kept.Rules = nil
		for _, rule := range clause.Rules {
			if !slices.Contains(drop, NormalizeRule(rule)) {
				kept.Rules = append(kept.Rules, rule)
			}
		}
		remaining = append(remaining, kept)
	}
	return remaining
}

type ScenarioStep struct {
	Name       string
	Operations []Operation
	Observe    []Channel
}

func (s ScenarioStep) Describe() string {
	parts := make([]string, 0, len(s.Operations))
	for _, op := range s.Operations {
		parts = append(parts, op.String())
	}
	if len(parts) == 0 {
		return "observe"
	}
	return strings.Join(parts, " -> ")
}

// ObservedChannels returns the channels to read after the step, defaulting to both.
func (s ScenarioStep) ObservedChannels() []Channel {
	if len(s.Observe) == 0 {
		return []Channel{ChannelStructured, ChannelInteractive}
	}
	return s.Observe
}

type Scenario struct {
	Name                string
	Object              string
	Steps               []ScenarioStep
	ConvergenceRetries  int
	ObservationInterval time.Duration
	Cleanup             bool
}

func (s Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	if err := (PolicyObject{Name: s.Object}).Validate(); err != nil {
		return fmt.Errorf("%w: object: %w", ErrInvalidScenario, err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrInvalidScenario)
	}
	if s.ConvergenceRetries < 0 {
		return fmt.Errorf("%w: convergence retries must not be negative", ErrInvalidScenario)
	}
	if s.ObservationInterval < 0 {
		return fmt.Errorf("%w: observation interval must not be negative", ErrInvalidScenario)
	}

	for i, step := range s.Steps {
		if err := validateStep(s.Object, step); err != nil {
			return fmt.Errorf("%w: step %d (%s): %w", ErrInvalidScenario, i+1, step.Name, err)
		}
	}

	return nil
}

func validateStep(object string, step ScenarioStep) error {
	if strings.TrimSpace(step.Name) == "" {
		return fmt.Errorf("name is required")
	}

	for _, op := range step.Operations {
		if err := validateOperation(object, op); err != nil {
			return err
		}
	}

	seen := map[Channel]struct{}{}
	for _, channel := range step.Observe {
		if !channel.Valid() {
			return fmt.Errorf("cannot observe channel %q", channel)
		}
		if _, ok := seen[channel]; ok {
			return fmt.Errorf("channel %q observed twice", channel)
		}
		seen[channel] = struct{}{}
	}

	return nil
}

func validateOperation(object string, op Operation) error {
	if !op.Channel.Valid() {
		return fmt.Errorf("unsupported channel %q", op.Channel)
	}
	if !op.Kind.Valid() {
		return fmt.Errorf("unsupported operation %q", op.Kind)
	}
	if op.Kind != OperationSetting && (op.Setting != "" || op.Enable) {
		return fmt.Errorf("%s does not take a setting", op.Kind)
	}

	switch op.Kind {
	case OperationDelete, OperationSetting:
		if len(op.Clauses) > 0 {
			return fmt.Errorf("%s does not take clauses", op.Kind)
		}
		if op.Kind == OperationSetting && !op.Setting.Valid() {
			return fmt.Errorf("unsupported setting %q", op.Setting)
		}
	default:
		if len(op.Clauses) == 0 {
			return fmt.Errorf("%s requires at least one clause", op.Kind)
		}
		if err := NewPolicyObject(object, op.Clauses).Validate(); err != nil {
			return err
		}
	}
	return nil
}

const (
	ScenarioDeleteRecreate     = "delete-recreate"
	ScenarioCommunityNewFormat = "community-new-format"
)

// BuiltinScenarios lists the scenarios that ship with the tool.
func BuiltinScenarios() []string {
	return []string{ScenarioDeleteRecreate, ScenarioCommunityNewFormat}
}

func BuiltinScenario(name, object string) (Scenario, error) {
	switch name {
	case "", ScenarioDeleteRecreate:
		return DeleteRecreateScenario(object), nil
	case ScenarioCommunityNewFormat:
		return CommunityNewFormatScenario(object), nil
	default:
		return Scenario{}, fmt.Errorf("%w: unknown built-in scenario %q (want %s)", ErrInvalidScenario, name, strings.Join(BuiltinScenarios(), " or "))
	}
}

// DeleteRecreateScenario is the scripted sequence that exposes the
// generation defect: create, then delete and immediately recreate with
// different clauses, all through the structured channel.
func DeleteRecreateScenario(object string) Scenario {
	return Scenario{
		Name:   ScenarioDeleteRecreate,
		Object: object,
		Steps: []ScenarioStep{
			{
				Name: "create",
				Operations: []Operation{{
					Channel: ChannelStructured,
					Kind:    OperationReplace,
					Clauses: []Clause{{Seq: 10, Action: ActionPermit, Rules: []string{"match ip address ACL-X"}}},
				}},
			},
			{
				Name: "delete-recreate",
				Operations: []Operation{
					{Channel: ChannelStructured, Kind: OperationDelete},
					{
						Channel: ChannelStructured,
						Kind:    OperationReplace,
						Clauses: []Clause{{Seq: 10, Action: ActionDeny, Rules: []string{"match ip address ACL-Y"}}},
					},
				},
			},
		},
		ConvergenceRetries:  3,
		ObservationInterval: 2 * time.Second,
		Cleanup:             true,
	}
}

// CommunityNewFormatScenario merges a community in decimal form, switches the
// device to the AA:NN display format, merges the same value in AA:NN form and
// removes it again. The structured view keeps both spellings as written while
// the device folds them into one value.
func CommunityNewFormatScenario(object string) Scenario {
	community := func(value string) []Clause {
		return []Clause{{Seq: 10, Action: ActionPermit, Rules: []string{"set community " + value}}}
	}
	newFormat := func(enable bool) Operation {
		return Operation{Channel: ChannelStructured, Kind: OperationSetting, Setting: SettingCommunityNewFormat, Enable: enable}
	}

	return Scenario{
		Name:   ScenarioCommunityNewFormat,
		Object: object,
		Steps: []ScenarioStep{
			{Name: "reset-new-format", Operations: []Operation{newFormat(false)}},
			{Name: "add-655370", Operations: []Operation{{Channel: ChannelStructured, Kind: OperationMerge, Clauses: community("655370")}}},
			{Name: "enable-new-format", Operations: []Operation{newFormat(true)}},
			{Name: "add-10:10", Operations: []Operation{{Channel: ChannelStructured, Kind: OperationMerge, Clauses: community("10:10")}}},
			{Name: "remove-10:10", Operations: []Operation{{Channel: ChannelStructured, Kind: OperationRemove, Clauses: community("10:10")}}},
			{Name: "disable-new-format", Operations: []Operation{newFormat(false)}},
		},
		ConvergenceRetries:  1,
		ObservationInterval: 2 * time.Second,
		Cleanup:             true,
	}
}
