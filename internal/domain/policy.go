package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

type Action string

const (
	ActionPermit Action = "permit"
	ActionDeny   Action = "deny"
)

func (a Action) Valid() bool {
	switch a {
	case ActionPermit, ActionDeny:
		return true
	default:
		return false
	}
}

func ParseAction(raw string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(raw)))
	if !action.Valid() {
		return "", fmt.Errorf("%w: unsupported action %q", ErrInvalidPolicy, raw)
	}

	return action, nil
}

// Clause is one numbered entry of a route-map. Rules are opaque match/set lines.
type Clause struct {
	Seq    int
	Action Action
	Rules  []string
}

func (c Clause) Clone() Clause {
	c.Rules = slices.Clone(c.Rules)
	return c
}

// NormalizedRules returns the rule lines with whitespace collapsed, empty lines
// dropped, and the result sorted. Rule order inside a clause is not significant.
func (c Clause) NormalizedRules() []string {
	rules := make([]string, 0, len(c.Rules))
	for _, rule := range c.Rules {
		normalized := NormalizeRule(rule)
		if normalized == "" {
			continue
		}
		rules = append(rules, normalized)
	}
	sort.Strings(rules)

	return rules
}

// Equal reports whether two clauses carry the same action and rule set.
func (c Clause) Equal(other Clause) bool {
	return c.Seq == other.Seq &&
		c.Action == other.Action &&
		slices.Equal(c.NormalizedRules(), other.NormalizedRules())
}

func NormalizeRule(rule string) string {
	return strings.Join(strings.Fields(rule), " ")
}

type PolicyObject struct {
	Name    string
	Clauses []Clause
}

func NewPolicyObject(name string, clauses []Clause) PolicyObject {
	object := PolicyObject{Name: name, Clauses: cloneClauses(clauses)}
	object.SortClauses()
	return object
}

func (p PolicyObject) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPolicy)
	}
	if strings.ContainsAny(p.Name, " \t\r\n") {
		return fmt.Errorf("%w: name %q contains whitespace", ErrInvalidPolicy, p.Name)
	}

	seen := make(map[int]struct{}, len(p.Clauses))
	for _, clause := range p.Clauses {
		if clause.Seq <= 0 || clause.Seq > 65535 {
			return fmt.Errorf("%w: sequence %d out of range", ErrInvalidPolicy, clause.Seq)
		}
		if _, ok := seen[clause.Seq]; ok {
			return fmt.Errorf("%w: duplicate sequence %d", ErrInvalidPolicy, clause.Seq)
		}
		seen[clause.Seq] = struct{}{}
		if !clause.Action.Valid() {
			return fmt.Errorf("%w: sequence %d has unsupported action %q", ErrInvalidPolicy, clause.Seq, clause.Action)
		}
		for _, rule := range clause.Rules {
			if strings.ContainsAny(rule, "\r\n") {
				return fmt.Errorf("%w: sequence %d rule %q spans lines", ErrInvalidPolicy, clause.Seq, rule)
			}
		}
	}

	return nil
}

// SortClauses orders clauses by sequence number, which is their evaluation order.
func (p *PolicyObject) SortClauses() {
	if p == nil {
		return
	}

	sort.SliceStable(p.Clauses, func(i, j int) bool {
		return p.Clauses[i].Seq < p.Clauses[j].Seq
	})
}

func (p PolicyObject) Clause(seq int) (Clause, bool) {
	for _, clause := range p.Clauses {
		if clause.Seq == seq {
			return clause, true
		}
	}

	return Clause{}, false
}

func (p PolicyObject) Clone() PolicyObject {
	p.Clauses = cloneClauses(p.Clauses)
	return p
}

func cloneClauses(clauses []Clause) []Clause {
	if clauses == nil {
		return nil
	}

	cloned := make([]Clause, 0, len(clauses))
	for _, clause := range clauses {
		cloned = append(cloned, clause.Clone())
	}
	return cloned
}
