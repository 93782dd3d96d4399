package simulator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bnema/ncdrift/internal/domain"
)

const communityPrefix = "set community "

var wellKnownCommunities = []struct {
	name  string
	value uint32
}{
	{name: "internet", value: 0},
	{name: "no-export", value: 0xFFFFFF01},
	{name: "no-advertise", value: 0xFFFFFF02},
	{name: "local-AS", value: 0xFFFFFF03},
}

// parseCommunity accepts the three spellings IOS takes for a community: a
// well-known name, AA:NN, or the 32-bit decimal value.
func parseCommunity(token string) (uint32, error) {
	for _, known := range wellKnownCommunities {
		if token == known.name {
			return known.value, nil
		}
	}

	if high, low, ok := strings.Cut(token, ":"); ok {
		h, err := strconv.ParseUint(high, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid community %q", token)
		}
		l, err := strconv.ParseUint(low, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid community %q", token)
		}
		return uint32(h)<<16 | uint32(l), nil
	}

	value, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid community %q", token)
	}
	return uint32(value), nil
}

func formatCommunity(value uint32, newFormat bool) string {
	for _, known := range wellKnownCommunities {
		if value == known.value {
			return known.name
		}
	}
	if newFormat {
		return fmt.Sprintf("%d:%d", value>>16, value&0xFFFF)
	}
	return strconv.FormatUint(uint64(value), 10)
}

// communityTokens returns the community values of a clause as written.
func communityTokens(clause domain.Clause) []string {
	var tokens []string
	for _, rule := range clause.NormalizedRules() {
		if rest, ok := strings.CutPrefix(rule, communityPrefix); ok {
			tokens = append(tokens, strings.Fields(rest)...)
		}
	}
	return tokens
}

// communityValues maps tokens onto their numeric values, keeping the first
// occurrence of each value.
func communityValues(tokens []string) ([]uint32, error) {
	var values []uint32
	for _, token := range tokens {
		value, err := parseCommunity(token)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(values, value) {
			values = append(values, value)
		}
	}
	return values, nil
}

func validateCommunities(clause domain.Clause) error {
	_, err := communityValues(communityTokens(clause))
	return err
}

// withCommunities swaps the community rule of a clause for the given values.
func withCommunities(clause domain.Clause, values []uint32, newFormat bool) domain.Clause {
	out := clause.Clone()
	out.Rules = out.Rules[:0]
	for _, rule := range clause.NormalizedRules() {
		if !strings.HasPrefix(rule, communityPrefix) {
			out.Rules = append(out.Rules, rule)
		}
	}
	if len(values) == 0 {
		return out
	}

	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, formatCommunity(value, newFormat))
	}
	out.Rules = append(out.Rules, communityPrefix+strings.Join(formatted, " "))
	return out
}

// appliedCommunities tracks the numeric community values the device actually
// uses per route-map and sequence. It is updated from edits, not rebuilt from
// the stored text.
type appliedCommunities map[string]map[int][]uint32

func (a appliedCommunities) reset(object domain.PolicyObject) {
	delete(a, object.Name)
	for _, clause := range object.Clauses {
		values, err := communityValues(communityTokens(clause))
		if err != nil || len(values) == 0 {
			continue
		}
		a.set(object.Name, clause.Seq, values)
	}
}

func (a appliedCommunities) set(name string, seq int, values []uint32) {
	if len(values) == 0 {
		if byName, ok := a[name]; ok {
			delete(byName, seq)
		}
		return
	}
	if a[name] == nil {
		a[name] = make(map[int][]uint32)
	}
	a[name][seq] = values
}

// update applies the textual change of one object to the applied values.
// Tokens that disappeared remove their numeric value, even when another
// spelling of the same value is still written; new tokens add their value
// once.
func (a appliedCommunities) update(before, after domain.PolicyObject, hadBefore bool) {
	if !hadBefore {
		a.reset(after)
		return
	}

	previous := a[before.Name]
	next := make(map[int][]uint32)
	for _, clause := range after.Clauses {
		values := slices.Clone(previous[clause.Seq])
		var beforeTokens []string
		if old, ok := before.Clause(clause.Seq); ok {
			beforeTokens = communityTokens(old)
		}
		afterTokens := communityTokens(clause)

		for _, token := range beforeTokens {
			if slices.Contains(afterTokens, token) {
				continue
			}
			if value, err := parseCommunity(token); err == nil {
				values = slices.DeleteFunc(values, func(v uint32) bool { return v == value })
			}
		}
		for _, token := range afterTokens {
			if slices.Contains(beforeTokens, token) {
				continue
			}
			if value, err := parseCommunity(token); err == nil && !slices.Contains(values, value) {
				values = append(values, value)
			}
		}
		if len(values) > 0 {
			next[clause.Seq] = values
		}
	}

	delete(a, before.Name)
	if len(next) > 0 {
		a[before.Name] = next
	}
}

// render returns the object as the line channel prints it.
func (a appliedCommunities) render(object domain.PolicyObject, newFormat bool) domain.PolicyObject {
	rendered := object.Clone()
	for i, clause := range rendered.Clauses {
		clause = withCommunities(clause, a[object.Name][clause.Seq], newFormat)
		if rules, err := canonicalRules(clause); err == nil {
			clause.Rules = rules
		}
		rendered.Clauses[i] = clause
	}
	return rendered
}
