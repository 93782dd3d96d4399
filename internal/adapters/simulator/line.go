package simulator

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/ncdrift/internal/adapters/netconf"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
)

var _ ports.LineSession = (*LineSession)(nil)

var (
	sectionPattern  = regexp.MustCompile(`^show running-config \| section route-map (\S+)$`)
	showMapPattern  = regexp.MustCompile(`^show route-map (\S+)$`)
	routeMapPattern = regexp.MustCompile(`^route-map (\S+)(?: (permit|deny))?(?: (\d+))?$`)
	noMapPattern    = regexp.MustCompile(`^no route-map (\S+)(?: (permit|deny))?(?: (\d+))?$`)
)

type lineMode int

const (
	modeExec lineMode = iota
	modeConfig
	modeRouteMap
)

// LineSession answers the IOS-style commands the interactive driver sends.
// Output is returned without the echoed command or the trailing prompt.
type LineSession struct {
	device *Device
	id     int

	mu     sync.Mutex
	mode   lineMode
	object string
	seq    int
	broken error

	closeOnce sync.Once
	closed    bool
}

func (s *LineSession) Run(ctx context.Context, command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", errClosed(domain.ChannelInteractive)
	}
	if s.broken != nil {
		return "", s.broken
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	command = domain.NormalizeRule(command)
	if s.mode == modeExec && isRouteMapShow(command) {
		return s.show(ctx, command)
	}

	d := s.device
	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.Debug().Int("session", s.id).Str("command", command).Msg("line command")

	switch s.mode {
	case modeConfig:
		return s.config(command), nil
	case modeRouteMap:
		return s.routeMap(command), nil
	default:
		return s.exec(command), nil
	}
}

func (s *LineSession) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		d := s.device
		d.mu.Lock()
		defer d.mu.Unlock()

		d.stats.InteractiveClosed++
		d.logger.Debug().Int("session", s.id).Msg("interactive session closed")
	})
	return nil
}

func (s *LineSession) exec(command string) string {
	switch {
	case strings.HasPrefix(command, "terminal "):
		return ""
	case command == "show version":
		return "Cisco IOS XE Software, Version 17.09.04a\n" + Hostname + " uptime is 1 week, 2 days"
	case command == "show clock":
		return "*10:00:00.000 UTC Mon Oct 19 2026"
	case command == "configure terminal":
		s.mode = modeConfig
		return "Enter configuration commands, one per line.  End with CNTL/Z."
	default:
		return invalidInput(command)
	}
}

// show renders a route-map read. The device lock is not held while a
// hanging read waits for the caller.
func (s *LineSession) show(ctx context.Context, command string) (string, error) {
	d := s.device
	d.mu.Lock()
	if d.nextShowLocked() {
		d.mu.Unlock()
		d.logger.Debug().Int("session", s.id).Str("command", command).Msg("show hanging")
		<-ctx.Done()
		s.broken = fmt.Errorf("%w: line session abandoned: %w", domain.ErrChannel, ctx.Err())
		return "", ctx.Err()
	}
	defer d.mu.Unlock()

	if m := sectionPattern.FindStringSubmatch(command); m != nil {
		object, ok := d.viewLocked(m[1])
		if !ok {
			return "", nil
		}
		return renderRunningConfig(object), nil
	}

	m := showMapPattern.FindStringSubmatch(command)
	object, ok := d.viewLocked(m[1])
	if !ok {
		return "%route-map " + m[1] + " not found", nil
	}
	return renderShowRouteMap(object), nil
}

func (s *LineSession) config(command string) string {
	switch {
	case command == "end" || command == "exit":
		s.mode = modeExec
		return ""
	case command == "ip bgp-community new-format":
		s.device.setNewFormatLocked(true)
		return ""
	case command == "no ip bgp-community new-format":
		s.device.setNewFormatLocked(false)
		return ""
	case noMapPattern.MatchString(command):
		m := noMapPattern.FindStringSubmatch(command)
		return s.removeRouteMap(m[1], m[3])
	case routeMapPattern.MatchString(command):
		m := routeMapPattern.FindStringSubmatch(command)
		return s.enterRouteMap(m[1], m[2], m[3])
	default:
		return invalidInput(command)
	}
}

func (s *LineSession) routeMap(command string) string {
	switch {
	case command == "end":
		s.mode = modeExec
		return ""
	case command == "exit":
		s.mode = modeConfig
		return ""
	case routeMapPattern.MatchString(command):
		m := routeMapPattern.FindStringSubmatch(command)
		return s.enterRouteMap(m[1], m[2], m[3])
	}

	d := s.device
	object, _ := d.lineObjectLocked(s.object)
	index := -1
	for i, clause := range object.Clauses {
		if clause.Seq == s.seq {
			index = i
		}
	}
	if index < 0 {
		return "% Error: route-map entry " + s.object + " " + strconv.Itoa(s.seq) + " no longer exists"
	}

	clause := object.Clauses[index]
	if rest, negated := strings.CutPrefix(command, "no "+communityPrefix); negated {
		removed, err := communityValues(strings.Fields(rest))
		if err != nil {
			return invalidInput(command)
		}
		values, _ := communityValues(communityTokens(clause))
		values = slices.DeleteFunc(values, func(v uint32) bool { return slices.Contains(removed, v) })
		clause = withCommunities(clause, values, d.newFormat)
	} else if rule, negated := strings.CutPrefix(command, "no "); negated {
		rules := clause.Rules[:0]
		for _, existing := range clause.Rules {
			if existing != rule {
				rules = append(rules, existing)
			}
		}
		clause.Rules = rules
	} else {
		if _, err := canonicalRules(domain.Clause{Seq: clause.Seq, Action: clause.Action, Rules: []string{command}}); err != nil {
			return invalidInput(command)
		}
		if strings.HasPrefix(command, "description ") {
			rules := clause.Rules[:0]
			for _, existing := range clause.Rules {
				if !strings.HasPrefix(existing, "description ") {
					rules = append(rules, existing)
				}
			}
			clause.Rules = rules
		}
		clause.Rules = append(clause.Rules, command)
	}

	rules, err := canonicalRules(clause)
	if err != nil {
		return invalidInput(command)
	}
	clause.Rules = rules
	object.Clauses[index] = clause
	d.applyLineLocked(s.object, object, true)
	return ""
}

func (s *LineSession) enterRouteMap(name, action, seq string) string {
	clause := domain.Clause{Seq: 10, Action: domain.ActionPermit}
	if action != "" {
		clause.Action = domain.Action(action)
	}
	if seq != "" {
		n, err := strconv.Atoi(seq)
		if err != nil || n <= 0 || n > 65535 {
			return invalidInput("route-map " + name + " " + action + " " + seq)
		}
		clause.Seq = n
	}

	d := s.device
	object, exists := d.lineObjectLocked(name)
	if !exists {
		object = domain.PolicyObject{Name: name}
	}

	found := false
	for i, existing := range object.Clauses {
		if existing.Seq == clause.Seq {
			object.Clauses[i].Action = clause.Action
			found = true
		}
	}
	if !found {
		object.Clauses = append(object.Clauses, clause)
		object.SortClauses()
	}

	d.applyLineLocked(name, object, true)
	s.mode = modeRouteMap
	s.object = name
	s.seq = clause.Seq
	return ""
}

func (s *LineSession) removeRouteMap(name, seq string) string {
	d := s.device
	object, exists := d.lineObjectLocked(name)
	if !exists {
		return ""
	}
	if seq == "" {
		d.applyLineLocked(name, domain.PolicyObject{}, false)
		return ""
	}

	n, _ := strconv.Atoi(seq)
	clauses := object.Clauses[:0]
	for _, clause := range object.Clauses {
		if clause.Seq != n {
			clauses = append(clauses, clause)
		}
	}
	object.Clauses = clauses
	d.applyLineLocked(name, object, len(clauses) > 0)
	return ""
}

func isRouteMapShow(command string) bool {
	return sectionPattern.MatchString(command) || showMapPattern.MatchString(command)
}

func invalidInput(command string) string {
	return " " + command + "\n ^\n% Invalid input detected at '^' marker."
}

func renderRunningConfig(object domain.PolicyObject) string {
	var b strings.Builder
	for _, clause := range object.Clauses {
		fmt.Fprintf(&b, "route-map %s %s %d\n", object.Name, clause.Action, clause.Seq)
		for _, rule := range clause.Rules {
			b.WriteString(" " + rule + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderShowRouteMap(object domain.PolicyObject) string {
	var b strings.Builder
	for _, clause := range object.Clauses {
		fmt.Fprintf(&b, "route-map %s, %s, sequence %d\n", object.Name, clause.Action, clause.Seq)

		entry, err := netconf.EncodeClause(clause)
		if err != nil {
			continue
		}
		if entry.Description != "" {
			b.WriteString("  Description:\n    " + entry.Description + "\n")
		}

		b.WriteString("  Match clauses:\n")
		if entry.Match != nil && entry.Match.IP != nil && entry.Match.IP.Address != nil {
			address := entry.Match.IP.Address
			if len(address.AccessList) > 0 {
				b.WriteString("    ip address (access-lists): " + strings.Join(address.AccessList, " ") + " \n")
			}
			if len(address.PrefixList) > 0 {
				b.WriteString("    ip address prefix-lists: " + strings.Join(address.PrefixList, " ") + " \n")
			}
		}

		b.WriteString("  Set clauses:\n")
		if entry.Set != nil {
			if entry.Set.Community != nil && entry.Set.Community.WellKnown != nil {
				b.WriteString("    community " + strings.Join(entry.Set.Community.WellKnown.Values(), " ") + "\n")
			}
			if entry.Set.LocalPreference != "" {
				b.WriteString("    local-preference " + entry.Set.LocalPreference + "\n")
			}
		}
		b.WriteString("  Policy routing matches: 0 packets, 0 bytes\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
