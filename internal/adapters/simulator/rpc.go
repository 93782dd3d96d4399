package simulator

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/ncdrift/internal/adapters/netconf"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
)

var _ ports.RPCSession = (*RPCSession)(nil)

type datastoreRef struct {
	Candidate *struct{} `xml:"candidate"`
	Running   *struct{} `xml:"running"`
}

func (r datastoreRef) name() string {
	switch {
	case r.Candidate != nil:
		return "candidate"
	case r.Running != nil:
		return "running"
	default:
		return ""
	}
}

type targetRequest struct {
	Target datastoreRef `xml:"target"`
}

type editRequest struct {
	Target datastoreRef   `xml:"target"`
	Native netconf.Native `xml:"config>native"`
}

type getConfigRequest struct {
	Source datastoreRef `xml:"source"`
	Filter struct {
		Native struct {
			RouteMaps []struct {
				Name string `xml:"name"`
			} `xml:"route-map"`
		} `xml:"native"`
	} `xml:"filter"`
}

// RPCSession answers the subset of NETCONF the structured driver sends.
type RPCSession struct {
	device *Device
	id     int

	closeOnce sync.Once
	closed    bool
}

func (s *RPCSession) Capabilities() []string {
	capabilities := []string{
		"urn:ietf:params:netconf:base:1.0",
		"urn:ietf:params:netconf:base:1.1",
		"urn:ietf:params:netconf:capability:writable-running:1.0",
		netconf.NativeNamespace + "?module=Cisco-IOS-XE-native&revision=2023-07-01",
	}
	if s.device.opts.Candidate {
		capabilities = append(capabilities, netconf.CandidateCapability)
	}
	return capabilities
}

func (s *RPCSession) Exec(ctx context.Context, rpc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d := s.device
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.closed {
		return "", errClosed(domain.ChannelStructured)
	}

	op, err := rootElement(rpc)
	if err != nil {
		return "", rpcError("protocol", "malformed-message", err.Error())
	}
	d.logger.Debug().Int("session", s.id).Str("rpc", op).Msg("rpc received")

	switch op {
	case "lock":
		return okReply(s.lock(rpc))
	case "unlock":
		return okReply(s.unlock(rpc))
	case "edit-config":
		return okReply(s.editConfig(rpc))
	case "commit":
		return okReply(s.commit())
	case "discard-changes":
		return okReply(s.discard())
	case "get-config":
		return s.getConfig(rpc)
	default:
		return "", rpcError("protocol", "operation-not-supported", fmt.Sprintf("rpc %q is not supported", op))
	}
}

func (s *RPCSession) Close() error {
	s.closeOnce.Do(func() {
		d := s.device
		d.mu.Lock()
		defer d.mu.Unlock()

		s.closed = true
		d.releaseLocked(s.id)
		d.stats.StructuredClosed++
		d.logger.Debug().Int("session", s.id).Msg("structured session closed")
	})
	return nil
}

func (s *RPCSession) lock(rpc string) error {
	datastore, err := s.target(rpc)
	if err != nil {
		return err
	}

	d := s.device
	if owner, ok := d.locks[datastore]; ok {
		return ports.RPCError{
			Type:     "protocol",
			Tag:      "lock-denied",
			Severity: "error",
			Message:  fmt.Sprintf("lock failed, lock is already held by session %d", owner),
		}
	}
	d.locks[datastore] = s.id
	return nil
}

func (s *RPCSession) unlock(rpc string) error {
	datastore, err := s.target(rpc)
	if err != nil {
		return err
	}

	d := s.device
	if owner, ok := d.locks[datastore]; !ok || owner != s.id {
		return rpcError("protocol", "operation-failed", "unlock failed, no lock held by this session")
	}
	delete(d.locks, datastore)
	if datastore == "candidate" && d.candidateDirty {
		d.resetCandidateLocked()
	}
	return nil
}

func (s *RPCSession) editConfig(rpc string) error {
	var request editRequest
	if err := xml.Unmarshal([]byte(rpc), &request); err != nil {
		return rpcError("rpc", "malformed-message", err.Error())
	}

	datastore := request.Target.name()
	if err := s.checkTarget(datastore); err != nil {
		return err
	}

	d := s.device
	config, newFormat := d.running, d.newFormat
	if datastore == "candidate" {
		config, newFormat = d.candidate, d.candidateNewFormat
	}
	next := cloneConfig(config)

	if request.Native.IP != nil && request.Native.IP.BGPCommunity != nil && request.Native.IP.BGPCommunity.NewFormat != nil {
		enabled, err := editPresence(request.Native.IP.BGPCommunity.NewFormat.Operation, newFormat, "/native/ip/bgp-community/new-format")
		if err != nil {
			return err
		}
		newFormat = enabled
	}

	for _, routeMap := range request.Native.RouteMaps {
		if routeMap.Name == "" {
			return rpcError("application", "missing-element", "route-map name is required")
		}

		switch routeMap.Operation {
		case "remove":
			delete(next, routeMap.Name)
		case "delete":
			if _, ok := next[routeMap.Name]; !ok {
				return dataMissing("/native/route-map[name='" + routeMap.Name + "']")
			}
			delete(next, routeMap.Name)
		case "replace", "", "merge", "create":
			existing, exists := next[routeMap.Name]
			if routeMap.Operation == "create" && exists {
				return rpcError("application", "data-exists", "route-map "+routeMap.Name+" already exists")
			}
			var base []domain.Clause
			if routeMap.Operation != "replace" && routeMap.Operation != "create" && exists {
				base = existing.Clauses
			}
			clauses, err := editEntries(routeMap.Name, base, routeMap.Entries)
			if err != nil {
				return err
			}
			if len(clauses) == 0 {
				delete(next, routeMap.Name)
				continue
			}
			object, err := canonical(routeMap.Name, clauses)
			if err != nil {
				return rpcError("application", "invalid-value", err.Error())
			}
			next[routeMap.Name] = object
		default:
			return rpcError("protocol", "bad-attribute", fmt.Sprintf("unknown operation %q", routeMap.Operation))
		}
	}

	if datastore == "candidate" {
		d.candidate = next
		d.candidateNewFormat = newFormat
		d.candidateDirty = true
		return nil
	}
	d.commitLocked(next, newFormat)
	return nil
}

func (s *RPCSession) commit() error {
	d := s.device
	if !d.opts.Candidate {
		return rpcError("protocol", "operation-not-supported", "candidate datastore is not supported")
	}
	if owner, ok := d.locks["candidate"]; ok && owner != s.id {
		return rpcError("protocol", "in-use", "candidate datastore is locked by another session")
	}

	next := cloneConfig(d.candidate)
	d.candidateDirty = false
	d.commitLocked(next, d.candidateNewFormat)
	return nil
}

func (s *RPCSession) discard() error {
	d := s.device
	if !d.opts.Candidate {
		return rpcError("protocol", "operation-not-supported", "candidate datastore is not supported")
	}
	d.resetCandidateLocked()
	return nil
}

func (s *RPCSession) getConfig(rpc string) (string, error) {
	var request getConfigRequest
	if err := xml.Unmarshal([]byte(rpc), &request); err != nil {
		return "", rpcError("rpc", "malformed-message", err.Error())
	}

	d := s.device
	config := d.running
	if request.Source.name() == "candidate" {
		config = d.candidate
	}

	var names []string
	for _, routeMap := range request.Filter.Native.RouteMaps {
		names = append(names, routeMap.Name)
	}
	if len(names) == 0 {
		for name := range config {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	native := netconf.Native{}
	for _, name := range names {
		object, ok := config[name]
		if !ok {
			continue
		}
		routeMap, err := netconf.EncodeRouteMap(name, "", object.Clauses)
		if err != nil {
			return "", rpcError("application", "operation-failed", err.Error())
		}
		native.RouteMaps = append(native.RouteMaps, routeMap)
	}
	if len(native.RouteMaps) == 0 {
		return "<data></data>", nil
	}

	body, err := netconf.EncodeData(native)
	if err != nil {
		return "", rpcError("application", "operation-failed", err.Error())
	}
	return body, nil
}

func (s *RPCSession) target(rpc string) (string, error) {
	var request targetRequest
	if err := xml.Unmarshal([]byte(rpc), &request); err != nil {
		return "", rpcError("rpc", "malformed-message", err.Error())
	}
	datastore := request.Target.name()
	if datastore == "" {
		return "", rpcError("protocol", "missing-element", "target datastore is required")
	}
	if datastore == "candidate" && !s.device.opts.Candidate {
		return "", rpcError("protocol", "operation-not-supported", "candidate datastore is not supported")
	}
	return datastore, nil
}

func (s *RPCSession) checkTarget(datastore string) error {
	switch datastore {
	case "":
		return rpcError("protocol", "missing-element", "target datastore is required")
	case "candidate":
		if !s.device.opts.Candidate {
			return rpcError("protocol", "operation-not-supported", "candidate datastore is not supported")
		}
	}
	if owner, ok := s.device.locks[datastore]; ok && owner != s.id {
		return rpcError("protocol", "in-use", datastore+" datastore is locked by another session")
	}
	return nil
}

func rootElement(rpc string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(rpc))
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return "", errors.New("empty rpc")
		}
		if err != nil {
			return "", err
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// editEntries applies list entries onto base with merge semantics: entries
// carrying a remove or delete attribute drop the clause, other entries merge
// into the clause of the same sequence or create it.
func editEntries(name string, base []domain.Clause, entries []netconf.RouteMapEntry) ([]domain.Clause, error) {
	clauses := make([]domain.Clause, 0, len(base)+len(entries))
	for _, clause := range base {
		clauses = append(clauses, clause.Clone())
	}

	for _, entry := range entries {
		index := slices.IndexFunc(clauses, func(c domain.Clause) bool { return c.Seq == entry.Seq })

		switch entry.EditOperation {
		case "remove", "delete":
			if index < 0 {
				if entry.EditOperation == "delete" {
					return nil, dataMissing(fmt.Sprintf("/native/route-map[name='%s']/route-map-without-order-seq[seq_no='%d']", name, entry.Seq))
				}
				continue
			}
			clauses = slices.Delete(clauses, index, index+1)
			continue
		case "", "merge", "replace", "create":
		default:
			return nil, rpcError("protocol", "bad-attribute", fmt.Sprintf("unknown operation %q", entry.EditOperation))
		}

		merged := entry
		if index >= 0 && entry.EditOperation != "replace" {
			current, err := netconf.EncodeClause(clauses[index])
			if err != nil {
				return nil, rpcError("application", "operation-failed", err.Error())
			}
			merged = mergeEntry(current, entry)
		} else {
			merged.Set = withoutRemovedCommunities(entry.Set)
		}

		clause, err := netconf.DecodeEntry(merged)
		if err != nil {
			return nil, rpcError("application", "invalid-value", err.Error())
		}
		if index >= 0 {
			clauses[index] = clause
		} else {
			clauses = append(clauses, clause)
		}
	}
	return clauses, nil
}

// mergeEntry overlays incoming onto current. Leaf-lists are unioned by their
// text; community values marked for removal drop the same text only.
func mergeEntry(current, incoming netconf.RouteMapEntry) netconf.RouteMapEntry {
	merged := current
	if incoming.Operation != "" {
		merged.Operation = incoming.Operation
	}
	if incoming.Description != "" {
		merged.Description = incoming.Description
	}

	if incoming.Match != nil && incoming.Match.IP != nil && incoming.Match.IP.Address != nil {
		if merged.Match == nil {
			merged.Match = &netconf.MatchXML{}
		}
		if merged.Match.IP == nil {
			merged.Match.IP = &netconf.MatchIP{}
		}
		if merged.Match.IP.Address == nil {
			merged.Match.IP.Address = &netconf.MatchAddress{}
		}
		address := merged.Match.IP.Address
		address.AccessList = union(address.AccessList, incoming.Match.IP.Address.AccessList)
		address.PrefixList = union(address.PrefixList, incoming.Match.IP.Address.PrefixList)
	}

	if incoming.Set == nil {
		return merged
	}
	if merged.Set == nil {
		merged.Set = &netconf.SetXML{}
	}
	if incoming.Set.LocalPreference != "" {
		merged.Set.LocalPreference = incoming.Set.LocalPreference
	}
	if incoming.Set.Community == nil || incoming.Set.Community.WellKnown == nil {
		return merged
	}

	var list []netconf.CommunityValue
	if merged.Set.Community != nil && merged.Set.Community.WellKnown != nil {
		list = merged.Set.Community.WellKnown.List
	}
	for _, value := range incoming.Set.Community.WellKnown.List {
		text := strings.TrimSpace(value.Value)
		switch value.Operation {
		case "remove", "delete":
			list = slices.DeleteFunc(list, func(v netconf.CommunityValue) bool { return strings.TrimSpace(v.Value) == text })
		default:
			if !slices.ContainsFunc(list, func(v netconf.CommunityValue) bool { return strings.TrimSpace(v.Value) == text }) {
				list = append(list, netconf.CommunityValue{Value: text})
			}
		}
	}
	merged.Set.Community = &netconf.SetCommunity{WellKnown: &netconf.CommunityWellKnown{List: list}}
	if len(list) == 0 {
		merged.Set.Community = nil
	}
	return merged
}

func withoutRemovedCommunities(set *netconf.SetXML) *netconf.SetXML {
	if set == nil || set.Community == nil || set.Community.WellKnown == nil {
		return set
	}
	out := *set
	var list []netconf.CommunityValue
	for _, value := range set.Community.WellKnown.List {
		if value.Operation != "remove" && value.Operation != "delete" {
			list = append(list, value)
		}
	}
	out.Community = &netconf.SetCommunity{WellKnown: &netconf.CommunityWellKnown{List: list}}
	return &out
}

func union(values, extra []string) []string {
	for _, value := range extra {
		if !slices.Contains(values, value) {
			values = append(values, value)
		}
	}
	return values
}

// editPresence resolves the edit operation on a presence leaf.
func editPresence(operation string, current bool, path string) (bool, error) {
	switch operation {
	case "", "merge", "replace":
		return true, nil
	case "create":
		if current {
			return false, rpcError("application", "data-exists", path+" already exists")
		}
		return true, nil
	case "remove":
		return false, nil
	case "delete":
		if !current {
			return false, dataMissing(path)
		}
		return false, nil
	default:
		return false, rpcError("protocol", "bad-attribute", fmt.Sprintf("unknown operation %q", operation))
	}
}

func dataMissing(path string) ports.RPCError {
	return ports.RPCError{
		Type:     "application",
		Tag:      "data-missing",
		Severity: "error",
		Path:     path,
		Message:  "the data does not exist",
	}
}

func okReply(err error) (string, error) {
	if err != nil {
		return "", err
	}
	return "<ok/>", nil
}

func rpcError(errType, tag, message string) ports.RPCError {
	return ports.RPCError{Type: errType, Tag: tag, Severity: "error", Message: message}
}

func canonicalRules(clause domain.Clause) ([]string, error) {
	if err := validateCommunities(clause); err != nil {
		return nil, err
	}
	return netconf.CanonicalRules(clause)
}
