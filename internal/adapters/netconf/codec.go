package netconf

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/ncdrift/internal/domain"
)

const (
	BaseNamespace     = "urn:ietf:params:xml:ns:netconf:base:1.0"
	NativeNamespace   = "http://cisco.com/ns/yang/Cisco-IOS-XE-native"
	RouteMapNamespace = "http://cisco.com/ns/yang/Cisco-IOS-XE-route-map"

	CandidateCapability = "urn:ietf:params:netconf:capability:candidate:1.0"
)

// Native is the slice of the IOS-XE native tree this tool touches.
type Native struct {
	XMLName   xml.Name   `xml:"http://cisco.com/ns/yang/Cisco-IOS-XE-native native"`
	IP        *NativeIP  `xml:"ip,omitempty"`
	RouteMaps []RouteMap `xml:"route-map"`
}

type NativeIP struct {
	BGPCommunity *BGPCommunity `xml:"bgp-community,omitempty"`
}

// BGPCommunity carries the global community display toggle. NewFormat is a
// presence leaf: present means AA:NN rendering.
type BGPCommunity struct {
	NewFormat *PresenceLeaf `xml:"new-format,omitempty"`
}

type PresenceLeaf struct {
	Operation string `xml:"operation,attr,omitempty"`
}

type RouteMap struct {
	Operation string          `xml:"operation,attr,omitempty"`
	Name      string          `xml:"name"`
	Entries   []RouteMapEntry `xml:"http://cisco.com/ns/yang/Cisco-IOS-XE-route-map route-map-without-order-seq"`
}

// RouteMapEntry.Operation is the clause action element; EditOperation is the
// edit-config attribute on the list entry.
type RouteMapEntry struct {
	EditOperation string    `xml:"operation,attr,omitempty"`
	Seq           int       `xml:"seq_no"`
	Operation     string    `xml:"operation,omitempty"`
	Description   string    `xml:"description,omitempty"`
	Match         *MatchXML `xml:"match,omitempty"`
	Set           *SetXML   `xml:"set,omitempty"`
}

type MatchXML struct {
	IP *MatchIP `xml:"ip,omitempty"`
}

type MatchIP struct {
	Address *MatchAddress `xml:"address,omitempty"`
}

type MatchAddress struct {
	AccessList []string `xml:"access-list,omitempty"`
	PrefixList []string `xml:"prefix-list,omitempty"`
}

type SetXML struct {
	Community       *SetCommunity `xml:"community,omitempty"`
	LocalPreference string        `xml:"local-preference,omitempty"`
}

type SetCommunity struct {
	WellKnown *CommunityWellKnown `xml:"community-well-known,omitempty"`
}

type CommunityWellKnown struct {
	List []CommunityValue `xml:"community-list"`
}

type CommunityValue struct {
	Operation string `xml:"operation,attr,omitempty"`
	Value     string `xml:",chardata"`
}

func (c *CommunityWellKnown) Values() []string {
	values := make([]string, 0, len(c.List))
	for _, item := range c.List {
		values = append(values, strings.TrimSpace(item.Value))
	}
	return values
}

func communityValues(values []string, operation string) []CommunityValue {
	list := make([]CommunityValue, 0, len(values))
	for _, value := range values {
		list = append(list, CommunityValue{Operation: operation, Value: value})
	}
	return list
}

type dataReply struct {
	XMLName xml.Name `xml:"data"`
	Native  *Native  `xml:"native"`
}

// EncodeClause maps rule lines onto the route-map model. Rule forms outside
// the supported set are rejected.
func EncodeClause(clause domain.Clause) (RouteMapEntry, error) {
	entry := RouteMapEntry{Seq: clause.Seq, Operation: string(clause.Action)}

	for _, rule := range clause.Rules {
		rule = domain.NormalizeRule(rule)
		if rule == "" {
			continue
		}

		fields := strings.Fields(rule)
		switch {
		case fields[0] == "description" && len(fields) > 1:
			entry.Description = strings.TrimSpace(strings.TrimPrefix(rule, "description"))
		case hasPrefix(fields, "match", "ip", "address", "prefix-list") && len(fields) > 4:
			entry.matchAddress().PrefixList = append(entry.matchAddress().PrefixList, fields[4:]...)
		case hasPrefix(fields, "match", "ip", "address") && len(fields) > 3 && fields[3] != "prefix-list":
			entry.matchAddress().AccessList = append(entry.matchAddress().AccessList, fields[3:]...)
		case hasPrefix(fields, "set", "community") && len(fields) > 2:
			community := entry.community()
			community.List = append(community.List, communityValues(fields[2:], "")...)
		case hasPrefix(fields, "set", "local-preference") && len(fields) == 3:
			if _, err := strconv.ParseUint(fields[2], 10, 32); err != nil {
				return RouteMapEntry{}, fmt.Errorf("sequence %d: invalid local-preference %q", clause.Seq, fields[2])
			}
			if entry.Set == nil {
				entry.Set = &SetXML{}
			}
			entry.Set.LocalPreference = fields[2]
		default:
			return RouteMapEntry{}, fmt.Errorf("sequence %d: unsupported rule %q", clause.Seq, rule)
		}
	}

	return entry, nil
}

func (e *RouteMapEntry) matchAddress() *MatchAddress {
	if e.Match == nil {
		e.Match = &MatchXML{}
	}
	if e.Match.IP == nil {
		e.Match.IP = &MatchIP{}
	}
	if e.Match.IP.Address == nil {
		e.Match.IP.Address = &MatchAddress{}
	}
	return e.Match.IP.Address
}

func (e *RouteMapEntry) community() *CommunityWellKnown {
	if e.Set == nil {
		e.Set = &SetXML{}
	}
	if e.Set.Community == nil {
		e.Set.Community = &SetCommunity{}
	}
	if e.Set.Community.WellKnown == nil {
		e.Set.Community.WellKnown = &CommunityWellKnown{}
	}
	return e.Set.Community.WellKnown
}

// DecodeEntry renders an entry back into rule lines using the same text the
// line channel prints in running-config.
func DecodeEntry(entry RouteMapEntry) (domain.Clause, error) {
	action, err := domain.ParseAction(entry.Operation)
	if err != nil {
		return domain.Clause{}, fmt.Errorf("sequence %d: %w", entry.Seq, err)
	}

	clause := domain.Clause{Seq: entry.Seq, Action: action}
	if entry.Description != "" {
		clause.Rules = append(clause.Rules, "description "+entry.Description)
	}
	if entry.Match != nil && entry.Match.IP != nil && entry.Match.IP.Address != nil {
		address := entry.Match.IP.Address
		if len(address.AccessList) > 0 {
			clause.Rules = append(clause.Rules, "match ip address "+strings.Join(address.AccessList, " "))
		}
		if len(address.PrefixList) > 0 {
			clause.Rules = append(clause.Rules, "match ip address prefix-list "+strings.Join(address.PrefixList, " "))
		}
	}
	if entry.Set != nil {
		if entry.Set.Community != nil && entry.Set.Community.WellKnown != nil && len(entry.Set.Community.WellKnown.List) > 0 {
			clause.Rules = append(clause.Rules, "set community "+strings.Join(entry.Set.Community.WellKnown.Values(), " "))
		}
		if entry.Set.LocalPreference != "" {
			clause.Rules = append(clause.Rules, "set local-preference "+entry.Set.LocalPreference)
		}
	}

	return clause, nil
}

// CanonicalRules round-trips rule lines through the model so both sides of a
// comparison use the device's own rendering.
func CanonicalRules(clause domain.Clause) ([]string, error) {
	entry, err := EncodeClause(clause)
	if err != nil {
		return nil, err
	}
	decoded, err := DecodeEntry(entry)
	if err != nil {
		return nil, err
	}
	return decoded.Rules, nil
}

func EncodeRouteMap(name, operation string, clauses []domain.Clause) (RouteMap, error) {
	routeMap := RouteMap{Operation: operation, Name: name}
	for _, clause := range clauses {
		entry, err := EncodeClause(clause)
		if err != nil {
			return RouteMap{}, err
		}
		routeMap.Entries = append(routeMap.Entries, entry)
	}
	return routeMap, nil
}

// EncodeRemoval builds the entries that delete clauses, or parts of them, from
// an existing route-map. A clause without rules removes the whole entry; rule
// removal is limited to community values.
func EncodeRemoval(name string, clauses []domain.Clause) (RouteMap, error) {
	routeMap := RouteMap{Name: name}
	for _, clause := range clauses {
		entry := RouteMapEntry{Seq: clause.Seq}
		if len(clause.NormalizedRules()) == 0 {
			entry.EditOperation = "remove"
			routeMap.Entries = append(routeMap.Entries, entry)
			continue
		}
		for _, rule := range clause.NormalizedRules() {
			fields := strings.Fields(rule)
			if !hasPrefix(fields, "set", "community") || len(fields) < 3 {
				return RouteMap{}, fmt.Errorf("sequence %d: cannot remove rule %q", clause.Seq, rule)
			}
			community := entry.community()
			community.List = append(community.List, communityValues(fields[2:], "remove")...)
		}
		routeMap.Entries = append(routeMap.Entries, entry)
	}
	return routeMap, nil
}

// EncodeSetting toggles a global setting with a merge or remove edit.
func EncodeSetting(setting domain.Setting, enable bool) (Native, error) {
	if setting != domain.SettingCommunityNewFormat {
		return Native{}, fmt.Errorf("unsupported setting %q", setting)
	}
	operation := "merge"
	if !enable {
		operation = "remove"
	}
	return Native{IP: &NativeIP{BGPCommunity: &BGPCommunity{NewFormat: &PresenceLeaf{Operation: operation}}}}, nil
}

func DecodeRouteMap(routeMap RouteMap) (domain.PolicyObject, error) {
	clauses := make([]domain.Clause, 0, len(routeMap.Entries))
	for _, entry := range routeMap.Entries {
		clause, err := DecodeEntry(entry)
		if err != nil {
			return domain.PolicyObject{}, err
		}
		clauses = append(clauses, clause)
	}
	return domain.NewPolicyObject(routeMap.Name, clauses), nil
}

func MarshalNative(native Native) (string, error) {
	raw, err := xml.Marshal(native)
	if err != nil {
		return "", fmt.Errorf("marshal native config: %w", err)
	}
	return string(raw), nil
}

// DecodeData extracts the named route-map from a get-config reply body.
func DecodeData(body, name string) (domain.PolicyObject, bool, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.PolicyObject{}, false, nil
	}

	var reply dataReply
	if err := xml.Unmarshal([]byte(body), &reply); err != nil {
		return domain.PolicyObject{}, false, fmt.Errorf("%w: decode get-config reply: %w", domain.ErrMalformedOutput, err)
	}
	if reply.Native == nil {
		return domain.PolicyObject{}, false, nil
	}

	for _, routeMap := range reply.Native.RouteMaps {
		if routeMap.Name != name {
			continue
		}
		object, err := DecodeRouteMap(routeMap)
		if err != nil {
			return domain.PolicyObject{}, false, fmt.Errorf("%w: route-map %s: %w", domain.ErrMalformedOutput, name, err)
		}
		return object, true, nil
	}

	return domain.PolicyObject{}, false, nil
}

func EncodeData(native Native) (string, error) {
	raw, err := MarshalNative(native)
	if err != nil {
		return "", err
	}
	return "<data>" + raw + "</data>", nil
}

func hasPrefix(fields []string, prefix ...string) bool {
	if len(fields) < len(prefix) {
		return false
	}
	for i, word := range prefix {
		if fields[i] != word {
			return false
		}
	}
	return true
}

func escape(value string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(value))
	return b.String()
}
