package domain

import (
	"fmt"
	"time"
)

type Channel string

const (
	ChannelStructured  Channel = "structured"
	ChannelInteractive Channel = "interactive"
	// ChannelExpected tags the synthetic side of a single-channel comparison.
	ChannelExpected Channel = "expected"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelStructured, ChannelInteractive:
		return true
	default:
		return false
	}
}

func ParseChannel(raw string) (Channel, error) {
	channel := Channel(raw)
	if !channel.Valid() {
		return "", fmt.Errorf("%w: unsupported channel %q", ErrInvalidScenario, raw)
	}
	return channel, nil
}

// ChannelObservation is a snapshot of one policy object as one channel reported
// it. Cycle is a run-wide monotonic counter shared by both channels.
type ChannelObservation struct {
	Channel    Channel
	Cycle      int
	Name       string
	Present    bool
	Object     PolicyObject
	ObservedAt time.Time
}

func NewObservation(channel Channel, cycle int, name string, object PolicyObject, present bool, at time.Time) ChannelObservation {
	observation := ChannelObservation{
		Channel:    channel,
		Cycle:      cycle,
		Name:       name,
		Present:    present,
		ObservedAt: at,
	}
	if present {
		observation.Object = NewPolicyObject(name, object.Clauses)
	}

	return observation
}

// Expectation is what the scenario intended the object to look like after a step.
type Expectation struct {
	Present bool
	Object  PolicyObject
}

func (e Expectation) Observation(cycle int, name string, at time.Time) ChannelObservation {
	return NewObservation(ChannelExpected, cycle, name, e.Object, e.Present, at)
}
