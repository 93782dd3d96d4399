package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RunID string

func NewRunID() RunID {
	return RunID(uuid.NewString())
}

type RunState string

const (
	RunStateIdle     RunState = "idle"
	RunStateBaseline RunState = "baseline"
	RunStateRunning  RunState = "running"
	RunStateComplete RunState = "complete"
	RunStateFailed   RunState = "failed"
)

func (s RunState) Terminal() bool {
	return s == RunStateComplete || s == RunStateFailed
}

var runTransitions = map[RunState][]RunState{
	RunStateIdle:     {RunStateBaseline, RunStateFailed},
	RunStateBaseline: {RunStateRunning, RunStateComplete, RunStateFailed},
	RunStateRunning:  {RunStateRunning, RunStateComplete, RunStateFailed},
}

// CanTransition reports whether the run state machine allows from -> to.
// Running -> Running is the advance from step i to step i+1.
func CanTransition(from, to RunState) bool {
	for _, allowed := range runTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func Transition(from, to RunState) (RunState, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("invalid run transition %s -> %s", from, to)
	}
	return to, nil
}

type Failure struct {
	StepIndex int
	StepName  string
	Channel   Channel
	Kind      string
	Message   string
}

type Report struct {
	ID             RunID
	Scenario       string
	Device         string
	Object         string
	State          RunState
	Timeline       []DivergenceRecord
	BugReproduced  bool
	Failure        *Failure
	TeardownErrors []string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Summarize recomputes BugReproduced from the timeline.
func (r *Report) Summarize() {
	r.BugReproduced = false
	for _, record := range r.Timeline {
		if !record.Consistent {
			r.BugReproduced = true
			return
		}
	}
}

func (r Report) InconsistentRecords() int {
	count := 0
	for _, record := range r.Timeline {
		if !record.Consistent {
			count++
		}
	}
	return count
}
