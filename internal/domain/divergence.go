package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
)

type ClauseChange struct {
	Seq   int
	Left  Clause
	Right Clause
}

// Text renders the difference between both sides of the clause.
func (c ClauseChange) Text() string {
	left := clauseView{Action: string(c.Left.Action), Rules: c.Left.NormalizedRules()}
	right := clauseView{Action: string(c.Right.Action), Rules: c.Right.NormalizedRules()}
	return strings.TrimSpace(cmp.Diff(left, right))
}

type clauseView struct {
	Action string
	Rules  []string
}

// Diff enumerates disagreements between two observations. Left and Right refer
// to the record's Left and Right observations.
type Diff struct {
	PresenceMismatch bool
	OnlyLeft         []Clause
	OnlyRight        []Clause
	Changed          []ClauseChange
}

func (d Diff) Empty() bool {
	return !d.PresenceMismatch && len(d.OnlyLeft) == 0 && len(d.OnlyRight) == 0 && len(d.Changed) == 0
}

// Compare checks presence agreement first, then compares clause sets keyed by
// sequence number. Output order of either side does not matter.
func Compare(left, right ChannelObservation) Diff {
	if left.Present != right.Present {
		return Diff{PresenceMismatch: true}
	}
	if !left.Present {
		return Diff{}
	}

	leftBySeq := indexClauses(left.Object.Clauses)
	rightBySeq := indexClauses(right.Object.Clauses)

	var diff Diff
	for _, seq := range sortedSeqs(leftBySeq) {
		leftClause := leftBySeq[seq]
		rightClause, ok := rightBySeq[seq]
		if !ok {
			diff.OnlyLeft = append(diff.OnlyLeft, leftClause.Clone())
			continue
		}
		if !leftClause.Equal(rightClause) {
			diff.Changed = append(diff.Changed, ClauseChange{
				Seq:   seq,
				Left:  leftClause.Clone(),
				Right: rightClause.Clone(),
			})
		}
	}
	for _, seq := range sortedSeqs(rightBySeq) {
		if _, ok := leftBySeq[seq]; !ok {
			diff.OnlyRight = append(diff.OnlyRight, rightBySeq[seq].Clone())
		}
	}

	return diff
}

func indexClauses(clauses []Clause) map[int]Clause {
	indexed := make(map[int]Clause, len(clauses))
	for _, clause := range clauses {
		indexed[clause.Seq] = clause
	}
	return indexed
}

func sortedSeqs(clauses map[int]Clause) []int {
	seqs := make([]int, 0, len(clauses))
	for seq := range clauses {
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)
	return seqs
}

type StepRef struct {
	Index     int
	Name      string
	Attempt   int
	Operation string
}

// DivergenceRecord pairs two observations taken for the same step.
type DivergenceRecord struct {
	Step       StepRef
	Expected   Expectation
	Left       ChannelObservation
	Right      ChannelObservation
	Consistent bool
	Diff       Diff
	RecordedAt time.Time
}

func NewDivergenceRecord(step StepRef, expected Expectation, left, right ChannelObservation, at time.Time) DivergenceRecord {
	diff := Compare(left, right)
	return DivergenceRecord{
		Step:       step,
		Expected:   Expectation{Present: expected.Present, Object: expected.Object.Clone()},
		Left:       left,
		Right:      right,
		Consistent: diff.Empty(),
		Diff:       diff,
		RecordedAt: at,
	}
}
