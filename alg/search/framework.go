package search

import (
	"fmt"
	"math"
	"strings"
)

// ZeroLog is the default floor on sequence scores; sequences scoring at or
// below it are discarded.
const ZeroLog = -100000.0

// ContextGenerator produces the features for position i of sequence, given
// the outcomes decided so far. additional carries per call data specific to
// the generator (tags for a chunker, adaptive features for a name finder).
type ContextGenerator interface {
	Context(i int, sequence []string, priorDecisions []string, additional interface{}) []string
}

// ContextGeneratorFunc adapts a function to a ContextGenerator.
type ContextGeneratorFunc func(i int, sequence []string, priorDecisions []string, additional interface{}) []string

func (f ContextGeneratorFunc) Context(i int, sequence []string, priorDecisions []string, additional interface{}) []string {
	return f(i, sequence, priorDecisions, additional)
}

// SequenceValidator rejects outcomes that may not extend outcomesSoFar at
// position i.
type SequenceValidator interface {
	ValidSequence(i int, sequence []string, outcomesSoFar []string, outcome string) bool
}

// SequenceValidatorFunc adapts a function to a SequenceValidator.
type SequenceValidatorFunc func(i int, sequence []string, outcomesSoFar []string, outcome string) bool

func (f SequenceValidatorFunc) ValidSequence(i int, sequence []string, outcomesSoFar []string, outcome string) bool {
	return f(i, sequence, outcomesSoFar, outcome)
}

// AllValid accepts every outcome.
var AllValid SequenceValidator = SequenceValidatorFunc(func(int, []string, []string, string) bool { return true })

// Model is the part of an outcome model the decoder needs.
type Model interface {
	Eval(context []string) []float64
	Outcome(i int) string
	NumOutcomes() int
}

// Sequence is a (partial) labeling with the probability of every decision
// and the sum of their logs.
type Sequence struct {
	Outcomes []string
	Probs    []float64
	Score    float64
}

func NewSequence() *Sequence {
	return &Sequence{Outcomes: []string{}, Probs: []float64{}}
}

// Extend returns a copy of s with outcome appended at probability p.
func (s *Sequence) Extend(outcome string, p float64) *Sequence {
	n := len(s.Outcomes)
	ext := &Sequence{
		Outcomes: make([]string, n, n+1),
		Probs:    make([]float64, n, n+1),
		Score:    s.Score + math.Log(p),
	}
	copy(ext.Outcomes, s.Outcomes)
	copy(ext.Probs, s.Probs)
	ext.Outcomes = append(ext.Outcomes, outcome)
	ext.Probs = append(ext.Probs, p)
	return ext
}

func (s *Sequence) Len() int {
	return len(s.Outcomes)
}

func (s *Sequence) Copy() *Sequence {
	return &Sequence{
		Outcomes: append([]string{}, s.Outcomes...),
		Probs:    append([]float64{}, s.Probs...),
		Score:    s.Score,
	}
}

func (s *Sequence) Equal(other *Sequence) bool {
	if len(s.Outcomes) != len(other.Outcomes) {
		return false
	}
	for i, o := range s.Outcomes {
		if other.Outcomes[i] != o {
			return false
		}
	}
	return true
}

func (s *Sequence) String() string {
	return fmt.Sprintf("%v [%s]", s.Score, strings.Join(s.Outcomes, " "))
}
