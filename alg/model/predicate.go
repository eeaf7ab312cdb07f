package model

import (
	"sort"
	"strconv"
	"strings"
)

// ComparablePredicate is a predicate with its active outcomes and
// parameters, ordered by outcome pattern so predicates sharing a pattern
// end up adjacent in a model file.
type ComparablePredicate struct {
	Name     string
	Outcomes []int
	Params   []float64
}

// Compare orders by outcome ids element by element, then by length.
func (c *ComparablePredicate) Compare(other *ComparablePredicate) int {
	smaller := len(c.Outcomes)
	if len(other.Outcomes) < smaller {
		smaller = len(other.Outcomes)
	}
	for i := 0; i < smaller; i++ {
		switch {
		case c.Outcomes[i] < other.Outcomes[i]:
			return -1
		case c.Outcomes[i] > other.Outcomes[i]:
			return 1
		}
	}
	switch {
	case len(c.Outcomes) < len(other.Outcomes):
		return -1
	case len(c.Outcomes) > len(other.Outcomes):
		return 1
	}
	return 0
}

func (c *ComparablePredicate) SamePattern(other *ComparablePredicate) bool {
	return c.Compare(other) == 0
}

// String renders the outcome pattern as " o1 o2 ...", the pattern line
// suffix of a model file.
func (c *ComparablePredicate) String() string {
	var b strings.Builder
	for _, o := range c.Outcomes {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(o))
	}
	return b.String()
}

type ComparablePredicates []*ComparablePredicate

func (p ComparablePredicates) Len() int           { return len(p) }
func (p ComparablePredicates) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p ComparablePredicates) Less(i, j int) bool { return p[i].Compare(p[j]) < 0 }

// SortedPredicates lists the predicates of m ordered by outcome pattern.
// Perceptron models drop zero parameters and predicates left without any.
func SortedPredicates(m *Model) ComparablePredicates {
	labels := m.Predicates()
	sorted := make(ComparablePredicates, 0, len(labels))
	for pid, c := range m.params.Params {
		outcomes, params := c.Outcomes, c.Parameters
		if m.kind == Perceptron {
			outcomes, params = nonZero(c)
			if len(outcomes) == 0 {
				continue
			}
		}
		sorted = append(sorted, &ComparablePredicate{labels[pid], outcomes, params})
	}
	sort.Stable(sorted)
	return sorted
}

func nonZero(c *Context) ([]int, []float64) {
	outcomes := make([]int, 0, len(c.Outcomes))
	params := make([]float64, 0, len(c.Parameters))
	for i, p := range c.Parameters {
		if p != 0 {
			outcomes = append(outcomes, c.Outcomes[i])
			params = append(params, p)
		}
	}
	return outcomes, params
}

// CompressOutcomes groups runs of sorted predicates that share an outcome
// pattern.
func CompressOutcomes(sorted ComparablePredicates) []ComparablePredicates {
	if len(sorted) == 0 {
		return nil
	}
	groups := make([]ComparablePredicates, 0, 8)
	current := ComparablePredicates{sorted[0]}
	for _, p := range sorted[1:] {
		if current[0].SamePattern(p) {
			current = append(current, p)
			continue
		}
		groups = append(groups, current)
		current = ComparablePredicates{p}
	}
	return append(groups, current)
}
