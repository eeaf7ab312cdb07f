package indexer

import (
	"sort"
)

// ComparableEvent is an indexed event. PredIndexes are kept sorted, with
// Values (nil when every value is 1) permuted alongside.
type ComparableEvent struct {
	Outcome     int
	PredIndexes []int
	Values      []float64
	SeenCount   int
}

func NewComparableEvent(outcome int, predIndexes []int, values []float64) *ComparableEvent {
	ce := &ComparableEvent{outcome, predIndexes, values, 1}
	sort.Stable(ce)
	return ce
}

// sort.Interface over the predicates of the event
func (ce *ComparableEvent) Len() int           { return len(ce.PredIndexes) }
func (ce *ComparableEvent) Less(i, j int) bool { return ce.PredIndexes[i] < ce.PredIndexes[j] }
func (ce *ComparableEvent) Swap(i, j int) {
	ce.PredIndexes[i], ce.PredIndexes[j] = ce.PredIndexes[j], ce.PredIndexes[i]
	if ce.Values != nil {
		ce.Values[i], ce.Values[j] = ce.Values[j], ce.Values[i]
	}
}

func (ce *ComparableEvent) value(i int) float64 {
	if ce.Values == nil {
		return 1
	}
	return ce.Values[i]
}

// Compare orders by outcome, then predicate by predicate on index and
// value, then by number of predicates.
func (ce *ComparableEvent) Compare(other *ComparableEvent) int {
	switch {
	case ce.Outcome < other.Outcome:
		return -1
	case ce.Outcome > other.Outcome:
		return 1
	}
	smaller := len(ce.PredIndexes)
	if len(other.PredIndexes) < smaller {
		smaller = len(other.PredIndexes)
	}
	for i := 0; i < smaller; i++ {
		switch {
		case ce.PredIndexes[i] < other.PredIndexes[i]:
			return -1
		case ce.PredIndexes[i] > other.PredIndexes[i]:
			return 1
		}
		switch v, ov := ce.value(i), other.value(i); {
		case v < ov:
			return -1
		case v > ov:
			return 1
		}
	}
	switch {
	case len(ce.PredIndexes) < len(other.PredIndexes):
		return -1
	case len(ce.PredIndexes) > len(other.PredIndexes):
		return 1
	}
	return 0
}

type comparableEvents []*ComparableEvent

func (c comparableEvents) Len() int           { return len(c) }
func (c comparableEvents) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c comparableEvents) Less(i, j int) bool { return c[i].Compare(c[j]) < 0 }
