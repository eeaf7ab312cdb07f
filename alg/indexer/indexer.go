package indexer

import (
	"io"
	"log"
	"sort"

	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
	"github.com/quicquam/opennlp4net-sub003/util"
)

const APPROX_PREDICATES = 1024

// Indexed is the compact training view of an event stream: unique events
// with the number of times each was seen, and the predicate and outcome
// tables the integer ids refer to.
type Indexed struct {
	Contexts           [][]int
	Values             [][]float64
	OutcomeList        []int
	NumTimesEventsSeen []int
	PredLabels         []string
	OutcomeLabels      []string
	PredCounts         []int
}

// NumEvents is the number of events before merging.
func (d *Indexed) NumEvents() int {
	var n int
	for _, seen := range d.NumTimesEventsSeen {
		n += seen
	}
	return n
}

func (d *Indexed) NumUniqueEvents() int {
	return len(d.Contexts)
}

// HasValues reports whether any unique event carries real values.
func (d *Indexed) HasValues() bool {
	for _, v := range d.Values {
		if v != nil {
			return true
		}
	}
	return false
}

type Interface interface {
	Index(stream event.Stream) (*Indexed, error)
}

// counts accumulates predicate frequencies and the predicates that reach
// the cutoff, in the order they are first seen.
type counts struct {
	cutoff    int
	counter   map[string]int
	survivors []string
	numEvents int
}

func newCounts(cutoff int) *counts {
	return &counts{cutoff: cutoff, counter: make(map[string]int, APPROX_PREDICATES)}
}

func (c *counts) update(e *event.Event) {
	c.numEvents++
	for _, pred := range e.Context {
		c.counter[pred]++
		if c.counter[pred] == c.cutoff || (c.cutoff <= 0 && c.counter[pred] == 1) {
			c.survivors = append(c.survivors, pred)
		}
	}
}

func (c *counts) predicateTable() (*util.EnumSet, []int) {
	table := util.NewEnumSet(len(c.survivors))
	predCounts := make([]int, len(c.survivors))
	for i, pred := range c.survivors {
		table.Add(pred)
		predCounts[i] = c.counter[pred]
	}
	table.Frozen = true
	return table, predCounts
}

func readEvent(stream event.Stream, n int) (*event.Event, error) {
	e, err := stream.Read()
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading event %d", n+1)
	}
	if err := e.Validate(); err != nil {
		return nil, errors.Wrapf(err, "event %d", n+1)
	}
	return e, nil
}

// builder turns events into comparable events against a frozen predicate
// table, assigning outcome ids as outcomes are first seen.
type builder struct {
	predicates *util.EnumSet
	outcomes   *util.EnumSet
	events     []*ComparableEvent
	dropped    int
	log        bool
}

func newBuilder(predicates *util.EnumSet, numEvents int, verbose bool) *builder {
	return &builder{
		predicates: predicates,
		outcomes:   util.NewEnumSet(16),
		events:     make([]*ComparableEvent, 0, numEvents),
		log:        verbose,
	}
}

func (b *builder) add(e *event.Event) {
	outcome, _ := b.outcomes.Add(e.Outcome)
	indexed := make([]int, 0, len(e.Context))
	var values []float64
	if e.Values != nil {
		values = make([]float64, 0, len(e.Context))
	}
	for i, pred := range e.Context {
		if pid, exists := b.predicates.IndexOf(pred); exists {
			indexed = append(indexed, pid)
			if values != nil {
				values = append(values, e.Values[i])
			}
		}
	}
	if len(indexed) == 0 {
		b.dropped++
		if b.log {
			log.Println("Dropped event", e.Outcome+":", e.Context)
		}
		return
	}
	b.events = append(b.events, NewComparableEvent(outcome, indexed, values))
}

// finish merges identical events when merge is set and lays the result
// out as an Indexed.
func (b *builder) finish(merge bool, predCounts []int) *Indexed {
	events := b.events
	if merge && len(events) > 0 {
		sort.Stable(comparableEvents(events))
		unique := events[:1]
		for _, ce := range events[1:] {
			last := unique[len(unique)-1]
			if ce.Compare(last) == 0 {
				last.SeenCount++
				continue
			}
			unique = append(unique, ce)
		}
		if b.log {
			log.Printf("Sorting and merging events... done. Reduced %d events to %d.", len(events), len(unique))
		}
		events = unique
	}
	d := &Indexed{
		Contexts:           make([][]int, len(events)),
		Values:             make([][]float64, len(events)),
		OutcomeList:        make([]int, len(events)),
		NumTimesEventsSeen: make([]int, len(events)),
		PredLabels:         b.predicates.Values(),
		OutcomeLabels:      b.outcomes.Values(),
		PredCounts:         predCounts,
	}
	for i, ce := range events {
		d.Contexts[i] = ce.PredIndexes
		d.Values[i] = ce.Values
		d.OutcomeList[i] = ce.Outcome
		d.NumTimesEventsSeen[i] = ce.SeenCount
	}
	return d
}
