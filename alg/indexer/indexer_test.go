package indexer

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
)

func toyEvents() []*event.Event {
	events := make([]*event.Event, 0, 10)
	for i := 0; i < 5; i++ {
		events = append(events, event.New("A", []string{"f1", "f3"}))
		events = append(events, event.New("B", []string{"f3", "f2"}))
	}
	return events
}

func indexers(cutoff int, sort bool) map[string]Interface {
	return map[string]Interface{
		"one pass": &OnePass{Cutoff: cutoff, Sort: sort},
		"two pass": &TwoPass{Cutoff: cutoff, Sort: sort},
	}
}

func TestIndexMerges(t *testing.T) {
	for name, idx := range indexers(1, true) {
		d, err := idx.Index(event.NewSliceStream(toyEvents()))
		if err != nil {
			t.Fatal(name, err)
		}
		if d.NumUniqueEvents() != 2 || d.NumEvents() != 10 {
			t.Error(name, "got", d.NumUniqueEvents(), "unique of", d.NumEvents(), "expected 2 of 10")
		}
		if !reflect.DeepEqual(d.PredLabels, []string{"f1", "f3", "f2"}) {
			t.Error(name, "got predicates", d.PredLabels)
		}
		if !reflect.DeepEqual(d.OutcomeLabels, []string{"A", "B"}) {
			t.Error(name, "got outcomes", d.OutcomeLabels)
		}
		if !reflect.DeepEqual(d.PredCounts, []int{5, 10, 5}) {
			t.Error(name, "got predicate counts", d.PredCounts)
		}
		// A: f1(0) f3(1); B: f3(1) f2(2) sorted by predicate id
		if !reflect.DeepEqual(d.Contexts, [][]int{{0, 1}, {1, 2}}) {
			t.Error(name, "got contexts", d.Contexts)
		}
		if !reflect.DeepEqual(d.OutcomeList, []int{0, 1}) || !reflect.DeepEqual(d.NumTimesEventsSeen, []int{5, 5}) {
			t.Error(name, "got outcomes", d.OutcomeList, "seen", d.NumTimesEventsSeen)
		}
		if d.HasValues() {
			t.Error(name, "unexpected values")
		}
	}
}

func TestIndexCutoff(t *testing.T) {
	events := append(toyEvents(), event.New("C", []string{"rare"}), event.New("A", []string{"f1", "rare2"}))
	for name, idx := range indexers(2, true) {
		d, err := idx.Index(event.NewSliceStream(events))
		if err != nil {
			t.Fatal(name, err)
		}
		for _, pred := range d.PredLabels {
			if pred == "rare" || pred == "rare2" {
				t.Error(name, "predicate", pred, "should have been cut off")
			}
		}
		// the event of C has no surviving predicate and the extra A event
		// keeps only f1
		if d.NumEvents() != 11 || d.NumUniqueEvents() != 3 {
			t.Error(name, "got", d.NumUniqueEvents(), "unique of", d.NumEvents(), "expected 3 of 11")
		}
		if len(d.OutcomeLabels) != 3 {
			t.Error(name, "got outcomes", d.OutcomeLabels)
		}
	}
}

func TestIndexWithoutSort(t *testing.T) {
	for name, idx := range indexers(1, false) {
		d, err := idx.Index(event.NewSliceStream(toyEvents()))
		if err != nil {
			t.Fatal(name, err)
		}
		if d.NumUniqueEvents() != 10 {
			t.Fatal(name, "got", d.NumUniqueEvents(), "events expected 10")
		}
		for i, oid := range d.OutcomeList {
			if oid != i%2 || d.NumTimesEventsSeen[i] != 1 {
				t.Error(name, "event", i, "got outcome", oid, "seen", d.NumTimesEventsSeen[i])
			}
		}
	}
}

func TestIndexValues(t *testing.T) {
	events := []*event.Event{
		event.NewWithValues("A", []string{"b", "a"}, []float64{2, 0.5}),
		event.NewWithValues("A", []string{"a", "b"}, []float64{0.5, 2}),
		event.NewWithValues("A", []string{"a", "b"}, []float64{1, 2}),
	}
	for name, idx := range indexers(0, true) {
		d, err := idx.Index(event.NewSliceStream(events))
		if err != nil {
			t.Fatal(name, err)
		}
		if d.NumUniqueEvents() != 2 {
			t.Fatal(name, "got", d.NumUniqueEvents(), "unique events expected 2")
		}
		// predicate b is seen first and gets id 0
		if !reflect.DeepEqual(d.Values[0], []float64{2, 0.5}) || d.NumTimesEventsSeen[0] != 2 {
			t.Error(name, "got values", d.Values[0], "seen", d.NumTimesEventsSeen[0])
		}
		if !d.HasValues() {
			t.Error(name, "expected values")
		}
	}
}

func TestIndexMalformed(t *testing.T) {
	events := []*event.Event{
		event.New("A", []string{"f1"}),
		event.NewWithValues("B", []string{"f1", "f2"}, []float64{1}),
	}
	for name, idx := range indexers(0, true) {
		_, err := idx.Index(event.NewSliceStream(events))
		var me *event.MalformedEventError
		if !errors.As(err, &me) {
			t.Error(name, "got", err, "expected MalformedEventError")
		}
	}
}

func TestComparableEvent(t *testing.T) {
	ce := NewComparableEvent(0, []int{3, 1, 2}, []float64{0.3, 0.1, 0.2})
	if !reflect.DeepEqual(ce.PredIndexes, []int{1, 2, 3}) || !reflect.DeepEqual(ce.Values, []float64{0.1, 0.2, 0.3}) {
		t.Error("Got", ce.PredIndexes, ce.Values)
	}
	a := NewComparableEvent(0, []int{1, 2}, nil)
	b := NewComparableEvent(0, []int{1, 2}, []float64{1, 1})
	if a.Compare(b) != 0 {
		t.Error("Missing values should compare as 1")
	}
	c := NewComparableEvent(0, []int{1, 2, 3}, nil)
	d := NewComparableEvent(1, []int{0}, nil)
	if a.Compare(c) >= 0 || c.Compare(d) >= 0 || d.Compare(a) <= 0 {
		t.Error("Unexpected event order")
	}
	e := NewComparableEvent(0, []int{1, 2}, []float64{1, 0.5})
	if e.Compare(a) >= 0 {
		t.Error("Smaller value should order first")
	}
}
