package indexer

import (
	"io"
	"log"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
)

// OnePass keeps every event in memory while counting predicates, then
// indexes them against the predicates that reached Cutoff. Sort merges
// identical events; without it event order is preserved and every event
// is seen once, as the perceptron trainer needs.
type OnePass struct {
	Cutoff int
	Sort   bool
	Log    bool
}

var _ Interface = &OnePass{}

func (o *OnePass) Index(stream event.Stream) (*Indexed, error) {
	if o.Log {
		log.Println("Indexing events using cutoff of", o.Cutoff)
		log.Println("Computing event counts...")
	}
	c := newCounts(o.Cutoff)
	events := make([]*event.Event, 0, 1024)
	for {
		e, err := readEvent(stream, c.numEvents)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		c.update(e)
		events = append(events, e)
	}
	predicates, predCounts := c.predicateTable()
	if o.Log {
		log.Println("done.", len(events), "events")
		log.Println("Indexing...")
	}
	b := newBuilder(predicates, len(events), o.Log)
	for _, e := range events {
		b.add(e)
	}
	d := b.finish(o.Sort, predCounts)
	if o.Log {
		log.Println("Done indexing:", len(d.PredLabels), "predicates,", len(d.OutcomeLabels), "outcomes,", b.dropped, "events dropped")
	}
	return d, nil
}
