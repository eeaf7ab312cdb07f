package indexer

import (
	"bufio"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/quicquam/opennlp4net-sub003/alg/event"
)

// TwoPass counts predicates while spooling the events to a temporary
// file, then indexes the spooled events against the frozen predicate
// table. Only the indexed events are held in memory.
type TwoPass struct {
	Cutoff  int
	Sort    bool
	Log     bool
	TempDir string
}

var _ Interface = &TwoPass{}

func (t *TwoPass) Index(stream event.Stream) (*Indexed, error) {
	spool, err := os.CreateTemp(t.TempDir, "events-*.msgpack")
	if err != nil {
		return nil, errors.Wrap(err, "creating event spool")
	}
	defer os.Remove(spool.Name())
	defer spool.Close()

	if t.Log {
		log.Println("Indexing events using cutoff of", t.Cutoff)
		log.Println("Computing event counts...")
	}
	c := newCounts(t.Cutoff)
	w := bufio.NewWriter(spool)
	enc := msgpack.NewEncoder(w)
	for {
		e, err := readEvent(stream, c.numEvents)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		c.update(e)
		if err := enc.Encode(e); err != nil {
			return nil, errors.Wrap(err, "spooling event")
		}
	}
	if err := w.Flush(); err != nil {
		return nil, errors.Wrap(err, "spooling events")
	}
	predicates, predCounts := c.predicateTable()
	if t.Log {
		log.Println("done.", c.numEvents, "events")
		log.Println("Indexing...")
	}

	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewinding event spool")
	}
	dec := msgpack.NewDecoder(bufio.NewReader(spool))
	b := newBuilder(predicates, c.numEvents, t.Log)
	for i := 0; i < c.numEvents; i++ {
		e := &event.Event{}
		if err := dec.Decode(e); err != nil {
			return nil, errors.Wrapf(err, "reading spooled event %d", i+1)
		}
		b.add(e)
	}
	d := b.finish(t.Sort, predCounts)
	if t.Log {
		log.Println("Done indexing:", len(d.PredLabels), "predicates,", len(d.OutcomeLabels), "outcomes,", b.dropped, "events dropped")
	}
	return d, nil
}
