package event

import (
	"io"

	"github.com/quicquam/opennlp4net-sub003/alg/model"
)

// Sequence is the event sequence of one sample (a sentence), in token
// order. Source keeps the sample the events were generated from.
type Sequence struct {
	Events []*Event
	Source interface{}
}

// SequenceStream streams the sequences of a corpus. UpdateContext decodes
// the source of seq with m and returns the events the decoder saw: the
// predicted outcome at every position together with the context generated
// under the predicted history.
type SequenceStream interface {
	Read() (*Sequence, error)
	Reset() error
	Close() error
	UpdateContext(seq *Sequence, m *model.Model) ([]*Event, error)
}

// FlattenStream presents the events of a sequence stream one by one, for
// indexing the corpus of a sequence trainer.
type FlattenStream struct {
	Sequences SequenceStream
	current   []*Event
	pos       int
}

var _ Stream = &FlattenStream{}

func NewFlattenStream(sequences SequenceStream) *FlattenStream {
	return &FlattenStream{Sequences: sequences}
}

func (f *FlattenStream) Read() (*Event, error) {
	for f.pos >= len(f.current) {
		seq, err := f.Sequences.Read()
		if err != nil {
			return nil, err
		}
		f.current, f.pos = seq.Events, 0
	}
	f.pos++
	return f.current[f.pos-1], nil
}

func (f *FlattenStream) Reset() error {
	f.current, f.pos = nil, 0
	return f.Sequences.Reset()
}

func (f *FlattenStream) Close() error {
	return f.Sequences.Close()
}

// ReadSequences drains a sequence stream from its current position.
func ReadSequences(s SequenceStream) ([]*Sequence, error) {
	retval := make([]*Sequence, 0, 64)
	for {
		seq, err := s.Read()
		if err == io.EOF {
			return retval, nil
		}
		if err != nil {
			return retval, err
		}
		retval = append(retval, seq)
	}
}
